package loading

import "fmt"

// Etapas da carga em que uma falha pode acontecer
const (
	StageEnsureTable = "ensure_table"
	StageMerge       = "merge"
)

// LoadError marca a falha de carga de uma partição. A partição falha
// inteira: a staging é descartada e a tabela final só muda no MERGE, então
// basta repetir a partição completa na próxima execução.
type LoadError struct {
	Table     string
	Partition string
	Stage     string
	Err       error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("falha de carga em %s (partição %s, etapa %s): %v", e.Table, e.Partition, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
