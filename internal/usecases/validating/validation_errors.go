package validating

import (
	"fmt"
	"strings"
)

// FieldIssue descreve um problema encontrado num campo do registro
type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (i FieldIssue) String() string {
	return fmt.Sprintf("campo %s: %s", i.Field, i.Reason)
}

// ValidationError acumula todos os problemas de um registro. Um registro
// com vários campos inválidos gera um único erro enumerando cada campo.
type ValidationError struct {
	AdID      string
	DateStart string
	Issues    []FieldIssue
}

func (e *ValidationError) Error() string {
	issues := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		issues = append(issues, issue.String())
	}

	return fmt.Sprintf("registro inválido (ad_id=%s, date_start=%s): %s", e.AdID, e.DateStart, strings.Join(issues, "; "))
}

// Add registra mais um problema no erro
func (e *ValidationError) Add(field, reason string) {
	e.Issues = append(e.Issues, FieldIssue{Field: field, Reason: reason})
}
