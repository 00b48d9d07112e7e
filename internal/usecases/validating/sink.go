package validating

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
	"github.com/vfg2006/ads-warehouse-sync/pkg/utils"
)

// InvalidRecord empacota um registro rejeitado com os problemas que o
// invalidaram, para inspeção posterior
type InvalidRecord struct {
	Record domain.RawInsight `json:"record"`
	Issues []FieldIssue      `json:"issues"`
}

// InvalidRecordSink persiste registros rejeitados pela validação
type InvalidRecordSink interface {
	Persist(records []*InvalidRecord) error
}

type fileSink struct {
	dir string
}

// NewFileSink grava os registros rejeitados em arquivos
// invalid_records_{timestamp}.json no diretório informado
func NewFileSink(dir string) InvalidRecordSink {
	return &fileSink{dir: dir}
}

func (s *fileSink) Persist(records []*InvalidRecord) error {
	if len(records) == 0 {
		return nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "erro ao criar diretório de registros inválidos")
	}

	filename := fmt.Sprintf("invalid_records_%s.json", time.Now().Format("20060102_150405"))
	path := filepath.Join(s.dir, filename)

	if err := os.WriteFile(path, []byte(utils.PrettyJson(records)), 0o644); err != nil {
		return errors.Wrap(err, "erro ao salvar registros inválidos")
	}

	logrus.WithFields(logrus.Fields{
		"records": len(records),
		"file":    path,
	}).Warn("validação: registros inválidos salvos para inspeção")

	return nil
}
