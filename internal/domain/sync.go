package domain

import (
	"time"

	"github.com/pkg/errors"
)

// DateRange é um intervalo de datas inclusivo nas duas pontas
type DateRange struct {
	Since time.Time
	Until time.Time
}

// Validate garante que o intervalo é utilizável pela extração
func (r DateRange) Validate() error {
	if r.Since.IsZero() || r.Until.IsZero() {
		return errors.New("intervalo de datas incompleto")
	}

	if r.Until.Before(r.Since) {
		return errors.New("data final anterior à data inicial")
	}

	return nil
}

// Label identifica o intervalo em logs e erros de carga, ex.:
// 2024-01-01..2024-01-07
func (r DateRange) Label() string {
	return r.Since.Format(time.DateOnly) + ".." + r.Until.Format(time.DateOnly)
}

// LookbackRange monta o intervalo incremental padrão: os últimos days dias
// terminando ontem
func LookbackRange(now time.Time, days int) DateRange {
	until := now.AddDate(0, 0, -1)
	since := until.AddDate(0, 0, -(days - 1))

	return DateRange{Since: since, Until: until}
}

// SyncSummary resume uma execução da sincronização de insights
type SyncSummary struct {
	Extracted int `json:"extracted"`
	Valid     int `json:"valid"`
	Invalid   int `json:"invalid"`
	Loaded    int `json:"loaded"`
}

// InvalidRatio retorna a fração de registros inválidos da execução
func (s SyncSummary) InvalidRatio() float64 {
	total := s.Valid + s.Invalid
	if total == 0 {
		return 0
	}

	return float64(s.Invalid) / float64(total)
}
