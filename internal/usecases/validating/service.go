package validating

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-warehouse-sync/internal/config"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
	"github.com/vfg2006/ads-warehouse-sync/pkg/utils"
)

// Result separa os registros de um lote em válidos e inválidos
type Result struct {
	Valid   []*domain.ValidatedInsight
	Invalid []*InvalidRecord
}

// InvalidRatio retorna a fração de registros inválidos do lote
func (r *Result) InvalidRatio() float64 {
	total := len(r.Valid) + len(r.Invalid)
	if total == 0 {
		return 0
	}

	return float64(len(r.Invalid)) / float64(total)
}

// Validator verifica registros brutos da Meta API contra o esquema canônico
// de insights e os converte para os tipos declarados
type Validator interface {
	ValidateRecord(record domain.RawInsight) (*domain.ValidatedInsight, *ValidationError)
	ValidateBatch(records []domain.RawInsight) (*Result, error)
}

type validator struct {
	maxInvalidRatio float64
	sink            InvalidRecordSink
}

func NewValidator(cfg *config.Config, sink InvalidRecordSink) Validator {
	return &validator{
		maxInvalidRatio: cfg.Pipeline.MaxInvalidRatio,
		sink:            sink,
	}
}

// ValidateRecord valida um registro contra o esquema. Todos os campos com
// problema entram no erro, não apenas o primeiro. O registro de entrada
// nunca é modificado.
func (v *validator) ValidateRecord(record domain.RawInsight) (*domain.ValidatedInsight, *ValidationError) {
	verr := &ValidationError{AdID: record.AdID(), DateStart: record.DateStart()}
	fields := make(map[string]any, len(record))

	for _, name := range domain.InsightFieldOrder {
		spec := domain.InsightSchema[name]

		raw, present := record[name]
		if !present || raw == nil {
			if spec.Required {
				verr.Add(name, "campo obrigatório ausente")
			}
			continue
		}

		if spec.Nested {
			converted, issues := coerceActionList(name, spec, raw)
			if len(issues) > 0 {
				verr.Issues = append(verr.Issues, issues...)
				continue
			}
			fields[name] = converted
			continue
		}

		switch spec.Kind {
		case domain.FieldFloat:
			value, err := coerceFloat(raw)
			if err != nil {
				verr.Add(name, err.Error())
				continue
			}
			fields[name] = value

		case domain.FieldInt:
			value, err := coerceInt(raw)
			if err != nil {
				verr.Add(name, err.Error())
				continue
			}
			fields[name] = value

		case domain.FieldDate:
			value, err := coerceDate(raw)
			if err != nil {
				verr.Add(name, err.Error())
				continue
			}
			fields[name] = value

		default:
			value, ok := raw.(string)
			if !ok {
				verr.Add(name, fmt.Sprintf("valor não é texto: %T", raw))
				continue
			}
			fields[name] = value
		}
	}

	if len(verr.Issues) > 0 {
		return nil, verr
	}

	validated := &domain.ValidatedInsight{
		AccountID: fields["account_id"].(string),
		AdID:      fields["ad_id"].(string),
		DateStart: fields["date_start"].(string),
		DateStop:  fields["date_stop"].(string),
		Fields:    fields,
	}

	// As chaves ficam nos campos nomeados, fora do mapa
	delete(fields, "account_id")
	delete(fields, "ad_id")
	delete(fields, "date_start")
	delete(fields, "date_stop")

	return validated, nil
}

// ValidateBatch categoriza o lote em válidos e inválidos. Os inválidos vão
// para o sink de inspeção; quando a fração de inválidos passa do limite
// configurado o lote inteiro é abortado com erro.
func (v *validator) ValidateBatch(records []domain.RawInsight) (*Result, error) {
	result := &Result{Valid: make([]*domain.ValidatedInsight, 0, len(records))}

	for _, record := range records {
		validated, verr := v.ValidateRecord(record)
		if verr != nil {
			logrus.WithFields(logrus.Fields{
				"ad_id":      verr.AdID,
				"date_start": verr.DateStart,
			}).Warn("validação: ", verr.Error())

			result.Invalid = append(result.Invalid, &InvalidRecord{Record: record, Issues: verr.Issues})
			continue
		}

		result.Valid = append(result.Valid, validated)
	}

	logrus.WithFields(logrus.Fields{
		"valid":   len(result.Valid),
		"invalid": len(result.Invalid),
	}).Info("validação: lote categorizado")

	if len(result.Invalid) > 0 && v.sink != nil {
		if err := v.sink.Persist(result.Invalid); err != nil {
			logrus.WithError(err).Warn("validação: não foi possível salvar os registros inválidos")
		}
	}

	if ratio := result.InvalidRatio(); ratio > v.maxInvalidRatio {
		return result, errors.Errorf(
			"taxa de registros inválidos %.2f acima do limite %.2f: lote abortado",
			ratio, v.maxInvalidRatio,
		)
	}

	return result, nil
}

func coerceFloat(raw any) (float64, error) {
	switch value := raw.(type) {
	case float64:
		return value, nil
	case int:
		return float64(value), nil
	case int64:
		return float64(value), nil
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("valor não é numérico: %q", value)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("valor não é numérico: %T", raw)
	}
}

func coerceInt(raw any) (int64, error) {
	switch value := raw.(type) {
	case int:
		return int64(value), nil
	case int64:
		return value, nil
	case float64:
		if value != math.Trunc(value) {
			return 0, fmt.Errorf("valor não é inteiro: %v", value)
		}
		return int64(value), nil
	case string:
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("valor não é inteiro: %q", value)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("valor não é inteiro: %T", raw)
	}
}

func coerceDate(raw any) (string, error) {
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("data não é texto: %T", raw)
	}

	if _, err := time.Parse(utils.DateLayout, value); err != nil {
		return "", fmt.Errorf("data fora do formato %s: %q", utils.DateLayout, value)
	}

	return value, nil
}

// coerceActionList converte uma lista de pares action_type/value para o
// tipo declarado do campo. Qualquer item fora do formato invalida o campo.
func coerceActionList(name string, spec domain.FieldSpec, raw any) (any, []FieldIssue) {
	list, ok := raw.([]any)
	if !ok {
		return nil, []FieldIssue{{Field: name, Reason: fmt.Sprintf("valor não é uma lista: %T", raw)}}
	}

	var issues []FieldIssue

	entryValue := func(idx int, item any) (string, any, bool) {
		entry, ok := item.(map[string]any)
		if !ok {
			issues = append(issues, FieldIssue{Field: name, Reason: fmt.Sprintf("item %d não é um objeto: %T", idx, item)})
			return "", nil, false
		}

		actionType, ok := entry["action_type"].(string)
		if !ok {
			issues = append(issues, FieldIssue{Field: name, Reason: fmt.Sprintf("item %d sem action_type", idx)})
			return "", nil, false
		}

		value, ok := entry["value"]
		if !ok {
			issues = append(issues, FieldIssue{Field: name, Reason: fmt.Sprintf("item %d sem value", idx)})
			return "", nil, false
		}

		return actionType, value, true
	}

	if spec.Kind == domain.FieldFloat {
		metrics := make([]domain.ActionMetric, 0, len(list))
		for idx, item := range list {
			actionType, rawValue, ok := entryValue(idx, item)
			if !ok {
				continue
			}

			value, err := coerceFloat(rawValue)
			if err != nil {
				issues = append(issues, FieldIssue{Field: name, Reason: fmt.Sprintf("item %d: %v", idx, err)})
				continue
			}

			metrics = append(metrics, domain.ActionMetric{ActionType: actionType, Value: value})
		}

		if len(issues) > 0 {
			return nil, issues
		}
		return metrics, nil
	}

	counts := make([]domain.ActionCount, 0, len(list))
	for idx, item := range list {
		actionType, rawValue, ok := entryValue(idx, item)
		if !ok {
			continue
		}

		value, err := coerceInt(rawValue)
		if err != nil {
			issues = append(issues, FieldIssue{Field: name, Reason: fmt.Sprintf("item %d: %v", idx, err)})
			continue
		}

		counts = append(counts, domain.ActionCount{ActionType: actionType, Value: value})
	}

	if len(issues) > 0 {
		return nil, issues
	}
	return counts, nil
}
