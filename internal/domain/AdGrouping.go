package domain

import "strings"

// PlatformMeta identifica agrupamentos da plataforma Meta na tabela
// ad_grouping
const PlatformMeta = "Meta"

// AdGrouping é a referência de agrupamento de anúncios por cliente, mantida
// manualmente no warehouse. Cada agrupamento casa anúncios pelo nome do
// conjunto (adset_name contém ad_set_contains) e define até três KPIs
// separados por vírgula em kpi_event/kpi_custom_code.
type AdGrouping struct {
	ClientID       string   `json:"client_id" bigquery:"client_id"`
	ReportingGroup *string  `json:"reporting_group,omitempty" bigquery:"reporting_group"`
	Platform       string   `json:"platform" bigquery:"platform"`
	AdSetContains  string   `json:"ad_set_contains" bigquery:"ad_set_contains"`
	KPIEvent       *string  `json:"kpi_event,omitempty" bigquery:"kpi_event"`
	KPICustomCode  *string  `json:"kpi_custom_code,omitempty" bigquery:"kpi_custom_code"`
	KPIGoal        *float64 `json:"kpi_goal,omitempty" bigquery:"kpi_goal"`
	Budget         *float64 `json:"budget,omitempty" bigquery:"budget"`
}

// MaxKPIsPerGrouping limita quantos KPIs de um agrupamento são mapeados
// para colunas do rollup
const MaxKPIsPerGrouping = 3

// KPINames retorna os nomes de KPI do agrupamento: kpi_custom_code tem
// prioridade sobre kpi_event; a string é separada por vírgulas e aparada,
// limitada a MaxKPIsPerGrouping entradas.
func (g *AdGrouping) KPINames() []string {
	var raw string
	if g.KPICustomCode != nil && *g.KPICustomCode != "" {
		raw = *g.KPICustomCode
	} else if g.KPIEvent != nil {
		raw = *g.KPIEvent
	}

	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	names := make([]string, 0, MaxKPIsPerGrouping)
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}

		names = append(names, name)
		if len(names) == MaxKPIsPerGrouping {
			break
		}
	}

	return names
}

// MatchesAdset indica se um adset casa com o agrupamento, comparando sem
// diferenciar maiúsculas (UPPER(adset_name) LIKE %UPPER(ad_set_contains)%)
func (g *AdGrouping) MatchesAdset(adsetName string) bool {
	if g.AdSetContains == "" || adsetName == "" {
		return false
	}

	return strings.Contains(strings.ToUpper(adsetName), strings.ToUpper(g.AdSetContains))
}
