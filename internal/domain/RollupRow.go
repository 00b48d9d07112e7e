package domain

import (
	"fmt"

	"github.com/vfg2006/ads-warehouse-sync/pkg/utils"
)

// RollupRow é a linha diária da tabela ads_rollup: um anúncio casado com um
// agrupamento de cliente, com até três KPIs resolvidos para action_types e
// seus valores extraídos das listas de ações. A chave de merge é
// client_id + "_" + ad_id + "_" + date_start.
type RollupRow struct {
	MergeKey string `json:"merge_key" bigquery:"merge_key"`

	ClientID       string   `json:"client_id" bigquery:"client_id"`
	ReportingGroup *string  `json:"reporting_group,omitempty" bigquery:"reporting_group"`
	KPIGoal        *float64 `json:"kpi_goal,omitempty" bigquery:"kpi_goal"`
	Budget         *float64 `json:"budget,omitempty" bigquery:"budget"`
	Platform       string   `json:"platform" bigquery:"platform"`

	DateStart string `json:"date_start" bigquery:"date_start"`
	DateEnd   string `json:"date_end" bigquery:"date_end"`

	AdName          *string `json:"ad_name,omitempty" bigquery:"ad_name"`
	AccountID       string  `json:"account_id" bigquery:"account_id"`
	AccountName     *string `json:"account_name,omitempty" bigquery:"account_name"`
	AccountCurrency *string `json:"account_currency,omitempty" bigquery:"account_currency"`
	AdID            string  `json:"ad_id" bigquery:"ad_id"`
	AdsetID         *string `json:"adset_id,omitempty" bigquery:"adset_id"`
	AdsetName       *string `json:"adset_name,omitempty" bigquery:"adset_name"`
	CampaignName    *string `json:"campaign_name,omitempty" bigquery:"campaign_name"`

	Impressions *int64   `json:"impressions,omitempty" bigquery:"impressions"`
	Reach       *int64   `json:"reach,omitempty" bigquery:"reach"`
	Frequency   *float64 `json:"frequency,omitempty" bigquery:"frequency"`
	Spend       *float64 `json:"spend,omitempty" bigquery:"spend"`
	Clicks      *int64   `json:"clicks,omitempty" bigquery:"clicks"`
	CPC         *float64 `json:"cpc,omitempty" bigquery:"cpc"`
	CPM         *float64 `json:"cpm,omitempty" bigquery:"cpm"`
	CPP         *float64 `json:"cpp,omitempty" bigquery:"cpp"`
	CTR         *float64 `json:"ctr,omitempty" bigquery:"ctr"`

	UniqueClicks       *int64   `json:"unique_clicks,omitempty" bigquery:"unique_clicks"`
	UniqueCTR          *float64 `json:"unique_ctr,omitempty" bigquery:"unique_ctr"`
	CostPerUniqueClick *float64 `json:"cost_per_unique_click,omitempty" bigquery:"cost_per_unique_click"`
	InlineLinkClicks   *int64   `json:"inline_link_clicks,omitempty" bigquery:"inline_link_clicks"`
	InlineLinkClickCTR *float64 `json:"inline_link_click_ctr,omitempty" bigquery:"inline_link_click_ctr"`

	ActionType0 *string `json:"action_type_0,omitempty" bigquery:"action_type_0"`
	ActionType1 *string `json:"action_type_1,omitempty" bigquery:"action_type_1"`
	ActionType2 *string `json:"action_type_2,omitempty" bigquery:"action_type_2"`

	ActionsValue0 *int64 `json:"actions_value_0,omitempty" bigquery:"actions_value_0"`
	ActionsValue1 *int64 `json:"actions_value_1,omitempty" bigquery:"actions_value_1"`
	ActionsValue2 *int64 `json:"actions_value_2,omitempty" bigquery:"actions_value_2"`

	CostPerActionTypeValue0 *float64 `json:"cost_per_action_type_value_0,omitempty" bigquery:"cost_per_action_type_value_0"`
	CostPerActionTypeValue1 *float64 `json:"cost_per_action_type_value_1,omitempty" bigquery:"cost_per_action_type_value_1"`
	CostPerActionTypeValue2 *float64 `json:"cost_per_action_type_value_2,omitempty" bigquery:"cost_per_action_type_value_2"`

	QualityRanking        *string `json:"quality_ranking,omitempty" bigquery:"quality_ranking"`
	EngagementRateRanking *string `json:"engagement_rate_ranking,omitempty" bigquery:"engagement_rate_ranking"`
	ConversionRateRanking *string `json:"conversion_rate_ranking,omitempty" bigquery:"conversion_rate_ranking"`

	Objective        *string `json:"objective,omitempty" bigquery:"objective"`
	OptimizationGoal *string `json:"optimization_goal,omitempty" bigquery:"optimization_goal"`
}

// BuildRollupMergeKey monta a chave de merge do rollup diário
func BuildRollupMergeKey(clientID, adID, dateStart string) string {
	return fmt.Sprintf("%s_%s_%s", clientID, adID, dateStart)
}

// BuildWeeklyMergeKey monta a chave de merge do rollup semanal
func BuildWeeklyMergeKey(clientID, adID string, isoYear, isoWeek int) string {
	return fmt.Sprintf("%s_%s_%04d_W%02d", clientID, adID, isoYear, isoWeek)
}

// WeeklyRollup agrega linhas diárias de rollup em um balde de semana ISO.
// Somas são mantidas exatas e as métricas derivadas são sempre recalculadas
// a partir delas, para que a agregação incremental produza o mesmo resultado
// da recomputação completa.
type WeeklyRollup struct {
	MergeKey string `json:"merge_key" bigquery:"merge_key"`

	ClientID string `json:"client_id" bigquery:"client_id"`
	AdID     string `json:"ad_id" bigquery:"ad_id"`
	ISOYear  int    `json:"iso_year" bigquery:"iso_year"`
	ISOWeek  int    `json:"iso_week" bigquery:"iso_week"`

	// WeekStart é a menor date_start agregada na semana
	WeekStart string `json:"week_start" bigquery:"week_start"`
	Days      int64  `json:"days" bigquery:"days"`

	Impressions      int64   `json:"impressions" bigquery:"impressions"`
	Reach            int64   `json:"reach" bigquery:"reach"`
	Spend            float64 `json:"spend" bigquery:"spend"`
	Clicks           int64   `json:"clicks" bigquery:"clicks"`
	UniqueClicks     int64   `json:"unique_clicks" bigquery:"unique_clicks"`
	InlineLinkClicks int64   `json:"inline_link_clicks" bigquery:"inline_link_clicks"`

	ActionType0 *string `json:"action_type_0,omitempty" bigquery:"action_type_0"`
	ActionType1 *string `json:"action_type_1,omitempty" bigquery:"action_type_1"`
	ActionType2 *string `json:"action_type_2,omitempty" bigquery:"action_type_2"`

	ActionsValue0 int64 `json:"actions_value_0" bigquery:"actions_value_0"`
	ActionsValue1 int64 `json:"actions_value_1" bigquery:"actions_value_1"`
	ActionsValue2 int64 `json:"actions_value_2" bigquery:"actions_value_2"`

	// Derivadas: recalculadas das somas, nunca somadas diretamente
	CPC       float64 `json:"cpc" bigquery:"cpc"`
	CPM       float64 `json:"cpm" bigquery:"cpm"`
	CTR       float64 `json:"ctr" bigquery:"ctr"`
	Frequency float64 `json:"frequency" bigquery:"frequency"`

	CostPerAction0 float64 `json:"cost_per_action_0" bigquery:"cost_per_action_0"`
	CostPerAction1 float64 `json:"cost_per_action_1" bigquery:"cost_per_action_1"`
	CostPerAction2 float64 `json:"cost_per_action_2" bigquery:"cost_per_action_2"`
}

// NewWeeklyRollup ergue uma linha diária para o balde semanal correspondente
func NewWeeklyRollup(daily *RollupRow) *WeeklyRollup {
	isoYear, isoWeek := utils.ISOWeek(daily.DateStart)

	weekly := &WeeklyRollup{
		MergeKey:  BuildWeeklyMergeKey(daily.ClientID, daily.AdID, isoYear, isoWeek),
		ClientID:  daily.ClientID,
		AdID:      daily.AdID,
		ISOYear:   isoYear,
		ISOWeek:   isoWeek,
		WeekStart: daily.DateStart,
		Days:      1,

		Impressions:      int64Value(daily.Impressions),
		Reach:            int64Value(daily.Reach),
		Spend:            floatValue(daily.Spend),
		Clicks:           int64Value(daily.Clicks),
		UniqueClicks:     int64Value(daily.UniqueClicks),
		InlineLinkClicks: int64Value(daily.InlineLinkClicks),

		ActionType0: daily.ActionType0,
		ActionType1: daily.ActionType1,
		ActionType2: daily.ActionType2,

		ActionsValue0: int64Value(daily.ActionsValue0),
		ActionsValue1: int64Value(daily.ActionsValue1),
		ActionsValue2: int64Value(daily.ActionsValue2),
	}

	weekly.recomputeDerived()

	return weekly
}

// Merge combina dois baldes semanais da mesma chave. A operação é
// associativa e comutativa: somas se somam, WeekStart fica com a menor data
// e os action_types preenchem lacunas.
func (w *WeeklyRollup) Merge(other *WeeklyRollup) *WeeklyRollup {
	if other == nil {
		return w
	}

	merged := &WeeklyRollup{
		MergeKey:  w.MergeKey,
		ClientID:  w.ClientID,
		AdID:      w.AdID,
		ISOYear:   w.ISOYear,
		ISOWeek:   w.ISOWeek,
		WeekStart: minDate(w.WeekStart, other.WeekStart),
		Days:      w.Days + other.Days,

		Impressions:      w.Impressions + other.Impressions,
		Reach:            w.Reach + other.Reach,
		Spend:            w.Spend + other.Spend,
		Clicks:           w.Clicks + other.Clicks,
		UniqueClicks:     w.UniqueClicks + other.UniqueClicks,
		InlineLinkClicks: w.InlineLinkClicks + other.InlineLinkClicks,

		ActionType0: firstNonNil(w.ActionType0, other.ActionType0),
		ActionType1: firstNonNil(w.ActionType1, other.ActionType1),
		ActionType2: firstNonNil(w.ActionType2, other.ActionType2),

		ActionsValue0: w.ActionsValue0 + other.ActionsValue0,
		ActionsValue1: w.ActionsValue1 + other.ActionsValue1,
		ActionsValue2: w.ActionsValue2 + other.ActionsValue2,
	}

	merged.recomputeDerived()

	return merged
}

// recomputeDerived recalcula métricas derivadas a partir das somas exatas
func (w *WeeklyRollup) recomputeDerived() {
	w.CPC = utils.RoundWithTwoDecimalPlace(utils.SafeDivide(w.Spend, float64(w.Clicks)))
	w.CPM = utils.RoundWithTwoDecimalPlace(utils.SafeDivide(w.Spend, float64(w.Impressions)) * 1000)
	w.CTR = utils.RoundWithTwoDecimalPlace(utils.SafeDivide(float64(w.Clicks), float64(w.Impressions)) * 100)
	w.Frequency = utils.RoundWithTwoDecimalPlace(utils.SafeDivide(float64(w.Impressions), float64(w.Reach)))

	w.CostPerAction0 = utils.RoundWithTwoDecimalPlace(utils.SafeDivide(w.Spend, float64(w.ActionsValue0)))
	w.CostPerAction1 = utils.RoundWithTwoDecimalPlace(utils.SafeDivide(w.Spend, float64(w.ActionsValue1)))
	w.CostPerAction2 = utils.RoundWithTwoDecimalPlace(utils.SafeDivide(w.Spend, float64(w.ActionsValue2)))
}

func int64Value(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func floatValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func firstNonNil(a, b *string) *string {
	if a != nil {
		return a
	}
	return b
}

func minDate(a, b string) string {
	if b == "" {
		return a
	}
	if a == "" || b < a {
		return b
	}
	return a
}
