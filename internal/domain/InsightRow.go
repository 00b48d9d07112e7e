package domain

import "fmt"

// InsightRow é a linha tipada da tabela meta_ads no warehouse. Campos
// opcionais são ponteiros/slices para que ausência vire NULL no BigQuery
// (omitempty no NDJSON de staging). A chave natural é
// (account_id, ad_id, date_start).
type InsightRow struct {
	AccountID       string  `json:"account_id" bigquery:"account_id"`
	AccountName     *string `json:"account_name,omitempty" bigquery:"account_name"`
	AccountCurrency *string `json:"account_currency,omitempty" bigquery:"account_currency"`

	AdID         string  `json:"ad_id" bigquery:"ad_id"`
	AdName       *string `json:"ad_name,omitempty" bigquery:"ad_name"`
	AdsetID      *string `json:"adset_id,omitempty" bigquery:"adset_id"`
	AdsetName    *string `json:"adset_name,omitempty" bigquery:"adset_name"`
	CampaignID   *string `json:"campaign_id,omitempty" bigquery:"campaign_id"`
	CampaignName *string `json:"campaign_name,omitempty" bigquery:"campaign_name"`

	DateStart string `json:"date_start" bigquery:"date_start"`
	DateStop  string `json:"date_stop" bigquery:"date_stop"`

	Impressions *int64   `json:"impressions,omitempty" bigquery:"impressions"`
	Reach       *int64   `json:"reach,omitempty" bigquery:"reach"`
	Frequency   *float64 `json:"frequency,omitempty" bigquery:"frequency"`

	Spend  *float64 `json:"spend,omitempty" bigquery:"spend"`
	Clicks *int64   `json:"clicks,omitempty" bigquery:"clicks"`
	CPC    *float64 `json:"cpc,omitempty" bigquery:"cpc"`
	CPM    *float64 `json:"cpm,omitempty" bigquery:"cpm"`
	CPP    *float64 `json:"cpp,omitempty" bigquery:"cpp"`
	CTR    *float64 `json:"ctr,omitempty" bigquery:"ctr"`

	UniqueClicks       *int64   `json:"unique_clicks,omitempty" bigquery:"unique_clicks"`
	UniqueCTR          *float64 `json:"unique_ctr,omitempty" bigquery:"unique_ctr"`
	CostPerUniqueClick *float64 `json:"cost_per_unique_click,omitempty" bigquery:"cost_per_unique_click"`

	InlineLinkClicks   *int64         `json:"inline_link_clicks,omitempty" bigquery:"inline_link_clicks"`
	InlineLinkClickCTR *float64       `json:"inline_link_click_ctr,omitempty" bigquery:"inline_link_click_ctr"`
	WebsiteCTR         []ActionMetric `json:"website_ctr,omitempty" bigquery:"website_ctr"`

	Actions                 []ActionCount  `json:"actions,omitempty" bigquery:"actions"`
	UniqueActions           []ActionCount  `json:"unique_actions,omitempty" bigquery:"unique_actions"`
	CostPerActionType       []ActionMetric `json:"cost_per_action_type,omitempty" bigquery:"cost_per_action_type"`
	CostPerUniqueActionType []ActionMetric `json:"cost_per_unique_action_type,omitempty" bigquery:"cost_per_unique_action_type"`

	VideoPlayActions            []ActionCount `json:"video_play_actions,omitempty" bigquery:"video_play_actions"`
	VideoAvgTimeWatchedActions  []ActionCount `json:"video_avg_time_watched_actions,omitempty" bigquery:"video_avg_time_watched_actions"`
	VideoP25WatchedActions      []ActionCount `json:"video_p25_watched_actions,omitempty" bigquery:"video_p25_watched_actions"`
	VideoP50WatchedActions      []ActionCount `json:"video_p50_watched_actions,omitempty" bigquery:"video_p50_watched_actions"`
	VideoP75WatchedActions      []ActionCount `json:"video_p75_watched_actions,omitempty" bigquery:"video_p75_watched_actions"`
	VideoP100WatchedActions     []ActionCount `json:"video_p100_watched_actions,omitempty" bigquery:"video_p100_watched_actions"`
	VideoThruplayWatchedActions []ActionCount `json:"video_thruplay_watched_actions,omitempty" bigquery:"video_thruplay_watched_actions"`

	QualityRanking        *string `json:"quality_ranking,omitempty" bigquery:"quality_ranking"`
	EngagementRateRanking *string `json:"engagement_rate_ranking,omitempty" bigquery:"engagement_rate_ranking"`
	ConversionRateRanking *string `json:"conversion_rate_ranking,omitempty" bigquery:"conversion_rate_ranking"`

	Objective        *string `json:"objective,omitempty" bigquery:"objective"`
	OptimizationGoal *string `json:"optimization_goal,omitempty" bigquery:"optimization_goal"`
}

// InsightKeyColumns são as colunas da chave natural da tabela meta_ads,
// excluídas do UPDATE no MERGE
var InsightKeyColumns = []string{"account_id", "ad_id", "date_start"}

// Key identifica a linha pela chave natural
func (r *InsightRow) Key() string {
	return fmt.Sprintf("%s_%s_%s", r.AccountID, r.AdID, r.DateStart)
}

// ActionValue procura o valor de um action_type na lista de ações
func ActionValue(actions []ActionCount, actionType string) (int64, bool) {
	for _, action := range actions {
		if action.ActionType == actionType {
			return action.Value, true
		}
	}
	return 0, false
}

// MetricValue procura o valor de um action_type na lista de métricas
func MetricValue(metrics []ActionMetric, actionType string) (float64, bool) {
	for _, metric := range metrics {
		if metric.ActionType == actionType {
			return metric.Value, true
		}
	}
	return 0, false
}
