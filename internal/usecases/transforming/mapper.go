package transforming

import (
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
)

// MapInsight converte um registro validado na linha tipada da tabela
// meta_ads. Campos ausentes ficam nulos na linha, nunca zerados.
func MapInsight(validated *domain.ValidatedInsight) *domain.InsightRow {
	strPtr := func(name string) *string {
		if value, ok := validated.Str(name); ok {
			return &value
		}
		return nil
	}
	intPtr := func(name string) *int64 {
		if value, ok := validated.Int(name); ok {
			return &value
		}
		return nil
	}
	floatPtr := func(name string) *float64 {
		if value, ok := validated.Float(name); ok {
			return &value
		}
		return nil
	}
	counts := func(name string) []domain.ActionCount {
		value, _ := validated.Counts(name)
		return value
	}
	metrics := func(name string) []domain.ActionMetric {
		value, _ := validated.Metrics(name)
		return value
	}

	return &domain.InsightRow{
		AccountID:       validated.AccountID,
		AccountName:     strPtr("account_name"),
		AccountCurrency: strPtr("account_currency"),

		AdID:         validated.AdID,
		AdName:       strPtr("ad_name"),
		AdsetID:      strPtr("adset_id"),
		AdsetName:    strPtr("adset_name"),
		CampaignID:   strPtr("campaign_id"),
		CampaignName: strPtr("campaign_name"),

		DateStart: validated.DateStart,
		DateStop:  validated.DateStop,

		Impressions: intPtr("impressions"),
		Reach:       intPtr("reach"),
		Frequency:   floatPtr("frequency"),

		Spend:  floatPtr("spend"),
		Clicks: intPtr("clicks"),
		CPC:    floatPtr("cpc"),
		CPM:    floatPtr("cpm"),
		CPP:    floatPtr("cpp"),
		CTR:    floatPtr("ctr"),

		UniqueClicks:       intPtr("unique_clicks"),
		UniqueCTR:          floatPtr("unique_ctr"),
		CostPerUniqueClick: floatPtr("cost_per_unique_click"),

		InlineLinkClicks:   intPtr("inline_link_clicks"),
		InlineLinkClickCTR: floatPtr("inline_link_click_ctr"),
		WebsiteCTR:         metrics("website_ctr"),

		Actions:                 counts("actions"),
		UniqueActions:           counts("unique_actions"),
		CostPerActionType:       metrics("cost_per_action_type"),
		CostPerUniqueActionType: metrics("cost_per_unique_action_type"),

		VideoPlayActions:            counts("video_play_actions"),
		VideoAvgTimeWatchedActions:  counts("video_avg_time_watched_actions"),
		VideoP25WatchedActions:      counts("video_p25_watched_actions"),
		VideoP50WatchedActions:      counts("video_p50_watched_actions"),
		VideoP75WatchedActions:      counts("video_p75_watched_actions"),
		VideoP100WatchedActions:     counts("video_p100_watched_actions"),
		VideoThruplayWatchedActions: counts("video_thruplay_watched_actions"),

		QualityRanking:        strPtr("quality_ranking"),
		EngagementRateRanking: strPtr("engagement_rate_ranking"),
		ConversionRateRanking: strPtr("conversion_rate_ranking"),

		Objective:        strPtr("objective"),
		OptimizationGoal: strPtr("optimization_goal"),
	}
}
