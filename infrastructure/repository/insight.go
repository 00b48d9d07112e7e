package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"

	"github.com/vfg2006/ads-warehouse-sync/infrastructure/warehouse/bigquery"
	"github.com/vfg2006/ads-warehouse-sync/internal/config"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
)

type InsightRepository interface {
	EnsureTable(ctx context.Context) error
	SaveOrUpdate(ctx context.Context, rows []*domain.InsightRow) error
	ExistingKeys(ctx context.Context, accountID string, dateRange domain.DateRange) (map[string]bool, error)
	ListByDateRange(ctx context.Context, dateRange domain.DateRange) ([]*domain.InsightRow, error)
}

type insightRepository struct {
	runner    bigquery.Runner
	table     string
	batchSize int
}

func NewInsightRepository(runner bigquery.Runner, cfg *config.Config) InsightRepository {
	return &insightRepository{
		runner:    runner,
		table:     cfg.Warehouse.MetaAdsTable,
		batchSize: cfg.Pipeline.BatchSize,
	}
}

func (r *insightRepository) EnsureTable(ctx context.Context) error {
	_, err := r.runner.CreateTableIfNotExists(ctx, r.table, InsightTableSchema())
	return err
}

// SaveOrUpdate grava as linhas por staging + MERGE na chave natural
// (account_id, ad_id, date_start). Reexecutar com as mesmas linhas não
// duplica nada: linhas já existentes são atualizadas no lugar.
func (r *insightRepository) SaveOrUpdate(ctx context.Context, rows []*domain.InsightRow) error {
	if len(rows) == 0 {
		return nil
	}

	records := make([]any, 0, len(rows))
	for _, row := range rows {
		records = append(records, row)
	}

	return stageAndMerge(ctx, r.runner, r.table, InsightTableSchema(), records, r.batchSize, func(target, staging string) string {
		return buildMergeQuery(target, staging, domain.InsightFieldOrder, domain.InsightKeyColumns)
	})
}

type insightKeyScan struct {
	AccountID string     `bigquery:"account_id"`
	AdID      string     `bigquery:"ad_id"`
	DateStart civil.Date `bigquery:"date_start"`
}

// ExistingKeys devolve as chaves naturais já presentes no warehouse para a
// conta e o intervalo, usadas para separar inserções de atualizações no
// resumo da sincronização
func (r *insightRepository) ExistingKeys(ctx context.Context, accountID string, dateRange domain.DateRange) (map[string]bool, error) {
	query, args, err := squirrel.
		Select("account_id", "ad_id", "date_start").
		From(r.runner.Qualify(r.table)).
		Where(squirrel.Eq{"account_id": accountID}).
		Where(squirrel.GtOrEq{"date_start": civil.DateOf(dateRange.Since)}).
		Where(squirrel.LtOrEq{"date_start": civil.DateOf(dateRange.Until)}).
		PlaceholderFormat(squirrel.Question).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	it, err := r.runner.Query(ctx, query, queryParameters(args))
	if err != nil {
		return nil, err
	}

	keys := make(map[string]bool)
	for {
		var row insightKeyScan
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "erro ao iterar chaves de insights")
		}

		keys[fmt.Sprintf("%s_%s_%s", row.AccountID, row.AdID, row.DateStart)] = true
	}

	return keys, nil
}

// ListByDateRange lê as linhas de insights do intervalo, fonte do rollup
// quando a recomputação roda fora da sincronização de insights
func (r *insightRepository) ListByDateRange(ctx context.Context, dateRange domain.DateRange) ([]*domain.InsightRow, error) {
	query, args, err := squirrel.
		Select(domain.InsightFieldOrder...).
		From(r.runner.Qualify(r.table)).
		Where(squirrel.GtOrEq{"date_start": civil.DateOf(dateRange.Since)}).
		Where(squirrel.LtOrEq{"date_start": civil.DateOf(dateRange.Until)}).
		PlaceholderFormat(squirrel.Question).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	it, err := r.runner.Query(ctx, query, queryParameters(args))
	if err != nil {
		return nil, err
	}

	var rows []*domain.InsightRow
	for {
		var row insightRowScan
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "erro ao iterar insights do warehouse")
		}

		rows = append(rows, row.toDomain())
	}

	return rows, nil
}

// insightRowScan espelha InsightRow com os tipos que o iterador do BigQuery
// materializa: DATE vira civil.Date e os demais campos anuláveis, ponteiros
type insightRowScan struct {
	AccountID       string  `bigquery:"account_id"`
	AccountName     *string `bigquery:"account_name"`
	AccountCurrency *string `bigquery:"account_currency"`

	AdID         string  `bigquery:"ad_id"`
	AdName       *string `bigquery:"ad_name"`
	AdsetID      *string `bigquery:"adset_id"`
	AdsetName    *string `bigquery:"adset_name"`
	CampaignID   *string `bigquery:"campaign_id"`
	CampaignName *string `bigquery:"campaign_name"`

	DateStart civil.Date `bigquery:"date_start"`
	DateStop  civil.Date `bigquery:"date_stop"`

	Impressions *int64   `bigquery:"impressions"`
	Reach       *int64   `bigquery:"reach"`
	Frequency   *float64 `bigquery:"frequency"`

	Spend  *float64 `bigquery:"spend"`
	Clicks *int64   `bigquery:"clicks"`
	CPC    *float64 `bigquery:"cpc"`
	CPM    *float64 `bigquery:"cpm"`
	CPP    *float64 `bigquery:"cpp"`
	CTR    *float64 `bigquery:"ctr"`

	UniqueClicks       *int64   `bigquery:"unique_clicks"`
	UniqueCTR          *float64 `bigquery:"unique_ctr"`
	CostPerUniqueClick *float64 `bigquery:"cost_per_unique_click"`

	InlineLinkClicks   *int64                `bigquery:"inline_link_clicks"`
	InlineLinkClickCTR *float64              `bigquery:"inline_link_click_ctr"`
	WebsiteCTR         []domain.ActionMetric `bigquery:"website_ctr"`

	Actions                 []domain.ActionCount  `bigquery:"actions"`
	UniqueActions           []domain.ActionCount  `bigquery:"unique_actions"`
	CostPerActionType       []domain.ActionMetric `bigquery:"cost_per_action_type"`
	CostPerUniqueActionType []domain.ActionMetric `bigquery:"cost_per_unique_action_type"`

	VideoPlayActions            []domain.ActionCount `bigquery:"video_play_actions"`
	VideoAvgTimeWatchedActions  []domain.ActionCount `bigquery:"video_avg_time_watched_actions"`
	VideoP25WatchedActions      []domain.ActionCount `bigquery:"video_p25_watched_actions"`
	VideoP50WatchedActions      []domain.ActionCount `bigquery:"video_p50_watched_actions"`
	VideoP75WatchedActions      []domain.ActionCount `bigquery:"video_p75_watched_actions"`
	VideoP100WatchedActions     []domain.ActionCount `bigquery:"video_p100_watched_actions"`
	VideoThruplayWatchedActions []domain.ActionCount `bigquery:"video_thruplay_watched_actions"`

	QualityRanking        *string `bigquery:"quality_ranking"`
	EngagementRateRanking *string `bigquery:"engagement_rate_ranking"`
	ConversionRateRanking *string `bigquery:"conversion_rate_ranking"`

	Objective        *string `bigquery:"objective"`
	OptimizationGoal *string `bigquery:"optimization_goal"`
}

func (s *insightRowScan) toDomain() *domain.InsightRow {
	return &domain.InsightRow{
		AccountID:       s.AccountID,
		AccountName:     s.AccountName,
		AccountCurrency: s.AccountCurrency,

		AdID:         s.AdID,
		AdName:       s.AdName,
		AdsetID:      s.AdsetID,
		AdsetName:    s.AdsetName,
		CampaignID:   s.CampaignID,
		CampaignName: s.CampaignName,

		DateStart: s.DateStart.String(),
		DateStop:  s.DateStop.String(),

		Impressions: s.Impressions,
		Reach:       s.Reach,
		Frequency:   s.Frequency,

		Spend:  s.Spend,
		Clicks: s.Clicks,
		CPC:    s.CPC,
		CPM:    s.CPM,
		CPP:    s.CPP,
		CTR:    s.CTR,

		UniqueClicks:       s.UniqueClicks,
		UniqueCTR:          s.UniqueCTR,
		CostPerUniqueClick: s.CostPerUniqueClick,

		InlineLinkClicks:   s.InlineLinkClicks,
		InlineLinkClickCTR: s.InlineLinkClickCTR,
		WebsiteCTR:         s.WebsiteCTR,

		Actions:                 s.Actions,
		UniqueActions:           s.UniqueActions,
		CostPerActionType:       s.CostPerActionType,
		CostPerUniqueActionType: s.CostPerUniqueActionType,

		VideoPlayActions:            s.VideoPlayActions,
		VideoAvgTimeWatchedActions:  s.VideoAvgTimeWatchedActions,
		VideoP25WatchedActions:      s.VideoP25WatchedActions,
		VideoP50WatchedActions:      s.VideoP50WatchedActions,
		VideoP75WatchedActions:      s.VideoP75WatchedActions,
		VideoP100WatchedActions:     s.VideoP100WatchedActions,
		VideoThruplayWatchedActions: s.VideoThruplayWatchedActions,

		QualityRanking:        s.QualityRanking,
		EngagementRateRanking: s.EngagementRateRanking,
		ConversionRateRanking: s.ConversionRateRanking,

		Objective:        s.Objective,
		OptimizationGoal: s.OptimizationGoal,
	}
}
