package repository

import (
	"context"

	"github.com/vfg2006/ads-warehouse-sync/infrastructure/warehouse/bigquery"
	"github.com/vfg2006/ads-warehouse-sync/internal/config"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
)

var rollupKeyColumns = []string{"merge_key"}

type RollupRepository interface {
	EnsureTables(ctx context.Context) error
	MergeRollups(ctx context.Context, rows []*domain.RollupRow) error
	MergeWeekly(ctx context.Context, rows []*domain.WeeklyRollup) error
}

type rollupRepository struct {
	runner      bigquery.Runner
	dailyTable  string
	weeklyTable string
	batchSize   int
}

func NewRollupRepository(runner bigquery.Runner, cfg *config.Config) RollupRepository {
	return &rollupRepository{
		runner:      runner,
		dailyTable:  cfg.Warehouse.RollupTable,
		weeklyTable: cfg.Warehouse.WeeklyRollupTable,
		batchSize:   cfg.Pipeline.BatchSize,
	}
}

func (r *rollupRepository) EnsureTables(ctx context.Context) error {
	if _, err := r.runner.CreateTableIfNotExists(ctx, r.dailyTable, RollupTableSchema()); err != nil {
		return err
	}

	_, err := r.runner.CreateTableIfNotExists(ctx, r.weeklyTable, WeeklyRollupTableSchema())
	return err
}

// MergeRollups grava as linhas diárias do rollup por staging + MERGE na
// merge_key. Reprocessar o mesmo intervalo atualiza as linhas no lugar.
func (r *rollupRepository) MergeRollups(ctx context.Context, rows []*domain.RollupRow) error {
	if len(rows) == 0 {
		return nil
	}

	records := make([]any, 0, len(rows))
	for _, row := range rows {
		records = append(records, row)
	}

	columns := columnNames(RollupTableSchema())

	return stageAndMerge(ctx, r.runner, r.dailyTable, RollupTableSchema(), records, r.batchSize, func(target, staging string) string {
		return buildMergeQuery(target, staging, columns, rollupKeyColumns)
	})
}

// MergeWeekly grava os baldes semanais por staging + MERGE na merge_key
func (r *rollupRepository) MergeWeekly(ctx context.Context, rows []*domain.WeeklyRollup) error {
	if len(rows) == 0 {
		return nil
	}

	records := make([]any, 0, len(rows))
	for _, row := range rows {
		records = append(records, row)
	}

	columns := columnNames(WeeklyRollupTableSchema())

	return stageAndMerge(ctx, r.runner, r.weeklyTable, WeeklyRollupTableSchema(), records, r.batchSize, func(target, staging string) string {
		return buildMergeQuery(target, staging, columns, rollupKeyColumns)
	})
}
