package loading

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-warehouse-sync/infrastructure/repository"
	"github.com/vfg2006/ads-warehouse-sync/internal/config"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
)

// Loader consolida as linhas transformadas no warehouse. Cada tabela
// recebe um único MERGE por execução: a tabela final só muda quando o
// MERGE roda, então repetir a mesma carga não duplica nada.
type Loader interface {
	LoadInsights(ctx context.Context, partition string, rows []*domain.InsightRow) error
	LoadRollups(ctx context.Context, partition string, daily []*domain.RollupRow, weekly []*domain.WeeklyRollup) error
}

type loader struct {
	insightRepository repository.InsightRepository
	rollupRepository  repository.RollupRepository

	insightsTable     string
	rollupTable       string
	weeklyRollupTable string
}

func NewLoader(
	insightRepository repository.InsightRepository,
	rollupRepository repository.RollupRepository,
	cfg *config.Config,
) Loader {
	return &loader{
		insightRepository: insightRepository,
		rollupRepository:  rollupRepository,
		insightsTable:     cfg.Warehouse.MetaAdsTable,
		rollupTable:       cfg.Warehouse.RollupTable,
		weeklyRollupTable: cfg.Warehouse.WeeklyRollupTable,
	}
}

// LoadInsights garante a tabela meta_ads e consolida as linhas da partição
func (l *loader) LoadInsights(ctx context.Context, partition string, rows []*domain.InsightRow) error {
	if len(rows) == 0 {
		logrus.WithField("partition", partition).Info("carga: nenhuma linha de insight para consolidar")
		return nil
	}

	if err := l.insightRepository.EnsureTable(ctx); err != nil {
		return &LoadError{Table: l.insightsTable, Partition: partition, Stage: StageEnsureTable, Err: err}
	}

	if err := l.insightRepository.SaveOrUpdate(ctx, rows); err != nil {
		return &LoadError{Table: l.insightsTable, Partition: partition, Stage: StageMerge, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"partition": partition,
		"rows":      len(rows),
	}).Info("carga: linhas de insights consolidadas")

	return nil
}

// LoadRollups garante as tabelas de rollup e consolida as linhas diárias e
// os baldes semanais da partição
func (l *loader) LoadRollups(ctx context.Context, partition string, daily []*domain.RollupRow, weekly []*domain.WeeklyRollup) error {
	if len(daily) == 0 && len(weekly) == 0 {
		logrus.WithField("partition", partition).Info("carga: nenhuma linha de rollup para consolidar")
		return nil
	}

	if err := l.rollupRepository.EnsureTables(ctx); err != nil {
		return &LoadError{Table: l.rollupTable, Partition: partition, Stage: StageEnsureTable, Err: err}
	}

	if err := l.rollupRepository.MergeRollups(ctx, daily); err != nil {
		return &LoadError{Table: l.rollupTable, Partition: partition, Stage: StageMerge, Err: err}
	}

	if err := l.rollupRepository.MergeWeekly(ctx, weekly); err != nil {
		return &LoadError{Table: l.weeklyRollupTable, Partition: partition, Stage: StageMerge, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"partition": partition,
		"daily":     len(daily),
		"weekly":    len(weekly),
	}).Info("carga: rollups consolidados")

	return nil
}
