package loading

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/ads-warehouse-sync/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-warehouse-sync/internal/config"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
)

func loaderConfig() *config.Config {
	return &config.Config{
		Warehouse: config.Warehouse{
			MetaAdsTable:      "meta_ads",
			RollupTable:       "ads_rollup",
			WeeklyRollupTable: "ads_rollup_weekly",
		},
	}
}

func TestLoadInsights(t *testing.T) {
	partition := "2024-01-01..2024-01-07"
	rows := []*domain.InsightRow{{AccountID: "act_123", AdID: "111", DateStart: "2024-01-01"}}

	tests := []struct {
		name     string
		rows     []*domain.InsightRow
		setup    func(insights *mocks.MockInsightRepository)
		validate func(t *testing.T, err error)
	}{
		{
			name: "Carga bem-sucedida - deve garantir a tabela e consolidar as linhas",
			rows: rows,
			setup: func(insights *mocks.MockInsightRepository) {
				gomock.InOrder(
					insights.EXPECT().EnsureTable(gomock.Any()).Return(nil),
					insights.EXPECT().SaveOrUpdate(gomock.Any(), rows).Return(nil),
				)
			},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "Lote vazio - não deve tocar o warehouse",
			rows:  nil,
			setup: func(insights *mocks.MockInsightRepository) {},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "Falha ao garantir a tabela - deve identificar a etapa e a partição",
			rows: rows,
			setup: func(insights *mocks.MockInsightRepository) {
				insights.EXPECT().EnsureTable(gomock.Any()).Return(errors.New("dataset inexistente"))
			},
			validate: func(t *testing.T, err error) {
				var loadErr *LoadError
				assert.ErrorAs(t, err, &loadErr)
				assert.Equal(t, "meta_ads", loadErr.Table)
				assert.Equal(t, partition, loadErr.Partition)
				assert.Equal(t, StageEnsureTable, loadErr.Stage)
				assert.ErrorContains(t, loadErr.Err, "dataset inexistente")
			},
		},
		{
			name: "Falha no MERGE - deve identificar a etapa de merge",
			rows: rows,
			setup: func(insights *mocks.MockInsightRepository) {
				gomock.InOrder(
					insights.EXPECT().EnsureTable(gomock.Any()).Return(nil),
					insights.EXPECT().SaveOrUpdate(gomock.Any(), rows).Return(errors.New("quota exceeded")),
				)
			},
			validate: func(t *testing.T, err error) {
				var loadErr *LoadError
				assert.ErrorAs(t, err, &loadErr)
				assert.Equal(t, StageMerge, loadErr.Stage)
				assert.ErrorContains(t, err, "quota exceeded")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			insights := mocks.NewMockInsightRepository(ctrl)
			rollups := mocks.NewMockRollupRepository(ctrl)
			tt.setup(insights)

			loader := NewLoader(insights, rollups, loaderConfig())

			tt.validate(t, loader.LoadInsights(context.Background(), partition, tt.rows))
		})
	}
}

func TestLoadRollups(t *testing.T) {
	partition := "2024-01-01..2024-01-07"
	daily := []*domain.RollupRow{{MergeKey: "clienteA_111_2024-01-01", ClientID: "clienteA", AdID: "111"}}
	weekly := []*domain.WeeklyRollup{{MergeKey: "clienteA_111_2024_W01", ClientID: "clienteA", AdID: "111"}}

	t.Run("Carga bem-sucedida - deve consolidar as linhas diárias e as semanais", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		insights := mocks.NewMockInsightRepository(ctrl)
		rollups := mocks.NewMockRollupRepository(ctrl)

		gomock.InOrder(
			rollups.EXPECT().EnsureTables(gomock.Any()).Return(nil),
			rollups.EXPECT().MergeRollups(gomock.Any(), daily).Return(nil),
			rollups.EXPECT().MergeWeekly(gomock.Any(), weekly).Return(nil),
		)

		loader := NewLoader(insights, rollups, loaderConfig())

		assert.NoError(t, loader.LoadRollups(context.Background(), partition, daily, weekly))
	})

	t.Run("Falha na carga semanal - deve apontar a tabela semanal no erro", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		insights := mocks.NewMockInsightRepository(ctrl)
		rollups := mocks.NewMockRollupRepository(ctrl)

		gomock.InOrder(
			rollups.EXPECT().EnsureTables(gomock.Any()).Return(nil),
			rollups.EXPECT().MergeRollups(gomock.Any(), daily).Return(nil),
			rollups.EXPECT().MergeWeekly(gomock.Any(), weekly).Return(errors.New("schema mismatch")),
		)

		loader := NewLoader(insights, rollups, loaderConfig())

		err := loader.LoadRollups(context.Background(), partition, daily, weekly)

		var loadErr *LoadError
		assert.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "ads_rollup_weekly", loadErr.Table)
		assert.Equal(t, StageMerge, loadErr.Stage)
	})

	t.Run("Nada a consolidar - não deve tocar o warehouse", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		insights := mocks.NewMockInsightRepository(ctrl)
		rollups := mocks.NewMockRollupRepository(ctrl)

		loader := NewLoader(insights, rollups, loaderConfig())

		assert.NoError(t, loader.LoadRollups(context.Background(), partition, nil, nil))
	})
}
