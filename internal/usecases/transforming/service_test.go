package transforming

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/ads-warehouse-sync/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
)

func stringPtr(s string) *string {
	return &s
}

func int64Ptr(v int64) *int64 {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

// insightRow monta uma linha mínima da tabela meta_ads para os testes de
// rollup
func insightRow(adID, dateStart string, spend float64, clicks int64, adsetName string) *domain.InsightRow {
	return &domain.InsightRow{
		AccountID: "act_123",
		AdID:      adID,
		DateStart: dateStart,
		DateStop:  dateStart,

		AdsetName:   stringPtr(adsetName),
		Spend:       floatPtr(spend),
		Clicks:      int64Ptr(clicks),
		Impressions: int64Ptr(clicks * 100),
		Reach:       int64Ptr(clicks * 50),
	}
}

func TestMapRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tr := NewTransformer(mocks.NewMockAdGroupingRepository(ctrl), mocks.NewMockKPIMappingRepository(ctrl))

	validated := &domain.ValidatedInsight{
		AccountID: "act_123",
		AdID:      "111",
		DateStart: "2024-01-01",
		DateStop:  "2024-01-01",
		Fields: map[string]any{
			"adset_name":  "Conjunto PROMO",
			"spend":       12.5,
			"clicks":      int64(40),
			"impressions": int64(1000),
			"actions": []domain.ActionCount{
				{ActionType: "lead", Value: 5},
			},
		},
	}

	rows := tr.MapRows([]*domain.ValidatedInsight{validated})

	assert.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "act_123", row.AccountID)
	assert.Equal(t, "111", row.AdID)
	assert.Equal(t, "2024-01-01", row.DateStart)
	assert.Equal(t, "Conjunto PROMO", *row.AdsetName)
	assert.Equal(t, 12.5, *row.Spend)
	assert.Equal(t, int64(40), *row.Clicks)
	assert.Equal(t, int64(1000), *row.Impressions)
	assert.Equal(t, []domain.ActionCount{{ActionType: "lead", Value: 5}}, row.Actions)

	// Campos ausentes ficam nulos na linha, nunca zerados
	assert.Nil(t, row.Reach)
	assert.Nil(t, row.CPC)
	assert.Nil(t, row.CampaignName)
}

func TestBuildRollups(t *testing.T) {
	promoGrouping := func() *domain.AdGrouping {
		return &domain.AdGrouping{
			ClientID:      "clienteA",
			Platform:      domain.PlatformMeta,
			AdSetContains: "promo",
			KPIEvent:      stringPtr("Lead, Purchase"),
		}
	}

	tests := []struct {
		name     string
		rows     []*domain.InsightRow
		setup    func(groupings *mocks.MockAdGroupingRepository, mappings *mocks.MockKPIMappingRepository)
		wantErr  string
		validate func(t *testing.T, rollups []*domain.RollupRow)
	}{
		{
			name: "Linha casada com agrupamento - deve resolver os KPIs e extrair os valores das ações",
			rows: func() []*domain.InsightRow {
				row := insightRow("111", "2024-01-01", 50, 10, "Campanha PROMO Verão")
				row.Actions = []domain.ActionCount{
					{ActionType: "lead", Value: 5},
					{ActionType: "purchase", Value: 2},
				}
				row.CostPerActionType = []domain.ActionMetric{
					{ActionType: "lead", Value: 10},
				}
				return []*domain.InsightRow{row}
			}(),
			setup: func(groupings *mocks.MockAdGroupingRepository, mappings *mocks.MockKPIMappingRepository) {
				groupings.EXPECT().ListGroupings(gomock.Any()).Return([]*domain.AdGrouping{promoGrouping()}, nil)
				mappings.EXPECT().MappingIndex(gomock.Any()).Return(map[string]string{
					"all:Lead":     "lead",
					"all:Purchase": "purchase",
				}, nil)
			},
			validate: func(t *testing.T, rollups []*domain.RollupRow) {
				assert.Len(t, rollups, 1)

				rollup := rollups[0]
				assert.Equal(t, "clienteA_111_2024-01-01", rollup.MergeKey)
				assert.Equal(t, "clienteA", rollup.ClientID)
				assert.Equal(t, "act_123", rollup.AccountID)
				assert.Equal(t, 50.0, *rollup.Spend)

				assert.Equal(t, "lead", *rollup.ActionType0)
				assert.Equal(t, int64(5), *rollup.ActionsValue0)
				assert.Equal(t, 10.0, *rollup.CostPerActionTypeValue0)

				assert.Equal(t, "purchase", *rollup.ActionType1)
				assert.Equal(t, int64(2), *rollup.ActionsValue1)
				assert.Nil(t, rollup.CostPerActionTypeValue1)

				assert.Nil(t, rollup.ActionType2)
			},
		},
		{
			name: "Mapeamento específico da conta - deve ter prioridade sobre o curinga all",
			rows: func() []*domain.InsightRow {
				row := insightRow("111", "2024-01-01", 50, 10, "Campanha PROMO Verão")
				row.Actions = []domain.ActionCount{
					{ActionType: "offsite_conversion.custom.999", Value: 7},
					{ActionType: "lead", Value: 5},
				}
				return []*domain.InsightRow{row}
			}(),
			setup: func(groupings *mocks.MockAdGroupingRepository, mappings *mocks.MockKPIMappingRepository) {
				grouping := promoGrouping()
				grouping.KPIEvent = stringPtr("Lead")

				groupings.EXPECT().ListGroupings(gomock.Any()).Return([]*domain.AdGrouping{grouping}, nil)
				mappings.EXPECT().MappingIndex(gomock.Any()).Return(map[string]string{
					"123:Lead": "offsite_conversion.custom.999",
					"all:Lead": "lead",
				}, nil)
			},
			validate: func(t *testing.T, rollups []*domain.RollupRow) {
				assert.Len(t, rollups, 1)
				assert.Equal(t, "offsite_conversion.custom.999", *rollups[0].ActionType0)
				assert.Equal(t, int64(7), *rollups[0].ActionsValue0)
			},
		},
		{
			name: "KPI sem mapeamento - deve deixar as colunas de ação nulas sem descartar a linha",
			rows: []*domain.InsightRow{insightRow("111", "2024-01-01", 50, 10, "Campanha PROMO Verão")},
			setup: func(groupings *mocks.MockAdGroupingRepository, mappings *mocks.MockKPIMappingRepository) {
				grouping := promoGrouping()
				grouping.KPIEvent = stringPtr("KPI Desconhecido")

				groupings.EXPECT().ListGroupings(gomock.Any()).Return([]*domain.AdGrouping{grouping}, nil)
				mappings.EXPECT().MappingIndex(gomock.Any()).Return(map[string]string{"all:Lead": "lead"}, nil)
			},
			validate: func(t *testing.T, rollups []*domain.RollupRow) {
				assert.Len(t, rollups, 1)
				assert.Nil(t, rollups[0].ActionType0)
				assert.Nil(t, rollups[0].ActionsValue0)
				assert.Equal(t, 50.0, *rollups[0].Spend)
			},
		},
		{
			name: "Anúncio casado com dois clientes - deve gerar uma linha por agrupamento",
			rows: []*domain.InsightRow{insightRow("111", "2024-01-01", 50, 10, "Campanha PROMO Verão")},
			setup: func(groupings *mocks.MockAdGroupingRepository, mappings *mocks.MockKPIMappingRepository) {
				second := promoGrouping()
				second.ClientID = "clienteB"

				groupings.EXPECT().ListGroupings(gomock.Any()).Return([]*domain.AdGrouping{promoGrouping(), second}, nil)
				mappings.EXPECT().MappingIndex(gomock.Any()).Return(map[string]string{
					"all:Lead":     "lead",
					"all:Purchase": "purchase",
				}, nil)
			},
			validate: func(t *testing.T, rollups []*domain.RollupRow) {
				assert.Len(t, rollups, 2)
				assert.Equal(t, "clienteA_111_2024-01-01", rollups[0].MergeKey)
				assert.Equal(t, "clienteB_111_2024-01-01", rollups[1].MergeKey)
			},
		},
		{
			name: "Insights duplicados na mesma chave - deve manter apenas uma linha",
			rows: func() []*domain.InsightRow {
				first := insightRow("111", "2024-01-01", 50, 10, "Campanha PROMO Verão")
				duplicate := insightRow("111", "2024-01-01", 99, 10, "Campanha PROMO Verão")
				return []*domain.InsightRow{first, duplicate}
			}(),
			setup: func(groupings *mocks.MockAdGroupingRepository, mappings *mocks.MockKPIMappingRepository) {
				groupings.EXPECT().ListGroupings(gomock.Any()).Return([]*domain.AdGrouping{promoGrouping()}, nil)
				mappings.EXPECT().MappingIndex(gomock.Any()).Return(map[string]string{
					"all:Lead":     "lead",
					"all:Purchase": "purchase",
				}, nil)
			},
			validate: func(t *testing.T, rollups []*domain.RollupRow) {
				assert.Len(t, rollups, 1)
				assert.Equal(t, 50.0, *rollups[0].Spend)
			},
		},
		{
			name: "Linha sem adset_name - deve ser ignorada no rollup",
			rows: func() []*domain.InsightRow {
				row := insightRow("111", "2024-01-01", 50, 10, "")
				row.AdsetName = nil
				return []*domain.InsightRow{row}
			}(),
			setup: func(groupings *mocks.MockAdGroupingRepository, mappings *mocks.MockKPIMappingRepository) {
				groupings.EXPECT().ListGroupings(gomock.Any()).Return([]*domain.AdGrouping{promoGrouping()}, nil)
				mappings.EXPECT().MappingIndex(gomock.Any()).Return(map[string]string{"all:Lead": "lead"}, nil)
			},
			validate: func(t *testing.T, rollups []*domain.RollupRow) {
				assert.Empty(t, rollups)
			},
		},
		{
			name: "Sem agrupamentos cadastrados - não deve montar rollups",
			rows: []*domain.InsightRow{insightRow("111", "2024-01-01", 50, 10, "Campanha PROMO Verão")},
			setup: func(groupings *mocks.MockAdGroupingRepository, mappings *mocks.MockKPIMappingRepository) {
				groupings.EXPECT().ListGroupings(gomock.Any()).Return(nil, nil)
			},
			validate: func(t *testing.T, rollups []*domain.RollupRow) {
				assert.Empty(t, rollups)
			},
		},
		{
			name: "Falha ao listar agrupamentos - deve propagar o erro",
			rows: []*domain.InsightRow{insightRow("111", "2024-01-01", 50, 10, "Campanha PROMO Verão")},
			setup: func(groupings *mocks.MockAdGroupingRepository, mappings *mocks.MockKPIMappingRepository) {
				groupings.EXPECT().ListGroupings(gomock.Any()).Return(nil, errors.New("tabela indisponível"))
			},
			wantErr: "tabela indisponível",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			groupings := mocks.NewMockAdGroupingRepository(ctrl)
			mappings := mocks.NewMockKPIMappingRepository(ctrl)
			tt.setup(groupings, mappings)

			tr := NewTransformer(groupings, mappings)

			rollups, err := tr.BuildRollups(context.Background(), tt.rows)

			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
			tt.validate(t, rollups)
		})
	}
}

// dailyRollup monta uma linha diária de rollup para os testes de agregação
// semanal
func dailyRollup(clientID, adID, dateStart string, spend float64, clicks, impressions int64) *domain.RollupRow {
	return &domain.RollupRow{
		MergeKey:  domain.BuildRollupMergeKey(clientID, adID, dateStart),
		ClientID:  clientID,
		AdID:      adID,
		Platform:  domain.PlatformMeta,
		DateStart: dateStart,
		DateEnd:   dateStart,

		Spend:       floatPtr(spend),
		Clicks:      int64Ptr(clicks),
		Impressions: int64Ptr(impressions),
		Reach:       int64Ptr(impressions / 2),

		ActionType0:   stringPtr("lead"),
		ActionsValue0: int64Ptr(clicks / 2),
	}
}

func TestBuildWeekly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tr := NewTransformer(mocks.NewMockAdGroupingRepository(ctrl), mocks.NewMockKPIMappingRepository(ctrl))

	t.Run("Três dias da mesma semana - deve somar os gastos num único balde semanal", func(t *testing.T) {
		rollups := []*domain.RollupRow{
			dailyRollup("clienteA", "111", "2024-01-01", 10, 4, 1000),
			dailyRollup("clienteA", "111", "2024-01-02", 20, 6, 2000),
			dailyRollup("clienteA", "111", "2024-01-03", 30, 10, 3000),
		}

		weekly := tr.BuildWeekly(rollups)

		assert.Len(t, weekly, 1)

		week := weekly[0]
		assert.Equal(t, "clienteA_111_2024_W01", week.MergeKey)
		assert.Equal(t, 2024, week.ISOYear)
		assert.Equal(t, 1, week.ISOWeek)
		assert.Equal(t, "2024-01-01", week.WeekStart)
		assert.Equal(t, int64(3), week.Days)

		assert.Equal(t, 60.0, week.Spend)
		assert.Equal(t, int64(20), week.Clicks)
		assert.Equal(t, int64(6000), week.Impressions)
		assert.Equal(t, int64(10), week.ActionsValue0)

		// Derivadas recalculadas das somas: 60/20 e 60/6000*1000
		assert.Equal(t, 3.0, week.CPC)
		assert.Equal(t, 10.0, week.CPM)
		assert.Equal(t, 6.0, week.CostPerAction0)
	})

	t.Run("Dias de semanas diferentes - deve produzir um balde por semana ISO", func(t *testing.T) {
		rollups := []*domain.RollupRow{
			dailyRollup("clienteA", "111", "2024-01-07", 10, 4, 1000),
			dailyRollup("clienteA", "111", "2024-01-08", 20, 6, 2000),
		}

		weekly := tr.BuildWeekly(rollups)

		assert.Len(t, weekly, 2)
		assert.Equal(t, "clienteA_111_2024_W01", weekly[0].MergeKey)
		assert.Equal(t, "clienteA_111_2024_W02", weekly[1].MergeKey)
		assert.Equal(t, 10.0, weekly[0].Spend)
		assert.Equal(t, 20.0, weekly[1].Spend)
	})

	t.Run("Agregação incremental - deve produzir o mesmo resultado da recomputação completa", func(t *testing.T) {
		rollups := []*domain.RollupRow{
			dailyRollup("clienteA", "111", "2024-01-01", 12.34, 4, 1000),
			dailyRollup("clienteA", "111", "2024-01-03", 56.78, 6, 2000),
			dailyRollup("clienteA", "111", "2024-01-05", 9.01, 10, 3000),
			dailyRollup("clienteB", "222", "2024-01-02", 40, 8, 4000),
		}

		full := tr.BuildWeekly(rollups)

		firstHalf := tr.BuildWeekly(rollups[:2])
		secondHalf := tr.BuildWeekly(rollups[2:])

		incremental := make(map[string]*domain.WeeklyRollup)
		for _, week := range firstHalf {
			incremental[week.MergeKey] = week
		}
		for _, week := range secondHalf {
			if existing, ok := incremental[week.MergeKey]; ok {
				incremental[week.MergeKey] = existing.Merge(week)
				continue
			}
			incremental[week.MergeKey] = week
		}

		assert.Len(t, incremental, len(full))
		for _, week := range full {
			assert.Equal(t, week, incremental[week.MergeKey])
		}
	})
}
