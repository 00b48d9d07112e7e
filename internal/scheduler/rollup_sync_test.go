package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
)

// consolidatedRow monta uma linha já consolidada na tabela meta_ads, como o
// refresh de rollups a relê do warehouse
func consolidatedRow(adID, dateStart string, spend float64) *domain.InsightRow {
	adsetName := "Conjunto PROMO Verão"
	clicks := int64(10)
	impressions := int64(1000)
	reach := int64(500)

	return &domain.InsightRow{
		AccountID:   "act_123",
		AdID:        adID,
		DateStart:   dateStart,
		DateStop:    dateStart,
		AdsetName:   &adsetName,
		Spend:       &spend,
		Clicks:      &clicks,
		Impressions: &impressions,
		Reach:       &reach,
		Actions: []domain.ActionCount{
			{ActionType: "lead", Value: 5},
		},
	}
}

func TestRollupSyncServiceRefreshRange(t *testing.T) {
	tests := []struct {
		name      string
		dateRange domain.DateRange
		setup     func(t *testing.T, env *syncTestEnv)
		wantErr   string
		validate  func(t *testing.T, env *syncTestEnv)
	}{
		{
			name: "Janela expandida até as bordas da semana ISO",
			dateRange: domain.DateRange{
				Since: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
				Until: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
			},
			setup: func(t *testing.T, env *syncTestEnv) {
				// Qua a qui viram seg a dom da mesma semana: um balde
				// semanal recalculado de um pedaço da semana sobrescreveria
				// a soma completa
				window := domain.DateRange{
					Since: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
					Until: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
				}

				env.insightRepo.EXPECT().
					ListByDateRange(gomock.Any(), window).
					Return([]*domain.InsightRow{
						consolidatedRow("111", "2024-01-03", 10),
						consolidatedRow("111", "2024-01-04", 20),
					}, nil)

				env.groupingRepo.EXPECT().
					ListGroupings(gomock.Any()).
					Return([]*domain.AdGrouping{leadGrouping()}, nil)
				env.mappingRepo.EXPECT().
					MappingIndex(gomock.Any()).
					Return(map[string]string{"all:Lead": "lead"}, nil)

				env.rollupRepo.EXPECT().EnsureTables(gomock.Any()).Return(nil)
				env.rollupRepo.EXPECT().
					MergeRollups(gomock.Any(), gomock.Len(2)).
					Return(nil)
				env.rollupRepo.EXPECT().
					MergeWeekly(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rows []*domain.WeeklyRollup) error {
						require.Len(t, rows, 1)
						assert.Equal(t, "clienteA_111_2024_W01", rows[0].MergeKey)
						assert.Equal(t, 30.0, rows[0].Spend)
						assert.Equal(t, int64(2), rows[0].Days)
						return nil
					})
			},
			validate: func(t *testing.T, env *syncTestEnv) {
				status := env.rollupSync.GetStatus()
				assert.Equal(t, 2, status["last_daily_rows"])
				assert.Equal(t, 1, status["last_weekly_rows"])
				assert.Equal(t, "", status["last_error"])
			},
		},
		{
			name: "Intervalo que cruza a virada de semana gera dois baldes",
			dateRange: domain.DateRange{
				Since: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
				Until: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			},
			setup: func(t *testing.T, env *syncTestEnv) {
				// Dom 07/01 fecha a W01; seg 08/01 abre a W02
				window := domain.DateRange{
					Since: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
					Until: time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
				}

				env.insightRepo.EXPECT().
					ListByDateRange(gomock.Any(), window).
					Return([]*domain.InsightRow{
						consolidatedRow("111", "2024-01-07", 10),
						consolidatedRow("111", "2024-01-08", 20),
					}, nil)

				env.groupingRepo.EXPECT().
					ListGroupings(gomock.Any()).
					Return([]*domain.AdGrouping{leadGrouping()}, nil)
				env.mappingRepo.EXPECT().
					MappingIndex(gomock.Any()).
					Return(map[string]string{"all:Lead": "lead"}, nil)

				env.rollupRepo.EXPECT().EnsureTables(gomock.Any()).Return(nil)
				env.rollupRepo.EXPECT().
					MergeRollups(gomock.Any(), gomock.Len(2)).
					Return(nil)
				env.rollupRepo.EXPECT().
					MergeWeekly(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rows []*domain.WeeklyRollup) error {
						require.Len(t, rows, 2)
						assert.Equal(t, "clienteA_111_2024_W01", rows[0].MergeKey)
						assert.Equal(t, "clienteA_111_2024_W02", rows[1].MergeKey)
						return nil
					})
			},
		},
		{
			name: "Nenhum agrupamento cadastrado encerra sem materializar",
			dateRange: domain.DateRange{
				Since: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				Until: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
			},
			setup: func(t *testing.T, env *syncTestEnv) {
				env.insightRepo.EXPECT().
					ListByDateRange(gomock.Any(), gomock.Any()).
					Return([]*domain.InsightRow{
						consolidatedRow("111", "2024-01-01", 10),
					}, nil)

				env.groupingRepo.EXPECT().
					ListGroupings(gomock.Any()).
					Return(nil, nil)
			},
		},
		{
			name: "Falha na leitura dos insights interrompe o refresh",
			dateRange: domain.DateRange{
				Since: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				Until: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
			},
			setup: func(t *testing.T, env *syncTestEnv) {
				env.insightRepo.EXPECT().
					ListByDateRange(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("query falhou"))
			},
			wantErr: "erro ao ler os insights consolidados para o rollup",
			validate: func(t *testing.T, env *syncTestEnv) {
				status := env.rollupSync.GetStatus()
				assert.Contains(t, status["last_error"], "query falhou")
			},
		},
		{
			name: "Intervalo invertido é rejeitado antes de iniciar",
			dateRange: domain.DateRange{
				Since: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
				Until: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			setup:   func(t *testing.T, env *syncTestEnv) {},
			wantErr: "data final anterior à data inicial",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			env := newSyncTestEnv(ctrl, syncTestConfig())
			tt.setup(t, env)

			err := env.rollupSync.RefreshRange(context.Background(), tt.dateRange)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			if tt.validate != nil {
				tt.validate(t, env)
			}
		})
	}
}

func TestRollupSyncServiceRejeitaExecucaoConcorrente(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newSyncTestEnv(ctrl, syncTestConfig())

	require.NoError(t, env.rollupSync.begin())

	dateRange := domain.DateRange{
		Since: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Until: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
	}

	assert.ErrorIs(t, env.rollupSync.RefreshRange(context.Background(), dateRange), ErrSyncAlreadyRunning)
	assert.ErrorIs(t, env.rollupSync.TriggerManualSync(), ErrSyncAlreadyRunning)

	status := env.rollupSync.GetStatus()
	assert.Equal(t, true, status["sync_running"])
}

func TestExpandToISOWeeks(t *testing.T) {
	tests := []struct {
		name      string
		dateRange domain.DateRange
		wantSince time.Time
		wantUntil time.Time
	}{
		{
			name: "Semana completa permanece igual",
			dateRange: domain.DateRange{
				Since: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				Until: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
			},
			wantSince: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantUntil: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "Meio de semana expande para as duas bordas",
			dateRange: domain.DateRange{
				Since: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
				Until: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
			},
			wantSince: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantUntil: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "Domingo pertence à semana que termina nele",
			dateRange: domain.DateRange{
				Since: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
				Until: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
			},
			wantSince: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantUntil: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "Virada de ano segue o calendário ISO",
			dateRange: domain.DateRange{
				Since: time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
				Until: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
			},
			wantSince: time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
			wantUntil: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := expandToISOWeeks(tt.dateRange)

			assert.Equal(t, tt.wantSince, window.Since)
			assert.Equal(t, tt.wantUntil, window.Until)
		})
	}
}
