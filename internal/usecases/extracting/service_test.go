package extracting

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	metadomain "github.com/vfg2006/ads-warehouse-sync/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-warehouse-sync/infrastructure/integrator/meta/mocks"
	"github.com/vfg2006/ads-warehouse-sync/internal/config"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
)

func testConfig() *config.Config {
	return &config.Config{
		InsightSync: config.InsightSync{
			ChunkDays:           7,
			MaxConcurrentJobs:   2,
			RequestDelaySeconds: 0,
		},
	}
}

func rawRecord(adID, dateStart string, spend string) domain.RawInsight {
	return domain.RawInsight{
		"account_id": "act_123",
		"ad_id":      adID,
		"date_start": dateStart,
		"date_stop":  dateStart,
		"spend":      spend,
	}
}

func throttledError() *metadomain.RemoteAPIError {
	return metadomain.NewRemoteAPIError(http.StatusBadRequest, metadomain.ErrorDetails{
		Code:    17,
		Message: "User request limit reached",
	})
}

func permanentError() *metadomain.RemoteAPIError {
	return metadomain.NewRemoteAPIError(http.StatusBadRequest, metadomain.ErrorDetails{
		Code:    100,
		Message: "Invalid parameter",
	})
}

func TestExtractRange(t *testing.T) {
	dateRange := domain.DateRange{
		Since: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Until: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name       string
		accountIDs []string
		dateRange  domain.DateRange
		setup      func(integrator *mocks.MockIntegrator)
		wantErr    string
		validate   func(t *testing.T, records []domain.RawInsight)
	}{
		{
			name:       "Duas contas num intervalo único - deve juntar os registros de todas",
			accountIDs: []string{"act_123", "act_456"},
			dateRange:  dateRange,
			setup: func(integrator *mocks.MockIntegrator) {
				integrator.EXPECT().
					InsightsByDateRange(gomock.Any(), "act_123", dateRange.Since, dateRange.Until).
					Return([]domain.RawInsight{rawRecord("111", "2024-01-01", "10")}, nil)
				integrator.EXPECT().
					InsightsByDateRange(gomock.Any(), "act_456", dateRange.Since, dateRange.Until).
					Return([]domain.RawInsight{rawRecord("222", "2024-01-02", "20")}, nil)
			},
			validate: func(t *testing.T, records []domain.RawInsight) {
				assert.Len(t, records, 2)
				assert.ElementsMatch(t, []string{"111", "222"}, []string{records[0].AdID(), records[1].AdID()})
			},
		},
		{
			name:       "Intervalo maior que o bloco - deve buscar os blocos da conta em sequência",
			accountIDs: []string{"act_123"},
			dateRange: domain.DateRange{
				Since: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				Until: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			},
			setup: func(integrator *mocks.MockIntegrator) {
				integrator.EXPECT().
					InsightsByDateRange(gomock.Any(), "act_123",
						time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
						time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)).
					Return([]domain.RawInsight{rawRecord("111", "2024-01-01", "10")}, nil)
				integrator.EXPECT().
					InsightsByDateRange(gomock.Any(), "act_123",
						time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
						time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)).
					Return([]domain.RawInsight{rawRecord("111", "2024-01-08", "20")}, nil)
			},
			validate: func(t *testing.T, records []domain.RawInsight) {
				assert.Len(t, records, 2)
			},
		},
		{
			name:       "Erro permanente da API - deve abortar sem tentar novamente",
			accountIDs: []string{"act_123"},
			dateRange:  dateRange,
			setup: func(integrator *mocks.MockIntegrator) {
				integrator.EXPECT().
					InsightsByDateRange(gomock.Any(), "act_123", dateRange.Since, dateRange.Until).
					Return(nil, permanentError()).
					Times(1)
			},
			wantErr: "Invalid parameter",
		},
		{
			name:       "Nenhuma conta configurada - deve retornar vazio sem chamar a API",
			accountIDs: nil,
			dateRange:  dateRange,
			setup:      func(integrator *mocks.MockIntegrator) {},
			validate: func(t *testing.T, records []domain.RawInsight) {
				assert.Empty(t, records)
			},
		},
		{
			name:       "Intervalo invertido - deve rejeitar antes de chamar a API",
			accountIDs: []string{"act_123"},
			dateRange: domain.DateRange{
				Since: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
				Until: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			setup:   func(integrator *mocks.MockIntegrator) {},
			wantErr: "data final anterior à data inicial",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			integrator := mocks.NewMockIntegrator(ctrl)
			tt.setup(integrator)

			extractor := NewExtractor(testConfig(), integrator)

			records, err := extractor.ExtractRange(context.Background(), tt.accountIDs, tt.dateRange)

			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
			tt.validate(t, records)
		})
	}
}

func TestExtractRangeRetryTransparency(t *testing.T) {
	dateRange := domain.DateRange{
		Since: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Until: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}

	batch := []domain.RawInsight{
		rawRecord("111", "2024-01-01", "10"),
		rawRecord("111", "2024-01-02", "20"),
	}

	t.Run("Erro transitório seguido de sucesso - o lote final deve ser idêntico ao de uma execução sem falhas", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		flaky := mocks.NewMockIntegrator(ctrl)
		gomock.InOrder(
			flaky.EXPECT().
				InsightsByDateRange(gomock.Any(), "act_123", dateRange.Since, dateRange.Until).
				Return(nil, throttledError()),
			flaky.EXPECT().
				InsightsByDateRange(gomock.Any(), "act_123", dateRange.Since, dateRange.Until).
				Return(batch, nil),
		)

		clean := mocks.NewMockIntegrator(ctrl)
		clean.EXPECT().
			InsightsByDateRange(gomock.Any(), "act_123", dateRange.Since, dateRange.Until).
			Return(batch, nil)

		flakyRecords, err := NewExtractor(testConfig(), flaky).ExtractRange(context.Background(), []string{"act_123"}, dateRange)
		assert.NoError(t, err)

		cleanRecords, err := NewExtractor(testConfig(), clean).ExtractRange(context.Background(), []string{"act_123"}, dateRange)
		assert.NoError(t, err)

		assert.Equal(t, cleanRecords, flakyRecords)
	})

	t.Run("Erro de transporte - deve ser classificado como transitório e repetido", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		integrator := mocks.NewMockIntegrator(ctrl)
		gomock.InOrder(
			integrator.EXPECT().
				InsightsByDateRange(gomock.Any(), "act_123", dateRange.Since, dateRange.Until).
				Return(nil, metadomain.NewTransportError(errors.New("connection reset by peer"))),
			integrator.EXPECT().
				InsightsByDateRange(gomock.Any(), "act_123", dateRange.Since, dateRange.Until).
				Return(batch, nil),
		)

		records, err := NewExtractor(testConfig(), integrator).ExtractRange(context.Background(), []string{"act_123"}, dateRange)

		assert.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("Contexto cancelado durante a espera - deve interromper as tentativas", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		ctx, cancel := context.WithCancel(context.Background())

		integrator := mocks.NewMockIntegrator(ctrl)
		integrator.EXPECT().
			InsightsByDateRange(gomock.Any(), "act_123", dateRange.Since, dateRange.Until).
			DoAndReturn(func(context.Context, string, time.Time, time.Time) ([]domain.RawInsight, error) {
				cancel()
				return nil, throttledError()
			})

		_, err := NewExtractor(testConfig(), integrator).ExtractRange(ctx, []string{"act_123"}, dateRange)

		assert.Error(t, err)
	})
}
