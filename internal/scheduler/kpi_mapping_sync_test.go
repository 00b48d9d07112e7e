package scheduler

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	metamocks "github.com/vfg2006/ads-warehouse-sync/infrastructure/integrator/meta/mocks"
	"github.com/vfg2006/ads-warehouse-sync/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-warehouse-sync/internal/config"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
)

func newMappingSyncService(ctrl *gomock.Controller, accountIDs []string) (*KPIMappingSyncService, *metamocks.MockIntegrator, *mocks.MockKPIMappingRepository) {
	integrator := metamocks.NewMockIntegrator(ctrl)
	mappingRepo := mocks.NewMockKPIMappingRepository(ctrl)

	cfg := syncTestConfig()
	cfg.Meta.AdAccountIDs = accountIDs
	cfg.KPIMappingSync = config.KPIMappingSync{
		CronSchedule: "0 6 * * 1",
		Enabled:      true,
	}

	service := NewKPIMappingSyncService(integrator, mappingRepo, cfg)

	return service, integrator, mappingRepo
}

func customMapping(accountID, name, conversionID string) *domain.KPIMapping {
	return &domain.KPIMapping{
		UserFriendlyName:     name,
		MetaActionType:       domain.CustomConversionActionType(conversionID),
		MappingType:          domain.MappingTypeCustom,
		AdAccountID:          accountID,
		FacebookConversionID: &conversionID,
	}
}

func TestKPIMappingSyncServiceRefresh(t *testing.T) {
	standardCount := len(domain.StandardKPIMappings())

	tests := []struct {
		name     string
		accounts []string
		setup    func(integrator *metamocks.MockIntegrator, mappingRepo *mocks.MockKPIMappingRepository, captured *[]*domain.KPIMapping)
		wantErr  string
		validate func(t *testing.T, service *KPIMappingSyncService, captured []*domain.KPIMapping)
	}{
		{
			name:     "Padrões mais conversões personalizadas de cada conta",
			accounts: []string{"act_A", "act_B"},
			setup: func(integrator *metamocks.MockIntegrator, mappingRepo *mocks.MockKPIMappingRepository, captured *[]*domain.KPIMapping) {
				mappingRepo.EXPECT().EnsureTable(gomock.Any()).Return(nil)

				integrator.EXPECT().
					CustomConversionMappings(gomock.Any(), "act_A").
					Return([]*domain.KPIMapping{
						customMapping("A", "Compra Loja", "900100"),
						customMapping("A", "Orçamento", "900101"),
					}, nil)
				integrator.EXPECT().
					CustomConversionMappings(gomock.Any(), "act_B").
					Return([]*domain.KPIMapping{
						customMapping("B", "Agendamento", "900200"),
					}, nil)

				mappingRepo.EXPECT().
					ReplaceMappings(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, mappings []*domain.KPIMapping) error {
						*captured = mappings
						return nil
					})
			},
			validate: func(t *testing.T, service *KPIMappingSyncService, captured []*domain.KPIMapping) {
				require.Len(t, captured, standardCount+3)

				// Padrões primeiro, com o curinga de conta
				assert.Equal(t, "Lead", captured[0].UserFriendlyName)
				assert.Equal(t, domain.MappingTypeStandard, captured[0].MappingType)
				assert.Equal(t, domain.MappingAllAccounts, captured[0].AdAccountID)

				// Conversões personalizadas anexadas na ordem das contas
				custom := captured[standardCount]
				assert.Equal(t, "Compra Loja", custom.UserFriendlyName)
				assert.Equal(t, "offsite_conversion.custom.900100", custom.MetaActionType)
				assert.Equal(t, domain.MappingTypeCustom, custom.MappingType)

				for _, mapping := range captured {
					assert.False(t, mapping.LastUpdated.IsZero())
				}

				status := service.GetStatus()
				assert.Equal(t, standardCount+3, status["last_mappings"])
				assert.Equal(t, "", status["last_error"])
			},
		},
		{
			name:     "Falha numa conta aborta o refresh inteiro",
			accounts: []string{"act_A", "act_B"},
			setup: func(integrator *metamocks.MockIntegrator, mappingRepo *mocks.MockKPIMappingRepository, _ *[]*domain.KPIMapping) {
				mappingRepo.EXPECT().EnsureTable(gomock.Any()).Return(nil)

				integrator.EXPECT().
					CustomConversionMappings(gomock.Any(), "act_A").
					Return([]*domain.KPIMapping{
						customMapping("A", "Compra Loja", "900100"),
					}, nil)

				// Substituir a tabela só com as contas que responderam
				// apagaria as conversões da conta que falhou
				integrator.EXPECT().
					CustomConversionMappings(gomock.Any(), "act_B").
					Return(nil, errors.New("expired token"))
			},
			wantErr: "erro ao buscar conversões personalizadas da conta act_B",
		},
		{
			name:     "Falha ao garantir a tabela aborta antes da Meta API",
			accounts: []string{"act_A"},
			setup: func(_ *metamocks.MockIntegrator, mappingRepo *mocks.MockKPIMappingRepository, _ *[]*domain.KPIMapping) {
				mappingRepo.EXPECT().
					EnsureTable(gomock.Any()).
					Return(errors.New("permission denied"))
			},
			wantErr: "erro ao garantir a tabela de mapeamentos de KPI",
		},
		{
			name:     "Falha na substituição propaga o erro",
			accounts: []string{"act_A"},
			setup: func(integrator *metamocks.MockIntegrator, mappingRepo *mocks.MockKPIMappingRepository, _ *[]*domain.KPIMapping) {
				mappingRepo.EXPECT().EnsureTable(gomock.Any()).Return(nil)

				integrator.EXPECT().
					CustomConversionMappings(gomock.Any(), "act_A").
					Return(nil, nil)

				mappingRepo.EXPECT().
					ReplaceMappings(gomock.Any(), gomock.Any()).
					Return(errors.New("quota exceeded"))
			},
			wantErr: "quota exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service, integrator, mappingRepo := newMappingSyncService(ctrl, tt.accounts)

			var captured []*domain.KPIMapping
			tt.setup(integrator, mappingRepo, &captured)

			err := service.refresh(context.Background())
			service.finish(err)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			if tt.validate != nil {
				tt.validate(t, service, captured)
			}
		})
	}
}

func TestKPIMappingSyncServiceRejeitaExecucaoConcorrente(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, _ := newMappingSyncService(ctrl, []string{"act_A"})

	require.NoError(t, service.begin())

	assert.ErrorIs(t, service.TriggerManualSync(), ErrSyncAlreadyRunning)

	status := service.GetStatus()
	assert.Equal(t, true, status["sync_running"])

	service.finish(nil)

	status = service.GetStatus()
	assert.Equal(t, false, status["sync_running"])
}
