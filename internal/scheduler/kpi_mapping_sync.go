package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-warehouse-sync/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-warehouse-sync/infrastructure/repository"
	"github.com/vfg2006/ads-warehouse-sync/internal/config"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
)

// KPIMappingSyncConfig representa a configuração do agendador de mapeamentos de KPI
type KPIMappingSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// KPIMappingSyncService mantém a tabela de mapeamentos de KPI atualizada:
// eventos padrão mais as conversões personalizadas de cada conta na Meta API.
// O refresh substitui a tabela inteira, nunca parte dela.
type KPIMappingSyncService struct {
	scheduler  *gocron.Scheduler
	config     KPIMappingSyncConfig
	accountIDs []string

	integrator        meta.Integrator
	mappingRepository repository.KPIMappingRepository

	baseCtx context.Context

	syncMutex           sync.Mutex
	syncRunning         bool
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastError           string
	lastMappings        int
}

// NewKPIMappingSyncService cria uma nova instância do serviço de mapeamentos de KPI
func NewKPIMappingSyncService(
	integrator meta.Integrator,
	mappingRepository repository.KPIMappingRepository,
	appConfig *config.Config,
) *KPIMappingSyncService {
	mappingConfig := KPIMappingSyncConfig{
		CronSchedule: appConfig.KPIMappingSync.CronSchedule,
		SyncEnabled:  appConfig.KPIMappingSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": mappingConfig.CronSchedule,
		"sync_enabled":  mappingConfig.SyncEnabled,
		"accounts":      len(appConfig.Meta.AdAccountIDs),
	}).Info("Configuração do agendador de mapeamentos de KPI carregada")

	return &KPIMappingSyncService{
		scheduler:         scheduler,
		config:            mappingConfig,
		accountIDs:        appConfig.Meta.AdAccountIDs,
		integrator:        integrator,
		mappingRepository: mappingRepository,
		baseCtx:           context.Background(),
	}
}

// Start inicia o agendador
func (s *KPIMappingSyncService) Start(ctx context.Context) error {
	s.baseCtx = ctx

	if !s.config.SyncEnabled {
		logrus.Info("Atualização agendada de mapeamentos de KPI desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de mapeamentos de KPI")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncMappings()
	})
	if err != nil {
		return errors.Wrap(err, "erro ao agendar atualização de mapeamentos de KPI")
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de mapeamentos de KPI")
		s.scheduler.Stop()
	}()

	return nil
}

// syncMappings executa o refresh disparado pelo cron
func (s *KPIMappingSyncService) syncMappings() {
	if err := s.begin(); err != nil {
		logrus.Info("Atualização de mapeamentos de KPI já em andamento, ignorando")
		return
	}

	err := s.refresh(s.baseCtx)
	if err != nil {
		logrus.WithError(err).Error("Atualização de mapeamentos de KPI falhou")
	}

	s.finish(err)
}

// TriggerManualSync inicia manualmente uma atualização dos mapeamentos de KPI
func (s *KPIMappingSyncService) TriggerManualSync() error {
	if err := s.begin(); err != nil {
		return err
	}

	logrus.Info("Iniciando atualização manual de mapeamentos de KPI")

	go func() {
		err := s.refresh(s.baseCtx)
		if err != nil {
			logrus.WithError(err).Error("Atualização manual de mapeamentos de KPI falhou")
		}

		s.finish(err)
	}()

	return nil
}

// refresh reconstrói a lista completa de mapeamentos e substitui a tabela.
// Uma falha em qualquer conta aborta o refresh inteiro: substituir a tabela
// com dados parciais apagaria as conversões das contas que falharam.
func (s *KPIMappingSyncService) refresh(ctx context.Context) error {
	logrus.Info("Iniciando atualização dos mapeamentos de KPI")

	if err := s.mappingRepository.EnsureTable(ctx); err != nil {
		return errors.Wrap(err, "erro ao garantir a tabela de mapeamentos de KPI")
	}

	mappings := domain.StandardKPIMappings()
	standard := len(mappings)

	for _, accountID := range s.accountIDs {
		customs, err := s.integrator.CustomConversionMappings(ctx, accountID)
		if err != nil {
			return errors.Wrapf(err, "erro ao buscar conversões personalizadas da conta %s", accountID)
		}

		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"mappings":   len(customs),
		}).Info("Conversões personalizadas da conta carregadas")

		mappings = append(mappings, customs...)
	}

	now := time.Now()
	for _, mapping := range mappings {
		mapping.LastUpdated = now
	}

	if err := s.mappingRepository.ReplaceMappings(ctx, mappings); err != nil {
		return err
	}

	s.syncMutex.Lock()
	s.lastMappings = len(mappings)
	s.syncMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"standard": standard,
		"custom":   len(mappings) - standard,
		"total":    len(mappings),
	}).Info("Atualização dos mapeamentos de KPI concluída")

	return nil
}

func (s *KPIMappingSyncService) begin() error {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return ErrSyncAlreadyRunning
	}

	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()

	return nil
}

func (s *KPIMappingSyncService) finish(runErr error) {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()

	if runErr != nil {
		s.lastError = runErr.Error()
	} else {
		s.lastError = ""
	}
}

// GetStatus retorna o status atual do agendador
func (s *KPIMappingSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"accounts":               len(s.accountIDs),
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_error":             s.lastError,
		"last_mappings":          s.lastMappings,
	}
}
