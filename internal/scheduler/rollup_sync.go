package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-warehouse-sync/infrastructure/repository"
	"github.com/vfg2006/ads-warehouse-sync/internal/config"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
	"github.com/vfg2006/ads-warehouse-sync/internal/usecases/loading"
	"github.com/vfg2006/ads-warehouse-sync/internal/usecases/transforming"
)

// RollupSyncConfig representa a configuração do agendador de rollups
type RollupSyncConfig struct {
	CronSchedule string
	LookbackDays int
	SyncEnabled  bool
}

// RollupSyncService gerencia a materialização das tabelas de rollup diário e
// semanal a partir dos insights já consolidados no warehouse
type RollupSyncService struct {
	scheduler *gocron.Scheduler
	config    RollupSyncConfig

	insightRepository repository.InsightRepository
	transformer       transforming.Transformer
	loader            loading.Loader

	baseCtx context.Context

	syncMutex           sync.Mutex
	syncRunning         bool
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastError           string
	lastDailyRows       int
	lastWeeklyRows      int
}

// NewRollupSyncService cria uma nova instância do serviço de rollups
func NewRollupSyncService(
	insightRepository repository.InsightRepository,
	transformer transforming.Transformer,
	loader loading.Loader,
	appConfig *config.Config,
) *RollupSyncService {
	rollupConfig := RollupSyncConfig{
		CronSchedule: appConfig.RollupSync.CronSchedule,
		LookbackDays: appConfig.RollupSync.LookbackDays,
		SyncEnabled:  appConfig.RollupSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": rollupConfig.CronSchedule,
		"lookback_days": rollupConfig.LookbackDays,
		"sync_enabled":  rollupConfig.SyncEnabled,
	}).Info("Configuração do agendador de rollups carregada")

	return &RollupSyncService{
		scheduler:         scheduler,
		config:            rollupConfig,
		insightRepository: insightRepository,
		transformer:       transformer,
		loader:            loader,
		baseCtx:           context.Background(),
	}
}

// Start inicia o agendador
func (s *RollupSyncService) Start(ctx context.Context) error {
	s.baseCtx = ctx

	if !s.config.SyncEnabled {
		logrus.Info("Atualização agendada de rollups desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de rollups")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncRollups()
	})
	if err != nil {
		return errors.Wrap(err, "erro ao agendar atualização de rollups")
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de rollups")
		s.scheduler.Stop()
	}()

	return nil
}

// syncRollups recalcula os rollups da janela retroativa padrão, disparado pelo cron
func (s *RollupSyncService) syncRollups() {
	if err := s.begin(); err != nil {
		logrus.Info("Atualização de rollups já em andamento, ignorando")
		return
	}

	dateRange := domain.LookbackRange(time.Now(), s.config.LookbackDays)

	err := s.refresh(s.baseCtx, dateRange)
	if err != nil {
		logrus.WithError(err).Error("Atualização de rollups falhou")
	}

	s.finish(err)
}

// RefreshRange recalcula os rollups do intervalo de forma síncrona. A
// sincronização de insights chama este método logo após consolidar a carga.
func (s *RollupSyncService) RefreshRange(ctx context.Context, dateRange domain.DateRange) error {
	if err := dateRange.Validate(); err != nil {
		return err
	}

	if err := s.begin(); err != nil {
		return err
	}

	err := s.refresh(ctx, dateRange)
	if err != nil {
		logrus.WithError(err).Error("Atualização de rollups falhou")
	}

	s.finish(err)

	return err
}

// TriggerManualSync inicia manualmente uma atualização de rollups
func (s *RollupSyncService) TriggerManualSync() error {
	if err := s.begin(); err != nil {
		return err
	}

	logrus.Info("Iniciando atualização manual de rollups")

	go func() {
		dateRange := domain.LookbackRange(time.Now(), s.config.LookbackDays)

		err := s.refresh(s.baseCtx, dateRange)
		if err != nil {
			logrus.WithError(err).Error("Atualização manual de rollups falhou")
		}

		s.finish(err)
	}()

	return nil
}

// refresh relê os insights consolidados da janela, reconstrói os rollups
// diário e semanal e consolida as duas tabelas
func (s *RollupSyncService) refresh(ctx context.Context, dateRange domain.DateRange) error {
	window := expandToISOWeeks(dateRange)
	partition := window.Label()

	logrus.WithField("partition", partition).Info("Iniciando atualização dos rollups")

	rows, err := s.insightRepository.ListByDateRange(ctx, window)
	if err != nil {
		return errors.Wrap(err, "erro ao ler os insights consolidados para o rollup")
	}

	daily, err := s.transformer.BuildRollups(ctx, rows)
	if err != nil {
		return err
	}

	weekly := s.transformer.BuildWeekly(daily)

	if err := s.loader.LoadRollups(ctx, partition, daily, weekly); err != nil {
		return err
	}

	s.syncMutex.Lock()
	s.lastDailyRows = len(daily)
	s.lastWeeklyRows = len(weekly)
	s.syncMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"partition": partition,
		"insights":  len(rows),
		"daily":     len(daily),
		"weekly":    len(weekly),
	}).Info("Atualização dos rollups concluída")

	return nil
}

// expandToISOWeeks alarga o intervalo até as bordas das semanas ISO que ele
// toca. Um balde semanal soma todos os dias presentes da semana; recalcular
// só um pedaço dela sobrescreveria o balde com somas parciais.
func expandToISOWeeks(dateRange domain.DateRange) domain.DateRange {
	return domain.DateRange{
		Since: startOfISOWeek(dateRange.Since),
		Until: startOfISOWeek(dateRange.Until).AddDate(0, 0, 6),
	}
}

// startOfISOWeek retorna a segunda-feira da semana ISO da data
func startOfISOWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	return t.AddDate(0, 0, -(weekday - 1))
}

func (s *RollupSyncService) begin() error {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return ErrSyncAlreadyRunning
	}

	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()

	return nil
}

func (s *RollupSyncService) finish(runErr error) {
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
func (s *RollupSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_lookback_days":     s.config.LookbackDays,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_error":             s.lastError,
		"last_daily_rows":        s.lastDailyRows,
		"last_weekly_rows":       s.lastWeeklyRows,
	}
}
