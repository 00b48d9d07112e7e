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
	"github.com/vfg2006/ads-warehouse-sync/internal/usecases/extracting"
	"github.com/vfg2006/ads-warehouse-sync/internal/usecases/loading"
	"github.com/vfg2006/ads-warehouse-sync/internal/usecases/transforming"
	"github.com/vfg2006/ads-warehouse-sync/internal/usecases/validating"
	"github.com/vfg2006/ads-warehouse-sync/pkg/log"
)

// InsightSyncConfig representa a configuração do agendador de insights do Meta
type InsightSyncConfig struct {
	CronSchedule string
	LookbackDays int
	SyncEnabled  bool
}

// InsightSyncService gerencia o agendamento e a execução do fluxo completo de
// sincronização de insights: extração, validação, transformação e carga no
// warehouse, seguidas da atualização dos rollups do mesmo período
type InsightSyncService struct {
	scheduler  *gocron.Scheduler
	config     InsightSyncConfig
	accountIDs []string

	extractor         extracting.Extractor
	validator         validating.Validator
	transformer       transforming.Transformer
	loader            loading.Loader
	insightRepository repository.InsightRepository
	rollupSync        *RollupSyncService

	baseCtx context.Context

	syncMutex           sync.Mutex
	syncRunning         bool
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSummary         *domain.SyncSummary
	lastError           string
}

// NewInsightSyncService cria uma nova instância do serviço de sincronização de insights
func NewInsightSyncService(
	extractor extracting.Extractor,
	validator validating.Validator,
	transformer transforming.Transformer,
	loader loading.Loader,
	insightRepository repository.InsightRepository,
	rollupSync *RollupSyncService,
	appConfig *config.Config,
) *InsightSyncService {
	insightConfig := InsightSyncConfig{
		CronSchedule: appConfig.InsightSync.CronSchedule,
		LookbackDays: appConfig.InsightSync.LookbackDays,
		SyncEnabled:  appConfig.InsightSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": insightConfig.CronSchedule,
		"lookback_days": insightConfig.LookbackDays,
		"sync_enabled":  insightConfig.SyncEnabled,
		"accounts":      len(appConfig.Meta.AdAccountIDs),
	}).Info("Configuração do agendador de insights do Meta carregada")

	return &InsightSyncService{
		scheduler:         scheduler,
		config:            insightConfig,
		accountIDs:        appConfig.Meta.AdAccountIDs,
		extractor:         extractor,
		validator:         validator,
		transformer:       transformer,
		loader:            loader,
		insightRepository: insightRepository,
		rollupSync:        rollupSync,
		baseCtx:           context.Background(),
	}
}

// Start inicia o agendador
func (s *InsightSyncService) Start(ctx context.Context) error {
	s.baseCtx = ctx

	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de insights do Meta desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de insights do Meta")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncInsights()
	})
	if err != nil {
		return errors.Wrap(err, "erro ao agendar sincronização de insights do Meta")
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de insights do Meta")
		s.scheduler.Stop()
	}()

	return nil
}

// syncInsights executa a sincronização incremental padrão, disparada pelo cron
func (s *InsightSyncService) syncInsights() {
	if err := s.begin(); err != nil {
		logrus.Info("Sincronização de insights do Meta já em andamento, ignorando")
		return
	}

	dateRange := domain.LookbackRange(time.Now(), s.config.LookbackDays)

	summary, err := s.run(s.baseCtx, dateRange)
	if err != nil {
		logrus.WithError(err).Error("Sincronização de insights do Meta falhou")
	}

	s.finish(summary, err)
}

// SyncRange executa a sincronização de um intervalo arbitrário de forma
// síncrona. É o caminho do endpoint de reprocessamento por intervalo.
func (s *InsightSyncService) SyncRange(ctx context.Context, dateRange domain.DateRange) (*domain.SyncSummary, error) {
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}

	if err := s.begin(); err != nil {
		return nil, err
	}

	summary, err := s.run(ctx, dateRange)
	s.finish(summary, err)

	return summary, err
}

// TriggerManualSync inicia manualmente uma sincronização incremental de insights
func (s *InsightSyncService) TriggerManualSync() error {
	if err := s.begin(); err != nil {
		return err
	}

	logrus.Info("Iniciando sincronização manual de insights do Meta")

	go func() {
		dateRange := domain.LookbackRange(time.Now(), s.config.LookbackDays)

		summary, err := s.run(s.baseCtx, dateRange)
		if err != nil {
			logrus.WithError(err).Error("Sincronização manual de insights do Meta falhou")
		}

		s.finish(summary, err)
	}()

	return nil
}

// run executa o pipeline completo para o intervalo: extração, validação,
// mapeamento, carga e atualização dos rollups do período
func (s *InsightSyncService) run(ctx context.Context, dateRange domain.DateRange) (*domain.SyncSummary, error) {
	// Cada execução ganha um sync_run_id próprio para correlacionar os logs
	// de todas as etapas do pipeline
	ctx, runID := log.WithSyncRunID(ctx)

	partition := dateRange.Label()
	summary := &domain.SyncSummary{}

	runLog := logrus.WithFields(logrus.Fields{
		"sync_run_id": runID,
		"partition":   partition,
	})

	runLog.WithField("accounts", len(s.accountIDs)).Info("Iniciando sincronização de insights do Meta")

	records, err := s.extractor.ExtractRange(ctx, s.accountIDs, dateRange)
	if err != nil {
		return summary, errors.Wrap(err, "extração de insights falhou")
	}
	summary.Extracted = len(records)

	if len(records) == 0 {
		runLog.Info("Nenhum insight retornado pela Meta API para o período")
		return summary, nil
	}

	result, err := s.validator.ValidateBatch(records)
	if result != nil {
		summary.Valid = len(result.Valid)
		summary.Invalid = len(result.Invalid)
	}
	if err != nil {
		return summary, errors.Wrap(err, "validação do lote de insights falhou")
	}

	rows := s.transformer.MapRows(result.Valid)

	created, updated := s.countNewAndUpdated(ctx, rows, dateRange)

	if err := s.loader.LoadInsights(ctx, partition, rows); err != nil {
		return summary, err
	}
	summary.Loaded = len(rows)

	runLog.WithFields(logrus.Fields{
		"extracted": summary.Extracted,
		"valid":     summary.Valid,
		"invalid":   summary.Invalid,
		"new":       created,
		"updated":   updated,
	}).Info("Sincronização de insights do Meta concluída")

	if err := s.rollupSync.RefreshRange(ctx, dateRange); err != nil {
		if errors.Is(err, ErrSyncAlreadyRunning) {
			runLog.Warn("Rollup já em execução, atualização disparada pela sincronização de insights ignorada")
			return summary, nil
		}

		return summary, errors.Wrap(err, "atualização dos rollups após a carga de insights falhou")
	}

	return summary, nil
}

// countNewAndUpdated separa as linhas entre inserções e atualizações
// consultando as chaves já presentes no warehouse antes do MERGE. A contagem
// é informativa: uma falha na consulta vira aviso, nunca aborta a carga.
func (s *InsightSyncService) countNewAndUpdated(ctx context.Context, rows []*domain.InsightRow, dateRange domain.DateRange) (int, int) {
	if len(rows) == 0 {
		return 0, 0
	}

	accounts := make(map[string]bool)
	for _, row := range rows {
		accounts[row.AccountID] = true
	}

	existing := make(map[string]bool)
	for accountID := range accounts {
		keys, err := s.insightRepository.ExistingKeys(ctx, accountID, dateRange)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"account_id": accountID,
				"error":      err.Error(),
			}).Warn("Não foi possível consultar as chaves existentes da conta, contagem de novos/atualizados incompleta")
			continue
		}

		for key := range keys {
			existing[key] = true
		}
	}

	var created, updated int
	for _, row := range rows {
		if existing[row.Key()] {
			updated++
		} else {
			created++
		}
	}

	return created, updated
}

func (s *InsightSyncService) begin() error {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return ErrSyncAlreadyRunning
	}

	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()

	return nil
}

func (s *InsightSyncService) finish(summary *domain.SyncSummary, runErr error) {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()
	s.lastSummary = summary

	if runErr != nil {
		s.lastError = runErr.Error()
	} else {
		s.lastError = ""
	}
}

// GetStatus retorna o status atual do agendador
func (s *InsightSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_lookback_days":     s.config.LookbackDays,
		"sync_running":           s.syncRunning,
		"accounts":               len(s.accountIDs),
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_error":             s.lastError,
	}

	if s.lastSummary != nil {
		status["last_summary"] = s.lastSummary
	}

	return status
}
