package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/vfg2006/ads-warehouse-sync/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-warehouse-sync/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-warehouse-sync/infrastructure/repository"
	"github.com/vfg2006/ads-warehouse-sync/infrastructure/warehouse/bigquery"
	"github.com/vfg2006/ads-warehouse-sync/internal/api"
	"github.com/vfg2006/ads-warehouse-sync/internal/config"
	"github.com/vfg2006/ads-warehouse-sync/internal/scheduler"
	"github.com/vfg2006/ads-warehouse-sync/internal/usecases/extracting"
	"github.com/vfg2006/ads-warehouse-sync/internal/usecases/loading"
	"github.com/vfg2006/ads-warehouse-sync/internal/usecases/transforming"
	"github.com/vfg2006/ads-warehouse-sync/internal/usecases/validating"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bqConn := bqconn(ctx, cfg.Warehouse)
	defer bqConn.Close()

	insightRepo := repository.NewInsightRepository(bqConn, cfg)
	groupingRepo := repository.NewAdGroupingRepository(bqConn, cfg)
	kpiMappingRepo := repository.NewKPIMappingRepository(bqConn, cfg)
	rollupRepo := repository.NewRollupRepository(bqConn, cfg)

	tokenManager := metaclient.NewTokenManager(cfg)
	if err := tokenManager.Bootstrap(); err != nil {
		logrus.WithError(err).Warn("Não foi possível preparar o token da Meta na inicialização, a renovação periódica vai tentar recuperar")
	}
	go tokenManager.StartAutoRefresh()
	defer tokenManager.StopAutoRefresh()

	// Orçamento de requisições compartilhado por todos os workers de extração
	budget := semaphore.NewWeighted(int64(cfg.InsightSync.MaxConcurrentJobs))
	limiter := rate.NewLimiter(rate.Limit(cfg.Pipeline.RequestsPerSecond), cfg.Pipeline.RateLimitBurst)

	metaClient := metaclient.NewClient(cfg, tokenManager, budget, limiter)
	metaIntegrator := meta.New(cfg, metaClient)

	extractor := extracting.NewExtractor(cfg, metaIntegrator)
	validator := validating.NewValidator(cfg, validating.NewFileSink(cfg.Pipeline.InvalidRecordsDir))
	transformer := transforming.NewTransformer(groupingRepo, kpiMappingRepo)
	loader := loading.NewLoader(insightRepo, rollupRepo, cfg)

	// Inicializa os agendadores de sincronização separados
	rollupSyncService := scheduler.NewRollupSyncService(
		insightRepo,
		transformer,
		loader,
		cfg,
	)

	insightSyncService := scheduler.NewInsightSyncService(
		extractor,
		validator,
		transformer,
		loader,
		insightRepo,
		rollupSyncService,
		cfg,
	)

	kpiMappingSyncService := scheduler.NewKPIMappingSyncService(
		metaIntegrator,
		kpiMappingRepo,
		cfg,
	)

	// Inicia os agendadores em background
	if err := insightSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de insights do Meta")
	} else {
		logrus.Info("Agendador de sincronização de insights do Meta iniciado com sucesso")
	}

	if err := rollupSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de rollups")
	} else {
		logrus.Info("Agendador de rollups iniciado com sucesso")
	}

	if err := kpiMappingSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de mapeamentos de KPI")
	} else {
		logrus.Info("Agendador de mapeamentos de KPI iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		insightSyncService,
		rollupSyncService,
		kpiMappingSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// bqconn cria a conexão com o BigQuery e valida o acesso ao dataset
func bqconn(ctx context.Context, warehouseConfig config.Warehouse) *bigquery.Connection {
	conn, err := bigquery.NewConnection(ctx, warehouseConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao BigQuery")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com o BigQuery")
	}

	logrus.Info("Conexão com o BigQuery estabelecida com sucesso")
	return conn
}
