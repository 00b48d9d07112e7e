package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vfg2006/ads-warehouse-sync/pkg/utils"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Meta           Meta           `mapstructure:",squash"`
	Warehouse      Warehouse      `mapstructure:",squash"`
	Auth           Auth           `mapstructure:",squash"`
	InsightSync    InsightSync    `mapstructure:",squash"`
	RollupSync     RollupSync     `mapstructure:",squash"`
	KPIMappingSync KPIMappingSync `mapstructure:",squash"`
	Pipeline       Pipeline       `mapstructure:",squash"`
}

type App struct {
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// Meta guarda as credenciais e endereços da Graph API. AccessToken, AppID,
// AppSecret e AdAccountIDs são segredos: nunca devem aparecer em logs nem
// em mensagens de erro.
type Meta struct {
	BaseURL         string    `mapstructure:"meta_api_url"`
	Version         string    `mapstructure:"meta_api_version"`
	URL             string    `mapstructure:"-"`
	AccessToken     string    `mapstructure:"fb_access_token"`
	AppID           string    `mapstructure:"fb_app_id"`
	AppSecret       string    `mapstructure:"fb_app_secret"`
	AdAccountIDsRaw string    `mapstructure:"fb_ad_account_id"`
	AdAccountIDs    []string  `mapstructure:"-"`
	LongLivedToken  string    `mapstructure:"meta_long_lived_token"`
	TokenExpiresAt  time.Time `mapstructure:"-"`
}

// Warehouse configura o acesso ao BigQuery. Nomes de tabela podem vir
// qualificados com dataset (ex.: rollup_reference.ad_grouping) para
// sobrepor o dataset padrão.
type Warehouse struct {
	ProjectID         string `mapstructure:"gcp_project_id"`
	CredentialsJSON   string `mapstructure:"google_credentials"`
	DatasetID         string `mapstructure:"bq_dataset_id"`
	MetaAdsTable      string `mapstructure:"bq_meta_ads_table"`
	AdGroupingTable   string `mapstructure:"bq_ad_grouping_table"`
	KPIMappingTable   string `mapstructure:"bq_kpi_mapping_table"`
	RollupTable       string `mapstructure:"bq_rollup_table"`
	WeeklyRollupTable string `mapstructure:"bq_rollup_weekly_table"`
}

type Auth struct {
	Secret string `mapstructure:"api_secret_key"`
}

type InsightSync struct {
	CronSchedule        string `mapstructure:"sync_cron"`
	LookbackDays        int    `mapstructure:"lookback_days"`
	ChunkDays           int    `mapstructure:"chunk_days"`
	MaxConcurrentJobs   int    `mapstructure:"max_concurrent_jobs"`
	RequestDelaySeconds int    `mapstructure:"request_delay_seconds"`
	Enabled             bool   `mapstructure:"sync_enabled"`
}

type RollupSync struct {
	CronSchedule string `mapstructure:"rollup_cron"`
	LookbackDays int    `mapstructure:"rollup_lookback_days"`
	Enabled      bool   `mapstructure:"rollup_sync_enabled"`
}

type KPIMappingSync struct {
	CronSchedule string `mapstructure:"kpi_mapping_cron"`
	Enabled      bool   `mapstructure:"kpi_mapping_sync_enabled"`
}

type Pipeline struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	RateLimitBurst    int     `mapstructure:"rate_limit_burst"`
	BatchSize         int     `mapstructure:"batch_size"`
	MaxInvalidRatio   float64 `mapstructure:"max_invalid_ratio"`
	InvalidRecordsDir string  `mapstructure:"invalid_records_dir"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "")
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "debug")

	viper.SetDefault("META_API_URL", "https://graph.facebook.com")
	viper.SetDefault("META_API_VERSION", "v18.0")

	viper.SetDefault("BQ_DATASET_ID", "raw_ads")
	viper.SetDefault("BQ_META_ADS_TABLE", "meta_ads")
	// As tabelas de referência moram no dataset rollup_reference
	viper.SetDefault("BQ_AD_GROUPING_TABLE", "rollup_reference.ad_grouping")
	viper.SetDefault("BQ_KPI_MAPPING_TABLE", "rollup_reference.kpi_event_mapping")
	viper.SetDefault("BQ_ROLLUP_TABLE", "ads_rollup")
	viper.SetDefault("BQ_ROLLUP_WEEKLY_TABLE", "ads_rollup_weekly")

	viper.SetDefault("API_SECRET_KEY", "your_secret_key")

	// Defaults para sincronização de insights
	viper.SetDefault("SYNC_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("LOOKBACK_DAYS", 7)       // 7 dias para buscar dados
	viper.SetDefault("CHUNK_DAYS", 7)          // Blocos de 7 dias por requisição
	viper.SetDefault("MAX_CONCURRENT_JOBS", 3) // 3 contas em paralelo
	viper.SetDefault("REQUEST_DELAY_SECONDS", 2)
	viper.SetDefault("SYNC_ENABLED", false)

	// Defaults para o rollup diário e semanal
	viper.SetDefault("ROLLUP_CRON", "0 4 * * *") // Depois da sincronização de insights
	viper.SetDefault("ROLLUP_LOOKBACK_DAYS", 30)
	viper.SetDefault("ROLLUP_SYNC_ENABLED", false)

	// Defaults para o refresh de mapeamentos de KPI
	viper.SetDefault("KPI_MAPPING_CRON", "0 2 * * *") // Antes da sincronização de insights
	viper.SetDefault("KPI_MAPPING_SYNC_ENABLED", false)

	// Defaults do pipeline
	viper.SetDefault("REQUESTS_PER_SECOND", 5.0)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("BATCH_SIZE", 1000)
	viper.SetDefault("MAX_INVALID_RATIO", 0.2)
	viper.SetDefault("INVALID_RECORDS_DIR", "invalid_records")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	if err := config.validateMeta(); err != nil {
		return nil, err
	}

	accountIDs, err := utils.ParseJSONStringSlice(config.Meta.AdAccountIDsRaw)
	if err != nil {
		// O valor bruto fica fora da mensagem: é credencial
		return nil, fmt.Errorf("FB_AD_ACCOUNT_ID inválido: %w", err)
	}
	config.Meta.AdAccountIDs = accountIDs

	return config, nil
}

// validateMeta falha cedo quando credenciais obrigatórias da Meta API não
// foram definidas. Só os NOMES das variáveis entram na mensagem de erro.
func (c *Config) validateMeta() error {
	var missing []string

	if c.Meta.AccessToken == "" {
		missing = append(missing, "FB_ACCESS_TOKEN")
	}
	if c.Meta.AppID == "" {
		missing = append(missing, "FB_APP_ID")
	}
	if c.Meta.AppSecret == "" {
		missing = append(missing, "FB_APP_SECRET")
	}
	if c.Meta.AdAccountIDsRaw == "" {
		missing = append(missing, "FB_AD_ACCOUNT_ID")
	}

	if len(missing) > 0 {
		return fmt.Errorf("variáveis de ambiente obrigatórias ausentes: %s", strings.Join(missing, ", "))
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../.env"),            // Diretório acima
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		logrus.Info("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
