package meta

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-warehouse-sync/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-warehouse-sync/internal/config"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
)

// Integrator é a superfície da Meta API consumida pelo pipeline
type Integrator interface {
	InsightsByDateRange(ctx context.Context, accountID string, since, until time.Time) ([]domain.RawInsight, error)
	CustomConversionMappings(ctx context.Context, accountID string) ([]*domain.KPIMapping, error)
}

// MetaIntegrator é a fachada da Graph API para o pipeline: esconde a
// paginação e converte as respostas da API para os tipos do domínio
type MetaIntegrator struct {
	cfg    *config.Config
	Client metaclient.Client
}

func New(cfg *config.Config, client metaclient.Client) Integrator {
	return &MetaIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// InsightsByDateRange busca todos os insights no nível de anúncio da conta
// no intervalo informado, seguindo a paginação por cursor até o fim. Os
// registros retornam brutos: a validação acontece adiante no pipeline
func (s *MetaIntegrator) InsightsByDateRange(ctx context.Context, accountID string, since, until time.Time) ([]domain.RawInsight, error) {
	records := make([]domain.RawInsight, 0)
	after := ""
	pages := 0

	for {
		page, err := s.Client.AdInsightsByAccountID(ctx, accountID, since, until, after)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"account_id": domain.NormalizeAccountID(accountID),
				"error":      err.Error(),
			}).Error("insights: falha ao buscar página de insights na API")
			return nil, err
		}

		pages++
		for _, record := range page.Data {
			records = append(records, domain.RawInsight(record))
		}

		after = page.NextCursor()
		if after == "" {
			break
		}
	}

	logrus.WithFields(logrus.Fields{
		"account_id": domain.NormalizeAccountID(accountID),
		"records":    len(records),
		"pages":      pages,
		"since":      since.Format(time.DateOnly),
		"until":      until.Format(time.DateOnly),
	}).Debug("insights: intervalo de datas extraído com sucesso")

	return records, nil
}

// CustomConversionMappings busca as conversões personalizadas da conta e as
// converte em mapeamentos de KPI prontos para gravação na tabela de
// referência. O ID da conversão vira o action_type reportado nos insights
func (s *MetaIntegrator) CustomConversionMappings(ctx context.Context, accountID string) ([]*domain.KPIMapping, error) {
	conversions, err := s.Client.CustomConversionsByAccountID(ctx, accountID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": domain.NormalizeAccountID(accountID),
			"error":      err.Error(),
		}).Error("kpi: falha ao buscar conversões personalizadas na API")
		return nil, err
	}

	mappings := make([]*domain.KPIMapping, 0, len(conversions))
	for _, conversion := range conversions {
		conversionID := conversion.ID
		mappings = append(mappings, &domain.KPIMapping{
			UserFriendlyName:     conversion.Name,
			MetaActionType:       domain.CustomConversionActionType(conversion.ID),
			MappingType:          domain.MappingTypeCustom,
			AdAccountID:          domain.NormalizeAccountID(accountID),
			FacebookConversionID: &conversionID,
			LastUpdated:          time.Now().UTC(),
		})
	}

	logrus.WithFields(logrus.Fields{
		"account_id": domain.NormalizeAccountID(accountID),
		"mappings":   len(mappings),
	}).Debug("kpi: conversões personalizadas convertidas em mapeamentos")

	return mappings, nil
}
