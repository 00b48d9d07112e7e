package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"

	"github.com/vfg2006/ads-warehouse-sync/infrastructure/warehouse/bigquery"
	"github.com/vfg2006/ads-warehouse-sync/internal/config"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
)

// AdGroupingRepository lê a tabela de agrupamentos de anúncios, mantida
// manualmente no dataset de referência. Só leitura: o serviço nunca cria
// nem altera agrupamentos.
type AdGroupingRepository interface {
	ListGroupings(ctx context.Context) ([]*domain.AdGrouping, error)
}

type adGroupingRepository struct {
	runner bigquery.Runner
	table  string
}

func NewAdGroupingRepository(runner bigquery.Runner, cfg *config.Config) AdGroupingRepository {
	return &adGroupingRepository{
		runner: runner,
		table:  cfg.Warehouse.AdGroupingTable,
	}
}

// ListGroupings devolve os agrupamentos da plataforma Meta com um padrão de
// casamento de adset definido
func (r *adGroupingRepository) ListGroupings(ctx context.Context) ([]*domain.AdGrouping, error) {
	query, args, err := squirrel.
		Select("client_id", "reporting_group", "platform", "ad_set_contains", "kpi_event", "kpi_custom_code", "kpi_goal", "budget").
		From(r.runner.Qualify(r.table)).
		Where(squirrel.Eq{"platform": domain.PlatformMeta}).
		Where(squirrel.NotEq{"ad_set_contains": ""}).
		PlaceholderFormat(squirrel.Question).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	it, err := r.runner.Query(ctx, query, queryParameters(args))
	if err != nil {
		return nil, err
	}

	var groupings []*domain.AdGrouping
	for {
		var row domain.AdGrouping
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "erro ao iterar agrupamentos de anúncios")
		}

		groupings = append(groupings, &row)
	}

	return groupings, nil
}
