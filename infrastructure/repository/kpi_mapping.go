package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"

	"github.com/vfg2006/ads-warehouse-sync/infrastructure/warehouse/bigquery"
	"github.com/vfg2006/ads-warehouse-sync/internal/config"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
)

type KPIMappingRepository interface {
	EnsureTable(ctx context.Context) error
	ListMappings(ctx context.Context) ([]*domain.KPIMapping, error)
	ReplaceMappings(ctx context.Context, mappings []*domain.KPIMapping) error
	MappingIndex(ctx context.Context) (map[string]string, error)
}

type kpiMappingRepository struct {
	runner bigquery.Runner
	table  string

	mu    sync.Mutex
	cache map[string]string
}

func NewKPIMappingRepository(runner bigquery.Runner, cfg *config.Config) KPIMappingRepository {
	return &kpiMappingRepository{
		runner: runner,
		table:  cfg.Warehouse.KPIMappingTable,
	}
}

// EnsureTable cria a tabela de mapeamentos quando necessário. Tabela recém
// criada é semeada com os mapeamentos padrão via streaming insert, para que
// o rollup funcione antes do primeiro refresh completo.
func (r *kpiMappingRepository) EnsureTable(ctx context.Context) error {
	created, err := r.runner.CreateTableIfNotExists(ctx, r.table, KPIMappingTableSchema())
	if err != nil {
		return err
	}

	if !created {
		return nil
	}

	seed := domain.StandardKPIMappings()
	now := time.Now().UTC()

	rows := make([]any, 0, len(seed))
	for _, mapping := range seed {
		mapping.LastUpdated = now
		rows = append(rows, mapping)
	}

	if err := r.runner.Insert(ctx, r.table, rows); err != nil {
		return errors.Wrap(err, "erro ao semear mapeamentos padrão")
	}

	logrus.WithField("mappings", len(rows)).Info("kpi: tabela de mapeamentos criada e semeada")

	return nil
}

type kpiMappingScan struct {
	UserFriendlyName     string     `bigquery:"user_friendly_name"`
	MetaActionType       string     `bigquery:"meta_action_type"`
	MappingType          *string    `bigquery:"mapping_type"`
	AdAccountID          string     `bigquery:"ad_account_id"`
	FacebookConversionID *string    `bigquery:"facebook_conversion_id"`
	LastUpdated          *time.Time `bigquery:"last_updated"`
}

func (r *kpiMappingRepository) ListMappings(ctx context.Context) ([]*domain.KPIMapping, error) {
	query, args, err := squirrel.
		Select("user_friendly_name", "meta_action_type", "mapping_type", "ad_account_id", "facebook_conversion_id", "last_updated").
		From(r.runner.Qualify(r.table)).
		PlaceholderFormat(squirrel.Question).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	it, err := r.runner.Query(ctx, query, queryParameters(args))
	if err != nil {
		return nil, err
	}

	var mappings []*domain.KPIMapping
	for {
		var row kpiMappingScan
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "erro ao iterar mapeamentos de KPI")
		}

		mapping := &domain.KPIMapping{
			UserFriendlyName:     row.UserFriendlyName,
			MetaActionType:       row.MetaActionType,
			AdAccountID:          row.AdAccountID,
			FacebookConversionID: row.FacebookConversionID,
		}
		if row.MappingType != nil {
			mapping.MappingType = *row.MappingType
		}
		if row.LastUpdated != nil {
			mapping.LastUpdated = *row.LastUpdated
		}

		mappings = append(mappings, mapping)
	}

	return mappings, nil
}

// ReplaceMappings substitui a tabela inteira pelos mapeamentos informados,
// como faz o refresh periódico. O cache de busca é invalidado.
func (r *kpiMappingRepository) ReplaceMappings(ctx context.Context, mappings []*domain.KPIMapping) error {
	if len(mappings) == 0 {
		return errors.New("lista de mapeamentos vazia: substituição abortada")
	}

	rows := make([]any, 0, len(mappings))
	for _, mapping := range mappings {
		rows = append(rows, mapping)
	}

	if err := r.runner.Load(ctx, r.table, rows, true); err != nil {
		return errors.Wrap(err, "erro ao substituir mapeamentos de KPI")
	}

	r.mu.Lock()
	r.cache = nil
	r.mu.Unlock()

	return nil
}

// MappingIndex devolve o índice de busca "{conta}:{nome}" -> action_type,
// carregado na primeira chamada e reaproveitado até o próximo
// ReplaceMappings. Consultas por conta caem no curinga "all" quando não há
// mapeamento específico.
func (r *kpiMappingRepository) MappingIndex(ctx context.Context) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cache != nil {
		return r.cache, nil
	}

	mappings, err := r.ListMappings(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]string, len(mappings))
	for _, mapping := range mappings {
		index[domain.MappingLookupKey(mapping.AdAccountID, mapping.UserFriendlyName)] = mapping.MetaActionType
	}

	r.cache = index

	return index, nil
}
