package transforming

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-warehouse-sync/infrastructure/repository"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
)

// Transformer converte registros validados em linhas de warehouse e monta
// os rollups diários e semanais a partir das tabelas de referência
type Transformer interface {
	MapRows(validated []*domain.ValidatedInsight) []*domain.InsightRow
	BuildRollups(ctx context.Context, rows []*domain.InsightRow) ([]*domain.RollupRow, error)
	BuildWeekly(rollups []*domain.RollupRow) []*domain.WeeklyRollup
}

type transformer struct {
	groupingRepository repository.AdGroupingRepository
	mappingRepository  repository.KPIMappingRepository
}

func NewTransformer(
	groupingRepository repository.AdGroupingRepository,
	mappingRepository repository.KPIMappingRepository,
) Transformer {
	return &transformer{
		groupingRepository: groupingRepository,
		mappingRepository:  mappingRepository,
	}
}

// MapRows converte o lote validado nas linhas tipadas da tabela meta_ads
func (t *transformer) MapRows(validated []*domain.ValidatedInsight) []*domain.InsightRow {
	rows := make([]*domain.InsightRow, 0, len(validated))
	for _, record := range validated {
		rows = append(rows, MapInsight(record))
	}

	return rows
}

// BuildRollups casa cada linha de insight com os agrupamentos de cliente e
// resolve os KPIs de cada agrupamento para action_types da Meta, extraindo
// os valores correspondentes das listas de ações. Linhas duplicadas na
// mesma merge_key mantêm a de date_start mais recente.
func (t *transformer) BuildRollups(ctx context.Context, rows []*domain.InsightRow) ([]*domain.RollupRow, error) {
	groupings, err := t.groupingRepository.ListGroupings(ctx)
	if err != nil {
		return nil, err
	}

	if len(groupings) == 0 {
		logrus.Warn("rollup: nenhum agrupamento da plataforma Meta encontrado")
		return nil, nil
	}

	index, err := t.mappingRepository.MappingIndex(ctx)
	if err != nil {
		return nil, err
	}

	deduped := make(map[string]*domain.RollupRow)
	for _, row := range rows {
		if row.AdsetName == nil {
			continue
		}

		for _, grouping := range groupings {
			if !grouping.MatchesAdset(*row.AdsetName) {
				continue
			}

			rollup := t.buildRollupRow(grouping, row, index)

			existing, ok := deduped[rollup.MergeKey]
			if ok && existing.DateStart >= rollup.DateStart {
				continue
			}
			deduped[rollup.MergeKey] = rollup
		}
	}

	rollups := make([]*domain.RollupRow, 0, len(deduped))
	for _, rollup := range deduped {
		rollups = append(rollups, rollup)
	}
	sort.Slice(rollups, func(i, j int) bool { return rollups[i].MergeKey < rollups[j].MergeKey })

	logrus.WithFields(logrus.Fields{
		"insights":  len(rows),
		"groupings": len(groupings),
		"rollups":   len(rollups),
	}).Info("rollup: linhas diárias montadas")

	return rollups, nil
}

func (t *transformer) buildRollupRow(grouping *domain.AdGrouping, row *domain.InsightRow, index map[string]string) *domain.RollupRow {
	rollup := &domain.RollupRow{
		MergeKey: domain.BuildRollupMergeKey(grouping.ClientID, row.AdID, row.DateStart),

		ClientID:       grouping.ClientID,
		ReportingGroup: grouping.ReportingGroup,
		KPIGoal:        grouping.KPIGoal,
		Budget:         grouping.Budget,
		Platform:       grouping.Platform,

		DateStart: row.DateStart,
		DateEnd:   row.DateStop,

		AdName:          row.AdName,
		AccountID:       row.AccountID,
		AccountName:     row.AccountName,
		AccountCurrency: row.AccountCurrency,
		AdID:            row.AdID,
		AdsetID:         row.AdsetID,
		AdsetName:       row.AdsetName,
		CampaignName:    row.CampaignName,

		Impressions: row.Impressions,
		Reach:       row.Reach,
		Frequency:   row.Frequency,
		Spend:       row.Spend,
		Clicks:      row.Clicks,
		CPC:         row.CPC,
		CPM:         row.CPM,
		CPP:         row.CPP,
		CTR:         row.CTR,

		UniqueClicks:       row.UniqueClicks,
		UniqueCTR:          row.UniqueCTR,
		CostPerUniqueClick: row.CostPerUniqueClick,
		InlineLinkClicks:   row.InlineLinkClicks,
		InlineLinkClickCTR: row.InlineLinkClickCTR,

		QualityRanking:        row.QualityRanking,
		EngagementRateRanking: row.EngagementRateRanking,
		ConversionRateRanking: row.ConversionRateRanking,

		Objective:        row.Objective,
		OptimizationGoal: row.OptimizationGoal,
	}

	actionTypes := make([]*string, domain.MaxKPIsPerGrouping)
	actionValues := make([]*int64, domain.MaxKPIsPerGrouping)
	actionCosts := make([]*float64, domain.MaxKPIsPerGrouping)

	for i, name := range grouping.KPINames() {
		actionType, ok := resolveMapping(index, row.AccountID, name)
		if !ok {
			logrus.WithFields(logrus.Fields{
				"kpi":        name,
				"account_id": row.AccountID,
				"client_id":  grouping.ClientID,
			}).Warn("rollup: KPI sem mapeamento para action_type, ignorado")
			continue
		}

		actionTypes[i] = &actionType

		if value, ok := domain.ActionValue(row.Actions, actionType); ok {
			actionValues[i] = &value
		}
		if cost, ok := domain.MetricValue(row.CostPerActionType, actionType); ok {
			actionCosts[i] = &cost
		}
	}

	rollup.ActionType0, rollup.ActionType1, rollup.ActionType2 = actionTypes[0], actionTypes[1], actionTypes[2]
	rollup.ActionsValue0, rollup.ActionsValue1, rollup.ActionsValue2 = actionValues[0], actionValues[1], actionValues[2]
	rollup.CostPerActionTypeValue0, rollup.CostPerActionTypeValue1, rollup.CostPerActionTypeValue2 = actionCosts[0], actionCosts[1], actionCosts[2]

	return rollup
}

// resolveMapping busca o action_type de um KPI: primeiro o mapeamento da
// própria conta, depois o curinga "all"
func resolveMapping(index map[string]string, accountID, name string) (string, bool) {
	if actionType, ok := index[domain.MappingLookupKey(accountID, name)]; ok {
		return actionType, true
	}

	actionType, ok := index[domain.MappingLookupKey(domain.MappingAllAccounts, name)]
	return actionType, ok
}

// BuildWeekly dobra as linhas diárias nos baldes de semana ISO. A dobra é
// associativa: agregar incrementalmente produz o mesmo resultado de
// recomputar a semana inteira de uma vez.
func (t *transformer) BuildWeekly(rollups []*domain.RollupRow) []*domain.WeeklyRollup {
	buckets := make(map[string]*domain.WeeklyRollup)
	for _, daily := range rollups {
		weekly := domain.NewWeeklyRollup(daily)

		if existing, ok := buckets[weekly.MergeKey]; ok {
			buckets[weekly.MergeKey] = existing.Merge(weekly)
			continue
		}
		buckets[weekly.MergeKey] = weekly
	}

	aggregated := make([]*domain.WeeklyRollup, 0, len(buckets))
	for _, weekly := range buckets {
		aggregated = append(aggregated, weekly)
	}
	sort.Slice(aggregated, func(i, j int) bool { return aggregated[i].MergeKey < aggregated[j].MergeKey })

	return aggregated
}
