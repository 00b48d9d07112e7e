package repository

import (
	bq "cloud.google.com/go/bigquery"

	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
)

// InsightTableSchema monta o schema da tabela meta_ads a partir do esquema
// canônico de insights, na ordem canônica das colunas. Campos aninhados
// viram RECORD repetido com os pares action_type/value.
func InsightTableSchema() bq.Schema {
	schema := make(bq.Schema, 0, len(domain.InsightFieldOrder))
	for _, name := range domain.InsightFieldOrder {
		schema = append(schema, fieldSchema(name, domain.InsightSchema[name]))
	}

	return schema
}

func fieldSchema(name string, spec domain.FieldSpec) *bq.FieldSchema {
	if spec.Nested {
		return &bq.FieldSchema{
			Name:     name,
			Type:     bq.RecordFieldType,
			Repeated: true,
			Schema: bq.Schema{
				{Name: "action_type", Type: bq.StringFieldType},
				{Name: "value", Type: columnType(spec.Kind)},
			},
		}
	}

	return &bq.FieldSchema{
		Name:     name,
		Type:     columnType(spec.Kind),
		Required: spec.Required,
	}
}

func columnType(kind domain.FieldKind) bq.FieldType {
	switch kind {
	case domain.FieldFloat:
		return bq.FloatFieldType
	case domain.FieldInt:
		return bq.IntegerFieldType
	case domain.FieldDate:
		return bq.DateFieldType
	default:
		return bq.StringFieldType
	}
}

// KPIMappingTableSchema é o schema da tabela kpi_event_mapping
func KPIMappingTableSchema() bq.Schema {
	return bq.Schema{
		{Name: "user_friendly_name", Type: bq.StringFieldType, Required: true},
		{Name: "meta_action_type", Type: bq.StringFieldType, Required: true},
		{Name: "mapping_type", Type: bq.StringFieldType},
		{Name: "ad_account_id", Type: bq.StringFieldType, Required: true},
		{Name: "facebook_conversion_id", Type: bq.StringFieldType},
		{Name: "last_updated", Type: bq.TimestampFieldType},
	}
}

// RollupTableSchema é o schema da tabela ads_rollup. A ordem das colunas
// também define a lista de colunas do MERGE.
func RollupTableSchema() bq.Schema {
	return bq.Schema{
		{Name: "merge_key", Type: bq.StringFieldType, Required: true},
		{Name: "client_id", Type: bq.StringFieldType, Required: true},
		{Name: "reporting_group", Type: bq.StringFieldType},
		{Name: "kpi_goal", Type: bq.FloatFieldType},
		{Name: "budget", Type: bq.FloatFieldType},
		{Name: "platform", Type: bq.StringFieldType},
		{Name: "date_start", Type: bq.DateFieldType},
		{Name: "date_end", Type: bq.DateFieldType},
		{Name: "ad_name", Type: bq.StringFieldType},
		{Name: "account_id", Type: bq.StringFieldType},
		{Name: "account_name", Type: bq.StringFieldType},
		{Name: "account_currency", Type: bq.StringFieldType},
		{Name: "ad_id", Type: bq.StringFieldType},
		{Name: "adset_id", Type: bq.StringFieldType},
		{Name: "adset_name", Type: bq.StringFieldType},
		{Name: "campaign_name", Type: bq.StringFieldType},
		{Name: "impressions", Type: bq.IntegerFieldType},
		{Name: "reach", Type: bq.IntegerFieldType},
		{Name: "frequency", Type: bq.FloatFieldType},
		{Name: "spend", Type: bq.FloatFieldType},
		{Name: "clicks", Type: bq.IntegerFieldType},
		{Name: "cpc", Type: bq.FloatFieldType},
		{Name: "cpm", Type: bq.FloatFieldType},
		{Name: "cpp", Type: bq.FloatFieldType},
		{Name: "ctr", Type: bq.FloatFieldType},
		{Name: "unique_clicks", Type: bq.IntegerFieldType},
		{Name: "unique_ctr", Type: bq.FloatFieldType},
		{Name: "cost_per_unique_click", Type: bq.FloatFieldType},
		{Name: "inline_link_clicks", Type: bq.IntegerFieldType},
		{Name: "inline_link_click_ctr", Type: bq.FloatFieldType},
		{Name: "action_type_0", Type: bq.StringFieldType},
		{Name: "action_type_1", Type: bq.StringFieldType},
		{Name: "action_type_2", Type: bq.StringFieldType},
		{Name: "actions_value_0", Type: bq.IntegerFieldType},
		{Name: "actions_value_1", Type: bq.IntegerFieldType},
		{Name: "actions_value_2", Type: bq.IntegerFieldType},
		{Name: "cost_per_action_type_value_0", Type: bq.FloatFieldType},
		{Name: "cost_per_action_type_value_1", Type: bq.FloatFieldType},
		{Name: "cost_per_action_type_value_2", Type: bq.FloatFieldType},
		{Name: "quality_ranking", Type: bq.StringFieldType},
		{Name: "engagement_rate_ranking", Type: bq.StringFieldType},
		{Name: "conversion_rate_ranking", Type: bq.StringFieldType},
		{Name: "objective", Type: bq.StringFieldType},
		{Name: "optimization_goal", Type: bq.StringFieldType},
	}
}

// WeeklyRollupTableSchema é o schema da tabela ads_rollup_weekly
func WeeklyRollupTableSchema() bq.Schema {
	return bq.Schema{
		{Name: "merge_key", Type: bq.StringFieldType, Required: true},
		{Name: "client_id", Type: bq.StringFieldType, Required: true},
		{Name: "ad_id", Type: bq.StringFieldType, Required: true},
		{Name: "iso_year", Type: bq.IntegerFieldType},
		{Name: "iso_week", Type: bq.IntegerFieldType},
		{Name: "week_start", Type: bq.DateFieldType},
		{Name: "days", Type: bq.IntegerFieldType},
		{Name: "impressions", Type: bq.IntegerFieldType},
		{Name: "reach", Type: bq.IntegerFieldType},
		{Name: "spend", Type: bq.FloatFieldType},
		{Name: "clicks", Type: bq.IntegerFieldType},
		{Name: "unique_clicks", Type: bq.IntegerFieldType},
		{Name: "inline_link_clicks", Type: bq.IntegerFieldType},
		{Name: "action_type_0", Type: bq.StringFieldType},
		{Name: "action_type_1", Type: bq.StringFieldType},
		{Name: "action_type_2", Type: bq.StringFieldType},
		{Name: "actions_value_0", Type: bq.IntegerFieldType},
		{Name: "actions_value_1", Type: bq.IntegerFieldType},
		{Name: "actions_value_2", Type: bq.IntegerFieldType},
		{Name: "cpc", Type: bq.FloatFieldType},
		{Name: "cpm", Type: bq.FloatFieldType},
		{Name: "ctr", Type: bq.FloatFieldType},
		{Name: "frequency", Type: bq.FloatFieldType},
		{Name: "cost_per_action_0", Type: bq.FloatFieldType},
		{Name: "cost_per_action_1", Type: bq.FloatFieldType},
		{Name: "cost_per_action_2", Type: bq.FloatFieldType},
	}
}

func columnNames(schema bq.Schema) []string {
	names := make([]string, 0, len(schema))
	for _, field := range schema {
		names = append(names, field.Name)
	}

	return names
}
