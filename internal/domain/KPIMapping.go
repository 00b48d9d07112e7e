package domain

import (
	"fmt"
	"strings"
	"time"
)

// Tipos de mapeamento de KPI
const (
	MappingTypeStandard = "standard"
	MappingTypeCustom   = "custom"
	MappingTypePixel    = "pixel"
)

// MappingAllAccounts é o ad_account_id curinga de mapeamentos válidos para
// qualquer conta
const MappingAllAccounts = "all"

// KPIMapping traduz um nome amigável de KPI para o action_type
// correspondente da Meta API
type KPIMapping struct {
	UserFriendlyName     string    `json:"user_friendly_name" bigquery:"user_friendly_name"`
	MetaActionType       string    `json:"meta_action_type" bigquery:"meta_action_type"`
	MappingType          string    `json:"mapping_type" bigquery:"mapping_type"`
	AdAccountID          string    `json:"ad_account_id" bigquery:"ad_account_id"`
	FacebookConversionID *string   `json:"facebook_conversion_id,omitempty" bigquery:"facebook_conversion_id"`
	LastUpdated          time.Time `json:"last_updated" bigquery:"last_updated"`
}

// MappingLookupKey monta a chave de busca de mapeamentos: "{conta}:{nome}"
func MappingLookupKey(adAccountID, userFriendlyName string) string {
	return fmt.Sprintf("%s:%s", strings.TrimPrefix(adAccountID, "act_"), userFriendlyName)
}

// StandardKPIMappings são os mapeamentos de eventos padrão, válidos para
// todas as contas. Conversões personalizadas são buscadas por conta na
// Meta API e anexadas a esta lista no refresh.
func StandardKPIMappings() []*KPIMapping {
	names := []struct {
		friendly string
		action   string
	}{
		{"Lead", "lead"},
		{"Video View", "video_view"},
		{"Purchase", "purchase"},
		{"Page View", "page_view"},
		{"Link Click", "link_click"},
		{"Page Engagement", "page_engagement"},
		{"Post Engagement", "post_engagement"},
		{"Landing Page View", "landing_page_view"},
		{"Post Reaction", "post_reaction"},
		{"Post Save", "post_save"},
		{"Web Lead", "web_lead"},
	}

	mappings := make([]*KPIMapping, 0, len(names))
	for _, n := range names {
		mappings = append(mappings, &KPIMapping{
			UserFriendlyName: n.friendly,
			MetaActionType:   n.action,
			MappingType:      MappingTypeStandard,
			AdAccountID:      MappingAllAccounts,
		})
	}

	return mappings
}

// CustomConversionActionType monta o action_type de uma conversão
// personalizada a partir do seu ID
func CustomConversionActionType(conversionID string) string {
	return fmt.Sprintf("offsite_conversion.custom.%s", conversionID)
}
