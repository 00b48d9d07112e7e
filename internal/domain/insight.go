package domain

// FieldKind classifica os tipos de campo do esquema de insights
type FieldKind string

const (
	FieldFloat  FieldKind = "float"
	FieldInt    FieldKind = "int"
	FieldDate   FieldKind = "date"
	FieldString FieldKind = "string"
)

// FieldSpec descreve um campo do esquema da tabela meta_ads
type FieldSpec struct {
	Kind     FieldKind
	Nested   bool // lista de pares action_type/value
	Required bool // presença obrigatória na validação
}

// InsightFieldOrder mantém a ordem canônica das colunas, usada na montagem
// do MERGE e na criação da tabela
var InsightFieldOrder = []string{
	"account_id", "account_name", "account_currency",
	"ad_id", "ad_name", "adset_id", "adset_name",
	"campaign_id", "campaign_name",
	"date_start", "date_stop",
	"impressions", "reach", "frequency",
	"spend", "clicks", "cpc", "cpm", "cpp", "ctr",
	"unique_clicks", "unique_ctr", "cost_per_unique_click",
	"inline_link_clicks", "inline_link_click_ctr", "website_ctr",
	"actions", "unique_actions",
	"cost_per_action_type", "cost_per_unique_action_type",
	"video_play_actions", "video_avg_time_watched_actions",
	"video_p25_watched_actions", "video_p50_watched_actions",
	"video_p75_watched_actions", "video_p100_watched_actions",
	"video_thruplay_watched_actions",
	"quality_ranking", "engagement_rate_ranking", "conversion_rate_ranking",
	"objective", "optimization_goal",
}

// InsightSchema é o esquema canônico dos insights de anúncios: fonte única
// para validação, conversão de tipos e criação da tabela no warehouse
var InsightSchema = map[string]FieldSpec{
	// Chave natural
	"account_id": {Kind: FieldString, Required: true},
	"ad_id":      {Kind: FieldString, Required: true},
	"date_start": {Kind: FieldDate, Required: true},
	"date_stop":  {Kind: FieldDate, Required: true},

	// Metadados
	"account_name":     {Kind: FieldString},
	"account_currency": {Kind: FieldString},
	"ad_name":          {Kind: FieldString},
	"adset_id":         {Kind: FieldString},
	"adset_name":       {Kind: FieldString},
	"campaign_id":      {Kind: FieldString},
	"campaign_name":    {Kind: FieldString},

	// Métricas fracionárias
	"spend":                 {Kind: FieldFloat},
	"cpc":                   {Kind: FieldFloat},
	"cpm":                   {Kind: FieldFloat},
	"cpp":                   {Kind: FieldFloat},
	"ctr":                   {Kind: FieldFloat},
	"frequency":             {Kind: FieldFloat},
	"unique_ctr":            {Kind: FieldFloat},
	"cost_per_unique_click": {Kind: FieldFloat},
	"inline_link_click_ctr": {Kind: FieldFloat},

	// Métricas inteiras
	"impressions":        {Kind: FieldInt},
	"reach":              {Kind: FieldInt},
	"clicks":             {Kind: FieldInt},
	"unique_clicks":      {Kind: FieldInt},
	"inline_link_clicks": {Kind: FieldInt},

	// Diagnósticos de qualidade
	"quality_ranking":         {Kind: FieldString},
	"engagement_rate_ranking": {Kind: FieldString},
	"conversion_rate_ranking": {Kind: FieldString},

	// Objetivos
	"objective":         {Kind: FieldString},
	"optimization_goal": {Kind: FieldString},

	// Listas de ações (pares action_type/value)
	"website_ctr":                 {Kind: FieldFloat, Nested: true},
	"cost_per_action_type":        {Kind: FieldFloat, Nested: true},
	"cost_per_unique_action_type": {Kind: FieldFloat, Nested: true},

	"actions":                        {Kind: FieldInt, Nested: true},
	"unique_actions":                 {Kind: FieldInt, Nested: true},
	"video_play_actions":             {Kind: FieldInt, Nested: true},
	"video_avg_time_watched_actions": {Kind: FieldInt, Nested: true},
	"video_p25_watched_actions":      {Kind: FieldInt, Nested: true},
	"video_p50_watched_actions":      {Kind: FieldInt, Nested: true},
	"video_p75_watched_actions":      {Kind: FieldInt, Nested: true},
	"video_p100_watched_actions":     {Kind: FieldInt, Nested: true},
	"video_thruplay_watched_actions": {Kind: FieldInt, Nested: true},
}

// RawInsight é o registro dinâmico retornado pela Meta API, ainda não
// validado. Nunca deve fluir além do validador.
type RawInsight map[string]any

// AdID retorna o ad_id do registro bruto, se presente
func (r RawInsight) AdID() string {
	if v, ok := r["ad_id"].(string); ok {
		return v
	}
	return ""
}

// DateStart retorna o date_start do registro bruto, se presente
func (r RawInsight) DateStart() string {
	if v, ok := r["date_start"].(string); ok {
		return v
	}
	return ""
}

// ActionMetric representa um par action_type/value com valor fracionário
type ActionMetric struct {
	ActionType string  `json:"action_type" bigquery:"action_type"`
	Value      float64 `json:"value" bigquery:"value"`
}

// ActionCount representa um par action_type/value com valor inteiro
type ActionCount struct {
	ActionType string `json:"action_type" bigquery:"action_type"`
	Value      int64  `json:"value" bigquery:"value"`
}

// ValidatedInsight é um registro que passou pela validação de esquema:
// todos os campos presentes estão coagidos para os tipos declarados em
// InsightSchema. É um tipo distinto de RawInsight para impedir que dados
// não verificados sigam pipeline adentro.
type ValidatedInsight struct {
	AccountID string
	AdID      string
	DateStart string
	DateStop  string

	// Fields carrega os demais campos já convertidos: float64, int64,
	// string, []ActionMetric ou []ActionCount conforme o esquema
	Fields map[string]any
}

// Float retorna um campo fracionário convertido, se presente
func (v *ValidatedInsight) Float(name string) (float64, bool) {
	value, ok := v.Fields[name].(float64)
	return value, ok
}

// Int retorna um campo inteiro convertido, se presente
func (v *ValidatedInsight) Int(name string) (int64, bool) {
	value, ok := v.Fields[name].(int64)
	return value, ok
}

// Str retorna um campo textual, se presente
func (v *ValidatedInsight) Str(name string) (string, bool) {
	value, ok := v.Fields[name].(string)
	return value, ok
}

// Metrics retorna uma lista de ações com valores fracionários, se presente
func (v *ValidatedInsight) Metrics(name string) ([]ActionMetric, bool) {
	value, ok := v.Fields[name].([]ActionMetric)
	return value, ok
}

// Counts retorna uma lista de ações com valores inteiros, se presente
func (v *ValidatedInsight) Counts(name string) ([]ActionCount, bool) {
	value, ok := v.Fields[name].([]ActionCount)
	return value, ok
}
