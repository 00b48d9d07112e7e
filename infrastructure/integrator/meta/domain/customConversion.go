package metadomain

// CustomConversion é uma conversão personalizada configurada na conta de
// anúncios. O ID compõe o action_type "offsite_conversion.custom.{id}"
// reportado nos insights
type CustomConversion struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	CustomEventType string `json:"custom_event_type"`
}

// CustomConversionsPage é uma página do endpoint /act_{id}/customconversions
type CustomConversionsPage struct {
	Data   []CustomConversion `json:"data"`
	Paging Paging             `json:"paging"`
}

// NextCursor devolve o cursor da próxima página, ou vazio quando a
// paginação terminou
func (p *CustomConversionsPage) NextCursor() string {
	if p.Paging.Next == "" {
		return ""
	}

	return p.Paging.Cursors.After
}
