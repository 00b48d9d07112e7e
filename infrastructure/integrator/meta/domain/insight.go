package metadomain

// Cursors de paginação da Graph API
type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Paging acompanha toda resposta paginada. A URL `next` só aparece
// enquanto existirem mais páginas
type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next,omitempty"`
}

// InsightsPage é uma página de insights no nível de anúncio. Os registros
// chegam dinâmicos (números como strings, listas aninhadas de ações) e só
// ganham tipo depois da validação no pipeline
type InsightsPage struct {
	Data   []map[string]any `json:"data"`
	Paging Paging           `json:"paging"`
}

// NextCursor devolve o cursor da próxima página, ou vazio quando a
// paginação terminou
func (p *InsightsPage) NextCursor() string {
	if p.Paging.Next == "" {
		return ""
	}

	return p.Paging.Cursors.After
}
