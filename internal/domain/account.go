package domain

import "strings"

// NormalizeAccountID remove o prefixo "act_" de um ID de conta de anúncios.
// A configuração aceita IDs com ou sem o prefixo; internamente trabalhamos
// sempre com o ID puro e adicionamos "act_" só na montagem de URLs
func NormalizeAccountID(accountID string) string {
	return strings.TrimPrefix(strings.TrimSpace(accountID), "act_")
}
