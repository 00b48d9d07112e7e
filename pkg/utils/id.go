package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// Alfabeto restrito a caracteres válidos em nomes de tabela do BigQuery
const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateStagingSuffix gera o sufixo usado em nomes de tabelas temporárias
// de staging, ex.: meta_ads_tmp_a1B2c3D4
func GenerateStagingSuffix() (string, error) {
	return gonanoid.Generate(characters, 8)
}
