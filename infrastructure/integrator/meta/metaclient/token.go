package metaclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// TokenResponse representa a resposta da API do Meta ao trocar um token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// DebugTokenData são os campos relevantes retornados por /debug_token
type DebugTokenData struct {
	AppID     string   `json:"app_id"`
	IsValid   bool     `json:"is_valid"`
	ExpiresAt int64    `json:"expires_at"`
	Scopes    []string `json:"scopes"`
}

// DebugTokenResponse é o envelope da resposta de /debug_token
type DebugTokenResponse struct {
	Data DebugTokenData `json:"data"`
}

// graphGET executa uma chamada GET direta contra a Graph API e devolve o
// status e o corpo da resposta. Os endpoints de token não passam pelo
// MetaClient porque rodam antes de o token de longa duração existir
func graphGET(requestURL string, timeout time.Duration) (int, []byte, error) {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(requestURL)
	if err != nil {
		return 0, nil, sanitizeTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	return resp.StatusCode, body, nil
}

// GenerateLongLivedToken troca um token de curta duração por um token de
// longa duração usando o fluxo fb_exchange_token
func GenerateLongLivedToken(shortLivedToken, appID, appSecret, baseURL, version string) (*TokenResponse, error) {
	if shortLivedToken == "" {
		return nil, fmt.Errorf("token de acesso não pode ser vazio")
	}

	params := url.Values{}
	params.Add("grant_type", "fb_exchange_token")
	params.Add("client_id", appID)
	params.Add("client_secret", appSecret)
	params.Add("fb_exchange_token", shortLivedToken)

	requestURL := fmt.Sprintf("%s/%s/oauth/access_token?%s", baseURL, version, params.Encode())

	status, body, err := graphGET(requestURL, 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter token de longa duração: %w", err)
	}

	if status != http.StatusOK {
		logrus.Errorf("Troca de token recusada pela Meta API. Status: %d, Resposta: %s", status, string(body))
		return nil, fmt.Errorf("erro ao obter token de longa duração. Status: %d, Resposta: %s", status, body)
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("erro ao decodificar resposta: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("token retornado pela API é vazio")
	}

	logrus.Infof("Token de longa duração obtido com sucesso. Expira em %s.", FormatDuration(tokenResp.ExpiresIn))

	return &tokenResp, nil
}

// FormatDuration formata a duração em segundos para um formato legível
func FormatDuration(seconds int64) string {
	duration := time.Duration(seconds) * time.Second
	days := duration / (24 * time.Hour)
	hours := (duration % (24 * time.Hour)) / time.Hour
	minutes := (duration % time.Hour) / time.Minute

	return fmt.Sprintf("%d dias, %d horas e %d minutos", days, hours, minutes)
}

// CheckTokenValidity verifica se o token ainda é aceito consultando o
// endpoint /me. Status diferente de 200 significa token inválido, sem erro
func CheckTokenValidity(token, apiURL string) (bool, error) {
	if token == "" {
		return false, fmt.Errorf("token não pode ser vazio")
	}

	params := url.Values{}
	params.Add("fields", "id,name")
	params.Add("access_token", token)

	requestURL := fmt.Sprintf("%s/me?%s", apiURL, params.Encode())

	status, body, err := graphGET(requestURL, 10*time.Second)
	if err != nil {
		return false, fmt.Errorf("erro ao verificar token: %w", err)
	}

	if status != http.StatusOK {
		logrus.Warnf("Token inválido ou expirado. Status: %d, Corpo: %s", status, string(body))
		return false, nil
	}

	return true, nil
}

// GetDebugTokenInfo obtém informações de debug sobre um token do Meta
func GetDebugTokenInfo(token, appID, appSecret, baseURL, version string) (*DebugTokenResponse, error) {
	params := url.Values{}
	params.Add("input_token", token)
	params.Add("access_token", appID+"|"+appSecret)

	requestURL := fmt.Sprintf("%s/%s/debug_token?%s", baseURL, version, params.Encode())

	status, body, err := graphGET(requestURL, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter informações de debug do token: %w", err)
	}

	if status != http.StatusOK {
		return nil, fmt.Errorf("erro ao obter informações de debug do token. Status: %d, Resposta: %s", status, string(body))
	}

	var response DebugTokenResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("erro ao decodificar resposta: %w", err)
	}

	return &response, nil
}

// CalculateTokenExpiration calcula a data de expiração do token com base no tempo de expiração em segundos
func CalculateTokenExpiration(expiresIn int64) time.Time {
	// Um dia de folga para renovar antes da expiração real
	buffer := int64(24 * 60 * 60)
	safeExpiresIn := expiresIn - buffer

	if safeExpiresIn < 0 {
		// Tokens muito curtos renovam na metade da vida útil
		safeExpiresIn = expiresIn / 2
	}

	return time.Now().Add(time.Duration(safeExpiresIn) * time.Second)
}
