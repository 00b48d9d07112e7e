package metaclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	metadomain "github.com/vfg2006/ads-warehouse-sync/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-warehouse-sync/internal/config"

	"github.com/sirupsen/logrus"
)

// ErrTokenRenewed sinaliza que o token expirou durante uma requisição e já
// foi renovado. Quem chamou deve repetir a requisição original
var ErrTokenRenewed = errors.New("token expirado e renovado, por favor tente novamente")

// ErrReauthorizationRequired sinaliza que o token não pode ser renovado
// automaticamente e o aplicativo precisa passar pelo fluxo OAuth de novo
var ErrReauthorizationRequired = errors.New("o token de acesso expirou e não pode ser renovado automaticamente, é necessário reautorizar o aplicativo")

// TokenManager gerencia tokens de acesso da API do Meta
type TokenManager struct {
	cfg          *config.Config
	refreshMutex sync.Mutex
	stopRefresh  chan struct{}
}

// NewTokenManager cria uma nova instância do gerenciador de tokens
func NewTokenManager(cfg *config.Config) *TokenManager {
	return &TokenManager{
		cfg:         cfg,
		stopRefresh: make(chan struct{}),
	}
}

// Bootstrap prepara o token de acesso antes da primeira extração. Três
// cenários: sem token de longa duração (troca o token curto), token presente
// sem expiração conhecida (valida via /debug_token) e token completo (renova
// proativamente se estiver perto de expirar). Deve rodar antes de
// StartAutoRefresh
func (tm *TokenManager) Bootstrap() error {
	switch {
	case tm.cfg.Meta.LongLivedToken == "":
		logrus.Info("Token de longa duração não encontrado. Trocando o token de curta duração...")
		return tm.exchangeInitialToken()
	case tm.cfg.Meta.TokenExpiresAt.IsZero():
		logrus.Info("Validando token de longa duração existente...")
		return tm.adoptExistingToken()
	default:
		return tm.EnsureValidToken()
	}
}

// StartAutoRefresh mantém o token renovado enquanto o serviço roda. Bloqueia
// até StopAutoRefresh ser chamado, então deve rodar em goroutine própria
func (tm *TokenManager) StartAutoRefresh() {
	// Renovação diária: aproximadamente 23 horas para garantir que seja feita antes de 24h
	refreshInterval := 23 * time.Hour
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logrus.Info("Iniciando renovação periódica do token da Meta")
			if err := tm.RefreshToken(); err != nil {
				logrus.Errorf("Erro na renovação periódica do token: %v", err)

				// Se falhar, tente novamente em um intervalo mais curto
				ticker.Reset(1 * time.Hour)
			} else {
				logrus.Info("Renovação periódica do token concluída com sucesso")
				ticker.Reset(refreshInterval)
			}
		case <-tm.stopRefresh:
			logrus.Info("Encerrando goroutine de renovação periódica do token")
			return
		}
	}
}

// StopAutoRefresh para a goroutine de renovação automática
func (tm *TokenManager) StopAutoRefresh() {
	close(tm.stopRefresh)
}

// exchangeInitialToken troca o token de curta duração por um de longa duração
func (tm *TokenManager) exchangeInitialToken() error {
	tm.refreshMutex.Lock()
	defer tm.refreshMutex.Unlock()

	// Outra goroutine pode ter inicializado o token enquanto esperávamos
	if tm.cfg.Meta.LongLivedToken != "" {
		return nil
	}

	tokenResponse, err := GenerateLongLivedToken(
		tm.cfg.Meta.AccessToken,
		tm.cfg.Meta.AppID,
		tm.cfg.Meta.AppSecret,
		tm.cfg.Meta.BaseURL,
		tm.cfg.Meta.Version,
	)
	if err != nil {
		return fmt.Errorf("erro ao obter token de longa duração: %w", err)
	}

	tm.adoptToken(tokenResponse)

	logrus.Infof("Token de longa duração inicializado com sucesso. Expira em: %s",
		tm.cfg.Meta.TokenExpiresAt.Format(time.RFC3339))

	return nil
}

// adoptToken aplica um token recém-obtido à configuração compartilhada.
// Presume que o mutex já está em posse de quem chamou
func (tm *TokenManager) adoptToken(tokenResponse *TokenResponse) {
	tm.cfg.Meta.LongLivedToken = tokenResponse.AccessToken
	tm.cfg.Meta.TokenExpiresAt = CalculateTokenExpiration(tokenResponse.ExpiresIn)
	tm.cfg.Meta.AccessToken = tm.cfg.Meta.LongLivedToken
}

// adoptExistingToken confirma que o token de longa duração vindo do ambiente
// ainda é aceito pela Meta API e descobre quando ele expira. Tokens rejeitados
// caem direto no fluxo de renovação
func (tm *TokenManager) adoptExistingToken() error {
	tm.refreshMutex.Lock()
	defer tm.refreshMutex.Unlock()

	isValid, err := CheckTokenValidity(tm.cfg.Meta.LongLivedToken, tm.cfg.Meta.URL)
	if err != nil {
		logrus.Warnf("Falha ao verificar o token existente, tentando renovar: %v", err)
		return tm.refreshTokenInternal()
	}
	if !isValid {
		return tm.refreshTokenInternal()
	}

	debugInfo, err := GetDebugTokenInfo(
		tm.cfg.Meta.LongLivedToken,
		tm.cfg.Meta.AppID,
		tm.cfg.Meta.AppSecret,
		tm.cfg.Meta.BaseURL,
		tm.cfg.Meta.Version,
	)
	if err != nil {
		return fmt.Errorf("erro ao obter informações do token: %w", err)
	}

	if debugInfo.Data.ExpiresAt == 0 {
		return fmt.Errorf("não foi possível determinar quando o token expira")
	}

	// Um dia de folga para renovar antes da expiração real
	tm.cfg.Meta.TokenExpiresAt = time.Unix(debugInfo.Data.ExpiresAt, 0).Add(-24 * time.Hour)
	tm.cfg.Meta.AccessToken = tm.cfg.Meta.LongLivedToken

	logrus.Infof("Token de longa duração é válido. Expira em: %s",
		tm.cfg.Meta.TokenExpiresAt.Format(time.RFC3339))

	return nil
}

// RefreshToken obtém um novo token de longa duração
func (tm *TokenManager) RefreshToken() error {
	tm.refreshMutex.Lock()
	defer tm.refreshMutex.Unlock()

	return tm.refreshTokenInternal()
}

// refreshTokenInternal é a implementação interna do refresh de token.
// Presume que o mutex já está em posse de quem chamou
func (tm *TokenManager) refreshTokenInternal() error {
	if !tm.cfg.Meta.TokenExpiresAt.IsZero() && time.Until(tm.cfg.Meta.TokenExpiresAt) < 1*time.Hour {
		logrus.Warn("Token está muito próximo da expiração ou já expirou - pode ser necessária reautorização manual")
	}

	logrus.Info("Iniciando renovação do token...")
	tokenResponse, err := GenerateLongLivedToken(
		tm.cfg.Meta.AccessToken,
		tm.cfg.Meta.AppID,
		tm.cfg.Meta.AppSecret,
		tm.cfg.Meta.BaseURL,
		tm.cfg.Meta.Version,
	)
	if err != nil {
		// Sessão invalidada não se recupera com fb_exchange_token, só com um
		// novo fluxo OAuth
		if containsTokenExpirationMessage(err.Error()) {
			logrus.Error("O token de acesso expirou e não pode ser renovado automaticamente. É necessário reautorizar")
			return fmt.Errorf("%w: %v", ErrReauthorizationRequired, err)
		}

		logrus.Errorf("Erro ao renovar token: %v", err)
		return fmt.Errorf("erro ao obter novo token de longa duração: %w", err)
	}

	oldToken := tm.cfg.Meta.LongLivedToken
	tm.adoptToken(tokenResponse)

	// Logar apenas a expiração, nunca o valor do token
	if oldToken != tm.cfg.Meta.LongLivedToken {
		logrus.Infof("Token de longa duração atualizado com sucesso. Expira em: %s",
			tm.cfg.Meta.TokenExpiresAt.Format(time.RFC3339))
	} else {
		logrus.Info("Token renovado, mas não mudou. Isso pode indicar um problema na API da Meta")
	}

	return nil
}

// EnsureValidToken verifica se o token atual é válido e tenta renová-lo se necessário
func (tm *TokenManager) EnsureValidToken() error {
	if tm.cfg.Meta.AccessToken == "" {
		logrus.Info("Token não inicializado. Inicializando...")
		return tm.exchangeInitialToken()
	}

	// Renova proativamente quando falta menos de um dia para expirar
	if time.Until(tm.cfg.Meta.TokenExpiresAt) < 24*time.Hour {
		logrus.Info("Token expira em menos de 24 horas. Renovando proativamente...")
		return tm.RefreshToken()
	}

	return nil
}

// HandleResponse manipula a resposta HTTP e verifica erros de token expirado
func (tm *TokenManager) HandleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	// Se a resposta for bem-sucedida, retorna o corpo
	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	// Processa erro na resposta da API
	return tm.handleErrorResponse(resp.StatusCode, body)
}

// handleErrorResponse classifica erros nas respostas da API
func (tm *TokenManager) handleErrorResponse(status int, body []byte) ([]byte, error) {
	errorResp, parseErr := parseErrorResponse(body)

	// Token expirado detectado pela estrutura JSON do erro
	if parseErr == nil && errorResp.IsTokenExpired() {
		logrus.Warnf("Token expirado detectado pela API Meta. Código: %d, Subcódigo: %d",
			errorResp.Error.Code, errorResp.Error.ErrorSubcode)
		return tm.renewExpiredToken()
	}

	// Token expirado detectado pela mensagem em texto
	bodyStr := string(body)
	if containsTokenExpirationMessage(bodyStr) {
		logrus.Warn("Token expirado detectado pela mensagem de erro da Meta API")
		return tm.renewExpiredToken()
	}

	// Demais erros viram RemoteAPIError, classificado entre transitório e permanente
	if parseErr == nil && errorResp.Error.Code != 0 {
		return nil, metadomain.NewRemoteAPIError(status, errorResp.Error)
	}

	return nil, &metadomain.RemoteAPIError{
		HTTPStatus: status,
		Message:    bodyStr,
		Retryable:  status == http.StatusTooManyRequests || status >= http.StatusInternalServerError,
	}
}

// renewExpiredToken tenta renovar um token dado como expirado pela API e
// devolve o sentinela ErrTokenRenewed para a requisição original ser repetida
func (tm *TokenManager) renewExpiredToken() ([]byte, error) {
	if refreshErr := tm.RefreshToken(); refreshErr != nil {
		if errors.Is(refreshErr, ErrReauthorizationRequired) {
			return nil, fmt.Errorf("token expirou permanentemente e requer reautorização manual: %w", refreshErr)
		}
		return nil, fmt.Errorf("erro ao renovar token expirado: %w", refreshErr)
	}

	return nil, ErrTokenRenewed
}

// parseErrorResponse tenta parsear um erro da API do Meta
func parseErrorResponse(body []byte) (*metadomain.ErrorResponse, error) {
	var errorResp metadomain.ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil {
		return nil, err
	}
	return &errorResp, nil
}

// containsTokenExpirationMessage verifica se a mensagem contém indicação de token expirado
func containsTokenExpirationMessage(message string) bool {
	return strings.Contains(message, "Error validating access token") ||
		strings.Contains(message, "Session has expired") ||
		strings.Contains(message, "The session has been invalidated")
}
