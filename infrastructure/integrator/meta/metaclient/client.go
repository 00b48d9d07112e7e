package metaclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	metadomain "github.com/vfg2006/ads-warehouse-sync/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-warehouse-sync/internal/config"
)

// Client expõe as operações da Graph API usadas pelo pipeline de sincronização
type Client interface {
	AdInsightsByAccountID(ctx context.Context, accountID string, since, until time.Time, after string) (*metadomain.InsightsPage, error)
	CustomConversionsByAccountID(ctx context.Context, accountID string) ([]metadomain.CustomConversion, error)
	RefreshToken() error
	EnsureValidToken() error
	HandleResponse(resp *http.Response) ([]byte, error)
}

// MetaClient implementa Client sobre HTTP. Toda requisição passa pelo
// orçamento compartilhado de chamadas (semáforo ponderado) e pelo limitador
// de taxa, ambos injetados na construção para serem divididos entre todos os
// fluxos que falam com a Graph API
type MetaClient struct {
	Cfg          *config.Config
	TokenManager *TokenManager

	httpClient *http.Client
	budget     *semaphore.Weighted
	limiter    *rate.Limiter
}

func NewClient(cfg *config.Config, tokenManager *TokenManager, budget *semaphore.Weighted, limiter *rate.Limiter) Client {
	client := &MetaClient{
		Cfg:          cfg,
		TokenManager: tokenManager,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		budget:  budget,
		limiter: limiter,
	}
	return client
}

// sanitizeTransportError descarta o url.Error externo de falhas de rede: ele
// embute a URL da requisição, que carrega o access_token na query string, e
// não pode aparecer em logs nem em mensagens de erro
func sanitizeTransportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}

	return err
}

// acquireSlot reserva uma vaga no orçamento de requisições e espera a janela
// do limitador antes de liberar a chamada. O release devolvido deve ser
// chamado quando a requisição terminar
func (c *MetaClient) acquireSlot(ctx context.Context) (func(), error) {
	if err := c.budget.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.budget.Release(1)
		return nil, err
	}

	return func() { c.budget.Release(1) }, nil
}

// RefreshToken obtém um novo token de longa duração
func (c *MetaClient) RefreshToken() error {
	return c.TokenManager.RefreshToken()
}

// EnsureValidToken verifica se o token atual é válido e tenta renová-lo se necessário
func (c *MetaClient) EnsureValidToken() error {
	return c.TokenManager.EnsureValidToken()
}

// HandleResponse manipula a resposta HTTP e verifica erros de token expirado
func (c *MetaClient) HandleResponse(resp *http.Response) ([]byte, error) {
	return c.TokenManager.HandleResponse(resp)
}
