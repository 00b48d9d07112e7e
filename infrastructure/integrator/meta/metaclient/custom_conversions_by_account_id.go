package metaclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/ads-warehouse-sync/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
)

// CustomConversionsByAccountID lista as conversões personalizadas da conta,
// seguindo a paginação até o fim
func (c *MetaClient) CustomConversionsByAccountID(ctx context.Context, accountID string) ([]metadomain.CustomConversion, error) {
	// Garantir que o token seja válido antes de fazer a requisição
	if err := c.EnsureValidToken(); err != nil {
		return nil, fmt.Errorf("erro ao verificar validade do token: %w", err)
	}

	conversions := make([]metadomain.CustomConversion, 0)
	after := ""

	for {
		page, err := c.customConversionsPage(ctx, accountID, after)
		if err != nil {
			return nil, err
		}

		conversions = append(conversions, page.Data...)

		after = page.NextCursor()
		if after == "" {
			break
		}
	}

	return conversions, nil
}

func (c *MetaClient) customConversionsPage(ctx context.Context, accountID, after string) (*metadomain.CustomConversionsPage, error) {
	release, err := c.acquireSlot(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	baseURL := fmt.Sprintf("%s/act_%s/customconversions", c.Cfg.Meta.URL, domain.NormalizeAccountID(accountID))

	params := url.Values{}
	params.Add("fields", "id,name,custom_event_type")
	params.Add("limit", "100")
	if after != "" {
		params.Add("after", after)
	}
	params.Add("access_token", c.Cfg.Meta.AccessToken)

	requestURL := baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição de conversões personalizadas")
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = sanitizeTransportError(err)
		logrus.WithError(err).Error("Erro ao fazer a requisição de conversões personalizadas")
		return nil, metadomain.NewTransportError(err)
	}
	defer resp.Body.Close()

	// Usar o manipulador de resposta que verifica tokens expirados
	body, err := c.HandleResponse(resp)
	if err != nil {
		// Se o token foi renovado no meio da requisição, tentar novamente
		if errors.Is(err, ErrTokenRenewed) {
			return c.customConversionsPage(ctx, accountID, after)
		}
		return nil, err
	}

	var page metadomain.CustomConversionsPage
	if err := json.Unmarshal(body, &page); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON de conversões personalizadas")
		return nil, err
	}

	return &page, nil
}
