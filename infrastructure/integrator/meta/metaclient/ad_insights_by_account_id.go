package metaclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/ads-warehouse-sync/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
	"github.com/vfg2006/ads-warehouse-sync/pkg/utils"
)

const (
	// Nível de agregação dos insights: um registro por anúncio por dia
	insightsLevel = "ad"
	// Tamanho máximo de página aceito pelo endpoint de insights
	insightsPageSize = 500
)

// AdInsightsByAccountID busca uma página de insights no nível de anúncio
// para a conta e o intervalo de datas informados. O cursor `after` vazio
// busca a primeira página; o cursor seguinte vem em page.NextCursor()
func (c *MetaClient) AdInsightsByAccountID(ctx context.Context, accountID string, since, until time.Time, after string) (*metadomain.InsightsPage, error) {
	// Garantir que o token seja válido antes de fazer a requisição
	if err := c.EnsureValidToken(); err != nil {
		return nil, fmt.Errorf("erro ao verificar validade do token: %w", err)
	}

	release, err := c.acquireSlot(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	baseURL := fmt.Sprintf("%s/act_%s/insights", c.Cfg.Meta.URL, domain.NormalizeAccountID(accountID))

	timeRange := fmt.Sprintf(`{"since":"%s","until":"%s"}`, utils.FormatDate(since), utils.FormatDate(until))

	params := url.Values{}
	params.Add("fields", strings.Join(domain.InsightFieldOrder, ","))
	params.Add("level", insightsLevel)
	params.Add("time_increment", "1")
	params.Add("limit", strconv.Itoa(insightsPageSize))
	params.Add("time_range", timeRange)
	if after != "" {
		params.Add("after", after)
	}
	params.Add("access_token", c.Cfg.Meta.AccessToken)

	requestURL := baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição de insights")
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = sanitizeTransportError(err)
		logrus.WithError(err).Error("Erro ao fazer a requisição de insights")
		return nil, metadomain.NewTransportError(err)
	}
	defer resp.Body.Close()

	// Usar o manipulador de resposta que verifica tokens expirados
	body, err := c.HandleResponse(resp)
	if err != nil {
		// Se o token foi renovado no meio da requisição, tentar novamente
		if errors.Is(err, ErrTokenRenewed) {
			return c.AdInsightsByAccountID(ctx, accountID, since, until, after)
		}
		return nil, err
	}

	var page metadomain.InsightsPage
	if err := json.Unmarshal(body, &page); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON de insights")
		return nil, err
	}

	return &page, nil
}
