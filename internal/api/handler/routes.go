package handler

import (
	"net/http"

	"github.com/vfg2006/ads-warehouse-sync/internal/api/handler/router"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

// Sync retorna as rotas de disparo manual e acompanhamento da sincronização.
// Todas exigem bearer token; apenas o healthcheck é público.
func Sync(services SyncServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/sync/:type",
			Method:  http.MethodPost,
			Handler: TriggerSync(services),
		},
		{
			Path:    "/v1/sync/:type/range",
			Method:  http.MethodPost,
			Handler: SyncInsightsRange(services),
		},
		{
			Path:    "/v1/sync/status",
			Method:  http.MethodGet,
			Handler: SyncStatus(services),
		},
	}
}
