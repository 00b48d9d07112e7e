package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/ads-warehouse-sync/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
	"github.com/vfg2006/ads-warehouse-sync/internal/scheduler"
	"github.com/vfg2006/ads-warehouse-sync/internal/usecases/loading"
	"github.com/vfg2006/ads-warehouse-sync/pkg/apiErrors"
	"github.com/vfg2006/ads-warehouse-sync/pkg/log"
	"github.com/vfg2006/ads-warehouse-sync/pkg/utils"
)

// SyncType define o fluxo de sincronização disparado manualmente
const (
	SyncTypeInsights   = "insights"
	SyncTypeRollup     = "rollup"
	SyncTypeKPIMapping = "kpi-mapping"
	SyncTypeAll        = "all"
)

// SyncServices contém os agendadores necessários para disparos manuais
type SyncServices struct {
	InsightSyncService    *scheduler.InsightSyncService
	RollupSyncService     *scheduler.RollupSyncService
	KPIMappingSyncService *scheduler.KPIMappingSyncService
}

// TriggerSync dispara manualmente um fluxo de sincronização específico
func TriggerSync(services SyncServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		logger.Info("INIT - TriggerSync")

		syncType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if syncType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de sincronização não especificado", nil)
			return
		}

		switch syncType {
		case SyncTypeInsights:
			if err := services.InsightSyncService.TriggerManualSync(); err != nil {
				writeTriggerError(w, syncType, err)
				return
			}

		case SyncTypeRollup:
			if err := services.RollupSyncService.TriggerManualSync(); err != nil {
				writeTriggerError(w, syncType, err)
				return
			}

		case SyncTypeKPIMapping:
			if err := services.KPIMappingSyncService.TriggerManualSync(); err != nil {
				writeTriggerError(w, syncType, err)
				return
			}

		case SyncTypeAll:
			started, skipped := triggerAll(services)

			response := map[string]any{
				"message": "Sincronizações iniciadas",
				"started": started,
				"skipped": skipped,
			}
			writeJSON(w, response)
			return

		default:
			apiErrors.WriteError(w, apiErrors.ErrUnknownSyncType,
				"Tipo de sincronização inválido. Valores aceitos: insights, rollup, kpi-mapping, all", nil)
			return
		}

		response := map[string]any{
			"message": "Sincronização iniciada com sucesso",
			"type":    syncType,
		}
		writeJSON(w, response)
	}
}

// triggerAll dispara os três fluxos em sequência. Fluxos já em execução são
// pulados, não abortam os demais.
func triggerAll(services SyncServices) (started, skipped []string) {
	started = []string{}
	skipped = []string{}

	triggers := []struct {
		name    string
		trigger func() error
	}{
		{SyncTypeKPIMapping, services.KPIMappingSyncService.TriggerManualSync},
		{SyncTypeInsights, services.InsightSyncService.TriggerManualSync},
		{SyncTypeRollup, services.RollupSyncService.TriggerManualSync},
	}

	for _, t := range triggers {
		if err := t.trigger(); err != nil {
			logrus.WithField("type", t.name).Info("Fluxo já em execução, pulado no disparo geral")
			skipped = append(skipped, t.name)
			continue
		}

		started = append(started, t.name)
	}

	return started, skipped
}

// syncRangeRequest é o corpo do reprocessamento por intervalo de datas
type syncRangeRequest struct {
	Since string `json:"since"`
	Until string `json:"until"`
}

// SyncInsightsRange reprocessa os insights de um intervalo arbitrário de
// forma síncrona e responde com o resumo da execução
func SyncInsightsRange(services SyncServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		logger.Info("INIT - SyncInsightsRange")

		syncType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if syncType != SyncTypeInsights {
			apiErrors.WriteError(w, apiErrors.ErrUnknownSyncType,
				"Reprocessamento por intervalo disponível apenas para o tipo insights", nil)
			return
		}

		var request syncRangeRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", nil)
			return
		}

		dateRange, errCode, err := parseDateRange(request)
		if err != nil {
			apiErrors.WriteError(w, errCode, err.Error(), nil)
			return
		}

		summary, err := services.InsightSyncService.SyncRange(r.Context(), dateRange)
		if err != nil {
			writeSyncError(w, err)
			return
		}

		response := map[string]any{
			"message": "Reprocessamento concluído com sucesso",
			"since":   request.Since,
			"until":   request.Until,
			"summary": summary,
		}
		writeJSON(w, response)
	}
}

// SyncStatus retorna o status agregado dos três agendadores
func SyncStatus(services SyncServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.ForContext(r.Context()).Info("INIT - SyncStatus")

		status := map[string]any{
			"insights":    services.InsightSyncService.GetStatus(),
			"rollup":      services.RollupSyncService.GetStatus(),
			"kpi_mapping": services.KPIMappingSyncService.GetStatus(),
		}

		writeJSON(w, status)
	}
}

// parseDateRange valida o corpo do reprocessamento e devolve o código de
// erro da API correspondente a cada tipo de falha
func parseDateRange(request syncRangeRequest) (domain.DateRange, string, error) {
	if request.Since == "" || request.Until == "" {
		return domain.DateRange{}, apiErrors.ErrMissingRequiredData,
			errors.New("campos since e until são obrigatórios no formato YYYY-MM-DD")
	}

	since, err := time.Parse(utils.DateLayout, request.Since)
	if err != nil {
		return domain.DateRange{}, apiErrors.ErrInvalidFormat,
			errors.New("campo since fora do formato YYYY-MM-DD")
	}

	until, err := time.Parse(utils.DateLayout, request.Until)
	if err != nil {
		return domain.DateRange{}, apiErrors.ErrInvalidFormat,
			errors.New("campo until fora do formato YYYY-MM-DD")
	}

	dateRange := domain.DateRange{Since: since, Until: until}
	if err := dateRange.Validate(); err != nil {
		return domain.DateRange{}, apiErrors.ErrInvalidDateRange, err
	}

	return dateRange, "", nil
}

func writeTriggerError(w http.ResponseWriter, syncType string, err error) {
	if errors.Is(err, scheduler.ErrSyncAlreadyRunning) {
		apiErrors.WriteError(w, apiErrors.ErrSyncAlreadyRunning, "Sincronização já está em execução",
			map[string]any{"type": syncType})
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
}

// writeSyncError traduz as falhas do pipeline para os códigos da API
func writeSyncError(w http.ResponseWriter, err error) {
	var remoteErr *metadomain.RemoteAPIError
	var loadErr *loading.LoadError

	switch {
	case errors.Is(err, scheduler.ErrSyncAlreadyRunning):
		apiErrors.WriteError(w, apiErrors.ErrSyncAlreadyRunning, "Sincronização já está em execução", nil)

	case errors.As(err, &remoteErr):
		// Rede fora do ar vira 503; resposta de erro da Graph API vira 502
		if remoteErr.IsTransport() {
			apiErrors.WriteError(w, apiErrors.ErrCommunication, "Meta API inacessível",
				map[string]any{"cause": remoteErr.Error()})
			return
		}

		apiErrors.WriteError(w, apiErrors.ErrExternalService, "Falha na comunicação com a Meta API",
			map[string]any{"cause": remoteErr.Error()})

	case errors.As(err, &loadErr):
		apiErrors.WriteError(w, apiErrors.ErrWarehouse, "Falha na carga do warehouse",
			map[string]any{"table": loadErr.Table, "partition": loadErr.Partition, "stage": loadErr.Stage})

	default:
		apiErrors.WriteError(w, apiErrors.ErrSyncFailed, err.Error(), nil)
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Warn("Erro ao escrever resposta JSON")
	}
}
