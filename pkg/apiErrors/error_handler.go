package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Códigos de erro para a API de sincronização
const (
	// Erros de autenticação (1000-1999)
	ErrInvalidToken = "AUTH_001" // Token inválido
	ErrExpiredToken = "AUTH_002" // Token expirado
	ErrMissingToken = "AUTH_003" // Token ausente

	// Erros de validação (2000-2999)
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido
	ErrInvalidDateRange    = "VAL_004" // Intervalo de datas inválido
	ErrRouteNotFound       = "VAL_005" // Rota não encontrada
	ErrMethodNotAllowed    = "VAL_006" // Método HTTP não permitido

	// Erros de sincronização (3000-3999)
	ErrSyncAlreadyRunning = "SYNC_001" // Sincronização já em execução
	ErrUnknownSyncType    = "SYNC_002" // Tipo de sincronização desconhecido
	ErrSyncFailed         = "SYNC_003" // Falha na execução da sincronização

	// Erros do servidor (5000-5999)
	ErrInternalServer  = "SRV_001" // Erro interno do servidor
	ErrWarehouse       = "SRV_002" // Erro de operação no data warehouse
	ErrExternalService = "SRV_003" // Erro em serviço externo (Meta API)
	ErrCommunication   = "SRV_004" // Erro de comunicação
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidToken:        http.StatusUnauthorized,
	ErrExpiredToken:        http.StatusUnauthorized,
	ErrMissingToken:        http.StatusUnauthorized,
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrInvalidFormat:       http.StatusBadRequest,
	ErrInvalidDateRange:    http.StatusBadRequest,
	ErrRouteNotFound:       http.StatusNotFound,
	ErrMethodNotAllowed:    http.StatusMethodNotAllowed,
	ErrSyncAlreadyRunning:  http.StatusConflict,
	ErrUnknownSyncType:     http.StatusBadRequest,
	ErrSyncFailed:          http.StatusInternalServerError,
	ErrInternalServer:      http.StatusInternalServerError,
	ErrWarehouse:           http.StatusInternalServerError,
	ErrExternalService:     http.StatusBadGateway,
	ErrCommunication:       http.StatusServiceUnavailable,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}
