package metadomain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorResponse representa a estrutura de erro da API do Meta
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails contém os detalhes de erro da API do Meta
type ErrorDetails struct {
	Message      string      `json:"message"`
	Type         string      `json:"type"`
	Code         int         `json:"code"`
	ErrorSubcode int         `json:"error_subcode,omitempty"`
	FBTraceID    string      `json:"fbtrace_id"`
	ErrorData    interface{} `json:"error_data,omitempty"`
}

// IsTokenExpired verifica se o erro é de token expirado
func (e *ErrorResponse) IsTokenExpired() bool {
	// O código 190 representa "token expirado" nas respostas da API do Meta
	// Possíveis subcódigos relacionados a problemas de token: 460, 463, 467
	return e.Error.Code == 190 ||
		(e.Error.Type == "OAuthException" && (e.Error.ErrorSubcode == 460 || e.Error.ErrorSubcode == 463 || e.Error.ErrorSubcode == 467))
}

// Códigos da Graph API que indicam limite de requisições atingido:
// 4 (limite da aplicação), 17 (limite do usuário), 32 (limite de
// chamadas página+usuário) e 613 (limite customizado)
var rateLimitCodes = map[int]bool{
	4:   true,
	17:  true,
	32:  true,
	613: true,
}

// IsThrottled verifica se a mensagem indica excesso de chamadas. Algumas
// respostas de throttling chegam com códigos genéricos e só a mensagem
// ("(#80004) There have been too many calls...") identifica o problema
func (d ErrorDetails) IsThrottled() bool {
	return rateLimitCodes[d.Code] ||
		strings.Contains(d.Message, "too many calls") ||
		strings.Contains(d.Message, "User request limit reached")
}

// RemoteAPIError é uma falha na comunicação com a Graph API, classificada
// entre transitória (Retryable) e permanente. Erros transitórios podem ser
// tentados novamente com backoff; permanentes abortam a execução
type RemoteAPIError struct {
	Code       int
	Subcode    int
	Type       string
	HTTPStatus int
	Message    string
	FBTraceID  string
	Retryable  bool
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("meta api: %s (code=%d, subcode=%d, http=%d)",
		e.Message, e.Code, e.Subcode, e.HTTPStatus)
}

// NewRemoteAPIError classifica uma resposta de erro da Graph API
func NewRemoteAPIError(httpStatus int, details ErrorDetails) *RemoteAPIError {
	return &RemoteAPIError{
		Code:       details.Code,
		Subcode:    details.ErrorSubcode,
		Type:       details.Type,
		HTTPStatus: httpStatus,
		Message:    details.Message,
		FBTraceID:  details.FBTraceID,
		Retryable:  classifyRetryable(httpStatus, details),
	}
}

// NewTransportError embala uma falha de rede (timeout, conexão recusada)
// como erro transitório
func NewTransportError(err error) *RemoteAPIError {
	return &RemoteAPIError{
		Message:   err.Error(),
		Retryable: true,
	}
}

// IsTransport indica falha de rede em que a Graph API nem chegou a responder
func (e *RemoteAPIError) IsTransport() bool {
	return e.HTTPStatus == 0 && e.Code == 0
}

func classifyRetryable(httpStatus int, details ErrorDetails) bool {
	if httpStatus == http.StatusTooManyRequests || httpStatus >= http.StatusInternalServerError {
		return true
	}

	return details.IsThrottled()
}

// IsRetryable informa se o erro pode ser tentado novamente com backoff
func IsRetryable(err error) bool {
	var apiErr *RemoteAPIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}

	return false
}
