package metadomain

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "HTTP 429 é transitório",
			err:  NewRemoteAPIError(http.StatusTooManyRequests, ErrorDetails{Code: 1, Message: "Please retry"}),
			want: true,
		},
		{
			name: "HTTP 500 é transitório",
			err:  NewRemoteAPIError(http.StatusInternalServerError, ErrorDetails{Code: 2, Message: "Service temporarily unavailable"}),
			want: true,
		},
		{
			name: "Código 4 de limite da aplicação é transitório",
			err:  NewRemoteAPIError(http.StatusBadRequest, ErrorDetails{Code: 4, Message: "Application request limit reached"}),
			want: true,
		},
		{
			name: "Código 17 de limite do usuário é transitório",
			err:  NewRemoteAPIError(http.StatusBadRequest, ErrorDetails{Code: 17, Message: "User request limit reached"}),
			want: true,
		},
		{
			name: "Código 613 de limite customizado é transitório",
			err:  NewRemoteAPIError(http.StatusBadRequest, ErrorDetails{Code: 613, Message: "Calls to this api have exceeded the rate limit"}),
			want: true,
		},
		{
			name: "Mensagem de excesso de chamadas identifica throttling com código genérico",
			err: NewRemoteAPIError(http.StatusBadRequest, ErrorDetails{
				Code:    1,
				Message: "(#80004) There have been too many calls to this ad-account",
			}),
			want: true,
		},
		{
			name: "Parâmetro inválido é permanente",
			err:  NewRemoteAPIError(http.StatusBadRequest, ErrorDetails{Code: 100, Message: "Invalid parameter"}),
			want: false,
		},
		{
			name: "Token expirado é permanente",
			err:  NewRemoteAPIError(http.StatusUnauthorized, ErrorDetails{Code: 190, Type: "OAuthException", Message: "Error validating access token"}),
			want: false,
		},
		{
			name: "Falha de rede é transitória",
			err:  NewTransportError(errors.New("connection refused")),
			want: true,
		},
		{
			name: "Classificação atravessa erros embrulhados",
			err: errors.Wrap(
				NewRemoteAPIError(http.StatusBadRequest, ErrorDetails{Code: 17, Message: "User request limit reached"}),
				"bloco de datas falhou",
			),
			want: true,
		},
		{
			name: "Erro comum não é transitório",
			err:  errors.New("algo deu errado"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestIsTransport(t *testing.T) {
	tests := []struct {
		name string
		err  *RemoteAPIError
		want bool
	}{
		{
			name: "Falha de rede sem resposta da API",
			err:  NewTransportError(errors.New("dial tcp: i/o timeout")),
			want: true,
		},
		{
			name: "Resposta de erro da Graph API não é falha de transporte",
			err:  NewRemoteAPIError(http.StatusBadRequest, ErrorDetails{Code: 100, Message: "Invalid parameter"}),
			want: false,
		},
		{
			name: "Erro HTTP sem corpo estruturado não é falha de transporte",
			err:  &RemoteAPIError{HTTPStatus: http.StatusBadGateway, Message: "Bad Gateway"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.IsTransport())
		})
	}
}

func TestIsTokenExpired(t *testing.T) {
	tests := []struct {
		name     string
		response ErrorResponse
		want     bool
	}{
		{
			name:     "Código 190 indica token expirado",
			response: ErrorResponse{Error: ErrorDetails{Code: 190, Message: "Error validating access token"}},
			want:     true,
		},
		{
			name: "Subcódigo 460 de OAuthException indica token expirado",
			response: ErrorResponse{Error: ErrorDetails{
				Code:         102,
				Type:         "OAuthException",
				ErrorSubcode: 460,
			}},
			want: true,
		},
		{
			name: "Subcódigo 467 de OAuthException indica token expirado",
			response: ErrorResponse{Error: ErrorDetails{
				Code:         102,
				Type:         "OAuthException",
				ErrorSubcode: 467,
			}},
			want: true,
		},
		{
			name: "Subcódigo desconhecido não indica token expirado",
			response: ErrorResponse{Error: ErrorDetails{
				Code:         102,
				Type:         "OAuthException",
				ErrorSubcode: 999,
			}},
			want: false,
		},
		{
			name:     "Erro sem relação com token",
			response: ErrorResponse{Error: ErrorDetails{Code: 100, Message: "Invalid parameter"}},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.response.IsTokenExpired())
		})
	}
}
