package middleware

import (
	"net/http"
	"runtime"
	"time"

	"github.com/vfg2006/ads-warehouse-sync/pkg/apiErrors"
	"github.com/vfg2006/ads-warehouse-sync/pkg/log"
)

// Requisições acima deste limite são marcadas como lentas no log
const slowRequestThreshold = 500 * time.Millisecond

// loggingResponseWriter captura o status e o tamanho da resposta
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func newLoggingResponseWriter(w http.ResponseWriter) *loggingResponseWriter {
	return &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(b)
	lrw.bytesWritten += n
	return n, err
}

// logByStatus escolhe o nível de log conforme a classe do status HTTP
func logByStatus(logger log.Logger, statusCode int, msg string) {
	switch {
	case statusCode >= 500:
		logger.Error(msg)
	case statusCode >= 400:
		logger.Warn(msg)
	default:
		logger.Info(msg)
	}
}

// LoggingMiddleware registra o início e o fim de cada requisição HTTP,
// propagando um ID de correlação pelo contexto
func LoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, correlationID := log.WithCorrelationID(r.Context())
			r = r.WithContext(ctx)

			lrw := newLoggingResponseWriter(w)
			startTime := time.Now()

			// Devolve o ID ao cliente para ele citar em reportes de erro
			lrw.Header().Set("X-Correlation-ID", correlationID)

			requestLogger := log.L.WithFields(log.Fields{
				"correlation_id": correlationID,
				"method":         r.Method,
				"path":           r.URL.Path,
			})

			if !log.IsDevelopment() {
				requestLogger.WithFields(log.Fields{
					"remote_addr":    r.RemoteAddr,
					"query":          r.URL.RawQuery,
					"user_agent":     r.UserAgent(),
					"content_length": r.ContentLength,
				}).Info("Requisição iniciada")
			}

			next.ServeHTTP(lrw, r)

			elapsed := time.Since(startTime)

			completionLogger := requestLogger.WithFields(log.Fields{
				"status_code":    lrw.statusCode,
				"duration_ms":    elapsed.Milliseconds(),
				"response_bytes": lrw.bytesWritten,
			})
			if elapsed > slowRequestThreshold {
				completionLogger = completionLogger.WithField("slow_request", true)
			}

			logByStatus(completionLogger, lrw.statusCode, "Requisição finalizada")
		})
	}
}

// LogPanicMiddleware recupera panics dos handlers, registra o stack trace e
// devolve um erro padronizado ao cliente
func LogPanicMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					stack := make([]byte, 8192)
					stackSize := runtime.Stack(stack, false)

					log.ForContext(r.Context()).WithFields(log.Fields{
						"panic_error": rec,
						"method":      r.Method,
						"path":        r.URL.Path,
						"stack_trace": string(stack[:stackSize]),
					}).Error("Panic não tratado na aplicação")

					apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor",
						map[string]any{"correlation_id": log.GetCorrelationID(r.Context())})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
