package middlewares

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/authwire/internal/observability/logger"
)

// WithLogging registra cada request con campos estructurados e inyecta un
// logger scoped (request_id, method, path) en el contexto.
//
// Ejemplo (prod):
//
//	{"level":"info","msg":"request completed","request_id":"...","method":"GET","path":"/v1/auth/oidc","status":302,"bytes":0,"duration_ms":3}
func WithLogging() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := w.Header().Get(HeaderRequestID)
			if requestID == "" {
				requestID = GetRequestID(r.Context())
			}
			ctx := logger.With(r.Context(),
				logger.RequestID(requestID),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
			)
			reqLog := logger.From(ctx)

			rec := newRecorder(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			dur := time.Since(start)
			switch {
			case rec.status >= 500:
				reqLog.Error("request failed",
					logger.Status(rec.status),
					logger.Bytes(rec.bytes),
					logger.ClientIP(clientIP(r)),
					logger.DurationMs(dur),
				)
			case rec.status >= 400:
				reqLog.Warn("request completed with client error",
					logger.Status(rec.status),
					logger.Bytes(rec.bytes),
					logger.ClientIP(clientIP(r)),
					logger.DurationMs(dur),
				)
			default:
				reqLog.Info("request completed",
					logger.Status(rec.status),
					logger.Bytes(rec.bytes),
					logger.DurationMs(dur),
				)
			}
		})
	}
}
