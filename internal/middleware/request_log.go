package middleware

import (
	"context"
	"net/http"
	"time"

	"task-buddy/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const loggerKey ctxKey = "logger"

// RequestLog loguea cada request al terminar y deja en ctx un logger con request_id,
// para que los handlers logueen errores internos sin devolver detalles al cliente.
// Debe ir después de chimw.RequestID.
func RequestLog(log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLog := log.With(map[string]any{"request_id": chimw.GetReqID(r.Context())})

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), loggerKey, reqLog)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if uid, ok := UserID(r.Context()); ok {
				fields["user_id"] = uid
			}

			switch {
			case status >= 500:
				reqLog.Error("request", fields)
			case status >= 400:
				reqLog.Warn("request", fields)
			default:
				reqLog.Info("request", fields)
			}
		})
	}
}

// Logger devuelve el logger del request, o uno nop si no pasó por RequestLog.
func Logger(ctx context.Context) logger.Logger {
	if l, ok := ctx.Value(loggerKey).(logger.Logger); ok && l != nil {
		return l
	}
	return logger.Nop()
}
