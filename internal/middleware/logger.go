package middleware

import (
	"net/http"
	"strings"
	"time"

	chiMid "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger emits one structured entry per request on the global zerolog logger.
func Logger(next http.Handler) http.Handler {
	return requestLogger(func() *zerolog.Logger { return &log.Logger }, next)
}

// RequestLogger is Logger bound to a specific logger.
func RequestLogger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return requestLogger(func() *zerolog.Logger { return &l }, next)
	}
}

func requestLogger(logger func() *zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		rid := chiMid.GetReqID(r.Context())
		ctx := r.Context()
		if rid != "" {
			ctx = WithRequestID(ctx, rid)
		}
		// handlers log through log.Ctx(r.Context())
		reqLogger := logger().With().Str("request_id", rid).Logger()
		r = r.WithContext(reqLogger.WithContext(ctx))
		next.ServeHTTP(rw, r)

		l := logger()
		evt := l.Info()
		switch {
		case rw.status >= 500:
			evt = l.Error()
		case rw.status >= 400:
			evt = l.Warn()
		}
		evt.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Dur("duration", time.Since(start)).
			Str("remote_ip", clientIP(r)).
			Str("request_id", rid).
			Bool("htmx", IsHTMX(r.Context())).
			Msg("request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func clientIP(r *http.Request) string {
	// the last X-Forwarded-For hop is the one our proxy appended
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		p := strings.Split(xff, ",")
		return strings.TrimSpace(p[len(p)-1])
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i != -1 {
		return host[:i]
	}
	return host
}
