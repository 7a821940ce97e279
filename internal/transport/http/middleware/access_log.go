package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/baechuer/noteplus/internal/logger"
)

// AccessLog writes one line per request. Must run after RequestID so the
// line carries request_id.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := wrapWriter(w)
		next.ServeHTTP(ww, r)

		var ev *zerolog.Event
		lg := logger.WithCtx(r.Context())
		switch {
		case ww.status >= 500:
			ev = lg.Error()
		case ww.status >= 400:
			ev = lg.Warn()
		default:
			ev = lg.Info()
		}

		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", routePattern(r)).
			Int("status", ww.status).
			Int("bytes", ww.bytes).
			Dur("latency", time.Since(start)).
			Str("remote_ip", clientIP(r)).
			Msg("http request")
	})
}
