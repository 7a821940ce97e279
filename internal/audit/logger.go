package audit

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Logger writes audit lines for account and note events.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// emailKeys are masked before they reach the log.
var emailKeys = map[string]bool{
	"email": true,
	"owner": true,
	"actor": true,
}

// Record logs one audit event. Denials and failures go out at warn.
func (l *Logger) Record(action string, fields map[string]string) {
	ev := l.log.Info()
	if strings.HasSuffix(action, "_failed") || strings.HasSuffix(action, "_denied") {
		ev = l.log.Warn()
	}
	ev = ev.Str("action", action)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := fields[k]
		if emailKeys[k] {
			v = maskEmail(v)
		}
		ev = ev.Str(k, v)
	}
	ev.Msg("audit")
}

// maskEmail partially masks email for privacy in logs
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if len(email) < 5 || at < 0 {
		return "***"
	}
	if at < 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
