package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/ledgerport/ledgerport/internal/config"
)

// APIKeyAuth returns middleware that validates the X-API-Key header
// against the configured keys. When RequireAPIKey is off every request
// passes through. When it is on but no keys are configured, everything
// is rejected.
func APIKeyAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAPIKey {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("X-API-Key")
			if key == "" {
				slog.Warn("auth: missing API key",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				writeAuthError(w, http.StatusUnauthorized, "missing API key", "AUTH001")
				return
			}

			if !keyMatches(key, cfg.APIKeys) {
				slog.Warn("auth: invalid API key",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				writeAuthError(w, http.StatusForbidden, "invalid API key", "AUTH002")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// keyMatches reports whether key equals any configured key. Every key is
// compared in constant time so the response latency does not reveal
// which key matched, or that none did.
func keyMatches(key string, validKeys []string) bool {
	valid := 0
	for _, candidate := range validKeys {
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(candidate))
	}
	return valid == 1
}

func writeAuthError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `","code":"` + code + `"}`))
}
