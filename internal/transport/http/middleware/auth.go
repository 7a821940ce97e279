package middleware

import (
	"net/http"
	"strings"

	"github.com/baechuer/noteplus/internal/application/auth"
	"github.com/baechuer/noteplus/internal/domain"
)

type TokenVerifier interface {
	Verify(token string) (auth.TokenClaims, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth verifies Authorization: Bearer <token> and injects the identity into
// the request context. No store lookup happens here.
func Auth(verifier TokenVerifier, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return verify(verifier, writeErr, true)
}

// Optional behaves like Auth but lets requests without a token through.
// A token that is present and bad is still rejected.
func Optional(verifier TokenVerifier, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return verify(verifier, writeErr, false)
}

func verify(verifier TokenVerifier, writeErr WriteErrFunc, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r.Header.Get("Authorization"))
			if raw == "" {
				if required {
					writeErr(w, r, domain.ErrTokenMissing())
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			if strings.TrimSpace(claims.Email) == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			ctx := WithIdentity(r.Context(), domain.Identity{Name: claims.Name, Email: claims.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken strips an optional "Bearer " scheme; a bare token is accepted
// as-is because older clients send it that way.
func bearerToken(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	if len(h) >= 6 && strings.EqualFold(h[:6], "bearer") {
		rest := h[6:]
		if rest == "" {
			return ""
		}
		if rest[0] == ' ' || rest[0] == '\t' {
			return strings.TrimSpace(rest)
		}
	}
	return h
}
