package server

import (
	"context"
	"net/http"

	"github.com/contraptionco/trivet/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the verified session claims
const ContextKeySession ContextKey = "session"

// RequireSessionAuth validates the session cookie and injects the
// verified claims into the request context. The session is the signed
// token itself; there is no server-side lookup.
func (s *Server) RequireSessionAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims := s.sessionFromRequest(r)
			if claims == nil {
				writeJSONError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

func (s *Server) sessionFromRequest(r *http.Request) *token.SessionClaims {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	return s.auth.SessionFromToken(cookie.Value)
}

func sessionClaims(r *http.Request) *token.SessionClaims {
	claims, _ := r.Context().Value(ContextKeySession).(*token.SessionClaims)
	return claims
}
