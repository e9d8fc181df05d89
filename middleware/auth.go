package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/poker-league/services"
	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const claimsContextKey contextKey = "session_claims"

// Authenticate accepts the session cookie or an "Authorization: Bearer" header
// and answers 401 when neither carries a valid token for a live account.
func (m *SessionManager) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.sessionFromRequest(r)
		if err != nil {
			if errors.Is(err, errNoSession) {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			slog.ErrorContext(r.Context(), "failed to verify session", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "failed to verify session")
			return
		}
		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthenticate attaches the session when one is present and never rejects.
func (m *SessionManager) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, err := m.sessionFromRequest(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), claimsContextKey, claims))
		}
		next.ServeHTTP(w, r)
	})
}

var errNoSession = errors.New("no valid session")

// sessionFromRequest returns errNoSession for an absent, invalid or revoked
// session. Any other error means the account could not be checked.
func (m *SessionManager) sessionFromRequest(r *http.Request) (jwt.MapClaims, error) {
	token := bearerToken(r)
	if token == "" {
		if c, err := r.Cookie(SessionCookieName); err == nil {
			token = c.Value
		}
	}
	if token == "" {
		return nil, errNoSession
	}
	claims, err := m.ParseToken(token)
	if err != nil {
		slog.DebugContext(r.Context(), "rejected session token", slog.Any("error", err))
		return nil, errNoSession
	}
	if m.accounts == nil {
		return claims, nil
	}

	id, err := accountIDFromClaims(claims)
	if err != nil {
		return nil, errNoSession
	}
	account, err := m.accounts.GetAccount(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			return nil, errNoSession
		}
		return nil, err
	}
	if account.Deleted {
		slog.DebugContext(r.Context(), "rejected session of deleted account", slog.Int("account_id", id))
		return nil, errNoSession
	}
	claims[jwtClaimIsAdmin] = account.IsAdmin
	return claims, nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := GetAccountIDFromContext(r.Context()); err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !IsAdminFromContext(r.Context()) {
			writeError(w, http.StatusForbidden, "admin privileges required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
