package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Dosada05/poker-league/models"
	"github.com/golang-jwt/jwt/v4"
)

const SessionCookieName = "session"

const (
	jwtClaimAccountID = "account_id"
	jwtClaimIsAdmin   = "is_admin"
	jwtClaimExpiresAt = "exp"
	jwtClaimIssuedAt  = "iat"
)

var ErrInvalidToken = errors.New("invalid or expired session token")

// AccountLookup resolves the account behind a session token.
type AccountLookup interface {
	GetAccount(ctx context.Context, id int) (*models.Account, error)
}

// SessionManager issues and verifies HS256 session tokens.
type SessionManager struct {
	secret   []byte
	ttl      time.Duration
	secure   bool
	accounts AccountLookup
	now      func() time.Time
}

// NewSessionManager verifies every authenticated request against accounts:
// missing or soft-deleted accounts are rejected and the admin flag is taken
// from the stored account. A nil accounts trusts the token claims as issued.
func NewSessionManager(secret string, ttl time.Duration, secureCookie bool, accounts AccountLookup) *SessionManager {
	return &SessionManager{
		secret:   []byte(secret),
		ttl:      ttl,
		secure:   secureCookie,
		accounts: accounts,
		now:      time.Now,
	}
}

func (m *SessionManager) IssueToken(account *models.Account) (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.ttl)
	claims := jwt.MapClaims{
		jwtClaimAccountID: account.ID,
		jwtClaimIsAdmin:   account.IsAdmin,
		jwtClaimExpiresAt: expires.Unix(),
		jwtClaimIssuedAt:  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expires, nil
}

func (m *SessionManager) ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, ok := claims[jwtClaimExpiresAt]; !ok {
		return nil, fmt.Errorf("%w: missing '%s' claim", ErrInvalidToken, jwtClaimExpiresAt)
	}
	if _, err := accountIDFromClaims(claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

func (m *SessionManager) SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
