package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/poker-league/handlers"
	"github.com/Dosada05/poker-league/hub"
	"github.com/Dosada05/poker-league/middleware"
	"github.com/Dosada05/poker-league/models"
	"github.com/Dosada05/poker-league/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

type storedAccounts map[int]*models.Account

func (a storedAccounts) GetAccount(_ context.Context, id int) (*models.Account, error) {
	if account, ok := a[id]; ok {
		return account, nil
	}
	return nil, services.ErrAccountNotFound
}

var testAccounts = storedAccounts{
	1: {ID: 1, Username: "boss", IsAdmin: true},
	2: {ID: 2, Username: "fish"},
	7: {ID: 7, Username: "gone", IsAdmin: true, Deleted: true},
}

const testOrigin = "https://league.example"

// newTestRouter wires handlers without services; only requests rejected
// before reaching a service may be sent through it.
func newTestRouter(t *testing.T) (http.Handler, *middleware.SessionManager) {
	t.Helper()
	sessions := middleware.NewSessionManager("routes-secret", time.Hour, false, testAccounts)
	wsHub := hub.New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	router := chi.NewRouter()
	SetupRoutes(router, sessions, []string{testOrigin}, Handlers{
		Auth:      handlers.NewAuthHandler(nil, sessions),
		Player:    handlers.NewPlayerHandler(nil, nil),
		Game:      handlers.NewGameHandler(nil),
		Post:      handlers.NewPostHandler(nil),
		Comment:   handlers.NewCommentHandler(nil),
		WebSocket: handlers.NewWebSocketHandler(wsHub, []string{testOrigin}),
		Health:    handlers.NewHealthHandler(okPinger{}),
	})
	return router, sessions
}

func bearer(t *testing.T, sessions *middleware.SessionManager, account *models.Account) string {
	t.Helper()
	token, _, err := sessions.IssueToken(account)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	router, _ := newTestRouter(t)

	protected := []struct{ method, path string }{
		{http.MethodPost, "/players"},
		{http.MethodPatch, "/players"},
		{http.MethodPatch, "/players/1"},
		{http.MethodDelete, "/players/1"},
		{http.MethodPatch, "/players/edit/1"},
		{http.MethodPost, "/games"},
		{http.MethodDelete, "/games/game/1"},
		{http.MethodPost, "/posts"},
		{http.MethodPatch, "/posts/1"},
		{http.MethodDelete, "/posts/1"},
		{http.MethodPost, "/posts/1/like"},
		{http.MethodPost, "/posts/1/comments"},
		{http.MethodDelete, "/posts/1/comments/1"},
		{http.MethodGet, "/accounts"},
		{http.MethodDelete, "/accounts/1"},
		{http.MethodGet, "/isAdmin"},
		{http.MethodGet, "/me"},
	}

	for _, p := range protected {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(p.method, p.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAdminRoutesRejectMembers(t *testing.T) {
	router, sessions := newTestRouter(t)
	auth := bearer(t, sessions, &models.Account{ID: 2, Username: "fish"})

	adminOnly := []struct{ method, path string }{
		{http.MethodPost, "/players"},
		{http.MethodPatch, "/players"},
		{http.MethodDelete, "/players/1"},
		{http.MethodPatch, "/players/edit/1"},
		{http.MethodPost, "/games"},
		{http.MethodDelete, "/games/game/1"},
		{http.MethodPost, "/posts"},
		{http.MethodDelete, "/posts/1"},
		{http.MethodGet, "/accounts"},
	}

	for _, p := range adminOnly {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			req := httptest.NewRequest(p.method, p.path, nil)
			req.Header.Set("Authorization", auth)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
}

func TestIsAdminWithSession(t *testing.T) {
	router, sessions := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/isAdmin", nil)
	req.Header.Set("Authorization", bearer(t, sessions, &models.Account{ID: 1, IsAdmin: true}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"is_admin": true}`, rec.Body.String())
}

func TestDeletedAccountSessionIsRejected(t *testing.T) {
	router, sessions := newTestRouter(t)
	auth := bearer(t, sessions, &models.Account{ID: 7, IsAdmin: true})

	for _, p := range []struct{ method, path string }{
		{http.MethodPost, "/games"},
		{http.MethodGet, "/isAdmin"},
		{http.MethodGet, "/me"},
	} {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			req := httptest.NewRequest(p.method, p.path, strings.NewReader(`{}`))
			req.Header.Set("Authorization", auth)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())
		})
	}
}

func TestIsAdminReflectsStoredAccount(t *testing.T) {
	router, sessions := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/isAdmin", nil)
	req.Header.Set("Authorization", bearer(t, sessions, &models.Account{ID: 2, IsAdmin: true}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"is_admin": false}`, rec.Body.String())
}

func TestHealthzAndSwagger(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/players/edit/{gameID}")
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/players", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, testOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
