package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthz(t *testing.T) {
	cases := []struct {
		name   string
		ping   error
		code   int
		status string
	}{
		{"healthy", nil, http.StatusOK, "ok"},
		{"database down", errors.New("dial tcp: refused"), http.StatusServiceUnavailable, "database unavailable"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(pingerFunc(func(context.Context) error { return tc.ping }))
			rec := httptest.NewRecorder()
			h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, tc.status, decodeBody(t, rec)["status"])
		})
	}
}
