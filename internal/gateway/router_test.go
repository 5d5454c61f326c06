package gateway

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouter_HealthProbes(t *testing.T) {
	t.Run("healthz", func(t *testing.T) {
		router, _ := newTestRouter(t)

		w := doJSON(t, router, http.MethodGet, "/healthz", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("readyz ready", func(t *testing.T) {
		router, _ := newTestRouter(t)

		w := doJSON(t, router, http.MethodGet, "/readyz", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("readyz db down", func(t *testing.T) {
		router := NewRouter(NewBookHandler(nil), func(ctx context.Context) error {
			return errors.New("connection refused")
		})

		w := doJSON(t, router, http.MethodGet, "/readyz", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPut, "/books/some-id", map[string]interface{}{"title": "X"})

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_UnknownPath(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/nope", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
