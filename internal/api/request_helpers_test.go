package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listoapp/listo-api/internal/api/shared"
	"github.com/listoapp/listo-api/internal/domain"
)

func jsonRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
	}

	t.Run("valid body", func(t *testing.T) {
		var p payload
		require.NoError(t, DecodeJSON(jsonRequest(`{"title":"buy milk"}`), &p))
		assert.Equal(t, "buy milk", p.Title)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		var p payload
		err := DecodeJSON(jsonRequest(`{"title":"x","bogus":1}`), &p)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	})

	t.Run("trailing data is rejected", func(t *testing.T) {
		var p payload
		err := DecodeJSON(jsonRequest(`{"title":"x"}{"title":"y"}`), &p)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		var p payload
		err := DecodeJSON(jsonRequest(`{"title":`), &p)
		assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	})
}

// withChiParam attaches a chi route parameter to the request context, the
// way the router does before invoking a handler.
func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetPathUUID(t *testing.T) {
	id := uuid.New()

	t.Run("valid", func(t *testing.T) {
		r := withChiParam(httptest.NewRequest(http.MethodGet, "/api/tasks/"+id.String(), nil), "taskID", id.String())
		got, err := getPathUUID(r, "taskID")
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("missing", func(t *testing.T) {
		r := withChiParam(httptest.NewRequest(http.MethodGet, "/api/tasks/", nil), "other", "x")
		_, err := getPathUUID(r, "taskID")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("not a uuid", func(t *testing.T) {
		r := withChiParam(httptest.NewRequest(http.MethodGet, "/api/tasks/42", nil), "taskID", "42")
		_, err := getPathUUID(r, "taskID")
		assert.ErrorIs(t, err, domain.ErrInvalidID)
	})
}

func TestRequireUser(t *testing.T) {
	t.Run("user present", func(t *testing.T) {
		id := uuid.New()
		r := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		r = r.WithContext(context.WithValue(r.Context(), shared.UserIDContextKey, id))
		w := httptest.NewRecorder()

		got, ok := requireUser(w, r)
		assert.True(t, ok)
		assert.Equal(t, id, got)
	})

	t.Run("no user writes 401", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		w := httptest.NewRecorder()

		_, ok := requireUser(w, r)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("nil uuid is treated as unauthenticated", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		r = r.WithContext(context.WithValue(r.Context(), shared.UserIDContextKey, uuid.Nil))
		w := httptest.NewRecorder()

		_, ok := requireUser(w, r)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
