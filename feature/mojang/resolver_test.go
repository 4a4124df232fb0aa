package mojang

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"whitelist-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, handler http.HandlerFunc) *Resolver {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewResolver(Config{BaseURL: srv.URL + "/", TimeoutSeconds: 2})
}

func TestResolver_Resolve(t *testing.T) {
	r := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/Notch", req.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"069a79f444e94726a5befca90e38aaf5","name":"Notch"}`))
	})

	id, err := r.Resolve(context.Background(), "Notch")
	require.NoError(t, err)
	assert.Equal(t, "069a79f444e94726a5befca90e38aaf5", id)
}

func TestResolver_StatusClassification(t *testing.T) {
	tests := []struct {
		status    int
		notFound  bool
		transient bool
	}{
		{http.StatusNoContent, true, false},
		{http.StatusNotFound, true, false},
		{http.StatusBadRequest, true, false},
		{http.StatusTooManyRequests, false, true},
		{http.StatusInternalServerError, false, true},
		{http.StatusServiceUnavailable, false, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			r := newTestResolver(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := r.Resolve(context.Background(), "Someone")
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.notFound, errors.Is(err, reconcile.ErrNotFound))
			assert.Equal(t, tt.transient, errors.Is(err, reconcile.ErrTransient))
		})
	}
}

func TestResolver_MalformedBodyIsTransient(t *testing.T) {
	r := newTestResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":`))
	})

	_, err := r.Resolve(context.Background(), "Someone")
	assert.ErrorIs(t, err, reconcile.ErrTransient)
}

func TestResolver_NetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	r := NewResolver(Config{BaseURL: srv.URL, TimeoutSeconds: 1})
	_, err := r.Resolve(context.Background(), "Someone")

	assert.ErrorIs(t, err, reconcile.ErrTransient)
	assert.NotErrorIs(t, err, reconcile.ErrNotFound)
}

func TestResolver_EscapesHandle(t *testing.T) {
	r := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/a%2Fb", req.URL.EscapedPath())
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := r.Resolve(context.Background(), "a/b")
	assert.ErrorIs(t, err, reconcile.ErrNotFound)
}

func TestResolver_SatisfiesInterface(t *testing.T) {
	var _ reconcile.Resolver = NewResolver(Config{})
}
