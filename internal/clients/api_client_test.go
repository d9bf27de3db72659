package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"admin_console/internal/domain"
	"admin_console/internal/testutil"
	"admin_console/pkg/requestid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) IsAuthenticated() bool { return s != "" }
func (s staticToken) BearerToken() string   { return string(s) }

func TestAPIClient_Call(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get(requestid.Header)
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte(`{"value": 1}`))
		case "/empty":
			w.WriteHeader(http.StatusNoContent)
		case "/garbage":
			w.Write([]byte(`<html>oops</html>`))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Producto no encontrado"}`))
		case "/boom":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"Message":"database down"}`))
		}
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL+"/", 0, testutil.QuietLogger())
	ctx := context.Background()

	t.Run("returns raw json body", func(t *testing.T) {
		raw, err := client.Call(ctx, Request{Method: http.MethodGet, Path: "/ok"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"value": 1}`, string(raw))
	})

	t.Run("empty body is nil", func(t *testing.T) {
		raw, err := client.Call(ctx, Request{Method: http.MethodDelete, Path: "/empty"})
		require.NoError(t, err)
		assert.Nil(t, raw)
	})

	t.Run("attaches bearer token when available", func(t *testing.T) {
		_, err := client.Call(ctx, Request{Method: http.MethodGet, Path: "/ok", AuthRequired: true, Credentials: staticToken("tok")})
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok", gotAuth)
	})

	t.Run("still sends authenticated call without token", func(t *testing.T) {
		_, err := client.Call(ctx, Request{Method: http.MethodGet, Path: "/ok", AuthRequired: true, Credentials: domain.Anonymous{}})
		require.NoError(t, err)
		assert.Empty(t, gotAuth)
	})

	t.Run("propagates request id", func(t *testing.T) {
		_, err := client.Call(requestid.WithContext(ctx, "rid-1"), Request{Method: http.MethodGet, Path: "/ok"})
		require.NoError(t, err)
		assert.Equal(t, "rid-1", gotRequestID)
	})

	t.Run("non json body is a parse error", func(t *testing.T) {
		_, err := client.Call(ctx, Request{Method: http.MethodGet, Path: "/garbage"})
		assert.ErrorIs(t, err, domain.ErrParse)
	})

	t.Run("non 2xx is a status error with server message", func(t *testing.T) {
		_, err := client.Call(ctx, Request{Method: http.MethodGet, Path: "/missing"})
		var statusErr *domain.HTTPStatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
		assert.Equal(t, "Producto no encontrado", statusErr.Message)

		_, err = client.Call(ctx, Request{Method: http.MethodGet, Path: "/boom"})
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, "database down", statusErr.Message)
	})
}

func TestAPIClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewAPIClient(url, 0, testutil.QuietLogger())
	_, err := client.Call(context.Background(), Request{Method: http.MethodGet, Path: "/api/products"})
	assert.ErrorIs(t, err, domain.ErrNetwork)
}
