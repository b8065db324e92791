package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/UnknownOlympus/zynor/internal/client/api"
	"github.com/UnknownOlympus/zynor/internal/metrics"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, bool) {
	return string(s), s != ""
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "localhost:8000", "ftp://example.com", "http://"} {
		_, err := api.NewClient(newLogger(), raw)
		require.Error(t, err, raw)
		assert.ErrorContains(t, err, "invalid base url")
	}
}

func TestClient_ResolvePath(t *testing.T) {
	t.Parallel()

	client, err := api.NewClient(newLogger(), "http://localhost:8000/")
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{in: "/customers", want: "/api/customers"},
		{in: "customers/1", want: "/api/customers/1"},
		{in: "/api/customers", want: "/api/customers"},
		{in: "/api", want: "/api"},
		{in: "/apiary", want: "/api/apiary"},
		{in: "http://other.host/health", want: "http://other.host/health"},
		{in: "https://other.host/x", want: "https://other.host/x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, client.ResolvePath(tt.in), tt.in)
	}

	assert.Equal(t, "http://localhost:8000", client.BaseURL())
	assert.Equal(t, "/api", client.Root())

	raw, err := api.NewClient(newLogger(), "http://localhost:8000", api.WithoutPathRewrite(), api.WithRoot("v2/"))
	require.NoError(t, err)
	assert.Equal(t, "/customers", raw.ResolvePath("customers"))
	assert.Equal(t, "/v2/customers", raw.Prefixed("/customers"))
}

func TestClient_Do_HeadersAndBody(t *testing.T) {
	t.Parallel()

	var gotAuth, gotContentType, gotAccept, gotRequestID, gotPath string
	var gotBody map[string]any

	router := mux.NewRouter()
	router.HandleFunc("/api/customers", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		gotRequestID = r.Header.Get(api.RequestIDHeader)
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7,"name":"Acme"}`))
	}).Methods(http.MethodPost)

	srv := httptest.NewServer(router)
	defer srv.Close()

	client, err := api.NewClient(newLogger(), srv.URL, api.WithCredentials(staticToken("secret")))
	require.NoError(t, err)

	resp, err := client.Post(t.Context(), "/customers", map[string]any{"name": "Acme"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.JSONEq(t, `{"id":7,"name":"Acme"}`, string(resp.Body))
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "application/json", gotAccept)
	assert.Len(t, gotRequestID, 36)
	assert.Equal(t, "/api/customers", gotPath)
	assert.Equal(t, map[string]any{"name": "Acme"}, gotBody)
}

func TestClient_Do_NoTokenNoAuthHeader(t *testing.T) {
	t.Parallel()

	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client, err := api.NewClient(newLogger(), srv.URL, api.WithCredentials(staticToken("")))
	require.NoError(t, err)

	_, err = client.Get(t.Context(), "/jobs")
	require.NoError(t, err)
	assert.False(t, sawAuth)
}

func TestClient_Do_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"detail":"Email or phone already exists"}`))
	}))
	defer srv.Close()

	client, err := api.NewClient(newLogger(), srv.URL)
	require.NoError(t, err)

	_, err = client.Post(t.Context(), "/technicians", map[string]string{"email": "a@b.co"})
	require.Error(t, err)

	var httpErr *api.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, "Email or phone already exists", httpErr.Detail())
	assert.Equal(t, http.StatusConflict, api.StatusOf(err))
	assert.False(t, api.IsNotFound(err))
	assert.ErrorContains(t, err, "status 409")
}

func TestClient_Do_UnauthorizedHook(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var hooked int
	client, err := api.NewClient(newLogger(), srv.URL,
		api.WithUnauthorizedHook(func(_ context.Context, resp *api.Response) {
			hooked++
			assert.Equal(t, http.StatusUnauthorized, resp.Status)
		}))
	require.NoError(t, err)

	_, err = client.Get(t.Context(), "/customers")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.Equal(t, 1, hooked)
}

func TestClient_Do_NetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := api.NewClient(newLogger(), url)
	require.NoError(t, err)

	_, err = client.Get(t.Context(), "/customers")
	require.Error(t, err)
	require.ErrorIs(t, err, api.ErrNetwork)

	var netErr *api.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.MethodGet, netErr.Method)
	assert.Equal(t, 0, api.StatusOf(err))
}

func TestClient_Do_TimeoutIsNetworkError(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client, err := api.NewClient(newLogger(), srv.URL, api.WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = client.Get(t.Context(), "/customers")
	require.ErrorIs(t, err, api.ErrNetwork)
}

func TestClient_Do_Metrics(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(reg)

	client, err := api.NewClient(newLogger(), srv.URL, api.WithMetrics(appMetrics))
	require.NoError(t, err)

	_, err = client.Get(t.Context(), "/ok")
	require.NoError(t, err)
	_, err = client.Get(t.Context(), "/missing")
	require.True(t, api.IsNotFound(err))

	assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.APIRequests.WithLabelValues(http.MethodGet, "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.APIRequests.WithLabelValues(http.MethodGet, "404")), 0)
}

func TestHTTPError_DetailShapes(t *testing.T) {
	t.Parallel()

	list := &api.HTTPError{Status: http.StatusUnprocessableEntity, Body: []byte(`{"detail":[{"loc":["body","email"]}]}`)}
	assert.JSONEq(t, `[{"loc":["body","email"]}]`, list.Detail())

	plain := &api.HTTPError{Status: http.StatusBadGateway, Body: []byte(`<html>bad gateway</html>`)}
	assert.Empty(t, plain.Detail())
	assert.NotErrorIs(t, plain, api.ErrNetwork)
}
