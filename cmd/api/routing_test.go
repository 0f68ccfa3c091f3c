package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bookstore/db"
	"bookstore/internal/config"
	"bookstore/internal/database"
	"bookstore/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		Addr:           ":0",
		DBDriver:       config.DriverSQLite,
		DBTimeout:      time.Second,
		MaxBodyBytes:   1024,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store, err := database.Open(ctx, config.DriverSQLite, filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, db.Migrate(ctx, store.SQL, store.Driver))

	cfg := testConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(newRouter(ctx, cfg, logger, store.Books(cfg.DBTimeout), store.Ping))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestRouter_HealthProbes(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/healthz", "").StatusCode)
	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/readyz", "").StatusCode)
}

func TestRouter_ReadyzReportsStoreFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ping := func(context.Context) error { return errors.New("down") }
	handler := newRouter(ctx, testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)), nil, ping)

	w := testutil.Serve(handler, http.MethodGet, "/readyz", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_BookFlowThroughMiddleware(t *testing.T) {
	srv := newTestServer(t)
	body := `{"isbn":"32794782","amazon_url":"https://taco.com","author":"test","language":"english","pages":1000,"publisher":"huge publishing","title":"huge title","year":2022}`

	resp := do(t, http.MethodPost, srv.URL+"/books", body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/books/32794782", "").StatusCode)
	assert.Equal(t, http.StatusOK, do(t, http.MethodDelete, srv.URL+"/books/32794782", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, srv.URL+"/books/32794782", "").StatusCode)
}

func TestRouter_BodyTooLarge(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/books", `{"title":"`+strings.Repeat("x", 2048)+`"}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}
