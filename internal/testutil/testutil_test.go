package testutil

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	r := NewRequest(http.MethodPost, "/books", map[string]int{"pages": 3})
	b, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"pages":3}`, string(b))
	assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

	r = NewRequest(http.MethodPost, "/books", `{"broken"`)
	b, err = io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"broken"`, string(b))

	r = NewRequest(http.MethodGet, "/books", nil)
	assert.Empty(t, r.Header.Get("Content-Type"))
}

func TestServeAndRecord(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"message":"Book deleted"}`))
	})

	rec := RecordHTTPResponse(Serve(h, http.MethodDelete, "/books/1", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "Book deleted", rec.Body["message"])
}

func TestOpenSQLite(t *testing.T) {
	conn := OpenSQLite(t)

	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&n))
	assert.Zero(t, n)
}
