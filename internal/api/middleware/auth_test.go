package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callWithHeader(t *testing.T, header string) (int64, bool) {
	t.Helper()

	var (
		gotID int64
		gotOK bool
	)
	handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = GetUserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("X-User-ID", header)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	return gotID, gotOK
}

func TestAuth_ValidHeader(t *testing.T) {
	id, ok := callWithHeader(t, "42")
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestAuth_MissingHeader(t *testing.T) {
	_, ok := callWithHeader(t, "")
	assert.False(t, ok)
}

func TestAuth_InvalidHeader(t *testing.T) {
	for _, bad := range []string{"abc", "-5", "0", "12.5"} {
		_, ok := callWithHeader(t, bad)
		assert.False(t, ok, "header %q", bad)
	}
}

func TestRequestID_GeneratedWhenAbsent(t *testing.T) {
	var gotID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, gotID)
	assert.Equal(t, gotID, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_ClientValuePreserved(t *testing.T) {
	var gotID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "trace-123", gotID)
}
