package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubreserva/field-booking-api/internal/config"
)

func TestPayloadCodecRoundTrip(t *testing.T) {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Add("X-Custom", "a")
	header.Add("X-Custom", "b")
	body := []byte(`{"items":[]}`)

	encoded, err := encodePayload(http.StatusOK, header, body)
	require.NoError(t, err)

	status, gotHeader, gotBody, ok := decodePayload(encoded)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, []string{"a", "b"}, gotHeader.Values("X-Custom"))
	assert.Equal(t, body, gotBody)
}

func TestPayloadCodecEmptyBody(t *testing.T) {
	encoded, err := encodePayload(http.StatusNoContent, http.Header{}, nil)
	require.NoError(t, err)

	status, _, body, ok := decodePayload(encoded)
	require.True(t, ok)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, body)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, []byte("short")} {
		_, _, _, ok := decodePayload(bs)
		assert.False(t, ok)
	}
}

func TestCachePayloadSkipsOversizedBody(t *testing.T) {
	const limit = 16

	cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: limit}
	_, err := cw.Write([]byte("this response body exceeds the capture limit"))
	require.NoError(t, err)

	_, ok := cachePayload(cw, http.Header{}, limit)
	assert.False(t, ok, "a body larger than the limit must not be cached")

	// A body within the limit is cached intact.
	cw = &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: limit}
	_, err = cw.Write([]byte("small"))
	require.NoError(t, err)

	payload, ok := cachePayload(cw, http.Header{}, limit)
	require.True(t, ok)
	status, _, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []byte("small"), body)
}

func TestCachePayloadSkipsNonOK(t *testing.T) {
	cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusNotFound}
	_, err := cw.Write([]byte(`{"message":"not found"}`))
	require.NoError(t, err)

	_, ok := cachePayload(cw, http.Header{}, 0)
	assert.False(t, ok)
}

func newTestContext(t *testing.T, method, target, path string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	return c
}

func TestCacheKeyStrategies(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}

	c := newTestContext(t, http.MethodGet, "/v1/schedules?date=2025-07-11", "/v1/schedules")

	cfg.KeyStrategy = "route"
	routeKey := cacheKeyFrom(cfg, c)

	cfg.KeyStrategy = "route_query"
	queryKey := cacheKeyFrom(cfg, c)

	assert.NotEqual(t, routeKey, queryKey, "query must influence the key under route_query")

	// Same request, same strategy: key must be stable.
	assert.Equal(t, queryKey, cacheKeyFrom(cfg, c))

	// A different query string changes the route_query key but not route.
	c2 := newTestContext(t, http.MethodGet, "/v1/schedules?date=2025-07-12", "/v1/schedules")
	assert.NotEqual(t, queryKey, cacheKeyFrom(cfg, c2))
	cfg.KeyStrategy = "route"
	assert.Equal(t, routeKey, cacheKeyFrom(cfg, c2))
}
