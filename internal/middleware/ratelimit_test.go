package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clubreserva/field-booking-api/internal/config"
)

func TestBuildRateKeyStrategies(t *testing.T) {
	c := newTestContext(t, http.MethodPost, "/v1/schedules/7/reservations", "/v1/schedules/:id/reservations")
	c.Set("user_id", uint64(42))

	cases := map[string]string{
		"user":       "rl:user:42",
		"route":      "rl:route:POST /v1/schedules/:id/reservations",
		"user_route": "rl:user:42:route:POST /v1/schedules/:id/reservations",
	}
	for strategy, want := range cases {
		cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}
		assert.Equal(t, want, buildRateKey(cfg, c), strategy)
	}
}

func TestBuildRateKeyAnonymous(t *testing.T) {
	c := newTestContext(t, http.MethodGet, "/v1/schedules", "/v1/schedules")
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	assert.Equal(t, "rl:user:anon", buildRateKey(cfg, c))
}

func TestUserIDContextTypes(t *testing.T) {
	c := newTestContext(t, http.MethodGet, "/", "/")

	assert.Equal(t, "anon", userID(c))

	c.Set("user_id", float64(7)) // json claims decode numbers as float64
	assert.Equal(t, "7", userID(c))

	c.Set("user_id", "19")
	assert.Equal(t, "19", userID(c))

	c.Set("user_id", uint64(23))
	assert.Equal(t, "23", userID(c))
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(5), asInt64(int64(5)))
	assert.Equal(t, int64(5), asInt64(5))
	assert.Equal(t, int64(5), asInt64(5.0))
	assert.Equal(t, int64(5), asInt64("5"))
	assert.Equal(t, int64(0), asInt64("not a number"))
	assert.Equal(t, int64(0), asInt64(nil))
}
