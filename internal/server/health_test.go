package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"uniforum/internal/cache"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestReadinessCheck(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() { cache.SetClient(nil) })

	s := &Server{db: gormDB, redis: rdb}
	app := fiber.New()
	app.Get("/health/ready", s.ReadinessCheck)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The probe checks the client the cache helpers actually use, so a
	// broken cache client reads unhealthy even with a live server handle.
	cache.SetClient(nil)
	resp2, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	defer func() { _ = resp2.Body.Close() }()
	assert.Equal(t, http.StatusServiceUnavailable, resp2.StatusCode)
}
