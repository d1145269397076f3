package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"node-cache-api/internal/auth"
	"node-cache-api/internal/cache"
	"node-cache-api/internal/clock"
	"node-cache-api/internal/database"
	"node-cache-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db
	return db
}

// useClock swaps the handlers' clock and gives them a fresh cache driven by it.
func useClock(t *testing.T, clk clock.Clock) {
	t.Helper()
	prevClock, prevEntries := serverClock, entries
	serverClock = clk
	entries = cache.NewExpiringCache(clk, cache.Options{ConcurrencySafe: true})
	t.Cleanup(func() {
		serverClock, entries = prevClock, prevEntries
	})
}

func authedRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken("u-1", "alice")
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
