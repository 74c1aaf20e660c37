package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sqlsage/sqlsage-backend/internal/config"
	"github.com/sqlsage/sqlsage-backend/internal/llm"
	"github.com/sqlsage/sqlsage-backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.QueryLog{},
		&models.QueryHistory{},
		&models.UserSchema{},
	))
	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
		AdminEmails:      "admin@example.com",
		DailyQueryLimit:  5,
		QuotaTimezone:    "UTC",
	}
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeGenerator records calls and returns a canned result or error.
type fakeGenerator struct {
	result     *llm.Result
	err        error
	calls      int
	lastPrompt string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (*llm.Result, error) {
	g.calls++
	g.lastPrompt = prompt
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

func intPtr(n int) *int { return &n }
