package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sqlsage/sqlsage-backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedLog(t *testing.T, db *gorm.DB, email string, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.QueryLog{
		ID:          uuid.New(),
		UserEmail:   email,
		TaskType:    "explain",
		QueryLength: 42,
		Success:     true,
		CreatedAt:   at,
	}).Error)
}

func TestQuotaService_RemainingDecreasesWithLogs(t *testing.T) {
	db := newTestDB(t)
	clk := newFakeClock(time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC))
	quota := NewQuotaService(db, 5, time.UTC, clk)

	remaining, err := quota.Remaining("a@x.com", false)
	require.NoError(t, err)
	require.Equal(t, 5, remaining)

	prev := remaining
	for i := 0; i < 5; i++ {
		seedLog(t, db, "a@x.com", clk.Now())
		remaining, err = quota.Remaining("a@x.com", false)
		require.NoError(t, err)
		require.LessOrEqual(t, remaining, prev, "remaining must be non-increasing within a day")
		prev = remaining
	}
	require.Equal(t, 0, remaining)
}

func TestQuotaService_DeniesAtLimit(t *testing.T) {
	db := newTestDB(t)
	clk := newFakeClock(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))
	quota := NewQuotaService(db, 5, time.UTC, clk)

	for i := 0; i < 4; i++ {
		seedLog(t, db, "a@x.com", clk.Now())
	}
	require.NoError(t, quota.Authorize("a@x.com", false))

	seedLog(t, db, "a@x.com", clk.Now())
	require.ErrorIs(t, quota.Authorize("a@x.com", false), ErrQuotaExceeded)
}

func TestQuotaService_RemainingFlooredAtZero(t *testing.T) {
	db := newTestDB(t)
	clk := newFakeClock(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))
	quota := NewQuotaService(db, 5, time.UTC, clk)

	// Overshoot: more logs than the limit (the documented quota race).
	for i := 0; i < 7; i++ {
		seedLog(t, db, "a@x.com", clk.Now())
	}

	remaining, err := quota.Remaining("a@x.com", false)
	require.NoError(t, err)
	require.Equal(t, 0, remaining)
}

func TestQuotaService_AdminUnlimited(t *testing.T) {
	db := newTestDB(t)
	clk := newFakeClock(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))
	quota := NewQuotaService(db, 5, time.UTC, clk)

	for i := 0; i < 100; i++ {
		seedLog(t, db, "admin@example.com", clk.Now())
	}

	remaining, err := quota.Remaining("admin@example.com", true)
	require.NoError(t, err)
	require.Equal(t, Unlimited, remaining)
	require.NoError(t, quota.Authorize("admin@example.com", true))
}

func TestQuotaService_ResetsNextDay(t *testing.T) {
	db := newTestDB(t)
	clk := newFakeClock(time.Date(2025, 6, 10, 23, 30, 0, 0, time.UTC))
	quota := NewQuotaService(db, 5, time.UTC, clk)

	for i := 0; i < 5; i++ {
		seedLog(t, db, "a@x.com", clk.Now())
	}
	require.ErrorIs(t, quota.Authorize("a@x.com", false), ErrQuotaExceeded)

	clk.Advance(time.Hour) // crosses midnight

	remaining, err := quota.Remaining("a@x.com", false)
	require.NoError(t, err)
	require.Equal(t, 5, remaining)
	require.NoError(t, quota.Authorize("a@x.com", false))
}

func TestQuotaService_CountsOnlyOwnRows(t *testing.T) {
	db := newTestDB(t)
	clk := newFakeClock(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	quota := NewQuotaService(db, 5, time.UTC, clk)

	for i := 0; i < 5; i++ {
		seedLog(t, db, "b@x.com", clk.Now())
	}

	remaining, err := quota.Remaining("a@x.com", false)
	require.NoError(t, err)
	require.Equal(t, 5, remaining)
}

func TestQuotaService_ResetsAt(t *testing.T) {
	db := newTestDB(t)
	clk := newFakeClock(time.Date(2025, 6, 10, 14, 15, 0, 0, time.UTC))
	quota := NewQuotaService(db, 5, time.UTC, clk)

	require.Equal(t, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), quota.ResetsAt())
}
