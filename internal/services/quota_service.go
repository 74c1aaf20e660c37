package services

import (
	"errors"
	"time"

	"github.com/sqlsage/sqlsage-backend/internal/authctx"
	"github.com/sqlsage/sqlsage-backend/internal/clock"
	"github.com/sqlsage/sqlsage-backend/internal/models"
	"gorm.io/gorm"
)

var ErrQuotaExceeded = errors.New("daily query limit reached")

// Unlimited is the remaining-quota sentinel for admin users.
const Unlimited = -1

// QuotaService derives a user's remaining daily analyses from the
// query_logs audit trail. Nothing is stored; the count is recomputed on
// every check, so the quota and the subsequent log write are not atomic.
// Two concurrent requests from one user can overshoot the limit by a
// small margin, matching the upstream behavior.
type QuotaService struct {
	db    *gorm.DB
	limit int
	loc   *time.Location
	clk   clock.Clock
}

func NewQuotaService(db *gorm.DB, limit int, loc *time.Location, clk clock.Clock) *QuotaService {
	return &QuotaService{db: db, limit: limit, loc: loc, clk: clk}
}

func (s *QuotaService) Limit() int { return s.limit }

// Remaining returns Unlimited for admins, otherwise limit minus the
// number of logged analyses in the current calendar day, floored at zero.
func (s *QuotaService) Remaining(email string, admin bool) (int, error) {
	if admin {
		return Unlimited, nil
	}

	start, end := s.dayWindow()
	var count int64
	err := s.db.Model(&models.QueryLog{}).
		Scopes(authctx.OwnedBy(email)).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	remaining := s.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Authorize returns ErrQuotaExceeded when a non-admin user has no quota
// left for the current day.
func (s *QuotaService) Authorize(email string, admin bool) error {
	remaining, err := s.Remaining(email, admin)
	if err != nil {
		return err
	}
	if remaining == Unlimited {
		return nil
	}
	if remaining <= 0 {
		return ErrQuotaExceeded
	}
	return nil
}

// ResetsAt is the start of the next calendar day in the quota time zone.
func (s *QuotaService) ResetsAt() time.Time {
	_, end := s.dayWindow()
	return end
}

func (s *QuotaService) dayWindow() (time.Time, time.Time) {
	now := s.clk.Now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	return start, start.AddDate(0, 0, 1)
}
