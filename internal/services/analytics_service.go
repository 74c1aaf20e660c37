package services

import (
	"time"

	"github.com/sqlsage/sqlsage-backend/internal/clock"
	"github.com/sqlsage/sqlsage-backend/internal/dto"
	"github.com/sqlsage/sqlsage-backend/internal/models"
	"gorm.io/gorm"
)

const maxTrendDays = 90

// AnalyticsService aggregates the query_logs audit trail for the admin
// dashboard. All methods are reads; figures are snapshots computed at
// call time.
type AnalyticsService struct {
	db  *gorm.DB
	loc *time.Location
	clk clock.Clock
}

func NewAnalyticsService(db *gorm.DB, loc *time.Location, clk clock.Clock) *AnalyticsService {
	return &AnalyticsService{db: db, loc: loc, clk: clk}
}

// Summary aggregates query_logs within [from, to). Non-admin callers are
// rejected here even though the route is already admin-gated.
func (s *AnalyticsService) Summary(admin bool, from, to time.Time) (*dto.AnalyticsSummary, error) {
	if !admin {
		return nil, ErrForbidden
	}

	logs := s.db.Model(&models.QueryLog{}).Where("created_at >= ? AND created_at < ?", from, to)

	summary := &dto.AnalyticsSummary{
		PerTaskType: make(map[string]int64),
		PerUser:     make(map[string]int64),
	}

	if err := logs.Session(&gorm.Session{}).Count(&summary.TotalQueries).Error; err != nil {
		return nil, err
	}

	var successCount int64
	if err := logs.Session(&gorm.Session{}).Where("success = ?", true).Count(&successCount).Error; err != nil {
		return nil, err
	}
	if summary.TotalQueries > 0 {
		summary.SuccessRate = float64(successCount) / float64(summary.TotalQueries) * 100
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var byTask []bucket
	if err := logs.Session(&gorm.Session{}).
		Select("task_type AS key, COUNT(*) AS count").
		Group("task_type").
		Scan(&byTask).Error; err != nil {
		return nil, err
	}
	for _, b := range byTask {
		summary.PerTaskType[b.Key] = b.Count
	}

	var byUser []bucket
	if err := logs.Session(&gorm.Session{}).
		Select("user_email AS key, COUNT(*) AS count").
		Group("user_email").
		Scan(&byUser).Error; err != nil {
		return nil, err
	}
	for _, b := range byUser {
		summary.PerUser[b.Key] = b.Count
	}

	if err := logs.Session(&gorm.Session{}).
		Select("COALESCE(SUM(tokens_used), 0)").
		Scan(&summary.TotalTokens).Error; err != nil {
		return nil, err
	}

	if err := logs.Session(&gorm.Session{}).
		Select("COALESCE(AVG(query_length), 0)").
		Scan(&summary.AvgQueryLength).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.User{}).Count(&summary.TotalUsers).Error; err != nil {
		return nil, err
	}

	sevenDaysAgo := s.clk.Now().AddDate(0, 0, -7)
	if err := s.db.Model(&models.QueryLog{}).
		Where("created_at >= ?", sevenDaysAgo).
		Distinct("user_email").
		Count(&summary.ActiveUsers7d).Error; err != nil {
		return nil, err
	}

	return summary, nil
}

// Trend returns daily query counts for the last N days, oldest first,
// with zero-count days filled in.
func (s *AnalyticsService) Trend(admin bool, days int) ([]dto.TrendPoint, error) {
	if !admin {
		return nil, ErrForbidden
	}
	if days < 1 {
		days = 7
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}

	now := s.clk.Now().In(s.loc)
	endDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	startDay := endDay.AddDate(0, 0, -(days - 1))

	var logs []models.QueryLog
	if err := s.db.Select("created_at").
		Where("created_at >= ? AND created_at < ?", startDay, endDay.AddDate(0, 0, 1)).
		Find(&logs).Error; err != nil {
		return nil, err
	}

	// Bucket in Go so day boundaries follow the quota time zone without
	// database-specific date functions.
	counts := make(map[string]int64, days)
	for _, entry := range logs {
		counts[entry.CreatedAt.In(s.loc).Format("2006-01-02")]++
	}

	points := make([]dto.TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := startDay.AddDate(0, 0, i).Format("2006-01-02")
		points = append(points, dto.TrendPoint{Date: day, Queries: counts[day]})
	}
	return points, nil
}

// RecentErrors lists the latest failed analysis attempts.
func (s *AnalyticsService) RecentErrors(admin bool, limit int) ([]models.QueryLog, error) {
	if !admin {
		return nil, ErrForbidden
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var failures []models.QueryLog
	if err := s.db.Where("success = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Find(&failures).Error; err != nil {
		return nil, err
	}
	return failures, nil
}
