package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sqlsage/sqlsage-backend/internal/authctx"
	"github.com/sqlsage/sqlsage-backend/internal/clock"
	"github.com/sqlsage/sqlsage-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrForbidden     = errors.New("forbidden")
	ErrEntryNotFound = errors.New("history entry not found")
)

const defaultHistoryLimit = 50

type HistoryFilter struct {
	FavoritesOnly bool
	Search        string
	Limit         int
}

type HistoryService struct {
	db  *gorm.DB
	clk clock.Clock
}

func NewHistoryService(db *gorm.DB, clk clock.Clock) *HistoryService {
	return &HistoryService{db: db, clk: clk}
}

// Save stores a query with its result. No deduplication; saving the same
// query twice yields two entries.
func (s *HistoryService) Save(email, sqlText, taskType, resultText string, name *string) (*models.QueryHistory, error) {
	if strings.TrimSpace(sqlText) == "" {
		return nil, ErrEmptyQuery
	}

	entry := models.QueryHistory{
		ID:         uuid.New(),
		UserEmail:  email,
		QueryText:  sqlText,
		TaskType:   taskType,
		ResultText: resultText,
		QueryName:  name,
		CreatedAt:  s.clk.Now(),
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns the owner's entries newest first, optionally filtered to
// favorites or by a case-insensitive substring over query and result text.
func (s *HistoryService) List(email string, filter HistoryFilter) ([]models.QueryHistory, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	q := s.db.Scopes(authctx.OwnedBy(email)).Order("created_at DESC").Limit(limit)
	if filter.FavoritesOnly {
		q = q.Where("is_favorite = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(query_text) LIKE ? OR LOWER(result_text) LIKE ?", pattern, pattern)
	}

	var entries []models.QueryHistory
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ToggleFavorite flips the favorite flag on an entry owned by email.
func (s *HistoryService) ToggleFavorite(id uuid.UUID, email string) (*models.QueryHistory, error) {
	entry, err := s.ownedEntry(id, email)
	if err != nil {
		return nil, err
	}

	entry.IsFavorite = !entry.IsFavorite
	if err := s.db.Model(entry).Update("is_favorite", entry.IsFavorite).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// Rename sets the display name on an entry owned by email.
func (s *HistoryService) Rename(id uuid.UUID, email, name string) (*models.QueryHistory, error) {
	entry, err := s.ownedEntry(id, email)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(entry).Update("query_name", name).Error; err != nil {
		return nil, err
	}
	entry.QueryName = &name
	return entry, nil
}

// Delete removes an entry owned by email. Query logs are unaffected.
func (s *HistoryService) Delete(id uuid.UUID, email string) error {
	entry, err := s.ownedEntry(id, email)
	if err != nil {
		return err
	}
	return s.db.Delete(entry).Error
}

func (s *HistoryService) ownedEntry(id uuid.UUID, email string) (*models.QueryHistory, error) {
	var entry models.QueryHistory
	if err := s.db.First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	if entry.UserEmail != email {
		return nil, ErrForbidden
	}
	return &entry, nil
}
