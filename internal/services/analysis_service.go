package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sqlsage/sqlsage-backend/internal/clock"
	"github.com/sqlsage/sqlsage-backend/internal/dto"
	"github.com/sqlsage/sqlsage-backend/internal/llm"
	"github.com/sqlsage/sqlsage-backend/internal/models"
	"github.com/sqlsage/sqlsage-backend/internal/prompts"
	"gorm.io/gorm"
)

var (
	ErrEmptyQuery         = errors.New("sql query must not be empty")
	ErrServiceUnavailable = errors.New("analysis service unavailable")
)

// AnalysisService runs the authorize -> prompt -> generate -> log
// pipeline. Every attempt that reaches the generation stage writes
// exactly one QueryLog row, success or failure; quota denials write
// nothing and never touch the generator.
type AnalysisService struct {
	db        *gorm.DB
	quota     *QuotaService
	generator llm.Generator
	timeout   time.Duration
	clk       clock.Clock
}

func NewAnalysisService(db *gorm.DB, quota *QuotaService, generator llm.Generator, timeout time.Duration, clk clock.Clock) *AnalysisService {
	return &AnalysisService{db: db, quota: quota, generator: generator, timeout: timeout, clk: clk}
}

func (s *AnalysisService) Analyze(ctx context.Context, email string, admin bool, sqlText string, task prompts.TaskType) (*dto.AnalyzeResponse, error) {
	if strings.TrimSpace(sqlText) == "" {
		return nil, ErrEmptyQuery
	}

	result, remaining, err := s.generate(ctx, email, admin, task, len(sqlText), prompts.Build(task, sqlText))
	if err != nil {
		return nil, err
	}

	historyID := s.saveToHistory(email, sqlText, task, result.Text)

	return &dto.AnalyzeResponse{
		TaskType:   task.String(),
		Result:     result.Text,
		TokensUsed: result.TokensUsed,
		HistoryID:  historyID,
		Remaining:  remaining,
	}, nil
}

// generate is the shared pipeline for every generation feature: quota
// gate, model call under the configured timeout, exactly one QueryLog row
// for attempts that reach the model. Quota denials write nothing.
func (s *AnalysisService) generate(ctx context.Context, email string, admin bool, task prompts.TaskType, queryLength int, prompt string) (*llm.Result, int, error) {
	if err := s.quota.Authorize(email, admin); err != nil {
		return nil, 0, err
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.generator.Generate(genCtx, prompt)
	if err != nil {
		s.logAttempt(email, task, queryLength, nil, false, err.Error())
		return nil, 0, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	s.logAttempt(email, task, queryLength, result.TokensUsed, true, "")

	remaining, err := s.quota.Remaining(email, admin)
	if err != nil {
		remaining = 0
	}
	return result, remaining, nil
}

func (s *AnalysisService) logAttempt(email string, task prompts.TaskType, queryLength int, tokens *int, success bool, errMsg string) {
	entry := models.QueryLog{
		ID:          uuid.New(),
		UserEmail:   email,
		TaskType:    task.String(),
		QueryLength: queryLength,
		TokensUsed:  tokens,
		Success:     success,
		CreatedAt:   s.clk.Now(),
	}
	if errMsg != "" {
		entry.ErrorMessage = &errMsg
	}

	if err := s.db.Create(&entry).Error; err != nil {
		slog.Error("failed to write query log", "error", err, "user_email", email, "action", "analyze")
	}
}

func (s *AnalysisService) saveToHistory(email, sqlText string, task prompts.TaskType, resultText string) *uuid.UUID {
	entry := models.QueryHistory{
		ID:         uuid.New(),
		UserEmail:  email,
		QueryText:  sqlText,
		TaskType:   task.String(),
		ResultText: resultText,
		CreatedAt:  s.clk.Now(),
	}

	if err := s.db.Create(&entry).Error; err != nil {
		slog.Error("failed to save analysis to history", "error", err, "user_email", email, "action", "analyze")
		return nil
	}
	return &entry.ID
}
