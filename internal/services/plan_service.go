package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sqlsage/sqlsage-backend/internal/dto"
	"github.com/sqlsage/sqlsage-backend/internal/prompts"
)

// Plan asks the model for an execution plan in a JSON envelope and
// decodes it into step/summary form.
func (s *AnalysisService) Plan(ctx context.Context, email string, admin bool, sqlText, dialect string) (*dto.PlanResponse, error) {
	if strings.TrimSpace(sqlText) == "" {
		return nil, ErrEmptyQuery
	}
	if strings.TrimSpace(dialect) == "" {
		dialect = defaultDialect
	}

	prompt := prompts.BuildPlan(sqlText, dialect)
	result, remaining, err := s.generate(ctx, email, admin, prompts.TaskPlan, len(sqlText), prompt)
	if err != nil {
		return nil, err
	}

	plan, structured := parsePlan(result.Text)
	return &dto.PlanResponse{
		Plan:       plan,
		Structured: structured,
		TokensUsed: result.TokensUsed,
		Remaining:  remaining,
	}, nil
}

// parsePlan decodes the outermost JSON object in the answer. Anything the
// model wraps around it (prose, code fences) is sliced away first. When
// decoding fails the raw answer survives as a single synthetic step.
func parsePlan(response string) (dto.ExecutionPlan, bool) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start >= 0 && end > start {
		var plan dto.ExecutionPlan
		if err := json.Unmarshal([]byte(response[start:end+1]), &plan); err == nil && len(plan.Steps) > 0 {
			return plan, true
		}
	}
	return fallbackPlan(response), false
}

func fallbackPlan(response string) dto.ExecutionPlan {
	return dto.ExecutionPlan{
		Steps: []dto.PlanStep{{
			ID:        1,
			Operation: "Query Execution",
			Table:     "multiple",
			Details:   "See analysis below",
		}},
		Summary: dto.PlanSummary{
			MainBottleneck:          "Analysis in progress",
			OptimizationSuggestions: []string{response},
		},
	}
}
