package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/sqlsage/sqlsage-backend/internal/dto"
	"github.com/sqlsage/sqlsage-backend/internal/prompts"
)

const defaultDialect = "PostgreSQL"

var defaultCompareAspects = []string{"Execution Plan", "Performance Metrics"}

var (
	reImprovement = regexp.MustCompile(`(?i)(\d+)%\s*(?:faster|improvement|better)`)
	reCostPair    = regexp.MustCompile(`(?i)cost.*?(\d+).*?vs.*?(\d+)`)
)

// Compare runs a side-by-side analysis of two queries and mines the
// headline figures out of the answer. Query length is logged as the sum
// of both inputs.
func (s *AnalysisService) Compare(ctx context.Context, email string, admin bool, queryA, queryB, dialect string, aspects []string, depth prompts.Depth) (*dto.CompareResponse, error) {
	if strings.TrimSpace(queryA) == "" || strings.TrimSpace(queryB) == "" {
		return nil, ErrEmptyQuery
	}
	if strings.TrimSpace(dialect) == "" {
		dialect = defaultDialect
	}
	if len(aspects) == 0 {
		aspects = defaultCompareAspects
	}

	prompt := prompts.BuildComparison(queryA, queryB, dialect, aspects, depth)
	result, remaining, err := s.generate(ctx, email, admin, prompts.TaskCompare, len(queryA)+len(queryB), prompt)
	if err != nil {
		return nil, err
	}

	resp := &dto.CompareResponse{
		Analysis:   result.Text,
		Winner:     compareWinner(result.Text),
		TokensUsed: result.TokensUsed,
		Remaining:  remaining,
	}

	if m := reImprovement.FindStringSubmatch(result.Text); m != nil {
		resp.PerformanceImprovement, _ = strconv.Atoi(m[1])
	}
	if m := reCostPair.FindStringSubmatch(result.Text); m != nil {
		costA, _ := strconv.Atoi(m[1])
		costB, _ := strconv.Atoi(m[2])
		if costA > 0 {
			resp.CostReduction = (costA - costB) * 100 / costA
		}
	}

	return resp, nil
}

func compareWinner(analysis string) string {
	lower := strings.ToLower(analysis)
	if !strings.Contains(lower, "better") {
		return "Unknown"
	}
	if strings.Contains(lower, "query b") {
		return "Query B"
	}
	if strings.Contains(lower, "query a") {
		return "Query A"
	}
	return "Unknown"
}
