package services

import (
	"context"
	"testing"

	"github.com/sqlsage/sqlsage-backend/internal/llm"
	"github.com/sqlsage/sqlsage-backend/internal/models"
	"github.com/sqlsage/sqlsage-backend/internal/prompts"
	"github.com/stretchr/testify/require"
)

func TestCompare_MinesHeadlineFigures(t *testing.T) {
	answer := "1. PERFORMANCE METRICS\nCost comparison: cost 200 vs 100.\n\n" +
		"4. WINNER DETERMINATION\nQuery B is better overall, roughly 40% faster."
	gen := &fakeGenerator{result: &llm.Result{Text: answer, TokensUsed: intPtr(500)}}
	svc, db, _ := newAnalysisFixture(t, gen)

	resp, err := svc.Compare(context.Background(), "a@x.com", false,
		"SELECT * FROM orders", "SELECT id FROM orders", "", nil, prompts.DepthStandard)
	require.NoError(t, err)
	require.Equal(t, answer, resp.Analysis)
	require.Equal(t, "Query B", resp.Winner)
	require.Equal(t, 40, resp.PerformanceImprovement)
	require.Equal(t, 50, resp.CostReduction)
	require.Equal(t, 4, resp.Remaining)

	var logs []models.QueryLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Equal(t, "compare", logs[0].TaskType)
	require.Equal(t, len("SELECT * FROM orders")+len("SELECT id FROM orders"), logs[0].QueryLength)
}

func TestCompare_DefaultsDialectAndAspects(t *testing.T) {
	gen := &fakeGenerator{result: &llm.Result{Text: "no verdict"}}
	svc, _, _ := newAnalysisFixture(t, gen)

	resp, err := svc.Compare(context.Background(), "a@x.com", false,
		"SELECT 1", "SELECT 2", "", nil, prompts.DepthBasic)
	require.NoError(t, err)
	require.Equal(t, "Unknown", resp.Winner)
	require.Zero(t, resp.PerformanceImprovement)

	require.Contains(t, gen.lastPrompt, "PostgreSQL")
	require.Contains(t, gen.lastPrompt, "Execution Plan, Performance Metrics")
	require.Contains(t, gen.lastPrompt, "quick overview")
}

func TestCompare_EmptyQueryRejected(t *testing.T) {
	gen := &fakeGenerator{result: &llm.Result{Text: "x"}}
	svc, _, _ := newAnalysisFixture(t, gen)

	_, err := svc.Compare(context.Background(), "a@x.com", false, "SELECT 1", "  ", "", nil, prompts.DepthStandard)
	require.ErrorIs(t, err, ErrEmptyQuery)
	require.Zero(t, gen.calls)
}

func TestCompare_CountsAgainstQuota(t *testing.T) {
	gen := &fakeGenerator{result: &llm.Result{Text: "x"}}
	svc, db, clk := newAnalysisFixture(t, gen)

	for i := 0; i < 5; i++ {
		seedLog(t, db, "a@x.com", clk.Now())
	}

	_, err := svc.Compare(context.Background(), "a@x.com", false, "SELECT 1", "SELECT 2", "", nil, prompts.DepthStandard)
	require.ErrorIs(t, err, ErrQuotaExceeded)
	require.Zero(t, gen.calls)
}

func TestCompare_WinnerDetection(t *testing.T) {
	cases := []struct {
		analysis string
		want     string
	}{
		{"Query A is clearly better here.", "Query A"},
		{"Overall, Query B performs better.", "Query B"},
		{"Both are equivalent.", "Unknown"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, compareWinner(tc.analysis), tc.analysis)
	}
}
