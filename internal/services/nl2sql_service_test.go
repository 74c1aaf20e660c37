package services

import (
	"context"
	"testing"
	"time"

	"github.com/sqlsage/sqlsage-backend/internal/llm"
	"github.com/sqlsage/sqlsage-backend/internal/models"
	"github.com/stretchr/testify/require"
)

const testSchema = "CREATE TABLE customers (customer_id INT PRIMARY KEY, state VARCHAR(50))"

func TestNL2SQL_ExtractsFencedSQLAndSections(t *testing.T) {
	answer := "SQL:\n```sql\nSELECT * FROM customers WHERE state = 'CA'\n```\n\n" +
		"Explanation: Lists California customers.\n\n" +
		"Assumptions: state stores two-letter codes."
	gen := &fakeGenerator{result: &llm.Result{Text: answer, TokensUsed: intPtr(88)}}
	svc, db, _ := newAnalysisFixture(t, gen)

	resp, err := svc.NL2SQL(context.Background(), "a@x.com", false, "Show customers from California", testSchema, true)
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM customers WHERE state = 'CA'", resp.SQL)
	require.Equal(t, "Lists California customers.", resp.Explanation)
	require.Equal(t, "state stores two-letter codes.", resp.Assumptions)
	require.Equal(t, 88, *resp.TokensUsed)
	require.Equal(t, 4, resp.Remaining)

	require.Contains(t, gen.lastPrompt, testSchema)
	require.Contains(t, gen.lastPrompt, "Show customers from California")
	require.Contains(t, gen.lastPrompt, "brief explanation")

	var logs []models.QueryLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Equal(t, "nl2sql", logs[0].TaskType)
	require.Equal(t, len("Show customers from California"), logs[0].QueryLength)
}

func TestNL2SQL_FallbackExtractionWithoutFences(t *testing.T) {
	answer := "SQL:\nSELECT COUNT(*) FROM customers\nExplanation: counts rows"
	gen := &fakeGenerator{result: &llm.Result{Text: answer}}
	svc, _, _ := newAnalysisFixture(t, gen)

	resp, err := svc.NL2SQL(context.Background(), "a@x.com", false, "How many customers?", testSchema, false)
	require.NoError(t, err)
	require.Equal(t, "SELECT COUNT(*) FROM customers", resp.SQL)
}

func TestNL2SQL_UsesStoredSchemaWhenRequestOmitsIt(t *testing.T) {
	gen := &fakeGenerator{result: &llm.Result{Text: "SQL:\nSELECT 1"}}
	svc, db, clk := newAnalysisFixture(t, gen)

	_, err := NewSchemaService(db, clk).Save("a@x.com", testSchema)
	require.NoError(t, err)

	_, err = svc.NL2SQL(context.Background(), "a@x.com", false, "Anything", "", false)
	require.NoError(t, err)
	require.Contains(t, gen.lastPrompt, testSchema)
}

func TestNL2SQL_NoSchemaAnywhere(t *testing.T) {
	gen := &fakeGenerator{result: &llm.Result{Text: "SQL:\nSELECT 1"}}
	svc, _, _ := newAnalysisFixture(t, gen)

	_, err := svc.NL2SQL(context.Background(), "a@x.com", false, "Anything", "", false)
	require.ErrorIs(t, err, ErrNoSchema)
	require.Zero(t, gen.calls)
}

func TestNL2SQL_EmptyQuestionRejected(t *testing.T) {
	gen := &fakeGenerator{result: &llm.Result{Text: "SQL:\nSELECT 1"}}
	svc, _, _ := newAnalysisFixture(t, gen)

	_, err := svc.NL2SQL(context.Background(), "a@x.com", false, "   ", testSchema, false)
	require.ErrorIs(t, err, ErrEmptyQuestion)
	require.Zero(t, gen.calls)
}

func TestNL2SQL_CountsAgainstQuota(t *testing.T) {
	gen := &fakeGenerator{result: &llm.Result{Text: "SQL:\nSELECT 1"}}
	svc, db, clk := newAnalysisFixture(t, gen)

	for i := 0; i < 5; i++ {
		seedLog(t, db, "a@x.com", clk.Now())
	}

	_, err := svc.NL2SQL(context.Background(), "a@x.com", false, "Anything", testSchema, false)
	require.ErrorIs(t, err, ErrQuotaExceeded)
	require.Zero(t, gen.calls)
}

func TestNL2SQL_ExplainOffOmitsExplanationAsk(t *testing.T) {
	gen := &fakeGenerator{result: &llm.Result{Text: "SQL:\nSELECT 1"}}
	svc, _, _ := newAnalysisFixture(t, gen)

	_, err := svc.NL2SQL(context.Background(), "a@x.com", false, "Anything", testSchema, false)
	require.NoError(t, err)
	require.NotContains(t, gen.lastPrompt, "brief explanation")
}

func TestSchemaService_SaveGetUpdateClear(t *testing.T) {
	db := newTestDB(t)
	clk := newFakeClock(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	svc := NewSchemaService(db, clk)

	_, err := svc.Get("a@x.com")
	require.ErrorIs(t, err, ErrNoSchema)

	saved, err := svc.Save("a@x.com", testSchema)
	require.NoError(t, err)
	require.Equal(t, testSchema, saved.SchemaText)

	got, err := svc.Get("a@x.com")
	require.NoError(t, err)
	require.Equal(t, testSchema, got.SchemaText)

	clk.Advance(time.Hour)
	replacement := "CREATE TABLE orders (order_id INT PRIMARY KEY)"
	updated, err := svc.Save("a@x.com", replacement)
	require.NoError(t, err)
	require.Equal(t, saved.ID, updated.ID, "saving again replaces, not duplicates")
	require.True(t, updated.UpdatedAt.After(saved.CreatedAt))

	var count int64
	require.NoError(t, db.Model(&models.UserSchema{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	require.NoError(t, svc.Clear("a@x.com"))
	_, err = svc.Get("a@x.com")
	require.ErrorIs(t, err, ErrNoSchema)

	// Clearing again is a no-op, not an error.
	require.NoError(t, svc.Clear("a@x.com"))
}

func TestSchemaService_RejectsNonSchemaText(t *testing.T) {
	db := newTestDB(t)
	clk := newFakeClock(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	svc := NewSchemaService(db, clk)

	_, err := svc.Save("a@x.com", "SELECT * FROM somewhere")
	require.ErrorIs(t, err, ErrInvalidSchema)

	_, err = svc.Save("a@x.com", "")
	require.ErrorIs(t, err, ErrInvalidSchema)
}

func TestSchemaService_SamplesAreValidSchemas(t *testing.T) {
	db := newTestDB(t)
	clk := newFakeClock(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	svc := NewSchemaService(db, clk)

	samples := svc.Samples()
	require.Len(t, samples, 3)
	for _, sample := range samples {
		require.NotEmpty(t, sample.Name)
		require.True(t, validSchema(sample.Schema), sample.Name)
	}
}
