package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sqlsage/sqlsage-backend/internal/dto"
	"github.com/sqlsage/sqlsage-backend/internal/models"
	"github.com/sqlsage/sqlsage-backend/internal/prompts"
	"gorm.io/gorm"
)

var ErrEmptyQuestion = errors.New("question must not be empty")

// NL2SQL translates a plain-language question into SQL against the
// caller's schema. An explicit schema in the request wins; otherwise the
// stored per-user schema is used.
func (s *AnalysisService) NL2SQL(ctx context.Context, email string, admin bool, question, schema string, explain bool) (*dto.NL2SQLResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	if strings.TrimSpace(schema) == "" {
		var stored models.UserSchema
		if err := s.db.First(&stored, "user_email = ?", email).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNoSchema
			}
			return nil, err
		}
		schema = stored.SchemaText
	}

	prompt := prompts.BuildNL2SQL(schema, question, explain)
	result, remaining, err := s.generate(ctx, email, admin, prompts.TaskNL2SQL, len(question), prompt)
	if err != nil {
		return nil, err
	}

	return &dto.NL2SQLResponse{
		SQL:         extractSQL(result.Text),
		Explanation: sectionAfter(result.Text, "Explanation:", "Assumptions:"),
		Assumptions: sectionAfter(result.Text, "Assumptions:"),
		TokensUsed:  result.TokensUsed,
		Remaining:   remaining,
	}, nil
}

// extractSQL pulls the query out of a model answer. A fenced ```sql block
// wins; otherwise the lines between "SQL:" and the next labeled section
// are taken.
func extractSQL(response string) string {
	if i := strings.Index(response, "```sql"); i >= 0 {
		rest := response[i+len("```sql"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
	}

	var sqlLines []string
	inSQL := false
	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "SQL:"):
			inSQL = true
		case strings.HasPrefix(trimmed, "Explanation:") || strings.HasPrefix(trimmed, "Assumptions:"):
			inSQL = false
		case inSQL && trimmed != "":
			sqlLines = append(sqlLines, line)
		}
	}
	return strings.TrimSpace(strings.Join(sqlLines, "\n"))
}

// sectionAfter returns the text following label, cut at the first of the
// stop labels. Empty when the label is absent.
func sectionAfter(text, label string, stops ...string) string {
	i := strings.Index(text, label)
	if i < 0 {
		return ""
	}
	out := text[i+len(label):]
	for _, stop := range stops {
		if j := strings.Index(out, stop); j >= 0 {
			out = out[:j]
		}
	}
	return strings.TrimSpace(out)
}
