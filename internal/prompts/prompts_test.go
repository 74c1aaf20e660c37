package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, task := range All {
		got, err := Parse(string(task))
		require.NoError(t, err)
		require.Equal(t, task, got)
	}

	got, err := Parse("  OPTIMIZE \n")
	require.NoError(t, err)
	require.Equal(t, TaskOptimize, got)

	_, err = Parse("summarize")
	require.Error(t, err)
	_, err = Parse("")
	require.Error(t, err)
}

func TestBuildSubstitutesQuery(t *testing.T) {
	const query = "SELECT id FROM users WHERE active = true"

	for _, task := range All {
		prompt := Build(task, query)
		require.Contains(t, prompt, query, "task %s", task)
		require.NotContains(t, prompt, placeholder, "task %s", task)
	}
}

func TestBuildTemplatesAreDistinct(t *testing.T) {
	prompts := map[string]bool{}
	for _, task := range All {
		prompts[Build(task, "SELECT 1")] = true
	}
	require.Len(t, prompts, len(All))

	require.True(t, strings.Contains(Build(TaskExplain, "SELECT 1"), "EXECUTION BREAKDOWN"))
	require.True(t, strings.Contains(Build(TaskOptimize, "SELECT 1"), "OPTIMIZED VERSION"))
	require.True(t, strings.Contains(Build(TaskDetectIssues, "SELECT 1"), "SECURITY VULNERABILITIES"))
	require.True(t, strings.Contains(Build(TaskTest, "SELECT 1"), "TEST DATA DESIGN"))
}

func TestDescriptions(t *testing.T) {
	for _, task := range All {
		require.NotEmpty(t, task.Description())
	}
}
