package prompts

import (
	"fmt"
	"strings"
)

// TaskType identifies the kind of analysis requested for a SQL query.
type TaskType string

const (
	TaskExplain      TaskType = "explain"
	TaskOptimize     TaskType = "optimize"
	TaskDetectIssues TaskType = "detect_issues"
	TaskTest         TaskType = "test"
)

// All lists every supported task type.
var All = []TaskType{TaskExplain, TaskOptimize, TaskDetectIssues, TaskTest}

// Parse validates a wire-format task type string.
func Parse(s string) (TaskType, error) {
	t := TaskType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TaskExplain, TaskOptimize, TaskDetectIssues, TaskTest:
		return t, nil
	}
	return "", fmt.Errorf("unknown task type %q", s)
}

func (t TaskType) String() string { return string(t) }

// Description returns the short user-facing summary of a task type.
func (t TaskType) Description() string {
	return descriptions[t]
}

var descriptions = map[TaskType]string{
	TaskExplain:      "Get a detailed step-by-step explanation",
	TaskOptimize:     "Improve performance and efficiency",
	TaskDetectIssues: "Find problems and bad practices",
	TaskTest:         "Generate test data and expected results",
}

const placeholder = "{sql_query}"

// Build fills the task's prompt template with the SQL text.
func Build(t TaskType, sqlText string) string {
	return strings.ReplaceAll(templates[t], placeholder, sqlText)
}

var templates = map[TaskType]string{
	TaskExplain: `Provide a comprehensive analysis of this SQL query.

Structure your response:
1. QUERY PURPOSE - What problem it solves
2. EXECUTION BREAKDOWN - Step-by-step processing
3. TECHNICAL ANALYSIS - Table relationships and logic
4. PERFORMANCE CONSIDERATIONS - Bottlenecks and scalability
5. ASSUMPTIONS & DEPENDENCIES

SQL Query:
{sql_query}`,

	TaskDetectIssues: `Analyze this query for issues.

Check for:
1. PERFORMANCE ISSUES - Inefficiencies
2. SECURITY VULNERABILITIES - Injection risks
3. MAINTAINABILITY PROBLEMS - Readability issues
4. BEST PRACTICE VIOLATIONS

Rate severity: CRITICAL, HIGH, MEDIUM, LOW

SQL Query:
{sql_query}`,

	TaskOptimize: `Optimize this SQL query for better performance.

Provide:
1. PERFORMANCE ANALYSIS
2. OPTIMIZATION STRATEGY
3. OPTIMIZED VERSION
4. IMPLEMENTATION NOTES
5. TRADE-OFF ANALYSIS

Original SQL Query:
{sql_query}`,

	TaskTest: `Create a test suite for this query.

Include:
1. TEST DATA DESIGN - Sample data with edge cases
2. EXPECTED RESULTS - Complete output
3. EDGE CASE SCENARIOS
4. VALIDATION CRITERIA
5. TEST EXECUTION PLAN

SQL Query to Test:
{sql_query}`,
}
