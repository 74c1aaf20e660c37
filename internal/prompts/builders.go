package prompts

import (
	"fmt"
	"strings"
)

// Task types logged by the generation features outside the four-way
// analyze endpoint. Parse deliberately rejects these; each has its own
// endpoint with its own request shape.
const (
	TaskNL2SQL  TaskType = "nl2sql"
	TaskCompare TaskType = "compare"
	TaskPlan    TaskType = "plan"
)

// Depth controls how exhaustive a query comparison should be.
type Depth string

const (
	DepthBasic    Depth = "basic"
	DepthStandard Depth = "standard"
	DepthDetailed Depth = "detailed"
)

// ParseDepth validates a wire-format depth. The empty string means the
// caller did not choose and defaults to standard.
func ParseDepth(s string) (Depth, error) {
	d := Depth(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case "":
		return DepthStandard, nil
	case DepthBasic, DepthStandard, DepthDetailed:
		return d, nil
	}
	return "", fmt.Errorf("unknown comparison depth %q", s)
}

var depthInstructions = map[Depth]string{
	DepthBasic:    "Provide a quick overview of the main differences.",
	DepthStandard: "Provide a balanced analysis with key metrics and recommendations.",
	DepthDetailed: "Provide an exhaustive analysis with all possible metrics and detailed explanations.",
}

// BuildNL2SQL asks for a SQL translation of a plain-language question
// against the given schema. The response format is prescribed so the
// answer can be split back into SQL, explanation and assumptions.
func BuildNL2SQL(schema, question string, explain bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Given the following database schema:

%s

Convert this natural language query to SQL:
"%s"

Requirements:
1. Generate syntactically correct SQL
2. Use only tables and columns that exist in the schema
3. Make reasonable assumptions for ambiguous requests
4. If the query cannot be answered with the given schema, explain why

`, schema, question)

	if explain {
		b.WriteString("Also provide a brief explanation of what the query does.\n\n")
	}

	b.WriteString("Format your response as:\nSQL:\n```sql\n[your SQL query here]\n```\n\n")

	if explain {
		b.WriteString("Explanation: [brief explanation of what the query does]\n\n")
	}

	b.WriteString("If there are any assumptions made, list them as:\nAssumptions: [list any assumptions]\n")

	return b.String()
}

// BuildComparison asks for a structured side-by-side analysis of two
// queries on a given database dialect.
func BuildComparison(queryA, queryB, dialect string, aspects []string, depth Depth) string {
	return fmt.Sprintf(`Compare these two SQL queries for %s database.

Query A:
%s

Query B:
%s

Analysis depth: %s - %s
Focus on: %s

Provide a structured comparison including:

1. PERFORMANCE METRICS
- Estimated execution time for each query
- Cost comparison (use numbers)
- Rows processed comparison
- Memory usage estimation
- I/O operations comparison

2. EXECUTION PLAN DIFFERENCES
- Key operations that differ
- Join methods comparison
- Index usage differences
- Scan types (full vs index)

3. CODE STRUCTURE ANALYSIS
- Complexity comparison
- Readability assessment
- Maintainability factors
- Best practices adherence

4. WINNER DETERMINATION
- Which query is better overall
- Percentage improvement (if any)
- Specific scenarios where each might be preferred

5. RECOMMENDATIONS
- How to further optimize the better query
- What to avoid from the worse query
- General insights learned

Format your response with clear sections and use specific numbers where possible.
`, dialect, queryA, queryB, depth, depthInstructions[depth], strings.Join(aspects, ", "))
}

// BuildPlan asks for an execution plan in a fixed JSON envelope so the
// caller can render it as a step tree.
func BuildPlan(sqlText, dialect string) string {
	return fmt.Sprintf(`Analyze this SQL query and generate a detailed execution plan for %s:

SQL Query:
%s

Provide a detailed execution plan including:
1. Query parsing and optimization steps
2. Table access methods (full scan, index scan, etc.)
3. Join algorithms (nested loop, hash join, merge join)
4. Filtering and sorting operations
5. Estimated costs and row counts
6. Potential bottlenecks

Format the response as a JSON object with this structure:
{
    "steps": [
        {
            "id": 1,
            "operation": "Table Scan",
            "table": "users",
            "details": "Full table scan on users table",
            "estimated_rows": 10000,
            "cost": 100,
            "parent_id": null
        },
        ...
    ],
    "summary": {
        "total_cost": 500,
        "execution_time_estimate": "~50ms",
        "main_bottleneck": "Full table scan on users",
        "optimization_suggestions": ["Create index on user_id", "..."]
    },
    "warnings": ["Missing index on foreign key", "..."]
}
`, dialect, sqlText)
}
