package dto

type CompareRequest struct {
	SQLA    string   `json:"sql_a"`
	SQLB    string   `json:"sql_b"`
	Dialect string   `json:"dialect,omitempty"`
	Aspects []string `json:"aspects,omitempty"`
	Depth   string   `json:"depth,omitempty"`
}

// CompareResponse carries the full analysis text plus the headline
// figures mined out of it. The figures are best-effort: zero values mean
// the model did not state them in a recognizable form.
type CompareResponse struct {
	Analysis               string `json:"analysis"`
	Winner                 string `json:"winner"`
	PerformanceImprovement int    `json:"performance_improvement"`
	CostReduction          int    `json:"cost_reduction"`
	TokensUsed             *int   `json:"tokens_used,omitempty"`
	Remaining              int    `json:"remaining_quota"`
}
