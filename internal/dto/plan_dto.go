package dto

type PlanRequest struct {
	SQL     string `json:"sql"`
	Dialect string `json:"dialect,omitempty"`
}

type PlanStep struct {
	ID            int     `json:"id"`
	Operation     string  `json:"operation"`
	Table         string  `json:"table"`
	Details       string  `json:"details"`
	EstimatedRows int64   `json:"estimated_rows"`
	Cost          float64 `json:"cost"`
	ParentID      *int    `json:"parent_id"`
}

type PlanSummary struct {
	TotalCost               float64  `json:"total_cost"`
	ExecutionTimeEstimate   string   `json:"execution_time_estimate"`
	MainBottleneck          string   `json:"main_bottleneck"`
	OptimizationSuggestions []string `json:"optimization_suggestions"`
}

type ExecutionPlan struct {
	Steps    []PlanStep  `json:"steps"`
	Summary  PlanSummary `json:"summary"`
	Warnings []string    `json:"warnings"`
}

// PlanResponse wraps the plan with a flag saying whether the model's
// answer parsed as the requested JSON envelope. When false the plan is a
// single synthetic step and the raw answer lands in the optimization
// suggestions.
type PlanResponse struct {
	Plan       ExecutionPlan `json:"plan"`
	Structured bool          `json:"structured"`
	TokensUsed *int          `json:"tokens_used,omitempty"`
	Remaining  int           `json:"remaining_quota"`
}
