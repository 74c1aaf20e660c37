package dto

// AnalyticsSummary is a point-in-time aggregate over query_logs; nothing
// here is continuously maintained.
type AnalyticsSummary struct {
	TotalQueries   int64            `json:"total_queries"`
	SuccessRate    float64          `json:"success_rate"`
	PerTaskType    map[string]int64 `json:"per_task_type"`
	PerUser        map[string]int64 `json:"per_user"`
	TotalTokens    int64            `json:"total_tokens"`
	TotalUsers     int64            `json:"total_users"`
	ActiveUsers7d  int64            `json:"active_users_7d"`
	AvgQueryLength float64          `json:"avg_query_length"`
}

type TrendPoint struct {
	Date    string `json:"date"`
	Queries int64  `json:"queries"`
}
