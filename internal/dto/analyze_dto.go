package dto

import "github.com/google/uuid"

type AnalyzeRequest struct {
	SQL      string `json:"sql"`
	TaskType string `json:"task_type"`
}

type AnalyzeResponse struct {
	TaskType   string     `json:"task_type"`
	Result     string     `json:"result"`
	TokensUsed *int       `json:"tokens_used,omitempty"`
	HistoryID  *uuid.UUID `json:"history_id,omitempty"`
	Remaining  int        `json:"remaining_quota"`
}

type QuotaResponse struct {
	Remaining int    `json:"remaining"`
	Limit     int    `json:"limit"`
	Unlimited bool   `json:"unlimited"`
	ResetsAt  string `json:"resets_at"`
}

type FormatRequest struct {
	SQL string `json:"sql"`
}

type FormatResponse struct {
	SQL string `json:"sql"`
}
