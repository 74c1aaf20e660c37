package dto

type SaveHistoryRequest struct {
	SQL      string  `json:"sql"`
	TaskType string  `json:"task_type"`
	Result   string  `json:"result"`
	Name     *string `json:"name,omitempty"`
}

type RenameHistoryRequest struct {
	Name string `json:"name"`
}
