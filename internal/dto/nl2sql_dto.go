package dto

type NL2SQLRequest struct {
	Question string `json:"question"`
	Schema   string `json:"schema,omitempty"`
	Explain  bool   `json:"explain"`
}

type NL2SQLResponse struct {
	SQL         string `json:"sql"`
	Explanation string `json:"explanation,omitempty"`
	Assumptions string `json:"assumptions,omitempty"`
	TokensUsed  *int   `json:"tokens_used,omitempty"`
	Remaining   int    `json:"remaining_quota"`
}

type SaveSchemaRequest struct {
	Schema string `json:"schema"`
}

type SchemaResponse struct {
	Schema    string `json:"schema"`
	UpdatedAt string `json:"updated_at"`
}

type SampleSchema struct {
	Name   string `json:"name"`
	Schema string `json:"schema"`
}
