package llm

import "context"

// Result is the outcome of a single text-generation call. TokensUsed is
// nil when the provider did not report usage.
type Result struct {
	Text       string
	TokensUsed *int
}

// Generator is the capability boundary to the external text-generation
// service. Implementations must honor ctx cancellation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Result, error)
}
