package llm

import "context"

// Provider is a single-shot text-completion capability. It is treated as
// unreliable: callers own a deterministic fallback for every use.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Close() error
}
