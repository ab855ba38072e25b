// Package providers defines the narrow interface the pipeline uses to talk
// to LLM providers, and a registry for looking them up by name. The core
// never calls a provider directly; the forwarding layer does, and converts
// failures into responses with absent data.
package providers

import (
	"context"
	"time"
)

// Model describes one model behind a provider.
type Model struct {
	// ID is the provider's own identifier, e.g. "openai/gpt-4o".
	ID string
	// Name is the bare model name, Owner the organization behind it, and
	// Host the entity serving it.
	Name  string
	Owner string
	Host  string
}

// ForwardResult is a successful completion for one prompt.
type ForwardResult struct {
	Response    string
	StartedAt   time.Time
	CompletedAt time.Time
}

// Provider forwards assembled prompts to one model host. Forward may fail
// with an error; callers turn that into a failed response rather than
// aborting the batch.
type Provider interface {
	// Name is the registry key, e.g. "openrouter.ai".
	Name() string

	// ParseModelIdentifier resolves a model ID into its descriptive parts.
	ParseModelIdentifier(modelID string) (Model, error)

	// Forward sends the prompt to the model and returns the reply with its
	// timing. Honors ctx cancellation.
	Forward(ctx context.Context, prompt, modelID string) (*ForwardResult, error)
}
