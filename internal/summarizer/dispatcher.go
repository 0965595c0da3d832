package summarizer

import (
	"context"
	"fmt"
)

// Dispatcher routes a request to the primary or secondary provider based on
// the input's Model selector. It never falls back to the other provider.
type Dispatcher struct {
	primary   Summarizer
	secondary Summarizer
}

func NewDispatcher(primary, secondary Summarizer) *Dispatcher {
	return &Dispatcher{
		primary:   primary,
		secondary: secondary,
	}
}

// Provider returns the summarizer bound to kind, or nil.
func (d *Dispatcher) Provider(kind ProviderKind) Summarizer {
	switch kind {
	case ProviderOpenAI:
		return d.primary
	case ProviderGoogle:
		return d.secondary
	default:
		return nil
	}
}

func (d *Dispatcher) Summarize(ctx context.Context, input Input) (string, error) {
	kind := SelectProvider(input.Model)

	s := d.Provider(kind)
	if s == nil {
		return "", fmt.Errorf("%s: %w", kind, ErrProviderNotConfigured)
	}

	return s.Summarize(ctx, input)
}
