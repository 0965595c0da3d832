package summarizer

import (
	"context"
	"errors"
)

var (
	ErrEmptyText             = errors.New("input text is empty")
	ErrProviderNotConfigured = errors.New("provider is not configured")
)

// Input describes the payload for a summary request.
type Input struct {
	// Text contains the transcript to summarise.
	Text string
	// TargetLanguage, when set, asks for the output to be translated.
	TargetLanguage string
	// Tonality is the tone the summary must carry, e.g. "Formal".
	Tonality string
	// Styling selects "bullet points" or paragraph output.
	Styling string
	// Model is the provider selector.
	Model string
}

// Summarizer produces a single summary for a given input text.
type Summarizer interface {
	Summarize(ctx context.Context, input Input) (string, error)
}

// ProviderKind identifies one of the two supported upstream providers.
type ProviderKind int

const (
	ProviderOpenAI ProviderKind = iota
	ProviderGoogle
)

const openAISelector = "openai"

func (k ProviderKind) String() string {
	switch k {
	case ProviderOpenAI:
		return "openai"
	case ProviderGoogle:
		return "google"
	default:
		return "unknown"
	}
}

// SelectProvider maps the request selector onto a provider. An absent
// selector or exactly "openai" routes to the primary provider; any other
// value, including "OpenAI" or " openai ", goes to the secondary one.
func SelectProvider(selector string) ProviderKind {
	if selector == "" || selector == openAISelector {
		return ProviderOpenAI
	}
	return ProviderGoogle
}
