package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ProviderConfig is the credential, endpoint and model triple of a provider.
// An empty BaseURL keeps the SDK default endpoint.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAICompatProvider calls a Chat Completions endpoint. Google models are
// reached through the same request shape pointed at a different base URL.
type OpenAICompatProvider struct {
	kind   ProviderKind
	model  string
	ready  bool
	client openai.Client
}

// NewOpenAICompatProvider builds a provider client. A missing API key is not
// an error here: the provider reports ErrProviderNotConfigured on use so the
// service can still start and serve the other provider.
func NewOpenAICompatProvider(kind ProviderKind, cfg ProviderConfig) (*OpenAICompatProvider, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("model is required for %s provider", kind)
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// One outbound call per request.
		option.WithMaxRetries(0),
	}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAICompatProvider{
		kind:   kind,
		model:  model,
		ready:  apiKey != "",
		client: openai.NewClient(opts...),
	}, nil
}

func (p *OpenAICompatProvider) Model() string {
	return p.model
}

// Configured reports whether the provider has credentials.
func (p *OpenAICompatProvider) Configured() bool {
	return p.ready
}

// Summarize sends the system prompt and the assembled user message and
// returns the first completion choice as is. An empty completion is allowed.
func (p *OpenAICompatProvider) Summarize(
	ctx context.Context,
	input Input,
) (string, error) {
	if !p.ready {
		return "", fmt.Errorf("%s: %w", p.kind, ErrProviderNotConfigured)
	}
	if strings.TrimSpace(input.Text) == "" {
		return "", ErrEmptyText
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(BuildUserMessage(input)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("do %s request: %w", p.kind, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s response has no choices (model = %s)", p.kind, resp.Model)
	}

	return resp.Choices[0].Message.Content, nil
}

// UpstreamStatus extracts the HTTP status code of a failed provider call, or
// 0 when the error did not come from a provider response.
func UpstreamStatus(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
