package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-doctrans/internal/lang"
)

// Defaults for the OpenAI translation backend.
const (
	// defaultTranslateModel balances quality and cost for per-segment calls.
	defaultTranslateModel = "gpt-4o-mini"

	// defaultInputTokenLimit is the stated per-call input ceiling. Units
	// above it may be silently truncated by the backend, which is what the
	// pipeline's pre-call check detects.
	defaultInputTokenLimit = 4096

	// defaultMaxOutputTokens caps generation per call. A translation cut
	// off at this cap surfaces as Truncated on the result.
	defaultMaxOutputTokens = 2048
)

// Translation is the outcome of one Translation Port call.
type Translation struct {
	// Text is the translated unit.
	Text string

	// Truncated reports that generation stopped before the model's
	// end-of-sequence condition: the output was cut mid-translation.
	Truncated bool
}

// Translator is the translation backend invoked once per segment or block.
type Translator interface {
	// Translate converts one unit of source text between the languages
	// identified by backend tags.
	Translate(ctx context.Context, text, sourceTag, targetTag string) (Translation, error)

	// InputTokenLimit is the maximum number of input tokens one call
	// accepts, or 0 when the backend states no limit.
	InputTokenLimit() int
}

// chatCompleter is the slice of the OpenAI client used here.
// *openai.Client implements it implicitly; tests inject mocks.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAITranslator translates text units through OpenAI's chat completion
// API. It performs no retries: a failing call fails the unit, and recovery
// belongs to a higher-level policy.
type OpenAITranslator struct {
	client          chatCompleter
	languages       *lang.Table
	model           string
	inputLimit      int
	maxOutputTokens int
}

// TranslatorOption configures an OpenAITranslator.
type TranslatorOption func(*OpenAITranslator)

// WithTranslateModel sets the chat model used for translation.
func WithTranslateModel(model string) TranslatorOption {
	return func(t *OpenAITranslator) {
		if model != "" {
			t.model = model
		}
	}
}

// WithInputTokenLimit sets the backend's stated per-call input ceiling.
func WithInputTokenLimit(n int) TranslatorOption {
	return func(t *OpenAITranslator) {
		if n >= 0 {
			t.inputLimit = n
		}
	}
}

// WithMaxOutputTokens caps generation length per call.
func WithMaxOutputTokens(n int) TranslatorOption {
	return func(t *OpenAITranslator) {
		if n > 0 {
			t.maxOutputTokens = n
		}
	}
}

// NewOpenAITranslator creates an OpenAITranslator resolving prompts through
// the given language table. The client is injected to enable testing.
func NewOpenAITranslator(client *openai.Client, table *lang.Table, opts ...TranslatorOption) *OpenAITranslator {
	t := &OpenAITranslator{
		client:          client,
		languages:       table,
		model:           defaultTranslateModel,
		inputLimit:      defaultInputTokenLimit,
		maxOutputTokens: defaultMaxOutputTokens,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// InputTokenLimit returns the backend's stated per-call input ceiling.
func (t *OpenAITranslator) InputTokenLimit() int {
	return t.inputLimit
}

// Translate sends one unit to the chat API. Truncated is set when the
// finish reason is "length", i.e. generation hit the output cap before the
// model produced its end-of-sequence marker.
func (t *OpenAITranslator) Translate(ctx context.Context, text, sourceTag, targetTag string) (Translation, error) {
	system := fmt.Sprintf(
		"You are a professional translator. Translate the user's text from %s to %s. "+
			"Output only the translation, preserving line breaks and list markers.",
		t.languages.DisplayName(sourceTag), t.languages.DisplayName(targetTag))

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     t.model,
		MaxTokens: t.maxOutputTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return Translation{}, classifyAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return Translation{}, fmt.Errorf("translation backend returned no choices")
	}

	choice := resp.Choices[0]
	return Translation{
		Text:      strings.TrimSpace(choice.Message.Content),
		Truncated: choice.FinishReason == openai.FinishReasonLength,
	}, nil
}

// classifyAPIError maps OpenAI API errors to sentinel errors.
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			// Quota exhaustion is a billing issue, not a transient limit.
			if strings.Contains(apiErr.Message, "quota") ||
				strings.Contains(apiErr.Message, "billing") {
				return fmt.Errorf("%s: %w", apiErr.Message, ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, ErrRateLimit)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", apiErr.Message, ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", apiErr.Message, ErrTimeout)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", ErrTimeout)
	}

	return err
}
