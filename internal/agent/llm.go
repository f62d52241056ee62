package agent

import (
	"context"
	"fmt"
	"log/slog"

	"wireup/internal/catalog"
	"wireup/internal/docstore"
	"wireup/internal/openai"
	"wireup/internal/prompt"
)

// ChatProvider is the slice of the OpenAI client the adapter needs.
type ChatProvider interface {
	ChatCompletion(ctx context.Context, model string, messages []openai.Message, temperature *float64) (string, error)
}

// LLMAgent adapts an external chat model to the Agent interface.
//
// Per request it optionally retrieves API documentation for candidate
// actions from the docstore, renders the system and user prompts, calls
// the chat model once and decodes the reply. Truncated model output is
// recovered as a Partial result by the decoder.
type LLMAgent struct {
	chat        ChatProvider
	prompts     *prompt.Library
	catalog     *catalog.Catalog
	docs        *docstore.Store
	embedder    docstore.Embedder
	model       string
	temperature float64
	logger      *slog.Logger
}

// LLMAgentConfig configures the adapter. Docs and Embedder are
// optional; without them the agent relies on the model's own knowledge
// of the APIs.
type LLMAgentConfig struct {
	Chat        ChatProvider
	Prompts     *prompt.Library
	Catalog     *catalog.Catalog
	Docs        *docstore.Store
	Embedder    docstore.Embedder
	Model       string
	Temperature float64
	Logger      *slog.Logger
}

// NewLLMAgent constructs the adapter.
func NewLLMAgent(cfg LLMAgentConfig) (*LLMAgent, error) {
	if cfg.Chat == nil {
		return nil, fmt.Errorf("chat provider is required")
	}
	if cfg.Prompts == nil {
		return nil, fmt.Errorf("prompt library is required")
	}
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("action catalog is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMAgent{
		chat:        cfg.Chat,
		prompts:     cfg.Prompts,
		catalog:     cfg.Catalog,
		docs:        cfg.Docs,
		embedder:    cfg.Embedder,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

// Invoke implements Agent.
func (a *LLMAgent) Invoke(ctx context.Context, request string, wc Context) (*Result, error) {
	documentation := a.retrieveDocumentation(ctx, request)

	systemPrompt, err := a.prompts.SystemPrompt(a.catalog.PromptListing(), wc.Variables, documentation)
	if err != nil {
		return nil, fmt.Errorf("failed to build system prompt: %w", err)
	}
	userPrompt, err := a.prompts.UserRequest(request, wc.Variables)
	if err != nil {
		return nil, fmt.Errorf("failed to build user prompt: %w", err)
	}

	temperature := a.temperature
	output, err := a.chat.ChatCompletion(ctx, a.model, []openai.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, &temperature)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	result, err := decodeOutput(output)
	if err != nil {
		return nil, err
	}
	if result.Partial {
		a.logger.Warn("recovered partial result from truncated model output",
			"action", result.SelectedAction)
	}
	if !a.catalog.IsValid(result.SelectedAction) {
		a.logger.Warn("model selected an unknown action", "action", result.SelectedAction)
	}
	return result, nil
}

// retrieveDocumentation searches the docstore for documentation
// relevant to the request. Retrieval failures degrade to an empty
// documentation block; they do not fail the invocation.
func (a *LLMAgent) retrieveDocumentation(ctx context.Context, request string) string {
	if a.docs == nil || a.embedder == nil {
		return ""
	}

	// Narrow to one integration when the request clearly names it.
	integration := a.catalog.MatchIntegration(request)

	doc, err := a.docs.Documentation(ctx, a.embedder, request+" payload structure", 4, integration)
	if err != nil {
		a.logger.Warn("documentation retrieval failed", "error", err)
		return ""
	}
	return doc
}
