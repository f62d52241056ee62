package cli

import (
	"fmt"
	"log/slog"
	"os"

	"wireup/internal/agent"
	"wireup/internal/catalog"
	"wireup/internal/docstore"
	"wireup/internal/openai"
	"wireup/internal/prompt"
)

// Agent kinds selectable via --agent.
var ValidAgents = []string{"mock", "llm"}

// buildAgent constructs the agent named by kind.
//
// The llm agent reads OPENAI_API_KEY from the environment and, when a
// docs database path is given, retrieves API documentation from it
// during invocation. The returned cleanup func releases any resources
// and is non-nil even for the mock agent.
func buildAgent(kind, model, docsDB string, verbose bool) (agent.Agent, func(), error) {
	noop := func() {}

	switch kind {
	case "mock":
		return agent.NewMockAgent(), noop, nil

	case "llm":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, noop, NewExitError(ExitCommandError, "OPENAI_API_KEY is required for the llm agent")
		}
		if model == "" {
			model = os.Getenv("WIREUP_MODEL")
		}
		if model == "" {
			model = openai.DefaultChatModel
		}

		cat, err := catalog.Default()
		if err != nil {
			return nil, noop, WrapExitError(ExitCommandError, "failed to load action catalog", err)
		}
		prompts, err := prompt.Load()
		if err != nil {
			return nil, noop, WrapExitError(ExitCommandError, "failed to load prompt templates", err)
		}

		client := openai.NewClient(apiKey)
		cfg := agent.LLMAgentConfig{
			Chat:    client,
			Prompts: prompts,
			Catalog: cat,
			Model:   model,
		}
		if verbose {
			cfg.Logger = slog.Default()
		}

		cleanup := noop
		if docsDB != "" {
			docs, err := docstore.Open(docsDB)
			if err != nil {
				return nil, noop, WrapExitError(ExitCommandError, "failed to open docs index", err)
			}
			cfg.Docs = docs
			cfg.Embedder = docstore.NewOpenAIEmbedder(client, openai.DefaultEmbeddingModel)
			cleanup = func() {
				if err := docs.Close(); err != nil {
					slog.Error("error closing docs index", "error", err)
				}
			}
		}

		a, err := agent.NewLLMAgent(cfg)
		if err != nil {
			cleanup()
			return nil, noop, WrapExitError(ExitCommandError, "failed to build llm agent", err)
		}
		return a, cleanup, nil

	default:
		return nil, noop, NewExitError(ExitCommandError,
			fmt.Sprintf("invalid agent %q: must be one of %v", kind, ValidAgents))
	}
}

// promptFingerprint identifies the embedded prompt templates, for run
// provenance. Errors collapse to "unknown"; provenance never blocks a run.
func promptFingerprint() string {
	prompts, err := prompt.Load()
	if err != nil {
		return "unknown"
	}
	return prompts.Fingerprint()
}

// configureLogging installs the global text logger, matching the
// verbosity flag.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
