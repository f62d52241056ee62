package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wireup/internal/docstore"
	"wireup/internal/openai"
)

// IndexOptions holds flags for the index command.
type IndexOptions struct {
	*RootOptions
	Database string
	Rebuild  bool
}

// NewIndexCommand creates the index command.
func NewIndexCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IndexOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "index <docs-dir>",
		Short: "Build the API documentation index",
		Long: `Chunk and embed API documentation into the retrieval index.

Markdown files in the docs directory are split into overlapping chunks,
embedded via the OpenAI embeddings API, and stored in a SQLite database.
Indexing is skipped when the docs corpus is unchanged since the last
run; use --rebuild to force re-embedding.

Requires OPENAI_API_KEY.

Examples:
  wireup index ./data/api_docs --db wireup.db
  wireup index ./data/api_docs --db wireup.db --rebuild`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the index SQLite database (required)")
	cmd.Flags().BoolVar(&opts.Rebuild, "rebuild", false, "re-embed even if the docs corpus is unchanged")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runIndex(opts *IndexOptions, docsDir string, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	if _, err := os.Stat(docsDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("docs directory not found: %s", docsDir))
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return NewExitError(ExitCommandError, "OPENAI_API_KEY is required to embed documentation")
	}

	store, err := docstore.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open index database", err)
	}
	defer store.Close()

	embedder := docstore.NewOpenAIEmbedder(openai.NewClient(apiKey), openai.DefaultEmbeddingModel)

	report, err := store.Index(cmd.Context(), docsDir, embedder, opts.Rebuild)
	if err != nil {
		return WrapExitError(ExitCommandError, "indexing failed", err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(map[string]any{
			"files":   report.Files,
			"chunks":  report.Chunks,
			"skipped": report.Skipped,
		})
	}

	if report.Skipped {
		fmt.Fprintln(cmd.OutOrStdout(), "Docs corpus unchanged; index is up to date.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d chunk(s) from %d file(s).\n", report.Chunks, report.Files)
	return nil
}
