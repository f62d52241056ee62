package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"wireup/internal/harness"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Agent     string
	Scenarios string
	Output    string
	Parallel  int
	Model     string
	DocsDB    string
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Run the evaluation harness",
		Long: `Run evaluation scenarios against an integration agent and report metrics.

Each scenario sends a natural-language request plus workflow variables to
the agent, then scores the response: did it select the expected action,
is the proposed config valid Liquid, and does it render to valid JSON.

Scoring failures are data, not errors: the command exits 0 even when
every scenario scores false. Only harness-level faults (unreadable
scenario file, unwritable output, missing API key) exit non-zero.

Exit codes:
  0 - Evaluation completed (regardless of scores)
  2 - Command error (bad paths, missing API key, etc.)

Examples:
  wireup eval
  wireup eval --agent llm --output results/eval_v2.json
  wireup eval --scenarios custom.yaml --parallel 4 --verbose
  wireup eval --agent llm --docs-db wireup.db --model gpt-4o`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Agent, "agent", "mock", "agent to evaluate (mock|llm)")
	cmd.Flags().StringVar(&opts.Scenarios, "scenarios", "", "path to scenario YAML file (default: built-in scenarios)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "path to save the run snapshot (write-once)")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 1, "number of scenarios to run concurrently")
	cmd.Flags().StringVar(&opts.Model, "model", "", "chat model for the llm agent (default: WIREUP_MODEL or gpt-4o)")
	cmd.Flags().StringVar(&opts.DocsDB, "docs-db", "", "path to the API docs index for retrieval (llm agent)")

	return cmd
}

func runEval(opts *EvalOptions, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	scenarios := harness.DefaultScenarios()
	if opts.Scenarios != "" {
		loaded, err := harness.LoadScenarios(opts.Scenarios)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load scenarios", err)
		}
		scenarios = loaded
	}

	evalAgent, cleanup, err := buildAgent(opts.Agent, opts.Model, opts.DocsDB, opts.Verbose)
	if err != nil {
		return err
	}
	defer cleanup()

	runnerCfg := harness.RunnerConfig{
		Agent:             evalAgent,
		Scenarios:         scenarios,
		CodeRevision:      harness.DetectCodeRevision(),
		PromptFingerprint: promptFingerprint(),
		Parallel:          opts.Parallel,
	}
	if opts.Verbose {
		runnerCfg.Logger = slog.Default()
	}

	runner, err := harness.NewRunner(runnerCfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to configure runner", err)
	}

	slog.Info("starting evaluation", "agent", opts.Agent, "scenarios", len(scenarios))
	run, err := runner.Run(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "evaluation failed", err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		if err := formatter.Success(run); err != nil {
			return err
		}
	} else {
		printRunReport(cmd.OutOrStdout(), run)
	}

	if opts.Output != "" {
		if err := harness.SaveSnapshot(run, opts.Output); err != nil {
			return WrapExitError(ExitCommandError, "failed to save snapshot", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nResults saved to: %s\n", opts.Output)
	}

	return nil
}
