package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"wireup/internal/agent"
	"wireup/internal/template"
)

// AskOptions holds flags for the ask command.
type AskOptions struct {
	*RootOptions
	Agent       string
	Model       string
	DocsDB      string
	Context     string
	ContextFile string
	Interactive bool
}

// askResult is the JSON payload for a one-shot invocation.
type askResult struct {
	SelectedAction string `json:"selected_action"`
	Reasoning      string `json:"reasoning"`
	ProposedConfig string `json:"proposed_config"`
	Partial        bool   `json:"partial,omitempty"`
	LiquidValid    bool   `json:"liquid_valid"`
	RendersToJSON  bool   `json:"renders_to_json"`
	RenderedConfig string `json:"rendered_config,omitempty"`
}

// NewAskCommand creates the ask command.
func NewAskCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AskOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ask [request]",
		Short: "Invoke the agent with a request",
		Long: `Invoke the agent with a request and optional workflow variables.

Prints the selected action, the agent's reasoning, and the proposed
Liquid config, along with the result of rendering the config against
the provided variables.

Variables can be given inline as a JSON object or loaded from a YAML
or JSON file. With --interactive, requests are read from stdin in a
loop and variables can be edited between requests with the set, vars
and clear commands (type 'help' at the prompt).

Examples:
  wireup ask "Post the summary to Slack" --context '{"summary": "hi", "slack_channel": "#general"}'
  wireup ask "Create a Jira ticket for this bug" --context-file vars.yaml
  wireup ask "Send an SMS alert" --agent llm --model gpt-4o
  wireup ask --interactive`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Interactive {
				return runAskInteractive(opts, cmd)
			}
			if len(args) != 1 {
				return NewExitError(ExitCommandError, "a request argument is required unless --interactive is set")
			}
			return runAsk(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Agent, "agent", "mock", "agent to invoke (mock|llm)")
	cmd.Flags().StringVar(&opts.Model, "model", "", "chat model for the llm agent")
	cmd.Flags().StringVar(&opts.DocsDB, "docs-db", "", "path to the API docs index for retrieval (llm agent)")
	cmd.Flags().StringVar(&opts.Context, "context", "", "workflow variables as a JSON object")
	cmd.Flags().StringVar(&opts.ContextFile, "context-file", "", "path to a YAML or JSON file of workflow variables")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "read requests from stdin in a loop")

	return cmd
}

func runAsk(opts *AskOptions, request string, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	variables, err := parseVariables(opts.Context, opts.ContextFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to parse workflow variables", err)
	}

	askAgent, cleanup, err := buildAgent(opts.Agent, opts.Model, opts.DocsDB, opts.Verbose)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := askAgent.Invoke(cmd.Context(), request, agent.Context{
		UserInput: request,
		Variables: variables,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "agent invocation failed", err)
	}

	validation := template.New().Validate(result.ProposedConfig, variables)

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(askResult{
			SelectedAction: result.SelectedAction,
			Reasoning:      result.Reasoning,
			ProposedConfig: result.ProposedConfig,
			Partial:        result.Partial,
			LiquidValid:    validation.SyntaxValid,
			RendersToJSON:  validation.RendersToJSON,
			RenderedConfig: validation.Rendered,
		})
	}

	printAskResult(cmd.OutOrStdout(), result, validation)
	return nil
}

const interactiveHelp = `Commands:
  set <key> <value>  set a workflow variable (value parsed as JSON when possible)
  vars               show current variables
  clear              clear all variables
  debug              toggle verbose logging
  help               show this help
  quit               exit interactive mode

Anything else is sent to the agent as a request.
`

// runAskInteractive reads requests from stdin until EOF or quit.
// Variables seeded from --context and --context-file can be edited
// between requests.
func runAskInteractive(opts *AskOptions, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	variables, err := parseVariables(opts.Context, opts.ContextFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to parse workflow variables", err)
	}

	askAgent, cleanup, err := buildAgent(opts.Agent, opts.Model, opts.DocsDB, opts.Verbose)
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Interactive mode. Type a request, 'help' for commands, 'quit' to exit.")

	verbose := opts.Verbose
	validator := template.New()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "wireup> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "quit", "exit", "q":
			return nil
		case "help":
			fmt.Fprint(out, interactiveHelp)
			continue
		case "vars":
			data, err := json.MarshalIndent(variables, "", "  ")
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(out, string(data))
			continue
		case "clear":
			variables = make(map[string]any)
			fmt.Fprintln(out, "Cleared all variables")
			continue
		case "debug":
			verbose = !verbose
			configureLogging(verbose)
			if verbose {
				fmt.Fprintln(out, "Verbose logging enabled")
			} else {
				fmt.Fprintln(out, "Verbose logging disabled")
			}
			continue
		}

		if strings.HasPrefix(strings.ToLower(line), "set ") {
			key, value, ok := strings.Cut(strings.TrimSpace(line[4:]), " ")
			if !ok {
				fmt.Fprintln(out, "Usage: set <key> <value>")
				continue
			}
			variables[key] = parseVariableValue(strings.TrimSpace(value))
			fmt.Fprintf(out, "Set %s = %v\n", key, variables[key])
			continue
		}

		result, err := askAgent.Invoke(cmd.Context(), line, agent.Context{
			UserInput: line,
			Variables: variables,
		})
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		printAskResult(out, result, validator.Validate(result.ProposedConfig, variables))
	}
}

func printAskResult(out io.Writer, result *agent.Result, validation template.Validation) {
	fmt.Fprintf(out, "Selected Action: %s\n", result.SelectedAction)
	if result.Partial {
		fmt.Fprintln(out, "Note: response was truncated; fields recovered partially")
	}
	if result.Reasoning != "" {
		fmt.Fprintf(out, "Reasoning:       %s\n", result.Reasoning)
	}
	fmt.Fprintf(out, "Proposed Config: %s\n", result.ProposedConfig)
	switch {
	case !validation.SyntaxValid:
		fmt.Fprintln(out, "Template:        invalid Liquid syntax")
	case !validation.RendersToJSON:
		fmt.Fprintf(out, "Rendered:        %s\n", validation.Rendered)
		fmt.Fprintln(out, "Template:        renders, but not to valid JSON")
	default:
		fmt.Fprintf(out, "Rendered:        %s\n", validation.Rendered)
	}
}

// parseVariableValue decodes a set-command value. JSON literals become
// their decoded forms; anything else stays a string.
func parseVariableValue(raw string) any {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err == nil {
		return value
	}
	return raw
}

// parseVariables merges inline JSON and file-based variables.
// Inline values win on key collision.
func parseVariables(inline, file string) (map[string]any, error) {
	variables := make(map[string]any)

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read context file: %w", err)
		}
		if err := yaml.Unmarshal(data, &variables); err != nil {
			return nil, fmt.Errorf("failed to parse context file: %w", err)
		}
	}

	if inline != "" {
		var inlineVars map[string]any
		if err := json.Unmarshal([]byte(inline), &inlineVars); err != nil {
			return nil, fmt.Errorf("failed to parse context JSON: %w", err)
		}
		for k, v := range inlineVars {
			variables[k] = v
		}
	}

	return variables, nil
}
