package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// ExecOptions holds options for the exec command.
type ExecOptions struct {
	File string
}

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	opts := &ExecOptions{}

	cmd := &cobra.Command{
		Use:   "exec [statement]",
		Short: "Execute statements non-interactively",
		Long: `Execute a statement given as arguments, or one statement per line
from --file or standard input.

Blank lines and lines starting with "--" are skipped. Execution stops at the
first failing statement.`,
		Example: `  # Single statement
  primitivedb exec "CREATE TABLE users (name:str, age:int)"

  # Statements from a file
  primitivedb exec --file seed.pdb

  # Piped input as JSON
  echo "SELECT FROM users" | primitivedb exec -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Read statements from file")

	return cmd
}

func runExec(cmd *cobra.Command, args []string, opts *ExecOptions) error {
	if len(args) > 0 && opts.File != "" {
		return fmt.Errorf("use either a statement argument or --file, not both")
	}

	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := commandContext(cmd)

	if len(args) > 0 {
		return execStatement(ctx, cc, strings.Join(args, " "))
	}

	var in io.Reader = cmd.InOrStdin()
	if opts.File != "" {
		f, err := os.Open(opts.File)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", opts.File, err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}
	return execScript(ctx, cc, in)
}

// execScript runs one statement per line and stops at the first error.
func execScript(ctx context.Context, cc *CommandContext, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		if err := execStatement(ctx, cc, line); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read statements: %w", err)
	}
	return nil
}

func execStatement(ctx context.Context, cc *CommandContext, stmt string) error {
	res, err := cc.Engine.ExecuteString(ctx, stmt)
	if err != nil {
		return err
	}
	return renderResult(cc.Renderer, res)
}
