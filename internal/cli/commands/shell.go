package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/leapstack-labs/primitivedb/internal/engine"
	"github.com/leapstack-labs/primitivedb/pkg/parser"
	"github.com/spf13/cobra"
)

const shellPrompt = "primitivedb> "

// NewShellCommand creates the interactive shell command.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Long: `Start an interactive shell with history and tab completion.

Statements are executed one per line. Errors are reported and the shell keeps
running. Type .help for the list of statements and dot-commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd)
		},
	}
}

func runShell(cmd *cobra.Command) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	historyFile := cc.Cfg.HistoryFile
	if historyFile != "" {
		if dir := filepath.Dir(historyFile); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				cc.Logger.Warn("history disabled", "error", err)
				historyFile = ""
			}
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newShellCompleter(cc.Engine),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r := cc.Renderer
	r.Printf("primitivedb shell (backend: %s)\n", cc.Cfg.Backend)
	r.Muted("Type .help for commands, .quit to exit")
	r.Println()

	sh := newShell(cc)
	ctx := commandContext(cmd)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if sh.handle(ctx, line) {
			break
		}
	}
	return nil
}

// shell evaluates input lines against an engine.
type shell struct {
	cc     *CommandContext
	logger *slog.Logger
}

// newShell starts a session; its logs carry a session id so interleaved
// shells writing to one log can be told apart.
func newShell(cc *CommandContext) *shell {
	logger := cc.Logger.With("session", uuid.NewString())
	logger.Debug("shell session started", "backend", cc.Cfg.Backend)
	return &shell{cc: cc, logger: logger}
}

// handle runs one line and reports whether the shell should exit.
func (s *shell) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	switch strings.ToLower(line) {
	case "exit", "quit":
		return true
	case "help":
		s.printHelp()
		return false
	}

	if strings.HasPrefix(line, ".") {
		return s.handleDotCommand(ctx, line)
	}

	res, err := s.cc.Engine.ExecuteString(ctx, line)
	if err != nil {
		s.logger.Debug("statement failed", "error", err, "user_error", engine.IsUserError(err))
		s.cc.Renderer.Error(err)
		return false
	}
	if err := renderResult(s.cc.Renderer, res); err != nil {
		s.cc.Renderer.Error(err)
	}
	return false
}

func (s *shell) handleDotCommand(ctx context.Context, line string) bool {
	r := s.cc.Renderer
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		s.printHelp()

	case ".tables":
		if err := r.RenderTables(s.cc.Engine.ListTables()); err != nil {
			r.Error(err)
		}

	case ".schema":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(r.ErrWriter(), "Usage: .schema <table>")
			return false
		}
		info, err := s.cc.Engine.Info(ctx, parts[1])
		if err != nil {
			r.Error(err)
			return false
		}
		if err := r.RenderTableInfo(info); err != nil {
			r.Error(err)
		}

	case ".clear":
		r.Printf("\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(r.ErrWriter(), "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func (s *shell) printHelp() {
	r := s.cc.Renderer
	r.Println()
	r.Println(r.Styles().Bold.Render("Statements:"))
	for _, usage := range parser.Usages {
		r.Println("  " + usage)
	}
	r.Println()
	r.Println(r.Styles().Bold.Render("Commands:"))
	r.Println(`  .help           Show this help message
  .tables         List all tables
  .schema <name>  Show columns and record count for a table
  .clear          Clear the screen
  .quit / .exit   Exit the shell

Values: 42 and -7 are ints, 3.5 is a float, true/false are bools,
quoted or bare words are strings. Quote a number to keep it a string.`)
	r.Println()
}

// newShellCompleter completes keywords, dot-commands and current table names.
func newShellCompleter(eng *engine.Engine) *readline.PrefixCompleter {
	tables := func() readline.PrefixCompleterInterface {
		return readline.PcItemDynamic(func(string) []string { return eng.ListTables() })
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("CREATE", readline.PcItem("TABLE")),
		readline.PcItem("DROP", readline.PcItem("TABLE", tables())),
		readline.PcItem("LIST", readline.PcItem("TABLES")),
		readline.PcItem("INFO", tables()),
		readline.PcItem("INSERT", readline.PcItem("INTO", tables())),
		readline.PcItem("SELECT", readline.PcItem("FROM", tables())),
		readline.PcItem("UPDATE", tables()),
		readline.PcItem("DELETE", readline.PcItem("FROM", tables())),
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".schema", tables()),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
