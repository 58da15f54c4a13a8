package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/primitivedb/internal/cli/config"
	"github.com/leapstack-labs/primitivedb/internal/cli/output"
	"github.com/leapstack-labs/primitivedb/internal/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// starterConfig is the document written to primitivedb.yaml.
type starterConfig struct {
	Backend      string `yaml:"backend"`
	MetadataPath string `yaml:"metadata_path,omitempty"`
	DataDir      string `yaml:"data_dir,omitempty"`
	SQLitePath   string `yaml:"sqlite_path,omitempty"`
	PostgresDSN  string `yaml:"postgres_dsn,omitempty"`
	HistoryFile  string `yaml:"history_file"`
	Output       string `yaml:"output"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new primitivedb project",
		Long: `Initialize a new primitivedb project.

This creates:
  - primitivedb.yaml configuration file
  - data/ directory for table files (json backend)`,
		Example: `  # Initialize in current directory
  primitivedb init

  # Initialize a SQLite-backed project in a new directory
  primitivedb init my-db --backend sqlite

  # Force overwrite existing config
  primitivedb init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cc := NewCommandContextWithoutEngine(cmd)
			return runInit(cc.Renderer, dir, cc.Cfg.Backend, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir, backend string, force bool) error {
	doc := starterConfig{
		Backend:     backend,
		HistoryFile: config.DefaultHistoryFile,
		Output:      config.DefaultOutput,
	}
	switch backend {
	case storage.BackendJSON:
		doc.MetadataPath = config.DefaultMetadataPath
		doc.DataDir = config.DefaultDataDir
	case storage.BackendSQLite:
		doc.SQLitePath = config.DefaultSQLitePath
	case storage.BackendPostgres:
		doc.PostgresDSN = config.ExamplePostgresDSN
	default:
		return fmt.Errorf("unknown backend %q", backend)
	}

	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.ConfigFileNames[0])
	}

	body, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(configPath, body, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	r.StatusLine(config.ConfigFileNames[0], "success", "")

	if doc.DataDir != "" {
		if err := os.MkdirAll(filepath.Join(dir, doc.DataDir), 0750); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		r.StatusLine(doc.DataDir+"/", "success", "")
	}

	r.Println("")
	r.Success("primitivedb project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Run 'primitivedb' to open the shell")
	r.Println(`  2. Try 'CREATE TABLE users (name:str, age:int, active:bool)'`)
	return nil
}
