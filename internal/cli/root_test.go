package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/primitivedb/internal/cli/config"
	"github.com/leapstack-labs/primitivedb/internal/cli/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	cfgFile = ""

	root := NewRootCmd()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRoot_ExecWithJSONBackend(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, _, err := executeRoot(t, "", "exec", "CREATE TABLE users (name:str)")
	require.NoError(t, err)
	assert.Equal(t, "Table \"users\" created with columns: ID:int, name:str.\n", out)

	meta, err := os.ReadFile(filepath.Join(dir, "db_meta.json"))
	require.NoError(t, err)
	assert.Contains(t, string(meta), `"name:str"`)
}

func TestRoot_FlagsSelectBackend(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dbPath := filepath.Join(dir, "store", "db.sqlite")

	_, _, err := executeRoot(t, "", "--backend", "sqlite", "--sqlite", dbPath, "exec", "CREATE TABLE t (flag:bool)")
	require.NoError(t, err)

	out, _, err := executeRoot(t, "", "--backend", "sqlite", "--sqlite", dbPath, "-o", "csv", "exec", "INFO t")
	require.NoError(t, err)
	assert.Contains(t, out, "flag,bool")

	_, err = os.Stat(filepath.Join(dir, "db_meta.json"))
	assert.True(t, os.IsNotExist(err), "sqlite backend must not write the json catalog")
}

func TestRoot_NoArgsReadsPipedStdin(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := executeRoot(t, "CREATE TABLE t (n:int)\nINSERT INTO t VALUES (7)\nSELECT FROM t\n", "-o", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Record with ID=1 inserted into \"t\".")
	assert.Contains(t, out, "ID,n\n1,7")
}

func TestRoot_ConfigFileFlag(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(t.TempDir())
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("data_dir: tables\nmetadata_path: catalog.json\n"), 0600))

	_, _, err := executeRoot(t, "", "--config", cfgPath, "exec", "CREATE TABLE t (n:int)")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "catalog.json"))
	assert.NoError(t, err, "relative paths resolve against the config file directory")
}

func TestRoot_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := executeRoot(t, "", "--backend", "mysql", "tables")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown backend "mysql"`)

	_, _, err = executeRoot(t, "", "-o", "xml", "tables")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}

func TestRoot_VerboseLogsToStderr(t *testing.T) {
	t.Chdir(t.TempDir())

	_, errOut, err := executeRoot(t, "", "-v", "exec", "LIST TABLES")
	require.NoError(t, err)
	assert.Contains(t, errOut, "storage configured")
	assert.Contains(t, errOut, "backend=json")
}

func TestRoot_Subcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"version", "shell", "exec", "tables", "schema", "init", "completion"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	for _, flag := range []string{"config", "backend", "metadata", "data-dir", "sqlite", "postgres-dsn", "history", "verbose", "output"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := executeRoot(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "primitivedb")
}

func TestContextFallbacks(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, config.DefaultBackend, GetConfig(ctx).Backend)
	assert.Equal(t, output.ModeAuto, GetRenderer(ctx).Mode())

	want := config.Default()
	want.Backend = "sqlite"
	ctx = context.WithValue(ctx, configKey{}, want)
	assert.Same(t, want, GetConfig(ctx))
}
