package commands

import (
	"bytes"
	"testing"

	"github.com/leapstack-labs/primitivedb/internal/cli/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// runCommand executes cmd with args and returns stdout.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	out, errOut, err := executeCommand(cmd, args...)
	require.NoError(t, err, "stderr: %s", errOut)
	return out
}

// executeCommand executes cmd with args, capturing stdout and stderr.
func executeCommand(cmd *cobra.Command, args ...string) (string, string, error) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// useDefaultConfig makes commands fall back to default configuration.
func useDefaultConfig(t *testing.T) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
}
