package cli

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_LogsCommandStartAndEnd(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	ran := false
	leaf := &cobra.Command{
		Use: "noop-test-leaf",
		RunE: func(cmd *cobra.Command, args []string) error {
			ran = true
			return nil
		},
	}
	AddCommand(leaf)
	defer rootCmd.RemoveCommand(leaf)

	rootCmd.SetArgs([]string{"noop-test-leaf"})
	require.NoError(t, rootCmd.Execute())
	assert.True(t, ran)

	output := buf.String()
	assert.True(t, strings.Contains(output, "command start"))
	assert.True(t, strings.Contains(output, "command end"))
	assert.True(t, strings.Contains(output, "correlation_id"))
}
