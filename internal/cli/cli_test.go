package cli

import (
	"bytes"
	"context"

	"github.com/spf13/cobra"

	"github.com/shardkit/shardkit/internal/config"
	"github.com/shardkit/shardkit/internal/output"
)

// newTestCmdCtx builds a CommandContext around a small RS/SSS shape so
// tests run fast, with output captured in buf instead of going to a
// real terminal.
func newTestCmdCtx(home string, buf *bytes.Buffer, format output.Format) *CommandContext {
	cfg := config.Defaults()
	cfg.Home = home
	cfg.RS.DataShards = 3
	cfg.RS.ParityShards = 2
	cfg.RS.ShardSize = 64
	cfg.SSS.Threshold = 3
	cfg.SSS.TotalShares = 5
	cfg.SSS.SecretMaxSize = 1024

	return NewCommandContext(cfg, config.NullLogger(), output.NewFormatter(format, buf))
}

// attachTestCtx wires a CommandContext onto cmd the same way
// initGlobals does in the real root command, so RunE can be invoked
// directly in tests without going through rootCmd.Execute().
func attachTestCtx(cmd *cobra.Command, ctx *CommandContext) {
	cmd.SetContext(context.Background())
	SetCmdContext(cmd, ctx)
}
