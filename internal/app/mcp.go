package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/tweetgenie/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP stdio server exposing the analysis as tools",
	Long: `Start a Model Context Protocol stdio server that an assistant can query.
The server exposes these tools:

  get_dashboard          Growth, content, timing and audience view-models
  get_recommended_slots  Ranked posting slots (limit)
  get_recommendations    Prioritized recommendations (priority, limit)
  get_goal_targets       Next-period goals with a confidence label
  get_insights           Observations about the reporting window

Example client configuration:
  {"mcpServers":{"tweetgenie":{"command":"tweetgenie","args":["mcp"]}}}`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol; logs go to stderr.
	e, err := loadEnvWith(cmd, os.Stderr, nil)
	if err != nil {
		return err
	}
	srv := mcp.NewServer(e.provider, e.cfg.Policy, appVersion, e.log)
	return srv.Run(contextOf(cmd))
}
