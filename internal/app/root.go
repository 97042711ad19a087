// Package app contains the Cobra command tree for tweetgenie.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/tweetgenie/internal/analyzer"
	"github.com/blackwell-systems/tweetgenie/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
	flagSource  string
	flagAPIURL  string
	flagDays    int
)

var rootCmd = &cobra.Command{
	Use:   "tweetgenie",
	Short: "Posting analytics and strategy recommendations for X accounts",
	Long: `tweetgenie reads an account's post metrics, from a JSON export or the
analytics API, and turns them into a dashboard: growth against the previous
period, content format and hashtag signals, hourly and weekday performance,
ranked posting slots and audience KPIs. On top of the dashboard it produces
insights, prioritized recommendations and next-period goals.

Run 'tweetgenie' with no arguments to see a quick summary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSummary,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/tweetgenie/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "Read metrics from this JSON dataset instead of the API")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Analytics API base URL")
	rootCmd.PersistentFlags().IntVar(&flagDays, "days", 0, "Reporting window in days (default from config, 30)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}

func runSummary(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	_, report, err := e.analyze(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(out, report)
	}

	d := report.Dashboard
	fmt.Fprintln(out, output.Section(fmt.Sprintf("tweetgenie %s: last %.0f days", appVersion, d.TimeframeDays)))
	fmt.Fprintln(out)
	fmt.Fprintln(out, output.KeyValue("Tweets", fmt.Sprintf("%.0f (%.2f/day)", d.Overview.TotalTweets.Float(), d.TweetsPerDay)))
	fmt.Fprintln(out, output.KeyValue("Impressions", fmt.Sprintf("%.0f  %s", d.Overview.TotalImpressions.Float(), output.TrendArrowPercent(d.Growth.Impressions, true))))
	fmt.Fprintln(out, output.KeyValue("Engagement rate", fmt.Sprintf("%.2f%%", analyzer.EngagementRate(d.Overview))))
	if d.Audience.TopSlot != nil {
		fmt.Fprintln(out, output.KeyValue("Best slot", d.Audience.TopSlot.String()))
	}
	if len(report.Recommendations) > 0 {
		top := report.Recommendations[0]
		fmt.Fprintln(out, output.KeyValue("Top recommendation", top.Title))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, output.StyleMuted.Render(" Subcommands: analyze, slots, recommend, track, watch, mcp"))
	return nil
}
