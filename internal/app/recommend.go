package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/tweetgenie/internal/output"
	"github.com/blackwell-systems/tweetgenie/internal/suggest"
)

var (
	recommendPriority string
	recommendLimit    int
	recommendNoGoals  bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Generate insights, ranked recommendations and next-period goals",
	Long: `Evaluate the dashboard against the strategy rules and print what to change.
Insights describe what the data shows, recommendations are ranked high to low
priority, and goals set targets for posting cadence, engagement rate and
impressions per post.

Examples:
  tweetgenie recommend
  tweetgenie recommend --priority high
  tweetgenie recommend --limit 3 --no-goals`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().StringVar(&recommendPriority, "priority", "", "Only show recommendations of this priority (high, medium, low)")
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 0, "Maximum number of recommendations to show (0 = all)")
	recommendCmd.Flags().BoolVar(&recommendNoGoals, "no-goals", false, "Omit goal targets")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	priority, ok := suggest.ParsePriority(recommendPriority)
	if !ok {
		return fmt.Errorf("unknown priority %q: want high, medium or low", recommendPriority)
	}

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	_, report, err := e.analyze(cmd.Context())
	if err != nil {
		return err
	}

	recs := suggest.FilterByPriority(report.Recommendations, priority)
	if recommendLimit > 0 && len(recs) > recommendLimit {
		recs = recs[:recommendLimit]
	}
	report.Recommendations = recs
	if recommendNoGoals {
		report.Goals = nil
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(out, map[string]any{
			"insights":        report.Insights,
			"recommendations": report.Recommendations,
			"goals":           report.Goals,
		})
	}

	renderInsights(out, report.Insights)
	renderRecommendations(out, report.Recommendations)
	if !recommendNoGoals {
		renderGoals(out, report.Goals)
	}
	return nil
}

func renderInsights(w io.Writer, insights []suggest.Insight) {
	fmt.Fprintln(w, output.Section("Insights"))
	fmt.Fprintln(w)
	for _, in := range insights {
		fmt.Fprintf(w, " %s %s %s\n", output.InsightMarker(string(in.Type)), output.StyleBold.Render(in.Title),
			output.StyleMuted.Render("("+in.Confidence+" confidence)"))
		fmt.Fprintf(w, "   %s\n", in.Message)
	}
}

func renderRecommendations(w io.Writer, recs []suggest.Recommendation) {
	fmt.Fprintln(w, output.Section("Recommendations"))
	fmt.Fprintln(w)
	if len(recs) == 0 {
		fmt.Fprintln(w, output.StyleMuted.Render(" No recommendations match."))
		return
	}
	for i, r := range recs {
		fmt.Fprintf(w, " %d. [%s] %s\n", i+1, output.Priority(string(r.Priority)), output.StyleBold.Render(r.Title))
		fmt.Fprintf(w, "    %s\n", r.Description)
		if r.Action != "" {
			fmt.Fprintf(w, "    %s %s\n", output.StyleMuted.Render("Action:"), r.Action)
		}
	}
}

func renderGoals(w io.Writer, goals []suggest.GoalTarget) {
	if len(goals) == 0 {
		return
	}
	fmt.Fprintln(w, output.Section("Next-Period Goals"))
	fmt.Fprintln(w)
	tbl := output.NewTable("Goal", "Current", "Target").AlignRight(1, 2)
	for _, g := range goals {
		tbl.AddRow(g.Label, formatGoal(g.Current, g.Unit), formatGoal(g.Target, g.Unit))
	}
	_, _ = tbl.WriteTo(w)
}

func formatGoal(v float64, unit string) string {
	switch unit {
	case "%":
		return fmt.Sprintf("%.2f%%", v)
	case "":
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f %s", v, unit)
}
