package app

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/tweetgenie/internal/analyzer"
	"github.com/blackwell-systems/tweetgenie/internal/output"
)

// Dashboard sections selectable with --section.
const (
	sectionOverview = "overview"
	sectionContent  = "content"
	sectionTiming   = "timing"
	sectionAudience = "audience"
	sectionAll      = "all"
)

var analyzeSections = []string{sectionOverview, sectionContent, sectionTiming, sectionAudience}

var analyzeSection string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Show the full analytics dashboard",
	Long: `Build the dashboard for the reporting window: overview totals with growth
against the previous period, content format, hashtag and length signals,
hourly and weekday performance with ranked posting slots, and audience KPIs.

Examples:
  tweetgenie analyze
  tweetgenie analyze --section timing
  tweetgenie analyze --source export.json --json`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSection, "section", sectionAll,
		"Dashboard section to show: "+strings.Join(append(analyzeSections, sectionAll), ", "))
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if !validSection(analyzeSection) {
		return fmt.Errorf("unknown section %q: want one of %s", analyzeSection, strings.Join(append(analyzeSections, sectionAll), ", "))
	}

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	_, report, err := e.analyze(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	d := report.Dashboard
	if flagJSON {
		return writeJSON(out, dashboardSection(d, analyzeSection))
	}

	show := func(s string) bool { return analyzeSection == sectionAll || analyzeSection == s }
	if show(sectionOverview) {
		renderOverview(out, d)
	}
	if show(sectionContent) {
		renderContent(out, d.Content)
	}
	if show(sectionTiming) {
		renderTiming(out, d)
	}
	if show(sectionAudience) {
		renderAudience(out, d.Audience)
	}
	return nil
}

func validSection(s string) bool {
	if s == sectionAll {
		return true
	}
	for _, known := range analyzeSections {
		if s == known {
			return true
		}
	}
	return false
}

// dashboardSection returns the part of d selected by section, for JSON
// output.
func dashboardSection(d analyzer.Dashboard, section string) any {
	switch section {
	case sectionOverview:
		return map[string]any{
			"timeframe_days": d.TimeframeDays,
			"tweets_per_day": d.TweetsPerDay,
			"overview":       d.Overview,
			"growth":         d.Growth,
		}
	case sectionContent:
		return d.Content
	case sectionTiming:
		return map[string]any{
			"hourly": d.Hourly,
			"days":   d.Days,
			"slots":  d.Slots,
		}
	case sectionAudience:
		return d.Audience
	}
	return d
}

func renderOverview(w io.Writer, d analyzer.Dashboard) {
	o := d.Overview
	fmt.Fprintln(w, output.Section(fmt.Sprintf("Overview: last %.0f days", d.TimeframeDays)))
	fmt.Fprintln(w)

	tbl := output.NewTable("Metric", "Value", "vs previous").AlignRight(1)
	tbl.AddRow("Tweets", fmt.Sprintf("%.0f", o.TotalTweets.Float()), output.TrendArrowPercent(d.Growth.Tweets, true))
	tbl.AddRow("Impressions", fmt.Sprintf("%.0f", o.TotalImpressions.Float()), output.TrendArrowPercent(d.Growth.Impressions, true))
	tbl.AddRow("Likes", fmt.Sprintf("%.0f", o.TotalLikes.Float()), output.TrendArrowPercent(d.Growth.Likes, true))
	tbl.AddRow("Engagement", fmt.Sprintf("%.0f", o.Engagement()), output.TrendArrowPercent(d.Growth.Engagement, true))
	tbl.AddRow("Engagement rate", fmt.Sprintf("%.2f%%", analyzer.EngagementRate(o)), "")
	tbl.AddRow("Tweets per day", fmt.Sprintf("%.2f", d.TweetsPerDay), "")
	_, _ = tbl.WriteTo(w)
}

func renderContent(w io.Writer, c analyzer.ContentSignals) {
	fmt.Fprintln(w, output.Section("Content Signals"))
	fmt.Fprintln(w)

	dims := []struct {
		title string
		aggs  []analyzer.CategoryAggregate
	}{
		{"Format", c.ContentTypes},
		{"Hashtags", c.HashtagUsage},
		{"Length", c.ContentLength},
	}
	for _, dim := range dims {
		if len(dim.aggs) == 0 {
			continue
		}
		tbl := output.NewTable(dim.title, "Avg engagement", "Tweets", "Rows").AlignRight(1, 2, 3)
		for _, a := range dim.aggs {
			tbl.AddRow(a.Key, fmt.Sprintf("%.1f", a.AvgMetric), fmt.Sprintf("%.0f", a.Tweets), fmt.Sprintf("%d", a.Entries))
		}
		_, _ = tbl.WriteTo(w)
		fmt.Fprintln(w)
	}

	th := c.Threads
	switch {
	case th.ThreadScore == 0 && th.SingleScore == 0:
		fmt.Fprintln(w, output.StyleMuted.Render(" No thread or single-post data."))
	case th.ThreadsWin && th.SingleScore > 0:
		fmt.Fprintf(w, " Threads outperform single posts by %.0f%% (%.1f vs %.1f)\n", th.LiftPercent, th.ThreadScore, th.SingleScore)
	case th.ThreadsWin:
		fmt.Fprintf(w, " Threads average %.1f engagement; no single posts to compare\n", th.ThreadScore)
	default:
		fmt.Fprintf(w, " Single posts hold up against threads (%.1f vs %.1f)\n", th.SingleScore, th.ThreadScore)
	}
}

func renderTiming(w io.Writer, d analyzer.Dashboard) {
	fmt.Fprintln(w, output.Section("Weekday Performance"))
	fmt.Fprintln(w)
	for _, day := range d.Days {
		fmt.Fprintf(w, " %-4s %s %5.1f avg  %3.0f tweets\n", day.Label, output.ScoreBar(day.Score, 0), day.AvgEngagement, day.TweetsCount)
	}

	fmt.Fprintln(w, output.Section("Hourly Engagement"))
	fmt.Fprintln(w)
	peak := 0.0
	for _, h := range d.Hourly {
		if h.AvgEngagement > peak {
			peak = h.AvgEngagement
		}
	}
	for _, h := range d.Hourly {
		if h.TweetsCount == 0 {
			continue
		}
		fmt.Fprintf(w, " %-6s %s %5.1f avg  %3.0f tweets\n", h.Label, output.Bar(h.AvgEngagement, peak, 0), h.AvgEngagement, h.TweetsCount)
	}

	renderSlots(w, d.Slots)
}

func renderSlots(w io.Writer, slots []analyzer.RankedSlot) {
	fmt.Fprintln(w, output.Section("Recommended Posting Slots"))
	fmt.Fprintln(w)
	if len(slots) == 0 {
		fmt.Fprintln(w, output.StyleMuted.Render(" Not enough timing data to rank slots."))
		return
	}
	tbl := output.NewTable("#", "Slot", "Score", "Avg engagement", "Rate", "Tweets").AlignRight(0, 2, 3, 4, 5)
	for i, s := range slots {
		tbl.AddRow(
			fmt.Sprintf("%d", i+1),
			s.String(),
			fmt.Sprintf("%.1f", s.Score),
			fmt.Sprintf("%.1f", s.AvgEngagement),
			fmt.Sprintf("%.2f%%", s.AvgEngagementRate),
			fmt.Sprintf("%.0f", s.TweetsCount),
		)
	}
	_, _ = tbl.WriteTo(w)
}

func renderAudience(w io.Writer, a analyzer.AudienceSummary) {
	fmt.Fprintln(w, output.Section("Audience"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, output.KeyValue("Total reach", fmt.Sprintf("%.0f", a.TotalReach)))
	fmt.Fprintln(w, output.KeyValue("Avg daily reach", fmt.Sprintf("%.0f", a.AvgDailyReach)))
	if a.PeakReachDay != "" {
		fmt.Fprintln(w, output.KeyValue("Peak reach day", a.PeakReachDay))
	}
	fmt.Fprintln(w, output.KeyValue("Engagement rate", fmt.Sprintf("%.2f%%", a.EngagementRate)))
	fmt.Fprintln(w, output.KeyValue("Discussion rate", fmt.Sprintf("%.2f%%", a.DiscussionRate)))
	fmt.Fprintln(w, output.KeyValue("Share rate", fmt.Sprintf("%.2f%%", a.ShareRate)))
	fmt.Fprintln(w, output.KeyValue("Like rate", fmt.Sprintf("%.2f%%", a.LikeRate)))
	fmt.Fprintln(w, output.KeyValue("Save rate", fmt.Sprintf("%.2f%%", a.SaveRate)))
	if a.FavoriteFormat != "" {
		fmt.Fprintln(w, output.KeyValue("Favorite format", a.FavoriteFormat))
	}
	if a.TopSlot != nil {
		fmt.Fprintln(w, output.KeyValue("Top slot", a.TopSlot.String()))
	}

	if len(a.BucketShares) == 0 {
		return
	}
	fmt.Fprintln(w)
	tbl := output.NewTable("Reach", "Share").AlignRight(1)
	for _, key := range bucketOrder(a.BucketShares) {
		tbl.AddRow(string(key), fmt.Sprintf("%.1f%%", a.BucketShares[key]))
	}
	_, _ = tbl.WriteTo(w)
}

// bucketOrder lists known reach categories widest first, then any others
// alphabetically.
func bucketOrder(shares map[analyzer.ReachCategory]float64) []analyzer.ReachCategory {
	var keys []analyzer.ReachCategory
	known := make(map[analyzer.ReachCategory]bool)
	for _, k := range analyzer.ReachCategories {
		known[k] = true
		if _, ok := shares[k]; ok {
			keys = append(keys, k)
		}
	}
	var extra []analyzer.ReachCategory
	for k := range shares {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(keys, extra...)
}
