package app

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/tweetgenie/internal/analyzer"
	"github.com/blackwell-systems/tweetgenie/internal/output"
	"github.com/blackwell-systems/tweetgenie/internal/store"
	"github.com/blackwell-systems/tweetgenie/internal/suggest"
)

var (
	trackCompare int
	trackHistory int
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Snapshot and compare metrics over time",
	Long: `Run the analysis, store a new snapshot, and compare its headline metrics
against an earlier snapshot with trend arrows. Recommendations that no longer
fire are resolved automatically.

When the dataset carries no previous-period totals, the overview stored with
the most recent snapshot is used as the comparison baseline for growth.`,
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().IntVar(&trackCompare, "compare", 1, "Compare against Nth previous snapshot (1 = most recent)")
	trackCmd.Flags().IntVar(&trackHistory, "history", 0, "Show metric trends across N most recent snapshots")
	rootCmd.AddCommand(trackCmd)
}

// trackResult is the JSON shape of a track run.
type trackResult struct {
	Snapshot *store.Snapshot     `json:"snapshot"`
	Diff     *store.SnapshotDiff `json:"diff,omitempty"`
	Opened   int                 `json:"opened"`
	Resolved int                 `json:"resolved"`
}

func runTrack(cmd *cobra.Command, args []string) error {
	if trackCompare < 1 {
		return fmt.Errorf("--compare must be at least 1, got %d", trackCompare)
	}

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	db, err := store.Open(e.cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	ds, err := e.dataset(cmd.Context())
	if err != nil {
		return err
	}
	res, err := recordSnapshot(db, ds, e.cfg.Policy, trackCompare)
	if err != nil {
		return err
	}
	e.log.WithField("snapshot", res.Snapshot.ID).Debug("snapshot recorded")

	out := cmd.OutOrStdout()
	if trackHistory > 0 {
		if flagJSON {
			return outputHistoryJSON(out, db, trackHistory)
		}
		return renderHistory(out, db, trackHistory)
	}

	if flagJSON {
		return writeJSON(out, res)
	}
	renderTrackOutput(out, res)
	return nil
}

// recordSnapshot analyses ds, stores the run and diffs it against the
// compare-th previous snapshot.
func recordSnapshot(db *store.DB, ds *analyzer.Dataset, p analyzer.Policy, compare int) (*trackResult, error) {
	if ds.Previous == (analyzer.Overview{}) {
		prev, err := db.LatestOverview()
		if err != nil {
			return nil, fmt.Errorf("loading previous overview: %w", err)
		}
		if prev != nil {
			ds.Previous = *prev
		}
	}

	report := suggest.Analyze(*ds, p)
	d := report.Dashboard

	snapshotID, err := db.CreateSnapshot("track", appVersion, d.TimeframeDays)
	if err != nil {
		return nil, fmt.Errorf("creating snapshot: %w", err)
	}
	if err := db.InsertOverview(snapshotID, d.Overview); err != nil {
		return nil, fmt.Errorf("inserting overview: %w", err)
	}
	if err := db.SaveMetrics(snapshotID, store.DashboardMetrics(d)); err != nil {
		return nil, fmt.Errorf("inserting metrics: %w", err)
	}

	opened, resolved, err := syncRecommendations(db, snapshotID, report.Recommendations)
	if err != nil {
		return nil, err
	}

	current, err := db.GetSnapshot(snapshotID)
	if err != nil {
		return nil, fmt.Errorf("loading current snapshot: %w", err)
	}
	res := &trackResult{Snapshot: current, Opened: opened, Resolved: resolved}

	// compare=1 means the immediate predecessor, offset 2 from newest.
	prevSnapshot, err := db.GetSnapshotN(compare + 1)
	if err != nil {
		return nil, fmt.Errorf("loading previous snapshot: %w", err)
	}
	if prevSnapshot == nil {
		return res, nil
	}

	prevMetrics, err := db.GetAggregateMetrics(prevSnapshot.ID)
	if err != nil {
		return nil, fmt.Errorf("loading previous metrics: %w", err)
	}
	currMetrics, err := db.GetAggregateMetrics(snapshotID)
	if err != nil {
		return nil, fmt.Errorf("loading current metrics: %w", err)
	}
	deltas := store.ComputeDeltas(prevMetrics, currMetrics)
	sortDeltas(deltas)
	res.Diff = &store.SnapshotDiff{Previous: prevSnapshot, Current: current, Deltas: deltas}
	return res, nil
}

// syncRecommendations resolves open recommendations that no longer fire
// and opens the ones that are new.
func syncRecommendations(db *store.DB, snapshotID int64, recs []suggest.Recommendation) (opened, resolved int, err error) {
	titles := make([]string, len(recs))
	for i, r := range recs {
		titles[i] = r.Title
	}
	resolved, err = db.ResolveMissing(titles)
	if err != nil {
		return 0, resolved, fmt.Errorf("resolving recommendations: %w", err)
	}

	open, err := db.GetOpenRecommendations()
	if err != nil {
		return 0, resolved, fmt.Errorf("loading open recommendations: %w", err)
	}
	isOpen := make(map[string]bool, len(open))
	for _, r := range open {
		isOpen[r.Title] = true
	}
	for _, r := range recs {
		if isOpen[r.Title] {
			continue
		}
		row := &store.Recommendation{
			SnapshotID:  snapshotID,
			Category:    r.Category,
			Priority:    string(r.Priority),
			Title:       r.Title,
			Description: r.Description,
		}
		if err := db.InsertRecommendation(row); err != nil {
			return opened, resolved, fmt.Errorf("inserting recommendation: %w", err)
		}
		isOpen[r.Title] = true
		opened++
	}
	return opened, resolved, nil
}

// metricDisplayOrder defines the order metrics appear in track output.
var metricDisplayOrder = []string{
	store.MetricTweets,
	store.MetricTweetsPerDay,
	store.MetricImpressions,
	store.MetricEngagement,
	store.MetricEngagementRate,
	store.MetricAvgDailyReach,
	store.MetricHighReachShare,
	store.MetricNoReachShare,
	store.MetricTopSlotScore,
}

// metricShortName returns a compact label for display.
func metricShortName(name string) string {
	short := map[string]string{
		store.MetricTweets:         "Tweets",
		store.MetricTweetsPerDay:   "Tweets/day",
		store.MetricImpressions:    "Impressions",
		store.MetricEngagement:     "Engagement",
		store.MetricEngagementRate: "Engagement rate %",
		store.MetricAvgDailyReach:  "Avg daily reach",
		store.MetricHighReachShare: "High reach %",
		store.MetricNoReachShare:   "No reach %",
		store.MetricTopSlotScore:   "Top slot score",
	}
	if s, ok := short[name]; ok {
		return s
	}
	return name
}

func displayRank(name string) int {
	for i, n := range metricDisplayOrder {
		if n == name {
			return i
		}
	}
	return len(metricDisplayOrder)
}

func sortDeltas(deltas []store.MetricDelta) {
	sort.SliceStable(deltas, func(i, j int) bool {
		ri, rj := displayRank(deltas[i].Name), displayRank(deltas[j].Name)
		if ri != rj {
			return ri < rj
		}
		return deltas[i].Name < deltas[j].Name
	})
}

func renderTrackOutput(w io.Writer, res *trackResult) {
	current := res.Snapshot
	fmt.Fprintln(w, output.Section("Track: Snapshot Comparison"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " Snapshot #%d taken at %s\n", current.ID, current.TakenAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, " Recommendations: %d opened, %d resolved\n\n", res.Opened, res.Resolved)

	diff := res.Diff
	if diff == nil {
		fmt.Fprintln(w, " First snapshot recorded. Run 'tweetgenie track' again later to see trends.")
		return
	}

	fmt.Fprintf(w, " Comparing against snapshot #%d (%s)\n\n",
		diff.Previous.ID, diff.Previous.TakenAt.Format("2006-01-02 15:04:05"))

	tbl := output.NewTable("Metric", "Previous", "Current", "Delta", "Trend").AlignRight(1, 2, 3)
	for _, d := range diff.Deltas {
		tbl.AddRow(
			metricShortName(d.Name),
			fmt.Sprintf("%.2f", d.Previous),
			fmt.Sprintf("%.2f", d.Current),
			fmt.Sprintf("%+.2f", d.Delta),
			output.TrendArrow(d.Delta, store.HigherIsBetter(d.Name)),
		)
	}
	_, _ = tbl.WriteTo(w)
}

type snapshotMetrics struct {
	Snapshot store.Snapshot          `json:"snapshot"`
	Metrics  []store.AggregateMetric `json:"metrics"`
}

// loadHistory returns up to n snapshots with their metrics, oldest first.
func loadHistory(db *store.DB, n int) ([]snapshotMetrics, error) {
	snapshots, err := db.ListSnapshots(n)
	if err != nil {
		return nil, fmt.Errorf("loading snapshots: %w", err)
	}

	timeline := make([]snapshotMetrics, 0, len(snapshots))
	for i := len(snapshots) - 1; i >= 0; i-- {
		s := snapshots[i]
		metrics, err := db.GetAggregateMetrics(s.ID)
		if err != nil {
			return nil, fmt.Errorf("loading metrics for snapshot #%d: %w", s.ID, err)
		}
		timeline = append(timeline, snapshotMetrics{Snapshot: s, Metrics: metrics})
	}
	return timeline, nil
}

// renderHistory shows a multi-snapshot timeline table.
func renderHistory(w io.Writer, db *store.DB, n int) error {
	timeline, err := loadHistory(db, n)
	if err != nil {
		return err
	}
	if len(timeline) == 0 {
		fmt.Fprintln(w, " No snapshots found. Run 'tweetgenie track' to create one.")
		return nil
	}

	fmt.Fprintln(w, output.Section("Track: Metric History"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " Showing %d most recent snapshots\n\n", len(timeline))

	headers := []string{"Metric"}
	values := make([]map[string]float64, len(timeline))
	for i, sm := range timeline {
		headers = append(headers, fmt.Sprintf("#%d %s", sm.Snapshot.ID, sm.Snapshot.TakenAt.Format("Jan 02")))
		values[i] = make(map[string]float64, len(sm.Metrics))
		for _, m := range sm.Metrics {
			values[i][m.MetricName] = m.MetricValue
		}
	}
	headers = append(headers, "Trend")
	tbl := output.NewTable(headers...)

	for _, name := range metricDisplayOrder {
		row := []string{metricShortName(name)}
		for _, v := range values {
			row = append(row, fmt.Sprintf("%.2f", v[name]))
		}
		trend := ""
		if len(values) >= 2 {
			delta := values[len(values)-1][name] - values[0][name]
			trend = output.TrendArrow(delta, store.HigherIsBetter(name))
		}
		tbl.AddRow(append(row, trend)...)
	}

	_, _ = tbl.WriteTo(w)
	return nil
}

// outputHistoryJSON writes the history data as JSON.
func outputHistoryJSON(w io.Writer, db *store.DB, n int) error {
	timeline, err := loadHistory(db, n)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{"history": timeline})
}
