package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/tweetgenie/internal/analyzer"
)

var slotsLimit int

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Rank the best weekday and hour slots to post",
	Long: `Rank (weekday, hour) posting slots by a composite of average engagement
and engagement rate, weighted by how many tweets back each slot. Slots with
too few tweets are only used when no slot has enough.`,
	RunE: runSlots,
}

func init() {
	slotsCmd.Flags().IntVar(&slotsLimit, "limit", 0, "Maximum number of slots to show (default from policy, 6)")
	rootCmd.AddCommand(slotsCmd)
}

func runSlots(cmd *cobra.Command, args []string) error {
	if slotsLimit < 0 {
		return fmt.Errorf("--limit must not be negative, got %d", slotsLimit)
	}
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	ds, err := e.dataset(cmd.Context())
	if err != nil {
		return err
	}

	slots := analyzer.BuildRecommendedSlots(ds.OptimalTimes, slotsLimit, e.cfg.Policy)
	out := cmd.OutOrStdout()
	if flagJSON {
		if slots == nil {
			slots = []analyzer.RankedSlot{}
		}
		return writeJSON(out, map[string]any{"slots": slots})
	}
	renderSlots(out, slots)
	return nil
}
