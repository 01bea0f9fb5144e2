package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lifeos-sh/lifeos/internal/app/review"
	"github.com/lifeos-sh/lifeos/internal/daemon"
)

func init() {
	reviewCmd.Flags().StringVar(&reviewDate, "date", "", "Logical date to review (YYYY-MM-DD, default today)")
	reviewCmd.Flags().IntVar(&reviewMood, "mood", 0, "Mood score 1-5")
	reviewCmd.Flags().StringVar(&reviewNotes, "notes", "", "Free-form notes for the day")
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(recalcCmd)
}

var (
	reviewDate  string
	reviewMood  int
	reviewNotes string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run the nightly review",
	Long: `Close out a logical day: due habits left untouched are marked missed,
the day's XP and HP damage are computed, and the daily summary is
written. Safe to run again for the same date — a rerun replaces the
previous outcome instead of stacking on top of it.`,
	RunE: runReview,
}

var recalcCmd = &cobra.Command{
	Use:   "recalc",
	Short: "Rebuild level and XP from the summary history",
	RunE:  runRecalc,
}

func runReview(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	res, err := d.Reviews.Run(review.Input{
		Date:      reviewDate,
		MoodScore: reviewMood,
		Notes:     reviewNotes,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Review for %s\n", res.Date)
	fmt.Printf("  XP earned: %d\n", res.XPEarned)
	if res.HPLost > 0 {
		fmt.Printf("  HP lost: %d (%d missed habits, %d incomplete tasks)\n",
			res.HPLost, res.MissedHabits, res.IncompleteTasks)
	} else {
		fmt.Println("  No damage taken. Clean day.")
	}
	fmt.Printf("  Now: level %d, %d/%d HP\n", res.Profile.Level, res.Profile.HP, res.Profile.MaxHP)
	return nil
}

func runRecalc(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	res, err := d.Reviews.Recalculate()
	if err != nil {
		return err
	}
	if !res.Changed {
		fmt.Printf("Profile already consistent: level %d from %d lifetime XP.\n",
			res.Profile.Level, res.TotalXP)
		return nil
	}
	fmt.Printf("Recalculated from %d lifetime XP: level %d with %d XP in level.\n",
		res.TotalXP, res.Profile.Level, res.Profile.XP)
	return nil
}
