package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lifeos-sh/lifeos/internal/app/gamification"
	"github.com/lifeos-sh/lifeos/internal/daemon"
	"github.com/lifeos-sh/lifeos/internal/domain"
)

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(ranksCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats [habit title]",
	Short: "Show the character sheet, or one habit's statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStats,
}

var ranksCmd = &cobra.Command{
	Use:   "ranks",
	Short: "Show the rank ladder",
	RunE:  runRanks,
}

func runStats(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	if len(args) == 1 {
		return habitStats(d, args[0])
	}

	habits, err := d.DB.Habits(true)
	if err != nil {
		return err
	}
	logs, err := d.DB.AllLogs()
	if err != nil {
		return err
	}
	profile, err := d.DB.Profile()
	if err != nil {
		return err
	}

	snap := gamification.BuildSnapshot(habits, logs, d.Clock.Today())
	rank := gamification.RankForLevel(profile.Level)

	fmt.Printf("Level %d  %s %s  (HP %d/%d)\n", profile.Level, rank.Badge, rank.Name, profile.HP, profile.MaxHP)
	fmt.Printf("XP: %d/%d toward next level (lifetime %d)\n",
		snap.XPInLevel, gamification.LevelThreshold(snap.Level), snap.TotalXP)
	fmt.Printf("Streak: %d days  |  Completions: %d all time, %d today\n",
		snap.CurrentStreak, snap.TotalCompletions, snap.TodayCompletions)

	if len(snap.Unlocked) > 0 {
		fmt.Println("\nAchievements:")
		for _, a := range snap.Unlocked {
			fmt.Printf("  %s %s — %s\n", a.Icon, a.Title, a.Description)
		}
	}
	return nil
}

func habitStats(d *daemon.Daemon, title string) error {
	h, err := d.DB.HabitByTitle(title)
	if err != nil {
		return err
	}
	logs, err := d.DB.LogsForHabit(h.ID)
	if err != nil {
		return err
	}

	today := d.Clock.Today()
	earliest := today
	completions, partials := 0, 0
	for _, l := range logs {
		if l.Date < earliest {
			earliest = l.Date
		}
		switch l.Status {
		case domain.StatusCompleted:
			completions++
		case domain.StatusPartial:
			partials++
		}
	}
	var dates []string
	for day := earliest; day != "" && day <= today; day = domain.AddDays(day, 1) {
		dates = append(dates, day)
	}

	stats := gamification.StatsForHabit(h, logs, dates)
	mastery := gamification.Mastery(completions, partials, len(h.FrequencyDays))

	fmt.Printf("%s\n", h.Title)
	fmt.Printf("  Completions: %d of %d attempts (%.0f%%)\n",
		stats.TotalCompletions, stats.TotalAttempts, stats.CompletionRate)
	fmt.Printf("  Streak: %d current, %d longest\n", stats.Streak.Current, stats.Streak.Longest)
	fmt.Printf("  Last 7 days: %.0f%%  |  Last 30 days: %.0f%%\n", stats.Last7DayRate, stats.Last30DayRate)
	if stats.BestDay != "" {
		fmt.Printf("  Best day: %s  |  Worst day: %s\n", stats.BestDay, stats.WorstDay)
	}
	fmt.Printf("  Mastery: level %d (%d/%d XP)\n", mastery.Level, mastery.CurrentXP, mastery.MaxXP)
	return nil
}

func runRanks(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	profile, err := d.DB.Profile()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tLEVELS\tSTATUS")
	for _, r := range gamification.RanksWithStatus(profile.Level) {
		status := "locked"
		switch {
		case r.IsCurrentRank:
			status = fmt.Sprintf("current (%d%%)", r.Progress)
		case r.IsUnlocked:
			status = "unlocked"
		}
		fmt.Fprintf(w, "%s %s\t%d-%d\t%s\n", r.Badge, r.Name, r.MinLevel, r.MaxLevel, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if next, ok := gamification.NextRank(profile.Level); ok {
		fmt.Printf("\n%d levels to %s.\n", gamification.LevelsToNextRank(profile.Level), next.Name)
	}
	return nil
}
