package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lifeos-sh/lifeos/internal/daemon"
	"github.com/lifeos-sh/lifeos/internal/domain"
)

func init() {
	habitAddCmd.Flags().StringVar(&habitDesc, "desc", "", "Habit description")
	habitAddCmd.Flags().StringVar(&habitDays, "days", "daily", `Due weekdays: "daily" or comma-joined indices, Sunday=0 (e.g. "1,3,5")`)
	habitAddCmd.Flags().BoolVar(&habitBad, "bad", false, "Resistance habit (completed by NOT doing it)")
	habitAddCmd.Flags().IntVar(&habitXP, "xp", domain.DefaultXPReward, "XP reward per completion")
	habitListCmd.Flags().BoolVar(&habitAll, "all", false, "Include archived habits")

	habitCmd.AddCommand(habitAddCmd, habitListCmd, habitArchiveCmd)
	rootCmd.AddCommand(habitCmd)
}

var (
	habitDesc string
	habitDays string
	habitBad  bool
	habitXP   int
	habitAll  bool
)

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Manage tracked habits",
}

var habitAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new habit",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitAdd,
}

var habitListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits",
	RunE:    runHabitList,
}

var habitArchiveCmd = &cobra.Command{
	Use:   "archive <title>",
	Short: "Archive a habit, keeping its history",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitArchive,
}

// parseDays turns the --days flag into weekday indices.
func parseDays(s string) ([]int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "daily" || s == "always" || s == "" {
		return []int{0, 1, 2, 3, 4, 5, 6}, nil
	}
	var days []int
	for _, p := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("weekday %q: expected 0-6", p)
		}
		days = append(days, n)
	}
	return days, nil
}

func runHabitAdd(cmd *cobra.Command, args []string) error {
	days, err := parseDays(habitDays)
	if err != nil {
		return err
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	habits, err := d.DB.Habits(true)
	if err != nil {
		return err
	}

	h := domain.Habit{
		ID:            uuid.NewString(),
		Title:         args[0],
		Description:   habitDesc,
		FrequencyDays: days,
		SortOrder:     len(habits),
		IsBadHabit:    habitBad,
		XPReward:      habitXP,
	}
	if err := d.DB.SaveHabit(h); err != nil {
		return err
	}

	fmt.Printf("Added habit %q (+%d XP per completion)\n", h.Title, h.Reward())
	return nil
}

func runHabitList(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	habits, err := d.DB.Habits(habitAll)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits yet. Run 'lifeos habit add <title>' to get started.")
		return nil
	}

	today := d.Clock.Today()
	logs, err := d.DB.LogsForDate(today)
	if err != nil {
		return err
	}
	statusByHabit := make(map[string]domain.Status, len(logs))
	for _, l := range logs {
		statusByHabit[l.HabitID] = l.Status
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tTYPE\tDUE TODAY\tTODAY\tXP")
	for _, h := range habits {
		typ := "normal"
		if h.IsBadHabit {
			typ = "resistance"
		}
		due := ""
		if h.DueOn(today) {
			due = "yes"
		}
		status := string(statusByHabit[h.ID])
		if status == "" {
			status = "-"
		}
		title := h.Title
		if h.Archived {
			title += " (archived)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", title, typ, due, status, h.Reward())
	}
	return w.Flush()
}

func runHabitArchive(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	h, err := d.DB.HabitByTitle(args[0])
	if err != nil {
		return err
	}
	if err := d.DB.ArchiveHabit(h.ID); err != nil {
		return err
	}
	fmt.Printf("Archived %q. History is kept; it no longer counts against you.\n", h.Title)
	return nil
}
