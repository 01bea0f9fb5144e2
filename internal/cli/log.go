package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lifeos-sh/lifeos/internal/daemon"
	"github.com/lifeos-sh/lifeos/internal/domain"
	"github.com/lifeos-sh/lifeos/internal/infra/metrics"
)

func init() {
	logCmd.Flags().StringVar(&logDate, "date", "", "Logical date (YYYY-MM-DD, default today)")
	logCmd.Flags().StringVar(&logStatus, "status", "", "Explicit status (completed|partial|skipped); default advances the cycle")
	rootCmd.AddCommand(logCmd)
}

var (
	logDate   string
	logStatus string
)

var logCmd = &cobra.Command{
	Use:   "log <habit title>",
	Short: "Log a habit for today",
	Long: `Record a habit status. Without --status the entry advances one step
through the tap cycle: unset -> completed -> partial -> skipped -> unset.
Resistance habits simply toggle between resisted and unset.`,
	Args: cobra.ExactArgs(1),
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	h, err := d.DB.HabitByTitle(args[0])
	if err != nil {
		return err
	}

	date := logDate
	if date == "" {
		date = d.Clock.Today()
	}
	if _, err := domain.ParseDate(date); err != nil {
		return err
	}

	status := domain.Status(logStatus)
	if status == domain.StatusNone {
		current := domain.StatusNone
		logs, err := d.DB.LogsForDate(date)
		if err != nil {
			return err
		}
		for _, l := range logs {
			if l.HabitID == h.ID {
				current = l.Status
				break
			}
		}
		status = domain.NextStatus(current, h.IsBadHabit)
	} else if status == domain.StatusMissed {
		return fmt.Errorf("status %q is assigned by the nightly review, not by hand: %w",
			status, domain.ErrInvalidStatus)
	}

	if err := d.DB.SetLogStatus(h.ID, date, status); err != nil {
		return err
	}
	metrics.LogsRecorded.WithLabelValues(string(status)).Inc()

	if status == domain.StatusNone {
		fmt.Printf("%s on %s: cleared\n", h.Title, date)
	} else {
		fmt.Printf("%s on %s: %s (+%d XP)\n", h.Title, date, status, h.XPForStatus(status))
	}
	return nil
}
