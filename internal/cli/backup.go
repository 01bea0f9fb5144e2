package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lifeos-sh/lifeos/internal/daemon"
	"github.com/lifeos-sh/lifeos/internal/domain"
	"github.com/lifeos-sh/lifeos/internal/transfer"
)

func init() {
	exportCmd.Flags().StringVar(&backupFormat, "format", "json", "Backup format: json or csv")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "Only include history from this date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "Only include history up to this date (YYYY-MM-DD)")
	importCmd.Flags().StringVar(&backupFormat, "format", "json", "Backup format: json or csv")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

var (
	backupFormat string
	exportFrom   string
	exportTo     string
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export a full backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore from a backup",
	Long: `Apply a backup to the current database. Records with matching keys
are overwritten; malformed rows are skipped and reported as warnings.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runExport(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	archive, err := transfer.Export(d.DB, transfer.ExportOptions{From: exportFrom, To: exportTo})
	if err != nil {
		return err
	}

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	switch backupFormat {
	case "json":
		err = transfer.WriteJSON(f, archive)
	case "csv":
		err = transfer.WriteCSV(f, archive)
	default:
		return fmt.Errorf("format %q: %w", backupFormat, domain.ErrUnsupportedFormat)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d habits, %d logs, %d tasks, %d summaries to %s\n",
		len(archive.Habits), len(archive.HabitLogs), len(archive.Tasks),
		len(archive.Summaries), args[0])
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var (
		archive  transfer.Archive
		warnings []string
	)
	switch backupFormat {
	case "json":
		archive, err = transfer.ReadJSON(f)
	case "csv":
		archive, warnings, err = transfer.ReadCSV(f)
	default:
		return fmt.Errorf("format %q: %w", backupFormat, domain.ErrUnsupportedFormat)
	}
	if err != nil {
		return err
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	rep, err := transfer.Import(d.DB, archive)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d habits, %d logs, %d tasks, %d summaries, %d metrics.\n",
		rep.Habits, rep.HabitLogs, rep.Tasks, rep.Summaries, rep.Metrics)
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	for _, w := range rep.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	return nil
}
