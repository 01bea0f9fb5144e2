package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lifeos-sh/lifeos/internal/daemon"
	"github.com/lifeos-sh/lifeos/internal/domain"
)

func init() {
	taskAddCmd.Flags().StringVar(&taskPriority, "priority", "medium", "Priority: high, medium, or low")
	taskAddCmd.Flags().BoolVar(&taskToday, "today", false, "Commit to finishing it today (incomplete costs HP at review)")
	taskAddCmd.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD)")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskDoneCmd)
	rootCmd.AddCommand(taskCmd)
}

var (
	taskPriority string
	taskToday    bool
	taskDue      string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage one-off tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List open tasks",
	RunE:    runTaskList,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <title>",
	Short: "Toggle a task's completion",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDone,
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	if taskDue != "" {
		if _, err := domain.ParseDate(taskDue); err != nil {
			return err
		}
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	t := domain.Task{
		ID:         uuid.NewString(),
		Title:      args[0],
		Priority:   domain.TaskPriority(taskPriority),
		IsForToday: taskToday,
		DueDate:    taskDue,
	}
	if err := d.DB.SaveTask(t); err != nil {
		return err
	}

	if t.IsForToday {
		fmt.Printf("Added %q for today. Leaving it unfinished costs %d HP at review.\n",
			t.Title, domain.HPPerIncompleteTask)
	} else {
		fmt.Printf("Added %q.\n", t.Title)
	}
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	tasks, err := d.DB.Tasks()
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No open tasks.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tPRIORITY\tTODAY\tDUE\tDONE")
	for _, t := range tasks {
		today, due, done := "", "-", ""
		if t.IsForToday {
			today = "yes"
		}
		if t.DueDate != "" {
			due = t.DueDate
		}
		if t.Completed {
			done = "✓"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.Title, t.Priority, today, due, done)
	}
	return w.Flush()
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	tasks, err := d.DB.Tasks()
	if err != nil {
		return err
	}
	for _, t := range tasks {
		if t.Title != args[0] {
			continue
		}
		t.Completed = !t.Completed
		if t.Completed {
			t.CompletedAt = d.Clock.Today()
		} else {
			t.CompletedAt = ""
		}
		if err := d.DB.SaveTask(t); err != nil {
			return err
		}
		if t.Completed {
			fmt.Printf("Done: %s\n", t.Title)
		} else {
			fmt.Printf("Reopened: %s\n", t.Title)
		}
		return nil
	}
	return fmt.Errorf("task %q: %w", args[0], domain.ErrTaskNotFound)
}
