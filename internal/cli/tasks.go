package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"join/internal/model"
	"join/internal/service"
	"join/internal/view"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Work with board tasks",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksMoveCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var (
		status string
		query  string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks column by column",
		RunE: func(cmd *cobra.Command, args []string) error {
			var only model.Status
			if status != "" {
				st, err := model.ParseStatus(status)
				if err != nil {
					return writeErr(cmd, err)
				}
				only = st
			}

			s, err := app.session(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			var columns []service.BoardColumn
			for _, col := range s.board.Columns(query) {
				if only == "" || col.Status == only {
					columns = append(columns, col)
				}
			}
			if app.JSON {
				return writeJSON(cmd, columns)
			}

			contacts := s.store.ContactIndex()
			out := cmd.OutOrStdout()
			for _, col := range columns {
				fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks))))
				if col.Empty {
					fmt.Fprintln(out, mutedStyle.Render("  No tasks"))
					continue
				}
				rows := make([][]string, 0, len(col.Tasks))
				for _, t := range col.Tasks {
					card := view.NewTaskCard(t, contacts)
					badges := make([]string, 0, len(card.Badges)+1)
					for _, b := range card.Badges {
						badges = append(badges, badge(b))
					}
					if card.Overflow > 0 {
						badges = append(badges, mutedStyle.Render(fmt.Sprintf("+%d", card.Overflow)))
					}
					subtasks := ""
					if len(t.SubTasks) > 0 {
						subtasks = fmt.Sprintf("%d/%d", t.CompletedSubtasks(), len(t.SubTasks))
					}
					rows = append(rows, []string{
						strconv.FormatInt(t.ID, 10),
						t.Title,
						priority(t.Priority),
						t.DueDate,
						subtasks,
						strings.Join(badges, " "),
					})
				}
				fmt.Fprint(out, indent(table([]string{"ID", "TITLE", "PRIORITY", "DUE", "SUBTASKS", "ASSIGNED"}, rows)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Only this column (toDo|inProgress|awaitingFeedback|done)")
	cmd.Flags().StringVar(&query, "query", "", "Only tasks whose title or description contains this text")
	return cmd
}

func newTasksMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> <status>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid task id %q", args[0]))
			}
			status, err := model.ParseStatus(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}

			s, err := app.session(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			t, err := s.board.Move(cmd.Context(), id, status)
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.JSON {
				return writeJSON(cmd, t)
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("Moved %q to %s", t.Title, t.Status.Title())))
			return nil
		},
	}
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := range lines {
		lines[i] = "  " + lines[i]
	}
	return strings.Join(lines, "\n") + "\n"
}
