package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"join/internal/model"
)

func newSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show task counters and the next urgent deadline",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			sum := s.store.Summary(time.Now())
			if app.JSON {
				return writeJSON(cmd, sum)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(sum.Greeting))
			rows := [][]string{
				{model.StatusToDo.Title(), fmt.Sprint(sum.ToDo)},
				{model.StatusInProgress.Title(), fmt.Sprint(sum.InProgress)},
				{model.StatusAwaitingFeedback.Title(), fmt.Sprint(sum.AwaitingFeedback)},
				{model.StatusDone.Title(), fmt.Sprint(sum.Done)},
				{"Tasks in board", fmt.Sprint(sum.Total)},
				{"Urgent", priority(model.PriorityUrgent) + " " + fmt.Sprint(sum.Urgent)},
			}
			fmt.Fprint(out, table([]string{"", "COUNT"}, rows))
			if sum.NextUrgentDue != nil {
				fmt.Fprintf(out, "Upcoming deadline: %s\n", sum.NextUrgentDue.Format("January 2, 2006"))
			} else {
				fmt.Fprintln(out, mutedStyle.Render("No upcoming urgent deadline"))
			}
			return nil
		},
	}
}
