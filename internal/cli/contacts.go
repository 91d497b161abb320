package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"join/internal/model"
	"join/internal/view"
)

func newContactsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Work with contacts",
	}
	cmd.AddCommand(newContactsListCmd(app))
	return cmd
}

func newContactsListCmd(app *App) *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts grouped by initial",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			if prefix != "" {
				return printContacts(cmd, app, s.contacts.Search(prefix))
			}
			if app.JSON {
				return writeJSON(cmd, s.contacts.Groups())
			}
			out := cmd.OutOrStdout()
			for _, g := range s.contacts.Groups() {
				fmt.Fprintln(out, headerStyle.Render(g.Letter))
				for _, c := range g.Contacts {
					fmt.Fprintf(out, "  %s %s %s\n", badge(view.BadgeFor(c)), c.Name, mutedStyle.Render(c.Email))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "search", "", "Only contacts whose name starts with this text")
	return cmd
}

func printContacts(cmd *cobra.Command, app *App, contacts []model.Contact) error {
	if app.JSON {
		return writeJSON(cmd, contacts)
	}
	rows := make([][]string, 0, len(contacts))
	for _, c := range contacts {
		rows = append(rows, []string{strconv.Itoa(c.ID), c.Name, c.Email, c.Phone})
	}
	fmt.Fprint(cmd.OutOrStdout(), table([]string{"ID", "NAME", "EMAIL", "PHONE"}, rows))
	return nil
}
