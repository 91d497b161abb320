package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"join/internal/repository"
)

var resettable = []string{repository.ContactsPath, repository.TasksPath, repository.UsersPath}

func newResetCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:       "reset <collection>",
		Short:     "Delete a whole collection (contacts|tasks|users)",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: resettable,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !yes {
				return writeErr(cmd, fmt.Errorf("refusing to delete %q without --yes", path))
			}
			raw, closer, err := app.open(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closer.Close()

			if err := raw.Delete(cmd.Context(), path); err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Deleted "+path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")
	return cmd
}
