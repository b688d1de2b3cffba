package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"studyload/importer"
	"studyload/tasks"
)

func importCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "import [file.yaml]",
		Short: "Bulk-add tasks for a user from a YAML file",
		Long: `Read tasks from a YAML file and add them for one user.

File format:
  tasks:
    - title: Essay draft
      deadline: 2026-03-14
      hours: 6
    - title: Slides
      deadline: 2026-03-12
      hours: 3
      group: 4
      status: In Progress`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			ctx := cmd.Context()
			_, b, err := openBackend(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			u, err := b.GetUserByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("find user %s: %w", email, err)
			}

			n, err := importer.Import(ctx, tasks.NewService(b), u.ID, data)
			if err != nil {
				return fmt.Errorf("imported %d tasks before failing: %w", n, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("imported %d tasks for %s", n, u.Email)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "email of the user who owns the tasks")
	cmd.MarkFlagRequired("email")
	return cmd
}
