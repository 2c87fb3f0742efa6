package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openDatabase(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.logger.WithField("driver", a.cfg.DatabaseDriver).Info("Database is up to date")
			return a.db.Close()
		},
	}
}
