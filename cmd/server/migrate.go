package main

import (
	"github.com/spf13/cobra"

	"github.com/seth-walker/HRIS/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			return database.MigrateDatabase(a.db, a.log)
		},
	}
}
