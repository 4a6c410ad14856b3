package main

import (
	"github.com/smarttodo/smarttodo-api/internal/platform/sqlstore"
	"github.com/spf13/cobra"
)

func newMigrateCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Manage the database schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{sqlstore.MigrateUp, sqlstore.MigrateDown, sqlstore.MigrateStatus, sqlstore.MigrateVersion},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			_, log, db, dialect, err := bootstrap(ctx, *configFile)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := db.Close(); cerr != nil {
					log.Error("failed to close database", "error", cerr)
				}
			}()

			return sqlstore.Migrate(ctx, db, dialect, args[0], log)
		},
	}
}
