package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/college360hub/hub-booking/internal/config"
	"github.com/college360hub/hub-booking/internal/database"
	"github.com/college360hub/hub-booking/internal/logging"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or revert the database schema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(database.Up), string(database.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := database.Direction(args[0])
			if dir != database.Up && dir != database.Down {
				return fmt.Errorf("unknown direction %q, want up or down", args[0])
			}
			dbCfg, err := config.LoadDB()
			if err != nil {
				return err
			}
			env := os.Getenv("APP_ENV")
			if env == "" {
				env = "dev"
			}
			logger, err := logging.New(env)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return database.Migrate(dbCfg, dir, logger)
		},
	}
}
