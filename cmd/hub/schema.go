// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package main

import (
	"github.com/spf13/cobra"

	"github.com/mattermost/integrations-hub/internal/store"
)

func newCmdSchema() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manipulate the schema used by the hub server.",
	}

	cmd.PersistentFlags().String("database", "sqlite3://hub.db", "The database backing the hub server.")

	cmd.AddCommand(newCmdSchemaMigrate())

	return cmd
}

func newCmdSchemaMigrate() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the schema to the latest supported version.",
		RunE: func(command *cobra.Command, args []string) error {
			command.SilenceUsage = true

			sqlStore, err := sqlStore(command)
			if err != nil {
				return err
			}

			err = sqlStore.Migrate()
			if err != nil {
				return err
			}

			currentVersion, err := sqlStore.GetCurrentVersion()
			if err != nil {
				return err
			}
			logger.WithField("version", currentVersion).Info("Schema migrated")

			return nil
		},
	}
}

func sqlStore(command *cobra.Command) (*store.SQLStore, error) {
	database, _ := command.Flags().GetString("database")
	sqlStore, err := store.New(database, logger)
	if err != nil {
		return nil, err
	}

	return sqlStore, nil
}
