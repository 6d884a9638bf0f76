// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package main

import "github.com/spf13/cobra"

type serverFlags struct {
	database    string
	listen      string
	logLevel    string
	debug       bool
	machineLogs bool
}

func (flags *serverFlags) registerFlags(cmd *cobra.Command) {
	cmd.Flags().String("database", "sqlite3://hub.db", "The database backing the hub server.")
	cmd.Flags().String("listen", ":8065", "The interface and port on which to listen.")
	cmd.Flags().String("log-level", "info", "The minimum level to log at.")
	cmd.Flags().Bool("debug", false, "Whether to output debug logs.")
	cmd.Flags().Bool("machine-readable-logs", false, "Output the logs in machine readable format.")
}

func (flags *serverFlags) addFlags(cmd *cobra.Command) {
	flags.database, _ = cmd.Flags().GetString("database")
	flags.listen, _ = cmd.Flags().GetString("listen")
	flags.logLevel, _ = cmd.Flags().GetString("log-level")
	flags.debug, _ = cmd.Flags().GetBool("debug")
	flags.machineLogs, _ = cmd.Flags().GetBool("machine-readable-logs")
}
