// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

// Package main is the entry point to the integrations hub server and CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mattermost/integrations-hub/model"
)

var instanceID string

func main() {
	instanceID = model.NewID()

	rootCmd := &cobra.Command{
		Use:   "hub",
		Short: "Hub records domain events and dispatches them to webhook subscribers.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		// SilenceErrors allows us to explicitly log the error returned from rootCmd below.
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newCmdServer())
	rootCmd.AddCommand(newCmdSchema())
	rootCmd.AddCommand(newCmdSubscription())
	rootCmd.AddCommand(newCmdEvent())
	rootCmd.AddCommand(newCmdDeadLetter())
	rootCmd.AddCommand(newCmdDashboard())

	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
