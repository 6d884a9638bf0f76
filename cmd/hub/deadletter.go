// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package main

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mattermost/integrations-hub/model"
)

func newCmdDeadLetter() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deadletter",
		Short: "Inspect and replay quarantined webhook deliveries.",
	}

	setDeadLetterFlags(cmd)

	cmd.AddCommand(newCmdDeadLetterList())
	cmd.AddCommand(newCmdDeadLetterReplay())

	return cmd
}

func newCmdDeadLetterList() *cobra.Command {
	var flags deadLetterListFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the dead letters, newest first.",
		RunE: func(command *cobra.Command, args []string) error {
			command.SilenceUsage = true
			client := model.NewClient(flags.serverAddress)

			deadLetters, err := client.GetDeadLetters()
			if err != nil {
				return errors.Wrap(err, "failed to query dead letters")
			}

			if flags.outputToTable {
				keys := []string{"ID", "EVENT", "SUBSCRIPTION", "ATTEMPTS", "LAST ERROR"}
				vals := make([][]string, 0, len(deadLetters))
				for _, deadLetter := range deadLetters {
					vals = append(vals, []string{
						deadLetter.ID,
						deadLetter.EventID,
						deadLetter.SubscriptionID,
						strconv.Itoa(deadLetter.TotalAttempts),
						deadLetter.LastError,
					})
				}
				printTable(keys, vals)
				return nil
			}

			return printJSON(deadLetters)
		},
		PreRun: func(command *cobra.Command, args []string) {
			flags.deadLetterFlags.addFlags(command)
		},
	}

	flags.addFlags(cmd)

	return cmd
}

func newCmdDeadLetterReplay() *cobra.Command {
	var flags deadLetterReplayFlags

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Release a dead letter and make a fresh delivery attempt.",
		RunE: func(command *cobra.Command, args []string) error {
			command.SilenceUsage = true
			client := model.NewClient(flags.serverAddress)

			response, err := client.ReplayDeadLetter(flags.deadLetterID)
			if err != nil {
				return errors.Wrap(err, "failed to replay dead letter")
			}

			return printJSON(response)
		},
		PreRun: func(command *cobra.Command, args []string) {
			flags.deadLetterFlags.addFlags(command)
		},
	}

	flags.addFlags(cmd)

	return cmd
}
