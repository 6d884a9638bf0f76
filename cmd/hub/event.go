// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package main

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mattermost/integrations-hub/model"
)

func newCmdEvent() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Publish domain events and inspect their deliveries.",
	}

	setEventFlags(cmd)

	cmd.AddCommand(newCmdEventPublish())
	cmd.AddCommand(newCmdEventAttempts())

	return cmd
}

func newCmdEventPublish() *cobra.Command {
	var flags eventPublishFlags

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a domain event to the outbox.",
		RunE: func(command *cobra.Command, args []string) error {
			command.SilenceUsage = true
			client := model.NewClient(flags.serverAddress)

			var payload map[string]interface{}
			err := json.Unmarshal([]byte(flags.payload), &payload)
			if err != nil {
				return errors.Wrap(err, "payload is not a valid JSON object")
			}

			event, err := client.PublishEvent(&model.PublishEventRequest{
				EventType: model.EventType(flags.eventType),
				Payload:   payload,
			})
			if err != nil {
				return errors.Wrap(err, "failed to publish event")
			}

			return printJSON(event)
		},
		PreRun: func(command *cobra.Command, args []string) {
			flags.eventFlags.addFlags(command)
		},
	}

	flags.addFlags(cmd)

	return cmd
}

func newCmdEventAttempts() *cobra.Command {
	var flags eventAttemptsFlags

	cmd := &cobra.Command{
		Use:   "attempts",
		Short: "List the delivery attempts recorded for an event, oldest first.",
		RunE: func(command *cobra.Command, args []string) error {
			command.SilenceUsage = true
			client := model.NewClient(flags.serverAddress)

			attempts, err := client.GetDeliveryAttempts(flags.eventID)
			if err != nil {
				return errors.Wrap(err, "failed to query delivery attempts")
			}

			if flags.outputToTable {
				keys := []string{"ID", "SUBSCRIPTION", "ATTEMPT", "STATUS", "HTTP", "ERROR"}
				vals := make([][]string, 0, len(attempts))
				for _, attempt := range attempts {
					vals = append(vals, []string{
						attempt.ID,
						attempt.SubscriptionID,
						strconv.Itoa(attempt.AttemptNumber),
						string(attempt.Status),
						strconv.Itoa(attempt.HTTPStatusCode),
						attempt.ErrorMessage,
					})
				}
				printTable(keys, vals)
				return nil
			}

			return printJSON(attempts)
		},
		PreRun: func(command *cobra.Command, args []string) {
			flags.eventFlags.addFlags(command)
		},
	}

	flags.addFlags(cmd)

	return cmd
}
