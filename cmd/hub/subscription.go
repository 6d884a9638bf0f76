// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mattermost/integrations-hub/model"
)

func newCmdSubscription() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscription",
		Short: "Manipulate webhook subscriptions managed by the hub server.",
	}

	setSubscriptionFlags(cmd)

	cmd.AddCommand(newCmdSubscriptionCreate())
	cmd.AddCommand(newCmdSubscriptionList())
	cmd.AddCommand(newCmdSubscriptionGet())
	cmd.AddCommand(newCmdSubscriptionUpdate())
	cmd.AddCommand(newCmdSubscriptionDelete())

	return cmd
}

func eventTypesFromStrings(events []string) model.EventTypes {
	eventTypes := make(model.EventTypes, 0, len(events))
	for _, event := range events {
		eventTypes = append(eventTypes, model.EventType(event))
	}
	return eventTypes
}

func newCmdSubscriptionCreate() *cobra.Command {
	var flags subscriptionCreateFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a webhook subscription.",
		RunE: func(command *cobra.Command, args []string) error {
			command.SilenceUsage = true
			client := model.NewClient(flags.serverAddress)

			enabled := !flags.disabled
			subscription, err := client.CreateSubscription(&model.CreateSubscriptionRequest{
				Name:    flags.name,
				URL:     flags.url,
				Secret:  flags.secret,
				Events:  eventTypesFromStrings(flags.events),
				Enabled: &enabled,
			})
			if err != nil {
				return errors.Wrap(err, "failed to create subscription")
			}

			return printJSON(subscription)
		},
		PreRun: func(command *cobra.Command, args []string) {
			flags.subscriptionFlags.addFlags(command)
		},
	}

	flags.addFlags(cmd)

	return cmd
}

func newCmdSubscriptionList() *cobra.Command {
	var flags subscriptionListFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the webhook subscriptions.",
		RunE: func(command *cobra.Command, args []string) error {
			command.SilenceUsage = true
			client := model.NewClient(flags.serverAddress)

			subscriptions, err := client.GetSubscriptions()
			if err != nil {
				return errors.Wrap(err, "failed to query subscriptions")
			}

			if flags.outputToTable {
				keys := []string{"ID", "NAME", "URL", "EVENTS", "ENABLED"}
				vals := make([][]string, 0, len(subscriptions))
				for _, subscription := range subscriptions {
					events := make([]string, 0, len(subscription.Events))
					for _, event := range subscription.Events {
						events = append(events, string(event))
					}
					vals = append(vals, []string{
						subscription.ID,
						subscription.Name,
						subscription.URL,
						strings.Join(events, ","),
						strconv.FormatBool(subscription.Enabled),
					})
				}
				printTable(keys, vals)
				return nil
			}

			return printJSON(subscriptions)
		},
		PreRun: func(command *cobra.Command, args []string) {
			flags.subscriptionFlags.addFlags(command)
		},
	}

	flags.addFlags(cmd)

	return cmd
}

func newCmdSubscriptionGet() *cobra.Command {
	var flags subscriptionGetFlags

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get a particular webhook subscription.",
		RunE: func(command *cobra.Command, args []string) error {
			command.SilenceUsage = true
			client := model.NewClient(flags.serverAddress)

			subscription, err := client.GetSubscription(flags.subscriptionID)
			if err != nil {
				return errors.Wrap(err, "failed to query subscription")
			}
			if subscription == nil {
				return nil
			}

			return printJSON(subscription)
		},
		PreRun: func(command *cobra.Command, args []string) {
			flags.subscriptionFlags.addFlags(command)
		},
	}

	flags.addFlags(cmd)

	return cmd
}

func newCmdSubscriptionUpdate() *cobra.Command {
	var flags subscriptionUpdateFlags

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a webhook subscription. Unset flags keep their current values.",
		RunE: func(command *cobra.Command, args []string) error {
			command.SilenceUsage = true
			client := model.NewClient(flags.serverAddress)

			request := &model.PatchSubscriptionRequest{
				Name:    getStringFlagPointer(command, "name"),
				URL:     getStringFlagPointer(command, "url"),
				Secret:  getStringFlagPointer(command, "secret"),
				Enabled: getBoolFlagPointer(command, "enabled"),
			}
			if command.Flags().Changed("event") {
				eventTypes := eventTypesFromStrings(flags.events)
				request.Events = &eventTypes
			}

			subscription, err := client.UpdateSubscription(flags.subscriptionID, request)
			if err != nil {
				return errors.Wrap(err, "failed to update subscription")
			}

			return printJSON(subscription)
		},
		PreRun: func(command *cobra.Command, args []string) {
			flags.subscriptionFlags.addFlags(command)
		},
	}

	flags.addFlags(cmd)

	return cmd
}

func newCmdSubscriptionDelete() *cobra.Command {
	var flags subscriptionDeleteFlags

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a webhook subscription.",
		RunE: func(command *cobra.Command, args []string) error {
			command.SilenceUsage = true
			client := model.NewClient(flags.serverAddress)

			err := client.DeleteSubscription(flags.subscriptionID)
			if err != nil {
				return errors.Wrap(err, "failed to delete subscription")
			}

			return nil
		},
		PreRun: func(command *cobra.Command, args []string) {
			flags.subscriptionFlags.addFlags(command)
		},
	}

	flags.addFlags(cmd)

	return cmd
}
