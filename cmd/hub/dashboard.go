// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gosuri/uilive"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mattermost/integrations-hub/model"
)

func newCmdDashboard() *cobra.Command {
	var flags dashboardFlags

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "View an auto-refreshing dashboard of subscriptions and delivery health.",
		RunE: func(command *cobra.Command, args []string) error {
			command.SilenceUsage = true
			return executeDashboardCmd(flags)
		},
	}

	flags.addFlags(cmd)

	return cmd
}

func executeDashboardCmd(flags dashboardFlags) error {
	client := model.NewClient(flags.serverAddress)
	if flags.refreshSeconds < 1 {
		return errors.Errorf("refresh seconds (%d) must be set to 1 or higher", flags.refreshSeconds)
	}

	writer := uilive.New()
	writer.Start()
	defer writer.Stop()

	for {
		tableString := &strings.Builder{}
		table := tablewriter.NewWriter(tableString)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetHeader([]string{"TYPE", "TOTAL", "NOTES"})

		start := time.Now()
		subscriptions, err := client.GetSubscriptions()
		if err != nil {
			return errors.Wrap(err, "failed to query subscriptions")
		}
		subscriptionQueryTime := time.Since(start)

		var enabledCount int
		for _, subscription := range subscriptions {
			if subscription.Enabled {
				enabledCount++
			}
		}

		table.Append([]string{
			"Subscription",
			toStr(len(subscriptions)),
			fmt.Sprintf("%d enabled", enabledCount),
		})

		start = time.Now()
		deadLetters, err := client.GetDeadLetters()
		if err != nil {
			return errors.Wrap(err, "failed to query dead letters")
		}
		deadLetterQueryTime := time.Since(start)

		table.Append([]string{
			"Dead Letter",
			toStr(len(deadLetters)),
			"replay with: hub deadletter replay",
		})

		table.Render()

		var quarantineList []string
		for _, deadLetter := range deadLetters {
			quarantineList = append(quarantineList, fmt.Sprintf(
				"Dead Letter: %s | event %s -> subscription %s after %d attempts (%s)",
				deadLetter.ID, deadLetter.EventID, deadLetter.SubscriptionID,
				deadLetter.TotalAttempts, deadLetter.LastError,
			))
		}

		renderedDashboard := "\n### INTEGRATIONS HUB DASHBOARD\n"
		renderedDashboard += fmt.Sprintf("[ Query Time Stats: SUBS=%s, DEAD=%s ]\n\n",
			subscriptionQueryTime.Round(time.Millisecond).String(),
			deadLetterQueryTime.Round(time.Millisecond).String())
		renderedDashboard += tableString.String()
		for _, entry := range quarantineList {
			renderedDashboard += fmt.Sprintf("%s\n", entry)
		}
		if len(quarantineList) != 0 {
			renderedDashboard += "\n"
		}

		for i := flags.refreshSeconds; i > 0; i-- {
			_, _ = fmt.Fprintf(writer, "%s\nUpdating in %d seconds...\n", renderedDashboard, i)
			time.Sleep(time.Second)
		}
	}
}

func toStr(i int) string {
	return strconv.Itoa(i)
}
