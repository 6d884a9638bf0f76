// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package main

import "github.com/spf13/cobra"

func setEventFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("server", defaultLocalServerAPI, "The hub server whose API will be queried.")
}

type eventFlags struct {
	serverAddress string
}

func (flags *eventFlags) addFlags(cmd *cobra.Command) {
	flags.serverAddress, _ = cmd.Flags().GetString("server")
}

type eventPublishFlags struct {
	eventFlags
	eventType string
	payload   string
}

func (flags *eventPublishFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flags.eventType, "type", "", "The type of the event, e.g. request_submitted.")
	cmd.Flags().StringVar(&flags.payload, "payload", "", "The event payload as a JSON object.")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("payload")
}

type eventAttemptsFlags struct {
	eventFlags
	eventID       string
	outputToTable bool
}

func (flags *eventAttemptsFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flags.eventID, "event", "", "The id of the event whose delivery attempts will be listed.")
	cmd.Flags().BoolVar(&flags.outputToTable, "table", false, "Whether to display the returned attempt list in a table or not.")
	_ = cmd.MarkFlagRequired("event")
}
