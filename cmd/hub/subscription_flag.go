// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package main

import "github.com/spf13/cobra"

func setSubscriptionFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("server", defaultLocalServerAPI, "The hub server whose API will be queried.")
}

type subscriptionFlags struct {
	serverAddress string
}

func (flags *subscriptionFlags) addFlags(cmd *cobra.Command) {
	flags.serverAddress, _ = cmd.Flags().GetString("server")
}

type subscriptionCreateFlags struct {
	subscriptionFlags
	name     string
	url      string
	secret   string
	events   []string
	disabled bool
}

func (flags *subscriptionCreateFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flags.name, "name", "", "A human readable label for the subscription.")
	cmd.Flags().StringVar(&flags.url, "url", "", "The endpoint to deliver matching events to.")
	cmd.Flags().StringVar(&flags.secret, "secret", "", "The secret used to sign deliveries, at least 16 characters.")
	cmd.Flags().StringArrayVar(&flags.events, "event", []string{}, "An event type to subscribe to. Use the flag multiple times to subscribe to multiple types.")
	cmd.Flags().BoolVar(&flags.disabled, "disabled", false, "Whether to create the subscription in a disabled state.")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("secret")
	_ = cmd.MarkFlagRequired("event")
}

type subscriptionListFlags struct {
	subscriptionFlags
	outputToTable bool
}

func (flags *subscriptionListFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flags.outputToTable, "table", false, "Whether to display the returned subscription list in a table or not.")
}

type subscriptionGetFlags struct {
	subscriptionFlags
	subscriptionID string
}

func (flags *subscriptionGetFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flags.subscriptionID, "subscription", "", "The id of the subscription to be fetched.")
	_ = cmd.MarkFlagRequired("subscription")
}

type subscriptionUpdateFlags struct {
	subscriptionFlags
	subscriptionID string
	events         []string
}

func (flags *subscriptionUpdateFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flags.subscriptionID, "subscription", "", "The id of the subscription to be updated.")
	cmd.Flags().String("name", "", "The new label for the subscription.")
	cmd.Flags().String("url", "", "The new delivery endpoint.")
	cmd.Flags().String("secret", "", "The new signing secret, at least 16 characters.")
	cmd.Flags().StringArrayVar(&flags.events, "event", []string{}, "The new full set of event types. Use the flag multiple times for multiple types.")
	cmd.Flags().Bool("enabled", true, "Whether the subscription receives deliveries.")
	_ = cmd.MarkFlagRequired("subscription")
}

type subscriptionDeleteFlags struct {
	subscriptionFlags
	subscriptionID string
}

func (flags *subscriptionDeleteFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flags.subscriptionID, "subscription", "", "The id of the subscription to be deleted.")
	_ = cmd.MarkFlagRequired("subscription")
}
