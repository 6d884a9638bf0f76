// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package main

import "github.com/spf13/cobra"

func setDeadLetterFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("server", defaultLocalServerAPI, "The hub server whose API will be queried.")
}

type deadLetterFlags struct {
	serverAddress string
}

func (flags *deadLetterFlags) addFlags(cmd *cobra.Command) {
	flags.serverAddress, _ = cmd.Flags().GetString("server")
}

type deadLetterListFlags struct {
	deadLetterFlags
	outputToTable bool
}

func (flags *deadLetterListFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flags.outputToTable, "table", false, "Whether to display the returned dead letter list in a table or not.")
}

type deadLetterReplayFlags struct {
	deadLetterFlags
	deadLetterID string
}

func (flags *deadLetterReplayFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flags.deadLetterID, "dead-letter", "", "The id of the dead letter to replay.")
	_ = cmd.MarkFlagRequired("dead-letter")
}
