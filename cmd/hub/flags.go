// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package main

import "github.com/spf13/cobra"

func getStringFlagPointer(command *cobra.Command, s string) *string {
	if command.Flags().Changed(s) {
		val, _ := command.Flags().GetString(s)
		return &val
	}

	return nil
}

func getBoolFlagPointer(command *cobra.Command, s string) *bool {
	if command.Flags().Changed(s) {
		val, _ := command.Flags().GetBool(s)
		return &val
	}

	return nil
}
