// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventTypes(t *testing.T) {
	t.Run("value", func(t *testing.T) {
		testCases := []struct {
			input EventTypes
			value any
		}{
			{
				input: EventTypes{EventTypeRequestSubmitted},
				value: "request_submitted",
			},
			{
				input: EventTypes{EventTypeRequestSubmitted, EventTypeRequestApproved},
				value: "request_submitted,request_approved",
			},
			{
				input: EventTypes{},
				value: "",
			},
		}

		for _, test := range testCases {
			value, err := test.input.Value()
			require.NoError(t, err)
			require.Equal(t, test.value, value)
		}
	})

	t.Run("scan", func(t *testing.T) {
		testCases := []struct {
			input any
			scan  EventTypes
			err   bool
		}{
			{
				input: "request_submitted,request_approved",
				scan:  EventTypes{EventTypeRequestSubmitted, EventTypeRequestApproved},
			},
			{
				input: []byte("request_rejected"),
				scan:  EventTypes{EventTypeRequestRejected},
			},
			{
				input: "",
				scan:  nil,
			},
			{
				input: 42,
				err:   true,
			},
		}

		for _, test := range testCases {
			var eventTypes EventTypes
			err := eventTypes.Scan(test.input)
			if test.err {
				require.Error(t, err)
				continue
			}
			require.NoError(t, err)
			require.Equal(t, test.scan, eventTypes)
		}
	})

	t.Run("contains", func(t *testing.T) {
		eventTypes := EventTypes{EventTypeRequestSubmitted, EventTypeRequestUpdated}
		require.True(t, eventTypes.Contains(EventTypeRequestSubmitted))
		require.True(t, eventTypes.Contains(EventTypeRequestUpdated))
		require.False(t, eventTypes.Contains(EventTypeRequestApproved))
		require.False(t, EventTypes{}.Contains(EventTypeRequestSubmitted))
	})
}
