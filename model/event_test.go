// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventTypeIsValid(t *testing.T) {
	for _, eventType := range AllEventTypes {
		require.True(t, eventType.IsValid())
	}
	require.False(t, EventType("").IsValid())
	require.False(t, EventType("request_vanished").IsValid())
}

func TestPublishEventRequestValidate(t *testing.T) {
	var testCases = []struct {
		testName    string
		expectError bool
		request     *PublishEventRequest
	}{
		{
			"valid",
			false,
			&PublishEventRequest{
				EventType: EventTypeRequestSubmitted,
				Payload:   map[string]interface{}{"request_id": "req-1"},
			},
		},
		{
			"empty payload object",
			false,
			&PublishEventRequest{
				EventType: EventTypeRequestApproved,
				Payload:   map[string]interface{}{},
			},
		},
		{
			"unknown event type",
			true,
			&PublishEventRequest{
				EventType: "request_vanished",
				Payload:   map[string]interface{}{},
			},
		},
		{
			"missing payload",
			true,
			&PublishEventRequest{
				EventType: EventTypeRequestSubmitted,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			if tc.expectError {
				require.Error(t, tc.request.Validate())
				return
			}
			require.NoError(t, tc.request.Validate())
		})
	}
}

func TestNewPublishEventRequestFromReader(t *testing.T) {
	t.Run("invalid", func(t *testing.T) {
		request, err := NewPublishEventRequestFromReader(bytes.NewReader([]byte(
			"{test",
		)))
		require.Error(t, err)
		require.Nil(t, request)
	})

	t.Run("valid", func(t *testing.T) {
		request, err := NewPublishEventRequestFromReader(bytes.NewReader([]byte(
			`{"EventType":"request_submitted","Payload":{"request_id":"req-1"}}`,
		)))
		require.NoError(t, err)
		require.Equal(t, EventTypeRequestSubmitted, request.EventType)
		require.Equal(t, "req-1", request.Payload["request_id"])
	})
}
