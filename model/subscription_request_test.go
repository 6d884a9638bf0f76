// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCreateSubscriptionRequestFromReader(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		createSubscriptionRequest, err := NewCreateSubscriptionRequestFromReader(bytes.NewReader([]byte(
			"",
		)))
		require.NoError(t, err)
		require.Equal(t, &CreateSubscriptionRequest{}, createSubscriptionRequest)
	})

	t.Run("invalid", func(t *testing.T) {
		createSubscriptionRequest, err := NewCreateSubscriptionRequestFromReader(bytes.NewReader([]byte(
			"{test",
		)))
		require.Error(t, err)
		require.Nil(t, createSubscriptionRequest)
	})

	t.Run("valid", func(t *testing.T) {
		createSubscriptionRequest, err := NewCreateSubscriptionRequestFromReader(bytes.NewReader([]byte(
			`{"Name":"test","URL":"https://endpoint.example.com/hook","Secret":"0123456789abcdef","Events":["request_submitted"]}`,
		)))
		require.NoError(t, err)
		require.Equal(t, &CreateSubscriptionRequest{
			Name:   "test",
			URL:    "https://endpoint.example.com/hook",
			Secret: "0123456789abcdef",
			Events: EventTypes{EventTypeRequestSubmitted},
		}, createSubscriptionRequest)
	})
}

func TestCreateSubscriptionRequestToSubscription(t *testing.T) {
	valid := func() CreateSubscriptionRequest {
		return CreateSubscriptionRequest{
			Name:   "access requests",
			URL:    "https://endpoint.example.com/hook",
			Secret: "0123456789abcdef",
			Events: EventTypes{EventTypeRequestSubmitted, EventTypeRequestApproved},
		}
	}

	t.Run("valid defaults enabled", func(t *testing.T) {
		subscription, err := valid().ToSubscription()
		require.NoError(t, err)
		require.True(t, subscription.Enabled)
		require.Equal(t, "access requests", subscription.Name)
		require.Equal(t, EventTypes{EventTypeRequestSubmitted, EventTypeRequestApproved}, subscription.Events)
	})

	t.Run("explicitly disabled", func(t *testing.T) {
		request := valid()
		enabled := false
		request.Enabled = &enabled

		subscription, err := request.ToSubscription()
		require.NoError(t, err)
		require.False(t, subscription.Enabled)
	})

	t.Run("missing url", func(t *testing.T) {
		request := valid()
		request.URL = ""
		_, err := request.ToSubscription()
		require.Error(t, err)
	})

	t.Run("non http url", func(t *testing.T) {
		request := valid()
		request.URL = "ftp://endpoint.example.com"
		_, err := request.ToSubscription()
		require.Error(t, err)
	})

	t.Run("short secret", func(t *testing.T) {
		request := valid()
		request.Secret = "too-short"
		_, err := request.ToSubscription()
		require.Error(t, err)
	})

	t.Run("no events", func(t *testing.T) {
		request := valid()
		request.Events = EventTypes{}
		_, err := request.ToSubscription()
		require.Error(t, err)
	})

	t.Run("unknown event", func(t *testing.T) {
		request := valid()
		request.Events = EventTypes{"request_exploded"}
		_, err := request.ToSubscription()
		require.Error(t, err)
	})
}

func TestPatchSubscriptionRequest(t *testing.T) {
	t.Run("validate", func(t *testing.T) {
		var testCases = []struct {
			testName    string
			expectError bool
			request     *PatchSubscriptionRequest
		}{
			{
				"empty patch",
				false,
				&PatchSubscriptionRequest{},
			},
			{
				"valid url",
				false,
				&PatchSubscriptionRequest{URL: sToP("https://endpoint.example.com")},
			},
			{
				"invalid url",
				true,
				&PatchSubscriptionRequest{URL: sToP("not a url://")},
			},
			{
				"short secret",
				true,
				&PatchSubscriptionRequest{Secret: sToP("short")},
			},
			{
				"empty events",
				true,
				&PatchSubscriptionRequest{Events: &EventTypes{}},
			},
			{
				"unknown event",
				true,
				&PatchSubscriptionRequest{Events: &EventTypes{"nope"}},
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
	})

	t.Run("apply", func(t *testing.T) {
		subscription := Subscription{
			Name:    "before",
			URL:     "https://before.example.com",
			Secret:  "0123456789abcdef",
			Events:  EventTypes{EventTypeRequestSubmitted},
			Enabled: true,
		}

		patch := &PatchSubscriptionRequest{}
		require.False(t, patch.Apply(&subscription))

		enabled := false
		patch = &PatchSubscriptionRequest{
			Name:    sToP("after"),
			Events:  &EventTypes{EventTypeRequestApproved},
			Enabled: &enabled,
		}
		require.True(t, patch.Apply(&subscription))
		require.Equal(t, "after", subscription.Name)
		require.Equal(t, "https://before.example.com", subscription.URL)
		require.Equal(t, EventTypes{EventTypeRequestApproved}, subscription.Events)
		require.False(t, subscription.Enabled)
	})
}

func sToP(s string) *string {
	return &s
}
