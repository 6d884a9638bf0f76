// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/integrations-hub/model"
)

func TestGetDeliveryAttempts(t *testing.T) {
	fixture := setupAPI(t)
	client := model.NewClient(fixture.server.URL)

	t.Run("unknown event yields empty list", func(t *testing.T) {
		attempts, err := client.GetDeliveryAttempts(model.NewID())
		require.NoError(t, err)
		require.Empty(t, attempts)
	})

	t.Run("lists attempts oldest first", func(t *testing.T) {
		subscription := &model.Subscription{
			URL:     "https://hooks.example.com",
			Secret:  "super-secret-key-0123456789",
			Events:  model.EventTypes{model.EventTypeRequestSubmitted},
			Enabled: true,
		}
		require.NoError(t, fixture.sqlStore.CreateSubscription(subscription))

		event := &model.OutboxEvent{
			EventType: model.EventTypeRequestSubmitted,
			Payload:   `{"title":"T"}`,
		}
		require.NoError(t, fixture.sqlStore.CreateOutboxEvent(event))

		for n := 1; n <= 2; n++ {
			require.NoError(t, fixture.sqlStore.CreateDeliveryAttempt(&model.DeliveryAttempt{
				EventID:        event.ID,
				SubscriptionID: subscription.ID,
				AttemptNumber:  n,
				Status:         model.DeliveryStatusPending,
				NextRetryAt:    model.GetMillis(),
				ErrorMessage:   "HTTP 500",
			}))
		}

		attempts, err := client.GetDeliveryAttempts(event.ID)
		require.NoError(t, err)
		require.Len(t, attempts, 2)
		assert.Equal(t, 1, attempts[0].AttemptNumber)
		assert.Equal(t, 2, attempts[1].AttemptNumber)
	})
}

func TestReplayDeadLetter(t *testing.T) {
	fixture := setupAPI(t)
	client := model.NewClient(fixture.server.URL)

	t.Run("unknown dead letter", func(t *testing.T) {
		_, err := client.ReplayDeadLetter(model.NewID())
		require.EqualError(t, err, "failed with status code 404")
	})

	t.Run("replay against healthy receiver", func(t *testing.T) {
		receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer receiver.Close()

		subscription := &model.Subscription{
			URL:     receiver.URL,
			Secret:  "super-secret-key-0123456789",
			Events:  model.EventTypes{model.EventTypeRequestSubmitted},
			Enabled: true,
		}
		require.NoError(t, fixture.sqlStore.CreateSubscription(subscription))

		event := &model.OutboxEvent{
			EventType: model.EventTypeRequestSubmitted,
			Payload:   `{"title":"T"}`,
		}
		require.NoError(t, fixture.sqlStore.CreateOutboxEvent(event))

		deadLetter := &model.DeadLetter{
			EventID:        event.ID,
			SubscriptionID: subscription.ID,
			TotalAttempts:  5,
			LastError:      "HTTP 500",
		}
		require.NoError(t, fixture.sqlStore.CreateDeadLetteredAttempt(&model.DeliveryAttempt{
			EventID:        event.ID,
			SubscriptionID: subscription.ID,
			AttemptNumber:  5,
			Status:         model.DeliveryStatusDeadLettered,
			ErrorMessage:   "HTTP 500",
		}, deadLetter))

		response, err := client.ReplayDeadLetter(deadLetter.ID)
		require.NoError(t, err)
		assert.Equal(t, "replayed", response.Status)
		assert.Equal(t, deadLetter.ID, response.DeadLetterID)

		// The quarantine is gone and a fresh delivered attempt was recorded.
		released, err := fixture.sqlStore.GetDeadLetter(deadLetter.ID)
		require.NoError(t, err)
		require.Nil(t, released)

		deadLetters, err := client.GetDeadLetters()
		require.NoError(t, err)
		require.Empty(t, deadLetters)

		attempts, err := client.GetDeliveryAttempts(event.ID)
		require.NoError(t, err)
		require.Len(t, attempts, 2)
		assert.Equal(t, model.DeliveryStatusFailed, attempts[0].Status)
		assert.Equal(t, model.DeliveryStatusDelivered, attempts[1].Status)
		assert.Equal(t, 6, attempts[1].AttemptNumber)
	})

	t.Run("replay against failing receiver answers 404", func(t *testing.T) {
		receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer receiver.Close()

		subscription := &model.Subscription{
			URL:     receiver.URL,
			Secret:  "super-secret-key-0123456789",
			Events:  model.EventTypes{model.EventTypeRequestApproved},
			Enabled: true,
		}
		require.NoError(t, fixture.sqlStore.CreateSubscription(subscription))

		event := &model.OutboxEvent{
			EventType: model.EventTypeRequestApproved,
			Payload:   `{"title":"T"}`,
		}
		require.NoError(t, fixture.sqlStore.CreateOutboxEvent(event))

		deadLetter := &model.DeadLetter{
			EventID:        event.ID,
			SubscriptionID: subscription.ID,
			TotalAttempts:  5,
			LastError:      "HTTP 500",
		}
		require.NoError(t, fixture.sqlStore.CreateDeadLetteredAttempt(&model.DeliveryAttempt{
			EventID:        event.ID,
			SubscriptionID: subscription.ID,
			AttemptNumber:  5,
			Status:         model.DeliveryStatusDeadLettered,
			ErrorMessage:   "HTTP 500",
		}, deadLetter))

		_, err := client.ReplayDeadLetter(deadLetter.ID)
		require.EqualError(t, err, "failed with status code 404")

		// The still-failing pair dead-letters again immediately.
		deadLetters, err := client.GetDeadLetters()
		require.NoError(t, err)
		require.Len(t, deadLetters, 1)
		assert.Equal(t, 6, deadLetters[0].TotalAttempts)
	})
}
