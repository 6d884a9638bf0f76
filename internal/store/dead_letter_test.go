// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mattermost/integrations-hub/internal/testlib"
	"github.com/mattermost/integrations-hub/model"
)

func TestDeadLetters(t *testing.T) {
	t.Run("get unknown dead letter", func(t *testing.T) {
		logger := testlib.MakeLogger(t)
		sqlStore := MakeTestSQLStore(t, logger)
		defer CloseConnection(t, sqlStore)

		deadLetter, err := sqlStore.GetDeadLetter("unknown")
		require.NoError(t, err)
		require.Nil(t, deadLetter)

		deadLetter, err = sqlStore.GetDeadLetterForEventAndSubscription("unknown", "unknown")
		require.NoError(t, err)
		require.Nil(t, deadLetter)
	})

	t.Run("get dead letters", func(t *testing.T) {
		logger := testlib.MakeLogger(t)
		sqlStore := MakeTestSQLStore(t, logger)
		defer CloseConnection(t, sqlStore)

		deadLetter1 := &model.DeadLetter{
			EventID:        model.NewID(),
			SubscriptionID: model.NewID(),
			TotalAttempts:  5,
			LastError:      "HTTP 500",
		}
		deadLetter2 := &model.DeadLetter{
			EventID:        model.NewID(),
			SubscriptionID: model.NewID(),
			TotalAttempts:  5,
			LastError:      "Request timed out",
		}

		err := sqlStore.createDeadLetter(sqlStore.db, deadLetter1)
		require.NoError(t, err)

		time.Sleep(1 * time.Millisecond)

		err = sqlStore.createDeadLetter(sqlStore.db, deadLetter2)
		require.NoError(t, err)

		actual, err := sqlStore.GetDeadLetters()
		require.NoError(t, err)
		require.Equal(t, []*model.DeadLetter{deadLetter2, deadLetter1}, actual)

		actualForPair, err := sqlStore.GetDeadLetterForEventAndSubscription(deadLetter1.EventID, deadLetter1.SubscriptionID)
		require.NoError(t, err)
		require.Equal(t, deadLetter1, actualForPair)
	})

	t.Run("release dead letter", func(t *testing.T) {
		logger := testlib.MakeLogger(t)
		sqlStore := MakeTestSQLStore(t, logger)
		defer CloseConnection(t, sqlStore)

		eventID := model.NewID()
		subscriptionID := model.NewID()

		failedAttempt := &model.DeliveryAttempt{
			EventID:        eventID,
			SubscriptionID: subscriptionID,
			AttemptNumber:  4,
			Status:         model.DeliveryStatusPending,
			ErrorMessage:   "HTTP 503",
			NextRetryAt:    model.GetMillis() + 2000,
		}
		err := sqlStore.CreateDeliveryAttempt(failedAttempt)
		require.NoError(t, err)

		deadLetteredAttempt := &model.DeliveryAttempt{
			EventID:        eventID,
			SubscriptionID: subscriptionID,
			AttemptNumber:  5,
			Status:         model.DeliveryStatusDeadLettered,
			ErrorMessage:   "HTTP 503",
		}
		deadLetter := &model.DeadLetter{
			EventID:        eventID,
			SubscriptionID: subscriptionID,
			TotalAttempts:  5,
			LastError:      "HTTP 503",
		}
		err = sqlStore.CreateDeadLetteredAttempt(deadLetteredAttempt, deadLetter)
		require.NoError(t, err)

		// An unrelated dead-lettered pair must come through the release untouched.
		otherAttempt := &model.DeliveryAttempt{
			EventID:        model.NewID(),
			SubscriptionID: model.NewID(),
			AttemptNumber:  5,
			Status:         model.DeliveryStatusDeadLettered,
			ErrorMessage:   "HTTP 500",
		}
		otherDeadLetter := &model.DeadLetter{
			EventID:        otherAttempt.EventID,
			SubscriptionID: otherAttempt.SubscriptionID,
			TotalAttempts:  5,
			LastError:      "HTTP 500",
		}
		err = sqlStore.CreateDeadLetteredAttempt(otherAttempt, otherDeadLetter)
		require.NoError(t, err)

		err = sqlStore.ReleaseDeadLetter(deadLetter)
		require.NoError(t, err)

		actual, err := sqlStore.GetDeadLetter(deadLetter.ID)
		require.NoError(t, err)
		require.Nil(t, actual)

		latest, err := sqlStore.GetLatestDeliveryAttempt(eventID, subscriptionID)
		require.NoError(t, err)
		require.Equal(t, model.DeliveryStatusFailed, latest.Status)
		require.Equal(t, 5, latest.AttemptNumber)

		// The pending attempt keeps its status; only dead-lettered rows downgrade.
		attempts, err := sqlStore.GetDeliveryAttemptsForEvent(eventID)
		require.NoError(t, err)
		require.Len(t, attempts, 2)
		require.Equal(t, model.DeliveryStatusPending, attempts[0].Status)

		actualOther, err := sqlStore.GetDeadLetter(otherDeadLetter.ID)
		require.NoError(t, err)
		require.Equal(t, otherDeadLetter, actualOther)

		latestOther, err := sqlStore.GetLatestDeliveryAttempt(otherAttempt.EventID, otherAttempt.SubscriptionID)
		require.NoError(t, err)
		require.Equal(t, model.DeliveryStatusDeadLettered, latestOther.Status)
	})
}
