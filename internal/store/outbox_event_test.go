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

func TestOutboxEvents(t *testing.T) {
	t.Run("get unknown outbox event", func(t *testing.T) {
		logger := testlib.MakeLogger(t)
		sqlStore := MakeTestSQLStore(t, logger)
		defer CloseConnection(t, sqlStore)

		event, err := sqlStore.GetOutboxEvent("unknown")
		require.NoError(t, err)
		require.Nil(t, event)
	})

	t.Run("create and get outbox event", func(t *testing.T) {
		logger := testlib.MakeLogger(t)
		sqlStore := MakeTestSQLStore(t, logger)
		defer CloseConnection(t, sqlStore)

		event := &model.OutboxEvent{
			EventType: model.EventTypeRequestSubmitted,
			Payload:   `{"request_id":"req-1","requester":"jane"}`,
		}

		err := sqlStore.CreateOutboxEvent(event)
		require.NoError(t, err)
		require.NotEmpty(t, event.ID)
		require.NotZero(t, event.CreateAt)

		actual, err := sqlStore.GetOutboxEvent(event.ID)
		require.NoError(t, err)
		require.Equal(t, event, actual)
	})

	t.Run("get outbox events for dispatch", func(t *testing.T) {
		logger := testlib.MakeLogger(t)
		sqlStore := MakeTestSQLStore(t, logger)
		defer CloseConnection(t, sqlStore)

		event1 := &model.OutboxEvent{EventType: model.EventTypeRequestSubmitted, Payload: `{"n":1}`}
		event2 := &model.OutboxEvent{EventType: model.EventTypeRequestApproved, Payload: `{"n":2}`}
		event3 := &model.OutboxEvent{EventType: model.EventTypeRequestRejected, Payload: `{"n":3}`}

		err := sqlStore.CreateOutboxEvent(event1)
		require.NoError(t, err)

		time.Sleep(1 * time.Millisecond)

		err = sqlStore.CreateOutboxEvent(event2)
		require.NoError(t, err)

		time.Sleep(1 * time.Millisecond)

		err = sqlStore.CreateOutboxEvent(event3)
		require.NoError(t, err)

		actual, err := sqlStore.GetOutboxEventsForDispatch(2)
		require.NoError(t, err)
		require.Equal(t, []*model.OutboxEvent{event1, event2}, actual)

		actual, err = sqlStore.GetOutboxEventsForDispatch(50)
		require.NoError(t, err)
		require.Equal(t, []*model.OutboxEvent{event1, event2, event3}, actual)
	})
}
