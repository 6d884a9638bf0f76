// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/integrations-hub/model"
)

func TestPublishEvent(t *testing.T) {
	fixture := setupAPI(t)
	client := model.NewClient(fixture.server.URL)

	t.Run("valid", func(t *testing.T) {
		event, err := client.PublishEvent(&model.PublishEventRequest{
			EventType: model.EventTypeRequestSubmitted,
			Payload:   map[string]interface{}{"title": "Database access"},
		})
		require.NoError(t, err)
		require.NotEmpty(t, event.ID)
		assert.Equal(t, model.EventTypeRequestSubmitted, event.EventType)
		assert.JSONEq(t, `{"title":"Database access"}`, event.Payload)
		assert.NotZero(t, event.CreateAt)

		// Publishing pokes the dispatcher so delivery starts without waiting
		// out the poll interval.
		assert.NotZero(t, fixture.supervisor.pokes)

		stored, err := fixture.sqlStore.GetOutboxEvent(event.ID)
		require.NoError(t, err)
		assert.Equal(t, event.Payload, stored.Payload)
	})

	t.Run("unknown event type", func(t *testing.T) {
		_, err := client.PublishEvent(&model.PublishEventRequest{
			EventType: "request_vanished",
			Payload:   map[string]interface{}{"title": "T"},
		})
		require.EqualError(t, err, "failed with status code 422")
	})

	t.Run("missing payload", func(t *testing.T) {
		_, err := client.PublishEvent(&model.PublishEventRequest{
			EventType: model.EventTypeRequestSubmitted,
		})
		require.EqualError(t, err, "failed with status code 422")
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, err := http.Post(fixture.server.URL+"/api/v1/events", "application/json", bytes.NewReader([]byte("{not json")))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetHealth(t *testing.T) {
	fixture := setupAPI(t)

	resp, err := http.Get(fixture.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])
}

func TestGetMetrics(t *testing.T) {
	fixture := setupAPI(t)

	resp, err := http.Get(fixture.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
