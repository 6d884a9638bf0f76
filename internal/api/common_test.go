// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package api_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/mattermost/integrations-hub/internal/api"
	"github.com/mattermost/integrations-hub/internal/events"
	"github.com/mattermost/integrations-hub/internal/store"
	"github.com/mattermost/integrations-hub/internal/testlib"
)

type mockSupervisor struct {
	pokes int
}

func (s *mockSupervisor) Do() error {
	s.pokes++
	return nil
}

type mockMetrics struct{}

func (m *mockMetrics) IncrementEventsPublished(eventType string) {}

func (m *mockMetrics) ObserveWebhookDelivery(status string, elapsedSeconds float64) {}

func (m *mockMetrics) ObserveAPIRequest(handler, method string, statusCode int, elapsedSeconds float64) {
}

type apiFixture struct {
	sqlStore   *store.SQLStore
	supervisor *mockSupervisor
	server     *httptest.Server
}

// setupAPI wires a real store, producer and dispatcher behind the HTTP
// surface, returning the running test server.
func setupAPI(t *testing.T) *apiFixture {
	logger := testlib.MakeLogger(t)
	sqlStore := store.MakeTestSQLStore(t, logger)

	metrics := &mockMetrics{}
	supervisor := &mockSupervisor{}
	producer := events.NewProducer(sqlStore, metrics, logger)
	dispatcher := events.NewDispatcher(sqlStore, metrics, events.DispatcherConfig{
		MaxAttempts:        5,
		BackoffBaseSeconds: 2.0,
		RequestTimeout:     5 * time.Second,
	}, logger)

	router := mux.NewRouter()
	api.Register(router, &api.Context{
		Store:      sqlStore,
		Supervisor: supervisor,
		Producer:   producer,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		store.CloseConnection(t, sqlStore)
	})

	return &apiFixture{
		sqlStore:   sqlStore,
		supervisor: supervisor,
		server:     server,
	}
}
