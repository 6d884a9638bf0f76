// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package events

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mattermost/integrations-hub/model"
)

type producerStore interface {
	CreateOutboxEvent(event *model.OutboxEvent) error
}

type producerMetrics interface {
	IncrementEventsPublished(eventType string)
}

// Connector receives successfully published events for side-channel notification.
//
// Connectors are best effort: a connector error never fails or retries the publish.
type Connector interface {
	Name() string
	HandleEvent(event *model.OutboxEvent) error
}

// EventProducer accepts domain events into the outbox.
type EventProducer struct {
	store      producerStore
	metrics    producerMetrics
	connectors []Connector
	logger     logrus.FieldLogger
}

// NewProducer creates a new EventProducer.
func NewProducer(store producerStore, metrics producerMetrics, logger logrus.FieldLogger) *EventProducer {
	return &EventProducer{
		store:   store,
		metrics: metrics,
		logger:  logger.WithField("component", "eventsProducer"),
	}
}

// RegisterConnector registers a connector to be invoked after each successful publish.
func (e *EventProducer) RegisterConnector(connector Connector) {
	e.connectors = append(e.connectors, connector)
}

// PublishEvent durably records the given event in the outbox, assigning its identity.
//
// The payload is stored in its canonical JSON encoding, so identical payloads always
// produce identical signatures downstream. Once the event is committed the publish has
// succeeded; delivery happens asynchronously.
func (e *EventProducer) PublishEvent(publishEventRequest *model.PublishEventRequest) (*model.OutboxEvent, error) {
	payload, err := json.Marshal(publishEventRequest.Payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal event payload")
	}

	event := &model.OutboxEvent{
		EventType: publishEventRequest.EventType,
		Payload:   string(payload),
	}

	err = e.store.CreateOutboxEvent(event)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create outbox event")
	}

	e.metrics.IncrementEventsPublished(string(event.EventType))

	log := e.logger.WithFields(logrus.Fields{
		"event":     event.ID,
		"eventType": event.EventType,
	})
	log.Info("Published event to outbox")

	for _, connector := range e.connectors {
		err = connector.HandleEvent(event)
		if err != nil {
			log.WithError(err).WithField("connector", connector.Name()).Error("Connector failed to handle event")
		}
	}

	return event, nil
}
