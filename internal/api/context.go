// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package api

import (
	"github.com/sirupsen/logrus"

	"github.com/mattermost/integrations-hub/model"
)

// Supervisor describes the interface to notify the background dispatcher of an
// actionable change.
type Supervisor interface {
	Do() error
}

// Store describes the interface required to persist changes made via API requests.
type Store interface {
	CreateSubscription(subscription *model.Subscription) error
	GetSubscription(subscriptionID string) (*model.Subscription, error)
	GetSubscriptions(filter *model.SubscriptionFilter) ([]*model.Subscription, error)
	UpdateSubscription(subscription *model.Subscription) error
	DeleteSubscription(subscriptionID string) error

	GetOutboxEvent(eventID string) (*model.OutboxEvent, error)
	GetDeliveryAttemptsForEvent(eventID string) ([]*model.DeliveryAttempt, error)

	GetDeadLetter(deadLetterID string) (*model.DeadLetter, error)
	GetDeadLetters() ([]*model.DeadLetter, error)
}

// Producer describes the interface required to accept new events into the outbox.
type Producer interface {
	PublishEvent(publishEventRequest *model.PublishEventRequest) (*model.OutboxEvent, error)
}

// Dispatcher describes the interface required to replay quarantined deliveries.
type Dispatcher interface {
	ReplayDeadLetter(deadLetter *model.DeadLetter) (bool, error)
}

// Metrics describes the interface to record API request metrics.
type Metrics interface {
	ObserveAPIRequest(handler, method string, statusCode int, elapsedSeconds float64)
}

// Context provides the API with all necessary data and interfaces for responding to requests.
//
// It is cloned before each request, allowing per-request changes such as logger annotations.
type Context struct {
	Store      Store
	Supervisor Supervisor
	Producer   Producer
	Dispatcher Dispatcher
	Metrics    Metrics
	RequestID  string
	Logger     logrus.FieldLogger
}

// Clone creates a shallow copy of context, allowing clones to apply per-request changes.
func (c *Context) Clone() *Context {
	return &Context{
		Store:      c.Store,
		Supervisor: c.Supervisor,
		Producer:   c.Producer,
		Dispatcher: c.Dispatcher,
		Metrics:    c.Metrics,
		Logger:     c.Logger,
	}
}
