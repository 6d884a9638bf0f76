// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mattermost/integrations-hub/internal/signer"
	"github.com/mattermost/integrations-hub/internal/store"
	"github.com/mattermost/integrations-hub/model"
)

const (
	contentTypeApplicationJSON = "application/json"

	// dispatchBatchSize caps how many outbox events a single cycle scans,
	// oldest first. Events beyond the cap wait for a later cycle.
	dispatchBatchSize = 50

	maxStoredResponseBytes = 1000
	maxStoredErrorBytes    = 500

	timeoutErrorMessage = "Request timed out"
)

type dispatcherStore interface {
	GetOutboxEventsForDispatch(limit int) ([]*model.OutboxEvent, error)
	GetOutboxEvent(id string) (*model.OutboxEvent, error)
	GetSubscriptions(filter *model.SubscriptionFilter) ([]*model.Subscription, error)
	GetSubscription(id string) (*model.Subscription, error)
	HasDeliveredAttempt(eventID, subscriptionID string) (bool, error)
	GetDeadLetterForEventAndSubscription(eventID, subscriptionID string) (*model.DeadLetter, error)
	GetLatestDeliveryAttempt(eventID, subscriptionID string) (*model.DeliveryAttempt, error)
	GetDeliveryAttemptCount(eventID, subscriptionID string) (int64, error)
	CreateDeliveryAttempt(attempt *model.DeliveryAttempt) error
	CreateDeadLetteredAttempt(attempt *model.DeliveryAttempt, deadLetter *model.DeadLetter) error
	ReleaseDeadLetter(deadLetter *model.DeadLetter) error
}

type dispatcherMetrics interface {
	ObserveWebhookDelivery(status string, elapsedSeconds float64)
}

// DispatcherConfig holds the retry policy of the webhook Dispatcher component.
type DispatcherConfig struct {
	MaxAttempts        int
	BackoffBaseSeconds float64
	RequestTimeout     time.Duration
}

// Dispatcher fans outbox events out to matching subscriptions as signed webhooks,
// recording every try as a delivery attempt.
//
// A single dispatcher goroutine is the reference deployment. Running more than one is
// safe: the unique constraints on attempts and dead letters turn duplicate work into
// benign lost races.
type Dispatcher struct {
	store   dispatcherStore
	client  *http.Client
	config  DispatcherConfig
	metrics dispatcherMetrics
	logger  logrus.FieldLogger
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(store dispatcherStore, metrics dispatcherMetrics, config DispatcherConfig, logger logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		store:   store,
		client:  &http.Client{Timeout: config.RequestTimeout},
		config:  config,
		metrics: metrics,
		logger:  logger.WithField("component", "eventsDispatcher"),
	}
}

// Do runs a single dispatch cycle over the oldest outbox events.
//
// Individual delivery failures are recorded as attempt state and never abort the
// cycle; only a failure to scan the outbox itself is returned.
func (d *Dispatcher) Do() error {
	events, err := d.store.GetOutboxEventsForDispatch(dispatchBatchSize)
	if err != nil {
		return errors.Wrap(err, "failed to query outbox events for dispatch")
	}

	for _, event := range events {
		d.dispatchEvent(event)
	}

	return nil
}

// Shutdown releases any idle outbound connections held by the dispatcher.
func (d *Dispatcher) Shutdown() {
	d.client.CloseIdleConnections()
}

func (d *Dispatcher) dispatchEvent(event *model.OutboxEvent) {
	subscriptions, err := d.store.GetSubscriptions(&model.SubscriptionFilter{
		EventType:   event.EventType,
		EnabledOnly: true,
	})
	if err != nil {
		d.logger.WithError(err).WithField("event", event.ID).Error("Failed to find subscriptions for event")
		return
	}

	for _, subscription := range subscriptions {
		log := d.logger.WithFields(logrus.Fields{
			"event":        event.ID,
			"subscription": subscription.ID,
		})

		attemptNow, err := d.evaluateDispatchGate(event, subscription)
		if err != nil {
			log.WithError(err).Error("Failed to evaluate dispatch gate")
			continue
		}
		if !attemptNow {
			continue
		}

		d.deliver(event, subscription, log)
	}
}

// evaluateDispatchGate decides whether the given pair is due for a delivery attempt
// this cycle. The checks resolve in order; the first match wins.
func (d *Dispatcher) evaluateDispatchGate(event *model.OutboxEvent, subscription *model.Subscription) (bool, error) {
	delivered, err := d.store.HasDeliveredAttempt(event.ID, subscription.ID)
	if err != nil {
		return false, errors.Wrap(err, "failed to check for delivered attempt")
	}
	if delivered {
		return false, nil
	}

	deadLetter, err := d.store.GetDeadLetterForEventAndSubscription(event.ID, subscription.ID)
	if err != nil {
		return false, errors.Wrap(err, "failed to check for dead letter")
	}
	if deadLetter != nil {
		return false, nil
	}

	latestAttempt, err := d.store.GetLatestDeliveryAttempt(event.ID, subscription.ID)
	if err != nil {
		return false, errors.Wrap(err, "failed to get latest delivery attempt")
	}
	if latestAttempt == nil {
		return true, nil
	}

	if latestAttempt.Status == model.DeliveryStatusPending {
		return latestAttempt.NextRetryAt <= model.GetMillis(), nil
	}

	// A failed attempt carries no schedule; it stays terminal until replayed.
	return false, nil
}

// deliver makes exactly one webhook delivery attempt against the subscription and
// records its outcome, returning true when the event was delivered.
func (d *Dispatcher) deliver(event *model.OutboxEvent, subscription *model.Subscription, log logrus.FieldLogger) bool {
	count, err := d.store.GetDeliveryAttemptCount(event.ID, subscription.ID)
	if err != nil {
		log.WithError(err).Error("Failed to count prior delivery attempts")
		return false
	}
	attemptNumber := int(count) + 1

	start := model.GetMillis()
	result := d.postWebhook(event, subscription)
	elapsed := model.ElapsedTimeInSeconds(start)

	attempt := &model.DeliveryAttempt{
		EventID:        event.ID,
		SubscriptionID: subscription.ID,
		AttemptNumber:  attemptNumber,
		HTTPStatusCode: result.statusCode,
		ResponseBody:   result.responseBody,
		ErrorMessage:   result.errorMessage,
	}

	if result.delivered {
		attempt.Status = model.DeliveryStatusDelivered

		err = d.store.CreateDeliveryAttempt(attempt)
		if err != nil {
			d.handleAttemptWriteFailure(err, log)
			return false
		}

		d.metrics.ObserveWebhookDelivery(string(model.DeliveryStatusDelivered), elapsed)
		log.WithFields(logrus.Fields{
			"attempt":    attemptNumber,
			"statusCode": result.statusCode,
		}).Info("Delivered event")

		return true
	}

	if attemptNumber >= d.config.MaxAttempts {
		attempt.Status = model.DeliveryStatusDeadLettered
		deadLetter := &model.DeadLetter{
			EventID:        event.ID,
			SubscriptionID: subscription.ID,
			TotalAttempts:  attemptNumber,
			LastError:      result.errorMessage,
		}

		err = d.store.CreateDeadLetteredAttempt(attempt, deadLetter)
		if err != nil {
			d.handleAttemptWriteFailure(err, log)
			return false
		}

		d.metrics.ObserveWebhookDelivery(string(model.DeliveryStatusDeadLettered), elapsed)
		log.WithFields(logrus.Fields{
			"attempt":   attemptNumber,
			"lastError": result.errorMessage,
		}).Warn("Dead-lettered event delivery")

		return false
	}

	// The failed try is committed as a pending row carrying its own retry schedule;
	// the next attempt row is only created once the gate sees the retry come due.
	backoffSeconds := math.Pow(d.config.BackoffBaseSeconds, float64(attemptNumber))
	attempt.Status = model.DeliveryStatusPending
	attempt.NextRetryAt = model.GetMillis() + int64(backoffSeconds*1000)

	err = d.store.CreateDeliveryAttempt(attempt)
	if err != nil {
		d.handleAttemptWriteFailure(err, log)
		return false
	}

	d.metrics.ObserveWebhookDelivery(string(model.DeliveryStatusFailed), elapsed)
	log.WithFields(logrus.Fields{
		"attempt":          attemptNumber,
		"error":            result.errorMessage,
		"nextRetrySeconds": backoffSeconds,
	}).Info("Delivery failed, retry scheduled")

	return false
}

// handleAttemptWriteFailure distinguishes a lost race against a concurrent dispatcher,
// which is benign, from a real storage failure.
func (d *Dispatcher) handleAttemptWriteFailure(err error, log logrus.FieldLogger) {
	if store.IsUniqueConstraintError(err) {
		log.WithError(err).Warn("Lost delivery race to a concurrent dispatcher, skipping pair this cycle")
		return
	}

	log.WithError(err).Error("Failed to record delivery attempt")
}

type deliveryResult struct {
	delivered    bool
	statusCode   int
	responseBody string
	errorMessage string
}

// postWebhook signs and posts the event to the subscription endpoint.
//
// The signature covers the stored payload string rather than the envelope, so
// receivers verify exactly the bytes carried in the data field.
func (d *Dispatcher) postWebhook(event *model.OutboxEvent, subscription *model.Subscription) deliveryResult {
	timestamp := time.Now().Unix()
	signature := signer.Sign(event.Payload, subscription.Secret, timestamp)

	body, err := json.Marshal(&model.WebhookPayload{
		EventID:   event.ID,
		EventType: event.EventType,
		Timestamp: timestamp,
		Data:      json.RawMessage(event.Payload),
	})
	if err != nil {
		return deliveryResult{errorMessage: truncateString(err.Error(), maxStoredErrorBytes)}
	}

	req, err := http.NewRequest(http.MethodPost, subscription.URL, bytes.NewReader(body))
	if err != nil {
		return deliveryResult{errorMessage: truncateString(err.Error(), maxStoredErrorBytes)}
	}
	req.Header.Set("Content-Type", contentTypeApplicationJSON)
	req.Header.Set(model.HeaderWebhookSignature, signature)
	req.Header.Set(model.HeaderWebhookTimestamp, strconv.FormatInt(timestamp, 10))
	req.Header.Set(model.HeaderWebhookEvent, string(event.EventType))
	req.Header.Set(model.HeaderWebhookEventID, event.ID)

	resp, err := d.client.Do(req)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return deliveryResult{errorMessage: timeoutErrorMessage}
		}
		return deliveryResult{errorMessage: truncateString(err.Error(), maxStoredErrorBytes)}
	}
	defer drainBody(resp.Body)

	responseBody := truncateString(attemptToReadBody(resp.Body), maxStoredResponseBytes)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return deliveryResult{
			delivered:    true,
			statusCode:   resp.StatusCode,
			responseBody: responseBody,
		}
	}

	return deliveryResult{
		statusCode:   resp.StatusCode,
		responseBody: responseBody,
		errorMessage: fmt.Sprintf("HTTP %d", resp.StatusCode),
	}
}

// ReplayDeadLetter releases the given dead letter and immediately makes one fresh
// delivery attempt, returning whether that attempt delivered.
//
// The attempt counter is never reset: the fresh attempt continues the pair's
// numbering, so an endpoint that is still failing dead-letters again immediately.
func (d *Dispatcher) ReplayDeadLetter(deadLetter *model.DeadLetter) (bool, error) {
	event, err := d.store.GetOutboxEvent(deadLetter.EventID)
	if err != nil {
		return false, errors.Wrap(err, "failed to get outbox event for replay")
	}
	subscription, err := d.store.GetSubscription(deadLetter.SubscriptionID)
	if err != nil {
		return false, errors.Wrap(err, "failed to get subscription for replay")
	}

	log := d.logger.WithFields(logrus.Fields{
		"deadLetter":   deadLetter.ID,
		"event":        deadLetter.EventID,
		"subscription": deadLetter.SubscriptionID,
	})

	if event == nil || subscription == nil {
		log.Warn("Refusing to replay dead letter whose event or subscription no longer exists")
		return false, nil
	}

	err = d.store.ReleaseDeadLetter(deadLetter)
	if err != nil {
		return false, errors.Wrap(err, "failed to release dead letter")
	}

	log.Info("Replaying dead-lettered delivery")

	return d.deliver(event, subscription, log), nil
}

func attemptToReadBody(reader io.Reader) string {
	body, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Sprintf("failed to read body: %s", err.Error())
	}
	return string(body)
}

func drainBody(readCloser io.ReadCloser) {
	_, _ = io.ReadAll(readCloser)
	_ = readCloser.Close()
}

func truncateString(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
