// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	hubNamespace        = "hub"
	hubSubsystemEvents  = "events"
	hubSubsystemWebhook = "webhook"
	hubSubsystemAPI     = "api"
)

// HubMetrics holds all of the metrics needed to properly instrument the hub server.
type HubMetrics struct {
	EventsPublishedCounter      *prometheus.CounterVec
	WebhookDeliveriesCounter    *prometheus.CounterVec
	WebhookDeliveryDurationHist prometheus.Histogram
	APIRequestsCounter          *prometheus.CounterVec
	APIRequestDurationHist      *prometheus.HistogramVec
}

// New creates a new Prometheus-based metrics object to be used throughout the
// hub in order to record publishing, delivery and API performance metrics.
func New() *HubMetrics {
	return &HubMetrics{
		EventsPublishedCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: hubNamespace,
				Subsystem: hubSubsystemEvents,
				Name:      "published_total",
				Help:      "The number of events accepted into the outbox",
			},
			[]string{"event_type"},
		),

		WebhookDeliveriesCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: hubNamespace,
				Subsystem: hubSubsystemWebhook,
				Name:      "deliveries_total",
				Help:      "The number of webhook delivery attempts by outcome",
			},
			[]string{"status"},
		),

		WebhookDeliveryDurationHist: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: hubNamespace,
				Subsystem: hubSubsystemWebhook,
				Name:      "delivery_duration_seconds",
				Help:      "The duration of webhook delivery requests",
				Buckets:   prometheus.DefBuckets,
			},
		),

		APIRequestsCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: hubNamespace,
				Subsystem: hubSubsystemAPI,
				Name:      "requests_total",
				Help:      "The number of API requests by handler, method and status code",
			},
			[]string{"handler", "method", "status"},
		),

		APIRequestDurationHist: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: hubNamespace,
				Subsystem: hubSubsystemAPI,
				Name:      "request_duration_seconds",
				Help:      "The duration of API requests by handler and method",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"handler", "method"},
		),
	}
}

// IncrementEventsPublished records an event accepted into the outbox.
func (m *HubMetrics) IncrementEventsPublished(eventType string) {
	m.EventsPublishedCounter.WithLabelValues(eventType).Inc()
}

// ObserveWebhookDelivery records the outcome and duration of a single webhook
// delivery attempt.
func (m *HubMetrics) ObserveWebhookDelivery(status string, elapsedSeconds float64) {
	m.WebhookDeliveriesCounter.WithLabelValues(status).Inc()
	m.WebhookDeliveryDurationHist.Observe(elapsedSeconds)
}

// ObserveAPIRequest records a handled API request.
func (m *HubMetrics) ObserveAPIRequest(handler, method string, statusCode int, elapsedSeconds float64) {
	m.APIRequestsCounter.WithLabelValues(handler, method, strconv.Itoa(statusCode)).Inc()
	m.APIRequestDurationHist.WithLabelValues(handler, method).Observe(elapsedSeconds)
}
