// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// DeliveryStatus represents the outcome of a webhook delivery attempt.
type DeliveryStatus string

const (
	// DeliveryStatusPending indicates a retry is scheduled for NextRetryAt.
	DeliveryStatusPending DeliveryStatus = "pending"
	// DeliveryStatusDelivered indicates the receiver acknowledged with a 2xx.
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	// DeliveryStatusFailed indicates a failure with no scheduled retry.
	DeliveryStatusFailed DeliveryStatus = "failed"
	// DeliveryStatusDeadLettered indicates the attempt exhausted the retry
	// budget and quarantined the pair.
	DeliveryStatusDeadLettered DeliveryStatus = "dead_lettered"
)

// DeliveryAttempt records a single webhook POST for an (event, subscription)
// pair. A committed pending row is the scheduled retry; there is no separate
// retry queue.
type DeliveryAttempt struct {
	ID             string
	EventID        string
	SubscriptionID string
	AttemptNumber  int
	Status         DeliveryStatus
	HTTPStatusCode int
	ResponseBody   string
	ErrorMessage   string
	NextRetryAt    int64
	CreateAt       int64
}

// DeliveryAttemptsFromReader decodes a json-encoded list of delivery attempts
// from the given io.Reader.
func DeliveryAttemptsFromReader(reader io.Reader) ([]*DeliveryAttempt, error) {
	attempts := []*DeliveryAttempt{}
	err := json.NewDecoder(reader).Decode(&attempts)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode delivery attempts")
	}

	return attempts, nil
}
