// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// EventType identifies the kind of domain event recorded in the outbox.
type EventType string

const (
	// EventTypeRequestSubmitted indicates a new access request was submitted.
	EventTypeRequestSubmitted EventType = "request_submitted"
	// EventTypeRequestApproved indicates an access request was approved.
	EventTypeRequestApproved EventType = "request_approved"
	// EventTypeRequestRejected indicates an access request was rejected.
	EventTypeRequestRejected EventType = "request_rejected"
	// EventTypeRequestUpdated indicates an access request was updated.
	EventTypeRequestUpdated EventType = "request_updated"
)

// AllEventTypes enumerates every event type the hub accepts.
var AllEventTypes = EventTypes{
	EventTypeRequestSubmitted,
	EventTypeRequestApproved,
	EventTypeRequestRejected,
	EventTypeRequestUpdated,
}

// IsValid returns true when the event type is one of the known domain events.
func (t EventType) IsValid() bool {
	return AllEventTypes.Contains(t)
}

// OutboxEvent is a domain event durably recorded for webhook delivery. The
// payload is kept as the exact JSON text that was signed and delivered.
type OutboxEvent struct {
	ID        string
	EventType EventType
	Payload   string
	CreateAt  int64
}

// OutboxEventFromReader decodes a json-encoded outbox event from the given io.Reader.
func OutboxEventFromReader(reader io.Reader) (*OutboxEvent, error) {
	event := OutboxEvent{}
	err := json.NewDecoder(reader).Decode(&event)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode outbox event")
	}

	return &event, nil
}

// PublishEventRequest specifies the parameters for recording a new domain event.
type PublishEventRequest struct {
	EventType EventType
	Payload   map[string]interface{}
}

// Validate validates the values of an event publish request.
func (request *PublishEventRequest) Validate() error {
	if !request.EventType.IsValid() {
		return errors.Errorf("unknown event type %q", request.EventType)
	}
	if request.Payload == nil {
		return errors.New("payload is required")
	}

	return nil
}

// NewPublishEventRequestFromReader will create a PublishEventRequest from an
// io.Reader with JSON data.
func NewPublishEventRequestFromReader(reader io.Reader) (*PublishEventRequest, error) {
	var request PublishEventRequest
	err := json.NewDecoder(reader).Decode(&request)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode publish event request")
	}

	return &request, nil
}
