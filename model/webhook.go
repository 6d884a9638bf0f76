// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"encoding/json"
)

// Webhook delivery headers. The signature covers "<timestamp>.<payload>"
// where payload is the stored event payload text.
const (
	HeaderWebhookSignature = "X-Webhook-Signature"
	HeaderWebhookTimestamp = "X-Webhook-Timestamp"
	HeaderWebhookEvent     = "X-Webhook-Event"
	HeaderWebhookEventID   = "X-Webhook-Event-Id"
)

// WebhookPayload is the JSON document POSTed to subscription endpoints.
type WebhookPayload struct {
	EventID   string          `json:"event_id"`
	EventType EventType       `json:"event_type"`
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// ToJSON returns a JSON string representation of the webhook payload.
func (p *WebhookPayload) ToJSON() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	return string(b), nil
}
