// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

// Package connector implements side-channel notifiers invoked after events
// are published to the outbox.
package connector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mattermost/integrations-hub/model"
)

const slackPostMessageURL = "https://slack.com/api/chat.postMessage"

// SlackConnector posts a channel notification for newly submitted requests
// via the Slack Web API.
type SlackConnector struct {
	token   string
	channel string
	apiURL  string
	client  *http.Client
	logger  logrus.FieldLogger
}

// NewSlackConnector creates a connector posting to the given channel with the
// given bot token.
func NewSlackConnector(token, channel string, logger logrus.FieldLogger) *SlackConnector {
	return &SlackConnector{
		token:   token,
		channel: channel,
		apiURL:  slackPostMessageURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger.WithField("connector", "slack"),
	}
}

// Name identifies the connector in producer logs.
func (s *SlackConnector) Name() string {
	return "slack"
}

// HandleEvent notifies the configured channel about submitted requests. Other
// event types are ignored.
//
// Transient transport errors are retried with exponential backoff; a Slack API
// rejection is terminal.
func (s *SlackConnector) HandleEvent(event *model.OutboxEvent) error {
	if event.EventType != model.EventTypeRequestSubmitted {
		return nil
	}

	message, err := s.formatMessage(event)
	if err != nil {
		return errors.Wrap(err, "failed to format slack message")
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 500 * time.Millisecond
	expBackoff.MaxElapsedTime = 10 * time.Second

	err = backoff.Retry(func() error {
		return s.postMessage(message)
	}, expBackoff)
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"event":   event.ID,
		"channel": s.channel,
	}).Info("Sent slack notification")

	return nil
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackMessage struct {
	Channel string       `json:"channel"`
	Text    string       `json:"text"`
	Blocks  []slackBlock `json:"blocks"`
}

type slackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// formatMessage renders the event payload as a block kit message. Payload
// fields are best effort; a sparse payload still produces a valid message.
func (s *SlackConnector) formatMessage(event *model.OutboxEvent) (*slackMessage, error) {
	var payload map[string]interface{}
	err := json.Unmarshal([]byte(event.Payload), &payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse event payload")
	}

	title := stringField(payload, "title", "New Request")
	requester := stringField(payload, "requester", "Unknown")
	description := stringField(payload, "description", "")

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: fmt.Sprintf("New Request Submitted: %s", title)},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Requester:*\n%s", requester)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Event ID:*\n%s", event.ID)},
			},
		},
	}
	if description != "" {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: fmt.Sprintf("*Description:*\n%s", description)},
		})
	}

	return &slackMessage{
		Channel: s.channel,
		Text:    fmt.Sprintf("New request submitted: %s", title),
		Blocks:  blocks,
	}, nil
}

func (s *SlackConnector) postMessage(message *slackMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return backoff.Permanent(errors.Wrap(err, "failed to marshal slack message"))
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(errors.Wrap(err, "failed to build slack request"))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.token))

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to post slack message")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("slack api responded with status %d", resp.StatusCode)
	}

	var slackResp slackResponse
	err = json.NewDecoder(resp.Body).Decode(&slackResp)
	if err != nil {
		return errors.Wrap(err, "failed to decode slack response")
	}
	if !slackResp.OK {
		return backoff.Permanent(errors.Errorf("slack api error: %s", slackResp.Error))
	}

	return nil
}

func stringField(payload map[string]interface{}, key, fallback string) string {
	if value, ok := payload[key].(string); ok && value != "" {
		return value
	}
	return fallback
}
