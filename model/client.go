// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// Client is the programmatic interface to the integrations hub API.
type Client struct {
	address    string
	httpClient *http.Client
}

// NewClient creates a client to the integrations hub at the given address.
func NewClient(address string) *Client {
	return &Client{
		address:    address,
		httpClient: &http.Client{},
	}
}

// closeBody ensures the Body of an http.Response is properly closed.
func closeBody(r *http.Response) {
	if r.Body != nil {
		_, _ = io.Copy(io.Discard, r.Body)
		_ = r.Body.Close()
	}
}

func (c *Client) buildURL(urlPath string, args ...interface{}) string {
	return fmt.Sprintf("%s%s", c.address, fmt.Sprintf(urlPath, args...))
}

func (c *Client) doGet(u string) (*http.Response, error) {
	return c.httpClient.Get(u)
}

func (c *Client) doPost(u string, request interface{}) (*http.Response, error) {
	requestBytes, err := json.Marshal(request)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	return c.httpClient.Post(u, "application/json", bytes.NewReader(requestBytes))
}

func (c *Client) doPut(u string, request interface{}) (*http.Response, error) {
	requestBytes, err := json.Marshal(request)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	httpRequest, err := http.NewRequest(http.MethodPut, u, bytes.NewReader(requestBytes))
	if err != nil {
		return nil, err
	}
	httpRequest.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(httpRequest)
}

func (c *Client) doDelete(u string) (*http.Response, error) {
	request, err := http.NewRequest(http.MethodDelete, u, nil)
	if err != nil {
		return nil, err
	}

	return c.httpClient.Do(request)
}

// CreateSubscription registers a new webhook subscription with the hub.
func (c *Client) CreateSubscription(request *CreateSubscriptionRequest) (*Subscription, error) {
	resp, err := c.doPost(c.buildURL("/api/v1/subscriptions"), request)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusCreated:
		return SubscriptionFromReader(resp.Body)

	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// GetSubscriptions fetches the list of subscriptions, newest first.
func (c *Client) GetSubscriptions() ([]*Subscription, error) {
	resp, err := c.doGet(c.buildURL("/api/v1/subscriptions"))
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return SubscriptionsFromReader(resp.Body)

	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// GetSubscription fetches the given subscription, returning nil if it does not exist.
func (c *Client) GetSubscription(subscriptionID string) (*Subscription, error) {
	resp, err := c.doGet(c.buildURL("/api/v1/subscriptions/%s", subscriptionID))
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return SubscriptionFromReader(resp.Body)

	case http.StatusNotFound:
		return nil, nil

	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// UpdateSubscription applies a partial update to the given subscription.
func (c *Client) UpdateSubscription(subscriptionID string, request *PatchSubscriptionRequest) (*Subscription, error) {
	resp, err := c.doPut(c.buildURL("/api/v1/subscriptions/%s", subscriptionID), request)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return SubscriptionFromReader(resp.Body)

	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// DeleteSubscription removes the given subscription.
func (c *Client) DeleteSubscription(subscriptionID string) error {
	resp, err := c.doDelete(c.buildURL("/api/v1/subscriptions/%s", subscriptionID))
	if err != nil {
		return err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil

	default:
		return errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// PublishEvent records a new domain event in the outbox.
func (c *Client) PublishEvent(request *PublishEventRequest) (*OutboxEvent, error) {
	resp, err := c.doPost(c.buildURL("/api/v1/events"), request)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusCreated:
		return OutboxEventFromReader(resp.Body)

	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// GetDeliveryAttempts lists every delivery attempt recorded for the given
// event, oldest first.
func (c *Client) GetDeliveryAttempts(eventID string) ([]*DeliveryAttempt, error) {
	resp, err := c.doGet(c.buildURL("/api/v1/admin/events/%s/attempts", eventID))
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return DeliveryAttemptsFromReader(resp.Body)

	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// GetDeadLetters lists quarantined deliveries, newest first.
func (c *Client) GetDeadLetters() ([]*DeadLetter, error) {
	resp, err := c.doGet(c.buildURL("/api/v1/admin/dead-letters"))
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return DeadLettersFromReader(resp.Body)

	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// ReplayDeadLetter releases a dead letter and dispatches a fresh delivery
// attempt for its pair.
func (c *Client) ReplayDeadLetter(deadLetterID string) (*ReplayDeadLetterResponse, error) {
	resp, err := c.doPost(c.buildURL("/api/v1/admin/dead-letters/%s/replay", deadLetterID), nil)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return ReplayDeadLetterResponseFromReader(resp.Body)

	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}
