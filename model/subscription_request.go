// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"encoding/json"
	"io"
	"net/url"

	"github.com/pkg/errors"
)

const minSecretLength = 16

// CreateSubscriptionRequest represents a request to create a Subscription.
type CreateSubscriptionRequest struct {
	Name    string
	URL     string
	Secret  string
	Events  EventTypes
	Enabled *bool
}

// ToSubscription validates the request and converts it to a subscription.
func (r CreateSubscriptionRequest) ToSubscription() (Subscription, error) {
	if err := validateSubscriptionURL(r.URL); err != nil {
		return Subscription{}, err
	}
	if err := validateSubscriptionSecret(r.Secret); err != nil {
		return Subscription{}, err
	}
	if err := validateSubscriptionEvents(r.Events); err != nil {
		return Subscription{}, err
	}

	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}

	return Subscription{
		Name:    r.Name,
		URL:     r.URL,
		Secret:  r.Secret,
		Events:  r.Events,
		Enabled: enabled,
	}, nil
}

// NewCreateSubscriptionRequestFromReader will create a CreateSubscriptionRequest
// from an io.Reader with JSON data.
func NewCreateSubscriptionRequestFromReader(reader io.Reader) (*CreateSubscriptionRequest, error) {
	subRequest := CreateSubscriptionRequest{}
	err := json.NewDecoder(reader).Decode(&subRequest)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode create subscription request")
	}

	return &subRequest, nil
}

// PatchSubscriptionRequest represents a partial update to a Subscription. Nil
// fields keep their current values.
type PatchSubscriptionRequest struct {
	Name    *string
	URL     *string
	Secret  *string
	Events  *EventTypes
	Enabled *bool
}

// Validate validates the values supplied in a subscription patch.
func (p *PatchSubscriptionRequest) Validate() error {
	if p.URL != nil {
		if err := validateSubscriptionURL(*p.URL); err != nil {
			return err
		}
	}
	if p.Secret != nil {
		if err := validateSubscriptionSecret(*p.Secret); err != nil {
			return err
		}
	}
	if p.Events != nil {
		if err := validateSubscriptionEvents(*p.Events); err != nil {
			return err
		}
	}

	return nil
}

// Apply applies the patch to the given subscription, returning true if the
// subscription was changed.
func (p *PatchSubscriptionRequest) Apply(subscription *Subscription) bool {
	var applied bool

	if p.Name != nil && *p.Name != subscription.Name {
		applied = true
		subscription.Name = *p.Name
	}
	if p.URL != nil && *p.URL != subscription.URL {
		applied = true
		subscription.URL = *p.URL
	}
	if p.Secret != nil && *p.Secret != subscription.Secret {
		applied = true
		subscription.Secret = *p.Secret
	}
	if p.Events != nil {
		applied = true
		subscription.Events = *p.Events
	}
	if p.Enabled != nil && *p.Enabled != subscription.Enabled {
		applied = true
		subscription.Enabled = *p.Enabled
	}

	return applied
}

// NewPatchSubscriptionRequestFromReader will create a PatchSubscriptionRequest
// from an io.Reader with JSON data.
func NewPatchSubscriptionRequestFromReader(reader io.Reader) (*PatchSubscriptionRequest, error) {
	patchRequest := PatchSubscriptionRequest{}
	err := json.NewDecoder(reader).Decode(&patchRequest)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode patch subscription request")
	}

	return &patchRequest, nil
}

func validateSubscriptionURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("url is required")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.Wrap(err, "failed to parse subscription url")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.Errorf("subscription url must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("subscription url must include a host")
	}

	return nil
}

func validateSubscriptionSecret(secret string) error {
	if len(secret) < minSecretLength {
		return errors.Errorf("secret must be at least %d characters", minSecretLength)
	}

	return nil
}

func validateSubscriptionEvents(events EventTypes) error {
	if len(events) == 0 {
		return errors.New("at least one event type is required")
	}
	for _, eventType := range events {
		if !eventType.IsValid() {
			return errors.Errorf("unknown event type %q", eventType)
		}
	}

	return nil
}
