// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Subscription registers an HTTP endpoint for webhook delivery of domain
// events. The secret signs every delivery and is never serialized back out.
type Subscription struct {
	ID       string
	Name     string
	URL      string
	Secret   string `json:"-"`
	Events   EventTypes
	Enabled  bool
	CreateAt int64
	UpdateAt int64
}

// SubscriptionFilter describes the parameters used to constrain a set of
// subscriptions.
type SubscriptionFilter struct {
	// EventType, when set, restricts results to subscriptions listening for
	// that event type.
	EventType EventType
	// EnabledOnly, when true, excludes disabled subscriptions.
	EnabledOnly bool
}

// SubscriptionFromReader decodes a json-encoded subscription from the given io.Reader.
func SubscriptionFromReader(reader io.Reader) (*Subscription, error) {
	subscription := Subscription{}
	err := json.NewDecoder(reader).Decode(&subscription)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode subscription")
	}

	return &subscription, nil
}

// SubscriptionsFromReader decodes a json-encoded list of subscriptions from the given io.Reader.
func SubscriptionsFromReader(reader io.Reader) ([]*Subscription, error) {
	subscriptions := []*Subscription{}
	err := json.NewDecoder(reader).Decode(&subscriptions)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode subscriptions")
	}

	return subscriptions, nil
}
