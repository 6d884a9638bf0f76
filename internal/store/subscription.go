// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package store

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/mattermost/integrations-hub/model"
)

var subscriptionSelect sq.SelectBuilder

func init() {
	subscriptionSelect = sq.
		Select("ID", "Name", "URL", "Secret", "Events", "Enabled", "CreateAt", "UpdateAt").
		From("Subscription")
}

// GetSubscription fetches the given subscription by id.
func (sqlStore *SQLStore) GetSubscription(id string) (*model.Subscription, error) {
	var subscription model.Subscription
	err := sqlStore.getBuilder(sqlStore.db, &subscription, subscriptionSelect.Where("ID = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to get subscription by id")
	}

	return &subscription, nil
}

// GetSubscriptions fetches the subscriptions matching the given filter, newest first.
func (sqlStore *SQLStore) GetSubscriptions(filter *model.SubscriptionFilter) ([]*model.Subscription, error) {
	builder := subscriptionSelect.OrderBy("CreateAt DESC", "ID DESC")
	if filter.EnabledOnly {
		builder = builder.Where("Enabled = ?", true)
	}
	if filter.EventType != "" {
		// The LIKE match narrows the scan over the comma-separated Events
		// column; exact matching happens below to rule out substrings.
		builder = builder.Where("Events LIKE ?", "%"+string(filter.EventType)+"%")
	}

	var subscriptions []*model.Subscription
	err := sqlStore.selectBuilder(sqlStore.db, &subscriptions, builder)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query subscriptions")
	}

	if filter.EventType == "" {
		return subscriptions, nil
	}

	matching := make([]*model.Subscription, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		if subscription.Events.Contains(filter.EventType) {
			matching = append(matching, subscription)
		}
	}

	return matching, nil
}

// CreateSubscription records the given subscription to the database, assigning it a unique ID.
func (sqlStore *SQLStore) CreateSubscription(subscription *model.Subscription) error {
	subscription.ID = model.NewID()
	subscription.CreateAt = model.GetMillis()
	subscription.UpdateAt = subscription.CreateAt

	_, err := sqlStore.execBuilder(sqlStore.db, sq.
		Insert("Subscription").
		SetMap(map[string]interface{}{
			"ID":       subscription.ID,
			"Name":     subscription.Name,
			"URL":      subscription.URL,
			"Secret":   subscription.Secret,
			"Events":   subscription.Events,
			"Enabled":  subscription.Enabled,
			"CreateAt": subscription.CreateAt,
			"UpdateAt": subscription.UpdateAt,
		}),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create subscription")
	}

	return nil
}

// UpdateSubscription updates the given subscription in the database.
func (sqlStore *SQLStore) UpdateSubscription(subscription *model.Subscription) error {
	subscription.UpdateAt = model.GetMillis()

	_, err := sqlStore.execBuilder(sqlStore.db, sq.
		Update("Subscription").
		SetMap(map[string]interface{}{
			"Name":     subscription.Name,
			"URL":      subscription.URL,
			"Secret":   subscription.Secret,
			"Events":   subscription.Events,
			"Enabled":  subscription.Enabled,
			"UpdateAt": subscription.UpdateAt,
		}).
		Where("ID = ?", subscription.ID),
	)
	if err != nil {
		return errors.Wrap(err, "failed to update subscription")
	}

	return nil
}

// DeleteSubscription permanently removes the given subscription from the database.
//
// Past delivery attempts referencing the subscription are retained for audit.
func (sqlStore *SQLStore) DeleteSubscription(id string) error {
	_, err := sqlStore.execBuilder(sqlStore.db, sq.
		Delete("Subscription").
		Where("ID = ?", id),
	)
	if err != nil {
		return errors.Wrap(err, "failed to delete subscription")
	}

	return nil
}
