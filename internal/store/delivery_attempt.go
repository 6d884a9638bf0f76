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

var deliveryAttemptSelect sq.SelectBuilder

func init() {
	deliveryAttemptSelect = sq.
		Select("ID", "EventID", "SubscriptionID", "AttemptNumber", "Status", "HTTPStatusCode", "ResponseBody", "ErrorMessage", "NextRetryAt", "CreateAt").
		From("DeliveryAttempt")
}

// CreateDeliveryAttempt records the given delivery attempt to the database, assigning it a
// unique ID.
//
// The unique constraint on (EventID, SubscriptionID, AttemptNumber) rejects a duplicate
// attempt number recorded by a concurrent dispatcher; check the returned error with
// IsUniqueConstraintError to recognize the lost race.
func (sqlStore *SQLStore) CreateDeliveryAttempt(attempt *model.DeliveryAttempt) error {
	return sqlStore.createDeliveryAttempt(sqlStore.db, attempt)
}

func (sqlStore *SQLStore) createDeliveryAttempt(db execer, attempt *model.DeliveryAttempt) error {
	attempt.ID = model.NewID()
	attempt.CreateAt = model.GetMillis()

	_, err := sqlStore.execBuilder(db, sq.
		Insert("DeliveryAttempt").
		SetMap(map[string]interface{}{
			"ID":             attempt.ID,
			"EventID":        attempt.EventID,
			"SubscriptionID": attempt.SubscriptionID,
			"AttemptNumber":  attempt.AttemptNumber,
			"Status":         attempt.Status,
			"HTTPStatusCode": attempt.HTTPStatusCode,
			"ResponseBody":   attempt.ResponseBody,
			"ErrorMessage":   attempt.ErrorMessage,
			"NextRetryAt":    attempt.NextRetryAt,
			"CreateAt":       attempt.CreateAt,
		}),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create delivery attempt")
	}

	return nil
}

// GetDeliveryAttemptsForEvent fetches all delivery attempts recorded for the given event,
// oldest first.
func (sqlStore *SQLStore) GetDeliveryAttemptsForEvent(eventID string) ([]*model.DeliveryAttempt, error) {
	var attempts []*model.DeliveryAttempt
	err := sqlStore.selectBuilder(sqlStore.db, &attempts, deliveryAttemptSelect.
		Where("EventID = ?", eventID).
		OrderBy("CreateAt ASC", "AttemptNumber ASC"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query delivery attempts")
	}

	return attempts, nil
}

// GetLatestDeliveryAttempt fetches the highest-numbered delivery attempt for the given
// event and subscription, if any.
func (sqlStore *SQLStore) GetLatestDeliveryAttempt(eventID, subscriptionID string) (*model.DeliveryAttempt, error) {
	var attempt model.DeliveryAttempt
	err := sqlStore.getBuilder(sqlStore.db, &attempt, deliveryAttemptSelect.
		Where("EventID = ?", eventID).
		Where("SubscriptionID = ?", subscriptionID).
		OrderBy("AttemptNumber DESC").
		Limit(1),
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to get latest delivery attempt")
	}

	return &attempt, nil
}

// GetDeliveryAttemptCount counts the delivery attempts recorded for the given event and
// subscription, across all statuses.
func (sqlStore *SQLStore) GetDeliveryAttemptCount(eventID, subscriptionID string) (int64, error) {
	count, err := sqlStore.getCount(sq.
		Select("Count (*)").
		From("DeliveryAttempt").
		Where("EventID = ?", eventID).
		Where("SubscriptionID = ?", subscriptionID),
	)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count delivery attempts")
	}

	return count, nil
}

// HasDeliveredAttempt determines whether the given event was already delivered to the
// given subscription.
func (sqlStore *SQLStore) HasDeliveredAttempt(eventID, subscriptionID string) (bool, error) {
	count, err := sqlStore.getCount(sq.
		Select("Count (*)").
		From("DeliveryAttempt").
		Where("EventID = ?", eventID).
		Where("SubscriptionID = ?", subscriptionID).
		Where("Status = ?", model.DeliveryStatusDelivered),
	)
	if err != nil {
		return false, errors.Wrap(err, "failed to count delivered attempts")
	}

	return count > 0, nil
}

// CreateDeadLetteredAttempt records the given terminal delivery attempt and its dead
// letter in a single transaction.
func (sqlStore *SQLStore) CreateDeadLetteredAttempt(attempt *model.DeliveryAttempt, deadLetter *model.DeadLetter) error {
	tx, err := sqlStore.beginTransaction(sqlStore.db)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.RollbackUnlessCommitted()

	err = sqlStore.createDeliveryAttempt(tx, attempt)
	if err != nil {
		return err
	}

	err = sqlStore.createDeadLetter(tx, deadLetter)
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}
