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

var deadLetterSelect sq.SelectBuilder

func init() {
	deadLetterSelect = sq.
		Select("ID", "EventID", "SubscriptionID", "TotalAttempts", "LastError", "CreateAt").
		From("DeadLetter")
}

// GetDeadLetter fetches the given dead letter by id.
func (sqlStore *SQLStore) GetDeadLetter(id string) (*model.DeadLetter, error) {
	var deadLetter model.DeadLetter
	err := sqlStore.getBuilder(sqlStore.db, &deadLetter, deadLetterSelect.Where("ID = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to get dead letter by id")
	}

	return &deadLetter, nil
}

// GetDeadLetters fetches all dead letters, newest first.
func (sqlStore *SQLStore) GetDeadLetters() ([]*model.DeadLetter, error) {
	var deadLetters []*model.DeadLetter
	err := sqlStore.selectBuilder(sqlStore.db, &deadLetters, deadLetterSelect.
		OrderBy("CreateAt DESC", "ID DESC"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query dead letters")
	}

	return deadLetters, nil
}

// GetDeadLetterForEventAndSubscription fetches the dead letter quarantining the given
// event and subscription pair, if any.
func (sqlStore *SQLStore) GetDeadLetterForEventAndSubscription(eventID, subscriptionID string) (*model.DeadLetter, error) {
	var deadLetter model.DeadLetter
	err := sqlStore.getBuilder(sqlStore.db, &deadLetter, deadLetterSelect.
		Where("EventID = ?", eventID).
		Where("SubscriptionID = ?", subscriptionID),
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to get dead letter for event and subscription")
	}

	return &deadLetter, nil
}

func (sqlStore *SQLStore) createDeadLetter(db execer, deadLetter *model.DeadLetter) error {
	deadLetter.ID = model.NewID()
	deadLetter.CreateAt = model.GetMillis()

	_, err := sqlStore.execBuilder(db, sq.
		Insert("DeadLetter").
		SetMap(map[string]interface{}{
			"ID":             deadLetter.ID,
			"EventID":        deadLetter.EventID,
			"SubscriptionID": deadLetter.SubscriptionID,
			"TotalAttempts":  deadLetter.TotalAttempts,
			"LastError":      deadLetter.LastError,
			"CreateAt":       deadLetter.CreateAt,
		}),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create dead letter")
	}

	return nil
}

// ReleaseDeadLetter removes the given dead letter and downgrades the dead-lettered
// attempts of its event and subscription pair to failed, in a single transaction.
//
// Releasing clears the quarantine so a fresh delivery attempt can proceed; the attempt
// history is preserved and the attempt counter keeps climbing from where it left off.
func (sqlStore *SQLStore) ReleaseDeadLetter(deadLetter *model.DeadLetter) error {
	tx, err := sqlStore.beginTransaction(sqlStore.db)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.RollbackUnlessCommitted()

	_, err = sqlStore.execBuilder(tx, sq.
		Delete("DeadLetter").
		Where("ID = ?", deadLetter.ID),
	)
	if err != nil {
		return errors.Wrap(err, "failed to delete dead letter")
	}

	_, err = sqlStore.execBuilder(tx, sq.
		Update("DeliveryAttempt").
		Set("Status", model.DeliveryStatusFailed).
		Where("EventID = ?", deadLetter.EventID).
		Where("SubscriptionID = ?", deadLetter.SubscriptionID).
		Where("Status = ?", model.DeliveryStatusDeadLettered),
	)
	if err != nil {
		return errors.Wrap(err, "failed to downgrade dead-lettered attempts")
	}

	err = tx.Commit()
	if err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}
