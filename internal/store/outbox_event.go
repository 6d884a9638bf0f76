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

var outboxEventSelect sq.SelectBuilder

func init() {
	outboxEventSelect = sq.
		Select("ID", "EventType", "Payload", "CreateAt").
		From("OutboxEvent")
}

// GetOutboxEvent fetches the given outbox event by id.
func (sqlStore *SQLStore) GetOutboxEvent(id string) (*model.OutboxEvent, error) {
	var event model.OutboxEvent
	err := sqlStore.getBuilder(sqlStore.db, &event, outboxEventSelect.Where("ID = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to get outbox event by id")
	}

	return &event, nil
}

// GetOutboxEventsForDispatch fetches the oldest outbox events, up to the given limit.
//
// Events remain in the outbox after dispatch; the delivery attempt history
// determines whether work remains for any of them.
func (sqlStore *SQLStore) GetOutboxEventsForDispatch(limit int) ([]*model.OutboxEvent, error) {
	var events []*model.OutboxEvent
	err := sqlStore.selectBuilder(sqlStore.db, &events, outboxEventSelect.
		OrderBy("CreateAt ASC", "ID ASC").
		Limit(uint64(limit)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query outbox events")
	}

	return events, nil
}

// CreateOutboxEvent records the given event to the database, assigning it a unique ID.
func (sqlStore *SQLStore) CreateOutboxEvent(event *model.OutboxEvent) error {
	event.ID = model.NewID()
	event.CreateAt = model.GetMillis()

	_, err := sqlStore.execBuilder(sqlStore.db, sq.
		Insert("OutboxEvent").
		SetMap(map[string]interface{}{
			"ID":        event.ID,
			"EventType": event.EventType,
			"Payload":   event.Payload,
			"CreateAt":  event.CreateAt,
		}),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create outbox event")
	}

	return nil
}
