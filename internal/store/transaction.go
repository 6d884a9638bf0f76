// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package store

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// transaction is a wrapper around *sqlx.Tx providing a RollbackUnlessCommitted
// helper that is safe to defer.
type transaction struct {
	*sqlx.Tx
	sqlStore  *SQLStore
	committed bool
}

// Commit commits the pending transaction.
func (t *transaction) Commit() error {
	err := t.Tx.Commit()
	if err != nil {
		return err
	}

	t.committed = true

	return nil
}

// RollbackUnlessCommitted rollbacks the transaction if it has not yet been
// committed, logging any failure to do so.
func (t *transaction) RollbackUnlessCommitted() {
	if t.committed {
		return
	}

	err := t.Tx.Rollback()
	if err != nil {
		t.sqlStore.logger.WithError(err).Error("failed to rollback transaction")
	}
}

// beginTransaction begins a new transaction against the given database.
func (sqlStore *SQLStore) beginTransaction(db *sqlx.DB) (*transaction, error) {
	tx, err := db.Beginx()
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}

	return &transaction{
		Tx:       tx,
		sqlStore: sqlStore,
	}, nil
}
