// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package store

import (
	"github.com/blang/semver"
)

type migration struct {
	fromVersion   semver.Version
	toVersion     semver.Version
	migrationFunc func(execer) error
}

// migrations defines the set of migrations necessary to advance the database to the latest
// expected version.
//
// Note that the canonical schema is currently obtained by applying all migrations to an empty
// database.
var migrations = []migration{
	{semver.MustParse("0.0.0"), semver.MustParse("0.1.0"), func(e execer) error {
		_, err := e.Exec(`
			CREATE TABLE System (
				Key VARCHAR(64) PRIMARY KEY,
				Value VARCHAR(1024) NULL
			);
		`)
		if err != nil {
			return err
		}

		_, err = e.Exec(`
			CREATE TABLE Subscription (
				ID CHAR(26) PRIMARY KEY,
				Name TEXT NOT NULL,
				URL TEXT NOT NULL,
				Secret TEXT NOT NULL,
				Events TEXT NOT NULL,
				Enabled BOOLEAN NOT NULL,
				CreateAt BIGINT NOT NULL,
				UpdateAt BIGINT NOT NULL
			);
		`)
		if err != nil {
			return err
		}

		_, err = e.Exec(`
			CREATE TABLE OutboxEvent (
				ID CHAR(26) PRIMARY KEY,
				EventType VARCHAR(32) NOT NULL CHECK (EventType IN ('request_submitted', 'request_approved', 'request_rejected', 'request_updated')),
				Payload TEXT NOT NULL,
				CreateAt BIGINT NOT NULL
			);
		`)
		if err != nil {
			return err
		}

		_, err = e.Exec(`
			CREATE INDEX ix_outbox_events_created_at ON OutboxEvent (CreateAt);
		`)
		if err != nil {
			return err
		}

		return nil
	}},
	{semver.MustParse("0.1.0"), semver.MustParse("0.2.0"), func(e execer) error {
		_, err := e.Exec(`
			CREATE TABLE DeliveryAttempt (
				ID CHAR(26) PRIMARY KEY,
				EventID CHAR(26) NOT NULL,
				SubscriptionID CHAR(26) NOT NULL,
				AttemptNumber INTEGER NOT NULL,
				Status VARCHAR(32) NOT NULL CHECK (Status IN ('pending', 'delivered', 'failed', 'dead_lettered')),
				HTTPStatusCode INTEGER NOT NULL,
				ResponseBody TEXT NOT NULL,
				ErrorMessage TEXT NOT NULL,
				NextRetryAt BIGINT NOT NULL,
				CreateAt BIGINT NOT NULL,
				CONSTRAINT uq_delivery_idempotency UNIQUE (EventID, SubscriptionID, AttemptNumber)
			);
		`)
		if err != nil {
			return err
		}

		_, err = e.Exec(`
			CREATE INDEX ix_delivery_attempts_pending ON DeliveryAttempt (Status, NextRetryAt);
		`)
		if err != nil {
			return err
		}

		_, err = e.Exec(`
			CREATE TABLE DeadLetter (
				ID CHAR(26) PRIMARY KEY,
				EventID CHAR(26) NOT NULL,
				SubscriptionID CHAR(26) NOT NULL,
				TotalAttempts INTEGER NOT NULL,
				LastError TEXT NOT NULL,
				CreateAt BIGINT NOT NULL,
				CONSTRAINT uq_dead_letter_event_sub UNIQUE (EventID, SubscriptionID)
			);
		`)
		if err != nil {
			return err
		}

		return nil
	}},
}
