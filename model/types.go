// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// EventTypes is the set of event types a subscription listens for. It is kept
// in the database as a single comma-separated TEXT column and rematerialized
// on read.
type EventTypes []EventType

func (ts EventTypes) Value() (driver.Value, error) {
	strs := make([]string, 0, len(ts))
	for _, t := range ts {
		strs = append(strs, string(t))
	}
	return strings.Join(strs, ","), nil
}

func (ts *EventTypes) Scan(v interface{}) error {
	if v == nil {
		return nil
	}

	var raw string
	switch data := v.(type) {
	case string: // sqlite's text
		raw = data
	case []byte: // psqls text
		raw = string(data)
	default:
		return fmt.Errorf("cannot scan type %T into EventTypes", v)
	}

	if raw == "" {
		*ts = nil
		return nil
	}

	parts := strings.Split(raw, ",")
	types := make(EventTypes, 0, len(parts))
	for _, part := range parts {
		types = append(types, EventType(strings.TrimSpace(part)))
	}
	*ts = types

	return nil
}

// Contains returns true when the given event type is part of the set.
func (ts EventTypes) Contains(eventType EventType) bool {
	for _, t := range ts {
		if t == eventType {
			return true
		}
	}
	return false
}
