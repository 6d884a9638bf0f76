// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// DeadLetter quarantines an (event, subscription) pair after the delivery
// retry budget is exhausted. No further deliveries happen until an operator
// replays it.
type DeadLetter struct {
	ID             string
	EventID        string
	SubscriptionID string
	TotalAttempts  int
	LastError      string
	CreateAt       int64
}

// ReplayDeadLetterResponse is returned after a dead letter was replayed.
type ReplayDeadLetterResponse struct {
	Status       string `json:"status"`
	DeadLetterID string `json:"dead_letter_id"`
}

// DeadLetterFromReader decodes a json-encoded dead letter from the given io.Reader.
func DeadLetterFromReader(reader io.Reader) (*DeadLetter, error) {
	deadLetter := DeadLetter{}
	err := json.NewDecoder(reader).Decode(&deadLetter)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode dead letter")
	}

	return &deadLetter, nil
}

// DeadLettersFromReader decodes a json-encoded list of dead letters from the
// given io.Reader.
func DeadLettersFromReader(reader io.Reader) ([]*DeadLetter, error) {
	deadLetters := []*DeadLetter{}
	err := json.NewDecoder(reader).Decode(&deadLetters)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode dead letters")
	}

	return deadLetters, nil
}

// ReplayDeadLetterResponseFromReader decodes a json-encoded replay response
// from the given io.Reader.
func ReplayDeadLetterResponseFromReader(reader io.Reader) (*ReplayDeadLetterResponse, error) {
	response := ReplayDeadLetterResponse{}
	err := json.NewDecoder(reader).Decode(&response)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode replay response")
	}

	return &response, nil
}
