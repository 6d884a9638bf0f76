// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mattermost/integrations-hub/model"
)

// initAdmin registers delivery inspection and replay endpoints on the given router.
func initAdmin(apiRouter *mux.Router, context *Context) {
	addContext := func(name string, handler contextHandlerFunc) *contextHandler {
		return newContextHandler(context, name, handler)
	}

	adminRouter := apiRouter.PathPrefix("/admin").Subrouter()
	adminRouter.Handle("/events/{event:[A-Za-z0-9]{26}}/attempts", addContext("attempts", handleGetDeliveryAttempts)).Methods("GET")
	adminRouter.Handle("/dead-letters", addContext("deadLetters", handleGetDeadLetters)).Methods("GET")
	adminRouter.Handle("/dead-letters/{deadletter:[A-Za-z0-9]{26}}/replay", addContext("replay", handleReplayDeadLetter)).Methods("POST")
}

// handleGetDeliveryAttempts responds to GET /api/v1/admin/events/{event}/attempts,
// returning every delivery attempt for the event, oldest first. Unknown events
// yield an empty list.
func handleGetDeliveryAttempts(c *Context, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	eventID := vars["event"]
	c.Logger = c.Logger.WithField("event", eventID)

	attempts, err := c.Store.GetDeliveryAttemptsForEvent(eventID)
	if err != nil {
		c.Logger.WithError(err).Error("failed to query delivery attempts")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if attempts == nil {
		attempts = []*model.DeliveryAttempt{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	outputJSON(c, w, attempts)
}

// handleGetDeadLetters responds to GET /api/v1/admin/dead-letters, returning
// all quarantined deliveries, newest first.
func handleGetDeadLetters(c *Context, w http.ResponseWriter, r *http.Request) {
	deadLetters, err := c.Store.GetDeadLetters()
	if err != nil {
		c.Logger.WithError(err).Error("failed to query dead letters")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if deadLetters == nil {
		deadLetters = []*model.DeadLetter{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	outputJSON(c, w, deadLetters)
}

// handleReplayDeadLetter responds to POST /api/v1/admin/dead-letters/{deadletter}/replay,
// releasing the dead letter and making one fresh delivery attempt.
//
// The response is 200 only when the fresh attempt delivered; a missing dead
// letter, missing referents, or a failed fresh attempt all answer 404. The
// outcome is recorded in the attempt history either way.
func handleReplayDeadLetter(c *Context, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	deadLetterID := vars["deadletter"]
	c.Logger = c.Logger.WithField("deadLetter", deadLetterID)

	deadLetter, err := c.Store.GetDeadLetter(deadLetterID)
	if err != nil {
		c.Logger.WithError(err).Error("failed to query dead letter")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if deadLetter == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	delivered, err := c.Dispatcher.ReplayDeadLetter(deadLetter)
	if err != nil {
		c.Logger.WithError(err).Error("failed to replay dead letter")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !delivered {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	outputJSON(c, w, model.ReplayDeadLetterResponse{
		Status:       "replayed",
		DeadLetterID: deadLetter.ID,
	})
}
