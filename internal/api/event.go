// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mattermost/integrations-hub/model"
)

// initEvent registers event publication endpoints on the given router.
func initEvent(apiRouter *mux.Router, context *Context) {
	addContext := func(name string, handler contextHandlerFunc) *contextHandler {
		return newContextHandler(context, name, handler)
	}

	eventsRouter := apiRouter.PathPrefix("/events").Subrouter()
	eventsRouter.Handle("", addContext("events", handlePublishEvent)).Methods("POST")
}

// handlePublishEvent responds to POST /api/v1/events, recording a new domain
// event in the outbox and poking the dispatcher to pick it up immediately.
func handlePublishEvent(c *Context, w http.ResponseWriter, r *http.Request) {
	publishEventRequest, err := model.NewPublishEventRequestFromReader(r.Body)
	if err != nil {
		c.Logger.WithError(err).Error("failed to decode request")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	err = publishEventRequest.Validate()
	if err != nil {
		c.Logger.WithError(err).Error("invalid publish event request")
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	event, err := c.Producer.PublishEvent(publishEventRequest)
	if err != nil {
		c.Logger.WithError(err).Error("failed to publish event")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	c.Supervisor.Do()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	outputJSON(c, w, event)
}
