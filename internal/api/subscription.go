// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mattermost/integrations-hub/model"
)

// initSubscription registers subscription endpoints on the given router.
func initSubscription(apiRouter *mux.Router, context *Context) {
	addContext := func(name string, handler contextHandlerFunc) *contextHandler {
		return newContextHandler(context, name, handler)
	}

	subscriptionsRouter := apiRouter.PathPrefix("/subscriptions").Subrouter()
	subscriptionsRouter.Handle("", addContext("subscriptions", handleGetSubscriptions)).Methods("GET")
	subscriptionsRouter.Handle("", addContext("subscriptions", handleCreateSubscription)).Methods("POST")

	subscriptionRouter := apiRouter.PathPrefix("/subscriptions/{subscription:[A-Za-z0-9]{26}}").Subrouter()
	subscriptionRouter.Handle("", addContext("subscription", handleGetSubscription)).Methods("GET")
	subscriptionRouter.Handle("", addContext("subscription", handleUpdateSubscription)).Methods("PUT")
	subscriptionRouter.Handle("", addContext("subscription", handleDeleteSubscription)).Methods("DELETE")
}

// handleCreateSubscription responds to POST /api/v1/subscriptions, registering
// a new webhook subscription.
func handleCreateSubscription(c *Context, w http.ResponseWriter, r *http.Request) {
	createSubscriptionRequest, err := model.NewCreateSubscriptionRequestFromReader(r.Body)
	if err != nil {
		c.Logger.WithError(err).Error("failed to decode request")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	subscription, err := createSubscriptionRequest.ToSubscription()
	if err != nil {
		c.Logger.WithError(err).Error("invalid create subscription request")
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	err = c.Store.CreateSubscription(&subscription)
	if err != nil {
		c.Logger.WithError(err).Error("failed to create subscription")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	c.Supervisor.Do()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	outputJSON(c, w, subscription)
}

// handleGetSubscriptions responds to GET /api/v1/subscriptions, returning all
// subscriptions, newest first.
func handleGetSubscriptions(c *Context, w http.ResponseWriter, r *http.Request) {
	subscriptions, err := c.Store.GetSubscriptions(&model.SubscriptionFilter{})
	if err != nil {
		c.Logger.WithError(err).Error("failed to query subscriptions")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if subscriptions == nil {
		subscriptions = []*model.Subscription{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	outputJSON(c, w, subscriptions)
}

// handleGetSubscription responds to GET /api/v1/subscriptions/{subscription},
// returning the subscription in question.
func handleGetSubscription(c *Context, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	subscriptionID := vars["subscription"]
	c.Logger = c.Logger.WithField("subscription", subscriptionID)

	subscription, err := c.Store.GetSubscription(subscriptionID)
	if err != nil {
		c.Logger.WithError(err).Error("failed to query subscription")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if subscription == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	outputJSON(c, w, subscription)
}

// handleUpdateSubscription responds to PUT /api/v1/subscriptions/{subscription},
// applying a partial update. Absent fields keep their current values.
func handleUpdateSubscription(c *Context, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	subscriptionID := vars["subscription"]
	c.Logger = c.Logger.WithField("subscription", subscriptionID)

	patchSubscriptionRequest, err := model.NewPatchSubscriptionRequestFromReader(r.Body)
	if err != nil {
		c.Logger.WithError(err).Error("failed to decode request")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	err = patchSubscriptionRequest.Validate()
	if err != nil {
		c.Logger.WithError(err).Error("invalid patch subscription request")
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	subscription, err := c.Store.GetSubscription(subscriptionID)
	if err != nil {
		c.Logger.WithError(err).Error("failed to query subscription")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if subscription == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if patchSubscriptionRequest.Apply(subscription) {
		err = c.Store.UpdateSubscription(subscription)
		if err != nil {
			c.Logger.WithError(err).Error("failed to update subscription")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		c.Supervisor.Do()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	outputJSON(c, w, subscription)
}

// handleDeleteSubscription responds to DELETE /api/v1/subscriptions/{subscription},
// permanently removing the subscription.
func handleDeleteSubscription(c *Context, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	subscriptionID := vars["subscription"]
	c.Logger = c.Logger.WithField("subscription", subscriptionID)

	subscription, err := c.Store.GetSubscription(subscriptionID)
	if err != nil {
		c.Logger.WithError(err).Error("failed to query subscription")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if subscription == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	err = c.Store.DeleteSubscription(subscriptionID)
	if err != nil {
		c.Logger.WithError(err).Error("failed to delete subscription")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
