// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Register registers the API endpoints on the given router.
func Register(rootRouter *mux.Router, context *Context) {
	addContext := func(name string, handler contextHandlerFunc) *contextHandler {
		return newContextHandler(context, name, handler)
	}

	rootRouter.Handle("/health", addContext("health", handleGetHealth)).Methods("GET")
	rootRouter.Handle("/metrics", promhttp.Handler()).Methods("GET")

	apiRouter := rootRouter.PathPrefix("/api/v1").Subrouter()
	initSubscription(apiRouter, context)
	initEvent(apiRouter, context)
	initAdmin(apiRouter, context)
}

// handleGetHealth responds to GET /health as a liveness check.
func handleGetHealth(c *Context, w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	outputJSON(c, w, map[string]string{"status": "ok"})
}
