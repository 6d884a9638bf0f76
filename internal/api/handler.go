// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package api

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mattermost/integrations-hub/model"
)

type contextHandlerFunc func(c *Context, w http.ResponseWriter, r *http.Request)

type contextHandler struct {
	context *Context
	handler contextHandlerFunc
	name    string
}

func (h contextHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	context := h.context.Clone()
	context.RequestID = model.NewID()
	context.Logger = context.Logger.WithFields(logrus.Fields{
		"path":    r.URL.Path,
		"request": context.RequestID,
	})

	wrappedWriter := NewWrappedWriter(w)
	start := time.Now()

	h.handler(context, wrappedWriter, r)

	if context.Metrics != nil {
		context.Metrics.ObserveAPIRequest(h.name, r.Method, wrappedWriter.StatusCode(), time.Since(start).Seconds())
	}
}

func newContextHandler(context *Context, name string, handler contextHandlerFunc) *contextHandler {
	return &contextHandler{
		context: context,
		handler: handler,
		name:    name,
	}
}
