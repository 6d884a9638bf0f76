// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vrischmann/envconfig"

	"github.com/mattermost/integrations-hub/internal/api"
	"github.com/mattermost/integrations-hub/internal/connector"
	"github.com/mattermost/integrations-hub/internal/events"
	"github.com/mattermost/integrations-hub/internal/metrics"
	"github.com/mattermost/integrations-hub/internal/store"
	"github.com/mattermost/integrations-hub/internal/supervisor"
)

// serverEnvironment holds the IH_-prefixed environment settings of the hub
// server. Flags override the listen address, database and log level.
type serverEnvironment struct {
	DatabaseURL                 string  `envconfig:"default=sqlite3://hub.db"`
	Listen                      string  `envconfig:"default=:8065"`
	DeliveryPollIntervalSeconds float64 `envconfig:"default=2.0"`
	DeliveryMaxAttempts         int     `envconfig:"default=5"`
	DeliveryBackoffBaseSeconds  float64 `envconfig:"default=2.0"`
	DeliveryTimeoutSeconds      float64 `envconfig:"default=10.0"`
	LogLevel                    string  `envconfig:"default=info"`
	SlackBotToken               string  `envconfig:"optional"`
	SlackChannel                string  `envconfig:"default=#access-requests"`
}

func newCmdServer() *cobra.Command {
	var flags serverFlags

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the integrations hub server.",
		RunE: func(command *cobra.Command, args []string) error {
			command.SilenceUsage = true
			return executeServerCmd(command, flags)
		},
		PreRun: func(command *cobra.Command, args []string) {
			flags.addFlags(command)
		},
	}

	flags.registerFlags(cmd)

	return cmd
}

func executeServerCmd(command *cobra.Command, flags serverFlags) error {
	var env serverEnvironment
	err := envconfig.InitWithPrefix(&env, "IH")
	if err != nil {
		return errors.Wrap(err, "failed to read environment configuration")
	}

	if command.Flags().Changed("database") {
		env.DatabaseURL = flags.database
	}
	if command.Flags().Changed("listen") {
		env.Listen = flags.listen
	}
	if command.Flags().Changed("log-level") {
		env.LogLevel = flags.logLevel
	}

	level, err := logrus.ParseLevel(env.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %s", env.LogLevel)
	}
	logger.SetLevel(level)
	if flags.debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	if flags.machineLogs {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	logger := logger.WithField("instance", instanceID)

	sqlStore, err := store.New(env.DatabaseURL, logger)
	if err != nil {
		return err
	}

	currentVersion, err := sqlStore.GetCurrentVersion()
	if err != nil {
		return err
	}
	serverVersion := store.LatestVersion()

	// Require the schema to be at least the server version, and also the same major
	// version.
	if currentVersion.LT(serverVersion) || currentVersion.Major != serverVersion.Major {
		return errors.Errorf("server requires at least schema %s, current is %s", serverVersion, currentVersion)
	}

	logger.WithFields(logrus.Fields{
		"store-version": currentVersion,
		"poll-interval": env.DeliveryPollIntervalSeconds,
		"max-attempts":  env.DeliveryMaxAttempts,
		"backoff-base":  env.DeliveryBackoffBaseSeconds,
	}).Info("Starting Integrations Hub Server")

	hubMetrics := metrics.New()

	dispatcher := events.NewDispatcher(sqlStore, hubMetrics, events.DispatcherConfig{
		MaxAttempts:        env.DeliveryMaxAttempts,
		BackoffBaseSeconds: env.DeliveryBackoffBaseSeconds,
		RequestTimeout:     secondsToDuration(env.DeliveryTimeoutSeconds),
	}, logger)

	// The dispatcher is wrapped in a scheduler to trigger it periodically in
	// addition to being poked by the API layer.
	scheduler := supervisor.NewScheduler(dispatcher, secondsToDuration(env.DeliveryPollIntervalSeconds), logger)
	defer scheduler.Close()

	producer := events.NewProducer(sqlStore, hubMetrics, logger)
	if env.SlackBotToken != "" {
		producer.RegisterConnector(connector.NewSlackConnector(env.SlackBotToken, env.SlackChannel, logger))
		logger.WithField("channel", env.SlackChannel).Info("Slack connector enabled")
	} else {
		logger.Debug("Slack connector disabled; no bot token configured")
	}

	router := mux.NewRouter()

	api.Register(router, &api.Context{
		Store:      sqlStore,
		Supervisor: scheduler,
		Producer:   producer,
		Dispatcher: dispatcher,
		Metrics:    hubMetrics,
		Logger:     logger,
	})

	srv := &http.Server{
		Addr:           env.Listen,
		Handler:        router,
		ReadTimeout:    180 * time.Second,
		WriteTimeout:   180 * time.Second,
		IdleTimeout:    time.Second * 180,
		MaxHeaderBytes: 1 << 20,
		ErrorLog:       stdlog.New(&logrusWriter{logger}, "", 0),
	}

	go func() {
		logger.WithField("addr", srv.Addr).Info("Listening")
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Failed to listen and serve")
		}
	}()

	c := make(chan os.Signal, 1)
	// We'll accept graceful shutdowns when quit via SIGINT (Ctrl+C) or SIGTERM.
	// SIGKILL or SIGQUIT will not be caught.
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Block until we receive our signal.
	<-c
	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)

	return nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
