package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TFMV/querylab/cmd/querylab/config"
	"github.com/TFMV/querylab/pkg/client"
	"github.com/TFMV/querylab/pkg/infrastructure/metrics"
	"github.com/TFMV/querylab/pkg/poller"
	"github.com/TFMV/querylab/pkg/render"
	"github.com/TFMV/querylab/pkg/services"
	"github.com/TFMV/querylab/pkg/session"
)

// app is everything one command invocation needs.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger

	store session.Store
	sess  *session.Session

	registry      *prometheus.Registry
	metricsServer *metrics.MetricsServer

	render  *render.Renderer
	queries services.QueryService
	history services.HistoryService
	samples services.SampleDataService
	auth    services.AuthService
}

func newApp(cmd *cobra.Command, v *viper.Viper) (*app, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, err
	}

	logger := setupLogging(cmd.ErrOrStderr(), cfg.LogLevel)

	sessionPath := cfg.SessionFile
	if sessionPath == "" {
		if sessionPath, err = session.DefaultPath(); err != nil {
			return nil, err
		}
	}
	store := session.NewFileStore(sessionPath)
	sess, err := store.Load()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewPrometheusCollector(registry)

	teardown := session.Teardown(sess, store, func(err error) {
		logger.Warn().Err(err).Str("path", sessionPath).Msg("Failed to remove session file")
	})
	c, err := client.New(cfg.BaseURL,
		client.WithTimeout(cfg.Timeout),
		client.WithTokenSource(sess),
		client.WithLogger(logger.With().Str("component", "client").Logger()),
		client.WithMetrics(collector),
		client.WithUnauthorizedHandler(func() {
			logger.Warn().Msg("Backend rejected the session token, logging out")
			teardown()
		}),
	)
	if err != nil {
		return nil, err
	}

	svcMetrics := services.NewMetricsCollector(collector)
	svcLogger := func(component string) services.Logger {
		return services.NewLogger(logger.With().Str("component", component).Logger())
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		sess:     sess,
		registry: registry,
		render: render.New(cmd.OutOrStdout(),
			render.WithColor(cfg.Color),
			render.WithMaxRows(cfg.MaxRows)),
		queries: services.NewQueryService(c, svcLogger("query_service"), svcMetrics),
		history: services.NewHistoryService(c, svcLogger("history_service")),
		samples: services.NewSampleDataService(c, poller.New(logger), svcLogger("sample_service"), svcMetrics),
		auth:    services.NewAuthService(c, sess, store, svcLogger("auth_service")),
	}

	if cfg.Metrics.Enabled {
		a.startMetrics()
	}

	return a, nil
}

func (a *app) startMetrics() {
	a.metricsServer = metrics.NewMetricsServer(a.cfg.Metrics.Address, a.cfg.Metrics.Path, a.registry)
	go func() {
		a.logger.Info().Str("address", a.cfg.Metrics.Address).Msg("Starting metrics server")
		if err := a.metricsServer.Start(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to start metrics server")
		}
	}()
}

// close releases what newApp started.
func (a *app) close() {
	if a.metricsServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.metricsServer.Stop(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to stop metrics server")
	}
}

// require checks that the current session may use route.
func (a *app) require(route session.Route) error {
	return session.Authorize(a.sess, route, time.Now())
}

// withApp wraps a command body with app construction and teardown.
func withApp(v *viper.Viper, route session.Route, run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, v)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.require(route); err != nil {
			return err
		}
		return run(cmd, a, args)
	}
}
