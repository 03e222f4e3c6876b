package streamhub

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kbukum/streamhub/auth"
	"github.com/kbukum/streamhub/bootstrap"
	"github.com/kbukum/streamhub/component"
	"github.com/kbukum/streamhub/feed"
	"github.com/kbukum/streamhub/logger"
	"github.com/kbukum/streamhub/observability"
	"github.com/kbukum/streamhub/routes"
	"github.com/kbukum/streamhub/server"
	"github.com/kbukum/streamhub/sse"
)

// Hub is the wired service: telemetry, the stream registry and the HTTP
// server, registered on a bootstrap.App in that start order.
type Hub struct {
	Telemetry  *observability.Component
	Streams    *sse.Component
	Server     *server.Server
	Prometheus *prometheus.Registry
}

// Wire builds every component from app.Cfg, mounts the routes and registers
// the components on app. Open streams are ended by an OnStop hook, before the
// HTTP server drains.
func Wire(app *bootstrap.App[*Config]) (*Hub, error) {
	cfg := app.Cfg
	log := app.Logger

	telemetry := observability.NewComponent(cfg.Observability, cfg.Name, cfg.Version, cfg.Environment)

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	streams := sse.NewComponent(sse.Options{
		KeepAlive:    cfg.SSE.KeepAlive,
		WriteTimeout: cfg.SSE.WriteTimeout,
		AllowOrigin:  cfg.SSE.CORSOrigin,
		Metrics:      sse.NewMetrics(promReg),
		Logger:       log.WithComponent("sse"),
	})
	sse.ObserveRegistry(promReg, streams.Registry())

	httpMetrics, err := observability.NewMetrics(observability.Meter(cfg.Name))
	if err != nil {
		return nil, fmt.Errorf("creating request metrics: %w", err)
	}

	gen, err := feed.NewGenerator(nil)
	if err != nil {
		return nil, fmt.Errorf("creating feed generator: %w", err)
	}
	producer := feed.NewProducer(gen,
		feed.WithInterval(cfg.SSE.FeedInterval),
		feed.WithMetrics(httpMetrics),
		feed.WithLogger(log.WithComponent("feed")),
	)

	var validator auth.TokenValidator
	if cfg.Auth.Enabled {
		svc, err := auth.NewProducerService(cfg.Auth.JWT)
		if err != nil {
			return nil, fmt.Errorf("creating token service: %w", err)
		}
		validator = auth.NewValidator(svc.ValidatorFunc())
	}

	srv := server.New(cfg.Server, log.WithComponent("http"))
	srv.ApplyMiddleware()
	routes.Register(srv.GinEngine(),
		routes.NewStreams(streams.Handler(), producer, log.WithComponent("routes")),
		routes.Options{
			Validator: validator,
			RateLimit: cfg.Server.RateLimit,
			StaticDir: cfg.StaticDir,
			Metrics:   httpMetrics,
		},
	)
	srv.RegisterDefaultEndpoints(cfg.Name, cfg.Environment, app.Components.HealthAll, streams.Registry())
	srv.RegisterPrometheus(promReg)

	for _, c := range []component.Component{telemetry, streams, server.NewComponent(srv)} {
		if err := app.RegisterComponent(c); err != nil {
			return nil, err
		}
	}

	app.OnStop(func(_ context.Context) error {
		if n := streams.Registry().CloseAll(); n > 0 {
			log.Info("ended open streams", logger.Fields("count", n))
		}
		return nil
	})

	return &Hub{
		Telemetry:  telemetry,
		Streams:    streams,
		Server:     srv,
		Prometheus: promReg,
	}, nil
}
