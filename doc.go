// Package streamhub wires the stream hub service: configuration loading,
// the SSE registry and handler, the demo feed, producer auth, telemetry and
// the HTTP server, all registered on a bootstrap.App.
//
//	cfg, err := streamhub.Load()
//	app, err := bootstrap.NewApp(cfg)
//	if _, err := streamhub.Wire(app); err != nil { ... }
//	return app.Run(ctx)
package streamhub
