// Package bootstrap drives a service through its lifecycle: validated
// config, logger setup, ordered component start, configure callbacks,
// a ready check, a startup summary, then signal wait and graceful stop.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	app.RegisterComponent(hub)
//	app.RegisterComponent(server.NewComponent(srv))
//	return app.Run(ctx)
//
// Components start in registration order and stop in reverse. OnStop hooks
// run before any component stops; streamhub uses one to end open streams so
// the HTTP server drains without waiting on long-lived responses.
package bootstrap
