package bootstrap

import (
	"context"
	"errors"
	"fmt"
)

// Hook is a lifecycle callback. The service uses them for work that spans
// components, such as ending every open stream before the HTTP server stops.
type Hook func(ctx context.Context) error

// OnStart registers hooks that run once every component has started.
func (a *App[C]) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnReady registers hooks that run after the ready check, right before the
// app starts waiting for a shutdown signal.
func (a *App[C]) OnReady(hooks ...Hook) {
	a.onReady = append(a.onReady, hooks...)
}

// OnStop registers hooks that run at shutdown before any component stops,
// while listeners and streams are still up.
func (a *App[C]) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

// runHooks runs hooks in order and stops at the first failure. Startup
// hooks use it: a failed step means the app must not come up.
func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}

// runAllHooks runs every hook even when earlier ones fail and joins the
// errors. Shutdown hooks use it so one failure cannot skip the rest.
func runAllHooks(ctx context.Context, hooks []Hook) error {
	var errs []error
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			errs = append(errs, fmt.Errorf("hook %d failed: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
