package testutil

import (
	"context"

	"github.com/kbukum/streamhub/component"
)

// TestComponent is a component that can be returned to its initial state
// between test cases.
type TestComponent interface {
	component.Component

	// Reset restores the component to its initial state.
	Reset(ctx context.Context) error
}
