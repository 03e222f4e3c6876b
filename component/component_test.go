package component

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("expected non-nil registry")
	}
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "server", health: Health{Name: "server", Status: StatusHealthy}}

	if err := r.Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "server"}
	r.Register(c)

	err := r.Register(&mockComponent{name: "server"})
	if err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "server"}
	r.Register(c)

	got := r.Get("server")
	if got == nil {
		t.Fatal("expected to get registered component")
	}
	if got.Name() != "server" {
		t.Errorf("expected 'server', got %q", got.Name())
	}
}

func TestGetNotFound(t *testing.T) {
	r := NewRegistry()
	got := r.Get("missing")
	if got != nil {
		t.Error("expected nil for unregistered component")
	}
}

func TestStartAll(t *testing.T) {
	r := NewRegistry()
	order := []string{}

	r.Register(&mockComponent{
		name: "server", startOrder: &order,
		health: Health{Name: "server", Status: StatusHealthy},
	})
	r.Register(&mockComponent{
		name: "hub", startOrder: &order,
		health: Health{Name: "hub", Status: StatusHealthy},
	})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}

	if len(order) != 2 {
		t.Fatalf("expected 2 starts, got %d", len(order))
	}
	if order[0] != "server" || order[1] != "hub" {
		t.Errorf("expected start order [server, hub], got %v", order)
	}
}

func TestStartAllError(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{name: "server", startErr: fmt.Errorf("connection refused")})

	err := r.StartAll(context.Background())
	if err == nil {
		t.Error("expected error from StartAll")
	}
}

func TestStopAllReverseOrder(t *testing.T) {
	r := NewRegistry()
	order := []string{}

	r.Register(&mockComponent{name: "server", stopOrder: &order, health: Health{Name: "server", Status: StatusHealthy}})
	r.Register(&mockComponent{name: "hub", stopOrder: &order, health: Health{Name: "hub", Status: StatusHealthy}})
	r.Register(&mockComponent{name: "telemetry", stopOrder: &order, health: Health{Name: "telemetry", Status: StatusHealthy}})

	r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	if len(order) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(order))
	}
	if order[0] != "telemetry" || order[1] != "hub" || order[2] != "server" {
		t.Errorf("expected reverse stop order [telemetry, hub, server], got %v", order)
	}
}

func TestStopAllSkipsUnstarted(t *testing.T) {
	r := NewRegistry()
	order := []string{}
	r.Register(&mockComponent{name: "server", stopOrder: &order})

	// Don't start, then stop
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("expected 0 stops for unstarted components, got %d", len(order))
	}
}

func TestStopAllWithErrors(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{
		name: "server", stopErr: fmt.Errorf("stop failed"),
		health: Health{Name: "server", Status: StatusHealthy},
	})
	r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Error("expected error from StopAll")
	}
}

func TestHealthAll(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{
		name:   "server",
		health: Health{Name: "server", Status: StatusHealthy, Message: "connected"},
	})
	r.Register(&mockComponent{
		name:   "hub",
		health: Health{Name: "hub", Status: StatusUnhealthy, Message: "timeout"},
	})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != StatusHealthy {
		t.Errorf("expected server healthy, got %s", results[0].Status)
	}
	if results[1].Status != StatusUnhealthy {
		t.Errorf("expected hub unhealthy, got %s", results[1].Status)
	}
}

func TestHealthStatusConstants(t *testing.T) {
	if StatusHealthy != "healthy" {
		t.Errorf("expected 'healthy', got %q", StatusHealthy)
	}
	if StatusUnhealthy != "unhealthy" {
		t.Errorf("expected 'unhealthy', got %q", StatusUnhealthy)
	}
	if StatusDegraded != "degraded" {
		t.Errorf("expected 'degraded', got %q", StatusDegraded)
	}
}

func TestStopAllJoinsErrors(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{name: "server", stopErr: fmt.Errorf("a")})
	r.Register(&mockComponent{name: "hub", stopErr: fmt.Errorf("b")})
	r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Fatal("expected joined error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "failed to stop server") || !strings.Contains(msg, "failed to stop hub") {
		t.Errorf("expected both stop errors, got %q", msg)
	}
}

func TestStopAllAppliesTimeout(t *testing.T) {
	r := NewRegistry()
	r.SetStopTimeout(20 * time.Millisecond)
	r.Register(&blockingComponent{mockComponent{name: "hub"}})
	r.StartAll(context.Background())

	start := time.Now()
	if err := r.StopAll(context.Background()); err == nil {
		t.Fatal("expected deadline error")
	}
	if time.Since(start) > time.Second {
		t.Error("stop timeout was not applied")
	}
}

func TestAllKeepsRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{name: "a"})
	r.Register(&mockComponent{name: "b"})
	all := r.All()
	if len(all) != 2 || all[0].Name() != "a" || all[1].Name() != "b" {
		t.Errorf("unexpected order %v", all)
	}
}

type blockingComponent struct {
	mockComponent
}

func (b *blockingComponent) Stop(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}
