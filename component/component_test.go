package component

import (
	"context"
	"errors"
	"slices"
	"testing"
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

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&mockComponent{name: "transport"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&mockComponent{name: "transport"}); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestRegistry_StartStopOrder(t *testing.T) {
	var started, stopped []string
	r := NewRegistry()
	for _, name := range []string{"telemetry", "transport", "client"} {
		if err := r.Register(&mockComponent{name: name, startOrder: &started, stopOrder: &stopped}); err != nil {
			t.Fatalf("Register(%s): %v", name, err)
		}
	}

	ctx := context.Background()
	if err := r.StartAll(ctx); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := r.StopAll(ctx); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	if want := []string{"telemetry", "transport", "client"}; !slices.Equal(started, want) {
		t.Errorf("start order = %v, want %v", started, want)
	}
	if want := []string{"client", "transport", "telemetry"}; !slices.Equal(stopped, want) {
		t.Errorf("stop order = %v, want %v", stopped, want)
	}
}

func TestRegistry_StartFailureStopsStarted(t *testing.T) {
	var started, stopped []string
	boom := errors.New("boom")
	r := NewRegistry()
	_ = r.Register(&mockComponent{name: "a", startOrder: &started, stopOrder: &stopped})
	_ = r.Register(&mockComponent{name: "b", startErr: boom, startOrder: &started, stopOrder: &stopped})
	_ = r.Register(&mockComponent{name: "c", startOrder: &started, stopOrder: &stopped})

	err := r.StartAll(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("StartAll error = %v, want wrapping boom", err)
	}
	if want := []string{"a", "b"}; !slices.Equal(started, want) {
		t.Errorf("started = %v, want %v", started, want)
	}
	if want := []string{"a"}; !slices.Equal(stopped, want) {
		t.Errorf("stopped = %v, want %v", stopped, want)
	}

	// Nothing is left running, so a second StopAll is a no-op.
	stopped = nil
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
	if len(stopped) != 0 {
		t.Errorf("second StopAll stopped %v", stopped)
	}
}

func TestRegistry_StopErrorsJoined(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	r := NewRegistry()
	_ = r.Register(&mockComponent{name: "a", stopErr: errA})
	_ = r.Register(&mockComponent{name: "b", stopErr: errB})

	ctx := context.Background()
	if err := r.StartAll(ctx); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	err := r.StopAll(ctx)
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("StopAll error = %v, want both component errors", err)
	}
}

func TestRegistry_HealthAllAndLookup(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&mockComponent{name: "a", health: Health{Name: "a", Status: StatusHealthy}})
	_ = r.Register(&mockComponent{name: "b", health: Health{Name: "b", Status: StatusDegraded, Message: "slow"}})

	health := r.HealthAll(context.Background())
	if len(health) != 2 {
		t.Fatalf("got %d health results, want 2", len(health))
	}
	if health[1].Status != StatusDegraded || health[1].Message != "slow" {
		t.Errorf("health[1] = %+v", health[1])
	}

	if r.Get("a") == nil {
		t.Error("Get(a) returned nil")
	}
	if r.Get("missing") != nil {
		t.Error("Get(missing) should be nil")
	}
	if n := len(r.All()); n != 2 {
		t.Errorf("All() returned %d components", n)
	}
}
