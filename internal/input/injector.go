// Package input defines the capability boundary for OS-level input
// injection. The registry only ever talks to the Injector interface; the
// platform-backed implementation exists solely behind it.
package input

import (
	"context"
	"fmt"
	"sync"
)

// Injector performs pointer and keyboard actions. Coordinates are
// normalized integers in [0,1000]; implementations scale to the real
// surface themselves.
type Injector interface {
	Click(ctx context.Context, x, y int) error
	DoubleClick(ctx context.Context, x, y int) error
	RightClick(ctx context.Context, x, y int) error
	Drag(ctx context.Context, x1, y1, x2, y2 int) error
	TypeText(ctx context.Context, text string) error
}

// Simulated is the no-OS-effect implementation used by the synthetic
// canvas strategy, all non-effectful modes, and tests. It records the
// calls it receives.
type Simulated struct {
	mu    sync.Mutex
	calls []string
}

// NewSimulated returns a fresh recording injector.
func NewSimulated() *Simulated {
	return &Simulated{}
}

// Calls returns a copy of the recorded call descriptions in order.
func (s *Simulated) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Simulated) record(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
}

func (s *Simulated) Click(_ context.Context, x, y int) error {
	s.record("click %d %d", x, y)
	return nil
}

func (s *Simulated) DoubleClick(_ context.Context, x, y int) error {
	s.record("double_click %d %d", x, y)
	return nil
}

func (s *Simulated) RightClick(_ context.Context, x, y int) error {
	s.record("right_click %d %d", x, y)
	return nil
}

func (s *Simulated) Drag(_ context.Context, x1, y1, x2, y2 int) error {
	s.record("drag %d %d %d %d", x1, y1, x2, y2)
	return nil
}

func (s *Simulated) TypeText(_ context.Context, text string) error {
	s.record("type %q", text)
	return nil
}
