package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gogpu/rectloop/backend"
	"github.com/gogpu/rectloop/gpucore"
	"github.com/gogpu/rectloop/render"
	"github.com/gogpu/rectloop/surface"
)

// scriptHost returns one scripted batch of events per poll.
type scriptHost struct {
	batches [][]backend.Event
	polls   int
}

func (h *scriptHost) Name() string             { return "script" }
func (h *scriptHost) Device() gpucore.Device   { return nil }
func (h *scriptHost) Surface() surface.Surface { return nil }
func (h *scriptHost) Close()                   {}

func (h *scriptHost) PollEvents() []backend.Event {
	defer func() { h.polls++ }()
	if h.polls < len(h.batches) {
		return h.batches[h.polls]
	}
	return nil
}

// logRenderer records calls in order.
type logRenderer struct {
	calls     []string
	cfg       surface.Config
	instances []render.Instance
	renderErr []error // consumed per Render
	resizeErr error
}

func (r *logRenderer) Resize(w, h uint32) error {
	r.calls = append(r.calls, fmt.Sprintf("resize %dx%d", w, h))
	if r.resizeErr != nil {
		return r.resizeErr
	}
	r.cfg.Width, r.cfg.Height = w, h
	return nil
}

func (r *logRenderer) SetInstances(records []render.Instance) {
	r.calls = append(r.calls, fmt.Sprintf("instances %d", len(records)))
	r.instances = records
}

func (r *logRenderer) Render() error {
	r.calls = append(r.calls, "render")
	if len(r.renderErr) > 0 {
		err := r.renderErr[0]
		r.renderErr = r.renderErr[1:]
		return err
	}
	return nil
}

func (r *logRenderer) Config() surface.Config { return r.cfg }

func oneRect(time.Duration, uint32, uint32) []render.Instance {
	return []render.Instance{{Size: [2]float32{0.1, 0.1}}}
}

func equalCalls(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("calls = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("calls[%d] = %q, want %q (all: %q)", i, got[i], want[i], got)
		}
	}
}

func TestRunStopsOnClose(t *testing.T) {
	host := &scriptHost{batches: [][]backend.Event{nil, {backend.CloseEvent{}}}}
	r := &logRenderer{}
	if err := Run(context.Background(), host, r, TickFunc(oneRect)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	equalCalls(t, r.calls, []string{"instances 1", "render"})
}

func TestRunEventsBeforeFrame(t *testing.T) {
	host := &scriptHost{batches: [][]backend.Event{
		{backend.ResizeEvent{Width: 800, Height: 600}, backend.ScaleEvent{Scale: 2, Width: 1600, Height: 1200}},
		{backend.ResizeEvent{Width: 0, Height: 0}},
	}}
	r := &logRenderer{}
	var sizes [][2]uint32
	tick := TickFunc(func(_ time.Duration, w, h uint32) []render.Instance {
		sizes = append(sizes, [2]uint32{w, h})
		return nil
	})
	if err := Run(context.Background(), host, r, tick, WithMaxFrames(2)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	equalCalls(t, r.calls, []string{
		"resize 800x600", "resize 1600x1200", "instances 0", "render",
		"resize 0x0", "instances 0", "render",
	})
	if sizes[0] != [2]uint32{1600, 1200} || sizes[1] != [2]uint32{0, 0} {
		t.Errorf("tick sizes = %v", sizes)
	}
}

func TestRunIgnoresEventsAfterClose(t *testing.T) {
	host := &scriptHost{batches: [][]backend.Event{
		{backend.CloseEvent{}, backend.ResizeEvent{Width: 1, Height: 1}},
	}}
	r := &logRenderer{}
	if err := Run(context.Background(), host, r, TickFunc(oneRect)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(r.calls) != 0 {
		t.Errorf("calls = %q, want none", r.calls)
	}
}

func TestRunFatal(t *testing.T) {
	fatal := fmt.Errorf("%w: %w", render.ErrFatal, surface.ErrOutOfMemory)
	r := &logRenderer{renderErr: []error{nil, fatal}}
	err := Run(context.Background(), &scriptHost{}, r, TickFunc(oneRect))
	if !errors.Is(err, render.ErrFatal) || !errors.Is(err, surface.ErrOutOfMemory) {
		t.Fatalf("Run = %v, want ErrFatal wrapping ErrOutOfMemory", err)
	}
	if n := countCalls(r.calls, "render"); n != 2 {
		t.Errorf("renders = %d, want 2", n)
	}
}

func TestRunContinuesAfterFrameError(t *testing.T) {
	r := &logRenderer{renderErr: []error{errors.New("drawable failed")}}
	if err := Run(context.Background(), &scriptHost{}, r, TickFunc(oneRect), WithMaxFrames(3)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := countCalls(r.calls, "render"); n != 3 {
		t.Errorf("renders = %d, want 3", n)
	}
}

func TestRunContinuesAfterResizeError(t *testing.T) {
	host := &scriptHost{batches: [][]backend.Event{{backend.ResizeEvent{Width: 5, Height: 5}}}}
	r := &logRenderer{resizeErr: errors.New("configure failed")}
	if err := Run(context.Background(), host, r, TickFunc(oneRect), WithMaxFrames(1)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	equalCalls(t, r.calls, []string{"resize 5x5", "instances 1", "render"})
}

func TestRunResizeFatal(t *testing.T) {
	host := &scriptHost{batches: [][]backend.Event{{backend.ResizeEvent{Width: 5, Height: 5}}}}
	r := &logRenderer{resizeErr: render.ErrFatal}
	if err := Run(context.Background(), host, r, TickFunc(oneRect)); !errors.Is(err, render.ErrFatal) {
		t.Fatalf("Run = %v, want ErrFatal", err)
	}
	if countCalls(r.calls, "render") != 0 {
		t.Error("rendered after fatal resize")
	}
}

func TestRunContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &logRenderer{}
	hook := WithFrameHook(func(frame uint64) error {
		if frame == 2 {
			cancel()
		}
		return nil
	})
	err := Run(ctx, &scriptHost{}, r, TickFunc(oneRect), hook)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
	if n := countCalls(r.calls, "render"); n != 2 {
		t.Errorf("renders = %d, want 2", n)
	}
}

func TestRunFrameHook(t *testing.T) {
	r := &logRenderer{}
	stop := WithFrameHook(func(frame uint64) error {
		if frame == 4 {
			return ErrStop
		}
		return nil
	})
	if err := Run(context.Background(), &scriptHost{}, r, TickFunc(oneRect), stop); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := countCalls(r.calls, "render"); n != 4 {
		t.Errorf("renders = %d, want 4", n)
	}

	boom := errors.New("snapshot failed")
	fail := WithFrameHook(func(uint64) error { return boom })
	if err := Run(context.Background(), &scriptHost{}, &logRenderer{}, TickFunc(oneRect), fail); !errors.Is(err, boom) {
		t.Errorf("Run = %v, want hook error", err)
	}
}

func TestRunTickDelta(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	step := 0
	clock := func() time.Time {
		defer func() { step++ }()
		return base.Add(time.Duration(step) * 16 * time.Millisecond)
	}
	var dts []time.Duration
	tick := TickFunc(func(dt time.Duration, _, _ uint32) []render.Instance {
		dts = append(dts, dt)
		return nil
	})
	if err := Run(context.Background(), &scriptHost{}, &logRenderer{}, tick, WithClock(clock), WithMaxFrames(3)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, dt := range dts {
		if dt != 16*time.Millisecond {
			t.Errorf("dt[%d] = %v, want 16ms", i, dt)
		}
	}
}

func countCalls(calls []string, name string) int {
	n := 0
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return n
}
