package telemetry

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/grit/internal/core/domain"
	"go.trai.ch/grit/internal/core/ports"
	"go.trai.ch/grit/internal/ui/output"
	"go.trai.ch/grit/internal/ui/style"
)

// TargetTiming is the recorded duration of one target span.
type TargetTiming struct {
	Target   string
	Status   domain.TargetStatus
	Duration time.Duration
}

// TimingRecorder implements sdktrace.SpanProcessor and keeps the duration of
// every ended span that carries a target attribute, in end order.
type TimingRecorder struct {
	mu      sync.Mutex
	timings []TargetTiming
}

// NewTimingRecorder returns an empty TimingRecorder.
func NewTimingRecorder() *TimingRecorder {
	return &TimingRecorder{}
}

// OnStart does nothing.
func (r *TimingRecorder) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd records the span if it belongs to a target.
func (r *TimingRecorder) OnEnd(s sdktrace.ReadOnlySpan) {
	var target string
	status := domain.StatusCompleted
	for _, kv := range s.Attributes() {
		switch kv.Key {
		case ports.AttrTarget:
			target = kv.Value.AsString()
		case ports.AttrStatus:
			if kv.Value.Type() == attribute.STRING {
				status = domain.NormalizeTargetStatus(kv.Value.AsString())
			}
		}
	}
	if target == "" {
		return
	}
	if s.Status().Code == codes.Error {
		status = domain.StatusFailed
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.timings = append(r.timings, TargetTiming{
		Target:   target,
		Status:   status,
		Duration: s.EndTime().Sub(s.StartTime()),
	})
}

// ForceFlush does nothing.
func (r *TimingRecorder) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (r *TimingRecorder) Shutdown(_ context.Context) error {
	return nil
}

// Timings returns a copy of the recorded timings.
func (r *TimingRecorder) Timings() []TargetTiming {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TargetTiming, len(r.timings))
	copy(out, r.timings)
	return out
}

// WriteSummary prints one line per recorded target followed by the total.
func (r *TimingRecorder) WriteSummary(w io.Writer) error {
	timings := r.Timings()
	if len(timings) == 0 {
		return nil
	}

	width := 0
	for _, t := range timings {
		width = max(width, len(t.Target))
	}

	out := output.New(w)
	var total time.Duration
	for _, t := range timings {
		icon, color := style.StatusIcon(t.Status)
		line := fmt.Sprintf("%s %-*s %s", icon, width, t.Target, formatDuration(t.Duration))
		if _, err := fmt.Fprintln(out, output.Paint(out, line, color)); err != nil {
			return err
		}
		total += t.Duration
	}
	_, err := fmt.Fprintf(out, "  %-*s %s\n", width, "total", formatDuration(total))
	return err
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}
