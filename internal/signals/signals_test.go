package signals

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tiller/internal/types"
)

type fakeMessages struct {
	urgent int
	err    error
}

func (f fakeMessages) UrgentCount(context.Context) (int, error) { return f.urgent, f.err }

type fakeTasks struct {
	loops     int
	deadlines int
	err       error
}

func (f fakeTasks) OpenLoops(context.Context) (int, error)         { return f.loops, f.err }
func (f fakeTasks) UpcomingDeadlines(context.Context) (int, error) { return f.deadlines, f.err }

type fakeCalendar struct {
	conflicts int
	err       error
}

func (f fakeCalendar) Conflicts(context.Context) (int, error) { return f.conflicts, f.err }

type fakeFocus struct {
	state   types.FocusState
	minutes int
	err     error
}

func (f fakeFocus) Today(context.Context) (types.FocusState, int, error) {
	return f.state, f.minutes, f.err
}

type fakeTrust struct {
	violations int
	err        error
}

func (f fakeTrust) Violations(context.Context) (int, error) { return f.violations, f.err }

func TestSnapshot_AssemblesAllSources(t *testing.T) {
	c := &Collector{
		Messages: fakeMessages{urgent: 2},
		Tasks:    fakeTasks{loops: 5, deadlines: 1},
		Calendar: fakeCalendar{conflicts: 1},
		Focus:    fakeFocus{state: types.FocusActive, minutes: 40},
		Trust:    fakeTrust{violations: 1},
	}

	got := c.Snapshot(context.Background())
	want := types.PriorityInput{
		OpenLoopsCount:     5,
		UrgentMessageCount: 2,
		CalendarConflicts:  1,
		UpcomingDeadlines:  1,
		FocusState:         types.FocusActive,
		FocusMinutesToday:  40,
		TrustViolations:    1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshot_ErroringSourcesCoerceToCalm(t *testing.T) {
	boom := errors.New("backend down")
	c := &Collector{
		Messages: fakeMessages{urgent: 9, err: boom},
		Tasks:    fakeTasks{loops: 9, deadlines: 9, err: boom},
		Calendar: fakeCalendar{conflicts: 9, err: boom},
		Focus:    fakeFocus{state: types.FocusActive, minutes: 90, err: boom},
		Trust:    fakeTrust{violations: 9, err: boom},
	}

	got := c.Snapshot(context.Background())
	want := types.PriorityInput{FocusState: types.FocusIdle}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("degraded snapshot must be all-neutral (-want +got):\n%s", diff)
	}
}

func TestSnapshot_NilSourcesAreNeutral(t *testing.T) {
	c := &Collector{}

	got := c.Snapshot(context.Background())
	if got.FocusState != types.FocusIdle {
		t.Errorf("unwired focus source should read idle, got %q", got.FocusState)
	}
	if got.OpenLoopsCount != 0 || got.UrgentMessageCount != 0 || got.TrustViolations != 0 {
		t.Errorf("unwired sources should contribute zeros: %+v", got)
	}
}

func TestSnapshot_NormalizesSourceValues(t *testing.T) {
	c := &Collector{
		Messages: fakeMessages{urgent: -4},
		Focus:    fakeFocus{state: types.FocusState("weird"), minutes: -10},
	}

	got := c.Snapshot(context.Background())
	if got.UrgentMessageCount != 0 || got.FocusMinutesToday != 0 {
		t.Errorf("negative counts not clamped: %+v", got)
	}
	if got.FocusState != types.FocusIdle {
		t.Errorf("unknown focus state not coerced: %q", got.FocusState)
	}
}
