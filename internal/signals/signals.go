// Package signals assembles the engine's input from upstream collaborators.
//
// The engine itself is synchronous and pure; all awaiting happens here, at
// the edge. The collector fans out to the message, task, calendar, focus,
// and trust sources concurrently, then hands the engine one complete,
// already-resolved PriorityInput.
//
// Failure semantics are fail-safe toward calm: a source that errors (or was
// never wired) contributes zero/neutral values, so a broken collaborator
// degrades to "nothing outstanding", never to a crashed evaluation or a
// false alarm.
package signals

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tiller/internal/types"
)

// =============================================================================
// COLLABORATOR CONTRACTS
// =============================================================================

// MessageSource reports on the user's inbox.
type MessageSource interface {
	// UrgentCount is the number of unread messages flagged high-priority.
	UrgentCount(ctx context.Context) (int, error)
}

// TaskSource reports on tasks and deadlines.
type TaskSource interface {
	// OpenLoops is the number of unresolved messages, tasks, and drafts
	// awaiting an explicit close action.
	OpenLoops(ctx context.Context) (int, error)

	// UpcomingDeadlines is the number of deadlines approaching soon.
	UpcomingDeadlines(ctx context.Context) (int, error)
}

// CalendarSource reports on scheduling state.
type CalendarSource interface {
	// Conflicts is the number of overlapping calendar entries.
	Conflicts(ctx context.Context) (int, error)
}

// FocusSource reports on today's focus session.
type FocusSource interface {
	// Today returns the current focus state and minutes logged today.
	Today(ctx context.Context) (types.FocusState, int, error)
}

// TrustSource reports authority-boundary violations.
type TrustSource interface {
	// Violations is the number of actions attempted outside the user's
	// granted authority.
	Violations(ctx context.Context) (int, error)
}

// =============================================================================
// COLLECTOR
// =============================================================================

// Collector gathers one PriorityInput snapshot per evaluation cycle.
// Any source may be nil; missing collaborators contribute neutral values.
type Collector struct {
	Messages MessageSource
	Tasks    TaskSource
	Calendar CalendarSource
	Focus    FocusSource
	Trust    TrustSource

	Log *zap.Logger
}

// Snapshot fetches all counts concurrently and returns a normalized input.
// It never returns an error: coercing failures to neutral defaults is this
// layer's whole job. Degradations are logged at warn level.
func (c *Collector) Snapshot(ctx context.Context) types.PriorityInput {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}

	var in types.PriorityInput
	in.FocusState = types.FocusIdle

	g, ctx := errgroup.WithContext(ctx)

	if c.Messages != nil {
		g.Go(func() error {
			n, err := c.Messages.UrgentCount(ctx)
			if err != nil {
				log.Warn("message source unavailable, assuming no urgent messages", zap.Error(err))
				return nil
			}
			in.UrgentMessageCount = n
			return nil
		})
	}
	if c.Tasks != nil {
		g.Go(func() error {
			n, err := c.Tasks.OpenLoops(ctx)
			if err != nil {
				log.Warn("task source unavailable, assuming no open loops", zap.Error(err))
				return nil
			}
			in.OpenLoopsCount = n
			return nil
		})
		g.Go(func() error {
			n, err := c.Tasks.UpcomingDeadlines(ctx)
			if err != nil {
				log.Warn("task source unavailable, assuming no deadlines", zap.Error(err))
				return nil
			}
			in.UpcomingDeadlines = n
			return nil
		})
	}
	if c.Calendar != nil {
		g.Go(func() error {
			n, err := c.Calendar.Conflicts(ctx)
			if err != nil {
				log.Warn("calendar source unavailable, assuming no conflicts", zap.Error(err))
				return nil
			}
			in.CalendarConflicts = n
			return nil
		})
	}
	if c.Focus != nil {
		g.Go(func() error {
			state, minutes, err := c.Focus.Today(ctx)
			if err != nil {
				log.Warn("focus source unavailable, assuming idle", zap.Error(err))
				return nil
			}
			in.FocusState = state
			in.FocusMinutesToday = minutes
			return nil
		})
	}
	if c.Trust != nil {
		g.Go(func() error {
			n, err := c.Trust.Violations(ctx)
			if err != nil {
				log.Warn("trust source unavailable, assuming no violations", zap.Error(err))
				return nil
			}
			in.TrustViolations = n
			return nil
		})
	}

	// Workers only ever return nil; Wait is for completion, not errors.
	_ = g.Wait()

	return in.Normalized()
}
