// Package engine implements the priority decision engine: given a snapshot of
// the user's situation, it selects at most one next-best action.
//
// The engine is a fixed precedence ladder, not a learned ranking. Rules are
// declared as an ordered data table and evaluated in order; declaration order
// is the authoritative priority ladder:
//
//	trust violations > open loops > urgent messages > calendar conflicts >
//	focus continuation > focus start > break
//
// Invariants:
//   - Deterministic. Same input, bit-identical output. No clock, no RNG.
//   - Pure. No I/O, no shared state; concurrent calls need no coordination.
//   - Never errors for valid or malformed input; malformed signals normalize
//     toward "all clear", never toward alarm.
//   - At most one recommendation. The full candidate list exists for audit
//     and precedence debugging only.
package engine

import (
	"tiller/internal/types"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultOpenLoopThreshold is how many unresolved loops accumulate before
	// loop-closing outranks everything except trust.
	DefaultOpenLoopThreshold = 3

	// DefaultBreakAfterMinutes is how much focus time in one day earns a
	// break suggestion.
	DefaultBreakAfterMinutes = 90
)

// Fixed internal scores per ladder rung. Spacing leaves room for audit
// tooling to wedge derived entries between rungs without reordering.
const (
	scoreReviewTrust     = 100
	scoreCloseLoops      = 90
	scoreHandleUrgent    = 80
	scoreResolveConflict = 70
	scoreContinueFocus   = 60
	scoreStartFocus      = 50
	scoreTakeBreak       = 40
)

// Reassurance copy. Always populated on output so callers never need a nil
// check to render something calm.
const (
	reassuranceAllClear = "Nothing needs your attention right now. Enjoy the quiet."
	reassuranceWorking  = "One thing at a time. I'm keeping an eye on the rest."
)

// =============================================================================
// RULE LADDER
// =============================================================================

// Rule is one rung of the precedence ladder.
type Rule struct {
	// Name identifies the rule in audit output.
	Name string

	// Action is the single recommendation this rule produces when it matches.
	Action types.PriorityAction

	// Score is the fixed internal precedence weight. Higher wins. Scores are
	// distinct across the ladder, so ties cannot occur; if they ever did,
	// declaration order would break them.
	Score float64

	// Reason is the short internal justification attached to the candidate.
	// Audit-facing, never user-facing.
	Reason string

	// Matches reports whether the rule fires for the given (already
	// normalized) input.
	Matches func(in types.PriorityInput, cfg Config) bool
}

// ladder is evaluated top to bottom. Order here is the contract.
var ladder = []Rule{
	{
		Name:   "trust_violation_override",
		Action: types.ActionReviewTrust,
		Score:  scoreReviewTrust,
		Reason: "actions were attempted outside granted authority",
		Matches: func(in types.PriorityInput, _ Config) bool {
			return in.TrustViolations > 0
		},
	},
	{
		Name:   "open_loops_piling_up",
		Action: types.ActionCloseLoops,
		Score:  scoreCloseLoops,
		Reason: "unresolved loops exceed the comfort threshold",
		Matches: func(in types.PriorityInput, cfg Config) bool {
			return in.OpenLoopsCount > cfg.OpenLoopThreshold
		},
	},
	{
		Name:   "urgent_messages_waiting",
		Action: types.ActionHandleUrgent,
		Score:  scoreHandleUrgent,
		Reason: "unread messages are flagged high-priority",
		Matches: func(in types.PriorityInput, _ Config) bool {
			return in.UrgentMessageCount > 0
		},
	},
	{
		Name:   "calendar_conflict",
		Action: types.ActionResolveConflict,
		Score:  scoreResolveConflict,
		Reason: "overlapping calendar entries need a decision",
		Matches: func(in types.PriorityInput, _ Config) bool {
			return in.CalendarConflicts > 0
		},
	},
	{
		Name:   "focus_session_running",
		Action: types.ActionContinueFocus,
		Score:  scoreContinueFocus,
		Reason: "a focus session is active; protect it",
		Matches: func(in types.PriorityInput, _ Config) bool {
			return in.FocusState == types.FocusActive
		},
	},
	{
		Name:   "deadlines_ahead_no_session",
		Action: types.ActionStartFocus,
		Score:  scoreStartFocus,
		Reason: "deadlines are approaching and no focus session ran today",
		Matches: func(in types.PriorityInput, _ Config) bool {
			return in.FocusState == types.FocusIdle && in.UpcomingDeadlines > 0
		},
	},
	{
		Name:   "long_day_earn_a_break",
		Action: types.ActionTakeBreak,
		Score:  scoreTakeBreak,
		Reason: "substantial focus time already logged today",
		Matches: func(in types.PriorityInput, cfg Config) bool {
			return in.FocusMinutesToday >= cfg.BreakAfterMinutes
		},
	},
}

// Ladder returns a copy of the rule table in precedence order. Exposed so
// audit tooling and tests can assert against the ladder directly instead of
// reverse-engineering control flow.
func Ladder() []Rule {
	out := make([]Rule, len(ladder))
	copy(out, ladder)
	return out
}

// =============================================================================
// ENGINE
// =============================================================================

// Config carries the two tunable thresholds. Everything else about the
// ladder is fixed.
type Config struct {
	OpenLoopThreshold int
	BreakAfterMinutes int
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		OpenLoopThreshold: DefaultOpenLoopThreshold,
		BreakAfterMinutes: DefaultBreakAfterMinutes,
	}
}

// Engine evaluates the ladder. Stateless; safe for concurrent use.
type Engine struct {
	cfg Config
}

// New creates an engine with the given thresholds. Non-positive thresholds
// fall back to defaults.
func New(cfg Config) *Engine {
	if cfg.OpenLoopThreshold <= 0 {
		cfg.OpenLoopThreshold = DefaultOpenLoopThreshold
	}
	if cfg.BreakAfterMinutes <= 0 {
		cfg.BreakAfterMinutes = DefaultBreakAfterMinutes
	}
	return &Engine{cfg: cfg}
}

// Compute evaluates every ladder rule against the input and selects the
// single highest-precedence match.
//
// The output satisfies:
//   - Recommendation is the first matched rule's candidate, or nil.
//   - Priorities holds every matched candidate in ladder order (audit only).
//   - IsAllClear is true iff no rule matched; there is no "present but
//     low-urgency" limbo state.
//   - Reassurance is always non-empty.
func (e *Engine) Compute(in types.PriorityInput) types.PriorityEngineOutput {
	in = in.Normalized()

	var matched []types.Priority
	for _, rule := range ladder {
		if rule.Matches(in, e.cfg) {
			matched = append(matched, types.Priority{
				Action: rule.Action,
				Score:  rule.Score,
				Reason: rule.Reason,
			})
		}
	}

	out := types.PriorityEngineOutput{
		Priorities:  matched,
		IsAllClear:  len(matched) == 0,
		Reassurance: reassuranceWorking,
	}
	if len(matched) > 0 {
		top := matched[0]
		out.Recommendation = &top
	} else {
		out.Reassurance = reassuranceAllClear
	}
	return out
}
