// Package gate enforces the role-based execution model: analysts advise and
// draft, operators execute.
//
// The gate sits immediately in front of every state-mutating effect (send,
// archive, schedule, spend). It reads the current role from an injected
// RoleSource on every check: role state is externally owned and externally
// synchronized; the gate never caches it, so a promotion committed upstream
// is visible to the very next check.
//
// Denial is an expected, user-facing outcome, not an error: every blocked
// verdict carries a human-readable reason and an actionable suggestion. The
// only hard error is an ActionType absent from every permission table, which
// indicates a programming defect.
package gate

import (
	"context"
	"errors"
	"fmt"

	"tiller/internal/types"
)

// ErrUnknownActionType reports an action absent from every permission table.
var ErrUnknownActionType = errors.New("gate: unknown action type")

// =============================================================================
// UNRESOLVED-ROLE POLICY
// =============================================================================

// UnresolvedPolicy decides what happens while the role is still loading.
//
// The shipped default is PolicyFailOpen: queries answer as if nothing is
// blocked, so transient fetch latency never falsely rejects the user. The
// known risk is a race where an analyst slips a blocked action through
// before the role resolves. PolicyFailClosed trades extra latency for
// closing that window. This is a configuration choice, deliberately not
// resolved in code.
type UnresolvedPolicy string

const (
	PolicyFailOpen   UnresolvedPolicy = "fail_open"
	PolicyFailClosed UnresolvedPolicy = "fail_closed"
)

// ParseUnresolvedPolicy maps a raw string to a policy, defaulting to
// fail_open (the observed shipping behavior).
func ParseUnresolvedPolicy(s string) UnresolvedPolicy {
	if UnresolvedPolicy(s) == PolicyFailClosed {
		return PolicyFailClosed
	}
	return PolicyFailOpen
}

// =============================================================================
// PERMISSION TABLES
// =============================================================================

// blockedForAnalyst is the set of actions an analyst can never invoke, with
// or without confirmation. Operators bypass it.
var blockedForAnalyst = map[types.ActionType]bool{
	types.ActionSendMessage: true,
	types.ActionAutoReply:   true,
}

// confirmationRequired is the set of actions an analyst may invoke only
// after explicit user confirmation. Operators bypass it.
var confirmationRequired = map[types.ActionType]bool{
	types.ActionCreateTask:    true,
	types.ActionUpdateTask:    true,
	types.ActionDeleteTask:    true,
	types.ActionArchiveItem:   true,
	types.ActionScheduleEvent: true,
	types.ActionDraftReply:    true,
	types.ActionStartSession:  true,
	types.ActionClaimReward:   true,
	types.ActionSpendTokens:   true,
}

// blockedExplanation pairs the reason an action was blocked with what to do
// instead. Denial must never be a bare rejection.
type blockedExplanation struct {
	Reason     string
	Suggestion string
}

// Immutable copy table, enum-keyed. Declared, never generated.
var blockedExplanations = map[types.ActionType]blockedExplanation{
	types.ActionSendMessage: {
		Reason:     "I can't send messages directly in Analyst mode.",
		Suggestion: "I'll draft it for your review — or enable Operator mode and I'll send it myself.",
	},
	types.ActionAutoReply: {
		Reason:     "I can't reply on your behalf in Analyst mode.",
		Suggestion: "I can prepare the reply and queue it for your one-tap approval.",
	},
}

// unresolvedExplanation is used when PolicyFailClosed blocks during role
// loading.
var unresolvedExplanation = blockedExplanation{
	Reason:     "I'm still confirming your access level.",
	Suggestion: "Give it a moment and try again — nothing has been lost.",
}

// KnownAction reports whether the action appears in any permission table.
func KnownAction(action types.ActionType) bool {
	return blockedForAnalyst[action] || confirmationRequired[action]
}

// =============================================================================
// ROLE SOURCE
// =============================================================================

// RoleSource yields the assistant's current role. Implementations own
// synchronization and invalidation; the gate re-reads on every check.
type RoleSource interface {
	// CurrentRole returns the committed role. resolved is false while the
	// role is still loading or otherwise undetermined.
	CurrentRole(ctx context.Context) (role types.AssistantRole, resolved bool, err error)
}

// StaticRole is a RoleSource pinned to one role, resolved immediately.
// Useful for tests and for CLI invocations where the role is a flag.
type StaticRole types.AssistantRole

// CurrentRole implements RoleSource.
func (r StaticRole) CurrentRole(context.Context) (types.AssistantRole, bool, error) {
	return types.AssistantRole(r), true, nil
}

// =============================================================================
// VERDICTS
// =============================================================================

// Verdict is the structured outcome of one permission check.
type Verdict struct {
	Allowed              bool   `json:"allowed"`
	RequiresConfirmation bool   `json:"requires_confirmation"`
	BlockedReason        string `json:"blocked_reason,omitempty"`
	Suggestion           string `json:"suggestion,omitempty"`
}

// =============================================================================
// GATE
// =============================================================================

// Gate intercepts requested actions and decides blocked, requires
// confirmation, or allowed.
type Gate struct {
	roles  RoleSource
	policy UnresolvedPolicy
}

// New creates a gate over the given role source.
func New(roles RoleSource, policy UnresolvedPolicy) *Gate {
	return &Gate{roles: roles, policy: ParseUnresolvedPolicy(string(policy))}
}

// CheckAction decides whether the requested action may proceed.
//
// Outcomes:
//   - operator: allowed, no confirmation, for every known action.
//   - analyst + blocked set: denied with reason and suggestion.
//   - analyst + confirmation set: allowed, RequiresConfirmation true; the
//     confirmation flow itself belongs to the caller.
//   - role unresolved: policy-dependent (see UnresolvedPolicy).
//
// An action in no table returns ErrUnknownActionType.
func (g *Gate) CheckAction(ctx context.Context, action types.ActionType) (Verdict, error) {
	if !KnownAction(action) {
		return Verdict{}, fmt.Errorf("%w: %q", ErrUnknownActionType, action)
	}

	role, resolved, err := g.roles.CurrentRole(ctx)
	if err != nil || !resolved {
		if g.policy == PolicyFailClosed {
			return Verdict{
				Allowed:       false,
				BlockedReason: unresolvedExplanation.Reason,
				Suggestion:    unresolvedExplanation.Suggestion,
			}, nil
		}
		// Fail open: answer as if unblocked, but keep the confirmation
		// requirement; confirmation costs a tap, not a false rejection.
		return Verdict{
			Allowed:              true,
			RequiresConfirmation: confirmationRequired[action],
		}, nil
	}

	if role == types.RoleOperator {
		return Verdict{Allowed: true}, nil
	}

	if blockedForAnalyst[action] {
		expl := blockedExplanations[action]
		return Verdict{
			Allowed:       false,
			BlockedReason: expl.Reason,
			Suggestion:    expl.Suggestion,
		}, nil
	}

	return Verdict{
		Allowed:              true,
		RequiresConfirmation: confirmationRequired[action],
	}, nil
}

// InterceptExecution reports whether the action must be stopped outright:
// true iff the current role is analyst and the action is in the blocked set
// (or the role is unresolved under fail-closed). Confirmation-required
// actions are not intercepted here; that is the confirmation flow's job.
func (g *Gate) InterceptExecution(ctx context.Context, action types.ActionType) bool {
	if !KnownAction(action) {
		// Unknown actions never reach an effect; treat as intercepted.
		return true
	}
	v, err := g.CheckAction(ctx, action)
	if err != nil {
		return true
	}
	return !v.Allowed
}

// IsOperator reports whether the assistant currently holds full execution
// authority. While the role is unresolved the answer follows the configured
// policy: fail-open answers true (no false rejections at the query layer),
// fail-closed answers false.
func (g *Gate) IsOperator(ctx context.Context) bool {
	role, resolved, err := g.roles.CurrentRole(ctx)
	if err != nil || !resolved {
		return g.policy == PolicyFailOpen
	}
	return role == types.RoleOperator
}

// IsAnalyst reports whether the assistant is restricted to advisory mode.
func (g *Gate) IsAnalyst(ctx context.Context) bool {
	return !g.IsOperator(ctx)
}
