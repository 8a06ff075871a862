// Package types provides shared type definitions used across tiller packages.
// This package exists to break import cycles between engine, guardrail, gate,
// and the edge adapters. Types in this package should be foundational data
// structures with no complex dependencies.
package types

// =============================================================================
// FOCUS STATE
// =============================================================================

// FocusState describes today's focus-session status.
type FocusState string

const (
	FocusIdle      FocusState = "idle"
	FocusActive    FocusState = "active"
	FocusDeferred  FocusState = "deferred"
	FocusCompleted FocusState = "completed"
)

// ParseFocusState maps a raw string to a FocusState.
// Unknown values default to FocusIdle so a malformed signal degrades to
// "nothing outstanding" instead of crashing the evaluation loop.
func ParseFocusState(s string) FocusState {
	switch FocusState(s) {
	case FocusIdle, FocusActive, FocusDeferred, FocusCompleted:
		return FocusState(s)
	default:
		return FocusIdle
	}
}

// =============================================================================
// PRIORITY ACTIONS
// =============================================================================

// PriorityAction identifies the single next-best action the engine can
// recommend. Exactly one of these is ever surfaced to the user per cycle.
type PriorityAction string

const (
	// ActionReviewTrust surfaces attempted actions outside the user's granted
	// authority. Always top precedence.
	ActionReviewTrust PriorityAction = "review_trust"

	ActionCloseLoops      PriorityAction = "close_loops"
	ActionHandleUrgent    PriorityAction = "handle_urgent"
	ActionResolveConflict PriorityAction = "resolve_conflict"
	ActionStartFocus      PriorityAction = "start_focus"
	ActionContinueFocus   PriorityAction = "continue_focus"
	ActionTakeBreak       PriorityAction = "take_break"
)

// String returns the wire value of the action.
func (a PriorityAction) String() string { return string(a) }

// =============================================================================
// ENGINE INPUT / OUTPUT
// =============================================================================

// PriorityInput is the ephemeral snapshot of the user's situation, rebuilt
// from live counts on every evaluation cycle. It is pure-function input:
// construct, pass, discard. Never mutate one in place.
type PriorityInput struct {
	OpenLoopsCount     int        `json:"open_loops_count"`
	UrgentMessageCount int        `json:"urgent_message_count"`
	CalendarConflicts  int        `json:"calendar_conflicts"`
	UpcomingDeadlines  int        `json:"upcoming_deadlines"`
	FocusState         FocusState `json:"focus_state"`
	FocusMinutesToday  int        `json:"focus_minutes_today"`
	TrustViolations    int        `json:"trust_violations"`
}

// Normalized returns a copy with every count clamped to zero or above and an
// unknown focus state coerced to idle. The engine never throws for malformed
// input; it degrades toward "all clear".
func (in PriorityInput) Normalized() PriorityInput {
	out := in
	out.OpenLoopsCount = clampNonNegative(in.OpenLoopsCount)
	out.UrgentMessageCount = clampNonNegative(in.UrgentMessageCount)
	out.CalendarConflicts = clampNonNegative(in.CalendarConflicts)
	out.UpcomingDeadlines = clampNonNegative(in.UpcomingDeadlines)
	out.FocusMinutesToday = clampNonNegative(in.FocusMinutesToday)
	out.TrustViolations = clampNonNegative(in.TrustViolations)
	out.FocusState = ParseFocusState(string(in.FocusState))
	return out
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// Priority is one scored candidate produced by the rule ladder. Score exists
// only for internal ordering and auditing; it is never shown to the user.
type Priority struct {
	Action PriorityAction `json:"action"`
	Score  float64        `json:"score"`
	Reason string         `json:"reason"`
}

// PriorityEngineOutput is the engine's contract with the rest of the system.
//
// Invariant: at most one action is ever exposed to the user-facing layer.
// Priorities carries the full ranked list for audit and precedence debugging
// only; consumers must render Recommendation and nothing else.
type PriorityEngineOutput struct {
	Recommendation *Priority  `json:"recommendation"`
	Priorities     []Priority `json:"priorities"`
	IsAllClear     bool       `json:"is_all_clear"`
	Reassurance    string     `json:"reassurance"`
}

// =============================================================================
// ASSISTANT ROLES
// =============================================================================

// AssistantRole is the execution authority granted to the assistant.
// Analysts advise and draft; operators execute.
type AssistantRole string

const (
	RoleAnalyst  AssistantRole = "analyst"
	RoleOperator AssistantRole = "operator"
)

// ParseAssistantRole maps a raw string to a role. Unknown values default to
// analyst: when authority is unclear, the assistant advises rather than acts.
func ParseAssistantRole(s string) AssistantRole {
	if AssistantRole(s) == RoleOperator {
		return RoleOperator
	}
	return RoleAnalyst
}

// =============================================================================
// GATED ACTION TYPES
// =============================================================================

// ActionType identifies a state-mutating request the execution gate can
// intercept before it reaches an external effect.
type ActionType string

const (
	ActionSendMessage   ActionType = "send_message"
	ActionAutoReply     ActionType = "auto_reply"
	ActionCreateTask    ActionType = "create_task"
	ActionUpdateTask    ActionType = "update_task"
	ActionDeleteTask    ActionType = "delete_task"
	ActionArchiveItem   ActionType = "archive_item"
	ActionScheduleEvent ActionType = "schedule_event"
	ActionDraftReply    ActionType = "draft_reply"
	ActionStartSession  ActionType = "start_focus_session"
	ActionClaimReward   ActionType = "claim_reward"
	ActionSpendTokens   ActionType = "spend_tokens"
)

// =============================================================================
// TRIAGE DIMENSION LABELS
// =============================================================================

// Dimension labels are supplied by an external classifier (heuristic or LLM)
// and consumed by the decision scorer. The scorer never imputes missing
// labels; callers substitute the neutral default.

// ConsequenceLabel answers "what breaks if this is ignored".
type ConsequenceLabel string

const (
	ConsequenceFinancial    ConsequenceLabel = "financial"
	ConsequenceRelationship ConsequenceLabel = "relationship"
	ConsequenceOpportunity  ConsequenceLabel = "opportunity"
	ConsequenceReputation   ConsequenceLabel = "reputation"
	ConsequenceNone         ConsequenceLabel = "none"
)

// TimeSensitivityLabel answers "when does this stop mattering".
type TimeSensitivityLabel string

const (
	TimeDeadlineToday TimeSensitivityLabel = "deadline_today"
	TimeWaitingOnUser TimeSensitivityLabel = "waiting_on_user"
	TimeCanWait       TimeSensitivityLabel = "can_wait"
	TimeNoDeadline    TimeSensitivityLabel = "no_deadline"
)

// IntentAlignmentLabel answers "does this serve what the user is trying to do".
type IntentAlignmentLabel string

const (
	IntentMatchesGoals  IntentAlignmentLabel = "matches_goals"
	IntentActiveProject IntentAlignmentLabel = "active_project"
	IntentHabitRelated  IntentAlignmentLabel = "habit_related"
	IntentRandom        IntentAlignmentLabel = "random"
)

// SourceWeightLabel answers "who is asking".
type SourceWeightLabel string

const (
	SourceHumanKnown   SourceWeightLabel = "human_known"
	SourceHumanUnknown SourceWeightLabel = "human_unknown"
	SourceSystem       SourceWeightLabel = "system"
	SourceNotification SourceWeightLabel = "notification"
)

// CognitiveLoadLabel answers "what does engaging with this cost".
type CognitiveLoadLabel string

const (
	LoadQuickDecision  CognitiveLoadLabel = "quick_decision"
	LoadDeepThinking   CognitiveLoadLabel = "deep_thinking"
	LoadEmotionalDrain CognitiveLoadLabel = "emotional_drain"
)

// ItemKind tags what sort of inbox object is being triaged.
type ItemKind string

const (
	ItemMessage      ItemKind = "message"
	ItemTask         ItemKind = "task"
	ItemNotification ItemKind = "notification"
	ItemReminder     ItemKind = "reminder"
)
