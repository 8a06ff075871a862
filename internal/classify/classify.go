// Package classify supplies dimension labels for items under triage.
//
// The scorer treats label classification as an opaque capability: given an
// item's text, return one categorical label per dimension. This package
// provides the two implementations behind that boundary, a keyword
// heuristic that works offline and a Gemini-backed labeler, plus the
// interface the rest of the system programs against.
//
// Labelers run at the async edge, before the synchronous core is invoked.
// The scorer never sees this package.
package classify

import (
	"context"
	"strings"

	"tiller/internal/triage"
	"tiller/internal/types"
)

// Labeler produces the five dimension labels for one item. A zero-value
// field in the returned Labels means "could not label this dimension"; the
// caller resolves it to a neutral sub-score via triage.Inputs.
type Labeler interface {
	Label(ctx context.Context, item triage.Item) (triage.Labels, error)
}

// =============================================================================
// HEURISTIC LABELER
// =============================================================================

// Heuristic labels items from keyword evidence in the summary text. It is
// deterministic and dependency-free: the fallback when no LLM is configured,
// and the baseline the LLM labeler is sanity-checked against.
type Heuristic struct{}

// Label implements Labeler. It never returns an error.
func (Heuristic) Label(_ context.Context, item triage.Item) (triage.Labels, error) {
	text := strings.ToLower(item.Summary)

	labels := triage.Labels{
		Consequence:     consequenceFromText(text),
		TimeSensitivity: timeFromText(text),
		IntentAlignment: intentFromText(text),
		SourceWeight:    sourceFromKind(item.Kind),
		CognitiveLoad:   loadFromText(text),
	}
	return labels, nil
}

func consequenceFromText(text string) types.ConsequenceLabel {
	switch {
	case containsAny(text, "invoice", "payment", "bill", "refund", "salary", "contract"):
		return types.ConsequenceFinancial
	case containsAny(text, "birthday", "anniversary", "thank", "apolog", "family", "friend"):
		return types.ConsequenceRelationship
	case containsAny(text, "offer", "interview", "opportunity", "application", "deadline to apply"):
		return types.ConsequenceOpportunity
	case containsAny(text, "review", "public", "press", "complaint", "escalat"):
		return types.ConsequenceReputation
	case text == "":
		return ""
	default:
		return types.ConsequenceNone
	}
}

func timeFromText(text string) types.TimeSensitivityLabel {
	switch {
	case containsAny(text, "today", "by eod", "end of day", "tonight", "asap", "overdue"):
		return types.TimeDeadlineToday
	case containsAny(text, "waiting on you", "waiting for you", "your turn", "blocked on you", "needs your"):
		return types.TimeWaitingOnUser
	case containsAny(text, "this week", "by friday", "next week", "soon"):
		return types.TimeCanWait
	case text == "":
		return ""
	default:
		return types.TimeNoDeadline
	}
}

func intentFromText(text string) types.IntentAlignmentLabel {
	switch {
	case containsAny(text, "goal", "okr", "milestone", "quarter"):
		return types.IntentMatchesGoals
	case containsAny(text, "project", "sprint", "launch", "release"):
		return types.IntentActiveProject
	case containsAny(text, "daily", "weekly", "habit", "routine", "standup"):
		return types.IntentHabitRelated
	case text == "":
		return ""
	default:
		return types.IntentRandom
	}
}

func sourceFromKind(kind types.ItemKind) types.SourceWeightLabel {
	switch kind {
	case types.ItemMessage:
		return types.SourceHumanKnown
	case types.ItemTask, types.ItemReminder:
		return types.SourceSystem
	case types.ItemNotification:
		return types.SourceNotification
	default:
		return ""
	}
}

func loadFromText(text string) types.CognitiveLoadLabel {
	switch {
	case containsAny(text, "conflict", "difficult", "sorry", "bad news", "dispute", "breakup"):
		return types.LoadEmotionalDrain
	case containsAny(text, "plan", "design", "strategy", "write", "proposal", "budget"):
		return types.LoadDeepThinking
	case text == "":
		return ""
	default:
		return types.LoadQuickDecision
	}
}

func containsAny(text string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// =============================================================================
// LABEL VALIDATION
// =============================================================================

// sanitize drops labels outside the known vocabularies. Anything a labeler
// invents collapses to the zero value, which the scorer side resolves to a
// neutral sub-score.
func sanitize(l triage.Labels) triage.Labels {
	if !knownConsequence(l.Consequence) {
		l.Consequence = ""
	}
	if !knownTime(l.TimeSensitivity) {
		l.TimeSensitivity = ""
	}
	if !knownIntent(l.IntentAlignment) {
		l.IntentAlignment = ""
	}
	if !knownSource(l.SourceWeight) {
		l.SourceWeight = ""
	}
	if !knownLoad(l.CognitiveLoad) {
		l.CognitiveLoad = ""
	}
	return l
}

func knownConsequence(l types.ConsequenceLabel) bool {
	switch l {
	case types.ConsequenceFinancial, types.ConsequenceRelationship,
		types.ConsequenceOpportunity, types.ConsequenceReputation, types.ConsequenceNone:
		return true
	}
	return false
}

func knownTime(l types.TimeSensitivityLabel) bool {
	switch l {
	case types.TimeDeadlineToday, types.TimeWaitingOnUser, types.TimeCanWait, types.TimeNoDeadline:
		return true
	}
	return false
}

func knownIntent(l types.IntentAlignmentLabel) bool {
	switch l {
	case types.IntentMatchesGoals, types.IntentActiveProject, types.IntentHabitRelated, types.IntentRandom:
		return true
	}
	return false
}

func knownSource(l types.SourceWeightLabel) bool {
	switch l {
	case types.SourceHumanKnown, types.SourceHumanUnknown, types.SourceSystem, types.SourceNotification:
		return true
	}
	return false
}

func knownLoad(l types.CognitiveLoadLabel) bool {
	switch l {
	case types.LoadQuickDecision, types.LoadDeepThinking, types.LoadEmotionalDrain:
		return true
	}
	return false
}
