package engine

import (
	"errors"
	"fmt"

	"tiller/internal/types"
)

// ErrUnknownAction reports a PriorityAction with no copy entry. This is a
// programming defect (a rule was added without its copy), not a runtime data
// issue, so unlike everything else in this package it surfaces as an error.
var ErrUnknownAction = errors.New("engine: no copy registered for action")

// ActionText is the fixed user-facing rendering of one recommendation.
// Copy is declared, never generated: the UI can only ever show a
// recommendation the engine actually made, worded exactly as written here.
type ActionText struct {
	Headline    string `json:"headline"`
	Description string `json:"description"`
	CTA         string `json:"cta"`
	Href        string `json:"href"`
}

var actionTexts = map[types.PriorityAction]ActionText{
	types.ActionReviewTrust: {
		Headline:    "Something needs your say-so",
		Description: "I held back an action that went past what you've approved. Review it when you have a minute.",
		CTA:         "Review held actions",
		Href:        "/trust",
	},
	types.ActionCloseLoops: {
		Headline:    "Close a few loops",
		Description: "Several things are sitting half-finished. Clearing even one will lighten the load.",
		CTA:         "Show open loops",
		Href:        "/inbox?filter=open",
	},
	types.ActionHandleUrgent: {
		Headline:    "One message can't wait",
		Description: "You have unread messages marked urgent. Deal with the top one; the rest can follow.",
		CTA:         "Open urgent messages",
		Href:        "/inbox?filter=urgent",
	},
	types.ActionResolveConflict: {
		Headline:    "Your calendar double-booked you",
		Description: "Two commitments overlap. Pick one to move before the day decides for you.",
		CTA:         "Fix the conflict",
		Href:        "/calendar",
	},
	types.ActionContinueFocus: {
		Headline:    "Stay with it",
		Description: "Your focus session is still running. Everything else is being held at the door.",
		CTA:         "Back to focus",
		Href:        "/focus",
	},
	types.ActionStartFocus: {
		Headline:    "Good moment for deep work",
		Description: "Deadlines are coming up and nothing is on fire. Start a focus session while it's quiet.",
		CTA:         "Start a session",
		Href:        "/focus/new",
	},
	types.ActionTakeBreak: {
		Headline:    "You've earned a pause",
		Description: "That's a lot of focused time for one day. Step away for a bit; I'll watch the inbox.",
		CTA:         "Take a break",
		Href:        "/focus/break",
	},
}

// allClearText is rendered when the engine recommends nothing.
var allClearText = ActionText{
	Headline:    "All clear",
	Description: "Nothing needs your attention right now.",
	CTA:         "",
	Href:        "/",
}

// NextBestActionText maps an engine output to its fixed display copy. A nil
// recommendation yields the all-clear tuple. An action missing from the copy
// table returns ErrUnknownAction.
func NextBestActionText(out types.PriorityEngineOutput) (ActionText, error) {
	if out.Recommendation == nil {
		return allClearText, nil
	}
	text, ok := actionTexts[out.Recommendation.Action]
	if !ok {
		return ActionText{}, fmt.Errorf("%w: %q", ErrUnknownAction, out.Recommendation.Action)
	}
	return text, nil
}
