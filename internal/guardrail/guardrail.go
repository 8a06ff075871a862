// Package guardrail filters candidate assistant utterances before they reach
// the user.
//
// The assistant this module serves is built around cognitive restraint: it
// never asks a question the user didn't invite, never lays out a menu of
// options, and prefers saying nothing at all. This package enforces those
// rules as a stateless post-processing pass: every candidate utterance goes
// through Apply immediately before render, parameterized by the caller's
// current focus/urgency context.
//
// Violations are diagnostics for the caller (auto-fix or log), never shown
// to the end user.
package guardrail

import (
	"strings"

	"tiller/internal/types"
)

// =============================================================================
// CONTEXT AND RESULTS
// =============================================================================

// Context describes the situation the candidate utterance would land in.
type Context struct {
	// HasUserRequest is true when the user explicitly asked for something
	// this turn. Unprompted speech is held to stricter rules.
	HasUserRequest bool

	// HasUrgentItems is true when something genuinely urgent is outstanding.
	HasUrgentItems bool

	// HasActionableItem is true when the engine currently recommends an
	// action.
	HasActionableItem bool

	// IsInFocusMode is true while a focus session runs. Silence rules get
	// more aggressive: only urgency or a direct request justifies speaking.
	IsInFocusMode bool

	// AutoFix rewrites offending candidates instead of only flagging them.
	AutoFix bool

	// ApprovedOption is the engine-approved single option, used to collapse
	// multi-option candidates. The guardrail never ranks options itself;
	// collapsing without an approved option is a violation, not a rewrite.
	ApprovedOption string
}

// ViolationKind tags which restraint rule a candidate broke.
type ViolationKind string

const (
	ViolationUnnecessaryQuestion ViolationKind = "unnecessary_question"
	ViolationMultipleOptions     ViolationKind = "multiple_options"
	ViolationShouldBeSilent      ViolationKind = "should_be_silent"
)

// Violation records one broken rule, with enough detail to debug the
// offending candidate.
type Violation struct {
	Kind   ViolationKind `json:"kind"`
	Detail string        `json:"detail"`
}

// Result is the outcome of one guardrail pass.
//
// Invariant: WasSilent implies Output is empty; the caller must suppress all
// display and speech for the turn.
type Result struct {
	Output      string      `json:"output"`
	WasModified bool        `json:"was_modified"`
	WasSilent   bool        `json:"was_silent"`
	Violations  []Violation `json:"violations"`
}

// =============================================================================
// SILENCE POLICY
// =============================================================================

// ShouldRemainSilent reports whether the assistant has any business speaking
// at all this turn.
//
// Baseline: with no urgency, no user request, and nothing actionable, the
// answer is silence, for every focus-mode value. In focus mode the bar
// rises further: an actionable-but-not-urgent item does not justify
// interrupting.
func ShouldRemainSilent(ctx Context) bool {
	if ctx.HasUserRequest {
		return false
	}
	if ctx.IsInFocusMode {
		return !ctx.HasUrgentItems
	}
	return !ctx.HasUrgentItems && !ctx.HasActionableItem
}

// =============================================================================
// GUARDRAIL PASS
// =============================================================================

// Apply runs the full restraint policy over one candidate utterance.
//
// Order matters: silence is decided first (a suppressed turn needs no
// rewriting), then unnecessary questions, then multi-option collapse. With
// AutoFix set, offending text is rewritten and the violation recorded; with
// it clear, the candidate passes through annotated so the caller can decide.
func Apply(candidate string, ctx Context) Result {
	res := Result{Output: candidate}

	if ShouldRemainSilent(ctx) {
		res.Output = ""
		res.WasSilent = true
		if strings.TrimSpace(candidate) != "" {
			res.Violations = append(res.Violations, Violation{
				Kind:   ViolationShouldBeSilent,
				Detail: "candidate produced during a turn that calls for silence",
			})
		}
		return res
	}

	if !ctx.HasUserRequest && containsQuestion(res.Output) {
		res.Violations = append(res.Violations, Violation{
			Kind:   ViolationUnnecessaryQuestion,
			Detail: "interrogative present without a user request",
		})
		if ctx.AutoFix {
			res.Output = stripQuestions(res.Output)
			res.WasModified = true
		}
	}

	if n := countOptions(res.Output); n > 1 {
		res.Violations = append(res.Violations, Violation{
			Kind:   ViolationMultipleOptions,
			Detail: "candidate enumerates more than one actionable option",
		})
		if ctx.AutoFix && ctx.ApprovedOption != "" {
			res.Output = collapseOptions(res.Output, ctx.ApprovedOption)
			res.WasModified = true
		}
	}

	// Fixes can hollow a candidate out entirely; an empty utterance is a
	// silent turn, not a blank bubble.
	if strings.TrimSpace(res.Output) == "" {
		res.Output = ""
		res.WasSilent = true
	}
	return res
}

// =============================================================================
// UNCERTAINTY
// =============================================================================

// ConfidenceFloor is the confidence below which the assistant reassures
// instead of asserting.
const ConfidenceFloor = 0.6

// UncertaintyRequest describes a topic the assistant is unsure about.
type UncertaintyRequest struct {
	Topic           string  `json:"topic"`
	ConfidenceLevel float64 `json:"confidence_level"`
	HasPartialInfo  bool    `json:"has_partial_info"`
}

// ResolveUncertainty converts uncertainty into a calm statement. It never
// returns an interrogative: below the confidence floor the user gets a fixed
// reassurance, not a request to disambiguate.
func ResolveUncertainty(req UncertaintyRequest) string {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		topic = "this"
	}
	switch {
	case req.ConfidenceLevel >= ConfidenceFloor:
		return "Here's where " + topic + " stands. I'll flag it if anything changes."
	case req.HasPartialInfo:
		return "I have part of the picture on " + topic + ". Nothing needs you yet; I'll fill in the rest."
	default:
		return "I'm still gathering context on " + topic + ". Nothing needs your attention right now."
	}
}

// =============================================================================
// SINGLE-ACTION SELECTION
// =============================================================================

// SelectSingleBestAction collapses any list of scored options to exactly one:
// highest score wins, ties break by original order, empty list yields nil.
//
// This is the only path by which multiple candidates may ever be reduced to
// one for user presentation. Callers must not re-rank elsewhere.
func SelectSingleBestAction(options []types.Priority) *types.Priority {
	if len(options) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(options); i++ {
		if options[i].Score > options[best].Score {
			best = i
		}
	}
	pick := options[best]
	return &pick
}

// =============================================================================
// TEXT HEURISTICS
// =============================================================================

// containsQuestion reports whether any sentence in the text ends with a
// question mark.
func containsQuestion(text string) bool {
	return strings.Contains(text, "?")
}

// stripQuestions removes interrogative sentences, keeping declarative ones.
func stripQuestions(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		var sentences []string
		for _, s := range splitSentences(line) {
			if !strings.HasSuffix(strings.TrimSpace(s), "?") {
				sentences = append(sentences, strings.TrimSpace(s))
			}
		}
		kept = append(kept, strings.Join(sentences, " "))
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// splitSentences is a deliberately simple splitter: terminator-bounded
// chunks. Good enough for assistant copy, which this package controls.
func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			out = append(out, b.String())
			b.Reset()
		}
	}
	if strings.TrimSpace(b.String()) != "" {
		out = append(out, b.String())
	}
	return out
}

// countOptions counts enumerated actionable options: bulleted or numbered
// lines, or explicit "Option X" offers.
func countOptions(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if isBullet(trimmed) || strings.HasPrefix(strings.ToLower(trimmed), "option ") {
			count++
		}
	}
	return count
}

func isBullet(line string) bool {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "• ") {
		return true
	}
	// Numbered list: "1. foo" / "2) bar"
	if len(line) >= 3 && line[0] >= '0' && line[0] <= '9' &&
		(line[1] == '.' || line[1] == ')') && line[2] == ' ' {
		return true
	}
	return false
}

// collapseOptions replaces every enumerated option with the single approved
// one, preserving any surrounding prose.
func collapseOptions(text, approved string) string {
	var out []string
	replaced := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && (isBullet(trimmed) || strings.HasPrefix(strings.ToLower(trimmed), "option ")) {
			if !replaced {
				out = append(out, approved)
				replaced = true
			}
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
