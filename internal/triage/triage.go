// Package triage scores individual inbox items and maps the composite score
// to a discrete action class.
//
// The scorer is a fixed weighted sum over five classifier-labeled dimensions.
// It is deterministic and side-effect free: same item, same labels, same
// score. Label classification itself lives behind the classify package; by
// the time data reaches this package it is plain in-memory values.
package triage

import (
	"tiller/internal/types"
)

// =============================================================================
// WEIGHTS AND THRESHOLDS
// =============================================================================

// Dimension weights. They sum to 1.0, so the composite stays in [0, 10].
const (
	WeightConsequence     = 0.30
	WeightTimeSensitivity = 0.25
	WeightIntentAlignment = 0.20
	WeightSourceWeight    = 0.15
	WeightCognitiveLoad   = 0.10
)

// NeutralScore is the mid-range sub-score substituted for a missing or
// unrecognized dimension label. The substitution happens in Inputs, on the
// caller's side of the contract; Score never imputes missing data itself.
const NeutralScore = 5.0

// Classification thresholds, inclusive on the lower bound.
const (
	ThresholdActNow   = 7.5
	ThresholdSchedule = 5.0
	ThresholdDelegate = 3.0
	ThresholdArchive  = 1.5
)

// breaksSomethingFloor is the sub-score both consequence and time sensitivity
// must reach before ignoring the item today is judged to break something.
const breaksSomethingFloor = 7.0

// =============================================================================
// TYPES
// =============================================================================

// Item is one inbox object under triage.
type Item struct {
	ID      string         `json:"id"`
	Kind    types.ItemKind `json:"kind"`
	Summary string         `json:"summary"`
}

// Labels carries the classifier-provided categorical label for each
// dimension. A zero-value field means the classifier could not label that
// dimension.
type Labels struct {
	Consequence     types.ConsequenceLabel     `json:"consequence"`
	TimeSensitivity types.TimeSensitivityLabel `json:"time_sensitivity"`
	IntentAlignment types.IntentAlignmentLabel `json:"intent_alignment"`
	SourceWeight    types.SourceWeightLabel    `json:"source_weight"`
	CognitiveLoad   types.CognitiveLoadLabel   `json:"cognitive_load"`
}

// SubScores holds the five numeric dimension scores, each in [0, 10].
type SubScores struct {
	Consequence     float64 `json:"consequence"`
	TimeSensitivity float64 `json:"time_sensitivity"`
	IntentAlignment float64 `json:"intent_alignment"`
	SourceWeight    float64 `json:"source_weight"`
	CognitiveLoad   float64 `json:"cognitive_load"`
}

// DimensionInputs is the complete scorer input for one item: the labels and
// the numeric sub-scores standing behind them.
type DimensionInputs struct {
	Labels Labels    `json:"labels"`
	Scores SubScores `json:"scores"`
}

// DecisionScores is the scorer output for one item.
type DecisionScores struct {
	Item       Item            `json:"item"`
	Inputs     DimensionInputs `json:"inputs"`
	TotalScore float64         `json:"total_score"`

	// BreaksSomething is the core triage question: if this is ignored today,
	// does something meaningful break? True when both consequence and time
	// sensitivity score high.
	BreaksSomething bool `json:"breaks_something"`
}

// Classification is the discrete action class for a triaged item.
type Classification string

const (
	ClassActNow   Classification = "act_now"
	ClassSchedule Classification = "schedule"
	ClassDelegate Classification = "delegate"
	ClassArchive  Classification = "archive"
	ClassIgnore   Classification = "ignore"
)

// UrgencyRank orders classifications from least to most urgent. Useful for
// asserting monotonicity and for sorting triaged batches.
func (c Classification) UrgencyRank() int {
	switch c {
	case ClassActNow:
		return 4
	case ClassSchedule:
		return 3
	case ClassDelegate:
		return 2
	case ClassArchive:
		return 1
	default:
		return 0
	}
}

// =============================================================================
// LABEL SUB-SCORE TABLES
// =============================================================================

// Canonical sub-scores per label. Declared data, not computed: the scoring
// contract depends on these being stable across releases.

var consequenceScores = map[types.ConsequenceLabel]float64{
	types.ConsequenceFinancial:    9,
	types.ConsequenceRelationship: 8,
	types.ConsequenceReputation:   7,
	types.ConsequenceOpportunity:  6,
	types.ConsequenceNone:         1,
}

var timeSensitivityScores = map[types.TimeSensitivityLabel]float64{
	types.TimeDeadlineToday: 9,
	types.TimeWaitingOnUser: 7,
	types.TimeCanWait:       4,
	types.TimeNoDeadline:    2,
}

var intentAlignmentScores = map[types.IntentAlignmentLabel]float64{
	types.IntentMatchesGoals:  8,
	types.IntentActiveProject: 7,
	types.IntentHabitRelated:  5,
	types.IntentRandom:        2,
}

var sourceWeightScores = map[types.SourceWeightLabel]float64{
	types.SourceHumanKnown:   7,
	types.SourceHumanUnknown: 5,
	types.SourceSystem:       3,
	types.SourceNotification: 2,
}

var cognitiveLoadScores = map[types.CognitiveLoadLabel]float64{
	types.LoadQuickDecision:  2,
	types.LoadDeepThinking:   6,
	types.LoadEmotionalDrain: 9,
}

// Inputs resolves labels to their canonical sub-scores. Missing or unknown
// labels get NeutralScore. This is the one place neutral defaults are
// imputed; Score trusts whatever it is handed.
func Inputs(labels Labels) DimensionInputs {
	return DimensionInputs{
		Labels: labels,
		Scores: SubScores{
			Consequence:     lookupScore(consequenceScores, labels.Consequence),
			TimeSensitivity: lookupScore(timeSensitivityScores, labels.TimeSensitivity),
			IntentAlignment: lookupScore(intentAlignmentScores, labels.IntentAlignment),
			SourceWeight:    lookupScore(sourceWeightScores, labels.SourceWeight),
			CognitiveLoad:   lookupScore(cognitiveLoadScores, labels.CognitiveLoad),
		},
	}
}

func lookupScore[L comparable](table map[L]float64, label L) float64 {
	if s, ok := table[label]; ok {
		return s
	}
	return NeutralScore
}

// =============================================================================
// SCORER
// =============================================================================

// Score computes the weighted composite for one item.
//
// Four dimensions contribute directly; cognitive load is inverted: an item
// that costs more to engage with ranks lower, not higher. Sub-scores are
// clamped to [0, 10] first, so the composite is bounded in [0, 10] even for
// adversarial input.
func Score(item Item, in DimensionInputs) DecisionScores {
	s := SubScores{
		Consequence:     clampScore(in.Scores.Consequence),
		TimeSensitivity: clampScore(in.Scores.TimeSensitivity),
		IntentAlignment: clampScore(in.Scores.IntentAlignment),
		SourceWeight:    clampScore(in.Scores.SourceWeight),
		CognitiveLoad:   clampScore(in.Scores.CognitiveLoad),
	}

	total := s.Consequence*WeightConsequence +
		s.TimeSensitivity*WeightTimeSensitivity +
		s.IntentAlignment*WeightIntentAlignment +
		s.SourceWeight*WeightSourceWeight +
		(10-s.CognitiveLoad)*WeightCognitiveLoad

	return DecisionScores{
		Item:       item,
		Inputs:     DimensionInputs{Labels: in.Labels, Scores: s},
		TotalScore: total,
		BreaksSomething: s.Consequence >= breaksSomethingFloor &&
			s.TimeSensitivity >= breaksSomethingFloor,
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classify maps a composite score to its action class. Thresholds are
// inclusive on the lower bound: a score of exactly 7.5 is act_now.
// Monotonic by construction: a higher score never classifies as less
// urgent than a lower one.
func Classify(totalScore float64) Classification {
	switch {
	case totalScore >= ThresholdActNow:
		return ClassActNow
	case totalScore >= ThresholdSchedule:
		return ClassSchedule
	case totalScore >= ThresholdDelegate:
		return ClassDelegate
	case totalScore >= ThresholdArchive:
		return ClassArchive
	default:
		return ClassIgnore
	}
}

// DecisionResult bundles the scorer and classifier outputs for one item.
type DecisionResult struct {
	Scores         DecisionScores `json:"scores"`
	Classification Classification `json:"classification"`
}

// Triage scores and classifies one item in a single call.
func Triage(item Item, labels Labels) DecisionResult {
	scores := Score(item, Inputs(labels))
	return DecisionResult{
		Scores:         scores,
		Classification: Classify(scores.TotalScore),
	}
}
