package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"tiller/internal/triage"
	"tiller/internal/types"
)

// =============================================================================
// GOOGLE GENAI LABELER
// =============================================================================

// GenAILabeler labels items with Google's Gemini API. The model is asked for
// strict JSON; anything outside the label vocabulary is dropped so a
// hallucinated label degrades to the neutral sub-score instead of skewing
// the composite.
type GenAILabeler struct {
	client *genai.Client
	model  string
}

// NewGenAILabeler creates a Gemini-backed labeler.
func NewGenAILabeler(ctx context.Context, apiKey, model string) (*GenAILabeler, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAILabeler{client: client, model: model}, nil
}

const labelPrompt = `You label one inbox item for a triage system.
Return ONLY a JSON object with exactly these keys and one allowed value each:
  "consequence": financial | relationship | opportunity | reputation | none
  "time_sensitivity": deadline_today | waiting_on_user | can_wait | no_deadline
  "intent_alignment": matches_goals | active_project | habit_related | random
  "source_weight": human_known | human_unknown | system | notification
  "cognitive_load": quick_decision | deep_thinking | emotional_drain

Item kind: %s
Item text: %s`

// wireLabels is the JSON shape requested from the model.
type wireLabels struct {
	Consequence     string `json:"consequence"`
	TimeSensitivity string `json:"time_sensitivity"`
	IntentAlignment string `json:"intent_alignment"`
	SourceWeight    string `json:"source_weight"`
	CognitiveLoad   string `json:"cognitive_load"`
}

// Label implements Labeler.
func (g *GenAILabeler) Label(ctx context.Context, item triage.Item) (triage.Labels, error) {
	prompt := fmt.Sprintf(labelPrompt, item.Kind, item.Summary)

	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return triage.Labels{}, fmt.Errorf("GenAI labeling failed: %w", err)
	}

	raw := strings.TrimSpace(result.Text())
	// Some models wrap JSON in a fenced block even when asked not to.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var wire wireLabels
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return triage.Labels{}, fmt.Errorf("GenAI returned malformed labels: %w", err)
	}

	return sanitize(triage.Labels{
		Consequence:     types.ConsequenceLabel(wire.Consequence),
		TimeSensitivity: types.TimeSensitivityLabel(wire.TimeSensitivity),
		IntentAlignment: types.IntentAlignmentLabel(wire.IntentAlignment),
		SourceWeight:    types.SourceWeightLabel(wire.SourceWeight),
		CognitiveLoad:   types.CognitiveLoadLabel(wire.CognitiveLoad),
	}), nil
}
