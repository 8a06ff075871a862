package types

import "testing"

func TestParseFocusState_UnknownDefaultsToIdle(t *testing.T) {
	cases := map[string]FocusState{
		"idle":      FocusIdle,
		"active":    FocusActive,
		"deferred":  FocusDeferred,
		"completed": FocusCompleted,
		"":          FocusIdle,
		"paused":    FocusIdle,
		"ACTIVE":    FocusIdle, // values are case-sensitive on the wire
	}
	for raw, want := range cases {
		if got := ParseFocusState(raw); got != want {
			t.Errorf("ParseFocusState(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestParseAssistantRole_DefaultsToAnalyst(t *testing.T) {
	if got := ParseAssistantRole("operator"); got != RoleOperator {
		t.Fatalf("expected operator, got %q", got)
	}
	for _, raw := range []string{"analyst", "", "admin", "root"} {
		if got := ParseAssistantRole(raw); got != RoleAnalyst {
			t.Errorf("ParseAssistantRole(%q) = %q, want analyst", raw, got)
		}
	}
}

func TestPriorityInputNormalized_ClampsNegativeCounts(t *testing.T) {
	in := PriorityInput{
		OpenLoopsCount:     -3,
		UrgentMessageCount: -1,
		CalendarConflicts:  2,
		UpcomingDeadlines:  -9,
		FocusState:         FocusState("???"),
		FocusMinutesToday:  -45,
		TrustViolations:    -1,
	}
	got := in.Normalized()

	if got.OpenLoopsCount != 0 || got.UrgentMessageCount != 0 || got.UpcomingDeadlines != 0 ||
		got.FocusMinutesToday != 0 || got.TrustViolations != 0 {
		t.Errorf("negative counts not clamped: %+v", got)
	}
	if got.CalendarConflicts != 2 {
		t.Errorf("valid count mutated: got %d, want 2", got.CalendarConflicts)
	}
	if got.FocusState != FocusIdle {
		t.Errorf("unknown focus state not coerced to idle: %q", got.FocusState)
	}

	// Input must be left untouched.
	if in.OpenLoopsCount != -3 {
		t.Errorf("Normalized mutated its receiver: %+v", in)
	}
}
