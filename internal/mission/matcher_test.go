package mission

import (
	"testing"

	"github.com/hackersim/backend/internal/state"
)

func testMissions() []state.Mission {
	return []state.Mission{
		{
			ID:     "m1",
			Status: state.StatusActive,
			Steps: []state.Step{
				{ID: "s1", Text: "Scan the network for open ports"},
				{ID: "s2", Text: "Decrypt the password hash"},
			},
		},
		{
			ID:     "m2",
			Status: state.StatusActive,
			Steps: []state.Step{
				{ID: "s1", Text: "Monitor the firewall traffic"},
			},
		},
		{
			ID:     "m3",
			Status: state.StatusLocked,
			Steps: []state.Step{
				{ID: "s1", Text: "Scan the perimeter"},
			},
		},
	}
}

func TestFindMatches_AllActiveMissions(t *testing.T) {
	matches := FindMatches("scan", testMissions())
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2: %+v", len(matches), matches)
	}
	if matches[0].MissionID != "m1" || matches[0].StepID != "s1" {
		t.Errorf("first match = %+v", matches[0])
	}
	if matches[1].MissionID != "m2" || matches[1].StepID != "s1" {
		t.Errorf("second match = %+v", matches[1])
	}
}

func TestFindMatches_SkipsLockedMissions(t *testing.T) {
	for _, m := range FindMatches("scan", testMissions()) {
		if m.MissionID == "m3" {
			t.Error("matched a step in a locked mission")
		}
	}
}

func TestFindMatches_SkipsCompletedSteps(t *testing.T) {
	ms := testMissions()
	ms[0].Steps[0].Completed = true
	for _, m := range FindMatches("scan", ms) {
		if m.MissionID == "m1" && m.StepID == "s1" {
			t.Error("matched a completed step")
		}
	}
}

func TestFindMatches_CaseInsensitive(t *testing.T) {
	ms := []state.Mission{{
		ID:     "m1",
		Status: state.StatusActive,
		Steps:  []state.Step{{ID: "s1", Text: "DECRYPT THE MASTER CIPHER"}},
	}}
	if len(FindMatches("decrypt", ms)) != 1 {
		t.Error("uppercase step text did not match")
	}
	if len(FindMatches("DECRYPT", ms)) != 1 {
		t.Error("uppercase command did not match")
	}
}

func TestFindMatches_UnknownCommand(t *testing.T) {
	if got := FindMatches("selfdestruct", testMissions()); got != nil {
		t.Errorf("unknown command matched: %+v", got)
	}
}

func TestFindMatches_OneMatchPerStep(t *testing.T) {
	// "network" and "ports" both hit the same step; it must match once.
	ms := []state.Mission{{
		ID:     "m1",
		Status: state.StatusActive,
		Steps:  []state.Step{{ID: "s1", Text: "Map the network ports"}},
	}}
	if got := FindMatches("scan", ms); len(got) != 1 {
		t.Errorf("got %d matches, want 1", len(got))
	}
}

func TestKeywords_PasswordIsSharedVocabulary(t *testing.T) {
	// Both decrypt and bruteforce claim "password": a step mentioning it
	// satisfies either command.
	ms := []state.Mission{{
		ID:     "m1",
		Status: state.StatusActive,
		Steps:  []state.Step{{ID: "s1", Text: "Recover the admin password"}},
	}}
	if len(FindMatches("decrypt", ms)) != 1 {
		t.Error("decrypt did not match password step")
	}
	if len(FindMatches("bruteforce", ms)) != 1 {
		t.Error("bruteforce did not match password step")
	}
}
