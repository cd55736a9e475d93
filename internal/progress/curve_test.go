package progress

import "testing"

func TestXPForLevel_PinnedValues(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{0, 0},
		{1, 0},
		{2, 100},
		{3, 115},
		{4, 132},
		{5, 152},
		{10, 305},
	}
	for _, tt := range tests {
		if got := XPForLevel(tt.level); got != tt.want {
			t.Errorf("XPForLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestTotalXPForLevel_PinnedValues(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{1, 0},
		{2, 100},
		{3, 215},
		{4, 347},
	}
	for _, tt := range tests {
		if got := TotalXPForLevel(tt.level); got != tt.want {
			t.Errorf("TotalXPForLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestLevelFromXP_BoundaryExactness(t *testing.T) {
	for level := 2; level <= 40; level++ {
		at := TotalXPForLevel(level)
		if got := LevelFromXP(at); got != level {
			t.Errorf("LevelFromXP(TotalXPForLevel(%d)=%d) = %d, want %d", level, at, got, level)
		}
		if got := LevelFromXP(at - 1); got != level-1 {
			t.Errorf("LevelFromXP(%d) = %d, want %d", at-1, got, level-1)
		}
	}
}

func TestLevelFromXP_NegativeTreatedAsZero(t *testing.T) {
	if got := LevelFromXP(-500); got != 1 {
		t.Errorf("LevelFromXP(-500) = %d, want 1", got)
	}
}

func TestXPProgress(t *testing.T) {
	p := XPProgress(150)
	if p.Level != 2 {
		t.Errorf("level = %d, want 2", p.Level)
	}
	if p.CurrentXP != 50 {
		t.Errorf("currentXp = %d, want 50", p.CurrentXP)
	}
	if p.XPForNextLevel != 115 {
		t.Errorf("xpForNextLevel = %d, want 115", p.XPForNextLevel)
	}
	if p.XPNeeded != 65 {
		t.Errorf("xpNeeded = %d, want 65", p.XPNeeded)
	}
	if p.Fraction < 0 || p.Fraction > 1 {
		t.Errorf("fraction %f outside [0,1]", p.Fraction)
	}
}

func TestXPProgress_ClampedOnPathologicalInput(t *testing.T) {
	p := XPProgress(-1)
	if p.Level != 1 || p.CurrentXP != 0 {
		t.Errorf("negative XP: got level=%d currentXp=%d, want 1 and 0", p.Level, p.CurrentXP)
	}
	if p.Fraction != 0 {
		t.Errorf("negative XP: fraction = %f, want 0", p.Fraction)
	}
}
