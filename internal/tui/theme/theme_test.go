package theme

import "testing"

func TestByNameFallsBackToDefault(t *testing.T) {
	if got := ByName("catppuccin-mocha").Name; got != "catppuccin-mocha" {
		t.Fatalf("ByName(catppuccin-mocha) = %q", got)
	}
	if got := ByName("tokyo-night").Name; got != FlexokiDark.Name {
		t.Fatalf("ByName(unknown) = %q, want %q", got, FlexokiDark.Name)
	}
}

func TestSetActive(t *testing.T) {
	defer SetActive(FlexokiDark.Name)

	SetActive("terminal")
	if Active.Name != "terminal" {
		t.Fatalf("Active = %q, want terminal", Active.Name)
	}
}

func TestForUsage(t *testing.T) {
	th := FlexokiDark
	tests := []struct {
		pct  float64
		over bool
		want string
	}{
		{0, false, string(th.Green)},
		{0.74, false, string(th.Green)},
		{0.75, false, string(th.Yellow)},
		{1, false, string(th.Orange)},
		{1.2, true, string(th.Red)},
	}
	for _, tt := range tests {
		if got := string(th.ForUsage(tt.pct, tt.over)); got != tt.want {
			t.Errorf("ForUsage(%v, %v) = %s, want %s", tt.pct, tt.over, got, tt.want)
		}
	}
}
