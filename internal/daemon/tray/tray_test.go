package tray

import "testing"

func TestFormatTooltip(t *testing.T) {
	if got := formatTooltip(true); got != "commitsense - Logging enabled" {
		t.Errorf("formatTooltip(true) = %q", got)
	}
	if got := formatTooltip(false); got != "commitsense - Logging disabled" {
		t.Errorf("formatTooltip(false) = %q", got)
	}
}

func TestFormatEntries(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 entries logged"},
		{1, "1 entry logged"},
		{42, "42 entries logged"},
	}
	for _, tt := range tests {
		if got := formatEntries(tt.n); got != tt.want {
			t.Errorf("formatEntries(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestRefreshBeforeReadyIsNoop(t *testing.T) {
	state = nil
	Refresh()
}
