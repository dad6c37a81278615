package country

import "testing"

func TestISO2(t *testing.T) {
	tests := map[string]string{
		"FRA":  "FR",
		"GER":  "DE",
		"SUI":  "CH",
		"IRI":  "IR",
		"usa":  "US",
		" JPN": "JP",
		"XXX":  "",
		"":     "",
	}
	for in, want := range tests {
		if got := ISO2(in); got != want {
			t.Errorf("ISO2(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFlag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"FR", "\U0001F1EB\U0001F1F7"},
		{"us", "\U0001F1FA\U0001F1F8"},
		{"", ""},
		{"F", ""},
		{"F1", ""},
	}
	for _, tt := range tests {
		if got := Flag(tt.in); got != tt.want {
			t.Errorf("Flag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := FlagForIOC("GER"); got != "\U0001F1E9\U0001F1EA" {
		t.Errorf("FlagForIOC(GER) = %q", got)
	}
}
