package domain

import "testing"

func TestParseScoreOrDefault(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		value    string
		fallback float64
		want     float64
	}{
		{"plain", "0.8125", 0, 0.8125},
		{"padded", "  0.25 ", 0, 0.25},
		{"empty", "", 0, 0},
		{"garbage", "n/a", 0, 0},
		{"garbage with fallback", "oops", 0.5, 0.5},
		{"nan", "NaN", 0, 0},
		{"inf", "+Inf", 0, 0},
	}

	for _, tc := range cases {
		got := ParseScoreOrDefault(tc.value, tc.fallback)
		if got != tc.want {
			t.Fatalf("%s: ParseScoreOrDefault(%q, %v) = %v, want %v",
				tc.name, tc.value, tc.fallback, got, tc.want)
		}
	}
}

func TestFormatScore(t *testing.T) {
	t.Parallel()

	if got := FormatScore(0.5, 4); got != "0.5000" {
		t.Fatalf("unexpected 4dp format: %s", got)
	}
	if got := FormatScore(0.64, 5); got != "0.64000" {
		t.Fatalf("unexpected 5dp format: %s", got)
	}
	if got := FormatScore(0, 4); got != "0.0000" {
		t.Fatalf("unexpected zero format: %s", got)
	}
}

func TestRoundScore(t *testing.T) {
	t.Parallel()

	if got := RoundScore(0.33333333, 4); got != 0.3333 {
		t.Fatalf("unexpected rounding: %v", got)
	}
	if got := RoundScore(0.00005, 4); got != 0.0001 {
		t.Fatalf("expected round-half-up at 4dp, got %v", got)
	}
}

func TestClamp01(t *testing.T) {
	t.Parallel()

	if got := Clamp01(-0.2); got != 0 {
		t.Fatalf("expected clamp to 0, got %v", got)
	}
	if got := Clamp01(1.7); got != 1 {
		t.Fatalf("expected clamp to 1, got %v", got)
	}
	if got := Clamp01(0.42); got != 0.42 {
		t.Fatalf("expected passthrough, got %v", got)
	}
}
