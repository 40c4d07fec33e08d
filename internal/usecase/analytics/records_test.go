package analytics

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	got, ok := ParseTimestamp("2024-03-01 09:30:15")
	if !ok {
		t.Fatal("expected valid timestamp to parse")
	}
	want := time.Date(2024, 3, 1, 9, 30, 15, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("parsed %v, want %v", got, want)
	}

	for _, raw := range []string{
		"",
		"2024-03-01",
		"2024-03-01T09:30:15Z",
		"yesterday",
		"2024-13-40 99:99:99",
	} {
		if _, ok := ParseTimestamp(raw); ok {
			t.Errorf("ParseTimestamp(%q) parsed, want failure", raw)
		}
	}
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		41.666666: 41.67,
		0:         0,
		100:       100,
		0.005:     0.01,
	}
	for in, want := range cases {
		if got := round2(in); got != want {
			t.Errorf("round2(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestAtLeastOne(t *testing.T) {
	if atLeastOne(0) != 1 || atLeastOne(-5) != 1 {
		t.Fatal("denominator must floor at 1")
	}
	if atLeastOne(7) != 7 {
		t.Fatal("positive denominators pass through")
	}
}
