package hub

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Physics 101":              "physics-101",
		"  Algebra II — Period 3 ": "algebra-ii-period-3",
		"!!!":                      "hub",
		"CHEM":                     "chem",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSlugifyTruncates(t *testing.T) {
	got := slugify(strings.Repeat("a", 100))
	if len(got) != slugMaxLen {
		t.Fatalf("slug length = %d, want %d", len(got), slugMaxLen)
	}
}

func TestRandomSuffix(t *testing.T) {
	a, b := randomSuffix(), randomSuffix()
	if len(a) != slugSuffixLen {
		t.Fatalf("suffix length = %d, want %d", len(a), slugSuffixLen)
	}
	if a == b {
		t.Fatal("consecutive suffixes should differ")
	}
}
