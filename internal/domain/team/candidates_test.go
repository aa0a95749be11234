package team

import (
	"strings"
	"testing"
)

func TestNameCandidates_MascotStripping(t *testing.T) {
	t.Parallel()

	got := NameCandidates("Duke Blue Devils")
	want := []string{"Duke Blue Devils", "Duke"}
	if len(got) != len(want) {
		t.Fatalf("candidates = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("candidates[%d] = %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestNameCandidates_LongestSuffixWins(t *testing.T) {
	t.Parallel()

	// "golden eagles" must strip as a whole, not leave "Marquette Golden".
	got := NameCandidates("Marquette Golden Eagles")
	for _, c := range got {
		if strings.EqualFold(c, "Marquette Golden") {
			t.Fatalf("partial suffix strip produced %q: %v", c, got)
		}
	}
	if !containsFold(got, "Marquette") {
		t.Fatalf("expected Marquette among candidates, got %v", got)
	}
}

func TestNameCandidates_NoFalseCollapse(t *testing.T) {
	t.Parallel()

	// A multi-word proper name without a recognized mascot suffix must
	// survive intact.
	got := NameCandidates("Florida A&M")
	if containsFold(got, "Florida") {
		t.Fatalf("Florida A&M collapsed to Florida: %v", got)
	}
	if !containsFold(got, "Florida A&M") {
		t.Fatalf("raw name missing from candidates: %v", got)
	}
}

func TestNameCandidates_PrefixExpansion(t *testing.T) {
	t.Parallel()

	got := NameCandidates("E. Michigan Eagles")
	if !containsFold(got, "Eastern Michigan Eagles") {
		t.Fatalf("expected Eastern expansion, got %v", got)
	}
	if !containsFold(got, "E Michigan") {
		t.Fatalf("expected mascot-stripped normalized form, got %v", got)
	}

	// No expansion without a following token.
	if got := NameCandidates("Mt"); len(got) != 1 || got[0] != "Mt" {
		t.Fatalf("bare abbreviation expanded: %v", got)
	}
}

func TestNameCandidates_StateAbbreviation(t *testing.T) {
	t.Parallel()

	got := NameCandidates("Michigan State Spartans")
	if !containsFold(got, "Michigan St. Spartans") {
		t.Fatalf("expected State abbreviation base, got %v", got)
	}
	if !containsFold(got, "Michigan St.") {
		t.Fatalf("expected mascot-stripped abbreviated form, got %v", got)
	}
}

func TestNameCandidates_DedupAndOrder(t *testing.T) {
	t.Parallel()

	got := NameCandidates("Kansas Jayhawks")
	if got[0] != "Kansas Jayhawks" {
		t.Fatalf("raw input must come first, got %v", got)
	}
	seen := make(map[string]bool)
	for _, c := range got {
		key := strings.ToLower(c)
		if seen[key] {
			t.Fatalf("duplicate candidate %q in %v", c, got)
		}
		seen[key] = true
	}
}

func TestNameCandidates_StrippingTerminates(t *testing.T) {
	t.Parallel()

	// Stacked suffixes strip one per iteration and stop on no-match.
	got := NameCandidates("Phoenix Flames Tigers")
	last := got[len(got)-1]
	if !strings.EqualFold(last, "Phoenix") {
		t.Fatalf("iterative stripping ended at %q, want Phoenix (full: %v)", last, got)
	}
}

func TestCanonicalizeName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Michigan State", "Michigan St."},
		{"Saint Peter's", "St. Peter's"},
		{"Eastern Kentucky", "E. Kentucky"},
		{"North Carolina Central", "N.C. Central"},
		{"Boston College", "Boston Col."},
		{"Duke", "Duke"},
	}

	for _, tc := range cases {
		if got := CanonicalizeName(tc.in); got != tc.want {
			t.Fatalf("CanonicalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func containsFold(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}
