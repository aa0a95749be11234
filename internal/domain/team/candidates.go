package team

import (
	"sort"
	"strings"
)

// mascotSuffixes are the common NCAA mascot suffixes stripped when
// probing name variants. Matching is whole-word and case-insensitive.
var mascotSuffixes = []string{
	"wildcats", "bulldogs", "tigers", "eagles", "panthers", "bears",
	"cougars", "hawks", "huskies", "lions", "cardinals", "knights",
	"rebels", "aggies", "wolfpack", "wolverines", "spartans", "hurricanes",
	"blue devils", "tar heels", "crimson tide", "fighting irish",
	"hoosiers", "boilermakers", "buckeyes", "badgers",
	"hawkeyes", "golden gophers", "cornhuskers", "terrapins", "nittany lions",
	"mountaineers", "razorbacks", "gamecocks", "volunteers", "commodores",
	"gators", "seminoles", "cavaliers", "hokies", "yellow jackets",
	"orange", "red raiders", "longhorns", "jayhawks", "sooners",
	"cowboys", "cyclones", "horned frogs", "bearcats", "musketeers",
	"bluejays", "golden eagles", "rams", "braves", "49ers",
	"owls", "peacocks", "friars", "hoyas", "pirates", "terriers",
	"gaels", "dons", "toreros", "waves", "broncos", "aztecs",
	"lobos", "utes", "buffaloes", "trojans", "bruins", "ducks",
	"beavers", "sun devils", "lumberjacks",
	"anteaters", "gauchos", "mustangs", "highlanders", "titans",
	"matadors", "roadrunners", "miners", "mean green", "thundering herd",
	"golden flashes", "rockets", "redhawks", "bobcats", "chippewas",
	"zips", "penguins", "bulls", "flames",
	"phoenix", "leathernecks", "salukis", "redbirds", "sycamores",
	"shockers", "kangaroos", "roos", "antelopes",
}

// Longest suffix wins when several could match.
var mascotSuffixesByLength = func() []string {
	out := make([]string, len(mascotSuffixes))
	copy(out, mascotSuffixes)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i]) > len(out[j])
	})
	return out
}()

var prefixExpansions = map[string]string{
	"e":  "Eastern",
	"w":  "Western",
	"n":  "Northern",
	"s":  "Southern",
	"c":  "Central",
	"mt": "Mount",
}

// NameCandidates produces the ordered, case-insensitively deduplicated
// name variants to probe against known identities: the raw trimmed
// string, the normalized string and its State abbreviation, each with a
// one-step prefix expansion and iterative mascot stripping.
func NameCandidates(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	normalized := NormalizeName(raw)

	bases := []string{trimmed, normalized}
	if abbrev := stateAbbrev(normalized); !strings.EqualFold(abbrev, normalized) {
		bases = append(bases, abbrev)
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}

	for _, base := range bases {
		add(base)
		if expanded, ok := expandPrefix(base); ok {
			add(expanded)
		}
		current := base
		for {
			stripped, ok := stripMascot(current)
			if !ok || stripped == "" || len(stripped) >= len(current) {
				break
			}
			add(stripped)
			current = stripped
		}
	}

	return out
}

// stateAbbrev replaces whole-word "State" with "St.".
func stateAbbrev(name string) string {
	fields := strings.Fields(name)
	changed := false
	for i, f := range fields {
		if strings.EqualFold(f, "State") {
			fields[i] = "St."
			changed = true
		}
	}
	if !changed {
		return name
	}
	return strings.Join(fields, " ")
}

// expandPrefix turns a leading directional/qualifier abbreviation into
// its full word when at least one more token follows.
func expandPrefix(name string) (string, bool) {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return "", false
	}
	first := strings.TrimSuffix(fields[0], ".")
	full, ok := prefixExpansions[strings.ToLower(first)]
	if !ok {
		return "", false
	}
	return full + " " + strings.Join(fields[1:], " "), true
}

// stripMascot removes one trailing mascot suffix, longest match first.
func stripMascot(name string) (string, bool) {
	for _, suffix := range mascotSuffixesByLength {
		n := len(suffix)
		if len(name) <= n+1 {
			continue
		}
		if name[len(name)-n-1] != ' ' {
			continue
		}
		if !strings.EqualFold(name[len(name)-n:], suffix) {
			continue
		}
		return strings.TrimSpace(name[:len(name)-n-1]), true
	}
	return name, false
}

// canonicalReplacements convert a new team's name to the house canonical
// format before creation. Applied in order.
var canonicalReplacements = [][2]string{
	{" State", " St."},
	{"Saint ", "St. "},
	{"St ", "St. "},
	{"University", "U"},
	{"College", "Col."},
	{"North Carolina", "N.C."},
	{"South Carolina", "S.C."},
	{"Northern ", "N. "},
	{"Southern ", "S. "},
	{"Eastern ", "E. "},
	{"Western ", "W. "},
	{"Central ", "C. "},
}

// CanonicalizeName derives the canonical form used when permissive mode
// creates a team that no lookup matched.
func CanonicalizeName(raw string) string {
	name := NormalizeName(raw)
	for _, r := range canonicalReplacements {
		name = strings.ReplaceAll(name, r[0], r[1])
	}
	return strings.TrimSpace(name)
}
