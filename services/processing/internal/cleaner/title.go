package cleaner

import "strings"

// Applied in order; "(sr.)" and "sr." go before "senior" so periods are consumed once.
var titleSubstitutions = []struct{ from, to string }{
	{"(sr.)", "sr"},
	{"sr.", "sr"},
	{"jr.", "jr"},
	{"senior", "sr"},
	{"junior", "jr"},
}

// NormalizeTitle lowercases and trims a job title and collapses seniority variants
// to "sr" and "jr". The substitution pass repeats until nothing changes, so
// inputs like "senior." (which a single pass turns into "sr.") also settle on "sr".
// The result is a fixed point: NormalizeTitle(NormalizeTitle(t)) == NormalizeTitle(t).
func NormalizeTitle(title string) string {
	s := strings.TrimSpace(strings.ToLower(title))
	for {
		next := s
		for _, sub := range titleSubstitutions {
			next = strings.ReplaceAll(next, sub.from, sub.to)
		}
		if next == s {
			return s
		}
		s = next
	}
}
