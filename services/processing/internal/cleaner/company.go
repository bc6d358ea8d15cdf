package cleaner

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// CleanRating maps the negative "unknown" sentinel, and any non-finite value, to 0.
// The second result reports whether the source actually carried a rating.
func CleanRating(rating float64) (float64, bool) {
	if rating < 0 || math.IsNaN(rating) || math.IsInf(rating, 0) {
		return 0, false
	}
	return rating, true
}

// StripRatingSuffix removes the rating the source table appends to company names
// ("Acme Corp\n3.9" -> "Acme Corp").
//
// The source only appends the suffix when the row has a rating, so the strip is
// attempted only when ratingKnown is true; otherwise name is returned untouched.
// The trailing token is dropped only when it parses as a number, which keeps
// suffix-less names intact and makes the function idempotent.
func StripRatingSuffix(name string, ratingKnown bool) string {
	if !ratingKnown {
		return name
	}
	trimmed := strings.TrimRightFunc(name, unicode.IsSpace)
	cut := strings.LastIndexFunc(trimmed, unicode.IsSpace)
	if cut < 0 {
		return trimmed
	}
	suffix := strings.TrimLeftFunc(trimmed[cut:], unicode.IsSpace)
	if _, err := strconv.ParseFloat(suffix, 64); err != nil {
		return trimmed
	}
	return strings.TrimRightFunc(trimmed[:cut], unicode.IsSpace)
}
