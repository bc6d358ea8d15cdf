package cleaner

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFounded interprets a founded cell against the processing year.
// The -1 sentinel yields (nil, nil, nil): both founded and age are unknown.
// Integral float spellings such as "1993.0" are accepted.
func ParseFounded(raw string, currentYear int) (founded *int, age *int, err error) {
	s := strings.TrimSpace(raw)
	year, err := strconv.Atoi(integralPart(s))
	if err != nil {
		return nil, nil, &UnparseableYearError{Raw: raw, Reason: "not an integer year"}
	}

	if year == -1 {
		return nil, nil, nil
	}
	if year <= 0 || year > currentYear {
		return nil, nil, &UnparseableYearError{
			Raw:    raw,
			Reason: fmt.Sprintf("year outside 1..%d", currentYear),
		}
	}

	a := currentYear - year
	return &year, &a, nil
}

// integralPart drops a fractional part made only of zeros ("1993.00" -> "1993").
// Anything else, exponents included, is returned unchanged and left to Atoi.
func integralPart(s string) string {
	whole, frac, ok := strings.Cut(s, ".")
	if !ok || whole == "" || frac == "" || strings.Trim(frac, "0") != "" {
		return s
	}
	return whole
}
