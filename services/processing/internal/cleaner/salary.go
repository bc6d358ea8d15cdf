package cleaner

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxThousands keeps Min and Max from overflowing int.
const maxThousands = math.MaxInt / 1000

// Salary is a parsed estimate in thousands of dollars.
type Salary struct {
	MinK int
	MaxK int
}

// Range renders the estimate as "<min>-<max>" in thousands.
func (s Salary) Range() string {
	return fmt.Sprintf("%d-%d", s.MinK, s.MaxK)
}

func (s Salary) Min() int { return s.MinK * 1000 }

func (s Salary) Max() int { return s.MaxK * 1000 }

// ParseSalary extracts the range from strings shaped like "$75K-$120K (Glassdoor est.)".
// The first $…K pair is the minimum and the next one the maximum; anything after the
// second K is an annotation of arbitrary length and is ignored.
func ParseSalary(estimate string) (Salary, error) {
	minK, rest, err := nextThousands(estimate, "minimum")
	if err != nil {
		return Salary{}, &MalformedSalaryError{Raw: estimate, Reason: err.Error()}
	}
	maxK, _, err := nextThousands(rest, "maximum")
	if err != nil {
		return Salary{}, &MalformedSalaryError{Raw: estimate, Reason: err.Error()}
	}
	if minK > maxK {
		return Salary{}, &MalformedSalaryError{
			Raw:    estimate,
			Reason: fmt.Sprintf("minimum %dK exceeds maximum %dK", minK, maxK),
		}
	}
	return Salary{MinK: minK, MaxK: maxK}, nil
}

// nextThousands reads the figure between the next '$' and the 'K' after it and
// returns the remainder of s following that 'K'.
func nextThousands(s, what string) (int, string, error) {
	dollar := strings.IndexByte(s, '$')
	if dollar < 0 {
		return 0, "", fmt.Errorf("no '$' before %s", what)
	}
	s = s[dollar+1:]
	k := strings.IndexByte(s, 'K')
	if k < 0 {
		return 0, "", fmt.Errorf("no 'K' after %s", what)
	}
	figure := strings.TrimSpace(s[:k])
	n, err := strconv.Atoi(figure)
	if err != nil || n < 0 {
		return 0, "", fmt.Errorf("%s %q is not a whole number of thousands", what, figure)
	}
	if n > maxThousands {
		return 0, "", fmt.Errorf("%s %q is out of range", what, figure)
	}
	return n, s[k+1:], nil
}
