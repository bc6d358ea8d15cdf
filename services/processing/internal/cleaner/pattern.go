package cleaner

import "strings"

// pattern is a keyword in LIKE-style notation, implicitly anchored with % on both ends:
// '%' matches any run of characters and '_' matches exactly one character.
// "data%scientist" matches "senior data scientist" and "data science scientist".
type pattern [][]rune

func compilePattern(keyword string) pattern {
	var p pattern
	for _, seg := range strings.Split(keyword, "%") {
		if seg == "" {
			continue
		}
		p = append(p, []rune(seg))
	}
	return p
}

// match reports whether the segments occur in text in order, without overlapping.
// Leftmost placement of each segment is optimal, so no backtracking is needed.
func (p pattern) match(text []rune) bool {
	pos := 0
	for _, seg := range p {
		i := indexFrom(text, seg, pos)
		if i < 0 {
			return false
		}
		pos = i + len(seg)
	}
	return true
}

func indexFrom(text, seg []rune, from int) int {
	for i := from; i+len(seg) <= len(text); i++ {
		if segmentAt(text, seg, i) {
			return i
		}
	}
	return -1
}

func segmentAt(text, seg []rune, at int) bool {
	for j, r := range seg {
		if r != '_' && text[at+j] != r {
			return false
		}
	}
	return true
}

func matchAny(patterns []pattern, texts ...[]rune) bool {
	for _, p := range patterns {
		for _, t := range texts {
			if p.match(t) {
				return true
			}
		}
	}
	return false
}
