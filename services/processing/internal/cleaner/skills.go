package cleaner

import (
	"fmt"
	"strings"
)

// Skill is a tracked technology and the spellings that count as a mention.
type Skill struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

type compiledSkill struct {
	name     string
	patterns []pattern
}

type skillDetector struct {
	skills          []compiledSkill
	caseInsensitive bool
}

func newSkillDetector(skills []Skill, caseInsensitive bool) (skillDetector, error) {
	if len(skills) == 0 {
		return skillDetector{}, fmt.Errorf("skills: none configured")
	}
	d := skillDetector{caseInsensitive: caseInsensitive}
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		if s.Name == "" {
			return skillDetector{}, fmt.Errorf("skills: empty name")
		}
		if _, dup := seen[s.Name]; dup {
			return skillDetector{}, fmt.Errorf("skills: %q listed twice", s.Name)
		}
		seen[s.Name] = struct{}{}
		patterns, err := compileKeywords(s.Keywords, caseInsensitive)
		if err != nil {
			return skillDetector{}, fmt.Errorf("skill %s: %w", s.Name, err)
		}
		d.skills = append(d.skills, compiledSkill{name: s.Name, patterns: patterns})
	}
	return d, nil
}

// detect returns one independent flag per configured skill.
func (d skillDetector) detect(description string) map[string]bool {
	if d.caseInsensitive {
		description = strings.ToLower(description)
	}
	text := []rune(description)
	flags := make(map[string]bool, len(d.skills))
	for _, s := range d.skills {
		flags[s.name] = matchAny(s.patterns, text)
	}
	return flags
}
