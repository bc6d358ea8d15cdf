package cleaner

import (
	"fmt"
	"slices"
	"strings"
)

const (
	LocationRemote = "remote"
	LocationHybrid = "hybrid"
	LocationOnsite = "onsite"
	LocationOther  = "other"
)

const (
	EmploymentFulltime   = "fulltime"
	EmploymentParttime   = "parttime"
	EmploymentContract   = "contract"
	EmploymentInternship = "internship"
	EmploymentFreelance  = "freelance"
	EmploymentTemporary  = "temporary"
	EmploymentConsultant = "consultant"
	EmploymentOther      = "other"
)

const (
	CategoryDataScientist      = "data scientist"
	CategoryDataEngineer       = "data engineer"
	CategoryMLEngineer         = "machine learning engineer"
	CategoryMLScientist        = "machine learning scientist"
	CategoryBIAnalyst          = "BI analyst"
	CategoryDataAnalyst        = "data analyst"
	CategoryDataModeler        = "data modeler"
	CategorySoftwareEngineer   = "software engineer"
	CategoryDirector           = "director"
	CategoryDataScienceManager = "data science manager"
	CategoryManager            = "manager"
	CategoryOther              = "other"
)

const (
	SenioritySenior        = "senior"
	SeniorityNotApplicable = "n/a"
)

// Closed label sets. Every classifier result is a member of its set.
var (
	LocationTypes   = []string{LocationRemote, LocationHybrid, LocationOnsite, LocationOther}
	EmploymentTypes = []string{
		EmploymentFulltime, EmploymentParttime, EmploymentContract, EmploymentInternship,
		EmploymentFreelance, EmploymentTemporary, EmploymentConsultant, EmploymentOther,
	}
	JobCategories = []string{
		CategoryDataScientist, CategoryDataEngineer, CategoryMLEngineer, CategoryMLScientist,
		CategoryBIAnalyst, CategoryDataAnalyst, CategoryDataModeler, CategorySoftwareEngineer,
		CategoryDirector, CategoryDataScienceManager, CategoryManager, CategoryOther,
	}
	SeniorityLevels = []string{SenioritySenior, SeniorityNotApplicable}
)

// Rule assigns Label when any of its keywords matches. Keywords use the pattern
// notation: '%' for any run of characters, '_' for exactly one.
type Rule struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

type compiledRule struct {
	label    string
	patterns []pattern
}

// classifier evaluates rules in order; the first match wins, otherwise fallback.
type classifier struct {
	rules    []compiledRule
	fallback string
}

func newClassifier(name string, rules []Rule, allowed []string, fallback string) (classifier, error) {
	if len(rules) == 0 {
		return classifier{}, fmt.Errorf("%s: no rules", name)
	}
	c := classifier{fallback: fallback}
	for i, r := range rules {
		if !slices.Contains(allowed, r.Label) {
			return classifier{}, fmt.Errorf("%s rule %d: label %q is not one of %s", name, i, r.Label, strings.Join(allowed, ", "))
		}
		patterns, err := compileKeywords(r.Keywords, true)
		if err != nil {
			return classifier{}, fmt.Errorf("%s rule %d (%s): %w", name, i, r.Label, err)
		}
		c.rules = append(c.rules, compiledRule{label: r.Label, patterns: patterns})
	}
	return c, nil
}

// classify matches against each text padded with one space on both sides, so a
// keyword such as " intern " also catches the word at either end of the text.
func (c classifier) classify(texts ...[]rune) string {
	padded := make([][]rune, len(texts))
	for i, t := range texts {
		p := make([]rune, 0, len(t)+2)
		p = append(p, ' ')
		p = append(p, t...)
		padded[i] = append(p, ' ')
	}
	for _, r := range c.rules {
		if matchAny(r.patterns, padded...) {
			return r.label
		}
	}
	return c.fallback
}

func compileKeywords(keywords []string, lower bool) ([]pattern, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords")
	}
	patterns := make([]pattern, 0, len(keywords))
	for _, kw := range keywords {
		if lower {
			kw = strings.ToLower(kw)
		}
		p := compilePattern(kw)
		if len(p) == 0 {
			return nil, fmt.Errorf("keyword %q matches everything", kw)
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}
