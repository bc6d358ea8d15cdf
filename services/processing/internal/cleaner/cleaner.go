// Package cleaner turns raw Uncleaned_DS_jobs rows into cleaned, feature-enriched
// postings. Every function here is pure: no I/O, no clock, no shared mutable state,
// so a single Cleaner may be used from any number of goroutines.
package cleaner

import (
	"fmt"
	"strings"

	"dsjobs/common/dataset"
	"dsjobs/services/processing/internal/models"
)

type Cleaner struct {
	currentYear int
	location    classifier
	employment  classifier
	category    classifier
	seniority   []pattern
	skills      skillDetector
}

// New validates cfg and compiles its keyword tables.
func New(cfg Config) (*Cleaner, error) {
	if cfg.CurrentYear <= 0 {
		return nil, fmt.Errorf("current year must be positive, got %d", cfg.CurrentYear)
	}

	location, err := newClassifier("location", cfg.LocationRules, LocationTypes, LocationOther)
	if err != nil {
		return nil, err
	}
	employment, err := newClassifier("employment", cfg.EmploymentRules, EmploymentTypes, EmploymentOther)
	if err != nil {
		return nil, err
	}
	category, err := newClassifier("category", cfg.CategoryRules, JobCategories, CategoryOther)
	if err != nil {
		return nil, err
	}
	seniority, err := compileKeywords(cfg.SeniorityKeywords, true)
	if err != nil {
		return nil, fmt.Errorf("seniority: %w", err)
	}
	skills, err := newSkillDetector(cfg.Skills, cfg.SkillsCaseInsensitive)
	if err != nil {
		return nil, err
	}

	return &Cleaner{
		currentYear: cfg.CurrentYear,
		location:    location,
		employment:  employment,
		category:    category,
		seniority:   seniority,
		skills:      skills,
	}, nil
}

// Clean derives every output field of one record. When some fields cannot be
// derived the returned error is a *RecordError and the posting still carries all
// other fields, with the failed ones left nil.
//
// Seniority is read from the normalized title, so "senior" is always caught
// through the "sr" it normalizes to.
func (c *Cleaner) Clean(raw dataset.RawPosting) (models.CleanPosting, error) {
	title := NormalizeTitle(raw.JobTitle)
	titleText := []rune(title)
	descText := []rune(strings.ToLower(raw.JobDescription))

	out := models.CleanPosting{
		ID:              raw.PostingID(),
		RecordID:        raw.Index,
		JobTitle:        title,
		JobDescription:  raw.JobDescription,
		LocationType:    c.location.classify(titleText, descText),
		EmploymentType:  c.employment.classify(titleText, descText),
		JobCategory:     c.category.classify(titleText),
		Seniority:       SeniorityNotApplicable,
		Skills:          c.skills.detect(raw.JobDescription),
		Location:        raw.Location,
		Headquarters:    raw.Headquarters,
		Size:            raw.Size,
		TypeOfOwnership: raw.TypeOfOwnership,
		Industry:        raw.Industry,
		Sector:          raw.Sector,
		Revenue:         raw.Revenue,
		Competitors:     raw.Competitors,
	}
	if matchAny(c.seniority, titleText) {
		out.Seniority = SenioritySenior
	}

	var failures []*FieldError

	if salary, err := ParseSalary(raw.SalaryEstimate); err != nil {
		failures = append(failures, &FieldError{Field: FieldSalaryEstimate, Raw: raw.SalaryEstimate, Err: err})
	} else {
		rng, lo, hi := salary.Range(), salary.Min(), salary.Max()
		out.SalaryRange, out.MinSalary, out.MaxSalary = &rng, &lo, &hi
	}

	rating, known := CleanRating(raw.Rating)
	out.Rating = rating
	out.CompanyName = StripRatingSuffix(raw.CompanyName, known)

	founded, age, err := ParseFounded(raw.Founded, c.currentYear)
	if err != nil {
		failures = append(failures, &FieldError{Field: FieldFounded, Raw: raw.Founded, Err: err})
	}
	out.Founded, out.CompanyAge = founded, age

	if len(failures) > 0 {
		return out, &RecordError{RecordID: raw.Index, Failures: failures}
	}
	return out, nil
}
