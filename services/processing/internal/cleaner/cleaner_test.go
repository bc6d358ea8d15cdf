package cleaner

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsjobs/common/dataset"
)

func sampleRaw() dataset.RawPosting {
	return dataset.RawPosting{
		Index:           "7",
		JobTitle:        "  Senior Data Scientist ",
		SalaryEstimate:  "$75K-$120K (Glassdoor est.)",
		JobDescription:  "Remote, full-time. Python, Spark and Power BI required.",
		Rating:          3.9,
		CompanyName:     "Acme Corp\n3.9",
		Location:        "New York, NY",
		Headquarters:    "Boston, MA",
		Size:            "51 to 200 employees",
		Founded:         "1999",
		TypeOfOwnership: "Company - Private",
		Industry:        "Internet",
		Sector:          "Information Technology",
		Revenue:         "$10 to $25 million (USD)",
		Competitors:     "-1",
	}
}

func TestCleanFullRecord(t *testing.T) {
	c := newTestCleaner(t)
	raw := sampleRaw()

	out, err := c.Clean(raw)
	require.NoError(t, err)

	assert.Equal(t, raw.PostingID(), out.ID)
	assert.Equal(t, "7", out.RecordID)
	assert.Equal(t, "sr data scientist", out.JobTitle)
	assert.Equal(t, raw.JobDescription, out.JobDescription)
	assert.Equal(t, LocationRemote, out.LocationType)
	assert.Equal(t, EmploymentFulltime, out.EmploymentType)
	assert.Equal(t, CategoryDataScientist, out.JobCategory)
	assert.Equal(t, SenioritySenior, out.Seniority)

	require.NotNil(t, out.SalaryRange)
	assert.Equal(t, "75-120", *out.SalaryRange)
	assert.Equal(t, 75000, *out.MinSalary)
	assert.Equal(t, 120000, *out.MaxSalary)

	assert.Equal(t, 3.9, out.Rating)
	assert.Equal(t, "Acme Corp", out.CompanyName)
	assert.Equal(t, 1999, *out.Founded)
	assert.Equal(t, 25, *out.CompanyAge)

	assert.True(t, out.Skills["Python"])
	assert.True(t, out.Skills["Spark"])
	assert.True(t, out.Skills["PowerBI"])
	assert.False(t, out.Skills["Kafka"])

	assert.Equal(t, raw.Location, out.Location)
	assert.Equal(t, raw.Headquarters, out.Headquarters)
	assert.Equal(t, raw.Size, out.Size)
	assert.Equal(t, raw.TypeOfOwnership, out.TypeOfOwnership)
	assert.Equal(t, raw.Industry, out.Industry)
	assert.Equal(t, raw.Sector, out.Sector)
	assert.Equal(t, raw.Revenue, out.Revenue)
	assert.Equal(t, raw.Competitors, out.Competitors)
}

func TestCleanSentinels(t *testing.T) {
	c := newTestCleaner(t)
	raw := sampleRaw()
	raw.Rating = -1
	raw.Founded = "-1"

	out, err := c.Clean(raw)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.Rating)
	assert.Equal(t, "Acme Corp\n3.9", out.CompanyName, "name is left alone when the rating was unknown")
	assert.Nil(t, out.Founded)
	assert.Nil(t, out.CompanyAge)
}

func TestCleanReportsFieldFailures(t *testing.T) {
	c := newTestCleaner(t)
	raw := sampleRaw()
	raw.SalaryEstimate = "Unknown"
	raw.Founded = "circa 1990"

	out, err := c.Clean(raw)
	require.Error(t, err)

	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "7", recErr.RecordID)
	require.Len(t, recErr.Failures, 2)
	assert.True(t, recErr.Failed(FieldSalaryEstimate))
	assert.True(t, recErr.Failed(FieldFounded))
	assert.Equal(t, "Unknown", recErr.Failures[0].Raw)

	var salaryErr *MalformedSalaryError
	assert.ErrorAs(t, err, &salaryErr)
	var yearErr *UnparseableYearError
	assert.ErrorAs(t, err, &yearErr)

	// Everything else still derives.
	assert.Nil(t, out.SalaryRange)
	assert.Nil(t, out.MinSalary)
	assert.Nil(t, out.MaxSalary)
	assert.Nil(t, out.Founded)
	assert.Equal(t, "sr data scientist", out.JobTitle)
	assert.Equal(t, "Acme Corp", out.CompanyName)
	assert.True(t, out.Skills["Python"])
}

func TestCleanIsolatesRecords(t *testing.T) {
	c := newTestCleaner(t)

	good := sampleRaw()
	bad := sampleRaw()
	bad.Index = "8"
	bad.SalaryEstimate = "Unknown"

	batch := []dataset.RawPosting{good, bad, good}
	results := make([]error, len(batch))

	var wg sync.WaitGroup
	for i, raw := range batch {
		wg.Add(1)
		go func(i int, raw dataset.RawPosting) {
			defer wg.Done()
			_, results[i] = c.Clean(raw)
		}(i, raw)
	}
	wg.Wait()

	assert.NoError(t, results[0])
	assert.NoError(t, results[2])

	var salaryErr *MalformedSalaryError
	assert.True(t, errors.As(results[1], &salaryErr))
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	c := newTestCleaner(t)
	raw := sampleRaw()
	before := raw

	_, err := c.Clean(raw)
	require.NoError(t, err)
	assert.Equal(t, before, raw)
}

func TestNewValidatesConfig(t *testing.T) {
	cfg := DefaultConfig(0)
	_, err := New(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig(2024)
	cfg.LocationRules = append(cfg.LocationRules, Rule{Label: "mars", Keywords: []string{"mars"}})
	_, err = New(cfg)
	assert.ErrorContains(t, err, "mars")

	cfg = DefaultConfig(2024)
	cfg.EmploymentRules = nil
	_, err = New(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig(2024)
	cfg.CategoryRules[0].Keywords = nil
	_, err = New(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig(2024)
	cfg.SeniorityKeywords = nil
	_, err = New(cfg)
	assert.Error(t, err)
}
