package main

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsjobs/services/processing/internal/models"
)

const inputCSV = "index,Job Title,Salary Estimate,Job Description,Rating,Company Name,Location,Headquarters,Size,Founded,Type of ownership,Industry,Sector,Revenue,Competitors\n" +
	"0,Senior Data Scientist,$137K-$171K (Glassdoor est.),\"Python, SQL. Remote.\",3.1,\"Healthfirst\n3.1\",\"New York, NY\",\"New York, NY\",1001 to 5000 employees,1993,Nonprofit Organization,Insurance Carriers,Insurance,Unknown / Non-Applicable,-1\n" +
	"1,Data Engineer,Employer Provided,Spark and Hadoop,-1,Acme,Remote,,,-1,,,,,-1\n" +
	"2,Machine Learning Engineer,$90K-$110K (Glassdoor est.),TensorFlow,4.0,\"Widgets\n4.0\",Austin TX,,,abc,,,,,-1\n"

func readLines[T any](t *testing.T, path string) []T {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []T
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var v T
		require.NoError(t, json.Unmarshal(sc.Bytes(), &v))
		out = append(out, v)
	}
	require.NoError(t, sc.Err())
	return out
}

func runClean(t *testing.T, extra ...string) (postingsPath, rejectsPath string) {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "jobs.csv")
	require.NoError(t, os.WriteFile(input, []byte(inputCSV), 0o644))

	postingsPath = filepath.Join(dir, "clean.jsonl")
	rejectsPath = filepath.Join(dir, "rejects.jsonl")

	args := append([]string{"dsclean",
		"--input", input,
		"--output", postingsPath,
		"--rejects", rejectsPath,
		"--current-year", "2024",
		"--batch-size", "2",
	}, extra...)
	require.NoError(t, newCommand().Run(context.Background(), args))
	return postingsPath, rejectsPath
}

func TestCleanSkipPolicy(t *testing.T) {
	postingsPath, rejectsPath := runClean(t)

	postings := readLines[models.CleanPosting](t, postingsPath)
	require.Len(t, postings, 1)
	p := postings[0]
	assert.Equal(t, "0", p.RecordID)
	assert.Equal(t, "sr data scientist", p.JobTitle)
	assert.Equal(t, "Healthfirst", p.CompanyName)
	assert.Equal(t, 137000, *p.MinSalary)
	assert.Equal(t, 31, *p.CompanyAge)

	rejects := readLines[models.Rejection](t, rejectsPath)
	require.Len(t, rejects, 2)
	assert.Equal(t, "1", rejects[0].RecordID)
	assert.Equal(t, "salary_estimate", rejects[0].Field)
	assert.Equal(t, "2", rejects[1].RecordID)
	assert.Equal(t, "founded", rejects[1].Field)
}

func TestCleanNullFillPolicy(t *testing.T) {
	postingsPath, _ := runClean(t, "--policy", "nullfill", "--workers", "1")

	postings := readLines[models.CleanPosting](t, postingsPath)
	require.Len(t, postings, 3)

	assert.Nil(t, postings[1].SalaryRange)
	assert.Nil(t, postings[1].Founded)
	assert.Equal(t, 0.0, postings[1].Rating)

	assert.Equal(t, "90-110", *postings[2].SalaryRange)
	assert.Nil(t, postings[2].Founded)
	assert.Nil(t, postings[2].CompanyAge)
	assert.Equal(t, "Widgets", postings[2].CompanyName)
}

func TestCleanRejectsUnknownPolicy(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "jobs.csv")
	require.NoError(t, os.WriteFile(input, []byte(inputCSV), 0o644))

	err := newCommand().Run(context.Background(), []string{"dsclean", "--input", input, "--policy", "abort"})
	assert.ErrorContains(t, err, "unknown failure policy")
}
