package cleaner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsjobs/common/dataset"
)

const rulesYAML = `
current_year: 2030
location_rules:
  - label: onsite
    keywords: [office]
skills:
  - name: Go
    keywords: [Golang, " Go "]
skills_case_insensitive: true
`

func TestApplyRulesOverridesOnlyNamedKeys(t *testing.T) {
	base := DefaultConfig(2024)

	cfg, err := ApplyRules(strings.NewReader(rulesYAML), base)
	require.NoError(t, err)

	assert.Equal(t, 2030, cfg.CurrentYear)
	assert.Equal(t, []Rule{{Label: LocationOnsite, Keywords: []string{"office"}}}, cfg.LocationRules)
	assert.Equal(t, base.EmploymentRules, cfg.EmploymentRules)
	assert.Equal(t, base.CategoryRules, cfg.CategoryRules)
	assert.Equal(t, base.SeniorityKeywords, cfg.SeniorityKeywords)
	require.Len(t, cfg.Skills, 1)
	assert.True(t, cfg.SkillsCaseInsensitive)

	c, err := New(cfg)
	require.NoError(t, err)

	out, err := c.Clean(dataset.RawPosting{
		JobTitle:       "Engineer",
		JobDescription: "Remote-friendly office, we write golang",
		SalaryEstimate: "$1K-$2K",
		Founded:        "2000",
	})
	require.NoError(t, err)
	assert.Equal(t, LocationOnsite, out.LocationType)
	assert.Equal(t, map[string]bool{"Go": true}, out.Skills)
	assert.Equal(t, 30, *out.CompanyAge)
}

func TestApplyRulesEmptyDocument(t *testing.T) {
	base := DefaultConfig(2024)
	cfg, err := ApplyRules(strings.NewReader(""), base)
	require.NoError(t, err)
	assert.Equal(t, base, cfg)
}

func TestApplyRulesRejectsUnknownKeys(t *testing.T) {
	_, err := ApplyRules(strings.NewReader("locaton_rules: []\n"), DefaultConfig(2024))
	assert.Error(t, err)
}

func TestApplyRulesFile(t *testing.T) {
	base := DefaultConfig(2024)

	cfg, err := ApplyRulesFile("", base)
	require.NoError(t, err)
	assert.Equal(t, base, cfg)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seniority_keywords: [lead]\n"), 0o600))

	cfg, err = ApplyRulesFile(path, base)
	require.NoError(t, err)
	assert.Equal(t, []string{"lead"}, cfg.SeniorityKeywords)

	_, err = ApplyRulesFile(filepath.Join(t.TempDir(), "missing.yaml"), base)
	assert.Error(t, err)
}
