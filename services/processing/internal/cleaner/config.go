package cleaner

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the read-only reference data shared by every record.
type Config struct {
	// CurrentYear is the reference year for company age. Callers supply it;
	// the cleaner never reads the clock.
	CurrentYear int `yaml:"current_year"`

	LocationRules     []Rule   `yaml:"location_rules"`
	EmploymentRules   []Rule   `yaml:"employment_rules"`
	CategoryRules     []Rule   `yaml:"category_rules"`
	SeniorityKeywords []string `yaml:"seniority_keywords"`

	Skills []Skill `yaml:"skills"`
	// SkillsCaseInsensitive lowercases descriptions and keywords before matching.
	// The source table was built with case-sensitive matching, which stays the default.
	SkillsCaseInsensitive bool `yaml:"skills_case_insensitive"`
}

// DefaultConfig returns the stock rule tables for the given processing year.
func DefaultConfig(currentYear int) Config {
	return Config{
		CurrentYear: currentYear,
		LocationRules: []Rule{
			{Label: LocationRemote, Keywords: []string{"remote", "work_from_home"}},
			{Label: LocationHybrid, Keywords: []string{"hybrid"}},
			{Label: LocationOnsite, Keywords: []string{"onsite", "on_site"}},
		},
		EmploymentRules: []Rule{
			{Label: EmploymentFulltime, Keywords: []string{"fulltime", "full_time"}},
			{Label: EmploymentParttime, Keywords: []string{"parttime", "part_time"}},
			{Label: EmploymentContract, Keywords: []string{"contract"}},
			{Label: EmploymentInternship, Keywords: []string{"internship", " intern ", " intern,", " interns "}},
			{Label: EmploymentFreelance, Keywords: []string{"freelance", "free_lance"}},
			{Label: EmploymentTemporary, Keywords: []string{"temporary"}},
			{Label: EmploymentConsultant, Keywords: []string{"consultant", "consulting"}},
		},
		CategoryRules: []Rule{
			{Label: CategoryDataScientist, Keywords: []string{"data%scientist"}},
			{Label: CategoryDataEngineer, Keywords: []string{"data%engineer"}},
			{Label: CategoryMLEngineer, Keywords: []string{"machine learning%engineer"}},
			{Label: CategoryMLScientist, Keywords: []string{"machine learning%scientist"}},
			{Label: CategoryBIAnalyst, Keywords: []string{"bi %analyst", "bi/%analyst", "business intelligence%analyst"}},
			{Label: CategoryDataAnalyst, Keywords: []string{"data%analyst"}},
			{Label: CategoryDataModeler, Keywords: []string{"data%modeler"}},
			{Label: CategorySoftwareEngineer, Keywords: []string{"software%engineer"}},
			{Label: CategoryDirector, Keywords: []string{"director"}},
			{Label: CategoryDataScienceManager, Keywords: []string{"data science%manager"}},
			{Label: CategoryManager, Keywords: []string{"manager"}},
		},
		SeniorityKeywords: []string{"sr", "senior"},
		Skills: []Skill{
			{Name: "Python", Keywords: []string{"Python"}},
			{Name: "Java", Keywords: []string{"Java"}},
			{Name: "Scala", Keywords: []string{"Scala"}},
			{Name: "SQL", Keywords: []string{"SQL"}},
			{Name: "Tableau", Keywords: []string{"Tableau"}},
			{Name: "PowerBI", Keywords: []string{"PowerBI", "Power_BI"}},
			{Name: "Excel", Keywords: []string{"Excel"}},
			{Name: "AWS", Keywords: []string{"AWS"}},
			{Name: "Azure", Keywords: []string{"Azure"}},
			{Name: "Databricks", Keywords: []string{"Databricks", "Data_Bricks"}},
			{Name: "Hadoop", Keywords: []string{"Hadoop"}},
			{Name: "Spark", Keywords: []string{"Spark"}},
			{Name: "Kafka", Keywords: []string{"Kafka"}},
			{Name: "BigData", Keywords: []string{"BigData", "Big_Data"}},
			{Name: "MongoDB", Keywords: []string{"MongoDB", "Mongo_DB"}},
			{Name: "NoSQL", Keywords: []string{"NoSQL", "No_SQL"}},
			{Name: "BigQuery", Keywords: []string{"BigQuery", "Big_Query"}},
			{Name: "TensorFlow", Keywords: []string{"TensorFlow", "Tensor_Flow"}},
		},
	}
}

// rulesOverride mirrors Config with nil-able fields so a partial file only
// replaces what it names.
type rulesOverride struct {
	CurrentYear           *int     `yaml:"current_year"`
	LocationRules         []Rule   `yaml:"location_rules"`
	EmploymentRules       []Rule   `yaml:"employment_rules"`
	CategoryRules         []Rule   `yaml:"category_rules"`
	SeniorityKeywords     []string `yaml:"seniority_keywords"`
	Skills                []Skill  `yaml:"skills"`
	SkillsCaseInsensitive *bool    `yaml:"skills_case_insensitive"`
}

// ApplyRules overlays a YAML rules document onto base. Lists in the document
// replace the corresponding list in base wholesale; absent keys keep base values.
func ApplyRules(r io.Reader, base Config) (Config, error) {
	var o rulesOverride
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("decode rules: %w", err)
	}

	cfg := base
	if o.CurrentYear != nil {
		cfg.CurrentYear = *o.CurrentYear
	}
	if o.LocationRules != nil {
		cfg.LocationRules = o.LocationRules
	}
	if o.EmploymentRules != nil {
		cfg.EmploymentRules = o.EmploymentRules
	}
	if o.CategoryRules != nil {
		cfg.CategoryRules = o.CategoryRules
	}
	if o.SeniorityKeywords != nil {
		cfg.SeniorityKeywords = o.SeniorityKeywords
	}
	if o.Skills != nil {
		cfg.Skills = o.Skills
	}
	if o.SkillsCaseInsensitive != nil {
		cfg.SkillsCaseInsensitive = *o.SkillsCaseInsensitive
	}
	return cfg, nil
}

// ApplyRulesFile is ApplyRules over a file. An empty path returns base unchanged.
func ApplyRulesFile(path string, base Config) (Config, error) {
	if path == "" {
		return base, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open rules file: %w", err)
	}
	defer f.Close()
	return ApplyRules(f, base)
}
