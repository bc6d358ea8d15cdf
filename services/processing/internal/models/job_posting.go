package models

import (
	"time"
)

// CleanPosting is one row of the cleaned ds_jobs table.
// Nil pointers mean "unknown": the source value was a sentinel or failed to parse.
type CleanPosting struct {
	ID       string `json:"id"`
	RecordID string `json:"record_id"`

	JobTitle       string `json:"job_title"`
	JobDescription string `json:"job_description"`

	LocationType   string `json:"location_type"`
	EmploymentType string `json:"employment_type"`
	JobCategory    string `json:"job_category"`
	Seniority      string `json:"seniority"`

	SalaryRange *string `json:"salary_range"`
	MinSalary   *int    `json:"min_salary"`
	MaxSalary   *int    `json:"max_salary"`

	Rating      float64 `json:"rating"`
	CompanyName string  `json:"company_name"`
	Founded     *int    `json:"founded"`
	CompanyAge  *int    `json:"company_age"`

	Skills map[string]bool `json:"skills"`

	Location        string `json:"location"`
	Headquarters    string `json:"headquarters"`
	Size            string `json:"size"`
	TypeOfOwnership string `json:"type_of_ownership"`
	Industry        string `json:"industry"`
	Sector          string `json:"sector"`
	Revenue         string `json:"revenue"`
	Competitors     string `json:"competitors"`

	ProcessedAt time.Time `json:"processed_at"`
}

// Rejection describes one field of one record that could not be derived.
type Rejection struct {
	RecordID   string    `json:"record_id"`
	PostingID  string    `json:"posting_id"`
	Field      string    `json:"field"`
	Raw        string    `json:"raw"`
	Reason     string    `json:"reason"`
	RejectedAt time.Time `json:"rejected_at"`
}
