// Package dataset describes the raw Uncleaned_DS_jobs table and reads it from CSV.
package dataset

import (
	"github.com/google/uuid"
)

// Sentinel used by the source table for "unknown" ratings and founding years.
const (
	UnknownRating  = -1.0
	UnknownFounded = "-1"
)

var postingNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// RawPosting is one row of Uncleaned_DS_jobs as it comes off the loader.
// Founded stays textual so an unparseable cell can be reported with its raw value.
type RawPosting struct {
	Index           string  `json:"index"`
	JobTitle        string  `json:"job_title"`
	SalaryEstimate  string  `json:"salary_estimate"`
	JobDescription  string  `json:"job_description"`
	Rating          float64 `json:"rating"`
	CompanyName     string  `json:"company_name"`
	Location        string  `json:"location"`
	Headquarters    string  `json:"headquarters"`
	Size            string  `json:"size"`
	Founded         string  `json:"founded"`
	TypeOfOwnership string  `json:"type_of_ownership"`
	Industry        string  `json:"industry"`
	Sector          string  `json:"sector"`
	Revenue         string  `json:"revenue"`
	Competitors     string  `json:"competitors"`
}

// PostingID derives a stable identifier from the source row index, so reloading
// the same table yields the same ids.
func (p RawPosting) PostingID() string {
	return uuid.NewSHA1(postingNamespace, []byte(p.Index)).String()
}
