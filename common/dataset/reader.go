package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const utf8BOM = "\uFEFF"

// headerMap maps normalized source header names to RawPosting fields.
var headerMap = map[string]string{
	"index":             "index",
	"job title":         "job_title",
	"salary estimate":   "salary_estimate",
	"job description":   "job_description",
	"rating":            "rating",
	"company name":      "company_name",
	"location":          "location",
	"headquarters":      "headquarters",
	"size":              "size",
	"founded":           "founded",
	"type of ownership": "type_of_ownership",
	"industry":          "industry",
	"sector":            "sector",
	"revenue":           "revenue",
	"competitors":       "competitors",
}

var requiredColumns = []string{
	"job_title",
	"salary_estimate",
	"job_description",
	"rating",
	"company_name",
	"founded",
}

// Reader streams RawPostings out of a CSV export of the raw table.
// It is not safe for concurrent use.
type Reader struct {
	csv     *csv.Reader
	columns map[string]int
	ordinal int
}

// NewReader consumes the header row and checks that every required column is present.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("read header: empty input")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		key, ok := headerMap[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		columns[key] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return &Reader{csv: cr, columns: columns}, nil
}

// Next returns the next row, or io.EOF once the input is exhausted.
func (r *Reader) Next() (RawPosting, error) {
	row, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return RawPosting{}, io.EOF
		}
		return RawPosting{}, fmt.Errorf("read row %d: %w", r.ordinal, err)
	}

	cell := func(key string) string {
		i, ok := r.columns[key]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	posting := RawPosting{
		Index:           strings.TrimSpace(cell("index")),
		JobTitle:        cell("job_title"),
		SalaryEstimate:  cell("salary_estimate"),
		JobDescription:  cell("job_description"),
		Rating:          parseRating(cell("rating")),
		CompanyName:     cell("company_name"),
		Location:        cell("location"),
		Headquarters:    cell("headquarters"),
		Size:            cell("size"),
		Founded:         strings.TrimSpace(cell("founded")),
		TypeOfOwnership: cell("type_of_ownership"),
		Industry:        cell("industry"),
		Sector:          cell("sector"),
		Revenue:         cell("revenue"),
		Competitors:     cell("competitors"),
	}
	if posting.Index == "" {
		posting.Index = strconv.Itoa(r.ordinal)
	}
	r.ordinal++

	return posting, nil
}

// ReadAll drains the reader.
func (r *Reader) ReadAll() ([]RawPosting, error) {
	var out []RawPosting
	for {
		p, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
}

func parseRating(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return UnknownRating
	}
	return v
}
