package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"dsjobs/services/processing/internal/models"

	"github.com/ClickHouse/clickhouse-go/v2"
)

const insertPostingsQuery = `
	INSERT INTO ds_jobs (
		id, record_id, job_title, job_description,
		location_type, employment_type, job_category, seniority,
		salary_range, min_salary, max_salary,
		rating, company_name, founded, company_age, skills,
		location, headquarters, size, type_of_ownership,
		industry, sector, revenue, competitors, processed_at
	)`

const insertRejectionsQuery = `
	INSERT INTO ds_jobs_rejected (
		record_id, posting_id, field, raw, reason, rejected_at
	)`

type ClickHouseStore struct {
	conn clickhouse.Conn
}

func NewClickHouseStore(conn clickhouse.Conn) *ClickHouseStore {
	return &ClickHouseStore{conn: conn}
}

func (s *ClickHouseStore) InsertPostings(ctx context.Context, postings []models.CleanPosting) error {
	batch, err := s.conn.PrepareBatch(ctx, insertPostingsQuery)
	if err != nil {
		return fmt.Errorf("prepare ds_jobs batch: %w", err)
	}

	for _, p := range postings {
		if err := batch.Append(
			p.ID,
			p.RecordID,
			p.JobTitle,
			p.JobDescription,
			p.LocationType,
			p.EmploymentType,
			p.JobCategory,
			p.Seniority,
			p.SalaryRange,
			toInt64(p.MinSalary),
			toInt64(p.MaxSalary),
			p.Rating,
			p.CompanyName,
			toInt32(p.Founded),
			toInt32(p.CompanyAge),
			p.Skills,
			p.Location,
			p.Headquarters,
			p.Size,
			p.TypeOfOwnership,
			p.Industry,
			p.Sector,
			p.Revenue,
			p.Competitors,
			p.ProcessedAt,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append posting %s: %w", p.RecordID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("insert ds_jobs: %w", err)
	}
	return nil
}

func (s *ClickHouseStore) InsertRejections(ctx context.Context, rejections []models.Rejection) error {
	batch, err := s.conn.PrepareBatch(ctx, insertRejectionsQuery)
	if err != nil {
		return fmt.Errorf("prepare ds_jobs_rejected batch: %w", err)
	}

	for _, r := range rejections {
		if err := batch.Append(r.RecordID, r.PostingID, r.Field, r.Raw, r.Reason, r.RejectedAt); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append rejection %s/%s: %w", r.RecordID, r.Field, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("insert ds_jobs_rejected: %w", err)
	}
	return nil
}

func toInt64(v *int) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}

func toInt32(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}

// JSONLinesStore writes one JSON document per line. Rejections go to a separate
// writer; a nil rejections writer discards them.
type JSONLinesStore struct {
	mu         sync.Mutex
	postings   *json.Encoder
	rejections *json.Encoder
}

func NewJSONLinesStore(postings, rejections io.Writer) *JSONLinesStore {
	s := &JSONLinesStore{postings: json.NewEncoder(postings)}
	if rejections != nil {
		s.rejections = json.NewEncoder(rejections)
	}
	return s
}

func (s *JSONLinesStore) InsertPostings(_ context.Context, postings []models.CleanPosting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range postings {
		if err := s.postings.Encode(p); err != nil {
			return fmt.Errorf("write posting %s: %w", p.RecordID, err)
		}
	}
	return nil
}

func (s *JSONLinesStore) InsertRejections(_ context.Context, rejections []models.Rejection) error {
	if s.rejections == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rejections {
		if err := s.rejections.Encode(r); err != nil {
			return fmt.Errorf("write rejection %s: %w", r.RecordID, err)
		}
	}
	return nil
}
