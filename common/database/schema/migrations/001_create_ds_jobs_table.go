package migrations

import "dsjobs/common/database/schema"

var CreateDSJobsTable = schema.Migration{
	Version:     1,
	Description: "Create ds_jobs table",
	Up: `
		CREATE TABLE IF NOT EXISTS ds_jobs (
			id UUID,
			record_id String,
			job_title String,
			job_description String,
			location_type LowCardinality(String),
			employment_type LowCardinality(String),
			job_category LowCardinality(String),
			seniority LowCardinality(String),
			salary_range Nullable(String),
			min_salary Nullable(Int64),
			max_salary Nullable(Int64),
			rating Float64,
			company_name String,
			founded Nullable(Int32),
			company_age Nullable(Int32),
			skills Map(String, Bool),
			location String,
			headquarters String,
			size String,
			type_of_ownership String,
			industry String,
			sector String,
			revenue String,
			competitors String,
			processed_at DateTime
		) ENGINE = ReplacingMergeTree(processed_at)
		ORDER BY id
		SETTINGS index_granularity = 8192
	`,
	Down: `DROP TABLE IF EXISTS ds_jobs`,
}
