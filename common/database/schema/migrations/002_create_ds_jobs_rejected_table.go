package migrations

import "dsjobs/common/database/schema"

var CreateDSJobsRejectedTable = schema.Migration{
	Version:     2,
	Description: "Create ds_jobs_rejected table",
	Up: `
		CREATE TABLE IF NOT EXISTS ds_jobs_rejected (
			record_id String,
			posting_id UUID,
			field LowCardinality(String),
			raw String,
			reason String,
			rejected_at DateTime
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(rejected_at)
		ORDER BY (field, record_id, rejected_at)
	`,
	Down: `DROP TABLE IF EXISTS ds_jobs_rejected`,
}
