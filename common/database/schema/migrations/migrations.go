package migrations

import "dsjobs/common/database/schema"

// All lists every migration in version order.
var All = []schema.Migration{
	CreateDSJobsTable,
	CreateDSJobsRejectedTable,
}
