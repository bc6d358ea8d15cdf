package main

import (
	"context"
	"log"
	"time"

	env "dsjobs/common/config"
	"dsjobs/common/database"
	"dsjobs/common/database/schema"
	"dsjobs/common/database/schema/migrations"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := env.LoadDotEnv(env.GetString("ENV_FILE", ".env")); err != nil {
		logger.Fatal("Failed to load env file", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), env.GetDuration("MIGRATE_TIMEOUT", 2*time.Minute))
	defer cancel()

	db, err := database.New(ctx, database.Options{
		DSN:      env.GetString("CLICKHOUSE_DSN", "127.0.0.1:9000"),
		Username: env.GetString("CLICKHOUSE_USERNAME", "default"),
		Password: env.GetString("CLICKHOUSE_PASSWORD", ""),
		Database: env.GetString("CLICKHOUSE_DATABASE", "dsjobs"),
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to ClickHouse", zap.Error(err))
	}
	defer db.Close()

	migrator := schema.NewMigrator(db.Conn(), logger)

	if env.GetBool("MIGRATE_ROLLBACK_LATEST", false) {
		latest := migrations.All[len(migrations.All)-1]
		if err := migrator.RollbackMigration(ctx, latest); err != nil {
			logger.Fatal("Failed to roll back migration", zap.Int("version", latest.Version), zap.Error(err))
		}
		logger.Info("Rolled back migration", zap.Int("version", latest.Version))
		return
	}

	if err := migrator.Migrate(ctx, migrations.All); err != nil {
		logger.Fatal("Failed to migrate", zap.Error(err))
	}
}
