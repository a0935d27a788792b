package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/classbridge/classbridge-backend/internal/pkg/logger"
	"github.com/classbridge/classbridge-backend/internal/types"
	"github.com/classbridge/classbridge-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "classbridge", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Profile{},
		&types.Syllabus{},
		&types.Note{},
		&types.Assignment{},
		&types.AssignmentFile{},
		&types.Submission{},
		&types.Activity{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	stmts := []struct {
		name string
		sql  string
	}{
		{
			name: "fk_user_token_user_id",
			sql: `ALTER TABLE "user_token"
				ADD CONSTRAINT "fk_user_token_user_id"
				FOREIGN KEY ("user_id") REFERENCES "user"("id")
				ON DELETE CASCADE`,
		},
		{
			name: "fk_profile_user_id",
			sql: `ALTER TABLE "profile"
				ADD CONSTRAINT "fk_profile_user_id"
				FOREIGN KEY ("user_id") REFERENCES "user"("id")
				ON DELETE CASCADE`,
		},
		{
			name: "fk_assignment_file_assignment_id",
			sql: `ALTER TABLE "assignment_file"
				ADD CONSTRAINT "fk_assignment_file_assignment_id"
				FOREIGN KEY ("assignment_id") REFERENCES "assignment"("id")
				ON DELETE CASCADE`,
		},
		{
			name: "fk_assignment_submission_assignment_id",
			sql: `ALTER TABLE "assignment_submission"
				ADD CONSTRAINT "fk_assignment_submission_assignment_id"
				FOREIGN KEY ("assignment_id") REFERENCES "assignment"("id")
				ON DELETE CASCADE`,
		},
	}
	for _, st := range stmts {
		if err := s.db.Exec(st.sql).Error; err != nil {
			// Re-running migrations hits existing constraints; only surface real failures.
			s.log.Debug("Constraint not added", "constraint", st.name, "error", err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
