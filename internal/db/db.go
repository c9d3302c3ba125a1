package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/studio-scheduler/internal/config"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate cria as tabelas e as constraints EXCLUDE que garantem,
// no banco, que reservas e reuniões ACTIVE não se sobrepõem.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("enable btree_gist: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Instrument{},
		&models.Reservation{},
		&models.Meeting{},
		&models.MeetingMembership{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	for _, c := range exclusionConstraints {
		if err := db.Exec(fmt.Sprintf(`
			DO $$
			BEGIN
				IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
					ALTER TABLE %s ADD CONSTRAINT %s %s;
				END IF;
			END $$;
		`, c.name, c.table, c.name, c.definition)).Error; err != nil {
			return fmt.Errorf("constraint %s: %w", c.name, err)
		}
	}

	return nil
}

var exclusionConstraints = []struct {
	name       string
	table      string
	definition string
}{
	{
		// datas inclusivas dos dois lados
		name:  "reservations_no_overlap",
		table: "reservations",
		definition: `EXCLUDE USING gist (
			instrument_id WITH =,
			daterange(start_date, end_date, '[]') WITH &&
		) WHERE (status = 'ACTIVE')`,
	},
	{
		// horário semiaberto [start, end)
		name:  "meetings_no_overlap",
		table: "meetings",
		definition: `EXCLUDE USING gist (
			room WITH =,
			tsrange(day + start_time, day + end_time, '[)') WITH &&
		) WHERE (status = 'ACTIVE')`,
	},
}
