package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskapi/internal/apperrors"
	"taskapi/internal/logger"
	"taskapi/internal/models"

	"go.uber.org/zap"
)

// Migration is one versioned schema change. Down must be the exact structural
// reverse of Up; the runner never infers an inverse.
type Migration struct {
	Version     string
	Description string
	Up          func(tx *gorm.DB) error
	Down        func(tx *gorm.DB) error
}

// MigrationStatus describes one registered migration and whether it has been
// applied.
type MigrationStatus struct {
	Version     string     `json:"version"`
	Description string     `json:"description"`
	Applied     bool       `json:"applied"`
	AppliedAt   *time.Time `json:"applied_at,omitempty"`
}

// Migrator applies and rolls back the registered migrations, recording
// applied versions in the schema_migrations table. Applied state is read
// from the store on every call, never cached.
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{db: db, migrations: registry()}
}

func registry() []Migration {
	return []Migration{
		{
			Version:     "001",
			Description: "Create tasks table",
			Up: func(tx *gorm.DB) error {
				if err := tx.Migrator().CreateTable(&models.Task{}); err != nil {
					return err
				}
				indexes := []string{
					"CREATE INDEX idx_tasks_status ON tasks(status)",
					"CREATE INDEX idx_tasks_priority ON tasks(priority)",
					"CREATE INDEX idx_tasks_created_at ON tasks(created_at)",
					"CREATE INDEX idx_tasks_due_date ON tasks(due_date)",
					"CREATE INDEX idx_tasks_assigned_to ON tasks(assigned_to)",
				}
				for _, stmt := range indexes {
					if err := tx.Exec(stmt).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Down: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.Task{})
			},
		},
		{
			Version:     "002",
			Description: "Add performance indexes",
			Up: func(tx *gorm.DB) error {
				stmts := []string{
					"CREATE INDEX idx_tasks_title ON tasks(title)",
					"CREATE INDEX idx_tasks_compound_status_priority ON tasks(status, priority)",
				}
				for _, stmt := range stmts {
					if err := tx.Exec(stmt).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Down: func(tx *gorm.DB) error {
				stmts := []string{
					"DROP INDEX idx_tasks_title",
					"DROP INDEX idx_tasks_compound_status_priority",
				}
				for _, stmt := range stmts {
					if err := tx.Exec(stmt).Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

func (m *Migrator) ensureTable() error {
	if err := m.db.AutoMigrate(&models.MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}
	return nil
}

func (m *Migrator) appliedRecords() (map[string]models.MigrationRecord, error) {
	var records []models.MigrationRecord
	if err := m.db.Order("version").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	applied := make(map[string]models.MigrationRecord, len(records))
	for _, r := range records {
		applied[r.Version] = r
	}
	return applied, nil
}

// Status reports, for every registered migration, whether it is applied and
// when.
func (m *Migrator) Status() ([]MigrationStatus, error) {
	if err := m.ensureTable(); err != nil {
		return nil, err
	}
	applied, err := m.appliedRecords()
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(m.migrations))
	for _, mig := range m.migrations {
		status := MigrationStatus{
			Version:     mig.Version,
			Description: mig.Description,
		}
		if record, ok := applied[mig.Version]; ok {
			status.Applied = true
			appliedAt := record.AppliedAt
			status.AppliedAt = &appliedAt
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// Migrate applies all pending migrations in ascending version order. Each
// step runs in its own transaction together with its record insert, so a
// failing step leaves earlier steps applied and itself unrecorded. The run
// stops at the first failure. Returns the versions applied by this call;
// nothing pending is a no-op success.
func (m *Migrator) Migrate() ([]string, error) {
	if err := m.ensureTable(); err != nil {
		return nil, err
	}
	applied, err := m.appliedRecords()
	if err != nil {
		return nil, err
	}

	var done []string
	for _, mig := range m.migrations {
		if _, ok := applied[mig.Version]; ok {
			continue
		}

		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return err
			}
			record := models.MigrationRecord{
				Version:     mig.Version,
				Description: mig.Description,
				AppliedAt:   time.Now().UTC(),
			}
			return tx.Create(&record).Error
		})
		if err != nil {
			return done, apperrors.NewMigration(
				fmt.Sprintf("migration %s (%s) failed", mig.Version, mig.Description), err)
		}

		logger.Info("migration applied",
			zap.String("version", mig.Version),
			zap.String("description", mig.Description))
		done = append(done, mig.Version)
	}
	return done, nil
}

// Rollback reverts applied migrations in descending version order until the
// most recently applied version is <= target. With an empty target only the
// single most recent migration is undone. Each step runs in its own
// transaction together with its record delete.
func (m *Migrator) Rollback(target string) ([]string, error) {
	if err := m.ensureTable(); err != nil {
		return nil, err
	}
	applied, err := m.appliedRecords()
	if err != nil {
		return nil, err
	}
	if len(applied) == 0 {
		return nil, apperrors.NewMigration("no migrations applied, nothing to roll back", nil)
	}

	var pending []Migration
	if target == "" {
		// Only the most recent applied migration.
		for i := len(m.migrations) - 1; i >= 0; i-- {
			if _, ok := applied[m.migrations[i].Version]; ok {
				pending = append(pending, m.migrations[i])
				break
			}
		}
	} else {
		for i := len(m.migrations) - 1; i >= 0; i-- {
			mig := m.migrations[i]
			if mig.Version <= target {
				break
			}
			if _, ok := applied[mig.Version]; ok {
				pending = append(pending, mig)
			}
		}
	}

	if len(pending) == 0 {
		return nil, apperrors.NewMigration(
			fmt.Sprintf("no applied migrations above version %s", target), nil)
	}

	var done []string
	for _, mig := range pending {
		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Down(tx); err != nil {
				return err
			}
			return tx.Where("version = ?", mig.Version).
				Delete(&models.MigrationRecord{}).Error
		})
		if err != nil {
			return done, apperrors.NewMigration(
				fmt.Sprintf("rollback of migration %s (%s) failed", mig.Version, mig.Description), err)
		}

		logger.Info("migration rolled back",
			zap.String("version", mig.Version),
			zap.String("description", mig.Description))
		done = append(done, mig.Version)
	}
	return done, nil
}
