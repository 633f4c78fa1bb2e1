package models

import "time"

// MigrationRecord is a row in the schema_migrations table marking one
// migration as applied. The applied set is always a contiguous prefix of the
// registered migration list.
type MigrationRecord struct {
	Version     string    `gorm:"primaryKey;size:10" json:"version"`
	Description string    `gorm:"not null" json:"description"`
	AppliedAt   time.Time `gorm:"not null" json:"applied_at"`
}

func (MigrationRecord) TableName() string {
	return "schema_migrations"
}
