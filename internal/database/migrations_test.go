package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskapi/internal/apperrors"
	"taskapi/internal/models"
)

// MigratorTestSuite defines the test suite for the migration runner
type MigratorTestSuite struct {
	suite.Suite
	db       *gorm.DB
	migrator *Migrator
}

// SetupTest runs before each test
func (suite *MigratorTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.db = db
	suite.migrator = NewMigrator(db)
}

// TearDownTest runs after each test
func (suite *MigratorTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *MigratorTestSuite) appliedVersions() []string {
	statuses, err := suite.migrator.Status()
	suite.Require().NoError(err)
	var applied []string
	for _, s := range statuses {
		if s.Applied {
			applied = append(applied, s.Version)
		}
	}
	return applied
}

func (suite *MigratorTestSuite) TestStatusOnFreshStore() {
	statuses, err := suite.migrator.Status()
	suite.Require().NoError(err)

	suite.Require().Len(statuses, 2)
	for _, s := range statuses {
		assert.False(suite.T(), s.Applied)
		assert.Nil(suite.T(), s.AppliedAt)
	}
	assert.Equal(suite.T(), "001", statuses[0].Version)
	assert.Equal(suite.T(), "002", statuses[1].Version)
}

func (suite *MigratorTestSuite) TestMigrateAppliesAllInOrder() {
	applied, err := suite.migrator.Migrate()
	suite.Require().NoError(err)
	assert.Equal(suite.T(), []string{"001", "002"}, applied)

	assert.True(suite.T(), suite.db.Migrator().HasTable("tasks"))

	statuses, err := suite.migrator.Status()
	suite.Require().NoError(err)
	for _, s := range statuses {
		assert.True(suite.T(), s.Applied, s.Version)
		assert.NotNil(suite.T(), s.AppliedAt, s.Version)
	}
}

func (suite *MigratorTestSuite) TestMigrateTwiceIsNoOp() {
	_, err := suite.migrator.Migrate()
	suite.Require().NoError(err)

	applied, err := suite.migrator.Migrate()
	suite.Require().NoError(err)
	assert.Empty(suite.T(), applied)
}

func (suite *MigratorTestSuite) TestRollbackWithoutTargetUndoesMostRecent() {
	_, err := suite.migrator.Migrate()
	suite.Require().NoError(err)

	rolledBack, err := suite.migrator.Rollback("")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), []string{"002"}, rolledBack)
	assert.Equal(suite.T(), []string{"001"}, suite.appliedVersions())

	// the tasks table from 001 survives
	assert.True(suite.T(), suite.db.Migrator().HasTable("tasks"))

	rolledBack, err = suite.migrator.Rollback("")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), []string{"001"}, rolledBack)
	assert.Empty(suite.T(), suite.appliedVersions())
	assert.False(suite.T(), suite.db.Migrator().HasTable("tasks"))
}

func (suite *MigratorTestSuite) TestRollbackToTarget() {
	_, err := suite.migrator.Migrate()
	suite.Require().NoError(err)

	rolledBack, err := suite.migrator.Rollback("001")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), []string{"002"}, rolledBack)
	assert.Equal(suite.T(), []string{"001"}, suite.appliedVersions())
}

func (suite *MigratorTestSuite) TestRollbackBelowAllTargetsRevertsEverything() {
	_, err := suite.migrator.Migrate()
	suite.Require().NoError(err)

	rolledBack, err := suite.migrator.Rollback("000")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), []string{"002", "001"}, rolledBack)
	assert.Empty(suite.T(), suite.appliedVersions())
}

func (suite *MigratorTestSuite) TestRollbackWithNothingAppliedFails() {
	_, err := suite.migrator.Rollback("")
	suite.Require().Error(err)
	assert.Equal(suite.T(), apperrors.CodeMigration, apperrors.Code(err))
}

func (suite *MigratorTestSuite) TestRollbackToCurrentVersionFails() {
	_, err := suite.migrator.Migrate()
	suite.Require().NoError(err)

	_, err = suite.migrator.Rollback("002")
	suite.Require().Error(err)
	assert.Equal(suite.T(), apperrors.CodeMigration, apperrors.Code(err))
}

func (suite *MigratorTestSuite) TestMigrateStopsAtFirstFailure() {
	boom := errors.New("boom")
	m := &Migrator{
		db: suite.db,
		migrations: []Migration{
			{
				Version:     "001",
				Description: "create widgets",
				Up: func(tx *gorm.DB) error {
					return tx.Exec("CREATE TABLE widgets (id INTEGER PRIMARY KEY)").Error
				},
				Down: func(tx *gorm.DB) error {
					return tx.Exec("DROP TABLE widgets").Error
				},
			},
			{
				Version:     "002",
				Description: "always fails",
				Up:          func(tx *gorm.DB) error { return boom },
				Down:        func(tx *gorm.DB) error { return nil },
			},
			{
				Version:     "003",
				Description: "never reached",
				Up: func(tx *gorm.DB) error {
					return tx.Exec("CREATE TABLE gadgets (id INTEGER PRIMARY KEY)").Error
				},
				Down: func(tx *gorm.DB) error {
					return tx.Exec("DROP TABLE gadgets").Error
				},
			},
		},
	}

	applied, err := m.Migrate()
	suite.Require().Error(err)
	assert.Equal(suite.T(), apperrors.CodeMigration, apperrors.Code(err))
	assert.Contains(suite.T(), err.Error(), "002")
	assert.ErrorIs(suite.T(), err, boom)

	// the prefix before the failure stays applied, the rest untouched
	assert.Equal(suite.T(), []string{"001"}, applied)
	assert.True(suite.T(), suite.db.Migrator().HasTable("widgets"))
	assert.False(suite.T(), suite.db.Migrator().HasTable("gadgets"))

	var records []models.MigrationRecord
	suite.Require().NoError(suite.db.Order("version").Find(&records).Error)
	suite.Require().Len(records, 1)
	assert.Equal(suite.T(), "001", records[0].Version)
}

func (suite *MigratorTestSuite) TestRollbackStopsAtFirstFailure() {
	boom := errors.New("boom")
	m := &Migrator{
		db: suite.db,
		migrations: []Migration{
			{
				Version:     "001",
				Description: "create widgets",
				Up: func(tx *gorm.DB) error {
					return tx.Exec("CREATE TABLE widgets (id INTEGER PRIMARY KEY)").Error
				},
				Down: func(tx *gorm.DB) error {
					return tx.Exec("DROP TABLE widgets").Error
				},
			},
			{
				Version:     "002",
				Description: "create gadgets",
				Up: func(tx *gorm.DB) error {
					return tx.Exec("CREATE TABLE gadgets (id INTEGER PRIMARY KEY)").Error
				},
				Down: func(tx *gorm.DB) error { return boom },
			},
		},
	}

	_, err := m.Migrate()
	suite.Require().NoError(err)

	rolledBack, err := m.Rollback("000")
	suite.Require().Error(err)
	assert.Equal(suite.T(), apperrors.CodeMigration, apperrors.Code(err))
	assert.Contains(suite.T(), err.Error(), "002")
	assert.ErrorIs(suite.T(), err, boom)
	assert.Empty(suite.T(), rolledBack)

	// the failing step keeps its record and earlier versions stay untouched
	var records []models.MigrationRecord
	suite.Require().NoError(suite.db.Order("version").Find(&records).Error)
	suite.Require().Len(records, 2)
	assert.Equal(suite.T(), "001", records[0].Version)
	assert.Equal(suite.T(), "002", records[1].Version)
	assert.True(suite.T(), suite.db.Migrator().HasTable("widgets"))
	assert.True(suite.T(), suite.db.Migrator().HasTable("gadgets"))
}

func (suite *MigratorTestSuite) TestRecordsAreReadFreshEachCall() {
	_, err := suite.migrator.Migrate()
	suite.Require().NoError(err)

	// remove a record behind the runner's back; status must reflect it
	suite.Require().NoError(suite.db.Where("version = ?", "002").
		Delete(&models.MigrationRecord{}).Error)

	assert.Equal(suite.T(), []string{"001"}, suite.appliedVersions())
}

func TestMigratorTestSuite(t *testing.T) {
	suite.Run(t, new(MigratorTestSuite))
}
