// Package testing provides test utilities and database setup for the hiring backend
package testing

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/amirphl/studio-hiring-api/repository"
	"github.com/glebarez/sqlite"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB is a migrated SQLite database in a temporary directory
type TestDB struct {
	DB   *gorm.DB
	Name string
	dir  string
}

// SetupTestDB creates a fresh database file and runs AutoMigrate
func SetupTestDB() (*TestDB, error) {
	dir, err := os.MkdirTemp("", "studio_test_*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	path := filepath.Join(dir, "test.db")

	// busy_timeout lets concurrent writers queue instead of failing with SQLITE_BUSY
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to open test database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := repository.Migrate(db); err != nil {
		_ = sqlDB.Close()
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return &TestDB{DB: db, Name: path, dir: dir}, nil
}

// TeardownTestDB closes the connection and removes the database file
func (tdb *TestDB) TeardownTestDB() error {
	if tdb == nil || tdb.DB == nil {
		return nil
	}
	if sqlDB, err := tdb.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return os.RemoveAll(tdb.dir)
}

// ClearAllTables removes all rows while preserving structure
func (tdb *TestDB) ClearAllTables() error {
	// children first
	tables := []string{"applications", "contact_leads", "job_postings", "admins"}
	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// TestWithDB sets up a test database, runs testFunc and cleans up
func TestWithDB(testFunc func(*TestDB) error) error {
	testDB, err := SetupTestDB()
	if err != nil {
		return fmt.Errorf("failed to setup test database: %w", err)
	}
	defer func() {
		if cleanupErr := testDB.TeardownTestDB(); cleanupErr != nil {
			log.WithError(cleanupErr).Warn("Failed to cleanup test database")
		}
	}()

	return testFunc(testDB)
}
