// database_utils should be the canonical place to put shared DB utils.
// It should not include:
// 1. Any util that doesn't manipulate DB
// 2. Any util that contains business logic
package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/Luismorlan/contentmux/app_setting"
	"github.com/Luismorlan/contentmux/model"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestDBPrefix         = "testonlydb_"
	TestDBNameCharLength = 8
)

func randomTestDBName() string {
	return TestDBPrefix + RandomAlphabetString(TestDBNameCharLength)
}

// GetDBConnection get a connection to the postgres database specified by
// setting.
func GetDBConnection(setting app_setting.AppSetting) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		setting.DBHost, setting.DBUser, setting.DBPass, setting.DBName, setting.DBPort)
	return getDB(postgres.Open(dsn))
}

// Create a temp DB for testing, note that this function should only be called
// in a testing environment with test state manager testing.T
// The database lives in memory and is private to the calling test, it is
// released when the test finishes.
func CreateTempDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	dbName := randomTestDBName()
	db, err := getDB(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", dbName)))
	if err != nil {
		t.Fatalf("fail to create temp DB with name %s: %v", dbName, err)
	}

	// A shared-cache memory database disappears with its last connection and
	// sqlite only allows one writer, so pin the pool to a single connection.
	conn, err := db.DB()
	if err != nil {
		t.Fatalf("cannot get the SQL DB of %s: %v", dbName, err)
	}
	conn.SetMaxOpenConns(1)

	if err := DatabaseSetupAndMigration(db); err != nil {
		t.Fatalf("fail to migrate temp DB %s: %v", dbName, err)
	}
	t.Cleanup(func() {
		conn.Close()
	})

	return db, dbName
}

func getDB(dialector gorm.Dialector) (db *gorm.DB, err error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// DatabaseSetupAndMigration registers join tables and migrates every model.
func DatabaseSetupAndMigration(db *gorm.DB) error {
	if err := db.SetupJoinTable(&model.Content{}, "Tags", &model.ContentTag{}); err != nil {
		return fmt.Errorf("fail to setup content tags join table: %w", err)
	}

	return db.AutoMigrate(
		&model.Author{},
		&model.Content{},
		&model.Tag{},
		&model.ContentTag{},
		&model.VideoPublisher{},
		&model.VideoData{},
	)
}
