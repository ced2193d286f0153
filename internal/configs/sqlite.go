package config

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	model "serve-board.com/serve-board/pkg/models"
)

// Models lists every table the service owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.Task{},
		&model.Volunteer{},
		&model.HoursEntry{},
		&model.Activity{},
		&model.Comment{},
		&model.Membership{},
		&model.GroupMembership{},
		&model.AuditRecord{},
	}
}

func New(dsn string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	// sqlite serializes writers; one connection keeps transactions from
	// failing with SQLITE_BUSY under concurrent requests.
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("db handle failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db
}
