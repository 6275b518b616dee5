package models

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectDatabase opens the sqlite database at path and migrates the
// schema. A failure here is fatal to the caller: the server never
// serves degraded responses without a store.
func ConnectDatabase(path string, verbose bool) error {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if verbose {
		cfg = &gorm.Config{}
	}

	database, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return err
	}

	if err := database.AutoMigrate(&User{}, &Transaction{}); err != nil {
		return err
	}

	if verbose {
		DB = database.Debug()
	} else {
		DB = database
	}
	return nil
}
