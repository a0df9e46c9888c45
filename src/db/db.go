package db

import (
	"eventuate/src/config"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// GetDb lazily opens the shared Postgres connection. Pool sizing lives in
// the config package alongside the rest of the tunables.
func GetDb() *gorm.DB {
	if db != nil {
		return db
	}
	conn, err := gorm.Open(postgres.Open(config.GetDSN()))
	if err != nil {
		log.Printf("Error connecting to database: %s\n", err.Error())
		panic(err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		log.Fatalf("Error establishing connection to database: %s\n", err.Error())
	}
	sqlDB.SetMaxIdleConns(config.DB_MAX_IDLE_CONNS)
	sqlDB.SetMaxOpenConns(config.DB_MAX_OPEN_CONNS)

	db = conn
	return conn
}

// NewDB swaps the singleton, used by tests to install a mock-backed handle.
func NewDB(newdb *gorm.DB) {
	db = newdb
}
