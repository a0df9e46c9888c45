package config

import (
	"fmt"
	"os"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

// TIME_PARSE_FORMAT is the wire format for event datetimes and date filters.
const TIME_PARSE_FORMAT = "2006-01-02T15:04:05Z07:00"

const (
	QR_CACHE_TTL_HOURS   = 2
	DEFAULT_PAGE_LIMIT   = 12
	BOOKINGS_PAGE_LIMIT  = 10
	ORGANIZER_PAGE_LIMIT = 20
)

const (
	DB_MAX_IDLE_CONNS = 10
	DB_MAX_OPEN_CONNS = 100
)
