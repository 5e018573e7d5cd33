package main

import (
	"net/http"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ParseDatabaseDriver creates the gorm dialector for the DB_URL value. A
// mysql:// prefix selects the MySQL driver with the rest of the string as
// its DSN; anything else is treated as a sqlite file path.
func ParseDatabaseDriver(dbURL string) gorm.Dialector {
	if len(dbURL) == 0 {
		return nil
	}
	if strings.HasPrefix(dbURL, "mysql://") {
		return mysql.Open(strings.TrimPrefix(dbURL, "mysql://"))
	}
	return sqlite.Open(strings.TrimPrefix(dbURL, "sqlite://"))
}

// checkOrigin creates the origin check used by the engine.io transports.
// With no configured origins every origin is allowed, which matches the
// local development setup.
func checkOrigin(allowedOrigins []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowedOrigins) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		if len(origin) == 0 {
			return true
		}
		for _, allowed := range allowedOrigins {
			if strings.EqualFold(origin, allowed) {
				return true
			}
		}
		return false
	}
}
