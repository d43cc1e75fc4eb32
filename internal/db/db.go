package db

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campusbuzz/campusbuzz/internal/log"
	"github.com/campusbuzz/campusbuzz/internal/models"
)

// sqlitePragmas are applied to every sqlite connection unless the DSN sets them.
var sqlitePragmas = []struct{ name, param string }{
	{"foreign_keys", "_pragma=foreign_keys(1)"},
	{"busy_timeout", "_pragma=busy_timeout(5000)"},
}

// Options tunes the connection returned by Open.
type Options struct {
	Debug bool
}

// Open returns a GORM connection for a URL of the form postgres://... or sqlite://...
func Open(dbURL string, opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	memory := false

	switch {
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		dialector = postgres.Open(dbURL)
		log.Info.Println("Connecting to PostgreSQL database...")
	case strings.HasPrefix(dbURL, "sqlite://"):
		dsn := strings.TrimPrefix(dbURL, "sqlite://")
		memory = strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
		dialector = sqlite.Open(withPragmas(dsn))
		log.Info.Println("Connecting to SQLite database at", dsn)
	default:
		return nil, fmt.Errorf("invalid database url %q: must start with postgres:// or sqlite://", dbURL)
	}

	level := logger.Silent
	if opts.Debug {
		level = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if memory {
		// Every connection to :memory: is a separate database.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	log.Info.Println("Database connection established.")
	return db, nil
}

// Migrate creates or updates the users, posts and likes tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func withPragmas(dsn string) string {
	for _, p := range sqlitePragmas {
		if strings.Contains(dsn, p.name) {
			continue
		}
		if strings.Contains(dsn, "?") {
			dsn += "&" + p.param
		} else {
			dsn += "?" + p.param
		}
	}
	return dsn
}
