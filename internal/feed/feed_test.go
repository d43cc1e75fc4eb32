package feed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campusbuzz/campusbuzz/internal/db"
	"github.com/campusbuzz/campusbuzz/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open("sqlite://:memory:", db.Options{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return conn
}

func createUser(t *testing.T, conn *gorm.DB, name string) models.User {
	t.Helper()
	u := models.User{
		Name:         name,
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@campus.edu",
		PasswordHash: "x",
	}
	require.NoError(t, conn.Create(&u).Error)
	return u
}

// fixedClock returns a clock stuck at t that can be moved by the test.
type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func newFixture(t *testing.T) (*Repository, *LikeService, *fixedClock, *gorm.DB) {
	conn := setupTestDB(t)
	clock := &fixedClock{t: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
	repo := NewRepository(conn)
	repo.Clock = clock.Now
	return repo, NewLikeService(conn), clock, conn
}

var bg = context.Background()
