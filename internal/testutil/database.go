package testutil

import (
	"context"
	"testing"
	"time"

	"idx-go/internal/database"
	"idx-go/internal/seo"
)

// NewTestDatabase creates a new in-memory SQLite database with schema applied.
// The database is automatically closed when the test completes.
func NewTestDatabase(t *testing.T) *database.SQLiteDatabase {
	t.Helper()

	sqlDB, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if _, err := sqlDB.Exec(database.Schema); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	db := database.NewSQLiteDatabaseFromDB(sqlDB)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// CreateUser inserts a user whose nicename is login and whose email is
// login@example.com.
func CreateUser(t *testing.T, db *database.SQLiteDatabase, login string) *seo.User {
	t.Helper()

	u := &seo.User{
		Login:       login,
		Email:       login + "@example.com",
		Nicename:    login,
		DisplayName: login,
	}
	if err := db.InsertUser(context.Background(), u); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return u
}

// CreatePublishedPost inserts a published, password-less post by authorID,
// published and last modified at the given times.
func CreatePublishedPost(t *testing.T, db *database.SQLiteDatabase, authorID int64, published, modified time.Time) *database.Post {
	t.Helper()
	return CreatePost(t, db, &database.Post{
		AuthorID:    authorID,
		Type:        "post",
		Status:      "publish",
		DateGMT:     published,
		ModifiedGMT: modified,
	})
}

// CreatePost inserts p as is.
func CreatePost(t *testing.T, db *database.SQLiteDatabase, p *database.Post) *database.Post {
	t.Helper()
	if err := db.InsertPost(context.Background(), p); err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return p
}

// SetUserMeta stores a user meta value.
func SetUserMeta(t *testing.T, db *database.SQLiteDatabase, userID int64, key, value string) {
	t.Helper()
	if err := db.SetUserMeta(context.Background(), userID, key, value); err != nil {
		t.Fatalf("failed to set user meta: %v", err)
	}
}

// RegisterTaxonomies registers each name as a taxonomy with the given visibility.
func RegisterTaxonomies(t *testing.T, db *database.SQLiteDatabase, public bool, names ...string) {
	t.Helper()
	for _, name := range names {
		tax := &seo.Taxonomy{Name: name, Label: name, Public: public}
		if err := db.RegisterTaxonomy(context.Background(), tax); err != nil {
			t.Fatalf("failed to register taxonomy: %v", err)
		}
	}
}

// SetOption stores an option value.
func SetOption(t *testing.T, db *database.SQLiteDatabase, name string, value any) {
	t.Helper()
	if err := db.SetOption(context.Background(), name, value); err != nil {
		t.Fatalf("failed to set option: %v", err)
	}
}
