package migrations

import (
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestMigrateUp_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	tables := []string{
		"options", "taxonomies", "users", "usermeta", "posts", "terms",
		"indexables", "notifications", "scheduled_events", "schema_migrations",
	}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s was not created: %v", table, err)
		}
	}
}

func TestCheckStatus_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	err := CheckStatus(db)
	if !errors.Is(err, ErrNoSchema) {
		t.Errorf("CheckStatus() error = %v, want ErrNoSchema", err)
	}
}

func TestCheckStatus_AfterMigration(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	if err := CheckStatus(db); err != nil {
		t.Errorf("CheckStatus() after migration error = %v", err)
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first MigrateUp() error = %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Errorf("second MigrateUp() error = %v", err)
	}
	if err := CheckStatus(db); err != nil {
		t.Errorf("CheckStatus() after double migration error = %v", err)
	}
}

func TestLatestVersion(t *testing.T) {
	v, err := LatestVersion()
	if err != nil {
		t.Fatalf("LatestVersion() error = %v", err)
	}
	if v != 3 {
		t.Errorf("LatestVersion() = %d, want 3", v)
	}
}

func TestSchema_IndexableUniquePerObject(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	insert := `INSERT INTO indexables (object_type, object_id, created_at, updated_at)
		VALUES ('user', 7, datetime('now'), datetime('now'))`
	if _, err := db.Exec(insert); err != nil {
		t.Fatalf("first insert error = %v", err)
	}
	if _, err := db.Exec(insert); err == nil {
		t.Error("expected unique constraint violation for duplicate (object_type, object_id)")
	}
}

func TestSchema_ScheduledEventHookUnique(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	if _, err := db.Exec("INSERT INTO scheduled_events (id, hook, run_at) VALUES ('e1', 'h', datetime('now'))"); err != nil {
		t.Fatalf("first insert error = %v", err)
	}
	if _, err := db.Exec("INSERT INTO scheduled_events (id, hook, run_at) VALUES ('e2', 'h', datetime('now'))"); err == nil {
		t.Error("expected unique constraint violation for duplicate hook")
	}
}

func TestForeignKeyConstraints(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	_, err := db.Exec("INSERT INTO usermeta (user_id, meta_key, meta_value) VALUES (999, 'k', 'v')")
	if err == nil {
		t.Error("expected foreign key violation for meta of a missing user")
	}
}

// openTestDB opens an in-memory SQLite database pinned to one connection.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}
