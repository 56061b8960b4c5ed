package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"idx-go/internal/database/migrations"
	"idx-go/internal/seo"
)

// SQLiteDatabase implements seo.Database on top of the host's SQLite file.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase opens the database at path.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteDatabase{db: db, path: path}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{db: db}
}

// OpenConnection opens a SQLite connection with foreign keys enforced.
// Exported for tools and tests that need a properly configured connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Options

func (s *SQLiteDatabase) GetOption(ctx context.Context, name string, dst any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM options WHERE name = ?", name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading option %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decoding option %s: %w", name, err)
	}
	return true, nil
}

func (s *SQLiteDatabase) SetOption(ctx context.Context, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding option %s: %w", name, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO options (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value`, name, string(raw))
	if err != nil {
		return fmt.Errorf("writing option %s: %w", name, err)
	}
	return nil
}

// Taxonomies

func (s *SQLiteDatabase) ListTaxonomies(ctx context.Context) ([]*seo.Taxonomy, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, label, public FROM taxonomies ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing taxonomies: %w", err)
	}
	defer rows.Close()

	var out []*seo.Taxonomy
	for rows.Next() {
		tax := &seo.Taxonomy{}
		if err := rows.Scan(&tax.Name, &tax.Label, &tax.Public); err != nil {
			return nil, fmt.Errorf("scanning taxonomy: %w", err)
		}
		out = append(out, tax)
	}
	return out, rows.Err()
}

func (s *SQLiteDatabase) PublicTaxonomies(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM taxonomies WHERE public = 1 ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing public taxonomies: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning taxonomy: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// RegisterTaxonomy inserts or updates a taxonomy.
func (s *SQLiteDatabase) RegisterTaxonomy(ctx context.Context, tax *seo.Taxonomy) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO taxonomies (name, label, public) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET label = excluded.label, public = excluded.public`,
		tax.Name, tax.Label, tax.Public)
	if err != nil {
		return fmt.Errorf("registering taxonomy %s: %w", tax.Name, err)
	}
	return nil
}

// InsertTerm adds a term to a taxonomy and returns its ID.
func (s *SQLiteDatabase) InsertTerm(ctx context.Context, taxonomy, name, slug string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO terms (taxonomy, name, slug) VALUES (?, ?, ?)", taxonomy, name, slug)
	if err != nil {
		return 0, fmt.Errorf("inserting term: %w", err)
	}
	return res.LastInsertId()
}

// Users

func (s *SQLiteDatabase) FindUser(ctx context.Context, userID int64) (*seo.User, error) {
	u := &seo.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, login, email, nicename, display_name FROM users WHERE id = ?", userID,
	).Scan(&u.ID, &u.Login, &u.Email, &u.Nicename, &u.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return u, nil
}

// InsertUser creates a user and sets u.ID.
func (s *SQLiteDatabase) InsertUser(ctx context.Context, u *seo.User) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (login, email, nicename, display_name) VALUES (?, ?, ?, ?)",
		u.Login, u.Email, u.Nicename, u.DisplayName)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user id: %w", err)
	}
	u.ID = id
	return nil
}

func (s *SQLiteDatabase) GetUserMeta(ctx context.Context, userID int64, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT meta_value FROM usermeta WHERE user_id = ? AND meta_key = ? ORDER BY umeta_id LIMIT 1",
		userID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading user meta: %w", err)
	}
	return value, true, nil
}

// SetUserMeta replaces every value stored for key with value.
func (s *SQLiteDatabase) SetUserMeta(ctx context.Context, userID int64, key, value string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM usermeta WHERE user_id = ? AND meta_key = ?", userID, key); err != nil {
		return fmt.Errorf("clearing user meta: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO usermeta (user_id, meta_key, meta_value) VALUES (?, ?, ?)", userID, key, value,
	); err != nil {
		return fmt.Errorf("writing user meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Posts

// Post is a row of the host's posts table.
type Post struct {
	ID          int64
	AuthorID    int64
	Type        string
	Status      string
	Password    string
	Title       string
	DateGMT     time.Time
	ModifiedGMT time.Time
}

// InsertPost creates a post and sets p.ID.
func (s *SQLiteDatabase) InsertPost(ctx context.Context, p *Post) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (post_author, post_type, post_status, post_password, post_title, post_date_gmt, post_modified_gmt)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.AuthorID, p.Type, p.Status, p.Password, p.Title, p.DateGMT.UTC(), p.ModifiedGMT.UTC())
	if err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading post id: %w", err)
	}
	p.ID = id
	return nil
}

func (s *SQLiteDatabase) AuthorTimestamps(ctx context.Context, authorID int64, statuses []string) (seo.Timestamps, error) {
	var ts seo.Timestamps
	if len(statuses) == 0 {
		return ts, nil
	}

	query := `
		SELECT MIN(post_date_gmt), MAX(post_modified_gmt)
		FROM posts
		WHERE post_author = ?
		  AND post_status IN (` + placeholders(len(statuses)) + `)
		  AND post_password = ''`
	args := append([]any{authorID}, stringArgs(statuses)...)

	var published, modified sql.NullString
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&published, &modified); err != nil {
		return ts, fmt.Errorf("querying author timestamps: %w", err)
	}

	var err error
	if ts.PublishedAt, err = parseNullTime(published); err != nil {
		return ts, err
	}
	if ts.LastModified, err = parseNullTime(modified); err != nil {
		return ts, err
	}
	return ts, nil
}

func (s *SQLiteDatabase) CountAuthorPosts(ctx context.Context, authorID int64, statuses, postTypes []string) (int, error) {
	if len(statuses) == 0 || len(postTypes) == 0 {
		return 0, nil
	}

	query := `
		SELECT COUNT(*)
		FROM posts
		WHERE post_author = ?
		  AND post_status IN (` + placeholders(len(statuses)) + `)
		  AND post_type IN (` + placeholders(len(postTypes)) + `)
		  AND post_password = ''`
	args := append([]any{authorID}, stringArgs(statuses)...)
	args = append(args, stringArgs(postTypes)...)

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting author posts: %w", err)
	}
	return n, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckStatus(s.db)
}

// Migrate applies pending schema migrations.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

// parseNullTime parses timestamps returned by aggregate expressions, which
// the driver hands back as text because they carry no declared column type.
func parseNullTime(s sql.NullString) (sql.NullTime, error) {
	if !s.Valid {
		return sql.NullTime{}, nil
	}
	value := strings.TrimSuffix(s.String, "Z")
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return sql.NullTime{Time: t.UTC(), Valid: true}, nil
		}
	}
	return sql.NullTime{}, fmt.Errorf("parsing timestamp %q", s.String)
}

// Compile-time check that SQLiteDatabase implements seo.Database
var _ seo.Database = (*SQLiteDatabase)(nil)
