package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"idx-go/internal/seo"
)

const indexableColumns = `id, object_type, object_id, object_sub_type, author_id,
	permalink, title, description, is_cornerstone,
	is_robots_noindex, is_robots_nofollow, is_robots_noarchive, is_robots_noimageindex, is_robots_nosnippet,
	is_public, has_public_posts,
	open_graph_image, open_graph_image_id, open_graph_image_source, open_graph_image_meta,
	twitter_image, twitter_image_id, twitter_image_source,
	object_published_at, object_last_modified, blog_id, version, created_at, updated_at`

func (s *SQLiteDatabase) FindIndexable(ctx context.Context, objectType seo.ObjectType, objectID int64) (*seo.Indexable, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+indexableColumns+" FROM indexables WHERE object_type = ? AND object_id = ?",
		objectType.String(), objectID)

	ix, err := scanIndexable(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("finding indexable: %w", err)
	}
	return ix, nil
}

func (s *SQLiteDatabase) SaveIndexable(ctx context.Context, ix *seo.Indexable) error {
	query := `
	INSERT INTO indexables (
		object_type, object_id, object_sub_type, author_id,
		permalink, title, description, is_cornerstone,
		is_robots_noindex, is_robots_nofollow, is_robots_noarchive, is_robots_noimageindex, is_robots_nosnippet,
		is_public, has_public_posts,
		open_graph_image, open_graph_image_id, open_graph_image_source, open_graph_image_meta,
		twitter_image, twitter_image_id, twitter_image_source,
		object_published_at, object_last_modified, blog_id, version, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(object_type, object_id) DO UPDATE SET
		object_sub_type = excluded.object_sub_type,
		author_id = excluded.author_id,
		permalink = excluded.permalink,
		title = excluded.title,
		description = excluded.description,
		is_cornerstone = excluded.is_cornerstone,
		is_robots_noindex = excluded.is_robots_noindex,
		is_robots_nofollow = excluded.is_robots_nofollow,
		is_robots_noarchive = excluded.is_robots_noarchive,
		is_robots_noimageindex = excluded.is_robots_noimageindex,
		is_robots_nosnippet = excluded.is_robots_nosnippet,
		is_public = excluded.is_public,
		has_public_posts = excluded.has_public_posts,
		open_graph_image = excluded.open_graph_image,
		open_graph_image_id = excluded.open_graph_image_id,
		open_graph_image_source = excluded.open_graph_image_source,
		open_graph_image_meta = excluded.open_graph_image_meta,
		twitter_image = excluded.twitter_image,
		twitter_image_id = excluded.twitter_image_id,
		twitter_image_source = excluded.twitter_image_source,
		object_published_at = excluded.object_published_at,
		object_last_modified = excluded.object_last_modified,
		blog_id = excluded.blog_id,
		version = excluded.version,
		updated_at = excluded.updated_at
	RETURNING id`

	err := s.db.QueryRowContext(ctx, query,
		ix.ObjectType.String(), ix.ObjectID, ix.ObjectSubType, ix.AuthorID,
		ix.Permalink, ix.Title, ix.Description, ix.IsCornerstone,
		ix.IsRobotsNoindex, ix.IsRobotsNofollow, ix.IsRobotsNoarchive, ix.IsRobotsNoimageindex, ix.IsRobotsNosnippet,
		ix.IsPublic, ix.HasPublicPosts,
		ix.OpenGraphImage, ix.OpenGraphImageID, ix.OpenGraphImageSource, ix.OpenGraphImageMeta,
		ix.TwitterImage, ix.TwitterImageID, ix.TwitterImageSource,
		utcNullTime(ix.ObjectPublishedAt), utcNullTime(ix.ObjectLastModified), ix.BlogID, ix.Version,
		ix.CreatedAt.UTC(), ix.UpdatedAt.UTC(),
	).Scan(&ix.ID)
	if err != nil {
		return fmt.Errorf("saving indexable: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) DeleteIndexable(ctx context.Context, objectType seo.ObjectType, objectID int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM indexables WHERE object_type = ? AND object_id = ?", objectType.String(), objectID)
	if err != nil {
		return fmt.Errorf("deleting indexable: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) AuthorPostVisibility(ctx context.Context, authorID int64) (int, int, error) {
	var public, undecided int
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN is_public = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN is_public IS NULL THEN 1 ELSE 0 END), 0)
		FROM indexables
		WHERE object_type = ? AND author_id = ?`,
		seo.ObjectTypePost.String(), authorID,
	).Scan(&public, &undecided)
	if err != nil {
		return 0, 0, fmt.Errorf("reading author post visibility: %w", err)
	}
	return public, undecided, nil
}

func (s *SQLiteDatabase) DeleteTermIndexablesOutside(ctx context.Context, taxonomies []string, limit int) (int, error) {
	query := `
		DELETE FROM indexables WHERE id IN (
			SELECT id FROM indexables
			WHERE object_type = ?`
	args := []any{seo.ObjectTypeTerm.String()}
	if len(taxonomies) > 0 {
		query += ` AND (object_sub_type IS NULL OR object_sub_type NOT IN (` + placeholders(len(taxonomies)) + `))`
		args = append(args, stringArgs(taxonomies)...)
	}
	query += ` LIMIT ?)`
	args = append(args, limit)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting term indexables: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading deleted row count: %w", err)
	}
	return int(n), nil
}

func (s *SQLiteDatabase) CountUnindexedTerms(ctx context.Context, taxonomies []string, limit int) (int, error) {
	if len(taxonomies) == 0 {
		return 0, nil
	}

	inner := `
		SELECT t.term_id FROM terms t
		LEFT JOIN indexables i ON i.object_type = ? AND i.object_id = t.term_id
		WHERE i.id IS NULL AND t.taxonomy IN (` + placeholders(len(taxonomies)) + `)`
	args := append([]any{seo.ObjectTypeTerm.String()}, stringArgs(taxonomies)...)
	if limit > 0 {
		inner += ` LIMIT ?`
		args = append(args, limit)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ("+inner+")", args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting unindexed terms: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIndexable(row rowScanner) (*seo.Indexable, error) {
	ix := &seo.Indexable{}
	var objectType string
	err := row.Scan(
		&ix.ID, &objectType, &ix.ObjectID, &ix.ObjectSubType, &ix.AuthorID,
		&ix.Permalink, &ix.Title, &ix.Description, &ix.IsCornerstone,
		&ix.IsRobotsNoindex, &ix.IsRobotsNofollow, &ix.IsRobotsNoarchive, &ix.IsRobotsNoimageindex, &ix.IsRobotsNosnippet,
		&ix.IsPublic, &ix.HasPublicPosts,
		&ix.OpenGraphImage, &ix.OpenGraphImageID, &ix.OpenGraphImageSource, &ix.OpenGraphImageMeta,
		&ix.TwitterImage, &ix.TwitterImageID, &ix.TwitterImageSource,
		&ix.ObjectPublishedAt, &ix.ObjectLastModified, &ix.BlogID, &ix.Version, &ix.CreatedAt, &ix.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	ix.ObjectType, err = seo.ParseObjectType(objectType)
	if err != nil {
		return nil, err
	}
	return ix, nil
}

func utcNullTime(t sql.NullTime) sql.NullTime {
	if t.Valid {
		t.Time = t.Time.UTC()
	}
	return t
}
