package seo

import (
	"context"
	"database/sql"
	"fmt"
)

// AuthorArchive answers questions about author archive pages.
type AuthorArchive struct {
	options    OptionStore
	posts      PostRepository
	indexables IndexableRepository
	statuses   []string
	postTypes  []string
}

// NewAuthorArchive creates an AuthorArchive. statuses and postTypes are the
// post statuses and post types the site treats as public.
func NewAuthorArchive(db Database, statuses, postTypes []string) *AuthorArchive {
	return &AuthorArchive{
		options:    db,
		posts:      db,
		indexables: db,
		statuses:   statuses,
		postTypes:  postTypes,
	}
}

// AreDisabled reports whether author archives are switched off site-wide.
func (a *AuthorArchive) AreDisabled(ctx context.Context) (bool, error) {
	var disabled bool
	if _, err := a.options.GetOption(ctx, OptionDisableAuthorArchives, &disabled); err != nil {
		return false, fmt.Errorf("reading %s option: %w", OptionDisableAuthorArchives, err)
	}
	return disabled, nil
}

// HasPublicPostsInHost counts the author's public posts straight from the
// posts table, so the answer is correct even before any post was indexed.
func (a *AuthorArchive) HasPublicPostsInHost(ctx context.Context, userID int64) (bool, error) {
	n, err := a.posts.CountAuthorPosts(ctx, userID, a.statuses, a.postTypes)
	if err != nil {
		return false, fmt.Errorf("counting author posts: %w", err)
	}
	return n > 0, nil
}

// HasPublicPosts answers from the post indexables: true if any of them is
// public, null if any is undecided (it then depends on site-wide defaults),
// false otherwise.
func (a *AuthorArchive) HasPublicPosts(ctx context.Context, userID int64) (sql.NullBool, error) {
	public, undecided, err := a.indexables.AuthorPostVisibility(ctx, userID)
	if err != nil {
		return sql.NullBool{}, fmt.Errorf("reading author post visibility: %w", err)
	}
	if public > 0 {
		return nullBool(true), nil
	}
	if undecided > 0 {
		return sql.NullBool{}, nil
	}
	return nullBool(false), nil
}
