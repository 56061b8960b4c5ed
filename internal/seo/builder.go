package seo

import (
	"context"
	"database/sql"
	"fmt"
)

// User meta keys read by the author builder.
const (
	MetaTitle         = "wpseo_title"
	MetaDescription   = "wpseo_metadesc"
	MetaNoindexAuthor = "wpseo_noindex_author"
)

// EligibilityFilter may override the builder's verdict on whether an entity
// gets an indexable. verdict is nil when the builder found no reason to skip;
// returning nil allows the build, returning an error aborts it.
type EligibilityFilter func(ctx context.Context, verdict *NotEligibleError, userID int64) *NotEligibleError

// AuthorBuilderOptions configures an AuthorBuilder.
type AuthorBuilderOptions struct {
	// PublicPostStatuses limits the posts used for the record's timestamps.
	PublicPostStatuses []string
	BlogID             int64
	// Filter is consulted after the built-in eligibility checks. May be nil.
	Filter EligibilityFilter
}

// AuthorBuilder assembles the indexable of an author archive.
type AuthorBuilder struct {
	meta     UserMetaStore
	posts    PostRepository
	archive  *AuthorArchive
	urls     URLBuilder
	images   *SocialImageResolver
	statuses []string
	blogID   int64
	filter   EligibilityFilter
}

func NewAuthorBuilder(db Database, archive *AuthorArchive, urls URLBuilder, images *SocialImageResolver, opts AuthorBuilderOptions) *AuthorBuilder {
	return &AuthorBuilder{
		meta:     db,
		posts:    db,
		archive:  archive,
		urls:     urls,
		images:   images,
		statuses: opts.PublicPostStatuses,
		blogID:   opts.BlogID,
		filter:   opts.Filter,
	}
}

// Build populates ix for userID and returns it. It does not persist anything.
// A *NotEligibleError means no record should exist for the user.
func (b *AuthorBuilder) Build(ctx context.Context, userID int64, ix *Indexable) (*Indexable, error) {
	if err := b.checkEligible(ctx, userID); err != nil {
		return nil, err
	}

	meta, err := b.metaData(ctx, userID)
	if err != nil {
		return nil, err
	}

	permalink, err := b.urls.AuthorURL(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("building author url: %w", err)
	}

	ix.ObjectID = userID
	ix.ObjectType = ObjectTypeUser
	ix.Permalink = nullString(permalink)
	ix.Title = meta[MetaTitle]
	ix.Description = meta[MetaDescription]
	ix.IsCornerstone = false
	ix.IsRobotsNoindex = nullBool(meta[MetaNoindexAuthor].Valid && meta[MetaNoindexAuthor].String == "on")
	ix.IsRobotsNofollow = sql.NullBool{}
	ix.IsRobotsNoarchive = sql.NullBool{}
	ix.IsRobotsNoimageindex = sql.NullBool{}
	ix.IsRobotsNosnippet = sql.NullBool{}
	ix.IsPublic = publicFromNoindex(ix.IsRobotsNoindex.Bool)

	ix.HasPublicPosts, err = b.archive.HasPublicPosts(ctx, userID)
	if err != nil {
		return nil, err
	}
	ix.BlogID = b.blogID

	ResetSocialImages(ix)
	if err := b.images.Resolve(ctx, ix); err != nil {
		return nil, err
	}

	ts, err := b.posts.AuthorTimestamps(ctx, userID, b.statuses)
	if err != nil {
		return nil, fmt.Errorf("reading author timestamps: %w", err)
	}
	ix.ObjectPublishedAt = ts.PublishedAt
	ix.ObjectLastModified = ts.LastModified

	ix.Version = BuilderVersion(ObjectTypeUser)
	return ix, nil
}

// checkEligible runs both checks unconditionally; when both fail, the second
// verdict is the one reported.
func (b *AuthorBuilder) checkEligible(ctx context.Context, userID int64) error {
	var verdict *NotEligibleError

	disabled, err := b.archive.AreDisabled(ctx)
	if err != nil {
		return err
	}
	if disabled {
		verdict = &NotEligibleError{ObjectType: ObjectTypeUser, ObjectID: userID, Reason: ReasonAuthorArchivesDisabled}
	}

	hasPosts, err := b.archive.HasPublicPostsInHost(ctx, userID)
	if err != nil {
		return err
	}
	if !hasPosts {
		verdict = &NotEligibleError{ObjectType: ObjectTypeUser, ObjectID: userID, Reason: ReasonAuthorHasNoPublicPosts}
	}

	if b.filter != nil {
		verdict = b.filter(ctx, verdict, userID)
	}
	if verdict != nil {
		return verdict
	}
	return nil
}

func (b *AuthorBuilder) metaData(ctx context.Context, userID int64) (map[string]sql.NullString, error) {
	keys := []string{MetaTitle, MetaDescription, MetaNoindexAuthor}
	out := make(map[string]sql.NullString, len(keys))
	for _, key := range keys {
		value, _, err := b.meta.GetUserMeta(ctx, userID, key)
		if err != nil {
			return nil, fmt.Errorf("reading user meta %s: %w", key, err)
		}
		out[key] = nullString(value)
	}
	return out, nil
}

// publicFromNoindex is false for noindexed entities and undecided otherwise.
func publicFromNoindex(noindex bool) sql.NullBool {
	if noindex {
		return nullBool(false)
	}
	return sql.NullBool{}
}
