package seo

import (
	"context"
	"time"
)

// OptionStore is the host's key/value option table. Values are JSON encoded.
type OptionStore interface {
	// GetOption decodes the named option into dst.
	// Returns false (and leaves dst untouched) if the option does not exist.
	GetOption(ctx context.Context, name string, dst any) (bool, error)

	// SetOption stores value under name, replacing any previous value.
	SetOption(ctx context.Context, name string, value any) error
}

// TaxonomyLister enumerates the taxonomies registered with the host.
type TaxonomyLister interface {
	// ListTaxonomies returns every registered taxonomy ordered by name.
	ListTaxonomies(ctx context.Context) ([]*Taxonomy, error)

	// PublicTaxonomies returns the names of all currently public taxonomies.
	PublicTaxonomies(ctx context.Context) ([]string, error)
}

// UserMetaStore reads per-user attributes.
type UserMetaStore interface {
	// GetUserMeta returns the value stored for key, and whether a row exists.
	GetUserMeta(ctx context.Context, userID int64, key string) (string, bool, error)
}

// UserDirectory looks up user records.
type UserDirectory interface {
	// FindUser returns nil if the user does not exist.
	FindUser(ctx context.Context, userID int64) (*User, error)
}

// PostRepository runs aggregate queries over the host's posts table.
type PostRepository interface {
	// AuthorTimestamps returns MIN(post_date_gmt) and MAX(post_modified_gmt) over the
	// author's posts whose status is in statuses and whose password is empty.
	AuthorTimestamps(ctx context.Context, authorID int64, statuses []string) (Timestamps, error)

	// CountAuthorPosts counts the author's password-less posts with a status in
	// statuses and a type in postTypes.
	CountAuthorPosts(ctx context.Context, authorID int64, statuses, postTypes []string) (int, error)
}

// IndexableRepository persists built records and answers questions about them.
type IndexableRepository interface {
	// FindIndexable returns nil if no record exists for the entity.
	FindIndexable(ctx context.Context, objectType ObjectType, objectID int64) (*Indexable, error)

	// SaveIndexable inserts or updates the record keyed by (ObjectType, ObjectID).
	SaveIndexable(ctx context.Context, ix *Indexable) error

	// DeleteIndexable removes the record for the entity; missing records are not an error.
	DeleteIndexable(ctx context.Context, objectType ObjectType, objectID int64) error

	// AuthorPostVisibility reports how many of the author's post indexables are
	// public and how many have an undecided (null) visibility.
	AuthorPostVisibility(ctx context.Context, authorID int64) (public int, undecided int, err error)

	// DeleteTermIndexablesOutside deletes at most limit term indexables whose
	// taxonomy is not in taxonomies. Returns the number of rows deleted.
	DeleteTermIndexablesOutside(ctx context.Context, taxonomies []string, limit int) (int, error)

	// CountUnindexedTerms counts terms of the given taxonomies that have no
	// indexable. A positive limit caps the count.
	CountUnindexedTerms(ctx context.Context, taxonomies []string, limit int) (int, error)
}

// NotificationCenter is the admin notification registry.
type NotificationCenter interface {
	// NotificationByID returns nil if no notification has that ID.
	NotificationByID(ctx context.Context, id string) (*Notification, error)

	// AddNotification stores n. Adding an ID that already exists is a no-op.
	AddNotification(ctx context.Context, n *Notification) error

	// RemoveNotification deletes the notification; missing IDs are not an error.
	RemoveNotification(ctx context.Context, id string) error

	// ListNotifications returns all notifications, highest priority first.
	ListNotifications(ctx context.Context) ([]*Notification, error)
}

// Scheduler stores one-off deferred jobs keyed by hook name.
type Scheduler interface {
	// IsScheduled reports whether an event for hook is pending.
	IsScheduled(ctx context.Context, hook string) (bool, error)

	// ScheduleOnce queues hook to run at runAt. Returns false if an event for
	// hook was already pending, in which case nothing changes.
	ScheduleOnce(ctx context.Context, hook string, runAt time.Time) (bool, error)

	// DueEvents returns the events whose run time is at or before now, oldest first.
	DueEvents(ctx context.Context, now time.Time) ([]*ScheduledEvent, error)

	// Unschedule removes a pending event.
	Unschedule(ctx context.Context, id string) error

	// ListEvents returns all pending events, oldest first.
	ListEvents(ctx context.Context) ([]*ScheduledEvent, error)
}

// TransientStore is a cache of short-lived values.
type TransientStore interface {
	// GetTransient returns the value and whether it was present and unexpired.
	GetTransient(ctx context.Context, key string) (string, bool, error)

	// SetTransient stores value for ttl. A zero ttl means no expiry.
	SetTransient(ctx context.Context, key, value string, ttl time.Duration) error

	// DeleteTransient removes key; missing keys are not an error.
	DeleteTransient(ctx context.Context, key string) error
}

// URLBuilder produces public URLs for entities.
type URLBuilder interface {
	AuthorURL(ctx context.Context, userID int64) (string, error)
}

// Database is everything the host database provides.
// SQLite is the only implementation; tests use it in memory.
type Database interface {
	OptionStore
	TaxonomyLister
	UserMetaStore
	UserDirectory
	PostRepository
	IndexableRepository
	NotificationCenter
	Scheduler
	Close() error
}
