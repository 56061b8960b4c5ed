package seo

import (
	"database/sql"
	"time"
)

// Indexable is a denormalized summary of the SEO metadata of one content entity.
// Nullable columns use the database/sql null wrappers so a record can be written
// back without translating "unknown" into a zero value.
type Indexable struct {
	ID            int64
	ObjectType    ObjectType
	ObjectID      int64
	ObjectSubType sql.NullString
	AuthorID      sql.NullInt64

	Permalink     sql.NullString
	Title         sql.NullString
	Description   sql.NullString
	IsCornerstone bool

	IsRobotsNoindex      sql.NullBool
	IsRobotsNofollow     sql.NullBool
	IsRobotsNoarchive    sql.NullBool
	IsRobotsNoimageindex sql.NullBool
	IsRobotsNosnippet    sql.NullBool

	IsPublic       sql.NullBool
	HasPublicPosts sql.NullBool

	OpenGraphImage       sql.NullString
	OpenGraphImageID     sql.NullInt64
	OpenGraphImageSource sql.NullString
	OpenGraphImageMeta   sql.NullString
	TwitterImage         sql.NullString
	TwitterImageID       sql.NullInt64
	TwitterImageSource   sql.NullString

	ObjectPublishedAt  sql.NullTime
	ObjectLastModified sql.NullTime

	BlogID    int64
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewIndexable returns an empty record for the given entity.
func NewIndexable(objectType ObjectType, objectID int64) *Indexable {
	return &Indexable{ObjectType: objectType, ObjectID: objectID}
}

// Timestamps holds the earliest publication and latest modification time of
// the posts backing an indexable. Both are null when no post qualified.
type Timestamps struct {
	PublishedAt  sql.NullTime
	LastModified sql.NullTime
}

// Taxonomy is a classification registered with the host.
type Taxonomy struct {
	Name   string
	Label  string
	Public bool
}

// User is the subset of a CMS user record the builders need.
type User struct {
	ID          int64
	Login       string
	Email       string
	Nicename    string
	DisplayName string
}

// Notification is an admin notice stored in the notification registry.
// ID is the identity: two notifications with the same ID are the same notice.
type Notification struct {
	ID         string
	Message    string
	Type       string
	Priority   float64
	Capability string
	CreatedAt  time.Time
}

// ScheduledEvent is a one-off deferred job.
type ScheduledEvent struct {
	ID    string
	Hook  string
	RunAt time.Time
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullBool(b bool) sql.NullBool {
	return sql.NullBool{Bool: b, Valid: true}
}
