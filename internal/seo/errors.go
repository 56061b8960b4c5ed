package seo

import (
	"errors"
	"fmt"
)

// Reasons an indexable may not be built.
const (
	ReasonAuthorArchivesDisabled = "author_archives_disabled"
	ReasonAuthorHasNoPublicPosts = "author_has_no_public_posts"
)

// NotEligibleError reports that a builder declined to produce a record.
// Callers must not persist anything for the entity when they receive it.
type NotEligibleError struct {
	ObjectType ObjectType
	ObjectID   int64
	Reason     string
}

func (e *NotEligibleError) Error() string {
	switch e.Reason {
	case ReasonAuthorArchivesDisabled:
		return fmt.Sprintf("indexable for %s %d not built: author archives are disabled", e.ObjectType, e.ObjectID)
	case ReasonAuthorHasNoPublicPosts:
		return fmt.Sprintf("indexable for %s %d not built: author archives are not indexed for users without public posts", e.ObjectType, e.ObjectID)
	default:
		return fmt.Sprintf("indexable for %s %d not built: %s", e.ObjectType, e.ObjectID, e.Reason)
	}
}

// IsNotEligible reports whether err carries a NotEligibleError.
func IsNotEligible(err error) bool {
	var ne *NotEligibleError
	return errors.As(err, &ne)
}
