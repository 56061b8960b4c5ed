package seo

import (
	"context"
	"database/sql"
	"fmt"
)

// Image sources recorded on an indexable.
const (
	ImageSourceSetByUser = "set-by-user"
	ImageSourceGravatar  = "gravatar-image"
)

// AlternativeImage is a fallback social image found when the entity has none.
// Either URL or ID (an attachment) is set.
type AlternativeImage struct {
	URL    string
	ID     int64
	Source string
}

// AlternativeImageFinder supplies a fallback image for an indexable.
// It returns nil when it has nothing to offer.
type AlternativeImageFinder interface {
	FindAlternativeImage(ctx context.Context, ix *Indexable) (*AlternativeImage, error)
}

// ResetSocialImages clears every social image field.
func ResetSocialImages(ix *Indexable) {
	ix.OpenGraphImage = sql.NullString{}
	ix.OpenGraphImageID = sql.NullInt64{}
	ix.OpenGraphImageSource = sql.NullString{}
	ix.OpenGraphImageMeta = sql.NullString{}
	ix.TwitterImage = sql.NullString{}
	ix.TwitterImageID = sql.NullInt64{}
	ix.TwitterImageSource = sql.NullString{}
}

// SocialImageResolver fills the open graph and twitter images of an indexable.
type SocialImageResolver struct {
	finder AlternativeImageFinder
}

func NewSocialImageResolver(finder AlternativeImageFinder) *SocialImageResolver {
	return &SocialImageResolver{finder: finder}
}

// Resolve keeps images set by the user and otherwise falls back to the finder.
func (r *SocialImageResolver) Resolve(ctx context.Context, ix *Indexable) error {
	if ix.OpenGraphImage.Valid || ix.OpenGraphImageID.Valid {
		ix.OpenGraphImageSource = nullString(ImageSourceSetByUser)
		return nil
	}

	if ix.TwitterImage.Valid || ix.TwitterImageID.Valid {
		ix.TwitterImageSource = nullString(ImageSourceSetByUser)
	}

	if r.finder == nil {
		return nil
	}
	alt, err := r.finder.FindAlternativeImage(ctx, ix)
	if err != nil {
		return fmt.Errorf("finding alternative image: %w", err)
	}
	if alt == nil {
		return nil
	}

	ix.OpenGraphImageSource = nullString(alt.Source)
	if !ix.TwitterImageSource.Valid {
		ix.TwitterImageSource = nullString(alt.Source)
	}
	if alt.URL != "" {
		ix.OpenGraphImage = nullString(alt.URL)
		if !ix.TwitterImage.Valid {
			ix.TwitterImage = nullString(alt.URL)
		}
	}
	if alt.ID != 0 {
		ix.OpenGraphImageID = sql.NullInt64{Int64: alt.ID, Valid: true}
		if !ix.TwitterImageID.Valid {
			ix.TwitterImageID = sql.NullInt64{Int64: alt.ID, Valid: true}
		}
	}
	return nil
}
