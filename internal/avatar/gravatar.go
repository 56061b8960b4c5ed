// Package avatar builds gravatar URLs used as fallback social images for authors.
package avatar

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"idx-go/internal/config"
	"idx-go/internal/seo"
)

// Gravatar implements seo.AlternativeImageFinder for user indexables.
type Gravatar struct {
	users seo.UserDirectory
	cfg   config.AvatarConfig
}

func NewGravatar(users seo.UserDirectory, cfg config.AvatarConfig) *Gravatar {
	return &Gravatar{users: users, cfg: cfg}
}

// FindAlternativeImage returns the user's gravatar. Indexables of other object
// types, unknown users and users without an email get nil.
func (g *Gravatar) FindAlternativeImage(ctx context.Context, ix *seo.Indexable) (*seo.AlternativeImage, error) {
	if ix.ObjectType != seo.ObjectTypeUser {
		return nil, nil
	}

	u, err := g.users.FindUser(ctx, ix.ObjectID)
	if err != nil {
		return nil, fmt.Errorf("looking up user %d: %w", ix.ObjectID, err)
	}
	if u == nil || strings.TrimSpace(u.Email) == "" {
		return nil, nil
	}

	return &seo.AlternativeImage{
		URL:    g.URL(u.Email),
		Source: seo.ImageSourceGravatar,
	}, nil
}

// URL returns the gravatar URL for email.
func (g *Gravatar) URL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))

	q := url.Values{}
	if g.cfg.Size > 0 {
		q.Set("s", strconv.Itoa(g.cfg.Size))
	}
	if g.cfg.DefaultImage != "" {
		q.Set("d", g.cfg.DefaultImage)
	}
	if g.cfg.Rating != "" {
		q.Set("r", g.cfg.Rating)
	}

	u := strings.TrimSuffix(g.cfg.BaseURL, "/") + "/" + hex.EncodeToString(sum[:])
	if encoded := q.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

var _ seo.AlternativeImageFinder = (*Gravatar)(nil)
