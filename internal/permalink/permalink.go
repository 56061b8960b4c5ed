// Package permalink builds the public URLs of host entities.
package permalink

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"idx-go/internal/seo"
)

// Builder implements seo.URLBuilder with the host's default pretty permalinks.
type Builder struct {
	siteURL string
	users   seo.UserDirectory
}

// NewBuilder validates siteURL and returns a Builder rooted at it.
func NewBuilder(siteURL string, users seo.UserDirectory) (*Builder, error) {
	u, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid site_url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid site_url %q: scheme and host required", siteURL)
	}
	return &Builder{siteURL: strings.TrimSuffix(u.String(), "/"), users: users}, nil
}

// AuthorURL returns <site_url>/author/<nicename>/.
// An unknown user yields an empty URL, which the builder stores as null.
func (b *Builder) AuthorURL(ctx context.Context, userID int64) (string, error) {
	u, err := b.users.FindUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("looking up user %d: %w", userID, err)
	}
	if u == nil || u.Nicename == "" {
		return "", nil
	}
	return b.siteURL + "/author/" + url.PathEscape(u.Nicename) + "/", nil
}

var _ seo.URLBuilder = (*Builder)(nil)
