package seo

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Lifetimes of the cached unindexed counts.
const (
	UnindexedCountTTL        = 24 * time.Hour
	UnindexedLimitedCountTTL = 15 * time.Minute
)

// IndexingStatus reports how much SEO data still needs building, caching the
// counts in transients. TaxonomyVisibilityWatcher invalidates them.
type IndexingStatus struct {
	taxonomies TaxonomyLister
	indexables IndexableRepository
	transients TransientStore
	logger     Logger
}

func NewIndexingStatus(db Database, transients TransientStore, logger Logger) *IndexingStatus {
	return &IndexingStatus{
		taxonomies: db,
		indexables: db,
		transients: transients,
		logger:     logger,
	}
}

// UnindexedTermCount returns the number of public terms without an indexable.
func (s *IndexingStatus) UnindexedTermCount(ctx context.Context) (int, error) {
	return s.cachedCount(ctx, TransientUnindexedTermCount, 0, UnindexedCountTTL)
}

// UnindexedTermCountLimited is UnindexedTermCount but stops counting past limit,
// which is enough to decide whether to prompt for a full optimization.
func (s *IndexingStatus) UnindexedTermCountLimited(ctx context.Context, limit int) (int, error) {
	return s.cachedCount(ctx, TransientUnindexedTermCountLimited, limit+1, UnindexedLimitedCountTTL)
}

func (s *IndexingStatus) cachedCount(ctx context.Context, key string, limit int, ttl time.Duration) (int, error) {
	cached, ok, err := s.transients.GetTransient(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("reading transient %s: %w", key, err)
	}
	if ok {
		if n, err := strconv.Atoi(cached); err == nil {
			return n, nil
		}
		s.logger.Warn("ignoring malformed transient", "key", key, "value", cached)
	}

	public, err := s.taxonomies.PublicTaxonomies(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing public taxonomies: %w", err)
	}
	n, err := s.indexables.CountUnindexedTerms(ctx, public, limit)
	if err != nil {
		return 0, fmt.Errorf("counting unindexed terms: %w", err)
	}

	if err := s.transients.SetTransient(ctx, key, strconv.Itoa(n), ttl); err != nil {
		return 0, fmt.Errorf("writing transient %s: %w", key, err)
	}
	return n, nil
}
