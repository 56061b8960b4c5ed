package seo

import (
	"context"
	"fmt"
)

// DefaultCleanupBatchSize is the number of rows deleted per cleanup query.
const DefaultCleanupBatchSize = 1000

// Cleanup removes term indexables of taxonomies that are no longer public.
// It is the handler of CleanupHook.
type Cleanup struct {
	taxonomies TaxonomyLister
	indexables IndexableRepository
	batchSize  int
	logger     Logger
}

func NewCleanup(db Database, batchSize int, logger Logger) *Cleanup {
	if batchSize <= 0 {
		batchSize = DefaultCleanupBatchSize
	}
	return &Cleanup{
		taxonomies: db,
		indexables: db,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// Run deletes in batches until a batch comes back short. Returns the total deleted.
func (c *Cleanup) Run(ctx context.Context) (int, error) {
	public, err := c.taxonomies.PublicTaxonomies(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing public taxonomies: %w", err)
	}

	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := c.indexables.DeleteTermIndexablesOutside(ctx, public, c.batchSize)
		if err != nil {
			return total, fmt.Errorf("deleting term indexables: %w", err)
		}
		total += n
		if n < c.batchSize {
			break
		}
	}

	c.logger.Info("cleaned up term indexables", "deleted", total)
	return total, nil
}
