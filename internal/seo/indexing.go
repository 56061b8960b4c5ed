package seo

import (
	"context"
	"fmt"
)

// Option names and transient keys shared by the indexing components.
const (
	OptionIndexingReason            = "indexing_reason"
	OptionLastKnownPublicTaxonomies = "last_known_public_taxonomies"
	OptionDisableAuthorArchives     = "disable-author"

	TransientUnindexedTermCount        = "wpseo_total_unindexed_terms"
	TransientUnindexedTermCountLimited = "wpseo_total_unindexed_terms_limited"

	ReindexNotificationID = "wpseo-reindex"
)

// Reasons recorded in the indexing_reason option.
const (
	IndexingReasonTaxonomyMadePublic = "taxonomy_made_public"
)

// IndexingHelper records why the site needs its SEO data re-indexed.
type IndexingHelper struct {
	options       OptionStore
	notifications NotificationCenter
}

func NewIndexingHelper(options OptionStore, notifications NotificationCenter) *IndexingHelper {
	return &IndexingHelper{options: options, notifications: notifications}
}

// SetReason stores reason and drops the generic re-index notice, which is
// superseded by whichever notice accompanies the reason.
func (h *IndexingHelper) SetReason(ctx context.Context, reason string) error {
	if err := h.options.SetOption(ctx, OptionIndexingReason, reason); err != nil {
		return fmt.Errorf("setting indexing reason: %w", err)
	}
	if err := h.notifications.RemoveNotification(ctx, ReindexNotificationID); err != nil {
		return fmt.Errorf("removing re-index notification: %w", err)
	}
	return nil
}

// Reason returns the recorded indexing reason, or "" if none is set.
func (h *IndexingHelper) Reason(ctx context.Context) (string, error) {
	var reason string
	if _, err := h.options.GetOption(ctx, OptionIndexingReason, &reason); err != nil {
		return "", fmt.Errorf("reading indexing reason: %w", err)
	}
	return reason, nil
}
