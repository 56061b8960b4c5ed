package seo

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	// TaxonomiesMadePublicNotificationID identifies the notice raised when
	// taxonomies become public.
	TaxonomiesMadePublicNotificationID = "taxonomies-made-public"

	// CleanupHook is the scheduled job that removes indexables of taxonomies
	// that stopped being public.
	CleanupHook = "wpseo_start_cleanup_indexables"

	// CleanupDelay is how far in the future the cleanup job is scheduled.
	CleanupDelay = 5 * time.Minute
)

// VisibilityChange describes the outcome of one check.
type VisibilityChange struct {
	// Baseline is true when no previous snapshot existed and one was recorded.
	Baseline bool
	Added    []string
	Removed  []string
}

// Changed reports whether any taxonomy changed visibility.
func (c *VisibilityChange) Changed() bool {
	return len(c.Added) > 0 || len(c.Removed) > 0
}

// TaxonomyVisibilityWatcher notices taxonomies moving between public and
// private and schedules the follow-up work.
type TaxonomyVisibilityWatcher struct {
	taxonomies    TaxonomyLister
	options       OptionStore
	transients    TransientStore
	notifications NotificationCenter
	scheduler     Scheduler
	indexing      *IndexingHelper
	logger        Logger
	clock         Clock
}

func NewTaxonomyVisibilityWatcher(db Database, transients TransientStore, logger Logger, clock Clock) *TaxonomyVisibilityWatcher {
	return &TaxonomyVisibilityWatcher{
		taxonomies:    db,
		options:       db,
		transients:    transients,
		notifications: db,
		scheduler:     db,
		indexing:      NewIndexingHelper(db, db),
		logger:        logger,
		clock:         clock,
	}
}

// Check compares the public taxonomies against the last recorded snapshot.
// Only navigational requests are considered; for any other request Check
// returns (nil, nil) without touching anything.
func (w *TaxonomyVisibilityWatcher) Check(ctx context.Context, req Request) (*VisibilityChange, error) {
	if !req.Navigational() {
		w.logger.Debug("skipping taxonomy visibility check", "request", req.Kind.String())
		return nil, nil
	}

	current, err := w.taxonomies.PublicTaxonomies(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing public taxonomies: %w", err)
	}

	var previous []string
	if _, err := w.options.GetOption(ctx, OptionLastKnownPublicTaxonomies, &previous); err != nil {
		return nil, fmt.Errorf("reading last known public taxonomies: %w", err)
	}

	if len(previous) == 0 {
		if err := w.options.SetOption(ctx, OptionLastKnownPublicTaxonomies, current); err != nil {
			return nil, fmt.Errorf("storing public taxonomies: %w", err)
		}
		w.logger.Info("recorded public taxonomies", "taxonomies", strings.Join(current, ","))
		return &VisibilityChange{Baseline: true}, nil
	}

	change := &VisibilityChange{
		Added:   difference(current, previous),
		Removed: difference(previous, current),
	}
	if !change.Changed() {
		return change, nil
	}

	if err := w.options.SetOption(ctx, OptionLastKnownPublicTaxonomies, current); err != nil {
		return nil, fmt.Errorf("storing public taxonomies: %w", err)
	}

	if len(change.Added) > 0 {
		if err := w.handleMadePublic(ctx, change.Added); err != nil {
			return nil, err
		}
	}

	if len(change.Removed) > 0 {
		if err := w.handleMadePrivate(ctx, change.Removed); err != nil {
			return nil, err
		}
	}

	return change, nil
}

func (w *TaxonomyVisibilityWatcher) handleMadePublic(ctx context.Context, added []string) error {
	for _, key := range []string{TransientUnindexedTermCount, TransientUnindexedTermCountLimited} {
		if err := w.transients.DeleteTransient(ctx, key); err != nil {
			return fmt.Errorf("deleting transient %s: %w", key, err)
		}
	}

	if err := w.indexing.SetReason(ctx, IndexingReasonTaxonomyMadePublic); err != nil {
		return err
	}

	existing, err := w.notifications.NotificationByID(ctx, TaxonomiesMadePublicNotificationID)
	if err != nil {
		return fmt.Errorf("looking up notification: %w", err)
	}
	if existing == nil {
		n := &Notification{
			ID:         TaxonomiesMadePublicNotificationID,
			Message:    taxonomiesMadePublicMessage(added),
			Type:       "warning",
			Priority:   0.8,
			Capability: "wpseo_manage_options",
			CreatedAt:  w.clock.Now(),
		}
		if err := w.notifications.AddNotification(ctx, n); err != nil {
			return fmt.Errorf("adding notification: %w", err)
		}
	}

	w.logger.Info("taxonomies made public", "taxonomies", strings.Join(added, ","))
	return nil
}

func (w *TaxonomyVisibilityWatcher) handleMadePrivate(ctx context.Context, removed []string) error {
	scheduled, err := w.scheduler.IsScheduled(ctx, CleanupHook)
	if err != nil {
		return fmt.Errorf("checking cleanup schedule: %w", err)
	}
	if !scheduled {
		if _, err := w.scheduler.ScheduleOnce(ctx, CleanupHook, w.clock.Now().Add(CleanupDelay)); err != nil {
			return fmt.Errorf("scheduling cleanup: %w", err)
		}
	}

	w.logger.Info("taxonomies made private", "taxonomies", strings.Join(removed, ","), "cleanup_already_scheduled", scheduled)
	return nil
}

func taxonomiesMadePublicMessage(added []string) string {
	if len(added) == 1 {
		return fmt.Sprintf("The taxonomy %q is now public. Review its search appearance settings and run the SEO data optimization.", added[0])
	}
	quoted := make([]string, len(added))
	for i, name := range added {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("The taxonomies %s are now public. Review their search appearance settings and run the SEO data optimization.", strings.Join(quoted, ", "))
}

// difference returns the sorted elements of a that are not in b.
func difference(a, b []string) []string {
	seen := make(map[string]struct{}, len(b))
	for _, s := range b {
		seen[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := seen[s]; !ok {
			out = append(out, s)
			seen[s] = struct{}{}
		}
	}
	slices.Sort(out)
	return out
}
