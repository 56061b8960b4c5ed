package app

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"idx-go/internal/avatar"
	"idx-go/internal/cache"
	"idx-go/internal/config"
	"idx-go/internal/database"
	"idx-go/internal/permalink"
	"idx-go/internal/seo"
)

// IdxApp is the application layer between the CLI and the seo services.
// It constructs all dependencies from config and closes them on Close.
type IdxApp struct {
	cfg        *config.Config
	db         *database.SQLiteDatabase
	transients cache.Store
	watcher    *seo.TaxonomyVisibilityWatcher
	service    *seo.Service
	jobs       *seo.JobRunner
	status     *seo.IndexingStatus
	indexing   *seo.IndexingHelper
	logger     seo.Logger
	logFile    *os.File
}

// StatusReport summarises what still needs indexing.
type StatusReport struct {
	Reason           string
	UnindexedTerms   int
	UnindexedLimited int
	Limit            int
	PendingJobs      int
}

// NewIdxApp creates a fully wired IdxApp from the given config.
// command identifies the CLI command being run and is logged with the run ID.
// The caller must call Close when done.
func NewIdxApp(cfg *config.Config, command string) (*IdxApp, error) {
	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date (run `idx db migrate`): %w", err)
	}

	clock := seo.RealClock{}
	transients, err := cache.NewTransientStoreFromConfig(cfg.Cache, clock)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating transient store: %w", err)
	}

	urls, err := permalink.NewBuilder(cfg.SiteURL, db)
	if err != nil {
		transients.Close()
		db.Close()
		return nil, err
	}

	runID := uuid.New().String()
	l, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		transients.Close()
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: l}
	logger.Debug("command started", "command", command)

	archive := seo.NewAuthorArchive(db, cfg.Indexing.PublicPostStatuses, cfg.Indexing.PublicPostTypes)
	images := seo.NewSocialImageResolver(avatar.NewGravatar(db, cfg.Avatar))
	builder := seo.NewAuthorBuilder(db, archive, urls, images, seo.AuthorBuilderOptions{
		PublicPostStatuses: cfg.Indexing.PublicPostStatuses,
		BlogID:             cfg.BlogID,
	})

	cleanup := seo.NewCleanup(db, cfg.Indexing.CleanupBatchSize, logger)
	jobs := seo.NewJobRunner(db, logger, clock)
	jobs.Handle(seo.CleanupHook, func(ctx context.Context) error {
		_, err := cleanup.Run(ctx)
		return err
	})

	return &IdxApp{
		cfg:        cfg,
		db:         db,
		transients: transients,
		watcher:    seo.NewTaxonomyVisibilityWatcher(db, transients, logger, clock),
		service:    seo.NewService(db, builder, logger, clock),
		jobs:       jobs,
		status:     seo.NewIndexingStatus(db, transients, logger),
		indexing:   seo.NewIndexingHelper(db, db),
		logger:     logger,
		logFile:    logFile,
	}, nil
}

// Migrate applies pending migrations to the configured database.
func Migrate(cfg *config.Config) error {
	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}

// ListTaxonomies returns every registered taxonomy.
func (a *IdxApp) ListTaxonomies(ctx context.Context) ([]*seo.Taxonomy, error) {
	return a.db.ListTaxonomies(ctx)
}

// CheckTaxonomies runs the taxonomy visibility check as a request of the given kind.
func (a *IdxApp) CheckTaxonomies(ctx context.Context, kind seo.RequestKind) (*seo.VisibilityChange, error) {
	return a.watcher.Check(ctx, seo.Request{Kind: kind})
}

// BuildAuthor builds the author indexable of userID, storing it when save is true.
func (a *IdxApp) BuildAuthor(ctx context.Context, userID int64, save bool) (*seo.Indexable, error) {
	return a.service.BuildAuthor(ctx, userID, save)
}

// RunDueJobs runs every scheduled event that is due.
func (a *IdxApp) RunDueJobs(ctx context.Context) (int, error) {
	return a.jobs.RunDue(ctx)
}

// ListEvents returns every pending scheduled event.
func (a *IdxApp) ListEvents(ctx context.Context) ([]*seo.ScheduledEvent, error) {
	return a.db.ListEvents(ctx)
}

// ListNotifications returns every admin notification.
func (a *IdxApp) ListNotifications(ctx context.Context) ([]*seo.Notification, error) {
	return a.db.ListNotifications(ctx)
}

// Status reports the indexing reason, unindexed term counts and pending jobs.
func (a *IdxApp) Status(ctx context.Context) (*StatusReport, error) {
	reason, err := a.indexing.Reason(ctx)
	if err != nil {
		return nil, err
	}

	total, err := a.status.UnindexedTermCount(ctx)
	if err != nil {
		return nil, err
	}

	limit := a.cfg.Indexing.UnindexedLimit
	limited, err := a.status.UnindexedTermCountLimited(ctx, limit)
	if err != nil {
		return nil, err
	}

	events, err := a.db.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	return &StatusReport{
		Reason:           reason,
		UnindexedTerms:   total,
		UnindexedLimited: limited,
		Limit:            limit,
		PendingJobs:      len(events),
	}, nil
}

// Close closes all resources, returning the first error encountered.
func (a *IdxApp) Close() error {
	var firstErr error

	if err := a.transients.Close(); err != nil {
		firstErr = fmt.Errorf("closing transient store: %w", err)
	}

	if err := a.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
