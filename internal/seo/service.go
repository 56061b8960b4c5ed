package seo

import (
	"context"
	"fmt"
)

// Service builds author indexables and optionally stores them.
type Service struct {
	indexables IndexableRepository
	builder    *AuthorBuilder
	logger     Logger
	clock      Clock
}

func NewService(indexables IndexableRepository, builder *AuthorBuilder, logger Logger, clock Clock) *Service {
	return &Service{
		indexables: indexables,
		builder:    builder,
		logger:     logger,
		clock:      clock,
	}
}

// BuildAuthor (re)builds the indexable for userID starting from the stored
// record, if any. When save is true the result is written back; an ineligible
// author has its stored record removed instead.
func (s *Service) BuildAuthor(ctx context.Context, userID int64, save bool) (*Indexable, error) {
	ix, err := s.indexables.FindIndexable(ctx, ObjectTypeUser, userID)
	if err != nil {
		return nil, fmt.Errorf("loading indexable: %w", err)
	}
	if ix == nil {
		ix = NewIndexable(ObjectTypeUser, userID)
	}

	built, err := s.builder.Build(ctx, userID, ix)
	if err != nil {
		if IsNotEligible(err) && save {
			if derr := s.indexables.DeleteIndexable(ctx, ObjectTypeUser, userID); derr != nil {
				return nil, fmt.Errorf("removing stale indexable: %w", derr)
			}
			s.logger.Info("author indexable removed", "user_id", userID, "reason", err.Error())
		}
		return nil, err
	}

	if !save {
		return built, nil
	}

	now := s.clock.Now()
	if built.CreatedAt.IsZero() {
		built.CreatedAt = now
	}
	built.UpdatedAt = now
	if err := s.indexables.SaveIndexable(ctx, built); err != nil {
		return nil, fmt.Errorf("saving indexable: %w", err)
	}

	s.logger.Info("author indexable saved", "user_id", userID, "version", built.Version)
	return built, nil
}
