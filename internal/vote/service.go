package vote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"forum/internal/apperr"
	"forum/internal/metrics"
	"forum/internal/models"
)

type Service struct {
	db    *sql.DB
	locks *keyedMutex
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, locks: newKeyedMutex()}
}

// Apply performs a vote or bookmark transition for userID on the entity.
// Rejected transitions are returned as BadRequest errors carrying the user-facing message.
func (s *Service) Apply(ctx context.Context, kind models.EntityKind, entityID, userID int, a Action) (err error) {
	defer func() { metrics.RecordTransition(string(kind), string(a), err) }()

	unlock := s.locks.Lock(lockKey{kind: kind, entityID: entityID, userID: userID})
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal(fmt.Errorf("vote: begin: %w", err))
	}
	defer tx.Rollback()

	if a.IsBookmark() {
		err = applyBookmark(ctx, tx, kind, entityID, userID, a)
	} else {
		err = applyVote(ctx, tx, kind, entityID, userID, a)
	}
	if err != nil {
		return rejection(kind, a, err)
	}
	if err := tx.Commit(); err != nil {
		return apperr.Internal(fmt.Errorf("vote: commit: %w", err))
	}

	zerolog.Ctx(ctx).Debug().
		Str("kind", string(kind)).
		Int("entity_id", entityID).
		Int("user_id", userID).
		Str("action", string(a)).
		Msg("applied transition")
	return nil
}

func applyVote(ctx context.Context, q models.Querier, kind models.EntityKind, entityID, userID int, a Action) error {
	current, err := models.GetVote(ctx, q, kind, entityID, userID)
	if err != nil {
		return err
	}
	next, err := Next(current, a)
	if err != nil {
		return err
	}
	switch {
	case current == models.None:
		return models.InsertVote(ctx, q, kind, entityID, userID, next)
	case next == models.None:
		return models.DeleteVote(ctx, q, kind, entityID, userID)
	default:
		return models.UpdateVote(ctx, q, kind, entityID, userID, next)
	}
}

func applyBookmark(ctx context.Context, q models.Querier, kind models.EntityKind, entityID, userID int, a Action) error {
	bookmarked, err := models.HasBookmark(ctx, q, kind, entityID, userID)
	if err != nil {
		return err
	}
	if _, err := Toggle(bookmarked, a); err != nil {
		return err
	}
	if a == Bookmark {
		return models.InsertBookmark(ctx, q, kind, entityID, userID)
	}
	return models.DeleteBookmark(ctx, q, kind, entityID, userID)
}

// rejection converts a state-machine or storage error into the tagged error the router reports.
func rejection(kind models.EntityKind, a Action, err error) error {
	name := kind.Name()
	prefix := "Cannot " + a.Verb() + " " + name + ": "
	switch {
	case errors.Is(err, ErrAlreadyUp):
		return apperr.BadRequest("%s%s has already been up voted.", prefix, name)
	case errors.Is(err, ErrAlreadyDown):
		return apperr.BadRequest("%s%s has already been down voted.", prefix, name)
	case errors.Is(err, ErrNotVoted):
		return apperr.BadRequest("%s%s must first be up or down voted.", prefix, name)
	case errors.Is(err, ErrAlreadyBookmark):
		return apperr.BadRequest("%s%s has already been bookmarked.", prefix, name)
	case errors.Is(err, ErrNotBookmarked):
		return apperr.BadRequest("%s%s has not been bookmarked.", prefix, name)
	case errors.Is(err, models.ErrDuplicateRow):
		// another writer won the race between our read and insert
		if a.IsBookmark() {
			return apperr.BadRequest("%s%s has already been bookmarked.", prefix, name)
		}
		return apperr.BadRequest("%s%s has already been %s.", prefix, name, a.Past())
	}
	return apperr.Internal(fmt.Errorf("vote: %s %s: %w", a, kind, err))
}
