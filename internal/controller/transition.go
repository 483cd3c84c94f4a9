package controller

import (
	"context"
	"fmt"

	"forum/internal/models"
	"forum/internal/vote"
)

type deletable[T any] interface {
	*T
	IsDeleted() bool
}

// transition runs a vote or bookmark action for the logged-in user and returns
// the entity reloaded from storage, so its counters reflect the new state.
func transition[T any, PT deletable[T]](ctx context.Context, b *Base, kind models.EntityKind, raw, sub string,
	get func(context.Context, models.Querier, int) (*T, error)) (*T, error) {
	a, ok := vote.ParseAction(sub)
	if !ok {
		return nil, errInvalidMethod
	}
	name := kind.Name()
	userID, err := b.requireLogin(ctx, a.Verb(), name)
	if err != nil {
		return nil, err
	}
	id, ok := parseID(raw)
	if !ok {
		return nil, notExist(a.Verb(), name, raw)
	}
	ent, err := fetch(ctx, id, raw, a.Verb(), name, get, b.Deps.DB)
	if err != nil {
		return nil, err
	}
	if PT(ent).IsDeleted() {
		return nil, deleted(a.Verb(), name)
	}
	if err := b.Deps.Votes.Apply(ctx, kind, id, userID, a); err != nil {
		return nil, err
	}
	ent, err = get(ctx, b.Deps.DB, id)
	if err != nil {
		return nil, internal("reload "+string(kind), err)
	}
	b.respond(fmt.Sprintf("%s was %s successfully!", name, a.Past()), string(kind)+"/show", ent)
	return ent, nil
}
