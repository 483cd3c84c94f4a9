// Package controller implements the per-resource dispatch contract. A controller
// works out which operation a request asks for, checks authorization in a fixed
// order (logged in, then ownership, then entity state), runs the domain operation
// and fills the response. Errors are returned untouched for the router to report.
package controller

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"forum/internal/apperr"
	"forum/internal/models"
	"forum/internal/request"
	"forum/internal/response"
	"forum/internal/session"
	"forum/internal/vote"
)

// UserIDKey is the session key holding the logged-in user's id.
const UserIDKey = "user_id"

// Deps are the process-wide collaborators controllers call into.
type Deps struct {
	DB       *sql.DB
	Votes    *vote.Service
	Sessions *session.Store
}

// Controller is implemented by every resource controller.
type Controller interface {
	DoAction(ctx context.Context) error
}

// Factory builds a controller for one request.
type Factory func(b Base) Controller

// Base carries the per-request state shared by all controllers.
type Base struct {
	Req     *request.Request
	Res     *response.Response
	Session *session.Session
	Deps    Deps
}

// UserID returns the logged-in user's id, if any.
func (b *Base) UserID() (int, bool) {
	if b.Session == nil {
		return 0, false
	}
	v, ok := b.Session.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

// requireLogin returns the logged-in user's id. A session whose user has since
// been deleted, possibly from another session, is logged out here.
func (b *Base) requireLogin(ctx context.Context, verb, entity string) (int, error) {
	id, ok := b.UserID()
	if !ok {
		return 0, apperr.Unauthenticated("Cannot %s %s: You must be logged in.", verb, entity)
	}
	user, err := models.GetUser(ctx, b.Deps.DB, id)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return 0, internal("load session user", err)
	}
	if err != nil || user.IsDeleted() {
		b.Session.Unset(UserIDKey)
		return 0, apperr.Unauthenticated("Cannot %s %s: You must be logged in.", verb, entity)
	}
	return id, nil
}

func requireOwner(userID, ownerID int, verb, entity string) error {
	if userID != ownerID {
		return apperr.Forbidden("Cannot %s %s: You cannot %s a %s created by someone else.", verb, entity, verb, lower(entity))
	}
	return nil
}

func (b *Base) respond(msg, template string, payload any) {
	b.Res.SetStatusCode(http.StatusOK)
	b.Res.SetMessage(msg)
	b.Res.SetTemplate(template)
	b.Res.SetPayload(payload)
}

type actionKind int

const (
	actList actionKind = iota
	actCreate
	actRetrieve
	actEditForm
	actUpdate
	actDelete
	actSub
)

// action is the operation a request resolves to. id and sub are the raw path segments.
type action struct {
	kind actionKind
	id   string
	sub  string
}

var errInvalidMethod = apperr.MethodNotAllowed("Invalid request method!")

// resolveAction applies the canonical mapping from (method, id present, sub-action)
// to an operation. subs lists the GET sub-actions the resource accepts besides edit.
func resolveAction(req *request.Request, subs ...string) (action, error) {
	method := req.Method()
	switch req.NumSegments() {
	case 0:
		switch method {
		case http.MethodPost:
			return action{kind: actCreate}, nil
		case http.MethodGet:
			return action{kind: actList}, nil
		}
	case 1:
		id := req.Segment(0)
		switch method {
		case http.MethodGet:
			return action{kind: actRetrieve, id: id}, nil
		case http.MethodPut:
			return action{kind: actUpdate, id: id}, nil
		case http.MethodDelete:
			return action{kind: actDelete, id: id}, nil
		}
	case 2:
		if method != http.MethodGet {
			break
		}
		id, sub := req.Segment(0), req.Segment(1)
		if sub == "edit" {
			return action{kind: actEditForm, id: id}, nil
		}
		for _, s := range subs {
			if sub == s {
				return action{kind: actSub, id: id, sub: sub}, nil
			}
		}
	}
	return action{}, errInvalidMethod
}

var voteSubs = []string{
	string(vote.UpVote), string(vote.DownVote), string(vote.Unvote),
	string(vote.Bookmark), string(vote.Unbookmark),
}

func parseID(raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// load fetches an entity by raw id, reporting a missing one as BadRequest.
func load[T any](ctx context.Context, raw, verb, entity string, get func(context.Context, models.Querier, int) (*T, error), q models.Querier) (*T, error) {
	id, ok := parseID(raw)
	if !ok {
		return nil, notExist(verb, entity, raw)
	}
	return fetch(ctx, id, raw, verb, entity, get, q)
}

// fetch is load for an id that has already been parsed.
func fetch[T any](ctx context.Context, id int, raw, verb, entity string, get func(context.Context, models.Querier, int) (*T, error), q models.Querier) (*T, error) {
	v, err := get(ctx, q, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, notExist(verb, entity, raw)
		}
		return nil, apperr.Internal(fmt.Errorf("load %s %s: %w", lower(entity), raw, err))
	}
	return v, nil
}

func notExist(verb, entity, raw string) error {
	return apperr.BadRequest("Cannot %s %s: %s does not exist with ID %s.", verb, entity, entity, raw)
}

func deleted(verb, entity string) error {
	return apperr.BadRequest("Cannot %s %s: You cannot %s a %s that has been deleted.", verb, entity, verb, lower(entity))
}

func internal(format string, err error) error {
	return apperr.Internal(fmt.Errorf(format+": %w", err))
}

func lower(entity string) string {
	if entity == "" {
		return entity
	}
	b := []byte(entity)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
