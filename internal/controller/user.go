package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"forum/internal/apperr"
	"forum/internal/models"
)

// hashCost is lowered by tests.
var hashCost = bcrypt.DefaultCost

const (
	subPostVotes        = "postvotes"
	subCommentVotes     = "commentvotes"
	subPostBookmarks    = "postbookmarks"
	subCommentBookmarks = "commentbookmarks"
)

type User struct{ Base }

func NewUser(b Base) Controller { return &User{b} }

func (c *User) DoAction(ctx context.Context) error {
	act, err := resolveAction(c.Req, subPostVotes, subCommentVotes, subPostBookmarks, subCommentBookmarks)
	if err != nil {
		return err
	}
	switch act.kind {
	case actList:
		return c.list(ctx)
	case actCreate:
		return c.create(ctx)
	case actRetrieve:
		return c.retrieve(ctx, act.id)
	case actEditForm:
		return c.editForm(ctx, act.id)
	case actUpdate:
		return c.update(ctx, act.id)
	case actDelete:
		return c.delete(ctx, act.id)
	case actSub:
		return c.listing(ctx, act.id, act.sub)
	}
	return errInvalidMethod
}

func (c *User) list(ctx context.Context) error {
	users, err := models.ListUsers(ctx, c.Deps.DB)
	if err != nil {
		return internal("list users", err)
	}
	c.respond("Users retrieved successfully!", "user/list", users)
	return nil
}

func (c *User) create(ctx context.Context) error {
	p := parseCreateUser(c.Req)
	if err := p.validate(); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), hashCost)
	if err != nil {
		return internal("hash password", err)
	}
	user, err := models.CreateUser(ctx, c.Deps.DB, p.Username, p.Email, string(hash))
	if err != nil {
		return userWriteError("create", err)
	}
	c.respond("User created successfully!", "user/show", user)
	c.Res.SetRedirect("/auth/login")
	return nil
}

func (c *User) retrieve(ctx context.Context, raw string) error {
	user, err := load(ctx, raw, "retrieve", "User", models.GetUser, c.Deps.DB)
	if err != nil {
		return err
	}
	c.respond("User retrieved successfully!", "user/show", user)
	return nil
}

// self loads the user at raw and checks it is the logged-in user and still active.
func (c *User) self(ctx context.Context, raw, verb string) (*models.User, error) {
	userID, err := c.requireLogin(ctx, verb, "User")
	if err != nil {
		return nil, err
	}
	user, err := load(ctx, raw, verb, "User", models.GetUser, c.Deps.DB)
	if err != nil {
		return nil, err
	}
	if user.ID != userID {
		return nil, apperr.Forbidden("Cannot %s User: You cannot %s a user other than yourself.", verb, verb)
	}
	if user.IsDeleted() {
		return nil, deleted(verb, "User")
	}
	return user, nil
}

func (c *User) editForm(ctx context.Context, raw string) error {
	user, err := c.self(ctx, raw, "edit")
	if err != nil {
		return err
	}
	c.respond("User edit form retrieved successfully!", "user/edit", user)
	return nil
}

func (c *User) update(ctx context.Context, raw string) error {
	user, err := c.self(ctx, raw, "update")
	if err != nil {
		return err
	}
	p := parseUpdateUser(c.Req)
	if err := p.validate(); err != nil {
		return err
	}
	upd := models.UserUpdate{Avatar: p.Avatar}
	if p.Username != nil {
		v := strings.TrimSpace(*p.Username)
		upd.Username = &v
	}
	if p.Email != nil {
		v := strings.TrimSpace(*p.Email)
		upd.Email = &v
	}
	if p.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*p.Password), hashCost)
		if err != nil {
			return internal("hash password", err)
		}
		v := string(hash)
		upd.PasswordHash = &v
	}
	updated, err := models.UpdateUser(ctx, c.Deps.DB, user.ID, upd)
	if err != nil {
		return userWriteError("update", err)
	}
	c.respond("User updated successfully!", "user/show", updated)
	c.Res.SetRedirect(fmt.Sprintf("/user/%d", updated.ID))
	return nil
}

func (c *User) delete(ctx context.Context, raw string) error {
	user, err := c.self(ctx, raw, "delete")
	if err != nil {
		return err
	}
	removed, err := models.DeleteUser(ctx, c.Deps.DB, user.ID)
	if err != nil {
		return internal("delete user", err)
	}
	c.Session.Unset(UserIDKey)
	c.respond("User deleted successfully!", "user/show", removed)
	c.Res.SetRedirect("/")
	return nil
}

func (c *User) listing(ctx context.Context, raw, sub string) error {
	user, err := load(ctx, raw, "retrieve", "User", models.GetUser, c.Deps.DB)
	if err != nil {
		return err
	}
	var (
		payload any
		msg     string
	)
	switch sub {
	case subPostVotes:
		payload, err = models.ListUserPostVotes(ctx, c.Deps.DB, user.ID)
		msg = "Post votes retrieved successfully!"
	case subCommentVotes:
		payload, err = models.ListUserCommentVotes(ctx, c.Deps.DB, user.ID)
		msg = "Comment votes retrieved successfully!"
	case subPostBookmarks:
		payload, err = models.ListUserPostBookmarks(ctx, c.Deps.DB, user.ID)
		msg = "Post bookmarks retrieved successfully!"
	case subCommentBookmarks:
		payload, err = models.ListUserCommentBookmarks(ctx, c.Deps.DB, user.ID)
		msg = "Comment bookmarks retrieved successfully!"
	}
	if err != nil {
		return internal("list "+sub, err)
	}
	c.respond(msg, "user/"+sub, payload)
	return nil
}

func userWriteError(verb string, err error) error {
	switch {
	case errors.Is(err, models.ErrDuplicateUsername):
		return apperr.BadRequest("Cannot %s User: Duplicate username.", verb)
	case errors.Is(err, models.ErrDuplicateEmail):
		return apperr.BadRequest("Cannot %s User: Duplicate email.", verb)
	}
	return internal(verb+" user", err)
}
