package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"forum/internal/apperr"
	"forum/internal/models"
)

type Auth struct{ Base }

func NewAuth(b Base) Controller { return &Auth{b} }

func (c *Auth) DoAction(ctx context.Context) error {
	if c.Req.NumSegments() != 1 {
		return errInvalidMethod
	}
	switch c.Req.Method() + " " + c.Req.Segment(0) {
	case http.MethodGet + " register":
		c.respond("Register form!", "auth/register", nil)
		return nil
	case http.MethodGet + " login":
		c.respond("Login form!", "auth/login", nil)
		return nil
	case http.MethodPost + " login":
		return c.login(ctx)
	case http.MethodGet + " logout":
		return c.logout(ctx)
	}
	return errInvalidMethod
}

var errInvalidCredentials = apperr.BadRequest("Cannot log in: Invalid credentials.")

func (c *Auth) login(ctx context.Context) error {
	p := parseLogin(c.Req)
	if err := p.validate(); err != nil {
		return err
	}
	user, err := models.GetUserByEmail(ctx, c.Deps.DB, p.Email)
	if errors.Is(err, models.ErrNotFound) {
		return errInvalidCredentials
	}
	if err != nil {
		return internal("login", err)
	}
	if user.IsDeleted() {
		return errInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(p.Password)) != nil {
		return errInvalidCredentials
	}
	// the pre-login session id stops working here
	sess, err := c.Deps.Sessions.Rotate(c.Session)
	if err != nil {
		return internal("rotate session", err)
	}
	sess.Set(UserIDKey, user.ID)
	c.Session = sess
	c.Res.SetSessionID(sess.ID())
	zerolog.Ctx(ctx).Info().Int("user_id", user.ID).Msg("user logged in")

	c.respond("Logged in successfully!", "user/show", user)
	c.Res.SetRedirect("/")
	return nil
}

func (c *Auth) logout(ctx context.Context) error {
	if id, ok := c.UserID(); ok {
		zerolog.Ctx(ctx).Info().Int("user_id", id).Msg("user logged out")
	}
	c.Session.Unset(UserIDKey)
	c.respond("Logged out successfully!", "home", nil)
	c.Res.SetRedirect("/")
	return nil
}
