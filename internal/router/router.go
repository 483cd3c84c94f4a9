// Package router selects the controller for a request and is the only place
// where errors are turned into responses.
package router

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"forum/internal/apperr"
	"forum/internal/controller"
	"forum/internal/request"
	"forum/internal/response"
	"forum/internal/session"
)

type Router struct {
	deps        controller.Deps
	controllers map[string]controller.Factory
}

func New(deps controller.Deps) *Router {
	return &Router{
		deps: deps,
		controllers: map[string]controller.Factory{
			"auth":     controller.NewAuth,
			"user":     controller.NewUser,
			"category": controller.NewCategory,
			"post":     controller.NewPost,
			"comment":  controller.NewComment,
		},
	}
}

// Dispatch runs the request through its controller and returns res in exactly one
// terminal state. It never returns an error or panics.
func (r *Router) Dispatch(ctx context.Context, req *request.Request, res *response.Response, sess *session.Session) *response.Response {
	if err := r.dispatch(ctx, req, res, sess); err != nil {
		r.fail(ctx, req, res, err)
	}
	return res
}

func (r *Router) dispatch(ctx context.Context, req *request.Request, res *response.Response, sess *session.Session) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = apperr.Internal(fmt.Errorf("panic: %v", p))
		}
	}()

	resource := req.Resource()
	if resource == "" {
		if req.Method() != http.MethodGet {
			return apperr.MethodNotAllowed("Invalid request method!")
		}
		res.SetMessage("Homepage!")
		res.SetTemplate("home")
		res.SetPayload(nil)
		return nil
	}

	factory, ok := r.controllers[resource]
	if !ok {
		return apperr.NotFound("Invalid request path!")
	}
	c := factory(controller.Base{Req: req, Res: res, Session: sess, Deps: r.deps})
	return c.DoAction(ctx)
}

func (r *Router) fail(ctx context.Context, req *request.Request, res *response.Response, err error) {
	e := apperr.As(err)
	code := e.Kind.StatusCode()
	res.Fail(code, e.Message)

	log := zerolog.Ctx(ctx)
	var ev *zerolog.Event
	if code >= http.StatusInternalServerError {
		ev = log.Error().Err(err)
	} else {
		ev = log.Warn()
	}
	ev.Str("method", req.Method()).
		Str("path", req.Path()).
		Int("status", code).
		Str("kind", e.Kind.String()).
		Msg(e.Message)
}
