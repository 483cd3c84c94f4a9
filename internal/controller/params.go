package controller

import (
	"strings"

	"forum/internal/apperr"
	"forum/internal/models"
	"forum/internal/request"
)

// optional returns a pointer to the named parameter, or nil when it was not sent.
func optional(req *request.Request, name string) *string {
	if !req.HasParam(name) {
		return nil
	}
	v := req.Param(name)
	return &v
}

func field(req *request.Request, name string) string {
	return strings.TrimSpace(req.Param(name))
}

type loginParams struct {
	Email    string
	Password string
}

func parseLogin(req *request.Request) loginParams {
	return loginParams{Email: field(req, "email"), Password: req.Param("password")}
}

func (p loginParams) validate() error {
	if p.Email == "" || p.Password == "" {
		return apperr.BadRequest("Cannot log in: Email or password is missing.")
	}
	return nil
}

type createUserParams struct {
	Username string
	Email    string
	Password string
}

func parseCreateUser(req *request.Request) createUserParams {
	return createUserParams{
		Username: field(req, "username"),
		Email:    field(req, "email"),
		Password: req.Param("password"),
	}
}

func (p createUserParams) validate() error {
	switch {
	case p.Username == "":
		return apperr.BadRequest("Cannot create User: Missing username.")
	case p.Email == "":
		return apperr.BadRequest("Cannot create User: Missing email.")
	case !strings.Contains(p.Email, "@"):
		return apperr.BadRequest("Cannot create User: Invalid email.")
	case p.Password == "":
		return apperr.BadRequest("Cannot create User: Missing password.")
	}
	return nil
}

type updateUserParams struct {
	Username *string
	Email    *string
	Password *string
	Avatar   *string
}

func parseUpdateUser(req *request.Request) updateUserParams {
	return updateUserParams{
		Username: optional(req, "username"),
		Email:    optional(req, "email"),
		Password: optional(req, "password"),
		Avatar:   optional(req, "avatar"),
	}
}

func (p updateUserParams) validate() error {
	if p.Username == nil && p.Email == nil && p.Password == nil && p.Avatar == nil {
		return apperr.BadRequest("Cannot update User: No update parameters were provided.")
	}
	if p.Username != nil && strings.TrimSpace(*p.Username) == "" {
		return apperr.BadRequest("Cannot update User: Missing username.")
	}
	if p.Email != nil && !strings.Contains(*p.Email, "@") {
		return apperr.BadRequest("Cannot update User: Invalid email.")
	}
	if p.Password != nil && *p.Password == "" {
		return apperr.BadRequest("Cannot update User: Missing password.")
	}
	return nil
}

type createCategoryParams struct {
	Title       string
	Description string
}

func parseCreateCategory(req *request.Request) createCategoryParams {
	return createCategoryParams{Title: field(req, "title"), Description: field(req, "description")}
}

func (p createCategoryParams) validate() error {
	if p.Title == "" {
		return apperr.BadRequest("Cannot create Category: Missing title.")
	}
	return nil
}

type updateCategoryParams struct {
	Title       *string
	Description *string
}

func parseUpdateCategory(req *request.Request) updateCategoryParams {
	return updateCategoryParams{Title: optional(req, "title"), Description: optional(req, "description")}
}

func (p updateCategoryParams) validate() error {
	if p.Title == nil && p.Description == nil {
		return apperr.BadRequest("Cannot update Category: No update parameters were provided.")
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return apperr.BadRequest("Cannot update Category: Missing title.")
	}
	return nil
}

type createPostParams struct {
	Title      string
	Type       models.PostType
	Content    string
	CategoryID string
}

func parseCreatePost(req *request.Request) createPostParams {
	return createPostParams{
		Title:      field(req, "title"),
		Type:       models.PostType(field(req, "type")),
		Content:    field(req, "content"),
		CategoryID: field(req, "categoryId"),
	}
}

func (p createPostParams) validate() error {
	switch {
	case p.Title == "":
		return apperr.BadRequest("Cannot create Post: Missing title.")
	case p.Type == "":
		return apperr.BadRequest("Cannot create Post: Missing type.")
	case !p.Type.Valid():
		return apperr.BadRequest("Cannot create Post: Type must be Text or URL.")
	case p.Content == "":
		return apperr.BadRequest("Cannot create Post: Missing content.")
	case p.CategoryID == "":
		return apperr.BadRequest("Cannot create Post: Missing category ID.")
	}
	return nil
}

type updateContentParams struct {
	Content *string
}

func parseUpdateContent(req *request.Request) updateContentParams {
	return updateContentParams{Content: optional(req, "content")}
}

func (p updateContentParams) validate(entity string) error {
	if p.Content == nil {
		return apperr.BadRequest("Cannot update %s: No update parameters were provided.", entity)
	}
	if strings.TrimSpace(*p.Content) == "" {
		return apperr.BadRequest("Cannot update %s: Missing content.", entity)
	}
	return nil
}

type createCommentParams struct {
	PostID  string
	ReplyID string
	Content string
}

func parseCreateComment(req *request.Request) createCommentParams {
	return createCommentParams{
		PostID:  field(req, "postId"),
		ReplyID: field(req, "replyId"),
		Content: field(req, "content"),
	}
}

func (p createCommentParams) validate() error {
	switch {
	case p.PostID == "":
		return apperr.BadRequest("Cannot create Comment: Missing post ID.")
	case p.Content == "":
		return apperr.BadRequest("Cannot create Comment: Missing content.")
	}
	return nil
}
