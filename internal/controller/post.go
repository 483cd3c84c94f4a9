package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"forum/internal/apperr"
	"forum/internal/models"
)

type Post struct{ Base }

func NewPost(b Base) Controller { return &Post{b} }

// postView is a post with its comments and the viewer's own vote and bookmark state.
type postView struct {
	*models.Post
	Comments   []models.Comment `json:"comments"`
	UserVote   models.Direction `json:"userVote"`
	Bookmarked bool             `json:"bookmarked"`
}

func (c *Post) DoAction(ctx context.Context) error {
	act, err := resolveAction(c.Req, voteSubs...)
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
		post, err := transition(ctx, &c.Base, models.KindPost, act.id, act.sub, models.GetPost)
		if err != nil {
			return err
		}
		c.Res.SetRedirect(fmt.Sprintf("/post/%d", post.ID))
		return nil
	}
	return errInvalidMethod
}

func (c *Post) list(ctx context.Context) error {
	posts, err := models.ListPosts(ctx, c.Deps.DB, nil)
	if err != nil {
		return internal("list posts", err)
	}
	c.respond("Posts retrieved successfully!", "post/list", posts)
	return nil
}

func (c *Post) create(ctx context.Context) error {
	userID, err := c.requireLogin(ctx, "create", "Post")
	if err != nil {
		return err
	}
	p := parseCreatePost(c.Req)
	if err := p.validate(); err != nil {
		return err
	}
	categoryID, ok := parseID(p.CategoryID)
	if !ok {
		return apperr.BadRequest("Cannot create Post: Category does not exist with ID %s.", p.CategoryID)
	}
	category, err := models.GetCategory(ctx, c.Deps.DB, categoryID)
	if errors.Is(err, models.ErrNotFound) {
		return apperr.BadRequest("Cannot create Post: Category does not exist with ID %s.", p.CategoryID)
	}
	if err != nil {
		return internal("load category", err)
	}
	if category.IsDeleted() {
		return apperr.BadRequest("Cannot create Post: Category has been deleted.")
	}
	post, err := models.CreatePost(ctx, c.Deps.DB, userID, category.ID, p.Title, p.Type, p.Content)
	if err != nil {
		return internal("create post", err)
	}
	c.respond("Post created successfully!", "post/show", postView{Post: post, Comments: []models.Comment{}})
	c.Res.SetRedirect(fmt.Sprintf("/post/%d", post.ID))
	return nil
}

func (c *Post) retrieve(ctx context.Context, raw string) error {
	post, err := load(ctx, raw, "retrieve", "Post", models.GetPost, c.Deps.DB)
	if err != nil {
		return err
	}
	view := postView{Post: post}
	if view.Comments, err = models.ListPostComments(ctx, c.Deps.DB, post.ID); err != nil {
		return internal("list post comments", err)
	}
	if userID, ok := c.UserID(); ok {
		if view.UserVote, err = models.GetVote(ctx, c.Deps.DB, models.KindPost, post.ID, userID); err != nil {
			return internal("load viewer vote", err)
		}
		if view.Bookmarked, err = models.HasBookmark(ctx, c.Deps.DB, models.KindPost, post.ID, userID); err != nil {
			return internal("load viewer bookmark", err)
		}
	}
	c.respond("Post retrieved successfully!", "post/show", view)
	return nil
}

// owned loads the post and runs the ownership and state checks for verb.
func (c *Post) owned(ctx context.Context, raw, verb string) (*models.Post, error) {
	userID, err := c.requireLogin(ctx, verb, "Post")
	if err != nil {
		return nil, err
	}
	post, err := load(ctx, raw, verb, "Post", models.GetPost, c.Deps.DB)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(userID, post.UserID, verb, "Post"); err != nil {
		return nil, err
	}
	if post.IsDeleted() {
		return nil, deleted(verb, "Post")
	}
	return post, nil
}

// editable additionally rejects URL posts, whose content is fixed once created.
func (c *Post) editable(ctx context.Context, raw, verb string) (*models.Post, error) {
	post, err := c.owned(ctx, raw, verb)
	if err != nil {
		return nil, err
	}
	if post.Type != models.PostText {
		return nil, apperr.BadRequest("Cannot %s Post: Only text posts can be edited.", verb)
	}
	return post, nil
}

func (c *Post) editForm(ctx context.Context, raw string) error {
	post, err := c.editable(ctx, raw, "edit")
	if err != nil {
		return err
	}
	c.respond("Post edit form retrieved successfully!", "post/edit", post)
	return nil
}

func (c *Post) update(ctx context.Context, raw string) error {
	post, err := c.editable(ctx, raw, "update")
	if err != nil {
		return err
	}
	p := parseUpdateContent(c.Req)
	if err := p.validate("Post"); err != nil {
		return err
	}
	updated, err := models.UpdatePostContent(ctx, c.Deps.DB, post.ID, strings.TrimSpace(*p.Content))
	if err != nil {
		return internal("update post", err)
	}
	c.respond("Post updated successfully!", "post/edit", updated)
	c.Res.SetRedirect(fmt.Sprintf("/post/%d", updated.ID))
	return nil
}

func (c *Post) delete(ctx context.Context, raw string) error {
	post, err := c.owned(ctx, raw, "delete")
	if err != nil {
		return err
	}
	removed, err := models.DeletePost(ctx, c.Deps.DB, post.ID)
	if err != nil {
		return internal("delete post", err)
	}
	c.respond("Post deleted successfully!", "home", removed)
	c.Res.SetRedirect(fmt.Sprintf("/category/%d", removed.CategoryID))
	return nil
}
