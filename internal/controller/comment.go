package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"forum/internal/apperr"
	"forum/internal/models"
)

type Comment struct{ Base }

func NewComment(b Base) Controller { return &Comment{b} }

func (c *Comment) DoAction(ctx context.Context) error {
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
		comment, err := transition(ctx, &c.Base, models.KindComment, act.id, act.sub, models.GetComment)
		if err != nil {
			return err
		}
		c.Res.SetRedirect(fmt.Sprintf("/post/%d", comment.PostID))
		return nil
	}
	return errInvalidMethod
}

func (c *Comment) list(ctx context.Context) error {
	comments, err := models.ListComments(ctx, c.Deps.DB)
	if err != nil {
		return internal("list comments", err)
	}
	c.respond("Comments retrieved successfully!", "comment/list", comments)
	return nil
}

func (c *Comment) create(ctx context.Context) error {
	userID, err := c.requireLogin(ctx, "create", "Comment")
	if err != nil {
		return err
	}
	p := parseCreateComment(c.Req)
	if err := p.validate(); err != nil {
		return err
	}
	postID, ok := parseID(p.PostID)
	if !ok {
		return apperr.BadRequest("Cannot create Comment: Post does not exist with ID %s.", p.PostID)
	}
	post, err := models.GetPost(ctx, c.Deps.DB, postID)
	if errors.Is(err, models.ErrNotFound) {
		return apperr.BadRequest("Cannot create Comment: Post does not exist with ID %s.", p.PostID)
	}
	if err != nil {
		return internal("load post", err)
	}
	if post.IsDeleted() {
		return apperr.BadRequest("Cannot create Comment: Post has been deleted.")
	}

	var replyID *int
	if p.ReplyID != "" {
		id, err := c.reply(ctx, post.ID, p.ReplyID)
		if err != nil {
			return err
		}
		replyID = &id
	}
	comment, err := models.CreateComment(ctx, c.Deps.DB, post.ID, userID, replyID, p.Content)
	if err != nil {
		return internal("create comment", err)
	}
	c.respond("Comment created successfully!", "comment/show", comment)
	c.Res.SetRedirect(fmt.Sprintf("/post/%d", post.ID))
	return nil
}

// reply resolves the replied-to comment, which must belong to the same post.
func (c *Comment) reply(ctx context.Context, postID int, raw string) (int, error) {
	id, ok := parseID(raw)
	if !ok {
		return 0, apperr.BadRequest("Cannot create Comment: Reply does not exist with ID %s.", raw)
	}
	parent, err := models.GetComment(ctx, c.Deps.DB, id)
	if errors.Is(err, models.ErrNotFound) || (err == nil && parent.PostID != postID) {
		return 0, apperr.BadRequest("Cannot create Comment: Reply does not exist with ID %s.", raw)
	}
	if err != nil {
		return 0, internal("load reply", err)
	}
	return parent.ID, nil
}

func (c *Comment) retrieve(ctx context.Context, raw string) error {
	comment, err := load(ctx, raw, "retrieve", "Comment", models.GetComment, c.Deps.DB)
	if err != nil {
		return err
	}
	c.respond("Comment retrieved successfully!", "comment/show", comment)
	return nil
}

// owned loads the comment and runs the ownership and state checks for verb.
func (c *Comment) owned(ctx context.Context, raw, verb string) (*models.Comment, error) {
	userID, err := c.requireLogin(ctx, verb, "Comment")
	if err != nil {
		return nil, err
	}
	comment, err := load(ctx, raw, verb, "Comment", models.GetComment, c.Deps.DB)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(userID, comment.UserID, verb, "Comment"); err != nil {
		return nil, err
	}
	if comment.IsDeleted() {
		return nil, deleted(verb, "Comment")
	}
	return comment, nil
}

func (c *Comment) editForm(ctx context.Context, raw string) error {
	comment, err := c.owned(ctx, raw, "edit")
	if err != nil {
		return err
	}
	c.respond("Comment edit form retrieved successfully!", "comment/edit", comment)
	return nil
}

func (c *Comment) update(ctx context.Context, raw string) error {
	comment, err := c.owned(ctx, raw, "update")
	if err != nil {
		return err
	}
	p := parseUpdateContent(c.Req)
	if err := p.validate("Comment"); err != nil {
		return err
	}
	updated, err := models.UpdateCommentContent(ctx, c.Deps.DB, comment.ID, strings.TrimSpace(*p.Content))
	if err != nil {
		return internal("update comment", err)
	}
	c.respond("Comment updated successfully!", "comment/show", updated)
	c.Res.SetRedirect(fmt.Sprintf("/post/%d", updated.PostID))
	return nil
}

func (c *Comment) delete(ctx context.Context, raw string) error {
	comment, err := c.owned(ctx, raw, "delete")
	if err != nil {
		return err
	}
	removed, err := models.DeleteComment(ctx, c.Deps.DB, comment.ID)
	if err != nil {
		return internal("delete comment", err)
	}
	c.respond("Comment deleted successfully!", "comment/show", removed)
	c.Res.SetRedirect(fmt.Sprintf("/post/%d", removed.PostID))
	return nil
}
