package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"forum/internal/apperr"
	"forum/internal/models"
)

type Category struct{ Base }

func NewCategory(b Base) Controller { return &Category{b} }

type categoryView struct {
	*models.Category
	Posts []models.Post `json:"posts"`
}

func (c *Category) DoAction(ctx context.Context) error {
	act, err := resolveAction(c.Req)
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
	}
	return errInvalidMethod
}

func (c *Category) list(ctx context.Context) error {
	categories, err := models.ListCategories(ctx, c.Deps.DB)
	if err != nil {
		return internal("list categories", err)
	}
	c.respond("Categories retrieved successfully!", "category/list", categories)
	return nil
}

func (c *Category) create(ctx context.Context) error {
	userID, err := c.requireLogin(ctx, "create", "Category")
	if err != nil {
		return err
	}
	p := parseCreateCategory(c.Req)
	if err := p.validate(); err != nil {
		return err
	}
	category, err := models.CreateCategory(ctx, c.Deps.DB, userID, p.Title, p.Description)
	if err != nil {
		return categoryWriteError("create", err)
	}
	c.respond("Category created successfully!", "category/show", categoryView{Category: category, Posts: []models.Post{}})
	c.Res.SetRedirect(fmt.Sprintf("/category/%d", category.ID))
	return nil
}

func (c *Category) retrieve(ctx context.Context, raw string) error {
	category, err := load(ctx, raw, "retrieve", "Category", models.GetCategory, c.Deps.DB)
	if err != nil {
		return err
	}
	posts, err := models.ListPosts(ctx, c.Deps.DB, &category.ID)
	if err != nil {
		return internal("list category posts", err)
	}
	c.respond("Category retrieved successfully!", "category/show", categoryView{Category: category, Posts: posts})
	return nil
}

// owned loads the category and runs the ownership and state checks for verb.
func (c *Category) owned(ctx context.Context, raw, verb string) (*models.Category, error) {
	userID, err := c.requireLogin(ctx, verb, "Category")
	if err != nil {
		return nil, err
	}
	category, err := load(ctx, raw, verb, "Category", models.GetCategory, c.Deps.DB)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(userID, category.CreatedBy, verb, "Category"); err != nil {
		return nil, err
	}
	if category.IsDeleted() {
		return nil, deleted(verb, "Category")
	}
	return category, nil
}

func (c *Category) editForm(ctx context.Context, raw string) error {
	category, err := c.owned(ctx, raw, "edit")
	if err != nil {
		return err
	}
	c.respond("Category edit form retrieved successfully!", "category/edit", category)
	return nil
}

func (c *Category) update(ctx context.Context, raw string) error {
	category, err := c.owned(ctx, raw, "update")
	if err != nil {
		return err
	}
	p := parseUpdateCategory(c.Req)
	if err := p.validate(); err != nil {
		return err
	}
	if p.Title != nil {
		v := strings.TrimSpace(*p.Title)
		p.Title = &v
	}
	updated, err := models.UpdateCategory(ctx, c.Deps.DB, category.ID, p.Title, p.Description)
	if err != nil {
		return categoryWriteError("update", err)
	}
	c.respond("Category updated successfully!", "category/edit", updated)
	c.Res.SetRedirect(fmt.Sprintf("/category/%d", updated.ID))
	return nil
}

func (c *Category) delete(ctx context.Context, raw string) error {
	category, err := c.owned(ctx, raw, "delete")
	if err != nil {
		return err
	}
	removed, err := models.DeleteCategory(ctx, c.Deps.DB, category.ID)
	if err != nil {
		return internal("delete category", err)
	}
	c.respond("Category deleted successfully!", "home", removed)
	c.Res.SetRedirect("/category")
	return nil
}

func categoryWriteError(verb string, err error) error {
	if errors.Is(err, models.ErrDuplicateTitle) {
		return apperr.BadRequest("Cannot %s Category: Duplicate title.", verb)
	}
	return internal(verb+" category", err)
}
