package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/netdesk/internal/api/dto"
	"github.com/spec-kit/netdesk/internal/service"
	apperrors "github.com/spec-kit/netdesk/pkg/util"
)

// CategoryHandler manages issue categories.
type CategoryHandler struct {
	service *service.CategoryService
}

// NewCategoryHandler constructs handler.
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: categoryService}
}

// CreateCategory POST /issue/category.
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.service.Create(c.Context(), p.User, req.CategoryName)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "category created", dto.NewCategoryResponse(category))
}

// UpdateCategory PUT /issue/category/:id.
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.service.Update(c.Context(), p.User, id, req.CategoryName)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "category updated", dto.NewCategoryResponse(category))
}

// DeleteCategory DELETE /issue/category/:id.
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), p.User, id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "category deleted", nil)
}

// ListCategories GET /issue/category.
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, dto.NewCategoryResponse(&categories[i]))
	}
	return respond(c, http.StatusOK, "categories", items)
}
