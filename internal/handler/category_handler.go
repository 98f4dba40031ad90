package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/worklens/worklens/internal/adapter/store"
	"github.com/worklens/worklens/internal/port"
	"github.com/worklens/worklens/internal/service"
)

// CategoryHandler handles category administration and the audit trail.
type CategoryHandler struct {
	categories *service.CategoryService
	store      *store.PostgresStore
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(categories *service.CategoryService, store *store.PostgresStore) *CategoryHandler {
	return &CategoryHandler{categories: categories, store: store}
}

// Register sets up category routes on a protected group.
func (h *CategoryHandler) Register(api fiber.Router) {
	cats := api.Group("/categories")
	cats.Get("/", h.List)
	cats.Get("/:name", h.Get)
	cats.Put("/:name/weight", h.SetWeight)

	api.Get("/audit", h.ListAudit)
}

// List returns all categories ordered by name.
func (h *CategoryHandler) List(c fiber.Ctx) error {
	cats, err := h.categories.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"categories": cats, "count": len(cats)})
}

// Get returns one category by name.
func (h *CategoryHandler) Get(c fiber.Ctx) error {
	cat, err := h.categories.Get(c.Context(), c.Params("name"))
	if errors.Is(err, port.ErrCategoryNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "category not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(cat)
}

// SetWeight updates a category's weight. The change reaches commits on the
// next sync-weights pass.
func (h *CategoryHandler) SetWeight(c fiber.Ctx) error {
	var body struct {
		Weight int    `json:"weight"`
		Actor  string `json:"actor"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	if body.Actor == "" {
		body.Actor = "api"
	}

	cat, err := h.categories.SetWeight(c.Context(), body.Actor, c.Params("name"), body.Weight)
	switch {
	case errors.Is(err, port.ErrCategoryNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "category not found"})
	case errors.Is(err, port.ErrInvalidWeight):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(cat)
}

// ListAudit returns recent audit logs, optionally filtered by action.
func (h *CategoryHandler) ListAudit(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	logs, err := h.store.ListAuditLogs(c.Context(), limit, c.Query("action", ""))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"logs": logs, "count": len(logs)})
}
