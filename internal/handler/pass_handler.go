package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/worklens/worklens/internal/adapter/store"
	"github.com/worklens/worklens/internal/port"
	"github.com/worklens/worklens/internal/service"
)

// PassHandler triggers engine passes and lists the repositories they can be
// scoped to.
type PassHandler struct {
	pipeline *service.PipelineService
	store    *store.PostgresStore
}

// NewPassHandler creates a new pass handler.
func NewPassHandler(pipeline *service.PipelineService, store *store.PostgresStore) *PassHandler {
	return &PassHandler{pipeline: pipeline, store: store}
}

// Register sets up pass routes on a protected group.
func (h *PassHandler) Register(api fiber.Router) {
	passes := api.Group("/passes")
	passes.Get("/", h.List)
	passes.Post("/run", h.RunAll)
	passes.Post("/:name/run", h.Run)

	api.Get("/repositories", h.ListRepositories)
}

// List returns the registered passes in execution order.
func (h *PassHandler) List(c fiber.Ctx) error {
	names := h.pipeline.AvailablePasses()
	passes := make([]fiber.Map, 0, len(names))
	for _, name := range names {
		desc, _ := h.pipeline.Describe(name)
		passes = append(passes, fiber.Map{"name": name, "description": desc})
	}
	return c.JSON(fiber.Map{"passes": passes})
}

// Run executes one named pass.
func (h *PassHandler) Run(c fiber.Ctx) error {
	req, err := bindPassRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	summary, err := h.pipeline.RunPass(c.Context(), c.Params("name"), req)
	switch {
	case errors.Is(err, port.ErrPassNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "pass not found"})
	case errors.Is(err, port.ErrRepoNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "repository not found"})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(summary)
}

// RunAll executes the whole pipeline in order.
func (h *PassHandler) RunAll(c fiber.Ctx) error {
	req, err := bindPassRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	summaries, err := h.pipeline.RunAll(c.Context(), req)
	switch {
	case errors.Is(err, port.ErrRepoNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "repository not found"})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":     err.Error(),
			"summaries": summaries,
		})
	}
	return c.JSON(fiber.Map{"summaries": summaries})
}

// ListRepositories returns the repositories passes can be scoped to.
func (h *PassHandler) ListRepositories(c fiber.Ctx) error {
	repos, err := h.store.ListRepositories(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"repositories": repos, "count": len(repos)})
}

func bindPassRequest(c fiber.Ctx) (port.PassRequest, error) {
	var req port.PassRequest
	if len(c.Body()) == 0 {
		return req, nil
	}
	if err := c.Bind().JSON(&req); err != nil {
		return req, err
	}
	return req, nil
}
