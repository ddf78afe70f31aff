package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"structify/internal/plan/model"
	plan "structify/internal/plan/models"
	"structify/internal/projects/models"
	"structify/internal/projects/repository"
	"structify/internal/projects/service"
)

const requestTimeout = 10 * time.Second

// ============================================================
// Project Handler
// ============================================================

type ProjectHandler struct {
	repo    *repository.Repository
	storage *service.FileStorage
}

func NewProjectHandler(repo *repository.Repository, storage *service.FileStorage) *ProjectHandler {
	return &ProjectHandler{
		repo:    repo,
		storage: storage,
	}
}

// Health reports whether the database answers.
func (h *ProjectHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.repo.Ping(ctx); err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "healthy"})
}

func (h *ProjectHandler) List(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	list, err := h.repo.List(ctx)
	if err != nil {
		log.Printf("[PROJECTS] List error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list projects"})
	}
	return c.JSON(list)
}

func (h *ProjectHandler) Create(c fiber.Ctx) error {
	var req models.CreateRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
		}
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		req.Name = "Untitled plan"
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	p, err := h.repo.Create(ctx, req.Name)
	if err != nil {
		log.Printf("[PROJECTS] Create error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create project"})
	}
	log.Printf("[PROJECTS] Created %s", p.ID)
	return c.Status(http.StatusCreated).JSON(p)
}

func (h *ProjectHandler) Get(c fiber.Ctx) error {
	p, err := h.load(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

// Update replaces the geometry of a project. The incoming plan goes through the same
// validation as the editor model; a plan it refuses leaves the stored one untouched.
func (h *ProjectHandler) Update(c fiber.Ctx) error {
	id := c.Params("id")
	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}

	var req plan.Project
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	m := model.New()
	if !m.ReplaceAll(req.Plan) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid geometry"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		current, err := h.repo.Get(ctx, id)
		if err != nil {
			return h.fail(c, err)
		}
		name = current.Name
	}

	p, err := h.repo.Update(ctx, id, name, m.Plan())
	if err != nil {
		return h.fail(c, err)
	}
	walls, doors, windows := m.Len()
	log.Printf("[PROJECTS] Saved %s: %d walls, %d doors, %d windows", id, walls, doors, windows)
	return c.JSON(p)
}

func (h *ProjectHandler) Delete(c fiber.Ctx) error {
	id := c.Params("id")

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := h.repo.Delete(ctx, id); err != nil {
		return h.fail(c, err)
	}
	if err := h.storage.RemoveProject(id); err != nil {
		log.Printf("[PROJECTS] Remove uploads of %s: %v", id, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Uploads lists the raster files stored for a project by /import.
func (h *ProjectHandler) Uploads(c fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.load(id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"uploads": h.storage.ListUploads(id)})
}

// ============================================================
// Helpers
// ============================================================

func (h *ProjectHandler) load(id string) (*plan.Project, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return h.repo.Get(ctx, id)
}

func (h *ProjectHandler) fail(c fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
	}
	log.Printf("[PROJECTS] %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
