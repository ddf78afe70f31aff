package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"structify/internal/importer/detector"
	"structify/internal/importer/mapper"
	"structify/internal/projects/models"
	"structify/internal/projects/repository"
	"structify/internal/projects/service"
)

const detectTimeout = 60 * time.Second

// ============================================================
// Import Handler
// ============================================================

// ImportHandler vectorizes uploaded plans. Raster images go through the raster importer,
// SVG documents through the vector one.
type ImportHandler struct {
	raster  *mapper.Importer
	vector  *mapper.Importer
	repo    *repository.Repository
	storage *service.FileStorage
}

func NewImportHandler(raster, vector *mapper.Importer, repo *repository.Repository, storage *service.FileStorage) *ImportHandler {
	return &ImportHandler{
		raster:  raster,
		vector:  vector,
		repo:    repo,
		storage: storage,
	}
}

// Detect returns the raw segments in analysis-canvas pixels.
func (h *ImportHandler) Detect(c fiber.Ctx) error {
	name, data, err := readUpload(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("[IMPORT] Detect %s, %d bytes", name, len(data))

	imp := h.pick(name, data)

	ctx, cancel := context.WithTimeout(context.Background(), detectTimeout)
	defer cancel()

	segs, err := imp.Detect(ctx, data)
	if err != nil {
		return detectFailed(c, err)
	}

	cfg := imp.Mapper().Config()
	return c.JSON(models.DetectResponse{
		Width:    int(cfg.CanvasWidth),
		Height:   int(cfg.CanvasHeight),
		Segments: segs,
	})
}

// Import returns model-space walls for the uploaded plan. With a "project" form value the
// upload is also kept under that project.
func (h *ImportHandler) Import(c fiber.Ctx) error {
	name, data, err := readUpload(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	projectID := c.FormValue("project")
	log.Printf("[IMPORT] Import %s, %d bytes, project=%q", name, len(data), projectID)

	ctx, cancel := context.WithTimeout(context.Background(), detectTimeout)
	defer cancel()

	if projectID != "" {
		if _, err := h.repo.Get(ctx, projectID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
			}
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		}
	}

	imp := h.pick(name, data)
	segs, err := imp.Detect(ctx, data)
	if err != nil {
		return detectFailed(c, err)
	}

	resp := models.ImportResponse{
		Walls:    imp.Mapper().Map(segs),
		Segments: len(segs),
	}
	if projectID != "" {
		stored, err := h.storage.SaveUpload(projectID, name, data)
		if err != nil {
			log.Printf("[IMPORT] Save upload: %v", err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
		}
		resp.Upload = stored
	}

	log.Printf("[IMPORT] %d segments mapped", len(segs))
	return c.JSON(resp)
}

// ============================================================
// Helpers
// ============================================================

func (h *ImportHandler) pick(name string, data []byte) *mapper.Importer {
	if isSVG(name, data) {
		return h.vector
	}
	return h.raster
}

func isSVG(name string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(name), ".svg") {
		return true
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.Contains(strings.ToLower(string(head)), "<svg")
}

func readUpload(c fiber.Ctx) (string, []byte, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return "", nil, errors.New("file required in multipart/form-data")
	}
	data, err := readFormFile(file)
	if err != nil {
		return "", nil, errors.New("failed to read file")
	}
	if len(data) == 0 {
		return "", nil, errors.New("empty file")
	}
	return file.Filename, data, nil
}

func readFormFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func detectFailed(c fiber.Ctx, err error) error {
	log.Printf("[IMPORT] %v", err)
	if errors.Is(err, detector.ErrNotReady) {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
}
