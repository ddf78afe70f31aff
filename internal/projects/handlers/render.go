package handlers

import (
	"bytes"
	"log"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"structify/internal/render/preview"
	"structify/internal/render/scene3d"
	"structify/internal/render/svg"
)

// ============================================================
// Render Endpoints
// ============================================================

// Preview draws the plan the way the editor canvas shows it.
// Query: width, height (pixels), theme (light|dark).
func (h *ProjectHandler) Preview(c fiber.Ctx) error {
	p, err := h.load(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	opts := preview.Options{}
	if opts.Width, err = queryInt(c, "width"); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid width"})
	}
	if opts.Height, err = queryInt(c, "height"); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid height"})
	}
	if opts.Palette, err = preview.ParsePalette(c.Query("theme")); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var buf bytes.Buffer
	if err := preview.EncodePNG(&buf, p.Plan, opts); err != nil {
		log.Printf("[RENDER] Preview %s: %v", p.ID, err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Type", "image/png")
	return c.Send(buf.Bytes())
}

func (h *ProjectHandler) SVG(c fiber.Ctx) error {
	p, err := h.load(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	doc, err := svg.NewRenderer().Render(p.Plan)
	if err != nil {
		log.Printf("[RENDER] SVG %s: %v", p.ID, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render svg"})
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(doc)
}

// Scene returns the 3D composition in meters.
func (h *ProjectHandler) Scene(c fiber.Ctx) error {
	p, err := h.load(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(scene3d.Build(p.Plan))
}

func (h *ProjectHandler) STL(c fiber.Ctx) error {
	p, err := h.load(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	tris, err := scene3d.Mesh(scene3d.Build(p.Plan))
	if err != nil {
		log.Printf("[RENDER] Mesh %s: %v", p.ID, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build mesh"})
	}

	var buf bytes.Buffer
	if err := scene3d.WriteSTL(&buf, "plan", tris); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to write stl"})
	}

	c.Set("Content-Type", "model/stl")
	c.Set("Content-Disposition", `attachment; filename="`+p.ID+`.stl"`)
	return c.Send(buf.Bytes())
}

func queryInt(c fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
