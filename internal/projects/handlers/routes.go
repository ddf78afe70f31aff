package handlers

import "github.com/gofiber/fiber/v3"

// Register mounts the projects service routes on r.
func Register(r fiber.Router, projects *ProjectHandler, imports *ImportHandler) {
	r.Get("/health", projects.Health)

	r.Get("/projects", projects.List)
	r.Post("/projects", projects.Create)
	r.Get("/projects/:id", projects.Get)
	r.Put("/projects/:id", projects.Update)
	r.Delete("/projects/:id", projects.Delete)
	r.Get("/projects/:id/uploads", projects.Uploads)

	r.Get("/projects/:id/preview.png", projects.Preview)
	r.Get("/projects/:id/svg", projects.SVG)
	r.Get("/projects/:id/scene", projects.Scene)
	r.Get("/projects/:id/scene.stl", projects.STL)

	r.Post("/detect", imports.Detect)
	r.Post("/import", imports.Import)
}
