package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"structify/internal/common/config"
	"structify/internal/common/middleware"
	"structify/internal/importer/detector"
	"structify/internal/importer/hough"
	"structify/internal/importer/mapper"
	"structify/internal/projects/handlers"
	"structify/internal/projects/repository"
	"structify/internal/projects/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gogpu/gg"
)

// ============================================================
// Projects Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3001"
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.MigrationsPath); err != nil {
		log.Fatalf("init db: %v", err)
	}

	storage := service.NewFileStorage(cfg.UploadsDir)

	if cfg.Environment == "development" {
		gg.SetLogger(slog.Default())
	}

	// OpenCV comes up in the background; imports wait for it.
	params := hough.DefaultParams()
	params.Width = int(cfg.ImportCanvasWidth)
	params.Height = int(cfg.ImportCanvasHeight)
	lines := detector.Load(context.Background(), hough.Init(params))

	mapping := mapper.New(mapper.Config{
		CanvasWidth:  cfg.ImportCanvasWidth,
		CanvasHeight: cfg.ImportCanvasHeight,
		Scale:        cfg.ImportScale,
	})
	svgDetector := detector.NewSVGDetector()
	svgDetector.Width, svgDetector.Height = params.Width, params.Height

	raster := mapper.NewImporter(lines, mapping)
	vector := mapper.NewImporter(detector.Ready(svgDetector), mapping)

	go func() {
		<-raster.Ready()
		if _, err := lines.Wait(context.Background()); err != nil {
			log.Printf("[IMPORT] Raster detector unavailable: %v", err)
		}
	}()

	projectHandler := handlers.NewProjectHandler(repo, storage)
	importHandler := handlers.NewImportHandler(raster, vector, repo, storage)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.MaxUploadMB * 1024 * 1024,
		AppName:      "Projects Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	// ============================================================
	// Project Routes
	// ============================================================

	handlers.Register(app, projectHandler, importHandler)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Projects Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
