package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"structify/internal/client"
	"structify/internal/common/config"
	"structify/internal/importer/detector"
	"structify/internal/importer/mapper"
	"structify/internal/plan/model"
	"structify/internal/plan/models"
	"structify/internal/plan/tool"
)

// ============================================================
// Desktop Editor
// ============================================================

func main() {
	cfg := config.Load()

	serviceURL := flag.String("service", cfg.ProjectsURL, "projects service base URL")
	projectID := flag.String("project", "", "project to open (empty starts a new plan)")
	name := flag.String("name", "Untitled plan", "name used when the plan is first saved")
	importPath := flag.String("import", "", "plan image imported with the I key")
	width := flag.Int("width", 1200, "window width")
	height := flag.Int("height", 900, "window height")
	flag.Parse()

	api := client.New(*serviceURL, time.Duration(cfg.ProxyTimeout)*time.Second)

	// The service reports its canvas with every detection; scale is shared configuration.
	mapping := mapper.New(mapper.Config{
		CanvasWidth:  cfg.ImportCanvasWidth,
		CanvasHeight: cfg.ImportCanvasHeight,
		Scale:        cfg.ImportScale,
	})

	editor := tool.NewEditor(model.New(), models.ToolWall)
	g := &Game{
		editor:     editor,
		api:        api,
		importer:   mapper.NewImporter(detector.Ready(api), mapping),
		projectID:  *projectID,
		name:       *name,
		importPath: *importPath,
		width:      *width,
		height:     *height,
		status:     "ready",
	}

	if *projectID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		p, err := api.Get(ctx, *projectID)
		cancel()
		if err != nil {
			log.Fatalf("load project %s: %v", *projectID, err)
		}
		if !editor.Load(p.Plan) {
			log.Fatalf("project %s holds invalid geometry", *projectID)
		}
		g.name = p.Name
		log.Printf("[EDITOR] Loaded %s (%d walls)", p.ID, len(p.Walls))
	}

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("Structify - " + g.name)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
