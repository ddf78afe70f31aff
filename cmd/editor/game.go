package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"structify/internal/client"
	"structify/internal/importer/mapper"
	"structify/internal/plan/models"
	"structify/internal/plan/tool"
)

type saveResult struct {
	project *models.Project
	err     error
}

// Game runs the editor on the ebiten loop. Saves and imports run on their own goroutines
// and hand their results back through channels drained in Update, so the model is only
// touched from the loop.
type Game struct {
	editor   *tool.Editor
	api      *client.Client
	importer *mapper.Importer

	projectID  string
	name       string
	importPath string

	width, height int

	saving    <-chan saveResult
	importing <-chan mapper.Result

	lastCursor models.Point
	status     string
}

func (g *Game) Update() error {
	g.collect()
	g.handleKeys()
	g.handlePointer()
	return nil
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// toModel converts window pixels to model space, whose origin is the window center.
func (g *Game) toModel(x, y int) models.Point {
	return models.Point{
		X: float64(x) - float64(g.width)/2,
		Y: float64(y) - float64(g.height)/2,
	}
}

// ============================================================
// Input
// ============================================================

func (g *Game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.Key1):
		g.setTool(models.ToolSelect)
	case inpututil.IsKeyJustPressed(ebiten.Key2):
		g.setTool(models.ToolWall)
	case inpututil.IsKeyJustPressed(ebiten.Key3):
		g.setTool(models.ToolDoor)
	case inpututil.IsKeyJustPressed(ebiten.Key4):
		g.setTool(models.ToolWindow)
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	if inpututil.IsKeyJustPressed(ebiten.KeyS) && ctrl {
		g.save()
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) && !ctrl {
		g.editor.Clear()
		g.status = "cleared"
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		g.startImport()
	}
}

func (g *Game) setTool(t models.Tool) {
	g.editor.SetTool(t)
	g.status = "tool: " + string(t)
}

func (g *Game) handlePointer() {
	x, y := ebiten.CursorPosition()
	p := g.toModel(x, y)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.report(g.editor.PointerDown(p))
	}
	if p != g.lastCursor {
		g.editor.PointerMove(p)
		g.lastCursor = p
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.report(g.editor.PointerUp(p))
	}
}

func (g *Game) report(o tool.Outcome) {
	if o != tool.OutcomeNone {
		g.status = o.String()
	}
}

// ============================================================
// Background work
// ============================================================

func (g *Game) save() {
	if g.saving != nil {
		g.status = "save already running"
		return
	}

	snapshot := g.editor.Model().Plan()
	id, name := g.projectID, g.name
	out := make(chan saveResult, 1)
	g.saving = out
	g.status = "saving..."

	go func() {
		defer close(out)
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if id == "" {
			created, err := g.api.Create(ctx, name)
			if err != nil {
				out <- saveResult{err: err}
				return
			}
			id = created.ID
		}
		p, err := g.api.Save(ctx, id, name, snapshot)
		out <- saveResult{project: p, err: err}
	}()
}

func (g *Game) startImport() {
	if g.importPath == "" {
		g.status = "no -import file given"
		return
	}
	if g.importing != nil {
		g.status = "import already running"
		return
	}

	raster, err := os.ReadFile(g.importPath)
	if err != nil {
		g.status = fmt.Sprintf("import: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	res := g.importer.ImportAsync(ctx, raster)
	done := make(chan mapper.Result, 1)
	go func() {
		defer cancel()
		defer close(done)
		done <- <-res
	}()
	g.importing = done
	g.status = "importing..."
}

// collect applies finished background work on the loop goroutine.
func (g *Game) collect() {
	if g.saving != nil {
		select {
		case r := <-g.saving:
			g.saving = nil
			if r.err != nil {
				log.Printf("[EDITOR] Save failed: %v", r.err)
				g.status = "save failed: " + r.err.Error()
				break
			}
			g.projectID = r.project.ID
			g.status = "saved " + r.project.ID
			log.Printf("[EDITOR] Saved %s", r.project.ID)
		default:
		}
	}

	if g.importing != nil {
		select {
		case r := <-g.importing:
			g.importing = nil
			if r.Err != nil {
				log.Printf("[EDITOR] Import failed: %v", r.Err)
				g.status = "import failed: " + r.Err.Error()
				break
			}
			kept := g.editor.Apply(r.Walls)
			g.status = fmt.Sprintf("imported %d of %d walls", kept, len(r.Walls))
		default:
		}
	}
}
