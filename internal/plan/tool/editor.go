package tool

import (
	"log"

	"structify/internal/plan/model"
	"structify/internal/plan/models"
)

// Editor binds a session to a model for a UI event loop. It is not safe for
// concurrent use; asynchronous work (imports, saves) must hand its results
// back to the loop goroutine before calling Apply or Load.
type Editor struct {
	model   *model.Model
	session Session
	preview Preview
}

func NewEditor(m *model.Model, t models.Tool) *Editor {
	if m == nil {
		m = model.New()
	}
	return &Editor{model: m, session: NewSession(t)}
}

func (e *Editor) Model() *model.Model { return e.model }
func (e *Editor) Session() Session    { return e.session }
func (e *Editor) Preview() Preview    { return e.preview }

func (e *Editor) SetTool(t models.Tool) {
	if _, drawing := e.session.Drawing(); drawing {
		log.Printf("[EDITOR] tool switched to %s, unfinished wall discarded", t)
	}
	e.session = Switch(e.session, t)
	e.preview = Preview{}
}

func (e *Editor) PointerDown(p models.Point) Outcome {
	var out Outcome
	e.session, out = Down(e.session, e.model, p)
	return out
}

func (e *Editor) PointerMove(p models.Point) Preview {
	e.session, e.preview = Move(e.session, e.model.Walls(), p)
	return e.preview
}

func (e *Editor) PointerUp(p models.Point) Outcome {
	var out Outcome
	e.session, out = Up(e.session, e.model, p)
	if out == OutcomeWallAdded || out == OutcomeWallRejected {
		e.preview = Preview{}
	}
	return out
}

// Load replaces the plan, cancelling any gesture in progress.
func (e *Editor) Load(p models.Plan) bool {
	if !e.model.ReplaceAll(p) {
		return false
	}
	e.session = NewSession(e.session.Tool)
	e.preview = Preview{}
	return true
}

// Clear empties the plan, cancelling any gesture in progress.
func (e *Editor) Clear() {
	e.model.Clear()
	e.session = NewSession(e.session.Tool)
	e.preview = Preview{}
}

// Apply appends imported walls and returns how many were kept.
func (e *Editor) Apply(walls []models.Wall) int {
	return e.model.AppendWalls(walls)
}
