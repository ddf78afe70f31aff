package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"structify/internal/importer/detector"
	"structify/internal/importer/mapper"
	plan "structify/internal/plan/models"
	"structify/internal/projects/models"
	"structify/internal/projects/repository"
	"structify/internal/projects/service"
	"structify/internal/render/scene3d"
)

type fakeDetector struct {
	segs []detector.Segment
	err  error
}

func (f fakeDetector) Detect(ctx context.Context, raster []byte) ([]detector.Segment, error) {
	return f.segs, f.err
}

type testEnv struct {
	app     *fiber.App
	repo    *repository.Repository
	storage *service.FileStorage
}

func newTestEnv(t *testing.T, raster detector.Detector) *testEnv {
	t.Helper()
	dir := t.TempDir()

	db, err := repository.OpenSQLite(filepath.Join(dir, "projects.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(context.Background(), "../../../migrations/001_init_projects.sql"))
	storage := service.NewFileStorage(filepath.Join(dir, "uploads"))

	m := mapper.New(mapper.DefaultConfig())
	imports := NewImportHandler(
		mapper.NewImporter(detector.Ready(raster), m),
		mapper.NewImporter(detector.Ready(detector.NewSVGDetector()), m),
		repo, storage,
	)

	app := fiber.New()
	Register(app, NewProjectHandler(repo, storage), imports)
	return &testEnv{app: app, repo: repo, storage: storage}
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, body
}

func (e *testEnv) create(t *testing.T, name string) plan.Project {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`{"name":"`+name+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, body := e.do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var p plan.Project
	require.NoError(t, json.Unmarshal(body, &p))
	return p
}

func (e *testEnv) save(t *testing.T, id, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/projects/"+id, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return e.do(t, req)
}

func multipartBody(t *testing.T, filename string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

const savedPlan = `{
	"name": "Studio",
	"walls": [
		{"start":{"x":0,"y":0},"end":{"x":100,"y":0}},
		{"start":{"x":100,"y":0},"end":{"x":100,"y":100}}
	],
	"doors": [{"position":{"x":50,"y":0},"rotation":0,"width":40,"direction":"inside"}],
	"windows": [{"position":{"x":100,"y":50},"rotation":1.5707963267948966,"width":40}]
}`

// ============================================================
// CRUD
// ============================================================

func TestProjectLifecycle(t *testing.T) {
	env := newTestEnv(t, fakeDetector{})
	p := env.create(t, "Studio")
	assert.Empty(t, p.Walls)

	resp, body := env.save(t, p.ID, savedPlan)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = env.do(t, httptest.NewRequest(http.MethodGet, "/projects/"+p.ID, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got plan.Project
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Len(t, got.Walls, 2)
	assert.Len(t, got.Doors, 1)
	assert.Len(t, got.Windows, 1)

	resp, body = env.do(t, httptest.NewRequest(http.MethodGet, "/projects", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []models.Summary
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Walls)

	resp, _ = env.do(t, httptest.NewRequest(http.MethodDelete, "/projects/"+p.ID, nil))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/projects/"+p.ID, nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreate_DefaultName(t *testing.T) {
	env := newTestEnv(t, fakeDetector{})
	resp, body := env.do(t, httptest.NewRequest(http.MethodPost, "/projects", nil))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, string(body), "Untitled plan")
}

func TestUpdate_RejectsInvalidGeometryAndKeepsStoredPlan(t *testing.T) {
	env := newTestEnv(t, fakeDetector{})
	p := env.create(t, "Studio")
	resp, _ := env.save(t, p.ID, savedPlan)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.save(t, p.ID, `{"walls":[{"start":{"x":1,"y":1},"end":{"x":1,"y":1}}]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.save(t, p.ID, `{"walls":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	stored, err := env.repo.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Walls, 2)
}

func TestUpdate_MissingCollectionsAndName(t *testing.T) {
	env := newTestEnv(t, fakeDetector{})
	p := env.create(t, "Keep me")

	resp, body := env.save(t, p.ID, `{"walls":[{"start":{"x":0,"y":0},"end":{"x":0,"y":60}}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var got plan.Project
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Keep me", got.Name)
	assert.Contains(t, string(body), `"doors":[]`)
	assert.Contains(t, string(body), `"windows":[]`)
}

func TestUpdate_UnknownProject(t *testing.T) {
	env := newTestEnv(t, fakeDetector{})
	resp, _ := env.save(t, "missing", savedPlan)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ============================================================
// Import
// ============================================================

func TestImport_MapsSegments(t *testing.T) {
	env := newTestEnv(t, fakeDetector{segs: []detector.Segment{{X1: 0, Y1: 0, X2: 100, Y2: 0}}})
	p := env.create(t, "Imported")

	body, ct := multipartBody(t, "plan.png", []byte("raster bytes"), map[string]string{"project": p.ID})
	req := httptest.NewRequest(http.MethodPost, "/import", body)
	req.Header.Set("Content-Type", ct)
	resp, raw := env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var out models.ImportResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 1, out.Segments)
	assert.Equal(t, []plan.Wall{{Start: plan.Point{X: -240, Y: -180}, End: plan.Point{X: -200, Y: -180}}}, out.Walls)
	assert.NotEmpty(t, out.Upload)
	assert.Equal(t, []string{out.Upload}, env.storage.ListUploads(p.ID))
}

func TestImport_SVGUsesVectorDetector(t *testing.T) {
	env := newTestEnv(t, fakeDetector{err: errors.New("raster path must not run")})
	doc := `<svg viewBox="0 0 1200 900"><line class="wall" x1="0" y1="450" x2="1200" y2="450"/></svg>`

	body, ct := multipartBody(t, "plan.svg", []byte(doc), nil)
	req := httptest.NewRequest(http.MethodPost, "/import", body)
	req.Header.Set("Content-Type", ct)
	resp, raw := env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var out models.ImportResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out.Walls, 1)
	assert.InDelta(t, 0, out.Walls[0].Start.Y, 1e-9)
	assert.Empty(t, out.Upload)
}

func TestImport_DetectorFailureIsBadGateway(t *testing.T) {
	env := newTestEnv(t, fakeDetector{err: errors.New("cannot decode")})

	body, ct := multipartBody(t, "plan.png", []byte("raster"), nil)
	req := httptest.NewRequest(http.MethodPost, "/import", body)
	req.Header.Set("Content-Type", ct)
	resp, raw := env.do(t, req)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, string(raw), "line detector failed")
}

func TestImport_DetectorNotReady(t *testing.T) {
	env := newTestEnv(t, nil)

	body, ct := multipartBody(t, "plan.png", []byte("raster"), nil)
	req := httptest.NewRequest(http.MethodPost, "/detect", body)
	req.Header.Set("Content-Type", ct)
	resp, _ := env.do(t, req)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestImport_RequiresFile(t *testing.T) {
	env := newTestEnv(t, fakeDetector{})
	resp, _ := env.do(t, httptest.NewRequest(http.MethodPost, "/import", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImport_UnknownProject(t *testing.T) {
	env := newTestEnv(t, fakeDetector{})
	body, ct := multipartBody(t, "plan.png", []byte("raster"), map[string]string{"project": "missing"})
	req := httptest.NewRequest(http.MethodPost, "/import", body)
	req.Header.Set("Content-Type", ct)
	resp, _ := env.do(t, req)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDetect_ReturnsRawSegments(t *testing.T) {
	env := newTestEnv(t, fakeDetector{segs: []detector.Segment{{X1: 1, Y1: 2, X2: 3, Y2: 4}}})

	body, ct := multipartBody(t, "plan.jpg", []byte("raster"), nil)
	req := httptest.NewRequest(http.MethodPost, "/detect", body)
	req.Header.Set("Content-Type", ct)
	resp, raw := env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out models.DetectResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, detector.CanvasWidth, out.Width)
	assert.Equal(t, detector.CanvasHeight, out.Height)
	assert.Equal(t, []detector.Segment{{X1: 1, Y1: 2, X2: 3, Y2: 4}}, out.Segments)
}

// ============================================================
// Renderings
// ============================================================

func TestRenderings(t *testing.T) {
	env := newTestEnv(t, fakeDetector{})
	p := env.create(t, "Studio")
	resp, _ := env.save(t, p.ID, savedPlan)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := env.do(t, httptest.NewRequest(http.MethodGet, "/projects/"+p.ID+"/preview.png?width=300&height=200", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	resp, raw = env.do(t, httptest.NewRequest(http.MethodGet, "/projects/"+p.ID+"/svg", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `id="Wall_1"`)

	resp, raw = env.do(t, httptest.NewRequest(http.MethodGet, "/projects/"+p.ID+"/scene", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var scene scene3d.Scene
	require.NoError(t, json.Unmarshal(raw, &scene))
	assert.Len(t, scene.Walls, 2)
	assert.Len(t, scene.Doors, 1)
	assert.Len(t, scene.Windows, 1)

	resp, raw = env.do(t, httptest.NewRequest(http.MethodGet, "/projects/"+p.ID+"/scene.stl", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(raw), "solid plan"))
}

func TestPreview_BadParams(t *testing.T) {
	env := newTestEnv(t, fakeDetector{})
	p := env.create(t, "Studio")

	resp, _ := env.do(t, httptest.NewRequest(http.MethodGet, "/projects/"+p.ID+"/preview.png?width=abc", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/projects/"+p.ID+"/preview.png?width=100000", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/projects/"+p.ID+"/preview.png?theme=neon", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/projects/missing/svg", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, fakeDetector{})
	resp, _ := env.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
