// Package client talks to the projects service on behalf of the desktop editor.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"structify/internal/importer/detector"
	plan "structify/internal/plan/models"
	"structify/internal/projects/models"
)

// StatusError is a non-2xx answer from the service.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("projects service status %d", e.Status)
	}
	return fmt.Sprintf("projects service status %d: %s", e.Status, e.Message)
}

// IsNotFound reports a 404 from the service.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// ============================================================
// Client
// ============================================================

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) List(ctx context.Context) ([]models.Summary, error) {
	var out []models.Summary
	if err := c.doJSON(ctx, http.MethodGet, "/projects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, name string) (*plan.Project, error) {
	var out plan.Project
	if err := c.doJSON(ctx, http.MethodPost, "/projects", models.CreateRequest{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*plan.Project, error) {
	var out plan.Project
	if err := c.doJSON(ctx, http.MethodGet, "/projects/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Save uploads a snapshot of the plan. The caller's model is never touched, so a failed
// save leaves the editor state as it was.
func (c *Client) Save(ctx context.Context, id, name string, p plan.Plan) (*plan.Project, error) {
	p.Normalize()
	var out plan.Project
	body := plan.Project{Name: name, Plan: p}
	if err := c.doJSON(ctx, http.MethodPut, "/projects/"+id, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Detect runs the service's line detector on raster. It makes the service usable as a
// detector.Detector for the editor's importer.
func (c *Client) Detect(ctx context.Context, raster []byte) ([]detector.Segment, error) {
	segs, _, err := c.DetectCanvas(ctx, raster)
	return segs, err
}

// DetectCanvas is Detect plus the analysis canvas the service measured the segments on.
func (c *Client) DetectCanvas(ctx context.Context, raster []byte) ([]detector.Segment, detector.Canvas, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "plan")
	if err != nil {
		return nil, detector.Canvas{}, err
	}
	if _, err := part.Write(raster); err != nil {
		return nil, detector.Canvas{}, err
	}
	if err := writer.Close(); err != nil {
		return nil, detector.Canvas{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", body)
	if err != nil {
		return nil, detector.Canvas{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out models.DetectResponse
	if err := c.do(req, &out); err != nil {
		return nil, detector.Canvas{}, err
	}
	return out.Segments, detector.Canvas{Width: out.Width, Height: out.Height}, nil
}

// ============================================================
// Transport
// ============================================================

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &payload)
		return &StatusError{Status: resp.StatusCode, Message: payload.Error}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
