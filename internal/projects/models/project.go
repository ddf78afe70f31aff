package models

import (
	"structify/internal/importer/detector"
	plan "structify/internal/plan/models"
)

// ============================================================
// Project API payloads
// ============================================================

// Summary is a project as listed, without its geometry.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Walls     int    `json:"walls"`
	Doors     int    `json:"doors"`
	Windows   int    `json:"windows"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CreateRequest struct {
	Name string `json:"name"`
}

// ImportResponse carries walls mapped from an uploaded plan image.
type ImportResponse struct {
	Walls    []plan.Wall `json:"walls"`
	Segments int         `json:"segments"`
	Upload   string      `json:"upload,omitempty"`
}

// DetectResponse carries raw detector output in analysis-canvas pixels.
type DetectResponse struct {
	Width    int                `json:"width"`
	Height   int                `json:"height"`
	Segments []detector.Segment `json:"segments"`
}
