// Package models tracks all api models for request and responses
package models

import (
	"github.com/aouyang1/climbcraft/canvas"
	"github.com/aouyang1/climbcraft/catalog"
	"github.com/aouyang1/climbcraft/store"
	"github.com/google/uuid"
)

// Gesture phases. A gesture reports any number of changed events followed by one ended event.
const (
	PhaseChanged = "changed"
	PhaseEnded   = "ended"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type BrandListResponse struct {
	Brands []catalog.Brand `json:"brands"`
}

type BrandResponse struct {
	Brand catalog.Brand  `json:"brand"`
	Holds []catalog.Hold `json:"holds"`
}

type GroupHoldsResponse struct {
	Brand string         `json:"brand"`
	Group string         `json:"group"`
	Holds []catalog.Hold `json:"holds"`
}

type RegisterHoldRequest struct {
	HoldName  string `json:"hold_name"`
	GroupName string `json:"group_name"`
}

type RegisterHoldResponse struct {
	HoldName  string `json:"hold_name"`
	GroupName string `json:"group_name"`
	Order     int    `json:"order"`
	Message   string `json:"message"`
}

type HoldListResponse struct {
	Holds []store.Hold `json:"holds"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

type ViewportRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ImageInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type ActiveHold struct {
	Hold      catalog.Hold     `json:"hold"`
	Placement canvas.Placement `json:"placement"`
	Replaces  *uuid.UUID       `json:"replaces,omitempty"`
}

type SessionResponse struct {
	Viewport   canvas.Size         `json:"viewport"`
	MaxScale   float64             `json:"max_scale"`
	Background *ImageInfo          `json:"background,omitempty"`
	View       canvas.View         `json:"view"`
	Overflow   canvas.Point        `json:"overflow"`
	State      canvas.EditState    `json:"state"`
	Active     *ActiveHold         `json:"active,omitempty"`
	Holds      []canvas.PlacedHold `json:"holds"`
}

type PanRequest struct {
	Phase       string       `json:"phase"`
	Translation canvas.Point `json:"translation"`
}

type ZoomRequest struct {
	Phase     string  `json:"phase"`
	Magnitude float64 `json:"magnitude"`
}

// BeginHoldRequest picks a hold either by id or by brand and display name.
// A missing placement starts the hold at the viewport centre.
type BeginHoldRequest struct {
	HoldID    string            `json:"hold_id"`
	Brand     string            `json:"brand"`
	HoldName  string            `json:"hold_name"`
	Placement *canvas.Placement `json:"placement"`
}

type DragRequest struct {
	Phase       string       `json:"phase"`
	Translation canvas.Point `json:"translation"`
}

// RotateRequest carries the gesture's cumulative angle in radians.
type RotateRequest struct {
	Phase string  `json:"phase"`
	Angle float64 `json:"angle"`
}

type ScaleRequest struct {
	Phase     string  `json:"phase"`
	Magnitude float64 `json:"magnitude"`
}

type UpdateSettingsRequest struct {
	MaxScale     float64 `json:"max_scale"`
	TargetMaxDim int     `json:"target_max_dim"`
}
