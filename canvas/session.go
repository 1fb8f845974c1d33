package canvas

import (
	"image"
	"math"

	"github.com/aouyang1/climbcraft/catalog"
	"github.com/google/uuid"
)

// PlacedHold is a committed hold as currently displayed.
type PlacedHold struct {
	ID   uuid.UUID    `json:"id"`
	Hold catalog.Hold `json:"hold"`
	Placement
}

// placed is a committed hold anchored to the wall. Position is normalized wall
// coordinates and scale is relative to the background's displayed width, so
// records never change when the background is panned or zoomed.
type placed struct {
	id       uuid.UUID
	hold     catalog.Hold
	wall     Point
	scale    float64
	rotation float64
}

// WallLayer is a placed hold expressed in background pixels.
type WallLayer struct {
	Hold     catalog.Hold
	Origin   Point
	Scale    float64
	Rotation float64
}

// Session is the state of one wall being edited.
type Session struct {
	viewport Size
	maxScale float64

	background image.Image
	panZoom    *PanZoom
	holds      []placed
	editor     *Editor
}

func NewSession(viewport Size, maxScale float64) (*Session, error) {
	if !viewport.Valid() {
		return nil, ErrInvalidSize
	}
	return &Session{
		viewport: viewport,
		maxScale: math.Max(maxScale, MinScale),
		editor:   NewEditor(maxScale),
	}, nil
}

func (s *Session) Viewport() Size { return s.viewport }

func (s *Session) MaxScale() float64 { return s.maxScale }

func (s *Session) Editor() *Editor { return s.editor }

func (s *Session) Background() image.Image { return s.background }

func (s *Session) HasBackground() bool { return s.background != nil }

func imageSize(img image.Image) Size {
	b := img.Bounds()
	return Size{float64(b.Dx()), float64(b.Dy())}
}

// SetBackground replaces the wall. Placed holds and any edit in progress
// belonged to the previous wall and are dropped.
func (s *Session) SetBackground(img image.Image) error {
	if img == nil || !imageSize(img).Valid() {
		return ErrInvalidSize
	}
	s.background = img
	s.panZoom = NewPanZoom(s.viewport, imageSize(img), s.maxScale)
	s.holds = nil
	if s.editor.Editing() {
		_ = s.editor.Cancel()
	}
	return nil
}

func (s *Session) ClearBackground() {
	s.background = nil
	s.panZoom = nil
	s.holds = nil
	if s.editor.Editing() {
		_ = s.editor.Cancel()
	}
}

// View is the background's transform. It is the identity without a background.
func (s *Session) View() View {
	if s.panZoom == nil {
		return View{Scale: 1}
	}
	return s.panZoom.View()
}

// Overflow is the current pan bound per axis.
func (s *Session) Overflow() Point {
	if s.panZoom == nil {
		return Point{}
	}
	return s.panZoom.Overflow()
}

// displayWidth is the on-screen width of the background.
func (s *Session) displayWidth() float64 {
	return s.panZoom.Content().Width * s.panZoom.View().Scale
}

// lockstep runs op against the background transform and carries the active
// hold along so it stays on the same spot of the wall.
func (s *Session) lockstep(op func()) {
	pz := s.panZoom
	before := s.displayWidth()

	var active, origin Point
	editing := s.editor.Editing()
	if editing {
		active = pz.ToWall(s.editor.current.Position)
		origin = pz.ToWall(s.editor.dragOrigin)
	}

	op()

	if !editing {
		return
	}
	k := s.displayWidth() / before
	s.editor.follow(pz.ToScreen(active), pz.ToScreen(origin), k)
}

func (s *Session) PanChanged(translation Point) error {
	if s.panZoom == nil {
		return ErrNoBackground
	}
	s.lockstep(func() { s.panZoom.PanChanged(translation) })
	return nil
}

func (s *Session) PanEnded() error {
	if s.panZoom == nil {
		return ErrNoBackground
	}
	s.lockstep(s.panZoom.PanEnded)
	return nil
}

func (s *Session) ZoomChanged(magnitude float64) error {
	if s.panZoom == nil {
		return ErrNoBackground
	}
	s.lockstep(func() { s.panZoom.ZoomChanged(magnitude) })
	return nil
}

func (s *Session) ZoomEnded() error {
	if s.panZoom == nil {
		return ErrNoBackground
	}
	s.lockstep(s.panZoom.ZoomEnded)
	return nil
}

// Resize changes the viewport. Holds keep their place on the wall.
func (s *Session) Resize(viewport Size) error {
	if !viewport.Valid() {
		return ErrInvalidSize
	}
	s.viewport = viewport
	if s.panZoom == nil {
		return nil
	}
	s.lockstep(func() { s.panZoom.Resize(viewport, imageSize(s.background)) })
	return nil
}

// WallPosition maps a viewport point to normalized wall coordinates.
func (s *Session) WallPosition(p Point) (Point, bool) {
	if s.panZoom == nil {
		return Point{}, false
	}
	return s.panZoom.ToWall(p), true
}

// ScreenPosition maps normalized wall coordinates to the viewport.
func (s *Session) ScreenPosition(u Point) (Point, bool) {
	if s.panZoom == nil {
		return Point{}, false
	}
	return s.panZoom.ToScreen(u), true
}

// DefaultPlacement puts a new hold at the viewport centre, unscaled and upright.
func (s *Session) DefaultPlacement() Placement {
	return Placement{Position: s.viewport.Center(), Scale: 1}
}

// BeginHold starts placing a new hold.
func (s *Session) BeginHold(hold catalog.Hold, p Placement) error {
	if s.panZoom == nil {
		return ErrNoBackground
	}
	return s.editor.Begin(hold, p, uuid.Nil)
}

// EditHold re-enters editing for a placed hold, starting from its stored transform.
func (s *Session) EditHold(id uuid.UUID) error {
	if s.panZoom == nil {
		return ErrNoBackground
	}
	i := s.indexOf(id)
	if i < 0 {
		return ErrHoldNotFound
	}
	return s.editor.Begin(s.holds[i].hold, s.screenPlacement(s.holds[i]), id)
}

// Confirm commits the active hold. A re-edited hold is replaced in place by a new record.
func (s *Session) Confirm() (PlacedHold, error) {
	if s.panZoom == nil {
		return PlacedHold{}, ErrNoBackground
	}
	hold, p, replaces, err := s.editor.Confirm()
	if err != nil {
		return PlacedHold{}, err
	}

	rec := placed{
		id:       uuid.New(),
		hold:     hold,
		wall:     s.panZoom.ToWall(p.Position),
		scale:    p.Scale / s.displayWidth(),
		rotation: p.Rotation,
	}
	if i := s.indexOf(replaces); replaces != uuid.Nil && i >= 0 {
		s.holds[i] = rec
	} else {
		s.holds = append(s.holds, rec)
	}
	return s.toPlacedHold(rec), nil
}

func (s *Session) Cancel() error {
	return s.editor.Cancel()
}

// RemoveHold deletes a placed hold. A hold under edit cannot be removed.
func (s *Session) RemoveHold(id uuid.UUID) error {
	i := s.indexOf(id)
	if i < 0 {
		return ErrHoldNotFound
	}
	if s.editor.Editing() && s.editor.Replaces() == id {
		return ErrAlreadyEditing
	}
	s.holds = append(s.holds[:i], s.holds[i+1:]...)
	return nil
}

// Holds returns the placed holds at their current screen transform.
func (s *Session) Holds() []PlacedHold {
	out := make([]PlacedHold, 0, len(s.holds))
	for _, rec := range s.holds {
		out = append(out, s.toPlacedHold(rec))
	}
	return out
}

// Layers returns the placed holds in background pixel space, in placement order.
func (s *Session) Layers() []WallLayer {
	if s.background == nil {
		return nil
	}
	size := imageSize(s.background)
	layers := make([]WallLayer, 0, len(s.holds))
	for _, rec := range s.holds {
		layers = append(layers, WallLayer{
			Hold:     rec.hold,
			Origin:   Point{rec.wall.X * size.Width, rec.wall.Y * size.Height},
			Scale:    rec.scale * size.Width,
			Rotation: rec.rotation,
		})
	}
	return layers
}

func (s *Session) indexOf(id uuid.UUID) int {
	for i, rec := range s.holds {
		if rec.id == id {
			return i
		}
	}
	return -1
}

func (s *Session) screenPlacement(rec placed) Placement {
	return Placement{
		Position: s.panZoom.ToScreen(rec.wall),
		Scale:    rec.scale * s.displayWidth(),
		Rotation: rec.rotation,
	}
}

func (s *Session) toPlacedHold(rec placed) PlacedHold {
	return PlacedHold{ID: rec.id, Hold: rec.hold, Placement: s.screenPlacement(rec)}
}
