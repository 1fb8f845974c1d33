package canvas

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/climbcraft/catalog"
	"github.com/google/uuid"
)

var (
	ErrNoBackground   = errors.New("no background image")
	ErrNotEditing     = errors.New("no hold is being edited")
	ErrAlreadyEditing = errors.New("a hold is already being edited")
	ErrHoldNotFound   = errors.New("placed hold not found")
	ErrInvalidSize    = errors.New("size must be positive")
)

type EditState int

const (
	Idle EditState = iota
	Editing
	Confirmed
	Cancelled
)

func (s EditState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (s EditState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *EditState) UnmarshalText(text []byte) error {
	for _, st := range []EditState{Idle, Editing, Confirmed, Cancelled} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown edit state %q", text)
}

// Placement is a hold's on-screen transform. Position is the image's top-left
// corner; scale and rotation apply about that corner.
type Placement struct {
	Position Point   `json:"position"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
}

// DragDelta converts a screen-space drag into the hold's local frame: the
// translation is rotated by -rotation and divided by scale.
func DragDelta(translation Point, rotation, scale float64) Point {
	if scale == 0 {
		scale = 1
	}
	return translation.Mul(1 / scale).Rotate(-rotation)
}

// Editor manipulates the one active hold before it is committed.
type Editor struct {
	maxScale float64

	state    EditState
	hold     catalog.Hold
	replaces uuid.UUID
	current  Placement

	dragging       bool
	dragOrigin     Point
	committedScale float64
	committedAngle float64
}

func NewEditor(maxScale float64) *Editor {
	return &Editor{maxScale: math.Max(maxScale, MinScale)}
}

func (e *Editor) State() EditState { return e.state }

func (e *Editor) Editing() bool { return e.state == Editing }

// Active returns the hold under edit and its current placement.
func (e *Editor) Active() (catalog.Hold, Placement, bool) {
	if e.state != Editing {
		return catalog.Hold{}, Placement{}, false
	}
	return e.hold, e.current, true
}

// Replaces is the id of the placed hold being re-edited, or uuid.Nil for a new hold.
func (e *Editor) Replaces() uuid.UUID { return e.replaces }

// Begin starts editing hold from placement p. replaces names the placed hold
// this edit will supersede on confirm. A new hold's scale is capped at the
// maximum scale; a re-edited hold keeps its displayed size.
func (e *Editor) Begin(hold catalog.Hold, p Placement, replaces uuid.UUID) error {
	if e.state == Editing {
		return ErrAlreadyEditing
	}
	if p.Scale <= 0 {
		p.Scale = 1
	}
	if replaces == uuid.Nil {
		p.Scale = math.Min(p.Scale, e.maxScale)
	}
	e.state = Editing
	e.hold = hold
	e.replaces = replaces
	e.current = p
	e.dragging = false
	e.committedScale = p.Scale
	e.committedAngle = p.Rotation
	return nil
}

// DragChanged moves the hold by the drag's cumulative screen translation,
// compensated for the hold's rotation and scale.
func (e *Editor) DragChanged(translation Point) error {
	if e.state != Editing {
		return ErrNotEditing
	}
	if !e.dragging {
		e.dragging = true
		e.dragOrigin = e.current.Position
	}
	e.current.Position = e.dragOrigin.Add(DragDelta(translation, e.current.Rotation, e.current.Scale))
	return nil
}

func (e *Editor) DragEnded() error {
	if e.state != Editing {
		return ErrNotEditing
	}
	e.dragging = false
	return nil
}

// RotateChanged sets the rotation to the committed rotation plus the gesture's
// cumulative angle.
func (e *Editor) RotateChanged(angle float64) error {
	if e.state != Editing {
		return ErrNotEditing
	}
	e.current.Rotation = e.committedAngle + angle
	return nil
}

func (e *Editor) RotateEnded() error {
	if e.state != Editing {
		return ErrNotEditing
	}
	e.committedAngle = e.current.Rotation
	return nil
}

// ScaleChanged sets the scale to magnitude times the last committed scale,
// capped at the maximum scale. Non-positive magnitudes are ignored.
func (e *Editor) ScaleChanged(magnitude float64) error {
	if e.state != Editing {
		return ErrNotEditing
	}
	if magnitude <= 0 {
		return nil
	}
	e.current.Scale = math.Min(e.maxScale, magnitude*e.committedScale)
	return nil
}

func (e *Editor) ScaleEnded() error {
	if e.state != Editing {
		return ErrNotEditing
	}
	e.committedScale = e.current.Scale
	return nil
}

// Confirm ends the edit and hands back the final placement.
func (e *Editor) Confirm() (catalog.Hold, Placement, uuid.UUID, error) {
	if e.state != Editing {
		return catalog.Hold{}, Placement{}, uuid.Nil, ErrNotEditing
	}
	e.state = Confirmed
	e.dragging = false
	return e.hold, e.current, e.replaces, nil
}

// Cancel discards the active hold.
func (e *Editor) Cancel() error {
	if e.state != Editing {
		return ErrNotEditing
	}
	e.state = Cancelled
	e.dragging = false
	e.hold = catalog.Hold{}
	e.replaces = uuid.Nil
	return nil
}

// follow moves the active hold along with the background: position and
// origin are the new screen points of the hold and of its drag origin, k is
// the change in display scale.
func (e *Editor) follow(position, origin Point, k float64) {
	if e.state != Editing {
		return
	}
	e.current.Position = position
	e.current.Scale *= k
	e.committedScale *= k
	if e.dragging {
		e.dragOrigin = origin
	}
}
