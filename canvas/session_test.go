package canvas

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/google/uuid"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(Size{400, 300}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetBackground(image.NewRGBA(image.Rect(0, 0, 800, 600))); err != nil {
		t.Fatal(err)
	}
	return s
}

func place(t *testing.T, s *Session, p Placement) PlacedHold {
	t.Helper()
	if err := s.BeginHold(testHold, p); err != nil {
		t.Fatal(err)
	}
	ph, err := s.Confirm()
	if err != nil {
		t.Fatal(err)
	}
	return ph
}

func TestNewSession_InvalidViewport(t *testing.T) {
	if _, err := NewSession(Size{0, 300}, 5); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("err = %v, want ErrInvalidSize", err)
	}
}

func TestSession_RequiresBackground(t *testing.T) {
	s, err := NewSession(Size{400, 300}, 5)
	if err != nil {
		t.Fatal(err)
	}

	ops := map[string]func() error{
		"pan":        func() error { return s.PanChanged(Point{1, 1}) },
		"pan end":    s.PanEnded,
		"zoom":       func() error { return s.ZoomChanged(2) },
		"zoom end":   s.ZoomEnded,
		"begin hold": func() error { return s.BeginHold(testHold, s.DefaultPlacement()) },
		"edit hold":  func() error { return s.EditHold(uuid.New()) },
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, ErrNoBackground) {
			t.Errorf("%s: err = %v, want ErrNoBackground", name, err)
		}
	}
	if v := s.View(); v.Scale != 1 || v.Offset != (Point{}) {
		t.Errorf("View() = %+v, want identity", v)
	}
	if _, ok := s.WallPosition(Point{1, 1}); ok {
		t.Error("WallPosition succeeded without a background")
	}
}

func TestSession_PlacedHoldsStayOnTheWall(t *testing.T) {
	s := newTestSession(t)
	holds := []PlacedHold{
		place(t, s, Placement{Position: Point{150, 100}, Scale: 1}),
		place(t, s, Placement{Position: Point{20, 280}, Scale: 1.5, Rotation: 0.4}),
	}

	want := make([]Point, len(holds))
	for i, h := range holds {
		want[i], _ = s.WallPosition(h.Position)
	}

	steps := []func() error{
		func() error { return s.ZoomChanged(1.8) },
		func() error { return s.ZoomChanged(2.5) },
		s.ZoomEnded,
		func() error { return s.PanChanged(Point{60, -40}) },
		func() error { return s.PanChanged(Point{-300, 200}) },
		s.PanEnded,
		func() error { return s.ZoomChanged(0.7) },
		s.ZoomEnded,
		func() error { return s.PanChanged(Point{25, 25}) },
		s.PanEnded,
		func() error { return s.Resize(Size{300, 500}) },
	}

	for n, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", n, err)
		}
		for i, h := range s.Holds() {
			got, _ := s.WallPosition(h.Position)
			if !nearPoint(got, want[i]) {
				t.Fatalf("step %d: hold %d wall position %+v, want %+v", n, i, got, want[i])
			}
		}
	}
}

func TestSession_HoldScaleFollowsZoom(t *testing.T) {
	s := newTestSession(t)
	place(t, s, Placement{Position: Point{200, 150}, Scale: 1})

	s.ZoomChanged(2.5)
	s.ZoomEnded()

	h := s.Holds()[0]
	if !near(h.Scale, 2.5) {
		t.Errorf("scale = %v, want 2.5", h.Scale)
	}
	// the viewport centre is the zoom anchor
	if !nearPoint(h.Position, Point{200, 150}) {
		t.Errorf("position = %+v, want {200 150}", h.Position)
	}
}

func TestSession_ActiveHoldFollowsBackground(t *testing.T) {
	s := newTestSession(t)
	if err := s.BeginHold(testHold, Placement{Position: Point{100, 100}, Scale: 1}); err != nil {
		t.Fatal(err)
	}
	_, p, _ := s.Editor().Active()
	want, _ := s.WallPosition(p.Position)

	s.ZoomChanged(2)
	s.ZoomEnded()
	s.PanChanged(Point{80, 10})
	s.PanEnded()

	_, p, _ = s.Editor().Active()
	got, _ := s.WallPosition(p.Position)
	if !nearPoint(got, want) {
		t.Errorf("active hold drifted: %+v, want %+v", got, want)
	}
	if !near(p.Scale, 2) {
		t.Errorf("active scale = %v, want 2", p.Scale)
	}

	ph, err := s.Confirm()
	if err != nil {
		t.Fatal(err)
	}
	if !nearPoint(ph.Position, p.Position) || !near(ph.Scale, p.Scale) {
		t.Errorf("confirmed placement %+v differs from edited %+v", ph.Placement, p)
	}
}

func TestSession_ReEdit(t *testing.T) {
	s := newTestSession(t)
	first := place(t, s, Placement{Position: Point{10, 10}, Scale: 1})
	second := place(t, s, Placement{Position: Point{50, 50}, Scale: 1})

	// cancelling a re-edit leaves the list untouched
	if err := s.EditHold(first.ID); err != nil {
		t.Fatal(err)
	}
	_, p, _ := s.Editor().Active()
	if !nearPoint(p.Position, first.Position) {
		t.Errorf("re-edit starts at %+v, want %+v", p.Position, first.Position)
	}
	s.Editor().DragChanged(Point{30, 0})
	if err := s.Cancel(); err != nil {
		t.Fatal(err)
	}
	if got := s.Holds(); len(got) != 2 || got[0].ID != first.ID || !nearPoint(got[0].Position, first.Position) {
		t.Fatalf("holds after cancel = %+v", got)
	}

	// confirming replaces the record in place with a new one
	s.EditHold(first.ID)
	s.Editor().DragChanged(Point{30, 0})
	updated, err := s.Confirm()
	if err != nil {
		t.Fatal(err)
	}
	got := s.Holds()
	if len(got) != 2 {
		t.Fatalf("len(holds) = %d, want 2", len(got))
	}
	if got[0].ID != updated.ID || got[0].ID == first.ID {
		t.Errorf("holds[0] = %v, want new record %v", got[0].ID, updated.ID)
	}
	if !nearPoint(got[0].Position, Point{40, 10}) {
		t.Errorf("holds[0].Position = %+v, want {40 10}", got[0].Position)
	}
	if got[1].ID != second.ID {
		t.Errorf("holds[1] changed")
	}

	if err := s.EditHold(first.ID); !errors.Is(err, ErrHoldNotFound) {
		t.Errorf("editing a superseded hold: err = %v, want ErrHoldNotFound", err)
	}
}

func TestSession_RemoveHold(t *testing.T) {
	s := newTestSession(t)
	a := place(t, s, Placement{Position: Point{10, 10}, Scale: 1})
	b := place(t, s, Placement{Position: Point{20, 20}, Scale: 1})

	s.EditHold(b.ID)
	if err := s.RemoveHold(b.ID); !errors.Is(err, ErrAlreadyEditing) {
		t.Errorf("removing the hold under edit: err = %v", err)
	}
	s.Cancel()

	if err := s.RemoveHold(a.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveHold(a.ID); !errors.Is(err, ErrHoldNotFound) {
		t.Errorf("second remove: err = %v, want ErrHoldNotFound", err)
	}
	if got := s.Holds(); len(got) != 1 || got[0].ID != b.ID {
		t.Errorf("holds = %+v", got)
	}
}

func TestSession_SetBackgroundResets(t *testing.T) {
	s := newTestSession(t)
	place(t, s, Placement{Position: Point{10, 10}, Scale: 1})
	s.BeginHold(testHold, s.DefaultPlacement())
	s.ZoomChanged(3)
	s.ZoomEnded()

	if err := s.SetBackground(image.NewRGBA(image.Rect(0, 0, 100, 100))); err != nil {
		t.Fatal(err)
	}
	if len(s.Holds()) != 0 {
		t.Error("placed holds survived a new background")
	}
	if s.Editor().Editing() {
		t.Error("edit survived a new background")
	}
	if s.View().Scale != 1 {
		t.Errorf("scale = %v, want 1", s.View().Scale)
	}

	if err := s.SetBackground(nil); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("nil background: err = %v", err)
	}

	s.ClearBackground()
	if s.HasBackground() {
		t.Error("background not cleared")
	}
}

func TestSession_Layers(t *testing.T) {
	s := newTestSession(t)
	place(t, s, Placement{Position: Point{200, 150}, Scale: 1, Rotation: 0.5})
	// zooming must not change where a hold lands on the wall image
	s.ZoomChanged(3)
	s.ZoomEnded()
	s.PanChanged(Point{100, 0})
	s.PanEnded()

	layers := s.Layers()
	if len(layers) != 1 {
		t.Fatalf("len(layers) = %d", len(layers))
	}
	l := layers[0]
	// 800px image shown 400pt wide at zoom 1: one screen point is two pixels
	if !nearPoint(l.Origin, Point{400, 300}) {
		t.Errorf("origin = %+v, want {400 300}", l.Origin)
	}
	if !near(l.Scale, 2) {
		t.Errorf("scale = %v, want 2", l.Scale)
	}
	if math.Abs(l.Rotation-0.5) > eps {
		t.Errorf("rotation = %v, want 0.5", l.Rotation)
	}
	if l.Hold.Name != testHold.Name {
		t.Errorf("hold = %q", l.Hold.Name)
	}
}
