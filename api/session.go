package api

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"os"

	"github.com/aouyang1/climbcraft/api/models"
	"github.com/aouyang1/climbcraft/canvas"
	"github.com/aouyang1/climbcraft/catalog"
	"github.com/aouyang1/climbcraft/compositor"
	"github.com/aouyang1/climbcraft/photo"
	"github.com/aouyang1/climbcraft/store"
	"github.com/aouyang1/climbcraft/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	ErrNoSession    = errors.New("no open session")
	ErrInvalidPhase = errors.New("phase must be changed or ended")
	ErrUnknownHold  = errors.New("hold not in catalog")
)

// withSession runs fn against the open session under the session lock.
func (ws *WebServer) withSession(fn func(s *canvas.Session) error) error {
	ws.sessionMu.Lock()
	defer ws.sessionMu.Unlock()
	if ws.session == nil {
		return ErrNoSession
	}
	return fn(ws.session)
}

// sessionError maps a failed precondition onto a status code. State is never
// changed when one of these is returned.
func sessionError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNoSession),
		errors.Is(err, canvas.ErrNoBackground),
		errors.Is(err, canvas.ErrNotEditing),
		errors.Is(err, canvas.ErrAlreadyEditing):
		status = http.StatusConflict
	case errors.Is(err, canvas.ErrHoldNotFound), errors.Is(err, ErrUnknownHold):
		status = http.StatusNotFound
	case errors.Is(err, canvas.ErrInvalidSize), errors.Is(err, ErrInvalidPhase):
		status = http.StatusBadRequest
	}
	c.JSON(status, models.ErrorResponse{Error: err.Error()})
}

func sessionResponse(s *canvas.Session) models.SessionResponse {
	resp := models.SessionResponse{
		Viewport: s.Viewport(),
		MaxScale: s.MaxScale(),
		View:     s.View(),
		Overflow: s.Overflow(),
		State:    s.Editor().State(),
		Holds:    s.Holds(),
	}
	if bg := s.Background(); bg != nil {
		b := bg.Bounds()
		resp.Background = &models.ImageInfo{Width: b.Dx(), Height: b.Dy()}
	}
	if hold, p, ok := s.Editor().Active(); ok {
		active := &models.ActiveHold{Hold: hold, Placement: p}
		if id := s.Editor().Replaces(); id != uuid.Nil {
			active.Replaces = &id
		}
		resp.Active = active
	}
	return resp
}

// update applies fn and answers with the resulting session.
func (ws *WebServer) update(c *gin.Context, fn func(s *canvas.Session) error) {
	var resp models.SessionResponse
	err := ws.withSession(func(s *canvas.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		resp = sessionResponse(s)
		return nil
	})
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// gesture dispatches a changed or ended event.
func (ws *WebServer) gesture(c *gin.Context, phase string, changed, ended func(s *canvas.Session) error) {
	ws.update(c, func(s *canvas.Session) error {
		switch phase {
		case models.PhaseChanged:
			return changed(s)
		case models.PhaseEnded:
			return ended(s)
		default:
			return fmt.Errorf("%w: %q", ErrInvalidPhase, phase)
		}
	})
}

func (ws *WebServer) saveBackground(s *canvas.Session) error {
	bg := s.Background()
	if bg == nil {
		return nil
	}
	return ws.db.SetImage(store.WallImageKey, bg)
}

// handleOpenSession starts a session for the given viewport, restoring the
// last wall. An already open session is saved and replaced.
func (ws *WebServer) handleOpenSession(c *gin.Context) {
	var req models.ViewportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	settings, err := ws.db.GetAppSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to get settings: %v", err)})
		return
	}

	s, err := canvas.NewSession(canvas.Size{Width: req.Width, Height: req.Height}, settings.MaxScale)
	if err != nil {
		sessionError(c, err)
		return
	}

	bg, err := ws.db.GetImage(store.WallImageKey)
	if err != nil {
		slog.Warn("unable to restore wall image", "error", err)
	} else if bg != nil {
		if err := s.SetBackground(bg); err != nil {
			slog.Warn("stored wall image rejected", "error", err)
		}
	}

	ws.sessionMu.Lock()
	defer ws.sessionMu.Unlock()
	if ws.session != nil {
		slog.Info("replacing open session")
		if err := ws.saveBackground(ws.session); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to save wall image: %v", err)})
			return
		}
	}
	ws.session = s

	c.JSON(http.StatusOK, sessionResponse(s))
}

// handleCloseSession saves the wall and ends the session. Placed holds are discarded.
func (ws *WebServer) handleCloseSession(c *gin.Context) {
	ws.sessionMu.Lock()
	defer ws.sessionMu.Unlock()
	if ws.session == nil {
		sessionError(c, ErrNoSession)
		return
	}

	if err := ws.saveBackground(ws.session); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to save wall image: %v", err)})
		return
	}
	ws.session = nil

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Session closed"})
}

func (ws *WebServer) handleGetSession(c *gin.Context) {
	ws.update(c, func(s *canvas.Session) error { return nil })
}

func (ws *WebServer) handleResizeViewport(c *gin.Context) {
	var req models.ViewportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	ws.update(c, func(s *canvas.Session) error {
		return s.Resize(canvas.Size{Width: req.Width, Height: req.Height})
	})
}

// handleUploadWall replaces the wall with the uploaded photo.
func (ws *WebServer) handleUploadWall(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "No file provided"})
		return
	}

	if !util.IsSupportedImage(file.Filename) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: fmt.Sprintf("Unsupported file: %s. Supported: .jpeg, .jpg, .png", file.Filename),
		})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to read upload: %v", err)})
		return
	}
	defer f.Close()

	img, err := photo.Decode(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Failed to decode image: %v", err)})
		return
	}

	settings, err := ws.db.GetAppSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to get settings: %v", err)})
		return
	}
	img = photo.Downscale(img, settings.TargetMaxDim)

	ws.update(c, func(s *canvas.Session) error {
		return s.SetBackground(img)
	})
}

func (ws *WebServer) handleWallImage(c *gin.Context) {
	var bg image.Image
	if err := ws.withSession(func(s *canvas.Session) error {
		bg = s.Background()
		return nil
	}); err != nil {
		sessionError(c, err)
		return
	}
	if bg == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "No wall image selected"})
		return
	}

	data, err := photo.EncodePNG(bg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// handleClearWall removes the wall from the session and from storage.
func (ws *WebServer) handleClearWall(c *gin.Context) {
	ws.update(c, func(s *canvas.Session) error {
		if err := ws.db.DeleteKey(store.WallImageKey); err != nil {
			return err
		}
		s.ClearBackground()
		return nil
	})
}

func (ws *WebServer) handlePan(c *gin.Context) {
	var req models.PanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	ws.gesture(c, req.Phase,
		func(s *canvas.Session) error { return s.PanChanged(req.Translation) },
		func(s *canvas.Session) error { return s.PanEnded() },
	)
}

func (ws *WebServer) handleZoom(c *gin.Context) {
	var req models.ZoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	ws.gesture(c, req.Phase,
		func(s *canvas.Session) error { return s.ZoomChanged(req.Magnitude) },
		func(s *canvas.Session) error { return s.ZoomEnded() },
	)
}

func (ws *WebServer) lookupHold(req models.BeginHoldRequest) (catalog.Hold, error) {
	var hold catalog.Hold
	var found bool
	var err error
	if req.HoldID != "" {
		id, parseErr := uuid.Parse(req.HoldID)
		if parseErr != nil {
			return catalog.Hold{}, fmt.Errorf("%w: %s", ErrUnknownHold, req.HoldID)
		}
		hold, found, err = ws.catalog.HoldByID(id)
	} else {
		brand, ok := ws.catalog.Brand(req.Brand)
		if !ok {
			return catalog.Hold{}, fmt.Errorf("%w: brand %s", ErrUnknownHold, req.Brand)
		}
		hold, found, err = ws.catalog.Hold(brand, req.HoldName)
	}
	if err != nil {
		return catalog.Hold{}, err
	}
	if !found {
		return catalog.Hold{}, ErrUnknownHold
	}
	return hold, nil
}

// handleBeginHold starts placing a catalog hold.
func (ws *WebServer) handleBeginHold(c *gin.Context) {
	var req models.BeginHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	hold, err := ws.lookupHold(req)
	if err != nil {
		sessionError(c, err)
		return
	}

	ws.update(c, func(s *canvas.Session) error {
		p := s.DefaultPlacement()
		if req.Placement != nil {
			p = *req.Placement
		}
		return s.BeginHold(hold, p)
	})
}

func placedHoldID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid hold id"})
		return uuid.Nil, false
	}
	return id, true
}

func (ws *WebServer) handleEditHold(c *gin.Context) {
	id, ok := placedHoldID(c)
	if !ok {
		return
	}
	ws.update(c, func(s *canvas.Session) error { return s.EditHold(id) })
}

func (ws *WebServer) handleRemoveHold(c *gin.Context) {
	id, ok := placedHoldID(c)
	if !ok {
		return
	}
	ws.update(c, func(s *canvas.Session) error { return s.RemoveHold(id) })
}

func (ws *WebServer) handleDrag(c *gin.Context) {
	var req models.DragRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	ws.gesture(c, req.Phase,
		func(s *canvas.Session) error { return s.Editor().DragChanged(req.Translation) },
		func(s *canvas.Session) error { return s.Editor().DragEnded() },
	)
}

func (ws *WebServer) handleRotate(c *gin.Context) {
	var req models.RotateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	ws.gesture(c, req.Phase,
		func(s *canvas.Session) error { return s.Editor().RotateChanged(req.Angle) },
		func(s *canvas.Session) error { return s.Editor().RotateEnded() },
	)
}

func (ws *WebServer) handleScale(c *gin.Context) {
	var req models.ScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	ws.gesture(c, req.Phase,
		func(s *canvas.Session) error { return s.Editor().ScaleChanged(req.Magnitude) },
		func(s *canvas.Session) error { return s.Editor().ScaleEnded() },
	)
}

func (ws *WebServer) handleConfirm(c *gin.Context) {
	ws.update(c, func(s *canvas.Session) error {
		placed, err := s.Confirm()
		if err != nil {
			return err
		}
		slog.Info("hold placed", "id", placed.ID, "hold", placed.Hold.Name, "group", placed.Hold.Group)
		return nil
	})
}

func (ws *WebServer) handleCancel(c *gin.Context) {
	ws.update(c, func(s *canvas.Session) error { return s.Cancel() })
}

func (ws *WebServer) loadHoldImage(hold catalog.Hold) (image.Image, error) {
	path, ok := ws.images.Find(hold.Group, hold.Image)
	if !ok {
		return nil, fmt.Errorf("no image for hold %s/%s", hold.Group, hold.Name)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open hold image: %w", err)
	}
	defer f.Close()
	return photo.Decode(f)
}

// handleRender flattens the placed holds onto the wall at full resolution.
// The active hold is not drawn.
func (ws *WebServer) handleRender(c *gin.Context) {
	var bg image.Image
	var wallLayers []canvas.WallLayer
	if err := ws.withSession(func(s *canvas.Session) error {
		bg = s.Background()
		wallLayers = s.Layers()
		return nil
	}); err != nil {
		sessionError(c, err)
		return
	}
	if bg == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "No wall image selected"})
		return
	}

	layers := make([]compositor.Layer, 0, len(wallLayers))
	for _, l := range wallLayers {
		img, err := ws.loadHoldImage(l.Hold)
		if err != nil {
			slog.Warn("skipping hold in render", "hold", l.Hold.Name, "error", err)
			continue
		}
		layers = append(layers, compositor.Layer{
			Image: img,
			Placement: compositor.Placement{
				X:        l.Origin.X,
				Y:        l.Origin.Y,
				Scale:    l.Scale,
				Rotation: l.Rotation,
			},
		})
	}

	data, err := photo.EncodePNG(compositor.Flatten(bg, layers))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}
