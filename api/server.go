// Package api is the main api web server
package api

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/aouyang1/climbcraft/api/client"
	"github.com/aouyang1/climbcraft/api/models"
	"github.com/aouyang1/climbcraft/api/web/templates"
	"github.com/aouyang1/climbcraft/canvas"
	"github.com/aouyang1/climbcraft/catalog"
	"github.com/aouyang1/climbcraft/config"
	"github.com/aouyang1/climbcraft/store"
	"github.com/gin-gonic/gin"
)

//go:embed web/templates/* web/static/**
var webFiles embed.FS

type WebServer struct {
	router  *gin.Engine
	db      *store.Database
	catalog *catalog.Catalog
	images  catalog.ImageDir
	logos   catalog.ImageDir
	cfg     *config.Config

	localManager  *LocalManager
	remoteManager *RemoteManager

	// one wall is edited at a time; every handler touching it holds sessionMu
	sessionMu sync.Mutex
	session   *canvas.Session
}

// NewWebServer serves cat with db as the registry for groups the catalog does
// not enumerate itself.
func NewWebServer(db *store.Database, cat *catalog.Catalog, cfg *config.Config) *WebServer {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	ws := &WebServer{
		router:  router,
		db:      db,
		catalog: cat.WithSource(db),
		images:  catalog.ImageDir{Path: cfg.HoldsPath()},
		logos:   catalog.ImageDir{Path: cfg.BrandsPath()},
		cfg:     cfg,
	}

	ws.setupRoutes()

	return ws
}

func (ws *WebServer) Handler() http.Handler {
	return ws.router
}

func (ws *WebServer) setupRoutes() {
	staticFS, err := fs.Sub(webFiles, "web/static")
	if err != nil {
		log.Fatalf("Failed to create static filesystem: %v", err)
	}

	templatesFS, err := fs.Sub(webFiles, "web/templates")
	if err != nil {
		log.Fatalf("Failed to create templates filesystem: %v", err)
	}

	ws.router.StaticFS("static", http.FS(staticFS))

	favicon := func(c *gin.Context) {
		data, err := webFiles.ReadFile("web/static/images/favicon.svg")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", data)
	}
	ws.router.GET("/favicon.ico", favicon)
	ws.router.GET("/favicon.svg", favicon)

	ws.router.GET("/", func(c *gin.Context) {
		data, err := fs.ReadFile(templatesFS, "index.html")
		if err != nil {
			slog.Error("failed to read index.html", "error", err)
			c.String(http.StatusInternalServerError, "Failed to load index.html")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	})
	ws.router.GET("/ui/brands", ws.handleUIBrands)
	ws.router.GET("/ui/brands/:brand", ws.handleUIBrandHolds)

	// catalog
	ws.router.GET("/brands", ws.handleListBrands)
	ws.router.GET("/brands/:brand", ws.handleGetBrand)
	ws.router.GET("/brands/:brand/image", ws.handleBrandImage)
	ws.router.GET("/brands/:brand/groups/:group/holds", ws.handleGroupHolds)
	ws.router.GET("/holds/:group/:name/image", ws.handleHoldImage)

	// hold registry
	ws.router.POST("/holds/register", ws.handleRegisterHold)
	ws.router.GET("/holds", ws.handleListHolds)
	ws.router.DELETE("/holds/:name/group/:group", ws.handleDeleteHold)

	// wall session
	ws.router.POST("/session/open", ws.handleOpenSession)
	ws.router.POST("/session/close", ws.handleCloseSession)
	ws.router.GET("/session", ws.handleGetSession)
	ws.router.PUT("/session/viewport", ws.handleResizeViewport)
	ws.router.POST("/wall", ws.handleUploadWall)
	ws.router.GET("/wall/image", ws.handleWallImage)
	ws.router.DELETE("/wall", ws.handleClearWall)
	ws.router.POST("/session/pan", ws.handlePan)
	ws.router.POST("/session/zoom", ws.handleZoom)
	ws.router.POST("/session/holds", ws.handleBeginHold)
	ws.router.POST("/session/holds/:id/edit", ws.handleEditHold)
	ws.router.DELETE("/session/holds/:id", ws.handleRemoveHold)
	ws.router.POST("/session/active/drag", ws.handleDrag)
	ws.router.POST("/session/active/rotate", ws.handleRotate)
	ws.router.POST("/session/active/scale", ws.handleScale)
	ws.router.POST("/session/active/confirm", ws.handleConfirm)
	ws.router.POST("/session/active/cancel", ws.handleCancel)
	ws.router.GET("/session/render.png", ws.handleRender)

	ws.router.GET("/settings", ws.handleGetSettings)
	ws.router.PUT("/settings", ws.handleUpdateSettings)
}

// Run binds the listener, starts the asset managers and serves until ctx is
// cancelled. The managers register holds over HTTP, so they start only once
// the listener accepts connections.
func (ws *WebServer) Run(ctx context.Context) error {
	addr := ":" + ws.cfg.Port
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ws.Serve(ctx, ln)
}

// Serve runs the server on ln. The asset managers talk to WebServerURL.
func (ws *WebServer) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler: ws.router,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting web server", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if err := ws.startManagers(ctx); err != nil {
		server.Close()
		return err
	}

	select {
	case <-ctx.Done():
		slog.Info("shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		ws.persistSession()
		return nil
	case err := <-serverErr:
		return err
	}
}

func (ws *WebServer) startManagers(ctx context.Context) error {
	holdClient := client.NewCatalogClient(ws.cfg.WebServerURL)

	var remoteUpdated <-chan struct{}
	if ws.cfg.RemoteEnabled() {
		remoteManager, err := NewRemoteManager(ctx, ws.cfg, holdClient)
		if err != nil {
			return fmt.Errorf("failed to initialize remote manager: %w", err)
		}
		ws.remoteManager = remoteManager
		remoteUpdated = remoteManager.Updated
		go ws.remoteManager.Run(ctx)
	}

	localManager, err := NewLocalManager(ws.images, ws.catalog.GroupNames, holdClient)
	if err != nil {
		return fmt.Errorf("failed to initialize local manager: %w", err)
	}
	ws.localManager = localManager
	go ws.localManager.Run(ctx, remoteUpdated)
	return nil
}

// persistSession saves the open session's wall so it survives a restart.
func (ws *WebServer) persistSession() {
	ws.sessionMu.Lock()
	defer ws.sessionMu.Unlock()
	if ws.session == nil {
		return
	}
	if err := ws.saveBackground(ws.session); err != nil {
		slog.Error("failed to persist wall image", "error", err)
	}
}

func render(c *gin.Context, status int, component templ.Component) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		slog.Error("failed to render component", "error", err)
	}
}

func (ws *WebServer) handleUIBrands(c *gin.Context) {
	render(c, http.StatusOK, templates.BrandList(ws.catalog.Brands, ws.hasLogo))
}

func (ws *WebServer) handleUIBrandHolds(c *gin.Context) {
	brand, ok := ws.catalog.Brand(c.Param("brand"))
	if !ok {
		c.String(http.StatusNotFound, "Unknown brand")
		return
	}

	holds, err := ws.catalog.Holds(brand)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("Error resolving holds: %v", err))
		return
	}

	render(c, http.StatusOK, templates.BrandHolds(brand, holds))
}

func (ws *WebServer) handleGetSettings(c *gin.Context) {
	settings, err := ws.db.GetAppSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to get settings: %v", err)})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// handleUpdateSettings stores new settings. They apply from the next opened session or uploaded wall.
func (ws *WebServer) handleUpdateSettings(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	if req.MaxScale < canvas.MinScale {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("max_scale must be at least %v", canvas.MinScale)})
		return
	}
	if req.TargetMaxDim <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "target_max_dim must be positive"})
		return
	}

	settings := &store.AppSettings{
		MaxScale:     req.MaxScale,
		TargetMaxDim: req.TargetMaxDim,
	}
	if err := ws.db.UpsertAppSettings(settings); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to update settings: %v", err)})
		return
	}

	c.JSON(http.StatusOK, settings)
}
