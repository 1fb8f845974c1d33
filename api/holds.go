package api

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/aouyang1/climbcraft/api/models"
	"github.com/aouyang1/climbcraft/catalog"
	"github.com/aouyang1/climbcraft/store"
	"github.com/gin-gonic/gin"
)

func (ws *WebServer) handleListBrands(c *gin.Context) {
	c.JSON(http.StatusOK, models.BrandListResponse{Brands: ws.catalog.Brands})
}

func (ws *WebServer) handleGetBrand(c *gin.Context) {
	brand, ok := ws.catalog.Brand(c.Param("brand"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: fmt.Sprintf("Brand '%s' not found", c.Param("brand"))})
		return
	}

	holds, err := ws.catalog.Holds(brand)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to resolve holds: %v", err)})
		return
	}

	c.JSON(http.StatusOK, models.BrandResponse{Brand: brand, Holds: holds})
}

func (ws *WebServer) handleGroupHolds(c *gin.Context) {
	brand, ok := ws.catalog.Brand(c.Param("brand"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: fmt.Sprintf("Brand '%s' not found", c.Param("brand"))})
		return
	}

	group := c.Param("group")
	if !slices.Contains(brand.Groups, group) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: fmt.Sprintf("Brand '%s' has no group '%s'", brand.Title, group)})
		return
	}

	holds, err := ws.catalog.Resolve(brand, group)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to resolve holds: %v", err)})
		return
	}

	c.JSON(http.StatusOK, models.GroupHoldsResponse{Brand: brand.Title, Group: group, Holds: holds})
}

func (ws *WebServer) handleHoldImage(c *gin.Context) {
	group, name := c.Param("group"), c.Param("name")
	if !catalog.ValidPathName(group) || !catalog.ValidPathName(name) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid hold path"})
		return
	}

	path, ok := ws.images.Find(group, name)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: fmt.Sprintf("Hold image not found: %s", name)})
		return
	}

	c.File(path)
}

// hasLogo reports whether a logo image exists for brand.
func (ws *WebServer) hasLogo(brand catalog.Brand) bool {
	_, ok := ws.logos.Find("", brand.Image)
	return ok
}

func (ws *WebServer) handleBrandImage(c *gin.Context) {
	brand, ok := ws.catalog.Brand(c.Param("brand"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: fmt.Sprintf("Brand '%s' not found", c.Param("brand"))})
		return
	}

	path, ok := ws.logos.Find("", brand.Image)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: fmt.Sprintf("No logo for brand '%s'", brand.Title)})
		return
	}

	c.File(path)
}

func (ws *WebServer) handleRegisterHold(c *gin.Context) {
	var req models.RegisterHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	if req.HoldName == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "hold_name is required"})
		return
	}
	if req.GroupName == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "group_name is required"})
		return
	}

	if !catalog.ValidPathName(req.GroupName) || !catalog.ValidPathName(req.HoldName) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "group_name and hold_name must not contain path separators"})
		return
	}

	if _, ok := ws.images.Find(req.GroupName, req.HoldName); !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: fmt.Sprintf("Hold image does not exist: %s/%s", req.GroupName, req.HoldName)})
		return
	}

	exists, err := ws.db.HoldExists(req.HoldName, req.GroupName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error: fmt.Sprintf("Hold '%s' already exists in group '%s'", req.HoldName, req.GroupName),
		})
		return
	}

	maxOrder, err := ws.db.GetMaxOrder(req.GroupName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
		return
	}

	if err := ws.db.InsertHold(req.HoldName, req.GroupName, maxOrder); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to insert hold into database: %v", err)})
		return
	}

	c.JSON(http.StatusOK, models.RegisterHoldResponse{
		HoldName:  req.HoldName,
		GroupName: req.GroupName,
		Order:     maxOrder,
		Message:   "Hold registered successfully",
	})
}

// handleListHolds pages through the registry. Without a group every group is listed.
func (ws *WebServer) handleListHolds(c *gin.Context) {
	group := c.Query("group")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid page parameter"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid limit parameter"})
		return
	}

	offset := (page - 1) * limit

	var holds []store.Hold
	var total int
	if group == "" {
		all, err := ws.db.ListHolds()
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
			return
		}
		total = len(all)
		holds = all[min(offset, total):min(offset+limit, total)]
	} else {
		total, err = ws.db.GetHoldCount(group)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
			return
		}
		holds, err = ws.db.GetHolds(group, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
			return
		}
	}
	if holds == nil {
		holds = []store.Hold{}
	}

	c.JSON(http.StatusOK, models.HoldListResponse{
		Holds: holds,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (ws *WebServer) handleDeleteHold(c *gin.Context) {
	name := c.Param("name")
	group := c.Param("group")
	if name == "" || group == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Hold name and group are required"})
		return
	}

	if err := ws.db.DeleteHold(name, group); err != nil {
		if errors.Is(err, store.ErrHoldNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: fmt.Sprintf("Hold '%s' not found", name)})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to delete hold from database: %v", err)})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: fmt.Sprintf("Hold '%s' deleted successfully", name)})
}
