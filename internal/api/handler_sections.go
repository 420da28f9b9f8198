package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"showerroom-status-backend/internal/model"
	"showerroom-status-backend/internal/parse"
)

type createSectionRequest struct {
	Total *int `json:"total" binding:"required"`
}

type transitionRequest struct {
	CurrentStatus string `json:"current_status" binding:"required"`
	NextStatus    string `json:"next_status" binding:"required"`
}

// ListSections handles GET /api/showerrooms.
func (h *Handler) ListSections(c *gin.Context) {
	sections, err := h.service.Store().FindAll(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sections)
}

// GetSectionsByGender handles GET /api/showerrooms/:gender.
func (h *Handler) GetSectionsByGender(c *gin.Context) {
	sections, err := h.service.Store().FindByGender(c.Request.Context(), c.Param("gender"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sections)
}

// GetSectionsByBuilding handles GET /api/showerrooms/:gender/:building.
func (h *Handler) GetSectionsByBuilding(c *gin.Context) {
	sections, err := h.service.Store().FindByBuilding(c.Request.Context(), c.Param("gender"), c.Param("building"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sections)
}

// GetSectionsByFloor handles GET /api/showerrooms/:gender/:building/:floor.
func (h *Handler) GetSectionsByFloor(c *gin.Context) {
	loc, ok := locationParam(c)
	if !ok {
		return
	}

	sections, err := h.service.Store().FindByFloor(c.Request.Context(), loc)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sections)
}

// CreateSection handles POST /api/showerrooms/:gender/:building/:floor.
func (h *Handler) CreateSection(c *gin.Context) {
	loc, ok := locationParam(c)
	if !ok {
		return
	}

	var req createSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	section, err := h.service.Create(c.Request.Context(), loc, *req.Total)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, section)
}

// UpdateUsageAt handles PATCH /api/showerrooms/:gender/:building/:floor.
func (h *Handler) UpdateUsageAt(c *gin.Context) {
	loc, ok := locationParam(c)
	if !ok {
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := h.service.UpdateUsageAt(c.Request.Context(), loc, req.CurrentStatus, req.NextStatus)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

// GetSection handles GET /api/sections/:id.
func (h *Handler) GetSection(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	section, err := h.service.Store().FindByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

// UpdateUsage handles PATCH /api/sections/:id/usage.
func (h *Handler) UpdateUsage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := h.service.UpdateUsage(c.Request.Context(), id, req.CurrentStatus, req.NextStatus)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

// DeleteSection handles DELETE /api/sections/:id.
func (h *Handler) DeleteSection(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func locationParam(c *gin.Context) (model.Location, bool) {
	floor, err := parse.Floor(c.Param("floor"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return model.Location{}, false
	}
	return model.Location{Gender: c.Param("gender"), Building: c.Param("building"), Floor: floor}, true
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid section ID"})
		return 0, false
	}
	return id, true
}
