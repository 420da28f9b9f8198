package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"showerroom-status-backend/internal/events"
	"showerroom-status-backend/internal/occupancy"
	"showerroom-status-backend/internal/store"
	"showerroom-status-backend/internal/usage"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	service *occupancy.Service
	hub     *events.Hub
	db      *gorm.DB
	webpush *webpush.Options
}

// NewHandler creates a new API handler. db and webpushOptions may be nil,
// in which case the push subscription routes are not served.
func NewHandler(service *occupancy.Service, hub *events.Hub, db *gorm.DB, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		db:      db,
		webpush: webpushOptions,
	}
}

func (h *Handler) pushEnabled() bool {
	return h.db != nil && h.webpush != nil
}

// abortWithError maps domain errors onto HTTP status codes.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case usage.IsExhausted(err):
		status = http.StatusConflict
	case errors.Is(err, usage.ErrInvalidTransition), errors.Is(err, occupancy.ErrInvalidTotal):
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
