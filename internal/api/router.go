package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"showerroom-status-backend/config"
	"showerroom-status-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg config.ServerConfig, h *Handler) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	responses := mw.NewResponseCache(cfg.CacheTTL)
	caching := mw.Cache(responses)

	api := r.Group("/api")
	api.Use(rateLimiter, mw.Invalidate(responses))
	{
		api.GET("/showerrooms", caching, h.ListSections)
		api.GET("/showerrooms/:gender", caching, h.GetSectionsByGender)
		api.GET("/showerrooms/:gender/:building", caching, h.GetSectionsByBuilding)
		api.GET("/showerrooms/:gender/:building/:floor", caching, h.GetSectionsByFloor)
		api.POST("/showerrooms/:gender/:building/:floor", h.CreateSection)
		api.PATCH("/showerrooms/:gender/:building/:floor", h.UpdateUsageAt)

		api.GET("/sections/:id", caching, h.GetSection)
		api.PATCH("/sections/:id/usage", h.UpdateUsage)
		api.DELETE("/sections/:id", h.DeleteSection)

		api.GET("/events", h.StreamEvents)

		if h.pushEnabled() {
			api.GET("/subscriptions", h.GetSubscription)
			api.PUT("/subscriptions", h.PutSubscription)
			api.DELETE("/subscriptions", h.DeleteSubscription)
			api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
		}
	}

	return r
}
