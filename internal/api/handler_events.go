package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StreamEvents handles GET /api/events. Every hub message is written as one
// server-sent event until the client goes away.
func (h *Handler) StreamEvents(c *gin.Context) {
	ctx := c.Request.Context()
	sub := h.hub.Subscribe(ctx)
	defer h.hub.Unsubscribe(sub.ID())

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	log.Printf("Event stream %d opened for %s", sub.ID(), c.ClientIP())
	defer log.Printf("Event stream %d closed", sub.ID())

	for {
		msg, err := sub.Recv(ctx)
		if err != nil {
			return
		}
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", msg); err != nil {
			return
		}
		c.Writer.Flush()
	}
}
