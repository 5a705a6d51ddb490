package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Igsankya24/krishna-tech-solutions/internal/events"
)

// EventsHandler relays the Redis change feed to dashboards over SSE. Each
// connected dashboard gets its own subscription; Redis does the fan-out.
type EventsHandler struct {
	sub *events.Subscriber
}

func NewEventsHandler(sub *events.Subscriber) *EventsHandler {
	return &EventsHandler{sub: sub}
}

const heartbeatInterval = 25 * time.Second

func (h *EventsHandler) Stream(c *gin.Context) {
	if h.sub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "events_unavailable"})
		return
	}

	ch, stop, err := h.sub.Subscribe(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "events_unavailable"})
		return
	}
	defer stop()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	// Heartbeats keep proxies from reaping idle connections.
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("change", ev)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
