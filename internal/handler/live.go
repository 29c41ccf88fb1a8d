package handler

import (
	"minimart/internal/live"

	"github.com/gin-gonic/gin"
)

// LiveFeed upgrades a signed-in browser to the live event stream.
func LiveFeed(hub *live.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		live.ServeWs(hub, c)
	}
}
