package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/langx-app/server/internal/middleware"
	"github.com/langx-app/server/internal/notify"
)

// RegisterDeviceToken accepts a push token from the messaging platform. The
// upsert is dispatched asynchronously; the response never reflects whether it
// succeeded, and a missing token or session is accepted silently so the
// notification-delivery side is never disturbed.
func RegisterDeviceToken(r *notify.Registrar) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Token string `json:"token"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		sess, _ := middleware.CurrentSession(c)
		r.RegisterToken(sess, req.Token)

		c.JSON(http.StatusAccepted, gin.H{"message": "token accepted"})
	}
}
