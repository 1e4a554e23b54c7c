package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/langx-app/server/internal/middleware"
	"github.com/langx-app/server/internal/models"
	"github.com/langx-app/server/internal/services"
)

func GetMyProfile(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentClaims(c)
		if !ok {
			c.JSON(401, gin.H{"error": "unauthorized"})
			return
		}

		profile, err := ps.GetProfile(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, models.ErrProfileNotFound) {
				c.JSON(404, models.ErrorResponse("profile not found"))
				return
			}
			c.JSON(500, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(200, models.SuccessResponse(profile, ""))
	}
}

func GetProfile(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.JSON(400, models.ErrorResponse("user ID is required"))
			return
		}

		profile, err := ps.GetProfile(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, models.ErrProfileNotFound) {
				c.JSON(404, models.ErrorResponse("profile not found"))
				return
			}
			c.JSON(500, models.ErrorResponse(err.Error()))
			return
		}

		claims, ok := middleware.CurrentClaims(c)
		if !ok || !claims.IsOwner(id) {
			redactPrivateFields(profile)
		}

		c.JSON(200, models.SuccessResponse(profile, ""))
	}
}

// redactPrivateFields strips the fields only the record's owner may read.
func redactPrivateFields(profile *models.Profile) {
	profile.Email = ""
	profile.FcmToken = nil
	profile.Notifications = 0
	profile.HiddenConversationIds = []string{}
	profile.ClearLocation()
}

// PatchMyProfile merge-writes a partial field set into the caller's record.
func PatchMyProfile(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentClaims(c)
		if !ok {
			c.JSON(401, gin.H{"error": "unauthorized"})
			return
		}

		var fields map[string]interface{}
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(400, models.ErrorResponse(err.Error()))
			return
		}

		if err := ps.MergeProfile(c.Request.Context(), claims.UserID, fields); err != nil {
			c.JSON(400, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(200, models.SuccessResponse(nil, "profile updated"))
	}
}

func UpdatePresence(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentClaims(c)
		if !ok {
			c.JSON(401, gin.H{"error": "unauthorized"})
			return
		}

		var req struct {
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, models.ErrorResponse(err.Error()))
			return
		}

		if err := ps.UpdatePresence(c.Request.Context(), claims.UserID, req.Latitude, req.Longitude); err != nil {
			c.JSON(400, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(200, models.SuccessResponse(nil, "presence updated"))
	}
}

func SetTyping(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentClaims(c)
		if !ok {
			c.JSON(401, gin.H{"error": "unauthorized"})
			return
		}

		var req struct {
			Typing bool `json:"typing"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, models.ErrorResponse(err.Error()))
			return
		}

		if err := ps.SetTyping(c.Request.Context(), claims.UserID, req.Typing); err != nil {
			c.JSON(500, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(200, models.SuccessResponse(nil, ""))
	}
}

func HideConversation(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentClaims(c)
		if !ok {
			c.JSON(401, gin.H{"error": "unauthorized"})
			return
		}

		conversationID := c.Param("conversation_id")
		if err := ps.HideConversation(c.Request.Context(), claims.UserID, conversationID); err != nil {
			c.JSON(400, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(200, models.SuccessResponse(nil, "conversation hidden"))
	}
}

func UnhideConversation(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentClaims(c)
		if !ok {
			c.JSON(401, gin.H{"error": "unauthorized"})
			return
		}

		conversationID := c.Param("conversation_id")
		if err := ps.UnhideConversation(c.Request.Context(), claims.UserID, conversationID); err != nil {
			c.JSON(400, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(200, models.SuccessResponse(nil, "conversation unhidden"))
	}
}

func SetPartnerSearch(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentClaims(c)
		if !ok {
			c.JSON(401, gin.H{"error": "unauthorized"})
			return
		}

		var req struct {
			Searching bool `json:"searching"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, models.ErrorResponse(err.Error()))
			return
		}

		if err := ps.SetSearchingForPartner(c.Request.Context(), claims.UserID, req.Searching); err != nil {
			c.JSON(500, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(200, models.SuccessResponse(nil, ""))
	}
}

func FindPartners(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentClaims(c)
		if !ok {
			c.JSON(401, gin.H{"error": "unauthorized"})
			return
		}

		limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
		if err != nil || limit <= 0 {
			c.JSON(400, models.ErrorResponse("invalid limit"))
			return
		}

		partners, err := ps.FindPartners(c.Request.Context(), claims.UserID, limit)
		if err != nil {
			if errors.Is(err, models.ErrProfileNotFound) {
				c.JSON(http.StatusNotFound, models.ErrorResponse("profile not found"))
				return
			}
			c.JSON(500, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(200, models.ListResponse(partners, len(partners)))
	}
}

// ClearNotifications resets the unread counter after the client has shown
// them.
func ClearNotifications(ps *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentClaims(c)
		if !ok {
			c.JSON(401, gin.H{"error": "unauthorized"})
			return
		}

		profile, err := ps.GetProfile(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, models.ErrProfileNotFound) {
				c.JSON(404, models.ErrorResponse("profile not found"))
				return
			}
			c.JSON(500, models.ErrorResponse(err.Error()))
			return
		}

		if profile.Notifications > 0 {
			if err := ps.AdjustNotifications(c.Request.Context(), claims.UserID, -profile.Notifications); err != nil {
				c.JSON(500, models.ErrorResponse(err.Error()))
				return
			}
		}

		c.JSON(200, models.SuccessResponse(nil, "notifications cleared"))
	}
}
