package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/langx-app/server/internal/middleware"
	"github.com/langx-app/server/internal/services"
	"github.com/supabase-community/gotrue-go/types"
)

func SignUp(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error(), "message": "invalid request payload"})
			return
		}

		created, err := a.SignUp(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		c.JSON(201, created)
	}
}

func SignIn(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error(), "message": "invalid request payload"})
			return
		}

		authResponse, err := a.SignIn(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			c.JSON(401, gin.H{"error": err.Error(), "message": "invalid email or password"})
			return
		}

		isProduction := os.Getenv("GIN_MODE") == "production"

		tokenRes, ok := authResponse.(*types.TokenResponse)
		if !ok || tokenRes.AccessToken == "" {
			c.JSON(500, gin.H{"error": "invalid token response"})
			return
		}

		// Access token - expires in 1 hour (3600 seconds)
		c.SetCookie(
			"access_token",
			tokenRes.AccessToken,
			tokenRes.ExpiresIn,
			"/",
			"",
			isProduction,
			true,
		)

		// Refresh token - expires in 30 days
		c.SetCookie(
			"refresh_token",
			tokenRes.RefreshToken,
			3600*24*30,
			"/",
			"",
			isProduction,
			true,
		)

		userID := tokenRes.User.ID.String()
		sess, err := a.BindSession(c.Request.Context(), userID)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, gin.H{
			"user":          tokenRes.User,
			"session_state": sess.State().String(),
		})
	}
}

// SignOut clears the auth cookies and moves the session to unauthenticated.
func SignOut(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := middleware.CurrentClaims(c); ok {
			a.SignOut(claims.UserID)
		}

		isProduction := os.Getenv("GIN_MODE") == "production"
		c.SetCookie("access_token", "", -1, "/", "", isProduction, true)
		c.SetCookie("refresh_token", "", -1, "/", "", isProduction, true)

		c.JSON(http.StatusOK, gin.H{
			"message": "Logged out successfully",
		})
	}
}

// SessionState reports the resolved auth state for the current user.
func SessionState() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := middleware.CurrentSession(c)
		if !ok {
			c.JSON(401, gin.H{"error": "unauthorized"})
			return
		}
		claims, _ := middleware.CurrentClaims(c)

		c.JSON(200, gin.H{
			"state":      sess.State().String(),
			"user_id":    claims.UserID,
			"email":      claims.Email,
			"setup_done": claims.SetupDone,
		})
	}
}
