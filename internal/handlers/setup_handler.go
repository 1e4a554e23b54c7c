package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/langx-app/server/internal/middleware"
	"github.com/langx-app/server/internal/setup"
)

// setupDraftRequest carries partial draft updates; absent fields are left
// untouched.
type setupDraftRequest struct {
	Name            *string        `json:"name"`
	ImageRef        *string        `json:"image_ref"`
	Birthday        *time.Time     `json:"birthday"`
	Sex             *string        `json:"sex"`
	Email           *string        `json:"email"`
	Bio             *string        `json:"bio"`
	LearningGoals   *string        `json:"learning_goals"`
	Hobbies         *string        `json:"hobbies"`
	NativeLanguages []string       `json:"native_languages"`
	TargetLanguages map[string]int `json:"target_languages"`
}

func currentWorkflow(c *gin.Context, m *setup.Manager) (*setup.Workflow, bool) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	return m.Get(claims.UserID), true
}

func GetSetupState(m *setup.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		wf, ok := currentWorkflow(c, m)
		if !ok {
			return
		}

		c.JSON(200, gin.H{
			"step":        wf.Step().String(),
			"can_advance": wf.CanAdvance(),
			"in_flight":   wf.InFlight(),
		})
	}
}

func UpdateSetupDraft(m *setup.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		wf, ok := currentWorkflow(c, m)
		if !ok {
			return
		}

		var req setupDraftRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if req.Name != nil {
			wf.SetName(*req.Name)
		}
		if req.ImageRef != nil {
			wf.SetImage(*req.ImageRef)
		}
		if req.Birthday != nil {
			wf.SetBirthday(*req.Birthday)
		}
		if req.Sex != nil {
			wf.SetSex(*req.Sex)
		}
		if req.Email != nil {
			wf.SetEmail(*req.Email)
		}
		if req.Bio != nil {
			wf.SetBio(*req.Bio)
		}
		if req.LearningGoals != nil {
			wf.SetLearningGoals(*req.LearningGoals)
		}
		if req.Hobbies != nil {
			wf.SetHobbies(*req.Hobbies)
		}
		if req.NativeLanguages != nil {
			wf.SetNativeLanguages(req.NativeLanguages)
		}
		for code, level := range req.TargetLanguages {
			wf.SetTargetLanguage(code, level)
		}

		c.JSON(200, gin.H{
			"step":        wf.Step().String(),
			"can_advance": wf.CanAdvance(),
		})
	}
}

func AdvanceSetup(m *setup.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		wf, ok := currentWorkflow(c, m)
		if !ok {
			return
		}

		if err := wf.Advance(); err != nil {
			var verr *setup.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error": verr.Error(),
					"field": verr.Field,
					"kind":  string(verr.Kind),
				})
				return
			}
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, gin.H{"step": wf.Step().String()})
	}
}

func BackSetup(m *setup.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		wf, ok := currentWorkflow(c, m)
		if !ok {
			return
		}

		wf.Back()
		c.JSON(200, gin.H{"step": wf.Step().String()})
	}
}

func FinalizeSetup(m *setup.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		wf, ok := currentWorkflow(c, m)
		if !ok {
			return
		}

		err := wf.Finalize(c.Request.Context())
		if err != nil {
			if errors.Is(err, setup.ErrSetupIncomplete) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			var verr *setup.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error": verr.Error(),
					"field": verr.Field,
					"kind":  string(verr.Kind),
				})
				return
			}
			var perr *setup.PersistenceError
			if errors.As(err, &perr) {
				// The draft is intact; the client may retry.
				c.JSON(http.StatusBadGateway, gin.H{
					"error":     perr.Error(),
					"retriable": true,
				})
				return
			}
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		// The record exists now; the accumulated draft has served its purpose.
		if claims, ok := middleware.CurrentClaims(c); ok {
			m.Discard(claims.UserID)
		}

		c.JSON(201, gin.H{"step": wf.Step().String()})
	}
}
