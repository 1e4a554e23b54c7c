package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/langx-app/server/internal/helpers"
	"github.com/langx-app/server/internal/models"
	"github.com/langx-app/server/internal/services"
)

type storedProfileRepo struct {
	profile *models.Profile
}

func (r *storedProfileRepo) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	if r.profile == nil || r.profile.ID != id {
		return nil, models.ErrProfileNotFound
	}
	return r.profile.Clone(), nil
}

func (r *storedProfileRepo) CreateProfile(ctx context.Context, profile *models.Profile) error {
	return nil
}

func (r *storedProfileRepo) MergeProfile(ctx context.Context, id string, fields map[string]interface{}) error {
	return nil
}

func (r *storedProfileRepo) ProfileExists(ctx context.Context, id string) (bool, error) {
	return r.profile != nil && r.profile.ID == id, nil
}

func (r *storedProfileRepo) SearchPartners(ctx context.Context, langs []string, limit int64) ([]*models.Profile, error) {
	return nil, nil
}

func (r *storedProfileRepo) HideConversation(ctx context.Context, id, conversationID string) error {
	return nil
}

func (r *storedProfileRepo) UnhideConversation(ctx context.Context, id, conversationID string) error {
	return nil
}

func (r *storedProfileRepo) AdjustNotifications(ctx context.Context, id string, delta int) error {
	return nil
}

func storedProfile() *models.Profile {
	token := "tok-abc"
	p := models.NewProfile()
	p.ID = "u2"
	p.SetName("Anna")
	p.Email = "anna@example.com"
	p.HiddenConversationIds = []string{"c1"}
	p.SetLocation(52.52, 13.405)
	p.FcmToken = &token
	p.Notifications = 4
	return p
}

func getProfileAs(t *testing.T, viewerID, targetID string, repo models.ProfileRepo) *models.Profile {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/users/"+targetID, nil)
	c.Params = gin.Params{{Key: "id", Value: targetID}}
	c.Set("user", &helpers.SessionClaims{UserID: viewerID})

	GetProfile(services.NewProfileService(repo))(c)

	if w.Code != 200 {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var res struct {
		Data models.Profile `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return &res.Data
}

// A foreign read must not expose the record's owner-private fields.
func TestGetProfileRedactsForeignReads(t *testing.T) {
	repo := &storedProfileRepo{profile: storedProfile()}

	got := getProfileAs(t, "u1", "u2", repo)

	if got.Name != "Anna" {
		t.Errorf("public name = %q", got.Name)
	}
	if got.Email != "" {
		t.Errorf("email exposed to non-owner: %q", got.Email)
	}
	if got.FcmToken != nil {
		t.Error("fcmToken exposed to non-owner")
	}
	if got.Notifications != 0 {
		t.Errorf("notifications exposed to non-owner: %d", got.Notifications)
	}
	if len(got.HiddenConversationIds) != 0 {
		t.Errorf("hiddenConversationIds exposed to non-owner: %v", got.HiddenConversationIds)
	}
	if _, _, ok := got.Location(); ok {
		t.Error("location exposed to non-owner")
	}
}

func TestGetProfileKeepsOwnerFields(t *testing.T) {
	repo := &storedProfileRepo{profile: storedProfile()}

	got := getProfileAs(t, "u2", "u2", repo)

	if got.Email != "anna@example.com" {
		t.Errorf("owner email = %q", got.Email)
	}
	if got.FcmToken == nil || *got.FcmToken != "tok-abc" {
		t.Error("owner fcmToken missing")
	}
	if got.Notifications != 4 {
		t.Errorf("owner notifications = %d", got.Notifications)
	}
	if _, _, ok := got.Location(); !ok {
		t.Error("owner location missing")
	}
}
