package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/langx-app/server/internal/models"
)

// fields a merge request may never write directly: id is immutable and
// name_lower is derived from name by the repo.
var immutableMergeFields = map[string]bool{
	"id":         true,
	"name_lower": true,
}

type ProfileService struct {
	profileRepo models.ProfileRepo
}

func NewProfileService(profileRepo models.ProfileRepo) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
	}
}

func (ps *ProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	return ps.profileRepo.GetProfile(ctx, userID)
}

// MergeProfile applies a partial edit to the caller's own record.
func (ps *ProfileService) MergeProfile(ctx context.Context, userID string, fields map[string]interface{}) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if len(fields) == 0 {
		return fmt.Errorf("no fields to update")
	}

	for key := range fields {
		if immutableMergeFields[key] {
			return fmt.Errorf("field %q cannot be updated directly", key)
		}
	}

	if bio, ok := fields["bio"].(string); ok {
		if utf8.RuneCountInString(bio) > 200 {
			return fmt.Errorf("bio exceeds 200 characters")
		}
	}

	return ps.profileRepo.MergeProfile(ctx, userID, fields)
}

// UpdatePresence stamps lastOnline and, when supplied, the coordinate pair.
// Coordinates are all-or-nothing; a half pair is rejected.
func (ps *ProfileService) UpdatePresence(ctx context.Context, userID string, lat, lon *float64) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if (lat == nil) != (lon == nil) {
		return fmt.Errorf("latitude and longitude must be supplied together")
	}

	fields := map[string]interface{}{
		"lastOnline": time.Now().UTC(),
	}
	if lat != nil {
		fields["latitude"] = *lat
		fields["longitude"] = *lon
	}

	return ps.profileRepo.MergeProfile(ctx, userID, fields)
}

func (ps *ProfileService) SetSearchingForPartner(ctx context.Context, userID string, searching bool) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	return ps.profileRepo.MergeProfile(ctx, userID, map[string]interface{}{
		"searchingForPartner": searching,
	})
}

func (ps *ProfileService) SetTyping(ctx context.Context, userID string, typing bool) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	return ps.profileRepo.MergeProfile(ctx, userID, map[string]interface{}{
		"isTyping": typing,
	})
}

func (ps *ProfileService) HideConversation(ctx context.Context, userID, conversationID string) error {
	if userID == "" || conversationID == "" {
		return fmt.Errorf("user ID and conversation ID are required")
	}
	return ps.profileRepo.HideConversation(ctx, userID, conversationID)
}

func (ps *ProfileService) UnhideConversation(ctx context.Context, userID, conversationID string) error {
	if userID == "" || conversationID == "" {
		return fmt.Errorf("user ID and conversation ID are required")
	}
	return ps.profileRepo.UnhideConversation(ctx, userID, conversationID)
}

func (ps *ProfileService) AdjustNotifications(ctx context.Context, userID string, delta int) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	return ps.profileRepo.AdjustNotifications(ctx, userID, delta)
}

// FindPartners matches the caller against profiles searching for a partner
// whose native languages overlap the caller's target languages.
func (ps *ProfileService) FindPartners(ctx context.Context, userID string, limit int64) ([]*models.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	me, err := ps.profileRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	wanted := make([]string, 0, len(me.TargetLanguages))
	for code := range me.TargetLanguages {
		wanted = append(wanted, code)
	}

	matches, err := ps.profileRepo.SearchPartners(ctx, wanted, limit)
	if err != nil {
		return nil, err
	}

	partners := make([]*models.Profile, 0, len(matches))
	for _, candidate := range matches {
		if candidate.Equal(me) {
			continue
		}
		partners = append(partners, candidate)
	}
	return partners, nil
}
