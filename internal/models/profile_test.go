package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestSetNameKeepsLoweredMirror(t *testing.T) {
	p := NewProfile()
	p.SetName("John Smith")

	if p.Name != "John Smith" {
		t.Errorf("name = %q", p.Name)
	}
	if p.NameLower != "john smith" {
		t.Errorf("name_lower = %q, want %q", p.NameLower, "john smith")
	}

	p.SetName("ANNA")
	if p.NameLower != "anna" {
		t.Errorf("name_lower = %q after rename, want %q", p.NameLower, "anna")
	}
}

func TestEqualComparesIdentityOnly(t *testing.T) {
	a := &Profile{ID: "u1", Name: "Anna", Bio: "hello"}
	b := &Profile{ID: "u1", Name: "Anna Updated", Notifications: 5}
	c := &Profile{ID: "u2", Name: "Anna"}

	if !a.Equal(b) {
		t.Error("same id with diverged fields should be equal")
	}
	if a.Equal(c) {
		t.Error("different ids should not be equal")
	}
	if a.Equal(nil) {
		t.Error("nil should not be equal")
	}
}

func TestLocationPair(t *testing.T) {
	p := NewProfile()

	if _, _, ok := p.Location(); ok {
		t.Error("empty profile should have no location")
	}

	p.SetLocation(52.52, 13.405)
	lat, lon, ok := p.Location()
	if !ok || lat != 52.52 || lon != 13.405 {
		t.Errorf("location = (%v, %v, %v)", lat, lon, ok)
	}

	p.ClearLocation()
	if _, _, ok := p.Location(); ok {
		t.Error("cleared profile should have no location")
	}
}

func TestNormalizeLocationDropsHalfPair(t *testing.T) {
	lat := 52.52
	p := &Profile{ID: "u1", Latitude: &lat}

	p.normalizeLocation()
	if p.Latitude != nil || p.Longitude != nil {
		t.Error("half-written pair should be dropped entirely")
	}
}

func TestCloneIsDeep(t *testing.T) {
	token := "tok-abc"
	p := NewProfile()
	p.ID = "u1"
	p.NativeLanguages = []string{"en"}
	p.TargetLanguages = map[string]int{"ja": 2}
	p.HiddenConversationIds = []string{"c1"}
	p.SetLocation(52.52, 13.405)
	p.FcmToken = &token

	clone := p.Clone()
	clone.NativeLanguages[0] = "de"
	clone.TargetLanguages["fr"] = 1
	clone.HiddenConversationIds[0] = "c2"
	*clone.Latitude = 0
	*clone.FcmToken = "tok-other"

	if p.NativeLanguages[0] != "en" {
		t.Errorf("nativeLanguages shared: %v", p.NativeLanguages)
	}
	if _, ok := p.TargetLanguages["fr"]; ok {
		t.Errorf("targetLanguages shared: %v", p.TargetLanguages)
	}
	if p.HiddenConversationIds[0] != "c1" {
		t.Errorf("hiddenConversationIds shared: %v", p.HiddenConversationIds)
	}
	if *p.Latitude != 52.52 {
		t.Errorf("latitude shared: %v", *p.Latitude)
	}
	if *p.FcmToken != "tok-abc" {
		t.Errorf("fcmToken shared: %v", *p.FcmToken)
	}
}

func TestProfileBsonRoundTrip(t *testing.T) {
	token := "tok-abc"
	p := NewProfile()
	p.ID = "u1"
	p.SetName("Anna")
	p.Birthday = time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC)
	p.Sex = "female"
	p.Email = "anna@example.com"
	p.Bio = "Hello!"
	p.LearningGoals = "fluency"
	p.HobbiesAndInterests = "hiking"
	p.NativeLanguages = []string{"de", "en"}
	p.TargetLanguages = map[string]int{"ja": 2}
	p.HiddenConversationIds = []string{"c1"}
	p.ProfileImageUrl = "https://img.example/full"
	p.CompressedProfileImageUrl = "https://img.example/small"
	p.LastOnline = time.Now().UTC().Truncate(time.Millisecond)
	p.SetLocation(52.52, 13.405)
	p.FollowerCount = 3
	p.FcmToken = &token
	p.Notifications = 2
	p.SearchingForPartner = true

	raw, err := bson.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Profile
	if err := bson.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.ID != p.ID || got.Name != p.Name || got.NameLower != p.NameLower {
		t.Errorf("identity fields = (%q, %q, %q)", got.ID, got.Name, got.NameLower)
	}
	if !got.Birthday.Equal(p.Birthday) || !got.LastOnline.Equal(p.LastOnline) {
		t.Errorf("time fields diverged: %v / %v", got.Birthday, got.LastOnline)
	}
	if len(got.NativeLanguages) != 2 || got.NativeLanguages[0] != "de" {
		t.Errorf("nativeLanguages = %v", got.NativeLanguages)
	}
	if got.TargetLanguages["ja"] != 2 {
		t.Errorf("targetLanguages = %v", got.TargetLanguages)
	}
	if lat, lon, ok := got.Location(); !ok || lat != 52.52 || lon != 13.405 {
		t.Errorf("location = (%v, %v, %v)", lat, lon, ok)
	}
	if got.FcmToken == nil || *got.FcmToken != token {
		t.Errorf("fcmToken = %v", got.FcmToken)
	}
	if got.Notifications != 2 || got.FollowerCount != 3 || !got.SearchingForPartner {
		t.Errorf("counters = (%d, %d, %v)", got.Notifications, got.FollowerCount, got.SearchingForPartner)
	}
}

// Optional fields carry omitempty so an unset token or location never writes
// a null into the store during a field-level merge.
func TestProfileFieldsOmitsUnsetOptionals(t *testing.T) {
	p := NewProfile()
	p.ID = "u1"
	p.SetName("Anna")

	fields, err := profileFields(p)
	if err != nil {
		t.Fatalf("profileFields: %v", err)
	}

	for _, key := range []string{"latitude", "longitude", "fcmToken"} {
		if _, ok := fields[key]; ok {
			t.Errorf("unset optional %q present in merge fields", key)
		}
	}
	if fields["id"] != "u1" {
		t.Errorf("id field = %v", fields["id"])
	}
	if fields["name_lower"] != "anna" {
		t.Errorf("name_lower field = %v", fields["name_lower"])
	}
	if _, ok := fields["nativeLanguages"]; !ok {
		t.Error("collection fields should serialize even when empty")
	}
}
