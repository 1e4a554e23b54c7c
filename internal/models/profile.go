package models

import (
	"strings"
	"time"
)

const (
	ProfileDbName  = "langx"
	ProfileColName = "users"
)

// Profile is the canonical user record. The bson/json tags are the wire
// contract with the document store and must not be renamed.
type Profile struct {
	ID                        string         `bson:"id" json:"id" validate:"required"`
	Name                      string         `bson:"name" json:"name"`
	NameLower                 string         `bson:"name_lower" json:"name_lower"`
	Birthday                  time.Time      `bson:"birthday" json:"birthday"`
	Sex                       string         `bson:"sex" json:"sex"`
	Email                     string         `bson:"email" json:"email" validate:"omitempty,email"`
	Bio                       string         `bson:"bio" json:"bio" validate:"max=200"`
	LearningGoals             string         `bson:"learningGoals" json:"learningGoals"`
	HobbiesAndInterests       string         `bson:"hobbiesAndInterests" json:"hobbiesAndInterests"`
	NativeLanguages           []string       `bson:"nativeLanguages" json:"nativeLanguages"`
	TargetLanguages           map[string]int `bson:"targetLanguages" json:"targetLanguages"`
	HiddenConversationIds     []string       `bson:"hiddenConversationIds" json:"hiddenConversationIds"`
	ProfileImageUrl           string         `bson:"profileImageUrl" json:"profileImageUrl"`
	CompressedProfileImageUrl string         `bson:"compressedProfileImageUrl" json:"compressedProfileImageUrl"`
	LastOnline                time.Time      `bson:"lastOnline" json:"lastOnline"`
	Latitude                  *float64       `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude                 *float64       `bson:"longitude,omitempty" json:"longitude,omitempty"`
	FollowerCount             int            `bson:"followerCount" json:"followerCount" validate:"min=0"`
	FcmToken                  *string        `bson:"fcmToken,omitempty" json:"fcmToken,omitempty"`
	Notifications             int            `bson:"notifications" json:"notifications" validate:"min=0"`
	SearchingForPartner       bool           `bson:"searchingForPartner" json:"searchingForPartner"`
	IsTyping                  bool           `bson:"isTyping" json:"isTyping"`
}

// NewProfile returns an empty profile with collection fields initialized so
// they serialize as empty arrays/objects rather than null.
func NewProfile() *Profile {
	return &Profile{
		NativeLanguages:       []string{},
		TargetLanguages:       map[string]int{},
		HiddenConversationIds: []string{},
	}
}

// Clone returns a deep copy. The collection and pointer fields are duplicated
// so the copy can be read or marshaled while the original keeps changing.
func (p *Profile) Clone() *Profile {
	c := *p
	c.NativeLanguages = append([]string{}, p.NativeLanguages...)
	c.HiddenConversationIds = append([]string{}, p.HiddenConversationIds...)
	c.TargetLanguages = make(map[string]int, len(p.TargetLanguages))
	for code, level := range p.TargetLanguages {
		c.TargetLanguages[code] = level
	}
	if p.Latitude != nil {
		lat := *p.Latitude
		c.Latitude = &lat
	}
	if p.Longitude != nil {
		lon := *p.Longitude
		c.Longitude = &lon
	}
	if p.FcmToken != nil {
		token := *p.FcmToken
		c.FcmToken = &token
	}
	return &c
}

// loweredName is the case-folding every name_lower writer must use.
func loweredName(name string) string {
	return strings.ToLower(name)
}

// SetName updates name and its case-folded mirror together. All writers that
// change name must go through here so the two fields never diverge.
func (p *Profile) SetName(name string) {
	p.Name = name
	p.NameLower = loweredName(name)
}

// Equal reports whether two profiles refer to the same user. Identity is the
// id alone; other fields may differ under concurrent partial updates.
func (p *Profile) Equal(other *Profile) bool {
	if other == nil {
		return false
	}
	return p.ID == other.ID
}

// Location returns the coordinate pair, with ok false unless both halves are
// present.
func (p *Profile) Location() (lat, lon float64, ok bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return 0, 0, false
	}
	return *p.Latitude, *p.Longitude, true
}

func (p *Profile) SetLocation(lat, lon float64) {
	p.Latitude = &lat
	p.Longitude = &lon
}

func (p *Profile) ClearLocation() {
	p.Latitude = nil
	p.Longitude = nil
}

// normalizeLocation drops a half-written coordinate pair read back from the
// store. Location is either fully present or fully absent.
func (p *Profile) normalizeLocation() {
	if p.Latitude == nil || p.Longitude == nil {
		p.Latitude = nil
		p.Longitude = nil
	}
}
