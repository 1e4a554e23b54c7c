package models

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo interface {
	CreateProfile(ctx context.Context, profile *Profile) error
	MergeProfile(ctx context.Context, id string, fields map[string]interface{}) error
	GetProfile(ctx context.Context, id string) (*Profile, error)
	ProfileExists(ctx context.Context, id string) (bool, error)
	SearchPartners(ctx context.Context, nativeLanguages []string, limit int64) ([]*Profile, error)
	HideConversation(ctx context.Context, id, conversationID string) error
	UnhideConversation(ctx context.Context, id, conversationID string) error
	AdjustNotifications(ctx context.Context, id string, delta int) error
}

// profileFields flattens a profile into the field map the document store
// expects, going through bson so tag names and omitempty rules apply.
func profileFields(profile *Profile) (bson.M, error) {
	raw, err := bson.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %v", err)
	}

	fields := bson.M{}
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to flatten profile: %v", err)
	}
	return fields, nil
}

// EnsureProfileIndexes creates the indexes the profile queries rely on.
func (mdb *MongodbRepo) EnsureProfileIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ctx, ProfileDbName, ProfileColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("user_id_unique"),
		},
		// Case-insensitive name search
		{
			Keys:    bson.D{{Key: "name_lower", Value: 1}},
			Options: options.Index().SetName("name_lower_idx"),
		},
		// Partner matching
		{
			Keys: bson.D{
				{Key: "searchingForPartner", Value: 1},
				{Key: "nativeLanguages", Value: 1},
			},
			Options: options.Index().SetName("partner_search_idx"),
		},
	}

	_, err = col.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("error creating indexes: %v", err)
	}

	return nil
}

// CreateProfile persists a finalized profile. The write is a field-level
// merge-upsert rather than an insert, so a token upsert that landed first is
// kept: both writers target disjoint fields and neither clobbers the other.
func (mdb *MongodbRepo) CreateProfile(ctx context.Context, profile *Profile) error {
	if profile == nil {
		return fmt.Errorf("profile is required")
	}
	// name_lower must be the case-folded name at the point of persistence,
	// regardless of what the caller supplied.
	profile.NameLower = loweredName(profile.Name)

	if err := Validate.Struct(profile); err != nil {
		return fmt.Errorf("invalid profile data: %w", err)
	}

	fields, err := profileFields(profile)
	if err != nil {
		return err
	}

	col, err := mdb.GetCollection(ctx, ProfileDbName, ProfileColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{"id": profile.ID}
	update := bson.M{"$set": fields}
	opts := options.Update().SetUpsert(true)

	if _, err := col.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("error creating profile: %v", err)
	}

	return nil
}

// MergeProfile writes a partial field set into the profile document, leaving
// all other fields untouched.
func (mdb *MongodbRepo) MergeProfile(ctx context.Context, id string, fields map[string]interface{}) error {
	if id == "" {
		return fmt.Errorf("user ID is required")
	}
	if len(fields) == 0 {
		return fmt.Errorf("no fields to merge")
	}

	set := bson.M{}
	for key, value := range fields {
		set[key] = value
	}

	// Keep the case-folded mirror in lockstep with any name write.
	if name, ok := set["name"].(string); ok {
		set["name_lower"] = loweredName(name)
	}

	// Coordinates travel as a pair or not at all.
	_, hasLat := set["latitude"]
	_, hasLon := set["longitude"]
	if hasLat != hasLon {
		return fmt.Errorf("latitude and longitude must be merged together")
	}

	col, err := mdb.GetCollection(ctx, ProfileDbName, ProfileColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{"id": id}
	update := bson.M{"$set": set}
	opts := options.Update().SetUpsert(true)

	if _, err := col.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("error merging profile fields: %v", err)
	}

	return nil
}

func (mdb *MongodbRepo) GetProfile(ctx context.Context, id string) (*Profile, error) {
	if id == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	col, err := mdb.GetCollection(ctx, ProfileDbName, ProfileColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var profile Profile
	err = col.FindOne(ctx, bson.M{"id": id}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("error finding profile: %v", err)
	}

	profile.normalizeLocation()
	return &profile, nil
}

func (mdb *MongodbRepo) ProfileExists(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("user ID is required")
	}

	col, err := mdb.GetCollection(ctx, ProfileDbName, ProfileColName)
	if err != nil {
		return false, fmt.Errorf("error getting collection: %v", err)
	}

	count, err := col.CountDocuments(ctx, bson.M{"id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking profile existence: %v", err)
	}

	return count > 0, nil
}

// HideConversation adds a conversation id to the profile's hidden set.
// Adding the same id twice leaves the set unchanged.
func (mdb *MongodbRepo) HideConversation(ctx context.Context, id, conversationID string) error {
	if id == "" || conversationID == "" {
		return fmt.Errorf("user ID and conversation ID are required")
	}

	col, err := mdb.GetCollection(ctx, ProfileDbName, ProfileColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{"id": id}
	update := bson.M{
		"$addToSet": bson.M{"hiddenConversationIds": conversationID},
	}

	if _, err := col.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("error hiding conversation: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) UnhideConversation(ctx context.Context, id, conversationID string) error {
	if id == "" || conversationID == "" {
		return fmt.Errorf("user ID and conversation ID are required")
	}

	col, err := mdb.GetCollection(ctx, ProfileDbName, ProfileColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{"id": id}
	update := bson.M{
		"$pull": bson.M{"hiddenConversationIds": conversationID},
	}

	if _, err := col.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("error unhiding conversation: %v", err)
	}
	return nil
}

// AdjustNotifications adds delta to the unread notification counter, clamping
// at zero so the count stays non-negative.
func (mdb *MongodbRepo) AdjustNotifications(ctx context.Context, id string, delta int) error {
	if id == "" {
		return fmt.Errorf("user ID is required")
	}

	col, err := mdb.GetCollection(ctx, ProfileDbName, ProfileColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{"id": id}
	update := bson.M{"$inc": bson.M{"notifications": delta}}

	if _, err := col.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("error adjusting notifications: %v", err)
	}

	if delta < 0 {
		// A concurrent decrement can push the counter below zero; settle it.
		clamp := bson.M{"id": id, "notifications": bson.M{"$lt": 0}}
		reset := bson.M{"$set": bson.M{"notifications": 0}}
		if _, err := col.UpdateOne(ctx, clamp, reset); err != nil {
			return fmt.Errorf("error clamping notifications: %v", err)
		}
	}
	return nil
}

// SearchPartners returns profiles that flagged themselves as looking for a
// partner and natively speak one of the given languages, most recently online
// first.
func (mdb *MongodbRepo) SearchPartners(ctx context.Context, nativeLanguages []string, limit int64) ([]*Profile, error) {
	if len(nativeLanguages) == 0 {
		return []*Profile{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	col, err := mdb.GetCollection(ctx, ProfileDbName, ProfileColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{
		"searchingForPartner": true,
		"nativeLanguages":     bson.M{"$in": nativeLanguages},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "lastOnline", Value: -1}}).
		SetLimit(limit)

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error searching partners: %v", err)
	}
	defer cursor.Close(ctx)

	var profiles []*Profile
	for cursor.Next(ctx) {
		var profile Profile
		if err := cursor.Decode(&profile); err != nil {
			return nil, fmt.Errorf("error decoding profile: %v", err)
		}
		profile.normalizeLocation()
		profiles = append(profiles, &profile)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return profiles, nil
}
