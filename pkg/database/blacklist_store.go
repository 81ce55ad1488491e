package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MilkshakeCollective/StachioGo/pkg/logger"
	"github.com/MilkshakeCollective/StachioGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names owned by the blacklist store
const (
	identitiesCollection = "blacklist_identities"
	entriesCollection    = "blacklist_entries"
	countersCollection   = "counters"
)

// BlacklistStore persists blacklisted identities and their infraction
// entries. It is handed to each consumer explicitly; there is no package
// singleton. All reads go straight to the database so enforcement decisions
// never act on stale entries.
type BlacklistStore struct {
	db *Database
}

// NewBlacklistStore creates a store over the given database handle
func NewBlacklistStore(db *Database) *BlacklistStore {
	return &BlacklistStore{db: db}
}

func (s *BlacklistStore) identities() *mongo.Collection {
	return s.db.GetCollection(identitiesCollection)
}

func (s *BlacklistStore) entries() *mongo.Collection {
	return s.db.GetCollection(entriesCollection)
}

// nextEntryID allocates the next numeric entry id from the counters
// collection. The $inc upsert is atomic on the server.
func (s *BlacklistStore) nextEntryID(ctx context.Context) (int64, error) {
	counters := s.db.GetCollection(countersCollection)
	if counters == nil {
		return 0, fmt.Errorf("database not connected")
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := counters.FindOneAndUpdate(ctx,
		bson.M{"_id": entriesCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

// FindIdentity returns the identity for a Discord ID or
// models.ErrIdentityNotFound.
func (s *BlacklistStore) FindIdentity(ctx context.Context, discordID string) (*models.BlacklistedIdentity, error) {
	col := s.identities()
	if col == nil {
		return nil, fmt.Errorf("database not connected")
	}

	var identity models.BlacklistedIdentity
	err := col.FindOne(ctx, bson.M{"_id": discordID}).Decode(&identity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrIdentityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

// AddEntry records a new infraction, creating the identity when absent
func (s *BlacklistStore) AddEntry(ctx context.Context, discordID, username string, data models.EntryData) (*models.BlacklistEntry, error) {
	identities := s.identities()
	entries := s.entries()
	if identities == nil || entries == nil {
		return nil, fmt.Errorf("database not connected")
	}

	now := time.Now()

	// Upsert the owning identity first; $setOnInsert keeps the original
	// creation timestamp on repeat offenders.
	_, err := identities.UpdateOne(ctx,
		bson.M{"_id": discordID},
		bson.M{
			"$set":         bson.M{"username": username},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}

	id, err := s.nextEntryID(ctx)
	if err != nil {
		return nil, err
	}

	entry := models.BlacklistEntry{
		ID:         id,
		DiscordID:  discordID,
		Category:   data.Category,
		Status:     data.Status,
		Active:     true,
		Community:  data.Community,
		Reason:     data.Reason,
		ReportedBy: data.ReportedBy,
		Evidence:   data.Evidence,
		ExpiresAt:  data.ExpiresAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := entries.InsertOne(ctx, entry); err != nil {
		return nil, err
	}

	logger.Info(fmt.Sprintf("Entrada de blacklist #%d creada para %s (%s)", id, discordID, data.Category), "BlacklistStore")
	return &entry, nil
}

// UpdateEntry applies a partial update and returns the updated entry, or
// models.ErrEntryNotFound for an unknown id.
func (s *BlacklistStore) UpdateEntry(ctx context.Context, entryID int64, patch models.EntryPatch) (*models.BlacklistEntry, error) {
	col := s.entries()
	if col == nil {
		return nil, fmt.Errorf("database not connected")
	}

	set := bson.M{"updated_at": time.Now()}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Active != nil {
		set["active"] = *patch.Active
	}
	if patch.Community != nil {
		set["community"] = *patch.Community
	}
	if patch.Reason != nil {
		set["reason"] = *patch.Reason
	}
	if patch.ReportedBy != nil {
		set["reported_by"] = *patch.ReportedBy
	}
	if patch.Evidence != nil {
		set["evidence"] = *patch.Evidence
	}
	if patch.ExpiresAt != nil {
		set["expires_at"] = *patch.ExpiresAt
	}

	update := bson.M{"$set": set}
	if patch.ClearExpiry {
		update["$unset"] = bson.M{"expires_at": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var entry models.BlacklistEntry
	err := col.FindOneAndUpdate(ctx, bson.M{"_id": entryID}, update, opts).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry removes one entry by id
func (s *BlacklistStore) DeleteEntry(ctx context.Context, entryID int64) error {
	col := s.entries()
	if col == nil {
		return fmt.Errorf("database not connected")
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": entryID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrEntryNotFound
	}
	return nil
}

// DeleteIdentity removes an identity and cascades to all of its entries
func (s *BlacklistStore) DeleteIdentity(ctx context.Context, discordID string) error {
	identities := s.identities()
	entries := s.entries()
	if identities == nil || entries == nil {
		return fmt.Errorf("database not connected")
	}

	// Entries first so a failure never leaves orphans behind a deleted
	// identity.
	if _, err := entries.DeleteMany(ctx, bson.M{"discord_id": discordID}); err != nil {
		return err
	}

	res, err := identities.DeleteOne(ctx, bson.M{"_id": discordID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrIdentityNotFound
	}

	logger.Info(fmt.Sprintf("Identidad %s eliminada de la blacklist junto a sus entradas", discordID), "BlacklistStore")
	return nil
}

// EntryByID returns a single entry or models.ErrEntryNotFound
func (s *BlacklistStore) EntryByID(ctx context.Context, entryID int64) (*models.BlacklistEntry, error) {
	col := s.entries()
	if col == nil {
		return nil, fmt.Errorf("database not connected")
	}

	var entry models.BlacklistEntry
	err := col.FindOne(ctx, bson.M{"_id": entryID}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// EntriesFor returns every entry for an identity ordered by creation
func (s *BlacklistStore) EntriesFor(ctx context.Context, discordID string) ([]models.BlacklistEntry, error) {
	col := s.entries()
	if col == nil {
		return nil, fmt.Errorf("database not connected")
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{"discord_id": discordID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var entries []models.BlacklistEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ActiveEntries returns the entries that count for enforcement, ordered by
// creation. Lapsed temporary entries are swept inactive on the way out so
// every code path sees the same filter.
func (s *BlacklistStore) ActiveEntries(ctx context.Context, discordID string) ([]models.BlacklistEntry, error) {
	all, err := s.EntriesFor(ctx, discordID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var active []models.BlacklistEntry
	var lapsed []int64

	for _, entry := range all {
		if entry.ActiveAt(now) {
			active = append(active, entry)
		} else if entry.Lapsed(now) {
			lapsed = append(lapsed, entry.ID)
		}
	}

	if len(lapsed) > 0 {
		if _, err := s.entries().UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": lapsed}},
			bson.M{"$set": bson.M{"active": false, "updated_at": now}},
		); err != nil {
			logger.Warn(fmt.Sprintf("No se pudieron desactivar %d entradas expiradas de %s: %v", len(lapsed), discordID, err), "BlacklistStore")
		}
	}

	return active, nil
}

// SweepExpired deactivates every lapsed temporary entry in one pass and
// returns how many were flipped.
func (s *BlacklistStore) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	col := s.entries()
	if col == nil {
		return 0, fmt.Errorf("database not connected")
	}

	filter := bson.M{
		"active": true,
		"status": models.StatusTemporary,
		"$or": []bson.M{
			{"expires_at": bson.M{"$lte": now}},
			{"expires_at": bson.M{"$exists": false}},
		},
	}

	res, err := col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"active": false, "updated_at": now}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CountIdentities returns how many identities are on record
func (s *BlacklistStore) CountIdentities(ctx context.Context) (int64, error) {
	col := s.identities()
	if col == nil {
		return 0, fmt.Errorf("database not connected")
	}
	return col.CountDocuments(ctx, bson.M{})
}

// CountEntriesByStatus returns entry counts grouped by status
func (s *BlacklistStore) CountEntriesByStatus(ctx context.Context) (map[models.BlacklistStatus]int64, error) {
	return countEntriesBy(ctx, s.entries(), "$status", func(key string) models.BlacklistStatus {
		return models.BlacklistStatus(key)
	})
}

// CountEntriesByCategory returns entry counts grouped by category
func (s *BlacklistStore) CountEntriesByCategory(ctx context.Context) (map[models.UserCategory]int64, error) {
	return countEntriesBy(ctx, s.entries(), "$category", func(key string) models.UserCategory {
		return models.UserCategory(key)
	})
}

func countEntriesBy[K comparable](ctx context.Context, col *mongo.Collection, field string, convert func(string) K) (map[K]int64, error) {
	if col == nil {
		return nil, fmt.Errorf("database not connected")
	}

	pipeline := []bson.M{
		{"$group": bson.M{"_id": field, "count": bson.M{"$sum": 1}}},
	}
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	counts := make(map[K]int64)
	for cursor.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			continue
		}
		counts[convert(row.ID)] = row.Count
	}
	return counts, cursor.Err()
}
