// internal/domain/cart/mongo_store.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// cartDocument is the MongoDB document shape, one per identity
type cartDocument struct {
	UID      string   `bson:"uid"`
	Snapshot Snapshot `bson:"snapshot"`
}

// MongoStore persists cart snapshots in a MongoDB collection
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore creates a MongoDB-backed cart document store
func NewMongoStore(db *mongo.Database, collection string) *MongoStore {
	return &MongoStore{
		collection: db.Collection(collection),
	}
}

// CreateIndexes creates the unique identity index the store relies on
func (s *MongoStore) CreateIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "uid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}
	return nil
}

// Load fetches the snapshot document for the identity
func (s *MongoStore) Load(ctx context.Context, uid string) (*Snapshot, error) {
	var doc cartDocument

	err := s.collection.FindOne(ctx, bson.M{"uid": uid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load cart snapshot: %w", err)
	}

	return &doc.Snapshot, nil
}

// Save overwrites the snapshot document unless a newer version is already
// stored. The filter only matches documents with an older version; when a
// newer one exists the upsert collides with the unique index instead of
// replacing it, and the write is reported stale.
func (s *MongoStore) Save(ctx context.Context, uid string, snap *Snapshot) error {
	filter := bson.M{
		"uid":              uid,
		"snapshot.version": bson.M{"$lt": snap.Version},
	}
	update := bson.M{"$set": cartDocument{UID: uid, Snapshot: *snap}}
	opts := options.Update().SetUpsert(true)

	_, err := s.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrStaleSnapshot
		}
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}

	return nil
}
