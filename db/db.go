package db

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store owns the MongoDB client and the collections the server works on.
// It is created once at boot and handed to every handler; there is no
// package-level connection state.
type Store struct {
	Client *mongo.Client

	Users           *mongo.Collection
	Classes         *mongo.Collection
	SelectedClasses *mongo.Collection
	Payments        *mongo.Collection
	Idempotency     *mongo.Collection
}

func Connect(ctx context.Context, uri string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, err
	}

	database := client.Database("easyMoves")
	return &Store{
		Client:          client,
		Users:           database.Collection("user"),
		Classes:         database.Collection("classes"),
		SelectedClasses: database.Collection("selectedClass"),
		Payments:        database.Collection("payment"),
		Idempotency:     database.Collection("idempotency"),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes backing the data-model invariants:
// unique user emails, at most one cart entry per (classId, selectedBy),
// and unique + expiring idempotency keys.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_email"),
	}); err != nil {
		return err
	}

	if _, err := s.SelectedClasses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "classId", Value: 1}, {Key: "selectedBy", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_class_per_user"),
	}); err != nil {
		return err
	}

	_, err := s.Idempotency.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_key"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires_at"),
		},
	})
	return err
}

// IsDuplicateKeyError reports whether a write failed on a unique index.
func IsDuplicateKeyError(err error) bool {
	return err != nil && mongo.IsDuplicateKeyError(err)
}

func insertedID(raw interface{}) string {
	switch id := raw.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		log.Printf("db: unexpected inserted id type %T", raw)
		return ""
	}
}
