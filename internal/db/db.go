package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo wraps the client, database and the collection handles used by the
// services. One instance is created at startup and shared process-wide.
type Mongo struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections struct {
		Users         *mongo.Collection
		Events        *mongo.Collection
		Progress      *mongo.Collection
		Photos        *mongo.Collection
		Articles      *mongo.Collection
		MetricSamples *mongo.Collection
	}
}

func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, err
	}

	m := &Mongo{
		Client:   client,
		Database: client.Database(dbName),
	}
	m.Collections.Users = m.Database.Collection("users")
	m.Collections.Events = m.Database.Collection("events")
	m.Collections.Progress = m.Database.Collection("progress")
	m.Collections.Photos = m.Database.Collection("photos")
	m.Collections.Articles = m.Database.Collection("articles")
	m.Collections.MetricSamples = m.Database.Collection("metric_samples")
	return m, nil
}

// EnsureIndexes creates the unique indexes backing the directory invariants:
// one profile per external identity, one per email, bib numbers unique when set.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.Collections.Users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "firebase_uid", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "bib_number", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "bib_number", Value: bson.D{{Key: "$exists", Value: true}}}}),
		},
	})
	if err != nil {
		return err
	}
	_, err = m.Collections.Progress.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_id", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	})
	return err
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
