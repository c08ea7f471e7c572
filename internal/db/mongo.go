package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/voltdesk/voltdesk-backend/internal/config"
)

const connectTimeout = 10 * time.Second

var DB *mongo.Database

// Connect opens the Mongo client and selects the configured database. The
// server is not contacted until the first operation or Ping.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	DB = client.Database(cfg.Database)
	return client, nil
}

func GetCollection(collectionName string) *mongo.Collection {
	return DB.Collection(collectionName)
}

// PingMongo reports whether the primary is reachable.
func PingMongo(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("mongo: not connected")
	}
	return DB.Client().Ping(ctx, readpref.Primary())
}
