package database

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateIndexes creates all necessary indexes for the collections
func CreateIndexes(ctx context.Context, db *MongoDB) error {
	slog.Info("Creating MongoDB indexes")

	if err := createEpisodeIndexes(ctx, db); err != nil {
		return err
	}
	if err := createSubscriptionIndexes(ctx, db); err != nil {
		return err
	}
	if err := createScheduleLockIndexes(ctx, db); err != nil {
		return err
	}

	slog.Info("Successfully created all MongoDB indexes")
	return nil
}

func createEpisodeIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionEpisodes)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "job_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_job_id_unique"),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_user_id_created_at"),
		},
		{
			Keys:    bson.D{{Key: "kind", Value: 1}},
			Options: options.Index().SetName("idx_kind"),
		},
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctxTimeout, indexes); err != nil {
		return err
	}

	slog.Info("Created episodes indexes")
	return nil
}

func createSubscriptionIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionBriefSubscriptions)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "kind", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("idx_user_id_kind_unique"),
		},
		{
			Keys: bson.D{
				{Key: "enabled", Value: 1},
				{Key: "next_run_at", Value: 1},
			},
			Options: options.Index().SetName("idx_enabled_next_run_at"),
		},
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctxTimeout, indexes); err != nil {
		return err
	}

	slog.Info("Created brief_subscriptions indexes")
	return nil
}

func createScheduleLockIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionScheduleLocks)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "subscription_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_subscription_id_unique"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_expires_at_ttl"),
		},
		{
			Keys:    bson.D{{Key: "locked_by", Value: 1}},
			Options: options.Index().SetName("idx_locked_by"),
		},
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctxTimeout, indexes); err != nil {
		return err
	}

	slog.Info("Created schedule_locks indexes")
	return nil
}
