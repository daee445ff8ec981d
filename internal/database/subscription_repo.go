package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hakivo/podcastd/internal/model"
)

// SubscriptionRepository handles scheduled-brief subscriptions
type SubscriptionRepository struct {
	collection *mongo.Collection
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *MongoDB) *SubscriptionRepository {
	return &SubscriptionRepository{
		collection: db.GetCollection(CollectionBriefSubscriptions),
	}
}

// FindDue returns enabled subscriptions whose next run is at or before now
func (r *SubscriptionRepository) FindDue(ctx context.Context, now time.Time) ([]model.BriefSubscription, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"enabled": true,
		"$or": []bson.M{
			{"next_run_at": bson.M{"$lte": now}},
			{"next_run_at": nil},
		},
	}

	cursor, err := r.collection.Find(ctxTimeout, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find due subscriptions: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var subs []model.BriefSubscription
	if err := cursor.All(ctxTimeout, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode subscriptions: %w", err)
	}

	return subs, nil
}

// UpdateRunTimes records the last run and next scheduled run for a subscription
func (r *SubscriptionRepository) UpdateRunTimes(ctx context.Context, id primitive.ObjectID, lastRun, nextRun time.Time) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"last_run_at": lastRun,
			"next_run_at": nextRun,
		},
	}

	result, err := r.collection.UpdateOne(ctxTimeout, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update subscription run times: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}
