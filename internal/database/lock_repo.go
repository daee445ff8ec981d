package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hakivo/podcastd/internal/model"
)

// LockRepository handles distributed locks for scheduled brief generation.
// Locks prevent two pods from enqueuing the same subscription's brief twice.
type LockRepository struct {
	collection *mongo.Collection
}

// NewLockRepository creates a new lock repository
func NewLockRepository(db *MongoDB) *LockRepository {
	return &LockRepository{
		collection: db.GetCollection(CollectionScheduleLocks),
	}
}

// AcquireLock attempts to atomically acquire the lock for a subscription.
// Returns true if acquired, false if another pod holds an unexpired lock.
func (r *LockRepository) AcquireLock(ctx context.Context, subscriptionID primitive.ObjectID, podID string, ttl time.Duration) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	// Match only when no lock exists or the existing one expired
	filter := bson.M{
		"subscription_id": subscriptionID,
		"$or": []bson.M{
			{"expires_at": bson.M{"$lt": now}},
			{"expires_at": bson.M{"$exists": false}},
		},
	}

	update := bson.M{
		"$set": bson.M{
			"subscription_id": subscriptionID,
			"locked_by":       podID,
			"locked_at":       now,
			"expires_at":      expiresAt,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result model.ScheduleLock
	err := r.collection.FindOneAndUpdate(ctxTimeout, filter, update, opts).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}

	if result.LockedBy != podID {
		return false, nil
	}

	slog.Debug("Successfully acquired lock",
		"subscription_id", subscriptionID.Hex(),
		"pod_id", podID,
		"expires_at", expiresAt,
	)

	return true, nil
}

// ReleaseLock releases a lock owned by the given pod
func (r *LockRepository) ReleaseLock(ctx context.Context, subscriptionID primitive.ObjectID, podID string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"subscription_id": subscriptionID,
		"locked_by":       podID,
	}

	if _, err := r.collection.DeleteOne(ctxTimeout, filter); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}

	return nil
}

// ReleaseAllLocks releases all locks owned by the given pod, typically
// during graceful shutdown.
func (r *LockRepository) ReleaseAllLocks(ctx context.Context, podID string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.collection.DeleteMany(ctxTimeout, bson.M{"locked_by": podID})
	if err != nil {
		return fmt.Errorf("failed to release all locks: %w", err)
	}

	if result.DeletedCount > 0 {
		slog.Info("Released all locks during shutdown",
			"pod_id", podID,
			"count", result.DeletedCount,
		)
	}

	return nil
}

// CleanExpiredLocks removes locks left behind by crashed pods
func (r *LockRepository) CleanExpiredLocks(ctx context.Context) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"expires_at": bson.M{"$lt": time.Now().UTC()},
	}

	result, err := r.collection.DeleteMany(ctxTimeout, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to clean expired locks: %w", err)
	}

	return result.DeletedCount, nil
}
