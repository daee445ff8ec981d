package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hakivo/podcastd/internal/model"
)

// ErrNotFound is returned when a document does not exist
var ErrNotFound = errors.New("not found")

// EpisodeRepository handles persistence of generated podcast episodes
type EpisodeRepository struct {
	collection *mongo.Collection
}

// NewEpisodeRepository creates a new episode repository
func NewEpisodeRepository(db *MongoDB) *EpisodeRepository {
	return &EpisodeRepository{
		collection: db.GetCollection(CollectionEpisodes),
	}
}

// Create inserts a new episode document
func (r *EpisodeRepository) Create(ctx context.Context, episode *model.Episode) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if episode.ID.IsZero() {
		episode.ID = primitive.NewObjectID()
	}
	if episode.CreatedAt.IsZero() {
		episode.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctxTimeout, episode)
	if err != nil {
		return fmt.Errorf("failed to create episode: %w", err)
	}

	return nil
}

// GetByJobID retrieves the episode produced by a job
func (r *EpisodeRepository) GetByJobID(ctx context.Context, jobID string) (*model.Episode, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var episode model.Episode
	err := r.collection.FindOne(ctxTimeout, bson.M{"job_id": jobID}).Decode(&episode)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get episode: %w", err)
	}

	return &episode, nil
}

// ListByUser retrieves a user's episodes, newest first
func (r *EpisodeRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]model.Episode, int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID}

	total, err := r.collection.CountDocuments(ctxTimeout, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count episodes: %w", err)
	}

	skip := (page - 1) * limit
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctxTimeout, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list episodes: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var episodes []model.Episode
	if err := cursor.All(ctxTimeout, &episodes); err != nil {
		return nil, 0, fmt.Errorf("failed to decode episodes: %w", err)
	}

	return episodes, total, nil
}
