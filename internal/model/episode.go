package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Episode is the durable record of a generated podcast, persisted by the
// final pipeline stage.
type Episode struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	JobID      string             `json:"job_id" bson:"job_id"`
	UserID     string             `json:"user_id" bson:"user_id"`
	Kind       JobKind            `json:"kind" bson:"kind"`
	Title      string             `json:"title" bson:"title"`
	Transcript string             `json:"transcript" bson:"transcript"`
	SourceIDs  []string           `json:"source_ids" bson:"source_ids"`
	AudioURL   string             `json:"audio_url" bson:"audio_url"`
	Duration   int                `json:"duration" bson:"duration"` // seconds
	SizeBytes  int                `json:"size_bytes" bson:"size_bytes"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// BriefSubscription marks a user as subscribed to scheduled brief
// generation. The scheduler enqueues a job per subscription on its cron
// schedule.
type BriefSubscription struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"`
	Kind      JobKind            `json:"kind" bson:"kind"`
	BillCount int                `json:"bill_count" bson:"bill_count"`
	Topics    []string           `json:"topics,omitempty" bson:"topics,omitempty"`
	Enabled   bool               `json:"enabled" bson:"enabled"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	LastRunAt *time.Time         `json:"last_run_at,omitempty" bson:"last_run_at,omitempty"`
	NextRunAt *time.Time         `json:"next_run_at,omitempty" bson:"next_run_at,omitempty"`
}
