package repository

import (
	"context"
	"time"

	"wellplay/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatsRepo persists per-player aggregate game results.
type StatsRepo interface {
	// IncrementResult bumps a player's play count and cumulative points,
	// and the win count when won is true. Upserts on first sight.
	IncrementResult(ctx context.Context, playerID, displayName string, points int, won bool) error
	GetByPlayerID(ctx context.Context, playerID string) (*model.PlayerStats, error)
}

type statsRepo struct {
	collection *mongo.Collection
}

// NewStatsRepo creates a stats repository over the given database.
func NewStatsRepo(db *mongo.Database) StatsRepo {
	return &statsRepo{
		collection: db.Collection("player_stats"),
	}
}

func (r *statsRepo) IncrementResult(ctx context.Context, playerID, displayName string, points int, won bool) error {
	inc := bson.M{
		"gamesPlayed": 1,
		"totalPoints": points,
	}
	if won {
		inc["gamesWon"] = 1
	}

	update := bson.M{
		"$inc": inc,
		"$set": bson.M{
			"displayName": displayName,
			"updatedAt":   time.Now(),
		},
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": playerID},
		update,
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *statsRepo) GetByPlayerID(ctx context.Context, playerID string) (*model.PlayerStats, error) {
	var stats model.PlayerStats
	err := r.collection.FindOne(ctx, bson.M{"_id": playerID}).Decode(&stats)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // No stats yet
		}
		return nil, err
	}
	return &stats, nil
}
