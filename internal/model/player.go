package model

import "time"

// Player is a participant in a game session.
type Player struct {
	ID          string
	DisplayName string
	JoinedAt    time.Time
	// Answers is sparse, keyed by question index; absence means the player
	// has not answered that question. Entries are append-only.
	Answers map[int]Answer
	Score   int
}

// Answer records one submission. Immutable once stored.
type Answer struct {
	SelectedOptionIndex int       `json:"selectedOptionIndex"`
	IsCorrect           bool      `json:"isCorrect"`
	PointsAwarded       int       `json:"pointsAwarded"`
	ElapsedMs           int64     `json:"elapsedMs"`
	AnsweredAt          time.Time `json:"answeredAt"`
}

// PlayerStats is the persisted per-player aggregate, incremented once per
// finished game.
type PlayerStats struct {
	PlayerID    string    `json:"playerId" bson:"_id"`
	DisplayName string    `json:"displayName" bson:"displayName"`
	GamesPlayed int64     `json:"gamesPlayed" bson:"gamesPlayed"`
	GamesWon    int64     `json:"gamesWon" bson:"gamesWon"`
	TotalPoints int64     `json:"totalPoints" bson:"totalPoints"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}
