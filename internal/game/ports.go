package game

import (
	"context"

	"wellplay/internal/model"
)

// QuestionPool supplies question snapshots for new sessions. Implementations
// must prefer least-used questions and return ErrInsufficientQuestions when
// fewer than count match the filter.
type QuestionPool interface {
	Fetch(ctx context.Context, filter model.QuestionFilter, count int) ([]model.Question, error)
}

// StatsSink persists aggregate results after a game finishes. Called once per
// finished session, after the in-memory transition; failures are logged, never
// propagated back into game state.
type StatsSink interface {
	RecordGameResult(ctx context.Context, roomID string, rankings []model.RankingEntry) error
}

// Broadcaster pushes game events to room participants. Defined here rather
// than in transport to avoid an import cycle with the WebSocket hub.
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgType string, payload interface{})
	BroadcastToPlayer(roomID, playerID string, msgType string, payload interface{})
	DisconnectRoom(roomID string)
}

// ScoreBoard mirrors live scores into an external leaderboard. Best-effort;
// the authoritative scores live in the session.
type ScoreBoard interface {
	UpdateScore(ctx context.Context, roomID, playerID string, score int) error
	Clear(ctx context.Context, roomID string) error
}
