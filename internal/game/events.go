package game

import "wellplay/internal/model"

// Event types pushed through the Broadcaster.
const (
	EventSessionCreated = "session_created"
	EventPlayerJoined   = "player_joined"
	EventGameStarted    = "game_started"
	EventAnswerAccepted = "answer_accepted"
	EventAnswerResult   = "answer_result"
	EventNextQuestion   = "next_question"
	EventGameFinished   = "game_finished"
	EventGameCancelled  = "game_cancelled"
)

// SessionCreatedPayload announces a new waiting session.
type SessionCreatedPayload struct {
	SessionID         string `json:"sessionId"`
	RoomID            string `json:"roomId"`
	QuestionCount     int    `json:"questionCount"`
	TimePerQuestionMs int64  `json:"timePerQuestionMs"`
}

// PlayerJoinedPayload announces a new player in the lobby.
type PlayerJoinedPayload struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	PlayerCount int    `json:"playerCount"`
}

// QuestionPayload carries the player-facing question and its deadline.
type QuestionPayload struct {
	Question       model.PublicQuestion `json:"question"`
	DeadlineUnixMs int64                `json:"deadlineUnixMs"`
}

// AnswerAcceptedPayload is broadcast to the whole room when any player's
// answer is recorded. It deliberately carries no correctness information.
type AnswerAcceptedPayload struct {
	PlayerID      string `json:"playerId"`
	QuestionIndex int    `json:"questionIndex"`
	AnsweredCount int    `json:"answeredCount"`
}

// AnswerResultPayload goes to the submitting player only.
type AnswerResultPayload struct {
	QuestionIndex int  `json:"questionIndex"`
	IsCorrect     bool `json:"isCorrect"`
	PointsAwarded int  `json:"pointsAwarded"`
	TotalScore    int  `json:"totalScore"`
}

// GameFinishedPayload carries the final standings.
type GameFinishedPayload struct {
	SessionID     string               `json:"sessionId"`
	FinalRankings []model.RankingEntry `json:"finalRankings"`
}
