package model

import "time"

type SessionStatus string

const (
	SessionWaiting   SessionStatus = "waiting"
	SessionActive    SessionStatus = "active"
	SessionFinished  SessionStatus = "finished"
	SessionCancelled SessionStatus = "cancelled"
)

// GameSession is one live trivia game bound to a room. At most one session
// per room is in a non-terminal status at any instant. All mutation happens
// under the room's serialization in the game manager; the struct itself
// carries no locking.
type GameSession struct {
	ID                   string
	RoomID               string
	Status               SessionStatus
	Questions            []Question // fixed at creation, never mutated
	CurrentQuestionIndex int
	TimePerQuestion      time.Duration
	CurrentDeadline      time.Time // zero unless a question is open
	CreatedBy            string
	Players              map[string]*Player
	JoinOrder            []string // player IDs in join order
	CreatedAt            time.Time
}

// RankingEntry is one row of the final standings.
type RankingEntry struct {
	Rank        int    `json:"rank"`
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
	Correct     int    `json:"correct"`
}

// SessionSnapshot is the read-only view returned by status queries.
type SessionSnapshot struct {
	ID                   string          `json:"id"`
	RoomID               string          `json:"roomId"`
	Status               SessionStatus   `json:"status"`
	CurrentQuestionIndex int             `json:"currentQuestionIndex"`
	TotalQuestions       int             `json:"totalQuestions"`
	TimePerQuestionMs    int64           `json:"timePerQuestionMs"`
	DeadlineUnixMs       int64           `json:"deadlineUnixMs,omitempty"`
	PlayerCount          int             `json:"playerCount"`
	Scores               map[string]int  `json:"scores"`
	CurrentQuestion      *PublicQuestion `json:"currentQuestion,omitempty"`
}

// QuestionFilter narrows pool selection at session creation.
type QuestionFilter struct {
	Category   string     `json:"category,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
}
