package model

// Difficulty grades a trivia question
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is a trivia question. The engine works on value copies taken at
// session creation, so edits to the stored pool never reach a running game.
type Question struct {
	ID                 string     `json:"id" bson:"_id,omitempty"`
	Prompt             string     `json:"prompt" bson:"prompt"`
	Options            []string   `json:"options" bson:"options"`
	CorrectOptionIndex int        `json:"correctOptionIndex" bson:"correctOptionIndex"`
	BasePoints         int        `json:"basePoints" bson:"basePoints"`
	Category           string     `json:"category" bson:"category"`
	Difficulty         Difficulty `json:"difficulty" bson:"difficulty"`
	TimesUsed          int64      `json:"timesUsed" bson:"timesUsed"`
}

// PublicQuestion is the player-facing view of a question. It never carries
// the correct option index.
type PublicQuestion struct {
	Index      int        `json:"index"`
	Total      int        `json:"total"`
	Prompt     string     `json:"prompt"`
	Options    []string   `json:"options"`
	BasePoints int        `json:"basePoints"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
}

// Public strips the answer key for broadcast to players.
func (q Question) Public(index, total int) PublicQuestion {
	opts := make([]string, len(q.Options))
	copy(opts, q.Options)
	return PublicQuestion{
		Index:      index,
		Total:      total,
		Prompt:     q.Prompt,
		Options:    opts,
		BasePoints: q.BasePoints,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	}
}
