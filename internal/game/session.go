package game

import (
	"sort"
	"time"

	"wellplay/internal/model"
)

// newSession builds a waiting session around an immutable question snapshot.
func newSession(id, roomID, createdBy string, questions []model.Question, timePerQuestion time.Duration) *model.GameSession {
	return &model.GameSession{
		ID:              id,
		RoomID:          roomID,
		Status:          model.SessionWaiting,
		Questions:       questions,
		TimePerQuestion: timePerQuestion,
		CreatedBy:       createdBy,
		Players:         make(map[string]*model.Player),
		CreatedAt:       time.Now(),
	}
}

// finalRankings orders players by score descending, breaking exact ties by
// join time ascending so earlier joiners rank higher. The sort is stable over
// join order, which makes the outcome deterministic for identical inputs.
func finalRankings(s *model.GameSession) []model.RankingEntry {
	entries := make([]model.RankingEntry, 0, len(s.JoinOrder))
	for _, id := range s.JoinOrder {
		p := s.Players[id]
		correct := 0
		for _, a := range p.Answers {
			if a.IsCorrect {
				correct++
			}
		}
		entries = append(entries, model.RankingEntry{
			PlayerID:    p.ID,
			DisplayName: p.DisplayName,
			Score:       p.Score,
			Correct:     correct,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// snapshot builds the read-only status view. Must be called while holding the
// room's serialization.
func snapshot(s *model.GameSession) *model.SessionSnapshot {
	scores := make(map[string]int, len(s.Players))
	for id, p := range s.Players {
		scores[id] = p.Score
	}

	snap := &model.SessionSnapshot{
		ID:                   s.ID,
		RoomID:               s.RoomID,
		Status:               s.Status,
		CurrentQuestionIndex: s.CurrentQuestionIndex,
		TotalQuestions:       len(s.Questions),
		TimePerQuestionMs:    s.TimePerQuestion.Milliseconds(),
		PlayerCount:          len(s.Players),
		Scores:               scores,
	}

	if s.Status == model.SessionActive && s.CurrentQuestionIndex < len(s.Questions) {
		q := s.Questions[s.CurrentQuestionIndex].Public(s.CurrentQuestionIndex, len(s.Questions))
		snap.CurrentQuestion = &q
		if !s.CurrentDeadline.IsZero() {
			snap.DeadlineUnixMs = s.CurrentDeadline.UnixMilli()
		}
	}
	return snap
}

// answeredCount counts recorded answers for a question index.
func answeredCount(s *model.GameSession, questionIndex int) int {
	n := 0
	for _, p := range s.Players {
		if _, ok := p.Answers[questionIndex]; ok {
			n++
		}
	}
	return n
}
