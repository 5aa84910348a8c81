package game

import (
	"math"
	"time"

	"wellplay/internal/model"
)

// difficultyMultipliers weight base points by question difficulty. Unknown
// difficulties fall back to 1.0.
var difficultyMultipliers = map[model.Difficulty]float64{
	model.DifficultyEasy:   1.0,
	model.DifficultyMedium: 1.5,
	model.DifficultyHard:   2.0,
}

// categoryBonuses add a small flat bonus per wellness category. Unknown
// categories get no bonus. Values stay within [0, 0.2].
var categoryBonuses = map[string]float64{
	"mindfulness": 0.15,
	"nutrition":   0.10,
	"fitness":     0.10,
	"sleep":       0.05,
}

// Score computes the points awarded for an answer. Incorrect answers score
// zero. Correct answers earn base points weighted by difficulty and category,
// with up to 50% extra for answering fast; a correct answer never scores
// below 1 even after rounding.
func Score(q model.Question, timePerQuestion time.Duration, elapsed time.Duration, isCorrect bool) int {
	if !isCorrect {
		return 0
	}

	speed := speedFraction(timePerQuestion, elapsed)

	mult, ok := difficultyMultipliers[q.Difficulty]
	if !ok {
		mult = 1.0
	}

	points := float64(q.BasePoints) * mult * (1 + categoryBonuses[q.Category]) * (1 + speed*0.5)
	rounded := int(math.Round(points))
	if rounded < 1 {
		return 1
	}
	return rounded
}

// speedFraction is the normalized remaining-time ratio, clamped to [0, 1].
func speedFraction(timePerQuestion, elapsed time.Duration) float64 {
	if timePerQuestion <= 0 {
		return 0
	}
	f := float64(timePerQuestion-elapsed) / float64(timePerQuestion)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
