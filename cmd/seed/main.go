package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"wellplay/config"
	"wellplay/internal/model"
	"wellplay/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewQuestionRepo(client.Database(cfg.MongoDB))

	questions := []model.Question{
		{
			Prompt:             "Roughly how much of the adult human body is water?",
			Options:            []string{"30%", "45%", "60%", "80%"},
			CorrectOptionIndex: 2,
			BasePoints:         10,
			Category:           "nutrition",
			Difficulty:         model.DifficultyEasy,
		},
		{
			Prompt:             "Which nutrient is the body's preferred energy source during high-intensity exercise?",
			Options:            []string{"Protein", "Carbohydrates", "Fat", "Fiber"},
			CorrectOptionIndex: 1,
			BasePoints:         10,
			Category:           "fitness",
			Difficulty:         model.DifficultyMedium,
		},
		{
			Prompt:             "How many hours of sleep do most adults need per night?",
			Options:            []string{"4-5", "5-6", "7-9", "10-12"},
			CorrectOptionIndex: 2,
			BasePoints:         10,
			Category:           "sleep",
			Difficulty:         model.DifficultyEasy,
		},
		{
			Prompt:             "Which practice involves focusing on the present moment without judgment?",
			Options:            []string{"Mindfulness", "Visualization", "Affirmation", "Hypnosis"},
			CorrectOptionIndex: 0,
			BasePoints:         10,
			Category:           "mindfulness",
			Difficulty:         model.DifficultyEasy,
		},
		{
			Prompt:             "What is the recommended minimum of moderate aerobic activity per week for adults?",
			Options:            []string{"75 minutes", "150 minutes", "300 minutes", "600 minutes"},
			CorrectOptionIndex: 1,
			BasePoints:         15,
			Category:           "fitness",
			Difficulty:         model.DifficultyMedium,
		},
		{
			Prompt:             "Which vitamin does the body synthesize from sunlight exposure?",
			Options:            []string{"Vitamin A", "Vitamin C", "Vitamin D", "Vitamin K"},
			CorrectOptionIndex: 2,
			BasePoints:         10,
			Category:           "nutrition",
			Difficulty:         model.DifficultyEasy,
		},
		{
			Prompt:             "During which sleep stage does most dreaming occur?",
			Options:            []string{"Stage 1", "Stage 2", "Deep sleep", "REM"},
			CorrectOptionIndex: 3,
			BasePoints:         15,
			Category:           "sleep",
			Difficulty:         model.DifficultyMedium,
		},
		{
			Prompt:             "Which hormone, elevated by chronic stress, can suppress immune function?",
			Options:            []string{"Insulin", "Cortisol", "Melatonin", "Oxytocin"},
			CorrectOptionIndex: 1,
			BasePoints:         20,
			Category:           "mindfulness",
			Difficulty:         model.DifficultyHard,
		},
	}

	for i := range questions {
		if err := repo.Create(ctx, &questions[i]); err != nil {
			log.Fatalf("Failed to insert question %d: %v", i, err)
		}
	}

	fmt.Printf("Seeded %d questions\n", len(questions))
}
