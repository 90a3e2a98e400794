package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"truthordare/internal/config"
	"truthordare/internal/model"
	"truthordare/internal/repository"
)

// Seeds the Mongo prompt collection from the question files, falling back to
// the built-in samples for categories without a file.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	files := repository.NewFileBank(cfg.QuestionDir)
	prompts := make(map[model.Category][]string, len(model.Categories))
	for _, category := range model.Categories {
		lines, err := files.ListPrompts(ctx, category)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", files.Path(category), err)
		}
		if len(lines) == 0 {
			lines = model.SamplePrompts[category]
		}
		prompts[category] = lines
	}

	repo := repository.NewQuestionRepo(client, cfg.MongoDB)
	added, err := repository.SeedBank(ctx, repo, prompts)
	if err != nil {
		log.Fatalf("Failed to seed prompts: %v", err)
	}

	for _, category := range model.Categories {
		n, err := repo.Count(ctx, category)
		if err != nil {
			log.Fatalf("Failed to count %s: %v", category, err)
		}
		fmt.Printf("%-10s %d prompts\n", category, n)
	}
	fmt.Printf("Successfully seeded %d prompts into %s.prompts\n", added, cfg.MongoDB)
}
