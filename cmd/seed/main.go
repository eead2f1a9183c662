package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
	"wordstake/internal/game"
	"wordstake/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fallback pool used when no word list file is given.
var defaultWords = []string{
	"crane", "slate", "pride", "glint", "mouth",
	"brick", "shard", "quilt", "frost", "plume",
	"gravy", "chess", "vault", "spine", "lodge",
	"crisp", "haunt", "bloom", "truce", "widow",
}

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database("wordstake")
	wordRepo := repository.NewWordRepo(db)

	words := defaultWords
	if len(os.Args) > 1 {
		words, err = readWordFile(os.Args[1])
		if err != nil {
			log.Fatalf("Failed to read word list %s: %v", os.Args[1], err)
		}
	}

	added := 0
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if err := game.ValidateWord(word); err != nil {
			log.Printf("Skipping %q: %v", word, err)
			continue
		}
		if err := wordRepo.AddAnswer(ctx, word); err != nil {
			log.Fatalf("Failed to insert %q: %v", word, err)
		}
		added++
	}

	fmt.Printf("Successfully seeded %d answer words\n", added)
}

func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}
