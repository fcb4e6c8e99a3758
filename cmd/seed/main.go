// Package main provides a tool to seed the database with episode
// references and test listening data.
//
// The episode catalog lives outside this server; in development this
// tool stands in for the catalog sync by loading refs from a JSON file
// and, optionally, generating realistic sessions to exercise the stats
// and achievement endpoints.
//
// Usage:
//
//	DB_PATH=~/Earmark/data/db go run ./cmd/seed --episodes episodes.json
//	DB_PATH=~/Earmark/data/db go run ./cmd/seed --sessions --user usr-abc
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/earmarkapp/earmark-server/internal/domain"
	"github.com/earmarkapp/earmark-server/internal/id"
	"github.com/earmarkapp/earmark-server/internal/store"
)

var (
	episodesFile = flag.String("episodes", "", "JSON file of episode refs to load")
	genSessions  = flag.Bool("sessions", false, "Generate test listening sessions")
	userID       = flag.String("user", "", "User to generate sessions for")
	days         = flag.Int("days", 14, "Days of listening history to generate")
)

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/Earmark/data/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	if *episodesFile != "" {
		if err := loadEpisodes(ctx, s, *episodesFile); err != nil {
			log.Fatalf("Failed to load episodes: %v", err)
		}
	}

	if *genSessions {
		if *userID == "" {
			log.Fatal("--sessions requires --user")
		}
		if err := generateSessions(ctx, s, *userID, *days); err != nil {
			log.Fatalf("Failed to generate sessions: %v", err)
		}
	}
}

func loadEpisodes(ctx context.Context, s *store.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var refs []domain.EpisodeRef
	if err := json.NewDecoder(f).Decode(&refs); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for i := range refs {
		if refs[i].ID == "" {
			refs[i].ID = id.MustGenerate("ep")
		}
		if err := s.PutEpisodeRef(ctx, &refs[i]); err != nil {
			return err
		}
	}

	fmt.Printf("Loaded %d episode refs\n", len(refs))
	return nil
}

func generateSessions(ctx context.Context, s *store.Store, userID string, days int) error {
	episodes, err := s.ListEpisodeRefs(ctx)
	if err != nil {
		return err
	}
	if len(episodes) == 0 {
		return fmt.Errorf("no episode refs in database, load some with --episodes first")
	}

	speeds := []float64{1.0, 1.0, 1.25, 1.5, 2.0}
	count := 0

	for day := 0; day < days; day++ {
		// Skip some days so streaks have gaps to find.
		if rand.Intn(5) == 0 {
			continue
		}

		sessionsToday := 1 + rand.Intn(3)
		for i := 0; i < sessionsToday; i++ {
			ep := episodes[rand.Intn(len(episodes))]
			startedAt := time.Now().AddDate(0, 0, -day).Add(-time.Duration(rand.Intn(12)) * time.Hour)
			completionRate := rand.Float64()
			if rand.Intn(3) == 0 {
				completionRate = 1.0
			}
			duration := int(completionRate * float64(ep.DurationSeconds))
			endedAt := startedAt.Add(time.Duration(duration) * time.Second)

			session := domain.NewListeningSession(
				id.MustGenerate("ses"),
				userID,
				ep.ID,
				ep.SeriesID,
				startedAt,
				&endedAt,
				speeds[rand.Intn(len(speeds))],
				completionRate,
				duration,
				false,
			)
			if err := s.AppendSession(ctx, session); err != nil {
				return err
			}

			position := completionRate * float64(ep.DurationSeconds)
			if session.MarkedComplete {
				position = 0
			}
			if _, err := s.UpsertProgress(ctx, userID, ep.ID, position, session.MarkedComplete); err != nil {
				return err
			}
			count++
		}
	}

	fmt.Printf("Generated %d sessions for %s\n", count, userID)
	return nil
}
