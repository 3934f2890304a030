// Package roadmap generates and serves personalized learning roadmaps.
package roadmap

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/nayi-disha/backend/internal/event"
	"github.com/nayi-disha/backend/internal/generator"
	"github.com/nayi-disha/backend/internal/models"
	"github.com/nayi-disha/backend/internal/progress"
	"github.com/nayi-disha/backend/internal/quiz"
)

type Service struct {
	store     progress.Store
	generator *generator.Generator
	events    *event.Publisher
}

func NewService(store progress.Store, gen *generator.Generator, events *event.Publisher) *Service {
	return &Service{store: store, generator: gen, events: events}
}

// Generate builds a roadmap for the learner's subject, goal, and level and
// stores it under the session key, replacing any previous roadmap.
func (s *Service) Generate(ctx context.Context, sessionKey, subject, goal, level string) (*models.Roadmap, error) {
	subject = strings.TrimSpace(subject)
	goal = strings.TrimSpace(goal)
	level = strings.TrimSpace(level)
	if subject == "" || goal == "" || level == "" {
		return nil, &quiz.ValidationError{Message: "subject, goal, and level are required"}
	}

	log.Printf("[roadmap] generating roadmap for subject %q (session %s)", subject, sessionKey)

	roadmap, err := s.generator.GenerateRoadmap(ctx, subject, goal, level)
	if err != nil {
		return nil, err
	}

	roadmap.Subject = subject
	roadmap.Goal = goal
	roadmap.Level = level
	roadmap.CreatedAt = time.Now()

	if err := s.store.StoreRoadmap(sessionKey, *roadmap); err != nil {
		return nil, err
	}

	if err := s.events.Publish(event.RoadmapCreated, map[string]any{
		"sessionId": sessionKey,
		"subject":   subject,
		"modules":   roadmap.TotalModules,
	}); err != nil {
		log.Printf("[roadmap] WARN: publish roadmap event: %v", err)
	}

	return roadmap, nil
}

// Get returns the stored roadmap for a session key.
func (s *Service) Get(sessionKey string) (*models.Roadmap, error) {
	roadmap, ok, err := s.store.GetRoadmap(sessionKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &quiz.NotFoundError{Resource: "roadmap", Key: sessionKey}
	}
	return roadmap, nil
}
