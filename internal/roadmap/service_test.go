package roadmap

import (
	"context"
	"errors"
	"testing"

	"github.com/nayi-disha/backend/internal/generator"
	"github.com/nayi-disha/backend/internal/progress"
	"github.com/nayi-disha/backend/internal/quiz"
)

func newTestService() *Service {
	return NewService(progress.NewMemoryStore(), generator.NewWithClient(generator.NewMockClient(), "mock"), nil)
}

func TestGenerateAndGet(t *testing.T) {
	svc := newTestService()

	roadmap, err := svc.Generate(context.Background(), "s1", "Go programming", "Become a backend developer", "beginner")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if roadmap.Subject != "Go programming" || roadmap.Goal != "Become a backend developer" || roadmap.Level != "beginner" {
		t.Errorf("request fields not carried onto roadmap: %+v", roadmap)
	}
	if roadmap.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if len(roadmap.Modules) == 0 {
		t.Fatal("roadmap has no modules")
	}
	for _, m := range roadmap.Modules {
		if m.ID == "" || m.Title == "" || len(m.Topics) == 0 {
			t.Errorf("module missing required fields: %+v", m)
		}
	}

	stored, err := svc.Get("s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Title != roadmap.Title || len(stored.Modules) != len(roadmap.Modules) {
		t.Errorf("stored roadmap differs from generated one")
	}
}

func TestGenerateValidation(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name                 string
		subject, goal, level string
	}{
		{"missing subject", "", "goal", "beginner"},
		{"missing goal", "subject", "", "beginner"},
		{"missing level", "subject", "goal", ""},
		{"whitespace only", "   ", "goal", "beginner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), "s1", tt.subject, tt.goal, tt.level)
			var validationErr *quiz.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("error = %v, want ValidationError", err)
			}
		})
	}
}

func TestGetMissingRoadmap(t *testing.T) {
	svc := newTestService()

	_, err := svc.Get("unknown-session")
	var notFound *quiz.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}

func TestGenerateReplacesPrevious(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Generate(ctx, "s1", "Go programming", "goal one", "beginner"); err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}
	if _, err := svc.Generate(ctx, "s1", "Rust programming", "goal two", "advanced"); err != nil {
		t.Fatalf("second Generate() error = %v", err)
	}

	stored, err := svc.Get("s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Subject != "Rust programming" {
		t.Errorf("stored subject = %q, want the replacement roadmap", stored.Subject)
	}
}
