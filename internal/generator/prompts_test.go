package generator

import (
	"strings"
	"testing"

	"github.com/nayi-disha/backend/internal/models"
)

func TestBuildQuestionUserPrompt(t *testing.T) {
	prompt := BuildQuestionUserPrompt("Goroutines and Channels", []string{"goroutines", "channels", "select"}, models.DifficultyHard)

	required := []string{
		"hard difficulty",
		"Module: Goroutines and Channels",
		"Topics: goroutines, channels, select",
		"correctIndex",
		"ONLY valid JSON",
	}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("question prompt missing %q", keyword)
		}
	}
}

func TestQuestionPromptDifficultyGuidance(t *testing.T) {
	for difficulty, guidance := range difficultyGuidance {
		prompt := BuildQuestionUserPrompt("Module", []string{"topic"}, difficulty)
		if !strings.Contains(prompt, guidance) {
			t.Errorf("prompt for %q missing guidance %q", difficulty, guidance)
		}
	}
}

func TestBuildRoadmapUserPrompt(t *testing.T) {
	prompt := BuildRoadmapUserPrompt("Go", "Backend Development", "Intermediate")

	required := []string{
		"Subject: Go",
		"Goal: Backend Development",
		"Level: Intermediate",
		"8-12 modules",
		"estimatedHours",
	}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("roadmap prompt missing %q", keyword)
		}
	}
}

func TestBuildReportUserPrompt(t *testing.T) {
	stats := models.PerformanceStats{
		TotalQuestions: 12,
		CorrectAnswers: 9,
		Accuracy:       75,
		DifficultyBreakdown: map[models.Difficulty]models.DifficultyStats{
			models.DifficultyMedium: {Total: 12, Correct: 9, Accuracy: 75},
		},
	}

	prompt := BuildReportUserPrompt("Concurrency Basics", stats, 18)

	required := []string{
		"Module: Concurrency Basics",
		"Accuracy: 75%",
		"Questions Answered: 12",
		"Time Spent: 18 minutes",
		"overallScore",
		"careerReadinessImpact",
	}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("report prompt missing %q", keyword)
		}
	}
}

func TestSystemPromptsForbidMarkdown(t *testing.T) {
	for name, prompt := range map[string]string{
		"roadmap":  RoadmapSystemPrompt(),
		"question": QuestionSystemPrompt(),
		"report":   ReportSystemPrompt(),
	} {
		if !strings.Contains(prompt, "JSON") {
			t.Errorf("%s system prompt does not mention JSON", name)
		}
		if !strings.Contains(prompt, "no markdown") {
			t.Errorf("%s system prompt does not forbid markdown", name)
		}
	}
}
