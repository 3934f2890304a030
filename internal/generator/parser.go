package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/nayi-disha/backend/internal/models"
)

// GeneratedQuestion is a validated question as produced by the generator,
// including the correct index. It never leaves the backend in this form.
type GeneratedQuestion struct {
	ID           string            `json:"id"`
	Question     string            `json:"question"`
	Options      []string          `json:"options"`
	CorrectIndex int               `json:"correctIndex"`
	Explanation  string            `json:"explanation"`
	Difficulty   models.Difficulty `json:"difficulty"`
	Topic        string            `json:"topic"`
}

// GeneratedReport carries the narrative half of a module completion report.
type GeneratedReport struct {
	OverallScore          int                        `json:"overallScore"`
	Strengths             []string                   `json:"strengths"`
	Weaknesses            []string                   `json:"weaknesses"`
	Recommendations       []string                   `json:"recommendations"`
	SuggestedResources    []models.SuggestedResource `json:"suggestedResources"`
	CareerReadinessImpact string                     `json:"careerReadinessImpact"`
}

// GenerationError is a terminal generator failure: the backend could not
// produce schema-valid output within its retry budget.
type GenerationError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s failed after %d attempt(s): %v", e.Op, e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ValidationError lists every way a generator response violated its schema.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

var codeFenceRe = regexp.MustCompile("(?s)```(?:json|javascript)?\\s*(.*?)```")

// extractJSON pulls the JSON object out of a raw model response, tolerating
// markdown code fences and surrounding prose.
func extractJSON(response string) (string, error) {
	text := strings.TrimSpace(response)

	if m := codeFenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in response")
	}

	return text[start : end+1], nil
}

// ParseRoadmap extracts, schema-validates, and decodes a roadmap response.
func ParseRoadmap(responseBody string) (*models.Roadmap, error) {
	raw, err := extractJSON(responseBody)
	if err != nil {
		return nil, err
	}

	if err := validateSchema(roadmapSchemaName, raw); err != nil {
		return nil, err
	}

	var wrapper struct {
		Roadmap models.Roadmap `json:"roadmap"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapper); err != nil {
		return nil, fmt.Errorf("failed to parse roadmap JSON: %w", err)
	}

	return &wrapper.Roadmap, nil
}

// ParseQuestion extracts, schema-validates, and decodes a question response.
// A structurally valid question can still be rejected here when the correct
// index falls outside the options.
func ParseQuestion(responseBody string) (*GeneratedQuestion, error) {
	raw, err := extractJSON(responseBody)
	if err != nil {
		return nil, err
	}

	if err := validateSchema(questionSchemaName, raw); err != nil {
		return nil, err
	}

	var q GeneratedQuestion
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return nil, fmt.Errorf("failed to parse question JSON: %w", err)
	}

	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return nil, &ValidationError{Errors: []string{
			fmt.Sprintf("correctIndex %d out of range for %d options", q.CorrectIndex, len(q.Options)),
		}}
	}

	return &q, nil
}

// ParseReport extracts, schema-validates, and decodes a report response.
func ParseReport(responseBody string) (*GeneratedReport, error) {
	raw, err := extractJSON(responseBody)
	if err != nil {
		return nil, err
	}

	if err := validateSchema(reportSchemaName, raw); err != nil {
		return nil, err
	}

	var report GeneratedReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report JSON: %w", err)
	}

	return &report, nil
}
