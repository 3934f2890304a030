// Package progress stores per-session, per-module quiz state behind a small
// interface so the orchestrator never knows which backend is underneath.
package progress

import (
	"fmt"

	"github.com/nayi-disha/backend/internal/models"
)

// Store is keyed storage for answer history, asked questions, roadmaps, and
// completion state. Writes have upsert semantics: the session/module
// container is created on first write. Reads before the first write return
// an explicit absent flag, never an error.
type Store interface {
	GetModuleProgress(sessionKey, moduleID string) (*models.ModuleProgress, bool, error)
	AppendQuestion(sessionKey, moduleID string, q models.QuestionRecord) error
	AppendAnswer(sessionKey, moduleID string, a models.AnswerRecord) error

	// GetRecentAnswers returns up to n most recent answers in append order.
	GetRecentAnswers(sessionKey, moduleID string, n int) ([]models.AnswerRecord, error)

	MarkCompleted(sessionKey, moduleID string, report *models.ModuleReport) error

	StoreRoadmap(sessionKey string, roadmap models.Roadmap) error
	GetRoadmap(sessionKey string) (*models.Roadmap, bool, error)

	ClearSession(sessionKey string) error
}

// StoreError wraps a backend failure from a persistence-backed store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
