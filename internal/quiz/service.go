package quiz

import (
	"context"
	"log"
	"math"
	"sync"
	"time"

	"github.com/nayi-disha/backend/internal/event"
	"github.com/nayi-disha/backend/internal/generator"
	"github.com/nayi-disha/backend/internal/models"
	"github.com/nayi-disha/backend/internal/progress"
)

// Service orchestrates the quiz lifecycle for a (session, module) pair:
// NotStarted -> InProgress on the first question, InProgress -> Completed
// when a report is produced. Operations on the same pair are serialized by
// a per-key lock; generator calls never run under it.
type Service struct {
	store     progress.Store
	generator *generator.Generator
	events    *event.Publisher

	windowSize   int
	minQuestions int
	maxQuestions int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(store progress.Store, gen *generator.Generator, events *event.Publisher, windowSize, minQuestions, maxQuestions int) *Service {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if minQuestions <= 0 {
		minQuestions = DefaultMinQuestions
	}
	if maxQuestions <= 0 {
		maxQuestions = DefaultMaxQuestions
	}

	return &Service{
		store:        store,
		generator:    gen,
		events:       events,
		windowSize:   windowSize,
		minQuestions: minQuestions,
		maxQuestions: maxQuestions,
		locks:        make(map[string]*sync.Mutex),
	}
}

// keyLock returns the mutex serializing one (session, module) pair.
func (s *Service) keyLock(sessionKey, moduleID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey + "\x00" + moduleID
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// RequestQuestion generates the next question at a difficulty derived from
// the recent answer window, records it, and returns the client view — the
// correct index stays server-side. The question is persisted only after
// the generator's output passed validation.
func (s *Service) RequestQuestion(ctx context.Context, sessionKey, moduleID, moduleTitle string, topics []string) (*models.QuestionResponse, error) {
	recent, err := s.store.GetRecentAnswers(sessionKey, moduleID, s.windowSize)
	if err != nil {
		return nil, err
	}
	difficulty := NextDifficulty(recent, s.windowSize)

	log.Printf("[quiz] generating %s question for module %q (session %s)", difficulty, moduleTitle, sessionKey)

	q, err := s.generator.GenerateQuestion(ctx, moduleTitle, topics, difficulty)
	if err != nil {
		return nil, err
	}

	record := models.QuestionRecord{
		QuestionID:   q.ID,
		CorrectIndex: q.CorrectIndex,
		Difficulty:   q.Difficulty,
		Topic:        q.Topic,
		AskedAt:      time.Now(),
	}

	lock := s.keyLock(sessionKey, moduleID)
	lock.Lock()
	mp, _, err := s.store.GetModuleProgress(sessionKey, moduleID)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	if err := s.store.AppendQuestion(sessionKey, moduleID, record); err != nil {
		lock.Unlock()
		return nil, err
	}
	lock.Unlock()

	answered := 0
	if mp != nil {
		answered = len(mp.Answers)
	}

	if err := s.events.Publish(event.QuestionAsked, map[string]any{
		"sessionId":  sessionKey,
		"moduleId":   moduleID,
		"questionId": q.ID,
		"difficulty": q.Difficulty,
	}); err != nil {
		log.Printf("[quiz] WARN: publish question event: %v", err)
	}

	return &models.QuestionResponse{
		Question: models.ClientQuestion{
			ID:          q.ID,
			Question:    q.Question,
			Options:     q.Options,
			Explanation: q.Explanation,
			Difficulty:  q.Difficulty,
			Topic:       q.Topic,
		},
		CurrentDifficulty: difficulty,
		QuestionNumber:    answered + 1,
	}, nil
}

// SubmitAnswer grades an answer against the correct index recorded at
// ask-time, appends the answer, and reports the termination decision plus
// live stats. Resubmitting an already-answered question is rejected.
func (s *Service) SubmitAnswer(ctx context.Context, sessionKey, moduleID, questionID string, userAnswer int) (*models.EvaluateAnswerResponse, error) {
	lock := s.keyLock(sessionKey, moduleID)
	lock.Lock()
	defer lock.Unlock()

	mp, ok, err := s.store.GetModuleProgress(sessionKey, moduleID)
	if err != nil {
		return nil, err
	}
	if !ok || len(mp.Questions) == 0 {
		return nil, &NotFoundError{Resource: "module progress", Key: moduleID}
	}

	var question *models.QuestionRecord
	for i := range mp.Questions {
		if mp.Questions[i].QuestionID == questionID {
			question = &mp.Questions[i]
			break
		}
	}
	if question == nil {
		return nil, &NotFoundError{Resource: "question", Key: questionID}
	}

	for _, a := range mp.Answers {
		if a.QuestionID == questionID {
			return nil, &ValidationError{Message: "question has already been answered"}
		}
	}

	isCorrect := userAnswer == question.CorrectIndex

	answer := models.AnswerRecord{
		QuestionID:    questionID,
		UserAnswer:    userAnswer,
		CorrectAnswer: question.CorrectIndex,
		Correct:       isCorrect,
		Difficulty:    question.Difficulty,
		Topic:         question.Topic,
		AnsweredAt:    time.Now(),
	}
	if err := s.store.AppendAnswer(sessionKey, moduleID, answer); err != nil {
		return nil, err
	}

	allAnswers := append(mp.Answers, answer)
	decision := ShouldEnd(allAnswers, s.minQuestions, s.maxQuestions)
	stats := ComputeStats(allAnswers)

	if err := s.events.Publish(event.AnswerSubmitted, map[string]any{
		"sessionId":  sessionKey,
		"moduleId":   moduleID,
		"questionId": questionID,
		"correct":    isCorrect,
		"accuracy":   stats.Accuracy,
	}); err != nil {
		log.Printf("[quiz] WARN: publish answer event: %v", err)
	}

	return &models.EvaluateAnswerResponse{
		IsCorrect:     isCorrect,
		CorrectAnswer: question.CorrectIndex,
		ShouldEndQuiz: decision.End,
		EndReason:     decision.Reason,
		Stats: models.StatsSummary{
			TotalQuestions: stats.TotalQuestions,
			CorrectAnswers: stats.CorrectAnswers,
			Accuracy:       stats.Accuracy,
		},
	}, nil
}

// minutesPerQuestion is a fixed estimate; elapsed time is not measured.
const minutesPerQuestion = 1.5

// GetReport builds the completion report for a module: computed stats, an
// estimated time spent, and narrative insights from the report generator.
// A generator failure is terminal: the error surfaces to the caller and the
// module stays incomplete, so the report can be requested again. On success
// the module is marked completed and the report persisted.
func (s *Service) GetReport(ctx context.Context, sessionKey, moduleID, moduleTitle string) (*models.ModuleReport, error) {
	lock := s.keyLock(sessionKey, moduleID)
	lock.Lock()
	mp, ok, err := s.store.GetModuleProgress(sessionKey, moduleID)
	lock.Unlock()
	if err != nil {
		return nil, err
	}
	if !ok || len(mp.Answers) == 0 {
		return nil, &NotFoundError{Resource: "quiz data for module", Key: moduleID}
	}

	stats := ComputeStats(mp.Answers)
	timeSpent := int(math.Ceil(float64(stats.TotalQuestions) * minutesPerQuestion))

	report := &models.ModuleReport{
		PerformanceStats: stats,
		TimeSpent:        timeSpent,
		CompletedAt:      time.Now(),
	}

	// Generator call runs without holding the key lock.
	aiReport, err := s.generator.GenerateModuleReport(ctx, moduleTitle, stats, timeSpent)
	if err != nil {
		return nil, err
	}
	report.OverallScore = aiReport.OverallScore
	report.Strengths = aiReport.Strengths
	report.Weaknesses = aiReport.Weaknesses
	report.Recommendations = aiReport.Recommendations
	report.SuggestedResources = aiReport.SuggestedResources
	report.CareerReadinessImpact = aiReport.CareerReadinessImpact

	lock.Lock()
	err = s.store.MarkCompleted(sessionKey, moduleID, report)
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	if err := s.events.Publish(event.ModuleCompleted, map[string]any{
		"sessionId":    sessionKey,
		"moduleId":     moduleID,
		"accuracy":     stats.Accuracy,
		"overallScore": report.OverallScore,
	}); err != nil {
		log.Printf("[quiz] WARN: publish completion event: %v", err)
	}

	return report, nil
}

// GetProgressSnapshot returns stored progress with freshly computed stats.
// Absent progress is not an error; the second return reports presence.
func (s *Service) GetProgressSnapshot(sessionKey, moduleID string) (*models.ProgressSnapshot, bool, error) {
	mp, ok, err := s.store.GetModuleProgress(sessionKey, moduleID)
	if err != nil || !ok {
		return nil, false, err
	}

	snapshot := &models.ProgressSnapshot{ModuleProgress: *mp}
	if len(mp.Answers) > 0 {
		stats := ComputeStats(mp.Answers)
		snapshot.Stats = &stats
	}
	return snapshot, true, nil
}

// ClearSession drops all progress and roadmap state for a session key.
func (s *Service) ClearSession(sessionKey string) error {
	return s.store.ClearSession(sessionKey)
}
