package models

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// EndReason explains a termination decision for a module quiz.
type EndReason string

const (
	EndBelowMinimum   EndReason = "below-minimum"
	EndMaxReached     EndReason = "max-reached"
	EndTargetAccuracy EndReason = "target-accuracy"
	EndEarlyMastery   EndReason = "early-mastery"
	EndContinue       EndReason = "continue"
)

// ── Core Structs ───────────────────────────────────────

// QuestionRecord is the server-side record of an asked question.
// CorrectIndex is never serialized to the client.
type QuestionRecord struct {
	QuestionID   string     `json:"questionId"`
	CorrectIndex int        `json:"-"`
	Difficulty   Difficulty `json:"difficulty"`
	Topic        string     `json:"topic"`
	AskedAt      time.Time  `json:"askedAt"`
}

// AnswerRecord is an immutable, append-ordered answer event. Correct is
// derived once at submission time from the stored correct index.
type AnswerRecord struct {
	QuestionID    string     `json:"questionId"`
	UserAnswer    int        `json:"userAnswer"`
	CorrectAnswer int        `json:"correctAnswer"`
	Correct       bool       `json:"correct"`
	Difficulty    Difficulty `json:"difficulty"`
	Topic         string     `json:"topic"`
	AnsweredAt    time.Time  `json:"answeredAt"`
}

type DifficultyStats struct {
	Total    int `json:"total"`
	Correct  int `json:"correct"`
	Accuracy int `json:"accuracy"`
}

// TopicStats carries the topic name so breakdown order (first occurrence)
// survives JSON encoding; a map would not preserve it.
type TopicStats struct {
	Topic    string `json:"topic"`
	Total    int    `json:"total"`
	Correct  int    `json:"correct"`
	Accuracy int    `json:"accuracy"`
}

type PerformanceStats struct {
	TotalQuestions      int                            `json:"totalQuestions"`
	CorrectAnswers      int                            `json:"correctAnswers"`
	IncorrectAnswers    int                            `json:"incorrectAnswers"`
	Accuracy            int                            `json:"accuracy"`
	DifficultyBreakdown map[Difficulty]DifficultyStats `json:"difficultyBreakdown"`
	TopicPerformance    []TopicStats                   `json:"topicPerformance"`
}

// ModuleProgress is the per-(session, module) container. Question and answer
// sequences are append-only; the completion fields are set once.
type ModuleProgress struct {
	Questions   []QuestionRecord `json:"questionHistory"`
	Answers     []AnswerRecord   `json:"answers"`
	Completed   bool             `json:"completed"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
	FinalReport *ModuleReport    `json:"finalReport,omitempty"`
}

type SuggestedResource struct {
	Title  string `json:"title"`
	Type   string `json:"type"`
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// ModuleReport merges computed performance stats with narrative insights
// from the report generator.
type ModuleReport struct {
	PerformanceStats
	TimeSpent             int                 `json:"timeSpent"`
	OverallScore          int                 `json:"overallScore"`
	Strengths             []string            `json:"strengths"`
	Weaknesses            []string            `json:"weaknesses"`
	Recommendations       []string            `json:"recommendations"`
	SuggestedResources    []SuggestedResource `json:"suggestedResources"`
	CareerReadinessImpact string              `json:"careerReadinessImpact"`
	CompletedAt           time.Time           `json:"completedAt"`
}

// ── Request / Response Structs ─────────────────────────

type GenerateQuestionRequest struct {
	SessionID   string   `json:"sessionId"`
	ModuleID    string   `json:"moduleId"`
	ModuleTitle string   `json:"moduleTitle"`
	Topics      []string `json:"topics"`
}

// ClientQuestion is the question as delivered to the frontend — everything
// the generator produced except the correct index.
type ClientQuestion struct {
	ID          string     `json:"id"`
	Question    string     `json:"question"`
	Options     []string   `json:"options"`
	Explanation string     `json:"explanation"`
	Difficulty  Difficulty `json:"difficulty"`
	Topic       string     `json:"topic"`
}

type QuestionResponse struct {
	Question          ClientQuestion `json:"question"`
	CurrentDifficulty Difficulty     `json:"currentDifficulty"`
	QuestionNumber    int            `json:"questionNumber"`
}

type EvaluateAnswerRequest struct {
	SessionID  string `json:"sessionId"`
	ModuleID   string `json:"moduleId"`
	QuestionID string `json:"questionId"`
	UserAnswer *int   `json:"userAnswer"`
}

type StatsSummary struct {
	TotalQuestions int `json:"totalQuestions"`
	CorrectAnswers int `json:"correctAnswers"`
	Accuracy       int `json:"accuracy"`
}

type EvaluateAnswerResponse struct {
	IsCorrect     bool         `json:"isCorrect"`
	CorrectAnswer int          `json:"correctAnswer"`
	ShouldEndQuiz bool         `json:"shouldEndQuiz"`
	EndReason     EndReason    `json:"endReason"`
	Stats         StatsSummary `json:"stats"`
}

type ModuleReportRequest struct {
	SessionID   string `json:"sessionId"`
	ModuleID    string `json:"moduleId"`
	ModuleTitle string `json:"moduleTitle"`
}

type ProgressSnapshot struct {
	ModuleProgress
	Stats *PerformanceStats `json:"stats"`
}

// APIResponse is the success envelope used by the quiz and roadmap routes.
type APIResponse struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	SessionID string `json:"sessionId,omitempty"`
}
