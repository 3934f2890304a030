// Package quiz implements the adaptive quiz engine: a rolling-window
// difficulty controller, a termination policy, a performance aggregator,
// and the orchestrator that composes them with the progress store and the
// AI question generator.
package quiz

import (
	"fmt"
	"math"

	"github.com/nayi-disha/backend/internal/models"
)

const (
	DefaultWindowSize   = 3
	DefaultMinQuestions = 10
	DefaultMaxQuestions = 20

	// targetAccuracy ends the quiz once the minimum is met.
	targetAccuracy = 70
	// masteryAccuracy ends the quiz at exactly the minimum count. Subsumed
	// by targetAccuracy in practice; kept to preserve the documented policy.
	masteryAccuracy = 80
)

// NextDifficulty maps the most recent answers to the next question
// difficulty. Only the last windowSize answers count (+1 correct, -1
// wrong): score >= 2 steps up to hard, score <= -2 steps down to easy,
// anything else stays medium. No history means medium. Older history has
// zero influence, so the controller can never get stuck on an early streak,
// and a difficulty change needs 2-of-3 recent answers to agree — that
// hysteresis is intentional.
func NextDifficulty(recent []models.AnswerRecord, windowSize int) models.Difficulty {
	if len(recent) == 0 {
		return models.DifficultyMedium
	}

	window := recent
	if len(window) > windowSize {
		window = window[len(window)-windowSize:]
	}

	score := 0
	for _, a := range window {
		if a.Correct {
			score++
		} else {
			score--
		}
	}

	switch {
	case score >= 2:
		return models.DifficultyHard
	case score <= -2:
		return models.DifficultyEasy
	default:
		return models.DifficultyMedium
	}
}

// EndDecision is the termination policy's verdict for a module quiz.
type EndDecision struct {
	End    bool
	Reason models.EndReason
}

// ShouldEnd decides whether a module quiz should stop, first match wins:
// below the minimum it always continues, at the maximum it always ends,
// then accuracy thresholds apply. Pure: a fixed answer sequence always
// yields the same decision.
func ShouldEnd(answers []models.AnswerRecord, minQuestions, maxQuestions int) EndDecision {
	total := len(answers)

	if total < minQuestions {
		return EndDecision{End: false, Reason: models.EndBelowMinimum}
	}

	if total >= maxQuestions {
		return EndDecision{End: true, Reason: models.EndMaxReached}
	}

	correct := 0
	for _, a := range answers {
		if a.Correct {
			correct++
		}
	}
	accuracy := float64(correct) / float64(total) * 100

	if accuracy >= targetAccuracy {
		return EndDecision{End: true, Reason: models.EndTargetAccuracy}
	}

	if total == minQuestions && accuracy >= masteryAccuracy {
		return EndDecision{End: true, Reason: models.EndEarlyMastery}
	}

	return EndDecision{End: false, Reason: models.EndContinue}
}

// ComputeStats aggregates an answer history into performance statistics.
// Empty input yields all-zero stats with empty breakdowns. Zero-total
// buckets report accuracy 0 rather than null; the frontend depends on
// that. Topics appear in first-occurrence order.
func ComputeStats(answers []models.AnswerRecord) models.PerformanceStats {
	stats := models.PerformanceStats{
		DifficultyBreakdown: make(map[models.Difficulty]models.DifficultyStats),
		TopicPerformance:    []models.TopicStats{},
	}

	if len(answers) == 0 {
		return stats
	}

	for _, d := range []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard} {
		stats.DifficultyBreakdown[d] = models.DifficultyStats{}
	}

	topicIndex := make(map[string]int)

	for _, a := range answers {
		stats.TotalQuestions++
		if a.Correct {
			stats.CorrectAnswers++
		} else {
			stats.IncorrectAnswers++
		}

		if a.Difficulty != "" {
			bucket := stats.DifficultyBreakdown[a.Difficulty]
			bucket.Total++
			if a.Correct {
				bucket.Correct++
			}
			stats.DifficultyBreakdown[a.Difficulty] = bucket
		}

		if a.Topic != "" {
			i, ok := topicIndex[a.Topic]
			if !ok {
				i = len(stats.TopicPerformance)
				topicIndex[a.Topic] = i
				stats.TopicPerformance = append(stats.TopicPerformance, models.TopicStats{Topic: a.Topic})
			}
			stats.TopicPerformance[i].Total++
			if a.Correct {
				stats.TopicPerformance[i].Correct++
			}
		}
	}

	stats.Accuracy = roundedPercent(stats.CorrectAnswers, stats.TotalQuestions)

	for d, bucket := range stats.DifficultyBreakdown {
		bucket.Accuracy = roundedPercent(bucket.Correct, bucket.Total)
		stats.DifficultyBreakdown[d] = bucket
	}
	for i := range stats.TopicPerformance {
		t := &stats.TopicPerformance[i]
		t.Accuracy = roundedPercent(t.Correct, t.Total)
	}

	return stats
}

func roundedPercent(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// IdentifyStrengthsWeaknesses derives strength and weakness callouts from
// aggregated stats, without consulting the AI generator.
func IdentifyStrengthsWeaknesses(stats models.PerformanceStats) (strengths, weaknesses []string) {
	if stats.Accuracy >= 80 {
		strengths = append(strengths, "Excellent overall understanding")
	} else if stats.Accuracy < 60 {
		weaknesses = append(weaknesses, "Needs improvement in foundational concepts")
	}

	if hard := stats.DifficultyBreakdown[models.DifficultyHard]; hard.Total > 0 && hard.Accuracy >= 70 {
		strengths = append(strengths, "Strong grasp of advanced concepts")
	}
	if easy := stats.DifficultyBreakdown[models.DifficultyEasy]; easy.Total > 0 && easy.Accuracy < 70 {
		weaknesses = append(weaknesses, "Needs to strengthen basic fundamentals")
	}

	for _, topic := range stats.TopicPerformance {
		if topic.Accuracy >= 80 {
			strengths = append(strengths, fmt.Sprintf("Strong in %s", topic.Topic))
		} else if topic.Accuracy < 60 {
			weaknesses = append(weaknesses, fmt.Sprintf("Needs practice in %s", topic.Topic))
		}
	}

	return strengths, weaknesses
}
