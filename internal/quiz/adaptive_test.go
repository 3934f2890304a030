package quiz

import (
	"testing"

	"github.com/nayi-disha/backend/internal/models"
)

func answersWith(results ...bool) []models.AnswerRecord {
	answers := make([]models.AnswerRecord, 0, len(results))
	for i, correct := range results {
		answers = append(answers, models.AnswerRecord{
			QuestionID: "q",
			Correct:    correct,
			Difficulty: models.DifficultyMedium,
			Topic:      "arrays",
			UserAnswer: i % 4,
		})
	}
	return answers
}

func TestNextDifficulty(t *testing.T) {
	tests := []struct {
		name    string
		answers []models.AnswerRecord
		want    models.Difficulty
	}{
		{"no history", nil, models.DifficultyMedium},
		{"three correct", answersWith(true, true, true), models.DifficultyHard},
		{"three wrong", answersWith(false, false, false), models.DifficultyEasy},
		{"mixed", answersWith(true, false, true), models.DifficultyMedium},
		{"two correct one wrong", answersWith(false, true, true), models.DifficultyMedium},
		{"short history single correct", answersWith(true), models.DifficultyMedium},
		{"short history two correct", answersWith(true, true), models.DifficultyHard},
		{"short history two wrong", answersWith(false, false), models.DifficultyEasy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextDifficulty(tt.answers, DefaultWindowSize); got != tt.want {
				t.Errorf("NextDifficulty() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextDifficultyOnlyRecentCount(t *testing.T) {
	// Older answers beyond the window must not influence the score. The
	// caller passes the recent slice, so a long run of wrong answers
	// followed by three correct still escalates.
	answers := answersWith(false, false, false, false, true, true, true)
	recent := answers[len(answers)-DefaultWindowSize:]
	if got := NextDifficulty(recent, DefaultWindowSize); got != models.DifficultyHard {
		t.Errorf("NextDifficulty() = %q, want %q", got, models.DifficultyHard)
	}
}

func TestShouldEnd(t *testing.T) {
	allCorrect := func(n int) []models.AnswerRecord {
		results := make([]bool, n)
		for i := range results {
			results[i] = true
		}
		return answersWith(results...)
	}
	withAccuracy := func(n, correct int) []models.AnswerRecord {
		results := make([]bool, n)
		for i := 0; i < correct; i++ {
			results[i] = true
		}
		return answersWith(results...)
	}

	tests := []struct {
		name       string
		answers    []models.AnswerRecord
		wantEnd    bool
		wantReason models.EndReason
	}{
		{"no answers", nil, false, models.EndBelowMinimum},
		{"below minimum even perfect", allCorrect(9), false, models.EndBelowMinimum},
		{"maximum reached", withAccuracy(20, 5), true, models.EndMaxReached},
		{"target accuracy at minimum", withAccuracy(10, 7), true, models.EndTargetAccuracy},
		{"high accuracy at minimum hits target rule first", withAccuracy(10, 8), true, models.EndTargetAccuracy},
		{"low accuracy past minimum continues", withAccuracy(12, 6), false, models.EndContinue},
		{"target accuracy past minimum", withAccuracy(15, 11), true, models.EndTargetAccuracy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := ShouldEnd(tt.answers, DefaultMinQuestions, DefaultMaxQuestions)
			if decision.End != tt.wantEnd {
				t.Errorf("ShouldEnd().End = %v, want %v", decision.End, tt.wantEnd)
			}
			if decision.Reason != tt.wantReason {
				t.Errorf("ShouldEnd().Reason = %q, want %q", decision.Reason, tt.wantReason)
			}
		})
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.TotalQuestions != 0 || stats.CorrectAnswers != 0 || stats.Accuracy != 0 {
		t.Errorf("empty stats = %+v, want all zeros", stats)
	}
	if len(stats.DifficultyBreakdown) != 0 {
		t.Errorf("difficulty breakdown has %d entries, want 0", len(stats.DifficultyBreakdown))
	}
	if len(stats.TopicPerformance) != 0 {
		t.Errorf("topic performance has %d entries, want 0", len(stats.TopicPerformance))
	}
}

func TestComputeStats(t *testing.T) {
	answers := []models.AnswerRecord{
		{Correct: true, Difficulty: models.DifficultyMedium, Topic: "arrays"},
		{Correct: true, Difficulty: models.DifficultyHard, Topic: "pointers"},
		{Correct: false, Difficulty: models.DifficultyHard, Topic: "arrays"},
	}

	stats := ComputeStats(answers)

	if stats.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d, want 3", stats.TotalQuestions)
	}
	if stats.CorrectAnswers != 2 || stats.IncorrectAnswers != 1 {
		t.Errorf("correct/incorrect = %d/%d, want 2/1", stats.CorrectAnswers, stats.IncorrectAnswers)
	}
	if stats.CorrectAnswers+stats.IncorrectAnswers != stats.TotalQuestions {
		t.Errorf("correct + incorrect = %d, want %d", stats.CorrectAnswers+stats.IncorrectAnswers, stats.TotalQuestions)
	}
	if stats.Accuracy != 67 {
		t.Errorf("Accuracy = %d, want 67", stats.Accuracy)
	}

	// All three buckets are present even when one saw no questions.
	if len(stats.DifficultyBreakdown) != 3 {
		t.Fatalf("difficulty breakdown has %d entries, want 3", len(stats.DifficultyBreakdown))
	}
	easy := stats.DifficultyBreakdown[models.DifficultyEasy]
	if easy.Total != 0 || easy.Accuracy != 0 {
		t.Errorf("easy bucket = %+v, want zero", easy)
	}
	hard := stats.DifficultyBreakdown[models.DifficultyHard]
	if hard.Total != 2 || hard.Correct != 1 || hard.Accuracy != 50 {
		t.Errorf("hard bucket = %+v, want total 2 correct 1 accuracy 50", hard)
	}

	// Topics appear in first-seen order.
	if len(stats.TopicPerformance) != 2 {
		t.Fatalf("topic performance has %d entries, want 2", len(stats.TopicPerformance))
	}
	if stats.TopicPerformance[0].Topic != "arrays" || stats.TopicPerformance[1].Topic != "pointers" {
		t.Errorf("topic order = [%s, %s], want [arrays, pointers]",
			stats.TopicPerformance[0].Topic, stats.TopicPerformance[1].Topic)
	}
	if got := stats.TopicPerformance[0]; got.Total != 2 || got.Correct != 1 || got.Accuracy != 50 {
		t.Errorf("arrays topic = %+v, want total 2 correct 1 accuracy 50", got)
	}
}

func TestComputeStatsRounding(t *testing.T) {
	// 1 of 3 correct is 33.33 → 33, 2 of 3 is 66.67 → 67.
	oneOfThree := ComputeStats(answersWith(true, false, false))
	if oneOfThree.Accuracy != 33 {
		t.Errorf("1/3 accuracy = %d, want 33", oneOfThree.Accuracy)
	}
	twoOfThree := ComputeStats(answersWith(true, true, false))
	if twoOfThree.Accuracy != 67 {
		t.Errorf("2/3 accuracy = %d, want 67", twoOfThree.Accuracy)
	}
}

func TestIdentifyStrengthsWeaknesses(t *testing.T) {
	t.Run("high overall and strong hard bucket", func(t *testing.T) {
		stats := models.PerformanceStats{
			TotalQuestions: 10,
			CorrectAnswers: 9,
			Accuracy:       90,
			DifficultyBreakdown: map[models.Difficulty]models.DifficultyStats{
				models.DifficultyEasy:   {Total: 2, Correct: 2, Accuracy: 100},
				models.DifficultyMedium: {Total: 4, Correct: 4, Accuracy: 100},
				models.DifficultyHard:   {Total: 4, Correct: 3, Accuracy: 75},
			},
			TopicPerformance: []models.TopicStats{
				{Topic: "recursion", Total: 5, Correct: 5, Accuracy: 100},
			},
		}

		strengths, weaknesses := IdentifyStrengthsWeaknesses(stats)
		if len(strengths) == 0 {
			t.Fatal("expected strengths, got none")
		}
		if len(weaknesses) != 0 {
			t.Errorf("expected no weaknesses, got %v", weaknesses)
		}
	})

	t.Run("low overall and weak easy bucket", func(t *testing.T) {
		stats := models.PerformanceStats{
			TotalQuestions: 10,
			CorrectAnswers: 4,
			Accuracy:       40,
			DifficultyBreakdown: map[models.Difficulty]models.DifficultyStats{
				models.DifficultyEasy:   {Total: 5, Correct: 2, Accuracy: 40},
				models.DifficultyMedium: {Total: 5, Correct: 2, Accuracy: 40},
				models.DifficultyHard:   {Total: 0},
			},
			TopicPerformance: []models.TopicStats{
				{Topic: "graphs", Total: 5, Correct: 1, Accuracy: 20},
			},
		}

		strengths, weaknesses := IdentifyStrengthsWeaknesses(stats)
		if len(strengths) != 0 {
			t.Errorf("expected no strengths, got %v", strengths)
		}
		if len(weaknesses) == 0 {
			t.Fatal("expected weaknesses, got none")
		}
	})
}
