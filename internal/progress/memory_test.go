package progress

import (
	"testing"
	"time"

	"github.com/nayi-disha/backend/internal/models"
)

func answer(id string, correct bool) models.AnswerRecord {
	return models.AnswerRecord{
		QuestionID: id,
		Correct:    correct,
		Difficulty: models.DifficultyMedium,
		Topic:      "topic",
		AnsweredAt: time.Now(),
	}
}

func TestGetModuleProgressAbsent(t *testing.T) {
	s := NewMemoryStore()

	mp, ok, err := s.GetModuleProgress("s1", "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected absent before first write")
	}
	if mp != nil {
		t.Error("expected nil progress before first write")
	}
}

func TestAppendCreatesContainer(t *testing.T) {
	s := NewMemoryStore()

	if err := s.AppendQuestion("s1", "m1", models.QuestionRecord{QuestionID: "q1", CorrectIndex: 2}); err != nil {
		t.Fatalf("AppendQuestion: %v", err)
	}

	mp, ok, err := s.GetModuleProgress("s1", "m1")
	if err != nil || !ok {
		t.Fatalf("expected progress after first write, ok=%v err=%v", ok, err)
	}
	if len(mp.Questions) != 1 || mp.Questions[0].QuestionID != "q1" {
		t.Errorf("unexpected questions: %+v", mp.Questions)
	}
	if mp.Questions[0].CorrectIndex != 2 {
		t.Errorf("CorrectIndex = %d, want 2", mp.Questions[0].CorrectIndex)
	}
}

func TestGetRecentAnswersWindow(t *testing.T) {
	s := NewMemoryStore()
	ids := []string{"q1", "q2", "q3", "q4", "q5"}
	for _, id := range ids {
		if err := s.AppendAnswer("s1", "m1", answer(id, true)); err != nil {
			t.Fatalf("AppendAnswer: %v", err)
		}
	}

	recent, err := s.GetRecentAnswers("s1", "m1", 3)
	if err != nil {
		t.Fatalf("GetRecentAnswers: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("len(recent) = %d, want 3", len(recent))
	}
	for i, want := range []string{"q3", "q4", "q5"} {
		if recent[i].QuestionID != want {
			t.Errorf("recent[%d] = %q, want %q (append order)", i, recent[i].QuestionID, want)
		}
	}
}

func TestGetRecentAnswersShortHistory(t *testing.T) {
	s := NewMemoryStore()
	s.AppendAnswer("s1", "m1", answer("q1", false))

	recent, err := s.GetRecentAnswers("s1", "m1", 5)
	if err != nil {
		t.Fatalf("GetRecentAnswers: %v", err)
	}
	if len(recent) != 1 {
		t.Errorf("len(recent) = %d, want 1", len(recent))
	}

	recent, err = s.GetRecentAnswers("s1", "other", 5)
	if err != nil {
		t.Fatalf("GetRecentAnswers on absent module: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("expected empty for absent module, got %d", len(recent))
	}
}

func TestReadIsolation(t *testing.T) {
	s := NewMemoryStore()
	s.AppendAnswer("s1", "m1", answer("q1", true))

	mp, _, _ := s.GetModuleProgress("s1", "m1")
	mp.Answers[0].QuestionID = "tampered"
	mp.Answers = append(mp.Answers, answer("q-extra", false))

	fresh, _, _ := s.GetModuleProgress("s1", "m1")
	if len(fresh.Answers) != 1 {
		t.Fatalf("store leaked caller mutation: %d answers", len(fresh.Answers))
	}
	if fresh.Answers[0].QuestionID != "q1" {
		t.Errorf("store leaked caller mutation: %q", fresh.Answers[0].QuestionID)
	}
}

func TestMarkCompleted(t *testing.T) {
	s := NewMemoryStore()
	s.AppendAnswer("s1", "m1", answer("q1", true))

	report := &models.ModuleReport{
		OverallScore: 82,
		CompletedAt:  time.Now(),
	}
	if err := s.MarkCompleted("s1", "m1", report); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}

	mp, _, _ := s.GetModuleProgress("s1", "m1")
	if !mp.Completed {
		t.Error("module not marked completed")
	}
	if mp.FinalReport == nil || mp.FinalReport.OverallScore != 82 {
		t.Errorf("final report not persisted: %+v", mp.FinalReport)
	}
	if mp.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}
}

func TestRoadmapRoundTrip(t *testing.T) {
	s := NewMemoryStore()

	_, ok, err := s.GetRoadmap("s1")
	if err != nil || ok {
		t.Fatalf("expected absent roadmap, ok=%v err=%v", ok, err)
	}

	roadmap := models.Roadmap{Title: "Go Backend", TotalModules: 8}
	if err := s.StoreRoadmap("s1", roadmap); err != nil {
		t.Fatalf("StoreRoadmap: %v", err)
	}

	got, ok, err := s.GetRoadmap("s1")
	if err != nil || !ok {
		t.Fatalf("expected roadmap, ok=%v err=%v", ok, err)
	}
	if got.Title != "Go Backend" {
		t.Errorf("Title = %q, want Go Backend", got.Title)
	}

	// Overwrite replaces the snapshot.
	s.StoreRoadmap("s1", models.Roadmap{Title: "Updated"})
	got, _, _ = s.GetRoadmap("s1")
	if got.Title != "Updated" {
		t.Errorf("Title after overwrite = %q, want Updated", got.Title)
	}
}

func TestClearSession(t *testing.T) {
	s := NewMemoryStore()
	s.AppendAnswer("s1", "m1", answer("q1", true))
	s.StoreRoadmap("s1", models.Roadmap{Title: "T"})
	s.AppendAnswer("s2", "m1", answer("q1", true))

	if err := s.ClearSession("s1"); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}

	if _, ok, _ := s.GetModuleProgress("s1", "m1"); ok {
		t.Error("s1 progress survived clear")
	}
	if _, ok, _ := s.GetRoadmap("s1"); ok {
		t.Error("s1 roadmap survived clear")
	}
	if _, ok, _ := s.GetModuleProgress("s2", "m1"); !ok {
		t.Error("clearing s1 should not touch s2")
	}
}

func TestConcurrentAppends(t *testing.T) {
	s := NewMemoryStore()
	done := make(chan struct{})

	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				s.AppendAnswer("s1", "m1", answer("q", true))
			}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	mp, _, _ := s.GetModuleProgress("s1", "m1")
	if len(mp.Answers) != 500 {
		t.Errorf("lost appends: got %d answers, want 500", len(mp.Answers))
	}
}
