package generator

import (
	"errors"
	"strings"
	"testing"
)

const validQuestionJSON = `{
	"question": "What does a deferred function call do in Go?",
	"options": [
		"Runs immediately before the next statement",
		"Runs when the surrounding function returns",
		"Runs on a background goroutine",
		"Runs only if the function panics"
	],
	"correctIndex": 1,
	"explanation": "Deferred calls are pushed onto a stack and executed when the surrounding function returns, in last-in-first-out order.",
	"difficulty": "medium",
	"topic": "defer"
}`

func TestParseQuestionValid(t *testing.T) {
	q, err := ParseQuestion(validQuestionJSON)
	if err != nil {
		t.Fatalf("ParseQuestion returned error: %v", err)
	}

	if q.CorrectIndex != 1 {
		t.Errorf("CorrectIndex = %d, want 1", q.CorrectIndex)
	}
	if len(q.Options) != 4 {
		t.Errorf("len(Options) = %d, want 4", len(q.Options))
	}
	if q.Difficulty != "medium" {
		t.Errorf("Difficulty = %q, want medium", q.Difficulty)
	}
}

func TestParseQuestionWithCodeFences(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"json fence", "```json\n" + validQuestionJSON + "\n```"},
		{"bare fence", "```\n" + validQuestionJSON + "\n```"},
		{"surrounding prose", "Here is your question:\n" + validQuestionJSON + "\nLet me know if you need another."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseQuestion(tt.body)
			if err != nil {
				t.Fatalf("ParseQuestion returned error: %v", err)
			}
			if q.Question == "" {
				t.Error("parsed question is empty")
			}
		})
	}
}

func TestParseQuestionMissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing question", `{"options":["a","b","c","d"],"correctIndex":0,"explanation":"x"}`},
		{"missing options", `{"question":"q?","correctIndex":0,"explanation":"x"}`},
		{"missing correctIndex", `{"question":"q?","options":["a","b","c","d"],"explanation":"x"}`},
		{"missing explanation", `{"question":"q?","options":["a","b","c","d"],"correctIndex":0}`},
		{"empty question", `{"question":"","options":["a","b","c","d"],"correctIndex":0,"explanation":"x"}`},
		{"bad difficulty", `{"question":"q?","options":["a","b","c","d"],"correctIndex":0,"explanation":"x","difficulty":"impossible"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuestion(tt.body)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("expected *ValidationError, got %T: %v", err, err)
			}
		})
	}
}

func TestParseQuestionCorrectIndexOutOfRange(t *testing.T) {
	body := `{"question":"q?","options":["a","b","c","d"],"correctIndex":4,"explanation":"long enough explanation"}`

	_, err := ParseQuestion(body)
	if err == nil {
		t.Fatal("expected error for out-of-range correctIndex")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if !strings.Contains(ve.Error(), "out of range") {
		t.Errorf("error %q should mention out of range", ve.Error())
	}
}

func TestParseQuestionUnparsableJSON(t *testing.T) {
	_, err := ParseQuestion("the model refused to answer")
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

func TestParseRoadmapValid(t *testing.T) {
	body := buildMockRoadmapJSON()

	roadmap, err := ParseRoadmap(body)
	if err != nil {
		t.Fatalf("ParseRoadmap returned error: %v", err)
	}

	if len(roadmap.Modules) != 8 {
		t.Errorf("len(Modules) = %d, want 8", len(roadmap.Modules))
	}
	if roadmap.TotalModules != 8 {
		t.Errorf("TotalModules = %d, want 8", roadmap.TotalModules)
	}
	for i, m := range roadmap.Modules {
		if m.ID == "" {
			t.Errorf("module %d has empty id", i)
		}
		if len(m.Topics) == 0 {
			t.Errorf("module %d has no topics", i)
		}
	}
}

func TestParseRoadmapMissingModules(t *testing.T) {
	body := `{"roadmap":{"title":"t","description":"d","totalModules":0,"estimatedTotalHours":0,"modules":[]}}`

	_, err := ParseRoadmap(body)
	if err == nil {
		t.Fatal("expected error for empty modules array")
	}
}

func TestParseReportValid(t *testing.T) {
	report, err := ParseReport(buildMockReportJSON())
	if err != nil {
		t.Fatalf("ParseReport returned error: %v", err)
	}

	if report.OverallScore != 78 {
		t.Errorf("OverallScore = %d, want 78", report.OverallScore)
	}
	if len(report.SuggestedResources) != 1 {
		t.Errorf("len(SuggestedResources) = %d, want 1", len(report.SuggestedResources))
	}
}

func TestParseReportScoreOutOfRange(t *testing.T) {
	body := `{"overallScore":150,"strengths":[],"weaknesses":[],"recommendations":[]}`

	_, err := ParseReport(body)
	if err == nil {
		t.Fatal("expected error for overallScore above 100")
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain object", `{"a":1}`, `{"a":1}`, false},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`, false},
		{"prose around", `Sure! {"a":1} Hope that helps.`, `{"a":1}`, false},
		{"no object", "I cannot produce that.", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("extractJSON returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("extractJSON = %q, want %q", got, tt.want)
			}
		})
	}
}
