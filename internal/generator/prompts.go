package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nayi-disha/backend/internal/models"
)

var difficultyGuidance = map[models.Difficulty]string{
	models.DifficultyEasy:   "Basic understanding, recall, and simple application",
	models.DifficultyMedium: "Practical application, problem-solving, and concept integration",
	models.DifficultyHard:   "Advanced analysis, edge cases, optimization, and deep understanding",
}

func RoadmapSystemPrompt() string {
	return `You are an expert learning path designer. You produce structured JSON learning roadmaps tailored to a learner's subject, goal, and skill level. You respond with valid JSON only — no markdown formatting, no code fences, no commentary.`
}

func BuildRoadmapUserPrompt(subject, goal, level string) string {
	return fmt.Sprintf(`Create a detailed learning roadmap for:

Subject: %s
Goal: %s
Level: %s

Generate a structured JSON roadmap with 8-12 modules. Each module should have:
- id: unique identifier (module-1, module-2, etc.)
- title: concise module name
- description: 2-3 sentences explaining what the learner will master
- estimatedHours: realistic time estimate (1-8 hours)
- topics: array of 3-5 key topics covered
- difficulty: one of ["easy", "medium", "hard"]

Return ONLY valid JSON in this exact format:
{
  "roadmap": {
    "title": "Complete roadmap title",
    "description": "Brief overview of the learning journey",
    "totalModules": 10,
    "estimatedTotalHours": 45,
    "modules": [
      {
        "id": "module-1",
        "title": "Module Title",
        "description": "Module description",
        "estimatedHours": 4,
        "topics": ["topic1", "topic2", "topic3"],
        "difficulty": "easy"
      }
    ]
  }
}`, subject, goal, level)
}

func QuestionSystemPrompt() string {
	return `You are an expert quiz designer. You create multiple-choice questions that are practical, scenario-based, and calibrated to a requested difficulty. You respond with a single valid JSON object only — no markdown formatting, no code fences, no commentary.`
}

func BuildQuestionUserPrompt(moduleTitle string, topics []string, difficulty models.Difficulty) string {
	return fmt.Sprintf(`Create a %s difficulty multiple-choice question for:

Module: %s
Topics: %s
Difficulty Level: %s - %s

Generate a single quiz question in this EXACT JSON format:
{
  "question": "Clear, specific question text",
  "options": ["Option A", "Option B", "Option C", "Option D"],
  "correctIndex": 0,
  "explanation": "Detailed explanation of why the answer is correct and others are wrong",
  "difficulty": "%s",
  "topic": "specific topic from the list"
}

IMPORTANT Requirements:
- Question should be practical and scenario-based when possible
- All 4 options should be plausible
- Explanation should be educational and comprehensive
- If you need to include code in the question, options, or explanation, escape all special characters properly
- All strings must be valid JSON strings (escape quotes, newlines, and backslashes)
- Return ONLY valid JSON, no markdown formatting or code blocks
- DO NOT include code snippets with triple backticks inside the JSON`,
		difficulty, moduleTitle, strings.Join(topics, ", "), difficulty, difficultyGuidance[difficulty], difficulty)
}

func ReportSystemPrompt() string {
	return `You are a learning analytics expert. You turn quiz performance statistics into honest, constructive completion reports. You respond with valid JSON only — no markdown formatting, no code fences, no commentary.`
}

func BuildReportUserPrompt(moduleTitle string, stats models.PerformanceStats, timeSpent int) string {
	breakdown, _ := json.Marshal(stats.DifficultyBreakdown)

	return fmt.Sprintf(`Generate a completion report for:

Module: %s
Performance:
- Accuracy: %d%%
- Questions Answered: %d
- Correct Answers: %d
- Time Spent: %d minutes
- Difficulty Breakdown: %s

Generate a JSON report with:
{
  "overallScore": 85,
  "strengths": ["strength 1", "strength 2"],
  "weaknesses": ["area 1", "area 2"],
  "recommendations": ["next step 1", "next step 2"],
  "suggestedResources": [
    {
      "title": "Resource name",
      "type": "article/video/tutorial",
      "url": "https://example.com",
      "reason": "Why this resource is helpful"
    }
  ],
  "careerReadinessImpact": "Brief assessment of how this module contributes to career readiness"
}

Provide honest, constructive feedback. Return ONLY valid JSON.`,
		moduleTitle, stats.Accuracy, stats.TotalQuestions, stats.CorrectAnswers, timeSpent, breakdown)
}
