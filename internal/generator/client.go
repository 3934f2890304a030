package generator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/google/uuid"
	"github.com/nayi-disha/backend/internal/config"
	"github.com/nayi-disha/backend/internal/models"
)

// LLMClient is the interface all generator backends satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// questionMaxRetries is the number of extra attempts after a failed
// question generation before surfacing a GenerationError.
const questionMaxRetries = 2

// retryBackoff is the fixed pause between question generation attempts.
var retryBackoff = time.Second

// Generator wraps an LLMClient and adds roadmap/question/report methods.
type Generator struct {
	llm   LLMClient
	model string
}

// New selects a backend from configuration: an explicit LLM_PROVIDER wins,
// otherwise the first configured API key in gemini, anthropic, openai order,
// falling back to mock data when nothing is configured.
func New(ctx context.Context, cfg config.LLMConfig) (*Generator, error) {
	provider := cfg.Provider
	if provider == "" {
		switch {
		case cfg.GeminiAPIKey != "":
			provider = "gemini"
		case cfg.AnthropicAPIKey != "":
			provider = "anthropic"
		case cfg.OpenAIAPIKey != "":
			provider = "openai"
		default:
			provider = "mock"
		}
	}

	var llm LLMClient
	model := cfg.Model

	switch provider {
	case "gemini":
		if model == "" {
			model = "gemini-2.5-flash-lite"
		}
		client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, model)
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		llm = client
		log.Println("[generator] using Gemini API:", model)
	case "anthropic":
		if model == "" {
			model = "claude-sonnet-4-5"
		}
		llm = NewAPIClient(cfg.AnthropicAPIKey, model)
		log.Println("[generator] using Anthropic API:", model)
	case "openai":
		if model == "" {
			model = "gpt-4o"
		}
		llm = NewOpenAIClient(cfg.OpenAIAPIKey, model)
		log.Println("[generator] using OpenAI API:", model)
	case "cli":
		model = "claude-cli"
		llm = NewCLIClient(cfg.CLIPath)
		log.Println("[generator] using Claude CLI (local plan)")
	case "mock":
		model = "mock"
		llm = NewMockClient()
		log.Println("[generator] using mock data")
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}

	return &Generator{llm: llm, model: model}, nil
}

// NewWithClient wraps an existing client. Used by tests and local tooling.
func NewWithClient(llm LLMClient, model string) *Generator {
	return &Generator{llm: llm, model: model}
}

func (g *Generator) ModelName() string {
	return g.model
}

// GenerateRoadmap produces a structured learning roadmap for the given
// subject, goal, and skill level.
func (g *Generator) GenerateRoadmap(ctx context.Context, subject, goal, level string) (*models.Roadmap, error) {
	systemPrompt := RoadmapSystemPrompt()
	userPrompt := BuildRoadmapUserPrompt(subject, goal, level)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, &GenerationError{Op: "roadmap", Attempts: 1, Err: err}
	}

	roadmap, err := ParseRoadmap(resp.Content)
	if err != nil {
		return nil, &GenerationError{Op: "roadmap", Attempts: 1, Err: err}
	}

	return roadmap, nil
}

// GenerateQuestion produces a single validated quiz question. Malformed
// output is retried with identical inputs up to questionMaxRetries extra
// attempts with a fixed backoff, then surfaced as a GenerationError.
func (g *Generator) GenerateQuestion(ctx context.Context, moduleTitle string, topics []string, difficulty models.Difficulty) (*GeneratedQuestion, error) {
	systemPrompt := QuestionSystemPrompt()
	userPrompt := BuildQuestionUserPrompt(moduleTitle, topics, difficulty)

	var lastErr error
	for attempt := 0; attempt <= questionMaxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("[generator] retrying question generation (attempt %d/%d)", attempt+1, questionMaxRetries+1)
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return nil, &GenerationError{Op: "question", Attempts: attempt, Err: ctx.Err()}
			}
		}

		resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
		if err != nil {
			lastErr = err
			continue
		}

		q, err := ParseQuestion(resp.Content)
		if err != nil {
			lastErr = err
			log.Printf("[generator] WARN: question attempt %d failed validation: %v", attempt+1, err)
			continue
		}

		q.ID = uuid.NewString()
		if q.Difficulty == "" {
			q.Difficulty = difficulty
		}
		checkQuestionQuality(q, topics)
		return q, nil
	}

	return nil, &GenerationError{Op: "question", Attempts: questionMaxRetries + 1, Err: lastErr}
}

// GenerateModuleReport produces narrative insights for a completed module
// from its performance stats.
func (g *Generator) GenerateModuleReport(ctx context.Context, moduleTitle string, stats models.PerformanceStats, timeSpent int) (*GeneratedReport, error) {
	systemPrompt := ReportSystemPrompt()
	userPrompt := BuildReportUserPrompt(moduleTitle, stats, timeSpent)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, &GenerationError{Op: "report", Attempts: 1, Err: err}
	}

	report, err := ParseReport(resp.Content)
	if err != nil {
		return nil, &GenerationError{Op: "report", Attempts: 1, Err: err}
	}

	return report, nil
}

// ── APIClient — Anthropic SDK ──────────────────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(apiKey, model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   8192,
		Temperature: param.NewOpt(0.7),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("[generator] retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("[generator] Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient — Local Development ─────────────────────────

// MockClient returns deterministic canned JSON, keyed off the prompt so the
// same client serves roadmap, question, and report generation.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	var mockJSON string
	switch {
	case strings.Contains(userPrompt, "learning roadmap"):
		mockJSON = buildMockRoadmapJSON()
	case strings.Contains(userPrompt, "completion report"):
		mockJSON = buildMockReportJSON()
	default:
		mockJSON = buildMockQuestionJSON(userPrompt)
	}

	return &LLMResponse{
		Content:      mockJSON,
		PromptTokens: 500,
		OutputTokens: 800,
	}, nil
}

// mockCorrectIndex is fixed so local frontends and tests can submit a
// known-correct answer.
const mockCorrectIndex = 1

func buildMockQuestionJSON(userPrompt string) string {
	difficulty := "medium"
	for _, d := range []string{"easy", "hard"} {
		if strings.Contains(userPrompt, "Difficulty Level: "+d) {
			difficulty = d
		}
	}

	return fmt.Sprintf(`{
		"question": "[Mock] Which statement best describes the behavior of this %s-level concept in practice?",
		"options": [
			"[Mock] A plausible but incorrect description of the behavior.",
			"[Mock] The correct description of the behavior.",
			"[Mock] A common misconception about the behavior.",
			"[Mock] An unrelated statement that sounds technical."
		],
		"correctIndex": %d,
		"explanation": "[Mock] The second option is correct because it matches how the concept actually behaves; the others describe misconceptions.",
		"difficulty": "%s",
		"topic": "mock topic"
	}`, difficulty, mockCorrectIndex, difficulty)
}

func buildMockRoadmapJSON() string {
	modules := "["
	for i := 1; i <= 8; i++ {
		if i > 1 {
			modules += ","
		}
		difficulty := "easy"
		if i > 3 {
			difficulty = "medium"
		}
		if i > 6 {
			difficulty = "hard"
		}
		modules += fmt.Sprintf(`{
			"id": "module-%d",
			"title": "[Mock] Module %d",
			"description": "[Mock] What the learner will master in module %d. Builds on earlier modules.",
			"estimatedHours": %d,
			"topics": ["topic-%d-a", "topic-%d-b", "topic-%d-c"],
			"difficulty": "%s"
		}`, i, i, i, 2+i%4, i, i, i, difficulty)
	}
	modules += "]"

	return fmt.Sprintf(`{
		"roadmap": {
			"title": "[Mock] Complete Learning Roadmap",
			"description": "[Mock] A structured path from fundamentals to advanced topics.",
			"totalModules": 8,
			"estimatedTotalHours": 32,
			"modules": %s
		}
	}`, modules)
}

func buildMockReportJSON() string {
	return `{
		"overallScore": 78,
		"strengths": ["[Mock] Consistent accuracy on medium questions", "[Mock] Strong recall of core concepts"],
		"weaknesses": ["[Mock] Struggles with edge cases on hard questions"],
		"recommendations": ["[Mock] Review the advanced topics", "[Mock] Practice scenario-based problems"],
		"suggestedResources": [
			{
				"title": "[Mock] Deep Dive Tutorial",
				"type": "tutorial",
				"url": "https://example.com/tutorial",
				"reason": "[Mock] Covers the weak areas identified above."
			}
		],
		"careerReadinessImpact": "[Mock] Completing this module strengthens a core skill employers look for."
	}`
}
