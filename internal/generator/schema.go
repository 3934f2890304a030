package generator

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const (
	roadmapSchemaName  = "roadmap"
	questionSchemaName = "question"
	reportSchemaName   = "report"
)

// schemaDefs are the response contracts for each generator operation.
// Everything the orchestrator reads from a response is a required field.
var schemaDefs = map[string]map[string]any{
	roadmapSchemaName: {
		"type":     "object",
		"required": []any{"roadmap"},
		"properties": map[string]any{
			"roadmap": map[string]any{
				"type":     "object",
				"required": []any{"title", "description", "totalModules", "estimatedTotalHours", "modules"},
				"properties": map[string]any{
					"title":               map[string]any{"type": "string", "minLength": 1},
					"description":         map[string]any{"type": "string"},
					"totalModules":        map[string]any{"type": "integer"},
					"estimatedTotalHours": map[string]any{"type": "number"},
					"modules": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type":     "object",
							"required": []any{"id", "title", "topics", "difficulty"},
							"properties": map[string]any{
								"id":             map[string]any{"type": "string", "minLength": 1},
								"title":          map[string]any{"type": "string", "minLength": 1},
								"description":    map[string]any{"type": "string"},
								"estimatedHours": map[string]any{"type": "number"},
								"topics": map[string]any{
									"type":     "array",
									"minItems": 1,
									"items":    map[string]any{"type": "string"},
								},
								"difficulty": map[string]any{"enum": []any{"easy", "medium", "hard"}},
							},
						},
					},
				},
			},
		},
	},
	questionSchemaName: {
		"type":     "object",
		"required": []any{"question", "options", "correctIndex", "explanation"},
		"properties": map[string]any{
			"question": map[string]any{"type": "string", "minLength": 1},
			"options": map[string]any{
				"type":     "array",
				"minItems": 2,
				"items":    map[string]any{"type": "string", "minLength": 1},
			},
			"correctIndex": map[string]any{"type": "integer", "minimum": 0},
			"explanation":  map[string]any{"type": "string", "minLength": 1},
			"difficulty":   map[string]any{"enum": []any{"easy", "medium", "hard"}},
			"topic":        map[string]any{"type": "string"},
		},
	},
	reportSchemaName: {
		"type":     "object",
		"required": []any{"overallScore", "strengths", "weaknesses", "recommendations"},
		"properties": map[string]any{
			"overallScore":    map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"strengths":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"weaknesses":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"recommendations": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"suggestedResources": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":  map[string]any{"type": "string"},
						"type":   map[string]any{"type": "string"},
						"url":    map[string]any{"type": "string"},
						"reason": map[string]any{"type": "string"},
					},
				},
			},
			"careerReadinessImpact": map[string]any{"type": "string"},
		},
	},
}

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateSchema checks raw JSON against the named response schema.
// Violations come back as a ValidationError with one entry per cause.
func validateSchema(name, raw string) error {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}

	compiled, err := compiledSchema(name)
	if err != nil {
		return fmt.Errorf("compile %s schema: %w", name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return &ValidationError{Errors: []string{err.Error()}}
	}

	return nil
}

func compiledSchema(name string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	def, ok := schemaDefs[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}

	// The compiler wants a parsed JSON value, not Go maps with typed
	// values. Round-trip through encoding/json to normalize.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
