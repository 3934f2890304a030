package models

import "time"

type RoadmapModule struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	EstimatedHours int        `json:"estimatedHours"`
	Topics         []string   `json:"topics"`
	Difficulty     Difficulty `json:"difficulty"`
}

// Roadmap is the generated learning plan stored per session, annotated with
// the request parameters that produced it.
type Roadmap struct {
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	TotalModules        int             `json:"totalModules"`
	EstimatedTotalHours int             `json:"estimatedTotalHours"`
	Modules             []RoadmapModule `json:"modules"`
	Subject             string          `json:"subject,omitempty"`
	Goal                string          `json:"goal,omitempty"`
	Level               string          `json:"level,omitempty"`
	CreatedAt           time.Time       `json:"createdAt,omitempty"`
}

type GenerateRoadmapRequest struct {
	Subject   string `json:"subject"`
	Goal      string `json:"goal"`
	Level     string `json:"level"`
	SessionID string `json:"sessionId"`
}
