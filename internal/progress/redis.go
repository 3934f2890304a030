package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nayi-disha/backend/internal/models"
)

// RedisStore keeps quiz progress in Redis: question and answer histories as
// lists (append order is list order), completion state and roadmaps as JSON
// values, and a per-session set of touched modules so ClearSession can find
// everything without key scans.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// storedQuestion mirrors models.QuestionRecord with the correct index
// included; the model hides it from JSON on purpose, but the store must
// round-trip it.
type storedQuestion struct {
	QuestionID   string            `json:"questionId"`
	CorrectIndex int               `json:"correctIndex"`
	Difficulty   models.Difficulty `json:"difficulty"`
	Topic        string            `json:"topic"`
	AskedAt      time.Time         `json:"askedAt"`
}

type storedState struct {
	Completed   bool                 `json:"completed"`
	CompletedAt *time.Time           `json:"completedAt,omitempty"`
	FinalReport *models.ModuleReport `json:"finalReport,omitempty"`
}

func questionsKey(sessionKey, moduleID string) string {
	return fmt.Sprintf("quiz:%s:%s:questions", sessionKey, moduleID)
}

func answersKey(sessionKey, moduleID string) string {
	return fmt.Sprintf("quiz:%s:%s:answers", sessionKey, moduleID)
}

func stateKey(sessionKey, moduleID string) string {
	return fmt.Sprintf("quiz:%s:%s:state", sessionKey, moduleID)
}

func modulesKey(sessionKey string) string {
	return fmt.Sprintf("quiz:%s:modules", sessionKey)
}

func roadmapKey(sessionKey string) string {
	return fmt.Sprintf("quiz:%s:roadmap", sessionKey)
}

func (s *RedisStore) GetModuleProgress(sessionKey, moduleID string) (*models.ModuleProgress, bool, error) {
	ctx := context.Background()
	mp := &models.ModuleProgress{}
	found := false

	rawQuestions, err := s.client.LRange(ctx, questionsKey(sessionKey, moduleID), 0, -1).Result()
	if err != nil {
		return nil, false, &StoreError{Op: "get questions", Err: err}
	}
	for _, raw := range rawQuestions {
		var sq storedQuestion
		if err := json.Unmarshal([]byte(raw), &sq); err != nil {
			return nil, false, &StoreError{Op: "decode question", Err: err}
		}
		mp.Questions = append(mp.Questions, models.QuestionRecord{
			QuestionID:   sq.QuestionID,
			CorrectIndex: sq.CorrectIndex,
			Difficulty:   sq.Difficulty,
			Topic:        sq.Topic,
			AskedAt:      sq.AskedAt,
		})
		found = true
	}

	rawAnswers, err := s.client.LRange(ctx, answersKey(sessionKey, moduleID), 0, -1).Result()
	if err != nil {
		return nil, false, &StoreError{Op: "get answers", Err: err}
	}
	for _, raw := range rawAnswers {
		var a models.AnswerRecord
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return nil, false, &StoreError{Op: "decode answer", Err: err}
		}
		mp.Answers = append(mp.Answers, a)
		found = true
	}

	rawState, err := s.client.Get(ctx, stateKey(sessionKey, moduleID)).Result()
	if err != nil && err != redis.Nil {
		return nil, false, &StoreError{Op: "get module state", Err: err}
	}
	if err == nil {
		var state storedState
		if err := json.Unmarshal([]byte(rawState), &state); err != nil {
			return nil, false, &StoreError{Op: "decode module state", Err: err}
		}
		mp.Completed = state.Completed
		mp.CompletedAt = state.CompletedAt
		mp.FinalReport = state.FinalReport
		found = true
	}

	if !found {
		return nil, false, nil
	}
	return mp, true, nil
}

func (s *RedisStore) AppendQuestion(sessionKey, moduleID string, q models.QuestionRecord) error {
	ctx := context.Background()

	data, err := json.Marshal(storedQuestion{
		QuestionID:   q.QuestionID,
		CorrectIndex: q.CorrectIndex,
		Difficulty:   q.Difficulty,
		Topic:        q.Topic,
		AskedAt:      q.AskedAt,
	})
	if err != nil {
		return &StoreError{Op: "encode question", Err: err}
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, questionsKey(sessionKey, moduleID), data)
	pipe.SAdd(ctx, modulesKey(sessionKey), moduleID)
	if _, err := pipe.Exec(ctx); err != nil {
		return &StoreError{Op: "append question", Err: err}
	}
	return nil
}

func (s *RedisStore) AppendAnswer(sessionKey, moduleID string, a models.AnswerRecord) error {
	ctx := context.Background()

	data, err := json.Marshal(a)
	if err != nil {
		return &StoreError{Op: "encode answer", Err: err}
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, answersKey(sessionKey, moduleID), data)
	pipe.SAdd(ctx, modulesKey(sessionKey), moduleID)
	if _, err := pipe.Exec(ctx); err != nil {
		return &StoreError{Op: "append answer", Err: err}
	}
	return nil
}

func (s *RedisStore) GetRecentAnswers(sessionKey, moduleID string, n int) ([]models.AnswerRecord, error) {
	ctx := context.Background()

	start := int64(0)
	if n > 0 {
		start = int64(-n)
	}
	raw, err := s.client.LRange(ctx, answersKey(sessionKey, moduleID), start, -1).Result()
	if err != nil {
		return nil, &StoreError{Op: "get recent answers", Err: err}
	}

	var answers []models.AnswerRecord
	for _, item := range raw {
		var a models.AnswerRecord
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			return nil, &StoreError{Op: "decode answer", Err: err}
		}
		answers = append(answers, a)
	}
	return answers, nil
}

func (s *RedisStore) MarkCompleted(sessionKey, moduleID string, report *models.ModuleReport) error {
	ctx := context.Background()

	state := storedState{Completed: true}
	if report != nil {
		state.FinalReport = report
		t := report.CompletedAt
		state.CompletedAt = &t
	}

	data, err := json.Marshal(state)
	if err != nil {
		return &StoreError{Op: "encode module state", Err: err}
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, stateKey(sessionKey, moduleID), data, 0)
	pipe.SAdd(ctx, modulesKey(sessionKey), moduleID)
	if _, err := pipe.Exec(ctx); err != nil {
		return &StoreError{Op: "mark completed", Err: err}
	}
	return nil
}

func (s *RedisStore) StoreRoadmap(sessionKey string, roadmap models.Roadmap) error {
	ctx := context.Background()

	data, err := json.Marshal(roadmap)
	if err != nil {
		return &StoreError{Op: "encode roadmap", Err: err}
	}

	if err := s.client.Set(ctx, roadmapKey(sessionKey), data, 0).Err(); err != nil {
		return &StoreError{Op: "store roadmap", Err: err}
	}
	return nil
}

func (s *RedisStore) GetRoadmap(sessionKey string) (*models.Roadmap, bool, error) {
	ctx := context.Background()

	raw, err := s.client.Get(ctx, roadmapKey(sessionKey)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &StoreError{Op: "get roadmap", Err: err}
	}

	var roadmap models.Roadmap
	if err := json.Unmarshal([]byte(raw), &roadmap); err != nil {
		return nil, false, &StoreError{Op: "decode roadmap", Err: err}
	}
	return &roadmap, true, nil
}

func (s *RedisStore) ClearSession(sessionKey string) error {
	ctx := context.Background()

	moduleIDs, err := s.client.SMembers(ctx, modulesKey(sessionKey)).Result()
	if err != nil && err != redis.Nil {
		return &StoreError{Op: "clear session", Err: err}
	}

	keys := []string{modulesKey(sessionKey), roadmapKey(sessionKey)}
	for _, moduleID := range moduleIDs {
		keys = append(keys,
			questionsKey(sessionKey, moduleID),
			answersKey(sessionKey, moduleID),
			stateKey(sessionKey, moduleID),
		)
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return &StoreError{Op: "clear session", Err: err}
	}
	return nil
}
