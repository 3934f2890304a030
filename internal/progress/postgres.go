package progress

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/nayi-disha/backend/internal/models"
)

// PostgresStore persists quiz progress in Postgres. Record sequences are
// append-only rows ordered by insertion id, so history order survives
// restarts.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetModuleProgress(sessionKey, moduleID string) (*models.ModuleProgress, bool, error) {
	mp := &models.ModuleProgress{}
	found := false

	rows, err := s.db.Query(
		`SELECT question_id, correct_index, difficulty, topic, asked_at
		 FROM module_questions
		 WHERE session_key = $1 AND module_id = $2
		 ORDER BY id`,
		sessionKey, moduleID,
	)
	if err != nil {
		return nil, false, &StoreError{Op: "get questions", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var q models.QuestionRecord
		if err := rows.Scan(&q.QuestionID, &q.CorrectIndex, &q.Difficulty, &q.Topic, &q.AskedAt); err != nil {
			return nil, false, &StoreError{Op: "scan question", Err: err}
		}
		mp.Questions = append(mp.Questions, q)
		found = true
	}
	if err := rows.Err(); err != nil {
		return nil, false, &StoreError{Op: "iterate questions", Err: err}
	}

	answers, err := s.queryAnswers(sessionKey, moduleID, 0)
	if err != nil {
		return nil, false, err
	}
	if len(answers) > 0 {
		mp.Answers = answers
		found = true
	}

	var reportJSON []byte
	var completedAt sql.NullTime
	err = s.db.QueryRow(
		`SELECT completed, completed_at, final_report
		 FROM module_state
		 WHERE session_key = $1 AND module_id = $2`,
		sessionKey, moduleID,
	).Scan(&mp.Completed, &completedAt, &reportJSON)
	switch {
	case err == sql.ErrNoRows:
		// No completion row yet — fine.
	case err != nil:
		return nil, false, &StoreError{Op: "get module state", Err: err}
	default:
		found = true
		if completedAt.Valid {
			t := completedAt.Time
			mp.CompletedAt = &t
		}
		if len(reportJSON) > 0 {
			var report models.ModuleReport
			if err := json.Unmarshal(reportJSON, &report); err != nil {
				return nil, false, &StoreError{Op: "decode final report", Err: err}
			}
			mp.FinalReport = &report
		}
	}

	if !found {
		return nil, false, nil
	}
	return mp, true, nil
}

func (s *PostgresStore) AppendQuestion(sessionKey, moduleID string, q models.QuestionRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO module_questions (session_key, module_id, question_id, correct_index, difficulty, topic, asked_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sessionKey, moduleID, q.QuestionID, q.CorrectIndex, q.Difficulty, q.Topic, q.AskedAt,
	)
	if err != nil {
		return &StoreError{Op: "append question", Err: err}
	}
	return nil
}

func (s *PostgresStore) AppendAnswer(sessionKey, moduleID string, a models.AnswerRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO module_answers (session_key, module_id, question_id, user_answer, correct_answer, correct, difficulty, topic, answered_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sessionKey, moduleID, a.QuestionID, a.UserAnswer, a.CorrectAnswer, a.Correct, a.Difficulty, a.Topic, a.AnsweredAt,
	)
	if err != nil {
		return &StoreError{Op: "append answer", Err: err}
	}
	return nil
}

func (s *PostgresStore) GetRecentAnswers(sessionKey, moduleID string, n int) ([]models.AnswerRecord, error) {
	return s.queryAnswers(sessionKey, moduleID, n)
}

// queryAnswers returns answers in append order; n > 0 limits to the n most
// recent.
func (s *PostgresStore) queryAnswers(sessionKey, moduleID string, n int) ([]models.AnswerRecord, error) {
	query := `SELECT question_id, user_answer, correct_answer, correct, difficulty, topic, answered_at
	          FROM module_answers
	          WHERE session_key = $1 AND module_id = $2
	          ORDER BY id`
	args := []any{sessionKey, moduleID}
	if n > 0 {
		// Fetch the tail descending and reverse in Go to keep append order.
		query += ` DESC LIMIT $3`
		args = append(args, n)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &StoreError{Op: "get answers", Err: err}
	}
	defer rows.Close()

	var answers []models.AnswerRecord
	for rows.Next() {
		var a models.AnswerRecord
		if err := rows.Scan(&a.QuestionID, &a.UserAnswer, &a.CorrectAnswer, &a.Correct, &a.Difficulty, &a.Topic, &a.AnsweredAt); err != nil {
			return nil, &StoreError{Op: "scan answer", Err: err}
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "iterate answers", Err: err}
	}

	if n > 0 {
		// Reverse back into append order.
		for i, j := 0, len(answers)-1; i < j; i, j = i+1, j-1 {
			answers[i], answers[j] = answers[j], answers[i]
		}
	}
	return answers, nil
}

func (s *PostgresStore) MarkCompleted(sessionKey, moduleID string, report *models.ModuleReport) error {
	var reportJSON []byte
	completedAt := time.Now()
	if report != nil {
		var err error
		reportJSON, err = json.Marshal(report)
		if err != nil {
			return &StoreError{Op: "encode final report", Err: err}
		}
		completedAt = report.CompletedAt
	}

	_, err := s.db.Exec(
		`INSERT INTO module_state (session_key, module_id, completed, completed_at, final_report)
		 VALUES ($1, $2, TRUE, $3, $4)
		 ON CONFLICT (session_key, module_id)
		 DO UPDATE SET completed = TRUE, completed_at = $3, final_report = $4`,
		sessionKey, moduleID, completedAt, reportJSON,
	)
	if err != nil {
		return &StoreError{Op: "mark completed", Err: err}
	}
	return nil
}

func (s *PostgresStore) StoreRoadmap(sessionKey string, roadmap models.Roadmap) error {
	data, err := json.Marshal(roadmap)
	if err != nil {
		return &StoreError{Op: "encode roadmap", Err: err}
	}

	_, err = s.db.Exec(
		`INSERT INTO roadmaps (session_key, data, created_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (session_key)
		 DO UPDATE SET data = $2, created_at = NOW()`,
		sessionKey, data,
	)
	if err != nil {
		return &StoreError{Op: "store roadmap", Err: err}
	}
	return nil
}

func (s *PostgresStore) GetRoadmap(sessionKey string) (*models.Roadmap, bool, error) {
	var data []byte
	err := s.db.QueryRow(
		`SELECT data FROM roadmaps WHERE session_key = $1`,
		sessionKey,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &StoreError{Op: "get roadmap", Err: err}
	}

	var roadmap models.Roadmap
	if err := json.Unmarshal(data, &roadmap); err != nil {
		return nil, false, &StoreError{Op: "decode roadmap", Err: err}
	}
	return &roadmap, true, nil
}

func (s *PostgresStore) ClearSession(sessionKey string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &StoreError{Op: "clear session", Err: err}
	}
	defer tx.Rollback()

	for _, table := range []string{"module_questions", "module_answers", "module_state", "roadmaps"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE session_key = $1`, sessionKey); err != nil {
			return &StoreError{Op: "clear session", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StoreError{Op: "clear session", Err: err}
	}
	return nil
}
