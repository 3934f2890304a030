package database

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// Connect opens a Postgres pool from the given URL, or from discrete DB_*
// environment variables when the URL is empty.
func Connect(databaseURL string) (*sql.DB, error) {
	dsn := databaseURL
	if dsn == "" {
		host := getEnv("DB_HOST", "localhost")
		port := getEnv("DB_PORT", "5432")
		user := getEnv("DB_USER", "nayi_disha")
		password := getEnv("DB_PASSWORD", "nayi_disha")
		dbname := getEnv("DB_NAME", "nayi_disha")
		sslmode := getEnv("DB_SSLMODE", "disable")

		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode,
		)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

// Migrate creates the schema. All statements are idempotent so the server
// can run this on every startup.
func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		username VARCHAR(50) UNIQUE,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS roadmaps (
		session_key VARCHAR(255) PRIMARY KEY,
		data        JSONB NOT NULL,
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS module_questions (
		id            BIGSERIAL PRIMARY KEY,
		session_key   VARCHAR(255) NOT NULL,
		module_id     VARCHAR(255) NOT NULL,
		question_id   VARCHAR(64) NOT NULL,
		correct_index INT NOT NULL,
		difficulty    VARCHAR(20) NOT NULL,
		topic         VARCHAR(255),
		asked_at      TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_module_questions_lookup ON module_questions(session_key, module_id);
	CREATE INDEX IF NOT EXISTS idx_module_questions_qid ON module_questions(session_key, module_id, question_id);

	CREATE TABLE IF NOT EXISTS module_answers (
		id             BIGSERIAL PRIMARY KEY,
		session_key    VARCHAR(255) NOT NULL,
		module_id      VARCHAR(255) NOT NULL,
		question_id    VARCHAR(64) NOT NULL,
		user_answer    INT NOT NULL,
		correct_answer INT NOT NULL,
		correct        BOOLEAN NOT NULL,
		difficulty     VARCHAR(20) NOT NULL,
		topic          VARCHAR(255),
		answered_at    TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_module_answers_lookup ON module_answers(session_key, module_id);

	CREATE TABLE IF NOT EXISTS module_state (
		session_key  VARCHAR(255) NOT NULL,
		module_id    VARCHAR(255) NOT NULL,
		completed    BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at TIMESTAMP WITH TIME ZONE,
		final_report JSONB,
		PRIMARY KEY(session_key, module_id)
	);
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// generateUsernameBase creates a lowercase alphanumeric base from a user's name.
func generateUsernameBase(name string) string {
	var result []byte
	for _, c := range strings.ToLower(name) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			result = append(result, byte(c))
		}
	}
	if len(result) == 0 {
		return "user"
	}
	if len(result) > 12 {
		result = result[:12]
	}
	return string(result)
}

// rng is a seeded random source for username generation.
var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateUsername creates a username from a name by appending random
// digits. Caller handles the unique constraint and retries.
func GenerateUsername(name string) string {
	return fmt.Sprintf("%s%04d", generateUsernameBase(name), rng.Intn(10000))
}
