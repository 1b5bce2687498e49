package logging

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// CompletionLog is one recorded round-trip with the completion service.
type CompletionLog struct {
	ID          int       `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	CharacterID string    `json:"character_id"`
	Operation   string    `json:"operation"`
	Prompt      string    `json:"prompt"`
	Response    string    `json:"response"`
	Metadata    string    `json:"metadata"`
	Rating      *int      `json:"rating,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
}

type CompletionMetadata struct {
	Model        string        `json:"model"`
	MaxTokens    int           `json:"max_tokens"`
	ResponseTime time.Duration `json:"response_time_ms"`
	Error        *string       `json:"error,omitempty"`
}

// CompletionLogger persists completion traffic to SQLite for offline review.
type CompletionLogger struct {
	db *sql.DB
}

func NewCompletionLogger(path string) (*CompletionLogger, error) {
	if path == "" {
		path = "./completions.db"
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	logger := &CompletionLogger{db: db}
	if err := logger.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return logger, nil
}

func (cl *CompletionLogger) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS completions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		character_id TEXT NOT NULL,
		operation TEXT NOT NULL,
		prompt TEXT NOT NULL,
		response TEXT NOT NULL,
		metadata TEXT NOT NULL,
		rating INTEGER,
		notes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_completions_timestamp ON completions(timestamp);
	CREATE INDEX IF NOT EXISTS idx_completions_character ON completions(character_id);
	`

	_, err := cl.db.Exec(schema)
	return err
}

func (cl *CompletionLogger) LogCompletion(characterID, operation, prompt, response string, metadata CompletionMetadata) error {
	metadataJson, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = cl.db.Exec(`
		INSERT INTO completions (character_id, operation, prompt, response, metadata)
		VALUES (?, ?, ?, ?, ?)
	`, characterID, operation, prompt, response, string(metadataJson))

	return err
}

// GetRecentCompletions returns the newest entries, newest first.
func (cl *CompletionLogger) GetRecentCompletions(limit int) ([]CompletionLog, error) {
	rows, err := cl.db.Query(`
		SELECT id, timestamp, character_id, operation, prompt, response, metadata, rating, notes
		FROM completions ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	var out []CompletionLog
	for rows.Next() {
		var c CompletionLog
		if err := rows.Scan(&c.ID, &c.Timestamp, &c.CharacterID, &c.Operation, &c.Prompt, &c.Response, &c.Metadata, &c.Rating, &c.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan completion row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RateCompletion attaches a human quality rating to a logged completion.
func (cl *CompletionLogger) RateCompletion(id, rating int, notes string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}
	_, err := cl.db.Exec(`UPDATE completions SET rating = ?, notes = ? WHERE id = ?`, rating, notes, id)
	return err
}

func (cl *CompletionLogger) Close() error {
	return cl.db.Close()
}
