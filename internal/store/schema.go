package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const (
	documentsTable  = "documents"
	sessionTable    = "session_events"
	answerTable     = "answer_events"
	llmRequestTable = "llm_request_events"
	sequenceTable   = "global_sequence"
	sequenceColumn  = "sequence"
	timestampColumn = "timestamp"
	sessionIDColumn = "session_id"
)

// builder returns an ent SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// eventColumns prefixes every event table: a global sequence and a
// Unix-millisecond timestamp.
const eventColumns = `
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	` + sequenceColumn + ` INTEGER NOT NULL UNIQUE,
	` + timestampColumn + ` INTEGER NOT NULL,`

// ddl creates every table and index. Statements are idempotent.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS ` + documentsTable + ` (
	key TEXT NOT NULL PRIMARY KEY,
	value BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS ` + sessionTable + ` (` + eventColumns + `
	` + sessionIDColumn + ` TEXT NOT NULL,
	action TEXT NOT NULL,
	topic_id TEXT NOT NULL DEFAULT '',
	mode TEXT NOT NULL DEFAULT '',
	correct INTEGER NOT NULL DEFAULT 0,
	total INTEGER NOT NULL DEFAULT 0,
	duration_secs INTEGER NOT NULL DEFAULT 0
)`,
	`CREATE INDEX IF NOT EXISTS session_events_session_id ON ` + sessionTable + ` (` + sessionIDColumn + `)`,
	`CREATE TABLE IF NOT EXISTS ` + answerTable + ` (` + eventColumns + `
	` + sessionIDColumn + ` TEXT NOT NULL,
	topic_id TEXT NOT NULL,
	item_id TEXT NOT NULL,
	user_answer TEXT NOT NULL DEFAULT '',
	spelling BOOLEAN NOT NULL,
	pronunciation BOOLEAN NOT NULL,
	translation BOOLEAN NOT NULL,
	translation_score INTEGER NOT NULL DEFAULT -1,
	correct BOOLEAN NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS answer_events_item_id ON ` + answerTable + ` (item_id)`,
	`CREATE TABLE IF NOT EXISTS ` + llmRequestTable + ` (` + eventColumns + `
	provider TEXT NOT NULL,
	model TEXT NOT NULL,
	purpose TEXT NOT NULL,
	input_tokens INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	latency_ms INTEGER NOT NULL DEFAULT 0,
	success BOOLEAN NOT NULL,
	error_message TEXT NOT NULL DEFAULT ''
)`,
	`CREATE TABLE IF NOT EXISTS ` + sequenceTable + ` (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	next_val INTEGER NOT NULL DEFAULT 1
)`,
	`INSERT OR IGNORE INTO ` + sequenceTable + ` (id, next_val) VALUES (1, 1)`,
}

// migrate runs the DDL. ent's dialect/sql has no table builders, so the
// statements are plain SQL; queries go through builder().
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}
