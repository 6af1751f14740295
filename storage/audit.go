package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ToolInvocation is one audited tool execution.
type ToolInvocation struct {
	ID         int64
	SessionID  string
	Tool       string
	Arguments  string // JSON
	Status     string
	Detail     string
	DurationMS int64
	CreatedAt  time.Time
}

// AuditLog records every tool execution in SQLite. It satisfies the
// executor's Auditor interface.
type AuditLog struct {
	db *sql.DB
}

func NewAuditLog(dataDir string) (*AuditLog, error) {
	dbPath := filepath.Join(dataDir, "audit.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	audit := &AuditLog{db: db}

	if err := audit.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return audit, nil
}

func (a *AuditLog) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tool_invocations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT,
		tool TEXT NOT NULL,
		arguments TEXT,
		status TEXT NOT NULL,
		detail TEXT,
		duration_ms INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_invocations_tool ON tool_invocations(tool);
	CREATE INDEX IF NOT EXISTS idx_invocations_session ON tool_invocations(session_id);
	`

	_, err := a.db.Exec(schema)
	return err
}

// RecordInvocation implements the executor's audit hook.
func (a *AuditLog) RecordInvocation(sessionID, tool string, args map[string]any, status string, detail string, duration time.Duration) error {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		argsJSON = []byte("{}")
	}

	query := `
	INSERT INTO tool_invocations (session_id, tool, arguments, status, detail, duration_ms, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = a.db.Exec(query,
		sessionID,
		tool,
		string(argsJSON),
		status,
		detail,
		duration.Milliseconds(),
		time.Now(),
	)

	return err
}

// Recent returns the newest invocations, up to limit.
func (a *AuditLog) Recent(limit int) ([]ToolInvocation, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT id, session_id, tool, arguments, status, detail, duration_ms, created_at
	FROM tool_invocations
	ORDER BY id DESC
	LIMIT ?
	`

	rows, err := a.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invocations []ToolInvocation
	for rows.Next() {
		var inv ToolInvocation
		err := rows.Scan(
			&inv.ID,
			&inv.SessionID,
			&inv.Tool,
			&inv.Arguments,
			&inv.Status,
			&inv.Detail,
			&inv.DurationMS,
			&inv.CreatedAt,
		)
		if err != nil {
			continue
		}
		invocations = append(invocations, inv)
	}

	return invocations, rows.Err()
}

// CountByStatus returns invocation counts grouped by status.
func (a *AuditLog) CountByStatus() (map[string]int, error) {
	rows, err := a.db.Query(`SELECT status, COUNT(*) FROM tool_invocations GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			continue
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

func (a *AuditLog) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
