package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresRepository persists the conversation and render audit log.
// It is optional: the service runs fully in memory without it.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// LogTurn records one completed chat turn
func (r *PostgresRepository) LogTurn(
	ctx context.Context,
	sessionID, userPrompt, reply string,
	templateVersion int,
	status string,
	tookMs int,
) error {
	query := `
		INSERT INTO chat_turns (session_id, user_prompt, reply, template_version, status, took_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.ExecContext(ctx, query, sessionID, userPrompt, reply, templateVersion, status, tookMs)
	if err != nil {
		return fmt.Errorf("failed to log chat turn: %w", err)
	}
	return nil
}

// LogRender records one poster generation attempt
func (r *PostgresRepository) LogRender(
	ctx context.Context,
	sessionID string,
	templateVersion int,
	url, status string,
	mock bool,
) error {
	query := `
		INSERT INTO render_log (session_id, template_version, url, status, mock, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.ExecContext(ctx, query, sessionID, templateVersion, url, status, mock)
	if err != nil {
		return fmt.Errorf("failed to log render: %w", err)
	}
	return nil
}
