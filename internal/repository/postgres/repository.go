package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"mailbrief/internal/model"
	"mailbrief/internal/repository"
)

const userColumns = `id, provider_id, email, name, access_token, refresh_token, token_expiry, created_at, updated_at`

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (provider_id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expiry = EXCLUDED.token_expiry,
			updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.ProviderID, user.Email, user.Name,
		user.AccessToken, user.RefreshToken, user.TokenExpiry,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.ID, err)
	}
	return nil
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PostgresUserRepository) FindByProviderID(ctx context.Context, providerID string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE provider_id = $1`, providerID)
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *PostgresUserRepository) findOne(ctx context.Context, query string, arg string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, query, arg)

	user := &model.User{}
	var accessToken, refreshToken sql.NullString
	var expiry sql.NullTime
	err := row.Scan(
		&user.ID, &user.ProviderID, &user.Email, &user.Name,
		&accessToken, &refreshToken, &expiry,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", arg, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user %s: %w", arg, err)
	}
	user.AccessToken = accessToken.String
	user.RefreshToken = refreshToken.String
	user.TokenExpiry = expiry.Time
	return user, nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users SET provider_id=$1, email=$2, name=$3, access_token=$4,
		refresh_token=$5, token_expiry=$6, updated_at=NOW() WHERE id=$7`
	res, err := r.db.ExecContext(ctx, query,
		user.ProviderID, user.Email, user.Name,
		user.AccessToken, user.RefreshToken, user.TokenExpiry,
		user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("user %s: %w", user.ID, repository.ErrNotFound)
	}
	return nil
}

// Postgres Email repository implementation
type PostgresEmailRepository struct {
	db *sql.DB
}

func NewPostgresEmailRepository(db *sql.DB) *PostgresEmailRepository {
	return &PostgresEmailRepository{db: db}
}

const emailColumns = `id, user_id, message_id, thread_id, from_email, subject, body, summary, tags, received_at, created_at, updated_at`

func (r *PostgresEmailRepository) Create(ctx context.Context, email *model.Email) error {
	query := `
		INSERT INTO emails (` + emailColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, message_id) DO UPDATE SET
			summary = EXCLUDED.summary,
			tags = EXCLUDED.tags,
			updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query,
		email.ID, email.UserID, email.MessageID, email.ThreadID, email.From, email.Subject, email.Body,
		email.Summary, pq.Array(email.Tags), email.ReceivedAt,
		email.CreatedAt, email.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to cache email %s: %w", email.MessageID, err)
	}
	return nil
}

func (r *PostgresEmailRepository) FindByMessageID(ctx context.Context, userID, messageID string) (*model.Email, error) {
	query := `SELECT ` + emailColumns + ` FROM emails WHERE user_id = $1 AND message_id = $2`
	email, err := scanEmail(r.db.QueryRowContext(ctx, query, userID, messageID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("email %s: %w", messageID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find email %s: %w", messageID, err)
	}
	return email, nil
}

func (r *PostgresEmailRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM emails WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete email %s: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmail(s scanner) (*model.Email, error) {
	email := &model.Email{}
	var tags pq.StringArray
	err := s.Scan(
		&email.ID, &email.UserID, &email.MessageID, &email.ThreadID, &email.From, &email.Subject, &email.Body,
		&email.Summary, &tags, &email.ReceivedAt,
		&email.CreatedAt, &email.UpdatedAt)
	if err != nil {
		return nil, err
	}
	email.Tags = []string(tags)
	return email, nil
}

// PostgresReplyLogRepository stores sent replies in the sent_replies table.
// A NULL tags column reads back as a record without tags. TIMESTAMPTZ keeps
// only the instant, so the writer's UTC offset is stored next to it and
// restored on load; calendar days then match the file and SQLite logs.
type PostgresReplyLogRepository struct {
	db *sql.DB
}

func NewPostgresReplyLogRepository(db *sql.DB) *PostgresReplyLogRepository {
	return &PostgresReplyLogRepository{db: db}
}

func (r *PostgresReplyLogRepository) Append(ctx context.Context, record model.ReplyLogRecord) error {
	query := `
		INSERT INTO sent_replies (sent_at, utc_offset, tags, message_id, thread_id, recipient, subject)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	var tags interface{}
	if record.Tags != nil {
		tags = pq.Array(record.Tags)
	}

	_, err := r.db.ExecContext(ctx, query,
		record.Timestamp, utcOffset(record.Timestamp), tags,
		record.MessageID, record.ThreadID, record.Recipient, record.Subject)
	if err != nil {
		return fmt.Errorf("failed to append reply: %w", replyLogError(err))
	}
	return nil
}

func (r *PostgresReplyLogRepository) LoadAll(ctx context.Context) ([]model.ReplyLogRecord, error) {
	query := `SELECT sent_at, utc_offset, tags, message_id, thread_id, recipient, subject FROM sent_replies ORDER BY sent_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load replies: %w", replyLogError(err))
	}
	defer rows.Close()

	records := []model.ReplyLogRecord{}
	for rows.Next() {
		var rec model.ReplyLogRecord
		var offset int
		var tags pq.StringArray
		if err := rows.Scan(&rec.Timestamp, &offset, &tags, &rec.MessageID, &rec.ThreadID, &rec.Recipient, &rec.Subject); err != nil {
			return nil, fmt.Errorf("failed to scan reply: %w", err)
		}
		rec.Timestamp = inZone(rec.Timestamp, offset)
		if tags != nil {
			rec.Tags = []string(tags)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load replies: %w", err)
	}
	return records, nil
}

// undefined_table
const pqUndefinedTable = "42P01"

// replyLogError reports a missing sent_replies table as a missing reply log.
func replyLogError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUndefinedTable {
		return fmt.Errorf("sent_replies table: %w", repository.ErrReplyLogNotFound)
	}
	return err
}

// utcOffset is the offset of t's zone in seconds east of UTC.
func utcOffset(t time.Time) int {
	_, offset := t.Zone()
	return offset
}

func inZone(t time.Time, offset int) time.Time {
	if offset == 0 {
		return t.UTC()
	}
	return t.In(time.FixedZone("", offset))
}

// InitializeDatabase creates the necessary tables
func InitializeDatabase(db *sql.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(255) PRIMARY KEY,
			provider_id VARCHAR(255) UNIQUE NOT NULL,
			email VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			access_token TEXT,
			refresh_token TEXT,
			token_expiry TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS emails (
			id VARCHAR(255) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			message_id VARCHAR(255) NOT NULL,
			thread_id VARCHAR(255),
			from_email TEXT,
			subject TEXT NOT NULL,
			body TEXT,
			summary TEXT NOT NULL,
			tags TEXT[] NOT NULL,
			received_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, message_id)
		)`,
		`CREATE TABLE IF NOT EXISTS sent_replies (
			id BIGSERIAL PRIMARY KEY,
			sent_at TIMESTAMPTZ NOT NULL,
			tags TEXT[],
			message_id TEXT NOT NULL DEFAULT '',
			thread_id TEXT NOT NULL DEFAULT '',
			recipient TEXT NOT NULL DEFAULT '',
			subject TEXT NOT NULL DEFAULT ''
		)`,
		`ALTER TABLE sent_replies ADD COLUMN IF NOT EXISTS utc_offset INTEGER NOT NULL DEFAULT 0`,
	}

	for _, table := range tables {
		_, err := db.Exec(table)
		if err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}
