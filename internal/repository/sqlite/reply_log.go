// Package sqlite stores the reply log in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"mailbrief/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS sent_replies (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	sent_at    TEXT NOT NULL,
	tags       TEXT,
	message_id TEXT NOT NULL DEFAULT '',
	thread_id  TEXT NOT NULL DEFAULT '',
	recipient  TEXT NOT NULL DEFAULT '',
	subject    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_sent_replies_sent_at ON sent_replies(sent_at);
`

// ReplyLogRepository is a SQLite-backed reply log. Tags are stored as a
// JSON array; NULL means the record was written without tags.
type ReplyLogRepository struct {
	db *sqlx.DB
}

type replyRow struct {
	SentAt    string         `db:"sent_at"`
	Tags      sql.NullString `db:"tags"`
	MessageID string         `db:"message_id"`
	ThreadID  string         `db:"thread_id"`
	Recipient string         `db:"recipient"`
	Subject   string         `db:"subject"`
}

// NewReplyLogRepository opens (or creates) the database at dbPath and makes
// sure the sent_replies table exists. Use ":memory:" for a throwaway log.
func NewReplyLogRepository(dbPath string) (*ReplyLogRepository, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Each connection to :memory: is its own database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sent_replies table: %w", err)
	}

	return &ReplyLogRepository{db: db}, nil
}

func (r *ReplyLogRepository) Close() error {
	return r.db.Close()
}

func (r *ReplyLogRepository) Append(ctx context.Context, record model.ReplyLogRecord) error {
	var tags sql.NullString
	if record.Tags != nil {
		data, err := json.Marshal(record.Tags)
		if err != nil {
			return fmt.Errorf("marshaling tags: %w", err)
		}
		tags = sql.NullString{String: string(data), Valid: true}
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO sent_replies (sent_at, tags, message_id, thread_id, recipient, subject)
		VALUES (:sent_at, :tags, :message_id, :thread_id, :recipient, :subject)`,
		replyRow{
			SentAt:    record.Timestamp.Format(time.RFC3339Nano),
			Tags:      tags,
			MessageID: record.MessageID,
			ThreadID:  record.ThreadID,
			Recipient: record.Recipient,
			Subject:   record.Subject,
		},
	)
	if err != nil {
		return fmt.Errorf("inserting reply log record: %w", err)
	}
	return nil
}

func (r *ReplyLogRepository) LoadAll(ctx context.Context) ([]model.ReplyLogRecord, error) {
	var rows []replyRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT sent_at, tags, message_id, thread_id, recipient, subject
		FROM sent_replies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying sent_replies: %w", err)
	}

	records := make([]model.ReplyLogRecord, 0, len(rows))
	for _, row := range rows {
		ts, err := model.ParseTimestamp(row.SentAt)
		if err != nil {
			return nil, fmt.Errorf("reading sent_at: %w", err)
		}

		rec := model.ReplyLogRecord{
			Timestamp: ts,
			MessageID: row.MessageID,
			ThreadID:  row.ThreadID,
			Recipient: row.Recipient,
			Subject:   row.Subject,
		}
		if row.Tags.Valid {
			if err := json.Unmarshal([]byte(row.Tags.String), &rec.Tags); err != nil {
				return nil, fmt.Errorf("unmarshaling tags: %w", err)
			}
		}
		records = append(records, rec)
	}

	return records, nil
}
