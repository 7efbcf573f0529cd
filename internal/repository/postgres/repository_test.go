package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"mailbrief/internal/repository"
)

func TestReplyLogErrorMapsUndefinedTable(t *testing.T) {
	err := replyLogError(&pq.Error{Code: "42P01", Message: `relation "sent_replies" does not exist`})
	assert.True(t, errors.Is(err, repository.ErrReplyLogNotFound))

	wrapped := replyLogError(fmt.Errorf("query: %w", &pq.Error{Code: "42P01"}))
	assert.True(t, errors.Is(wrapped, repository.ErrReplyLogNotFound))
}

func TestReplyLogErrorKeepsOtherErrors(t *testing.T) {
	denied := &pq.Error{Code: "42501", Message: "permission denied"}
	err := replyLogError(denied)
	assert.False(t, errors.Is(err, repository.ErrReplyLogNotFound))
	assert.Same(t, denied, err)

	plain := errors.New("connection refused")
	assert.Equal(t, plain, replyLogError(plain))
}

func TestStoredOffsetKeepsCalendarDay(t *testing.T) {
	eastern := time.FixedZone("EST", -5*60*60)
	sent := time.Date(2024, 1, 1, 23, 30, 0, 0, eastern)

	offset := utcOffset(sent)
	assert.Equal(t, -18000, offset)

	// TIMESTAMPTZ hands the instant back in the session zone.
	fromDB := sent.UTC()
	assert.Equal(t, "2024-01-02", fromDB.Format("2006-01-02"))

	restored := inZone(fromDB, offset)
	assert.True(t, restored.Equal(sent))
	assert.Equal(t, "2024-01-01", restored.Format("2006-01-02"))
}

func TestInZoneWithoutOffsetIsUTC(t *testing.T) {
	local := time.Date(2024, 3, 1, 8, 0, 0, 0, time.FixedZone("CET", 3600))

	restored := inZone(local, 0)
	assert.Equal(t, time.UTC, restored.Location())
	assert.True(t, restored.Equal(local))
}
