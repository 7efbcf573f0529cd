// Package file keeps the reply log as a JSON array on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"mailbrief/internal/model"
	"mailbrief/internal/repository"
)

const DefaultReplyLogPath = "sent_replies.json"

type ReplyLogRepository struct {
	path  string
	mutex sync.Mutex
}

func NewReplyLogRepository(path string) *ReplyLogRepository {
	if path == "" {
		path = DefaultReplyLogPath
	}
	return &ReplyLogRepository{path: path}
}

func (r *ReplyLogRepository) LoadAll(ctx context.Context) ([]model.ReplyLogRecord, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.read()
}

// Append rewrites the whole file. A missing file is started fresh.
func (r *ReplyLogRepository) Append(ctx context.Context, record model.ReplyLogRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	records, err := r.read()
	if err != nil && !errors.Is(err, repository.ErrReplyLogNotFound) {
		return err
	}
	records = append(records, record)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode reply log: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".sent_replies-*.json")
	if err != nil {
		return fmt.Errorf("failed to write reply log: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write reply log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write reply log: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to write reply log: %w", err)
	}
	return nil
}

func (r *ReplyLogRepository) read() ([]model.ReplyLogRecord, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", r.path, repository.ErrReplyLogNotFound)
		}
		return nil, fmt.Errorf("failed to read reply log %s: %w", r.path, err)
	}

	records := []model.ReplyLogRecord{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode reply log %s: %w", r.path, err)
	}
	return records, nil
}
