package memory

import (
	"context"
	"fmt"
	"sync"

	"mailbrief/internal/model"
	"mailbrief/internal/repository"
)

type InMemoryUserRepository struct {
	users map[string]*model.User
	mutex sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[string]*model.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *model.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.users[user.ID] = user
	return nil
}

func (r *InMemoryUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	return user, nil
}

func (r *InMemoryUserRepository) FindByProviderID(ctx context.Context, providerID string) (*model.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, user := range r.users {
		if user.ProviderID == providerID {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user with provider id %s: %w", providerID, repository.ErrNotFound)
}

func (r *InMemoryUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, repository.ErrNotFound)
}

func (r *InMemoryUserRepository) Update(ctx context.Context, user *model.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.users[user.ID]; !exists {
		return fmt.Errorf("user %s: %w", user.ID, repository.ErrNotFound)
	}
	r.users[user.ID] = user
	return nil
}

// Email repository implementation
type InMemoryEmailRepository struct {
	emails map[string]*model.Email
	mutex  sync.RWMutex
}

func NewInMemoryEmailRepository() *InMemoryEmailRepository {
	return &InMemoryEmailRepository{
		emails: make(map[string]*model.Email),
	}
}

func (r *InMemoryEmailRepository) Create(ctx context.Context, email *model.Email) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.emails[email.ID] = email
	return nil
}

func (r *InMemoryEmailRepository) FindByMessageID(ctx context.Context, userID, messageID string) (*model.Email, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, email := range r.emails {
		if email.UserID == userID && email.MessageID == messageID {
			return email, nil
		}
	}
	return nil, fmt.Errorf("email %s: %w", messageID, repository.ErrNotFound)
}

func (r *InMemoryEmailRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.emails, id)
	return nil
}

// InMemoryReplyLogRepository keeps sent replies for the lifetime of the
// process. It is always present, so LoadAll never reports a missing log.
type InMemoryReplyLogRepository struct {
	records []model.ReplyLogRecord
	mutex   sync.RWMutex
}

func NewInMemoryReplyLogRepository(records ...model.ReplyLogRecord) *InMemoryReplyLogRepository {
	return &InMemoryReplyLogRepository{records: records}
}

func (r *InMemoryReplyLogRepository) Append(ctx context.Context, record model.ReplyLogRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.records = append(r.records, record)
	return nil
}

func (r *InMemoryReplyLogRepository) LoadAll(ctx context.Context) ([]model.ReplyLogRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]model.ReplyLogRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}
