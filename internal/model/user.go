package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a mailbox owner who signed in through OAuth. AccessToken is the
// bearer token handed to the Gmail API.
type User struct {
	ID           string    `json:"id"`
	ProviderID   string    `json:"provider_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenExpiry  time.Time `json:"token_expiry"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewUser(providerID, email, name, accessToken, refreshToken string, tokenExpiry time.Time) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New().String(),
		ProviderID:   providerID,
		Email:        email,
		Name:         name,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenExpiry:  tokenExpiry,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HasToken reports whether the user can be used against the mail API.
func (u *User) HasToken() bool {
	return u.AccessToken != ""
}
