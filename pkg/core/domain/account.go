package domain

import "time"

// Account holds the credentials side of a user. The profile row shares
// its ID.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"` // stored lowercase
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
