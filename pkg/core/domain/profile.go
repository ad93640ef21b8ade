package domain

import "time"

// Profile is the public identity behind a bio page. Its ID equals the
// owning account's ID and never changes.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"` // stored lowercase
	FullName  string    `json:"full_name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicProfile is the read-only projection rendered at /{username}:
// the profile plus its active links ordered by sort key.
type PublicProfile struct {
	Profile Profile `json:"profile"`
	Links   []Link  `json:"links"`
}
