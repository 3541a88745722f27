package models

import "time"

// Session is one signed-in device. A user holds one row per device; revoking a
// row signs that device out without touching the others.
type Session struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	RefreshToken string    `json:"-"`
	UserAgent    string    `json:"user_agent,omitempty"`
	DeviceName   string    `json:"device_name"`
	IP           string    `json:"ip,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	LastUsedAt   time.Time `json:"last_used_at"`
	CreatedAt    time.Time `json:"created_at"`
}
