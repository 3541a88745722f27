package models

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Roles recognized by the API. Stored as plain strings in the users table.
const (
	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleCityHall = "city_hall"
)

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin || role == RoleCityHall
}

type User struct {
	ID        int        `json:"id"`
	Nickname  string     `json:"nickname"`
	Email     string     `json:"email,omitempty"`
	Password  string     `json:"-"`
	Role      string     `json:"role"`
	Verified  bool       `json:"verified"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Actor is the authenticated identity a handler extracts from the request
// context and passes down to services.
type Actor struct {
	ID   int
	Role string
}

// IsStaff reports whether the actor may manage complaint statuses.
func (a Actor) IsStaff() bool {
	return a.Role == RoleAdmin || a.Role == RoleCityHall
}

// IsAdmin reports whether the actor may moderate content and manage users.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type SignUpRequest struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}
