package domain

import (
	"context"
	"time"
)

// User is a registered participant. Accounts are created by the accounts
// service; this service only reads them.
// swagger:model User
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Speaker returns the public speaker view of the user.
func (u *User) Speaker() *Speaker {
	return &Speaker{ID: u.ID, Name: u.Name}
}

// Claims is the identity carried by a verified access token.
type Claims struct {
	UserID  string
	IsStaff bool
}

// TokenVerifier verifies a token and returns the authenticated identity.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// UserRepository defines read access to user storage.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	// ListByIDs returns the users that exist among ids, in no particular order.
	ListByIDs(ctx context.Context, ids []string) ([]*User, error)
	ListSpeakers(ctx context.Context) ([]*User, error)
}
