package domain

import (
	"context"
	"time"
)

// Application roles. The workflow recognizes exactly these three.
const (
	RoleStudent     = "student"
	RoleCoordinator = "coordinator"
	RoleAdmin       = "admin"
)

// User represents a registered user. Name, email, and department are the
// public profile fields exposed on event rosters.
// swagger:model User
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Role       string `json:"role"`
	ClubID     string `json:"club_id,omitempty"`
}

// Requester is the resolved identity of the caller of an operation, supplied
// by the auth middleware. ClubID is set only for club coordinators.
type Requester struct {
	ID     string
	Role   string
	ClubID string
}

// IsStudent reports whether the requester has the student role.
func (r Requester) IsStudent() bool { return r.Role == RoleStudent }

// IsCoordinator reports whether the requester has the coordinator role.
func (r Requester) IsCoordinator() bool { return r.Role == RoleCoordinator }

// IsAdmin reports whether the requester has the admin role.
func (r Requester) IsAdmin() bool { return r.Role == RoleAdmin }

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, role, clubID string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the resolved requester identity.
type TokenVerifier interface {
	Verify(token string) (*Requester, error)
}

// UserRepository defines read access to user reference data. User CRUD is
// owned by an external collaborator; this workflow only reads.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	ListByIDs(ctx context.Context, ids []string) ([]*User, error)
}
