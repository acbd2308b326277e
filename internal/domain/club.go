package domain

import "context"

// Club represents a student club. Reference data only; club CRUD is owned by
// an external collaborator.
// swagger:model Club
type Club struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ClubRepository defines read access to club reference data.
type ClubRepository interface {
	GetByID(ctx context.Context, id string) (*Club, error)
}
