package postgres

import (
	"context"
	"database/sql"
	"errors"

	"clubmanagement/internal/domain"
)

type clubRepository struct {
	DB *sql.DB
}

func NewClubRepository(db *sql.DB) domain.ClubRepository {
	return &clubRepository{
		DB: db,
	}
}

func (r *clubRepository) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	query := `SELECT id, name FROM clubs WHERE id = $1`
	c := &domain.Club{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}
