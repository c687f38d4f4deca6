package staff

import (
	"context"
	"errors"
	"fmt"

	"github.com/Glenne01/sneakers-sub000/internal/repository"
	"github.com/Glenne01/sneakers-sub000/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var ErrStaffNotFound = errors.New("staff user not found")

type StaffRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *StaffRepository {
	return &StaffRepository{repository: r}
}

func (r *StaffRepository) GetByUsername(ctx context.Context, username string) (*models.StaffUser, error) {
	var user models.StaffUser
	query := r.repository.GoquDBWrapper.
		Select("id", "username", "full_name", "password_hash", "role").
		From("staff_users").
		Where(goqu.Ex{"username": username})

	found, err := query.Executor().ScanStructContext(ctx, &user)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff user: %w", err)
	}
	if !found {
		return nil, ErrStaffNotFound
	}

	return &user, nil
}
