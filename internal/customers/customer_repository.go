package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Glenne01/sneakers-sub000/internal/repository"
	"github.com/Glenne01/sneakers-sub000/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var ErrCustomerNotFound = errors.New("customer not found")

type CustomerRepository interface {
	FindByAuthID(ctx context.Context, authID string) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	Create(ctx context.Context, email string) (*models.Customer, error)
}

type customerRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) CustomerRepository {
	return &customerRepositoryImpl{repository: r}
}

func (r *customerRepositoryImpl) FindByAuthID(ctx context.Context, authID string) (*models.Customer, error) {
	var customer models.Customer
	query := r.repository.GoquDBWrapper.
		From("customers").
		Where(goqu.Ex{"auth_id": authID})

	found, err := query.Executor().ScanStructContext(ctx, &customer)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer by auth id: %w", err)
	}
	if !found {
		return nil, ErrCustomerNotFound
	}

	return &customer, nil
}

func (r *customerRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	query := r.repository.GoquDBWrapper.
		From("customers").
		Where(goqu.Ex{"email": strings.ToLower(email)})

	found, err := query.Executor().ScanStructContext(ctx, &customer)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer by email: %w", err)
	}
	if !found {
		return nil, ErrCustomerNotFound
	}

	return &customer, nil
}

// Create inserts a minimal profile for a guest checkout. Matching is
// best-effort: two concurrent checkouts with the same fresh email may both
// insert, and the later one wins nothing — orders simply reference whichever
// profile their fulfillment resolved.
func (r *customerRepositoryImpl) Create(ctx context.Context, email string) (*models.Customer, error) {
	customer := models.Customer{Email: strings.ToLower(email)}

	query := r.repository.GoquDBWrapper.Insert("customers").
		Rows(goqu.Record{
			"email": customer.Email,
		}).
		Returning("id", "created_at")

	if _, err := query.Executor().ScanStructContext(ctx, &customer); err != nil {
		return nil, fmt.Errorf("failed to insert customer: %w", err)
	}

	return &customer, nil
}
