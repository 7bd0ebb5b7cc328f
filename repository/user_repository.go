package repository

import (
	"context"
	"errors"

	"employeePortal/models"
)

// UserRepository reads and writes the users collection of a Store.
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// List returns all users in insertion order.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	return r.store.Users(ctx)
}

// GetByID returns the user with id, or nil when absent.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(ctx, func(u models.User) bool { return u.ID == id })
}

// GetByEmail returns the user registered with email, or nil when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(ctx, func(u models.User) bool { return u.Email == email })
}

// GetByEmployeeID returns the user with the given employee id, or nil when absent.
func (r *UserRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*models.User, error) {
	return r.find(ctx, func(u models.User) bool { return u.EmployeeID == employeeID })
}

// Create appends u. Uniqueness is the caller's concern.
func (r *UserRepository) Create(ctx context.Context, u models.User) error {
	if u.ID == "" {
		return errors.New("user id is empty")
	}
	users, err := r.store.Users(ctx)
	if err != nil {
		return err
	}
	return r.store.PutUsers(ctx, append(users, u))
}

// Update replaces the stored user with the same id.
// It reports false, writing nothing, when no such user exists.
func (r *UserRepository) Update(ctx context.Context, u models.User) (bool, error) {
	users, err := r.store.Users(ctx)
	if err != nil {
		return false, err
	}
	for i := range users {
		if users[i].ID == u.ID {
			users[i] = u
			return true, r.store.PutUsers(ctx, users)
		}
	}
	return false, nil
}

func (r *UserRepository) find(ctx context.Context, match func(models.User) bool) (*models.User, error) {
	users, err := r.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}
