package repository

import (
	"context"

	"employeePortal/models"
)

// UserRepositoryI defines operations on User records.
type UserRepositoryI interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.User, error)
	Create(ctx context.Context, u models.User) error
	Update(ctx context.Context, u models.User) (bool, error)
}

// RequestRepositoryI defines operations on Request records.
type RequestRepositoryI interface {
	List(ctx context.Context) ([]models.Request, error)
	ListByUserID(ctx context.Context, userID string) ([]models.Request, error)
	GetByID(ctx context.Context, id string) (*models.Request, error)
	Create(ctx context.Context, reqs ...models.Request) error
	UpdateStatus(ctx context.Context, id string, status models.RequestStatus) (*models.Request, error)
}

// SessionStore persists the signed-in user.
type SessionStore interface {
	Session(ctx context.Context) (*models.User, error)
	SetSession(ctx context.Context, u *models.User) error
}

var (
	_ UserRepositoryI    = (*UserRepository)(nil)
	_ RequestRepositoryI = (*RequestRepository)(nil)
	_ SessionStore       = (*Store)(nil)
)
