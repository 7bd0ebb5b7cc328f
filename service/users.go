package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"employeePortal/internal/auth"
	"employeePortal/models"
	"employeePortal/repository"
)

// RegisterInput is the self-registration form.
type RegisterInput struct {
	Name            string `json:"name"`
	EmployeeID      string `json:"employeeId"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ListUsers returns every user in insertion order.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return repository.NewUserRepository(s.store).List(ctx)
}

// GetUser returns the user with id or ErrUserNotFound.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.LookupUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// LookupUser returns the user with id, or nil when absent.
func (s *Service) LookupUser(ctx context.Context, id string) (*models.User, error) {
	return repository.NewUserRepository(s.store).GetByID(ctx, id)
}

// CreateUser appends u as is. Uniqueness of email and employee id must
// already have been checked; Register does that.
func (s *Service) CreateUser(ctx context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return repository.NewUserRepository(s.store).Create(ctx, u)
}

// UpdateUser replaces the stored user with the same id and refreshes the
// persisted session copy when u is signed in. Unknown ids yield
// ErrUserNotFound and leave the store untouched.
func (s *Service) UpdateUser(ctx context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.InTx(ctx, func(tx *repository.Store) error {
		return updateUser(ctx, tx, u)
	})
}

func updateUser(ctx context.Context, tx *repository.Store, u models.User) error {
	found, err := repository.NewUserRepository(tx).Update(ctx, u)
	if err != nil {
		return err
	}
	if !found {
		return ErrUserNotFound
	}
	current, err := tx.Session(ctx)
	if err != nil {
		return err
	}
	if current != nil && current.ID == u.ID {
		return tx.SetSession(ctx, &u)
	}
	return nil
}

// Register validates the form and creates an EMPLOYEE with default balances.
// Any *ValidationError means nothing was written.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	in.Email = strings.TrimSpace(in.Email)
	switch {
	case in.Name == "":
		return nil, invalid("name", "Name is required")
	case in.EmployeeID == "":
		return nil, invalid("employeeId", "Employee ID is required")
	case in.Email == "":
		return nil, invalid("email", "Email is required")
	case in.Password == "":
		return nil, invalid("password", "Password is required")
	case in.Password != in.ConfirmPassword:
		return nil, invalid("confirmPassword", "Passwords do not match")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users := repository.NewUserRepository(s.store)
	if u, err := users.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if u != nil {
		return nil, invalid("email", "Email already registered")
	}
	if u, err := users.GetByEmployeeID(ctx, in.EmployeeID); err != nil {
		return nil, err
	} else if u != nil {
		return nil, invalid("employeeId", "Employee ID already registered")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := models.User{
		ID:         uuid.NewString(),
		EmployeeID: in.EmployeeID,
		Name:       in.Name,
		Email:      in.Email,
		Password:   hash,
		Role:       models.RoleEmployee,
		OTHours:    0,
		LeaveDays:  models.DefaultLeaveDays,
		JoinedAt:   s.now().UTC(),
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", "user_id", u.ID, "employee_id", u.EmployeeID)
	return &u, nil
}

// Authenticate scans users for an exact email whose password matches.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email != email {
			continue
		}
		err := auth.CheckPassword(u.Password, password)
		if err == nil {
			found := u
			return &found, nil
		}
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.log.Warn("unreadable password hash", "user_id", u.ID, "error", err)
		}
	}
	return nil, ErrInvalidCredentials
}
