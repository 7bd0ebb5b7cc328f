package service

import (
	"context"
	"fmt"
	"time"

	"employeePortal/internal/auth"
	"employeePortal/models"
	"employeePortal/repository"
)

const demoPassword = "123"

// ResetAll wipes users, requests and the session, then re-seeds the
// administrator. Session holders must be refreshed afterwards.
func (s *Service) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.log.Warn("store reset")
	return nil
}

// SeedDemoData adds the demo employees whose email is not yet registered
// and, if any was added, two example requests. It returns how many users
// were added.
func (s *Service) SeedDemoData(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added int
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		users := repository.NewUserRepository(tx)
		for _, u := range demoUsers() {
			existing, err := users.GetByEmail(ctx, u.Email)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			hash, err := auth.HashPassword(demoPassword)
			if err != nil {
				return fmt.Errorf("hash demo password: %w", err)
			}
			u.Password = hash
			if err := users.Create(ctx, u); err != nil {
				return err
			}
			added++
		}
		if added == 0 {
			return nil
		}
		return repository.NewRequestRepository(tx).Create(ctx, demoRequests(s.now())...)
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("demo data seeded", "users_added", added)
	return added, nil
}

func demoUsers() []models.User {
	joined := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	return []models.User{
		{
			ID:         "user-john",
			EmployeeID: "EMP_001",
			Name:       "John Doe",
			Email:      "john@company.com",
			Role:       models.RoleEmployee,
			OTHours:    12.5,
			LeaveDays:  10,
			JoinedAt:   joined("2023-01-15T09:00:00Z"),
		},
		{
			ID:         "user-jane",
			EmployeeID: "EMP_002",
			Name:       "Jane Smith",
			Email:      "jane@company.com",
			Role:       models.RoleEmployee,
			OTHours:    0,
			LeaveDays:  14,
			JoinedAt:   joined("2023-03-20T09:00:00Z"),
		},
		{
			ID:         "user-mike",
			EmployeeID: "EMP_003",
			Name:       "Mike Ross",
			Email:      "mike@company.com",
			Role:       models.RoleEmployee,
			OTHours:    5,
			LeaveDays:  13,
			JoinedAt:   joined("2023-06-10T09:00:00Z"),
		},
	}
}

func demoRequests(now time.Time) []models.Request {
	now = now.UTC()
	today := models.NewDate(now)
	return []models.Request{
		{
			ID:         "req-1",
			UserID:     "user-john",
			UserName:   "John Doe",
			EmployeeID: "EMP_001",
			Type:       models.RequestTypeLeave,
			Status:     models.RequestStatusApproved,
			Details: models.LeaveDetails{
				StartDate: today,
				EndDate:   models.NewDate(now.AddDate(0, 0, 2)),
				District:  "North",
				Reason:    "Family Holiday",
			},
			CreatedAt: now.AddDate(0, 0, -5),
		},
		{
			ID:         "req-2",
			UserID:     "user-jane",
			UserName:   "Jane Smith",
			EmployeeID: "EMP_002",
			Type:       models.RequestTypeOvertime,
			Status:     models.RequestStatusPending,
			Details: models.OvertimeDetails{
				Date:     today,
				Hours:    4,
				District: "Central",
				Bank:     "Chase",
				Reason:   "Server Migration",
			},
			CreatedAt: now,
		},
	}
}
