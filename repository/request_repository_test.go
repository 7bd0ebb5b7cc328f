package repository

import (
	"context"
	"testing"
	"time"

	"employeePortal/internal/testutil"
	"employeePortal/models"
)

func leaveRequest(id, userID string) models.Request {
	return models.Request{
		ID:     id,
		UserID: userID,
		Type:   models.RequestTypeLeave,
		Status: models.RequestStatusPending,
		Details: models.LeaveDetails{
			StartDate: models.MustDate("2024-01-01"),
			EndDate:   models.MustDate("2024-01-02"),
			District:  "North",
			Reason:    "rest",
		},
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRequestRepository_CreateListAndStatus(t *testing.T) {
	repo := NewRequestRepository(NewStore(testutil.OpenInMemoryDB(t, "")))
	ctx := context.Background()

	if err := repo.Create(ctx, leaveRequest("r1", "u1"), leaveRequest("r2", "u2")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, leaveRequest("r3", "u1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("list: %v len=%d", err, len(all))
	}
	mine, err := repo.ListByUserID(ctx, "u1")
	if err != nil || len(mine) != 2 || mine[0].ID != "r1" || mine[1].ID != "r3" {
		t.Fatalf("list by user: %v %+v", err, mine)
	}

	got, err := repo.GetByID(ctx, "r2")
	if err != nil || got == nil {
		t.Fatalf("get: %v %+v", err, got)
	}
	if _, ok := got.Leave(); !ok {
		t.Fatalf("details variant lost in storage: %T", got.Details)
	}

	upd, err := repo.UpdateStatus(ctx, "r2", models.RequestStatusRejected)
	if err != nil || upd == nil || upd.Status != models.RequestStatusRejected {
		t.Fatalf("update status: %v %+v", err, upd)
	}
	got, _ = repo.GetByID(ctx, "r2")
	if got.Status != models.RequestStatusRejected {
		t.Fatalf("status not persisted: %+v", got)
	}

	missing, err := repo.UpdateStatus(ctx, "nope", models.RequestStatusApproved)
	if err != nil || missing != nil {
		t.Fatalf("expected nil for unknown request: %v %+v", err, missing)
	}
}
