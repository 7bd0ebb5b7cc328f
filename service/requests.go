package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"employeePortal/internal/calendar"
	"employeePortal/models"
	"employeePortal/repository"
)

// Summary counts one employee's requests per status.
type Summary struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// Transition is the outcome of a review decision.
type Transition struct {
	Request models.Request
	// Owner is the owner after the balance change; nil when nothing was applied.
	Owner          *models.User
	BalanceApplied bool
}

// ListRequests returns every request in insertion order.
func (s *Service) ListRequests(ctx context.Context) ([]models.Request, error) {
	return repository.NewRequestRepository(s.store).List(ctx)
}

// ListRequestsByUser returns one user's requests, newest first.
func (s *Service) ListRequestsByUser(ctx context.Context, userID string) ([]models.Request, error) {
	reqs, err := repository.NewRequestRepository(s.store).ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
	return reqs, nil
}

// ListRequestsForReview returns requests for the review queue: pending
// first, then newest first. An empty status returns all statuses.
func (s *Service) ListRequestsForReview(ctx context.Context, status models.RequestStatus) ([]models.Request, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("status", fmt.Sprintf("unknown status %q", status))
	}
	all, err := s.ListRequests(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Request, 0, len(all))
	for _, r := range all {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Status == models.RequestStatusPending, out[j].Status == models.RequestStatusPending
		if pi != pj {
			return pi
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Summarize counts the requests of userID per status.
func (s *Service) Summarize(ctx context.Context, userID string) (Summary, error) {
	reqs, err := repository.NewRequestRepository(s.store).ListByUserID(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	var sum Summary
	for _, r := range reqs {
		switch r.Status {
		case models.RequestStatusPending:
			sum.Pending++
		case models.RequestStatusApproved:
			sum.Approved++
		case models.RequestStatusRejected:
			sum.Rejected++
		}
	}
	return sum, nil
}

// CreateRequest validates r and appends it as PENDING, whatever status the
// caller set. Missing id and creation time are filled in.
func (s *Service) CreateRequest(ctx context.Context, r models.Request) (*models.Request, error) {
	if r.UserID == "" {
		return nil, invalid("userId", "owner is required")
	}
	if r.Details == nil {
		return nil, invalid("details", "details are required")
	}
	if r.Type != "" && r.Type != r.Details.RequestType() {
		return nil, invalid("type", fmt.Sprintf("type %s does not match %s details", r.Type, r.Details.RequestType()))
	}
	if err := r.Details.Validate(); err != nil {
		return nil, invalid("details", err.Error())
	}
	r.Type = r.Details.RequestType()
	r.Status = models.RequestStatusPending
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := repository.NewRequestRepository(s.store).Create(ctx, r); err != nil {
		return nil, err
	}
	s.log.Info("request submitted", "request_id", r.ID, "type", r.Type, "user_id", r.UserID)
	return &r, nil
}

// SubmitLeave files a leave request for owner.
func (s *Service) SubmitLeave(ctx context.Context, owner models.User, d models.LeaveDetails) (*models.Request, error) {
	return s.CreateRequest(ctx, requestFor(owner, d))
}

// SubmitOvertime files an overtime request for owner.
func (s *Service) SubmitOvertime(ctx context.Context, owner models.User, d models.OvertimeDetails) (*models.Request, error) {
	return s.CreateRequest(ctx, requestFor(owner, d))
}

func requestFor(owner models.User, d models.Details) models.Request {
	return models.Request{
		UserID:     owner.ID,
		UserName:   owner.Name,
		EmployeeID: owner.EmployeeID,
		Type:       d.RequestType(),
		Details:    d,
	}
}

// TransitionRequest moves a PENDING request to APPROVED or REJECTED.
// Approval credits overtime hours or deducts leave days from the owner in
// the same transaction. A missing owner leaves balances alone but the
// status change still persists. Unknown ids return ErrRequestNotFound and
// decided requests return ErrAlreadyDecided; neither writes anything.
func (s *Service) TransitionRequest(ctx context.Context, id string, status models.RequestStatus) (*Transition, error) {
	if !status.Terminal() {
		return nil, invalid("status", fmt.Sprintf("cannot transition to %q", status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out Transition
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		reqs := repository.NewRequestRepository(tx)
		cur, err := reqs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return ErrRequestNotFound
		}
		if cur.Status.Terminal() {
			return fmt.Errorf("%w: %s is %s", ErrAlreadyDecided, id, cur.Status)
		}
		updated, err := reqs.UpdateStatus(ctx, id, status)
		if err != nil {
			return err
		}
		out.Request = *updated
		if status != models.RequestStatusApproved {
			return nil
		}
		return s.creditApproval(ctx, tx, repository.NewUserRepository(tx), &out)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("request decided",
		"request_id", id,
		"status", status,
		"balance_applied", out.BalanceApplied)
	return &out, nil
}

func (s *Service) creditApproval(ctx context.Context, tx *repository.Store, users repository.UserRepositoryI, out *Transition) error {
	owner, err := users.GetByID(ctx, out.Request.UserID)
	if err != nil {
		return err
	}
	if owner == nil {
		s.log.Warn("approved request has no owner", "request_id", out.Request.ID, "user_id", out.Request.UserID)
		return nil
	}
	if !applyApproval(owner, out.Request) {
		return nil
	}
	if err := updateUser(ctx, tx, *owner); err != nil {
		return err
	}
	out.Owner = owner
	out.BalanceApplied = true
	return nil
}

// applyApproval adjusts u's balances for an approved request and reports
// whether anything applied.
func applyApproval(u *models.User, r models.Request) bool {
	switch d := r.Details.(type) {
	case models.OvertimeDetails:
		if d.Hours <= 0 {
			return false
		}
		u.OTHours += d.Hours
		return true
	case models.LeaveDetails:
		if d.StartDate.IsZero() || d.EndDate.IsZero() {
			return false
		}
		days := calendar.InclusiveDays(d.StartDate.Time, d.EndDate.Time)
		u.LeaveDays = calendar.DeductDays(u.LeaveDays, days)
		return true
	default:
		return false
	}
}
