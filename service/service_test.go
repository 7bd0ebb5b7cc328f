package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"employeePortal/internal/testutil"
	"employeePortal/models"
	"employeePortal/repository"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *repository.Store) {
	t.Helper()
	store := repository.NewStore(testutil.OpenInMemoryDB(t, ""))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init store: %v", err)
	}
	svc := New(store, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc, store
}

func addEmployee(t *testing.T, svc *Service, id string, leaveDays, otHours float64) models.User {
	t.Helper()
	u := models.User{
		ID:         id,
		EmployeeID: "EMP_" + id,
		Name:       "Employee " + id,
		Email:      id + "@company.com",
		Role:       models.RoleEmployee,
		LeaveDays:  leaveDays,
		OTHours:    otHours,
		JoinedAt:   fixedNow,
	}
	if err := svc.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", id, err)
	}
	return u
}

func submitOvertime(t *testing.T, svc *Service, owner models.User, hours float64) *models.Request {
	t.Helper()
	r, err := svc.SubmitOvertime(context.Background(), owner, models.OvertimeDetails{
		Date: models.MustDate("2024-02-10"), Hours: hours, Bank: "HSBC", District: "East", Reason: "release",
	})
	if err != nil {
		t.Fatalf("submit overtime: %v", err)
	}
	return r
}

func submitLeave(t *testing.T, svc *Service, owner models.User, start, end string) *models.Request {
	t.Helper()
	r, err := svc.SubmitLeave(context.Background(), owner, models.LeaveDetails{
		StartDate: models.MustDate(start), EndDate: models.MustDate(end), District: "North", Reason: "trip",
	})
	if err != nil {
		t.Fatalf("submit leave: %v", err)
	}
	return r
}

func mustUser(t *testing.T, svc *Service, id string) models.User {
	t.Helper()
	u, err := svc.GetUser(context.Background(), id)
	if err != nil {
		t.Fatalf("get user %s: %v", id, err)
	}
	return *u
}

func registerInput(email, employeeID string) RegisterInput {
	return RegisterInput{Name: "Alice", EmployeeID: employeeID, Email: email, Password: "pw", ConfirmPassword: "pw"}
}

func TestRegister_CreatesEmployeeWithDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	u, err := svc.Register(context.Background(), registerInput("alice@company.com", "EMP_9"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != models.RoleEmployee || u.LeaveDays != models.DefaultLeaveDays || u.OTHours != 0 {
		t.Fatalf("unexpected defaults: %+v", u)
	}
	if u.ID == "" || u.Password == "pw" || !u.JoinedAt.Equal(fixedNow) {
		t.Fatalf("unexpected identity fields: %+v", u)
	}
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, registerInput("alice@company.com", "EMP_1")); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, registerInput("alice@company.com", "EMP_2"))
	var v *ValidationError
	if !errors.As(err, &v) || v.Field != "email" {
		t.Fatalf("expected email validation error, got %v", err)
	}
	users, _ := svc.ListUsers(ctx)
	if len(users) != 2 {
		t.Fatalf("duplicate registration appended a record: %d users", len(users))
	}
}

func TestRegister_DuplicateEmployeeIDRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, registerInput("a@company.com", "EMP_1")); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, registerInput("b@company.com", "EMP_1"))
	var v *ValidationError
	if !errors.As(err, &v) || v.Field != "employeeId" {
		t.Fatalf("expected employee id validation error, got %v", err)
	}
	users, _ := svc.ListUsers(ctx)
	if len(users) != 2 {
		t.Fatalf("duplicate registration appended a record: %d users", len(users))
	}
}

func TestRegister_PasswordMismatchAndRequiredFields(t *testing.T) {
	svc, _ := newTestService(t)
	in := registerInput("a@company.com", "EMP_1")
	in.ConfirmPassword = "other"
	if _, err := svc.Register(context.Background(), in); !IsValidation(err) {
		t.Fatalf("expected validation error for mismatch, got %v", err)
	}
	in = registerInput("   ", "EMP_1")
	if _, err := svc.Register(context.Background(), in); !IsValidation(err) {
		t.Fatalf("expected validation error for blank email, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, registerInput("alice@company.com", "EMP_1"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	u, err := svc.Authenticate(ctx, "alice@company.com", "pw")
	if err != nil || u == nil || u.ID != reg.ID {
		t.Fatalf("authenticate: %v %+v", err, u)
	}
	u, err = svc.Authenticate(ctx, "alice@company.com", "nope")
	if !errors.Is(err, ErrInvalidCredentials) || u != nil {
		t.Fatalf("expected invalid credentials, got %v %+v", err, u)
	}
	admin, err := svc.Authenticate(ctx, models.AdminEmail, models.AdminPassword)
	if err != nil || !admin.IsAdmin() {
		t.Fatalf("seeded admin login: %v %+v", err, admin)
	}
}

func TestCreateRequest_ForcesPending(t *testing.T) {
	svc, _ := newTestService(t)
	owner := addEmployee(t, svc, "u1", 14, 0)
	r, err := svc.CreateRequest(context.Background(), models.Request{
		UserID: owner.ID,
		Status: models.RequestStatusApproved,
		Details: models.OvertimeDetails{
			Date: models.MustDate("2024-02-10"), Hours: 2, District: "East",
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.Status != models.RequestStatusPending || r.Type != models.RequestTypeOvertime || r.ID == "" {
		t.Fatalf("unexpected request: %+v", r)
	}
	stored, _ := svc.ListRequests(context.Background())
	if len(stored) != 1 || stored[0].Status != models.RequestStatusPending {
		t.Fatalf("stored request not pending: %+v", stored)
	}
}

func TestCreateRequest_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	owner := addEmployee(t, svc, "u1", 14, 0)
	ctx := context.Background()

	if _, err := svc.CreateRequest(ctx, models.Request{UserID: owner.ID}); !IsValidation(err) {
		t.Fatalf("expected validation error for missing details, got %v", err)
	}
	_, err := svc.CreateRequest(ctx, models.Request{
		UserID:  owner.ID,
		Type:    models.RequestTypeLeave,
		Details: models.OvertimeDetails{Date: models.MustDate("2024-02-10"), Hours: 1, District: "East"},
	})
	if !IsValidation(err) {
		t.Fatalf("expected validation error for type mismatch, got %v", err)
	}
	_, err = svc.SubmitOvertime(ctx, owner, models.OvertimeDetails{Date: models.MustDate("2024-02-10"), Hours: -1, District: "East"})
	if !IsValidation(err) {
		t.Fatalf("expected validation error for negative hours, got %v", err)
	}
	if all, _ := svc.ListRequests(ctx); len(all) != 0 {
		t.Fatalf("invalid requests were stored: %+v", all)
	}
}

func TestApproveOvertime_CreditsOnlyOwner(t *testing.T) {
	svc, _ := newTestService(t)
	owner := addEmployee(t, svc, "u1", 14, 1.5)
	other := addEmployee(t, svc, "u2", 14, 3)
	r := submitOvertime(t, svc, owner, 4)

	tr, err := svc.TransitionRequest(context.Background(), r.ID, models.RequestStatusApproved)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !tr.BalanceApplied || tr.Owner == nil || tr.Owner.OTHours != 5.5 {
		t.Fatalf("unexpected transition: %+v", tr)
	}
	if got := mustUser(t, svc, owner.ID); got.OTHours != 5.5 || got.LeaveDays != 14 {
		t.Fatalf("owner balances: %+v", got)
	}
	if got := mustUser(t, svc, other.ID); got.OTHours != 3 || got.LeaveDays != 14 {
		t.Fatalf("other user's balance changed: %+v", got)
	}
}

func TestApproveLeave_DeductsInclusiveDays(t *testing.T) {
	svc, _ := newTestService(t)
	owner := addEmployee(t, svc, "u1", 14, 0)
	r := submitLeave(t, svc, owner, "2024-01-01", "2024-01-03")

	if _, err := svc.TransitionRequest(context.Background(), r.ID, models.RequestStatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got := mustUser(t, svc, owner.ID); got.LeaveDays != 11 {
		t.Fatalf("leave days = %v, want 11", got.LeaveDays)
	}
}

func TestApproveLeave_FlooredAtZero(t *testing.T) {
	svc, _ := newTestService(t)
	owner := addEmployee(t, svc, "u1", 2, 0)
	r := submitLeave(t, svc, owner, "2024-01-01", "2024-01-03")

	if _, err := svc.TransitionRequest(context.Background(), r.ID, models.RequestStatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got := mustUser(t, svc, owner.ID); got.LeaveDays != 0 {
		t.Fatalf("leave days = %v, want 0", got.LeaveDays)
	}
}

func TestReject_ChangesNoBalance(t *testing.T) {
	svc, _ := newTestService(t)
	owner := addEmployee(t, svc, "u1", 14, 2)
	leave := submitLeave(t, svc, owner, "2024-01-01", "2024-01-05")
	ot := submitOvertime(t, svc, owner, 8)
	ctx := context.Background()

	for _, id := range []string{leave.ID, ot.ID} {
		tr, err := svc.TransitionRequest(ctx, id, models.RequestStatusRejected)
		if err != nil {
			t.Fatalf("reject %s: %v", id, err)
		}
		if tr.BalanceApplied || tr.Request.Status != models.RequestStatusRejected {
			t.Fatalf("unexpected transition: %+v", tr)
		}
	}
	if got := mustUser(t, svc, owner.ID); got.LeaveDays != 14 || got.OTHours != 2 {
		t.Fatalf("balances changed on reject: %+v", got)
	}
}

func TestTransition_IsTerminal(t *testing.T) {
	svc, _ := newTestService(t)
	owner := addEmployee(t, svc, "u1", 14, 0)
	r := submitOvertime(t, svc, owner, 4)
	ctx := context.Background()

	if _, err := svc.TransitionRequest(ctx, r.ID, models.RequestStatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := svc.TransitionRequest(ctx, r.ID, models.RequestStatusRejected); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided on reject after approve, got %v", err)
	}
	if _, err := svc.TransitionRequest(ctx, r.ID, models.RequestStatusApproved); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided on second approve, got %v", err)
	}
	if got := mustUser(t, svc, owner.ID); got.OTHours != 4 {
		t.Fatalf("balance applied more than once: %+v", got)
	}
	reqs, _ := svc.ListRequests(ctx)
	if reqs[0].Status != models.RequestStatusApproved {
		t.Fatalf("status reversed: %+v", reqs[0])
	}
}

func TestTransition_UnknownAndInvalid(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.TransitionRequest(ctx, "missing", models.RequestStatusApproved); !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
	if _, err := svc.TransitionRequest(ctx, "missing", models.RequestStatusPending); !IsValidation(err) {
		t.Fatalf("expected validation error for PENDING target, got %v", err)
	}
}

func TestApprove_MissingOwnerStillPersistsStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ghost := models.User{ID: "ghost", Name: "Ghost", EmployeeID: "EMP_X"}
	r := submitOvertime(t, svc, ghost, 4)

	tr, err := svc.TransitionRequest(context.Background(), r.ID, models.RequestStatusApproved)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if tr.BalanceApplied || tr.Owner != nil {
		t.Fatalf("no balance should apply without an owner: %+v", tr)
	}
	reqs, _ := svc.ListRequests(context.Background())
	if reqs[0].Status != models.RequestStatusApproved {
		t.Fatalf("status not persisted: %+v", reqs[0])
	}
}

func TestApprove_RefreshesSessionCopy(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	owner := addEmployee(t, svc, "u1", 14, 0)
	if err := store.SetSession(ctx, &owner); err != nil {
		t.Fatalf("set session: %v", err)
	}
	r := submitOvertime(t, svc, owner, 3)
	if _, err := svc.TransitionRequest(ctx, r.ID, models.RequestStatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	sess, err := store.Session(ctx)
	if err != nil || sess == nil || sess.OTHours != 3 {
		t.Fatalf("session copy not refreshed: %v %+v", err, sess)
	}
}

func TestUpdateUser_SessionAndNotFound(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	a := addEmployee(t, svc, "a", 14, 0)
	b := addEmployee(t, svc, "b", 14, 0)
	if err := store.SetSession(ctx, &a); err != nil {
		t.Fatalf("set session: %v", err)
	}

	b.Name = "Renamed"
	if err := svc.UpdateUser(ctx, b); err != nil {
		t.Fatalf("update b: %v", err)
	}
	if sess, _ := store.Session(ctx); sess.ID != "a" {
		t.Fatalf("session switched to another user: %+v", sess)
	}

	a.LeaveDays = 7
	if err := svc.UpdateUser(ctx, a); err != nil {
		t.Fatalf("update a: %v", err)
	}
	if sess, _ := store.Session(ctx); sess.LeaveDays != 7 {
		t.Fatalf("session copy not refreshed: %+v", sess)
	}

	if err := svc.UpdateUser(ctx, models.User{ID: "ghost"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if users, _ := svc.ListUsers(ctx); len(users) != 3 {
		t.Fatalf("unknown update changed users: %d", len(users))
	}
}

func TestResetAll(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	owner := addEmployee(t, svc, "u1", 14, 0)
	submitOvertime(t, svc, owner, 2)
	if err := store.SetSession(ctx, &owner); err != nil {
		t.Fatalf("set session: %v", err)
	}

	if err := svc.ResetAll(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	users, _ := svc.ListUsers(ctx)
	reqs, _ := svc.ListRequests(ctx)
	if len(users) != 1 || !users[0].IsAdmin() {
		t.Fatalf("expected only the admin, got %+v", users)
	}
	if len(reqs) != 0 {
		t.Fatalf("expected no requests, got %+v", reqs)
	}
	if sess, _ := store.Session(ctx); sess != nil {
		t.Fatalf("session survived reset: %+v", sess)
	}
}

func TestSeedDemoData_Idempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	added, err := svc.SeedDemoData(ctx)
	if err != nil || added != 3 {
		t.Fatalf("first seed: added=%d err=%v", added, err)
	}
	added, err = svc.SeedDemoData(ctx)
	if err != nil || added != 0 {
		t.Fatalf("second seed: added=%d err=%v", added, err)
	}

	users, _ := svc.ListUsers(ctx)
	reqs, _ := svc.ListRequests(ctx)
	if len(users) != 4 {
		t.Fatalf("expected admin + 3 demo users, got %d", len(users))
	}
	if len(reqs) != 2 {
		t.Fatalf("expected 2 demo requests, got %d", len(reqs))
	}
	if reqs[0].Status != models.RequestStatusApproved || reqs[1].Status != models.RequestStatusPending {
		t.Fatalf("unexpected demo statuses: %s %s", reqs[0].Status, reqs[1].Status)
	}
	if _, err := svc.Authenticate(ctx, "john@company.com", demoPassword); err != nil {
		t.Fatalf("demo user login: %v", err)
	}
}

func TestSeedDemoData_SkipsExistingEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{
		Name: "John", EmployeeID: "EMP_900", Email: "john@company.com", Password: "x", ConfirmPassword: "x",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	added, err := svc.SeedDemoData(ctx)
	if err != nil || added != 2 {
		t.Fatalf("seed: added=%d err=%v", added, err)
	}
	users, _ := svc.ListUsers(ctx)
	if len(users) != 4 {
		t.Fatalf("expected admin + registered john + 2 demo users, got %d", len(users))
	}
}

func TestReviewOrderingAndSummary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner := addEmployee(t, svc, "u1", 14, 0)

	times := []time.Time{fixedNow.Add(-3 * time.Hour), fixedNow.Add(-2 * time.Hour), fixedNow.Add(-1 * time.Hour)}
	var ids []string
	for _, at := range times {
		svc.now = func() time.Time { return at }
		ids = append(ids, submitOvertime(t, svc, owner, 1).ID)
	}
	// Oldest gets decided; newer two stay pending.
	if _, err := svc.TransitionRequest(ctx, ids[0], models.RequestStatusRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}

	queue, err := svc.ListRequestsForReview(ctx, "")
	if err != nil {
		t.Fatalf("review list: %v", err)
	}
	if len(queue) != 3 || queue[0].ID != ids[2] || queue[1].ID != ids[1] || queue[2].ID != ids[0] {
		t.Fatalf("unexpected review order: %v %v %v", queue[0].ID, queue[1].ID, queue[2].ID)
	}
	rejected, err := svc.ListRequestsForReview(ctx, models.RequestStatusRejected)
	if err != nil || len(rejected) != 1 || rejected[0].ID != ids[0] {
		t.Fatalf("status filter: %v %+v", err, rejected)
	}
	if _, err := svc.ListRequestsForReview(ctx, "LOST"); !IsValidation(err) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}

	mine, err := svc.ListRequestsByUser(ctx, owner.ID)
	if err != nil || len(mine) != 3 || mine[0].ID != ids[2] {
		t.Fatalf("dashboard list: %v %+v", err, mine)
	}
	sum, err := svc.Summarize(ctx, owner.ID)
	if err != nil || sum != (Summary{Pending: 2, Rejected: 1}) {
		t.Fatalf("summary: %v %+v", err, sum)
	}
}
