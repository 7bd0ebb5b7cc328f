package portal

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"employeePortal/internal/auth"
	"employeePortal/internal/logger"
	"employeePortal/internal/session"
	"employeePortal/models"
	"employeePortal/service"
)

// ErrConfirmationRequired is returned when a destructive action is not confirmed.
var ErrConfirmationRequired = errors.New("confirmation required")

// Portal implements the screen-level flows shared by the HTTP and gRPC
// transports. Callers put the token's principal in ctx with auth.WithPrincipal.
// Errors are gRPC status errors.
type Portal struct {
	svc      *service.Service
	sessions *session.Holder
	secret   string
	tokenTTL time.Duration
	log      *slog.Logger
}

// New creates a Portal. A nil logger discards output.
func New(svc *service.Service, sessions *session.Holder, secret string, tokenTTL time.Duration, log *slog.Logger) *Portal {
	if log == nil {
		log = logger.Discard()
	}
	return &Portal{svc: svc, sessions: sessions, secret: secret, tokenTTL: tokenTTL, log: log}
}

// Service exposes the domain service, e.g. for auth.RequireAdmin lookups.
func (p *Portal) Service() *service.Service { return p.svc }

// SignedIn is returned by login and registration.
type SignedIn struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Dashboard is an employee's own view.
type Dashboard struct {
	User     models.User      `json:"user"`
	Summary  service.Summary  `json:"summary"`
	Requests []models.Request `json:"requests"`
}

// Decision is the result of approving or rejecting a request.
type Decision struct {
	Request        models.Request `json:"request"`
	Owner          *models.User   `json:"owner,omitempty"`
	BalanceApplied bool           `json:"balanceApplied"`
}

// Options lists the values accepted for district and bank.
type Options struct {
	Districts []string `json:"districts"`
	Banks     []string `json:"banks"`
}

// Login signs in by email and password, replacing any current session.
func (p *Portal) Login(ctx context.Context, email, password string) (*SignedIn, error) {
	if email == "" || password == "" {
		return nil, status.Error(codes.InvalidArgument, "email and password are required")
	}
	u, err := p.svc.Authenticate(ctx, email, password)
	if err != nil {
		return nil, toStatus(err)
	}
	return p.startSession(ctx, *u)
}

// Register creates an employee account and signs it in.
func (p *Portal) Register(ctx context.Context, in service.RegisterInput) (*SignedIn, error) {
	u, err := p.svc.Register(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}
	return p.startSession(ctx, *u)
}

func (p *Portal) startSession(ctx context.Context, u models.User) (*SignedIn, error) {
	token, err := auth.IssueToken(p.secret, u, p.tokenTTL)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "issue token: %v", err)
	}
	if err := p.sessions.Login(ctx, u); err != nil {
		return nil, toStatus(err)
	}
	p.log.Info("signed in", "user_id", u.ID, "role", u.Role)
	return &SignedIn{Token: token, User: u.Public()}, nil
}

// Logout ends the caller's session.
func (p *Portal) Logout(ctx context.Context) error {
	u, err := p.signedIn(ctx)
	if err != nil {
		return err
	}
	if err := p.sessions.Logout(ctx); err != nil {
		return toStatus(err)
	}
	p.log.Info("signed out", "user_id", u.ID)
	return nil
}

// Me returns the caller with up-to-date balances.
func (p *Portal) Me(ctx context.Context) (*models.User, error) {
	if err := p.sessions.Refresh(ctx); err != nil {
		return nil, toStatus(err)
	}
	u, err := p.signedIn(ctx)
	if err != nil {
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

// Options returns the district and bank lists.
func (p *Portal) Options() Options {
	return Options{Districts: models.Districts, Banks: models.Banks}
}

// Dashboard returns the caller's requests, newest first, with counts.
func (p *Portal) Dashboard(ctx context.Context) (*Dashboard, error) {
	if err := p.sessions.Refresh(ctx); err != nil {
		return nil, toStatus(err)
	}
	u, err := p.signedIn(ctx)
	if err != nil {
		return nil, err
	}
	reqs, err := p.svc.ListRequestsByUser(ctx, u.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	sum, err := p.svc.Summarize(ctx, u.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &Dashboard{User: u.Public(), Summary: sum, Requests: reqs}, nil
}

// SubmitLeave files a leave request for the calling employee.
func (p *Portal) SubmitLeave(ctx context.Context, d models.LeaveDetails) (*models.Request, error) {
	u, err := p.signedInEmployee(ctx)
	if err != nil {
		return nil, err
	}
	if !models.IsKnownDistrict(d.District) {
		return nil, status.Errorf(codes.InvalidArgument, "unknown district %q", d.District)
	}
	r, err := p.svc.SubmitLeave(ctx, u, d)
	return r, toStatus(err)
}

// SubmitOvertime files an overtime request for the calling employee.
func (p *Portal) SubmitOvertime(ctx context.Context, d models.OvertimeDetails) (*models.Request, error) {
	u, err := p.signedInEmployee(ctx)
	if err != nil {
		return nil, err
	}
	if !models.IsKnownDistrict(d.District) {
		return nil, status.Errorf(codes.InvalidArgument, "unknown district %q", d.District)
	}
	if !models.IsKnownBank(d.Bank) {
		return nil, status.Errorf(codes.InvalidArgument, "unknown bank %q", d.Bank)
	}
	r, err := p.svc.SubmitOvertime(ctx, u, d)
	return r, toStatus(err)
}

// Review lists requests for the administrator, optionally by status.
func (p *Portal) Review(ctx context.Context, st models.RequestStatus) ([]models.Request, error) {
	if _, err := p.signedInAdmin(ctx); err != nil {
		return nil, err
	}
	reqs, err := p.svc.ListRequestsForReview(ctx, st)
	return reqs, toStatus(err)
}

// Decide approves or rejects a pending request.
func (p *Portal) Decide(ctx context.Context, id string, st models.RequestStatus) (*Decision, error) {
	if _, err := p.signedInAdmin(ctx); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "request id is required")
	}
	tr, err := p.svc.TransitionRequest(ctx, id, st)
	if err != nil {
		return nil, toStatus(err)
	}
	if tr.BalanceApplied {
		if err := p.sessions.Refresh(ctx); err != nil {
			return nil, toStatus(err)
		}
	}
	d := &Decision{Request: tr.Request, BalanceApplied: tr.BalanceApplied}
	if tr.Owner != nil {
		pub := tr.Owner.Public()
		d.Owner = &pub
	}
	return d, nil
}

// Users lists every account for the administrator.
func (p *Portal) Users(ctx context.Context) ([]models.User, error) {
	if _, err := p.signedInAdmin(ctx); err != nil {
		return nil, err
	}
	users, err := p.svc.ListUsers(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return out, nil
}

// SeedDemoData adds the demo accounts and requests.
func (p *Portal) SeedDemoData(ctx context.Context) (int, error) {
	if _, err := p.signedInAdmin(ctx); err != nil {
		return 0, err
	}
	n, err := p.svc.SeedDemoData(ctx)
	return n, toStatus(err)
}

// Reset wipes the store. It ends every session, including the caller's.
func (p *Portal) Reset(ctx context.Context, confirm bool) error {
	if _, err := p.signedInAdmin(ctx); err != nil {
		return err
	}
	if !confirm {
		return toStatus(ErrConfirmationRequired)
	}
	if err := p.svc.ResetAll(ctx); err != nil {
		return toStatus(err)
	}
	return toStatus(p.sessions.Refresh(ctx))
}

func (p *Portal) signedIn(ctx context.Context) (models.User, error) {
	pr, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return models.User{}, err
	}
	u, err := p.sessions.Authorize(pr)
	if err != nil {
		return models.User{}, toStatus(err)
	}
	return u, nil
}

func (p *Portal) signedInEmployee(ctx context.Context) (models.User, error) {
	if _, err := auth.RequireEmployee(ctx); err != nil {
		return models.User{}, err
	}
	return p.signedIn(ctx)
}

func (p *Portal) signedInAdmin(ctx context.Context) (models.User, error) {
	if _, err := auth.RequireAdmin(ctx, p.svc); err != nil {
		return models.User{}, err
	}
	return p.signedIn(ctx)
}

// toStatus maps domain errors onto gRPC status codes. Status errors pass through.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	var v *service.ValidationError
	switch {
	case errors.As(err, &v):
		return status.Error(codes.InvalidArgument, v.Message)
	case errors.Is(err, service.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, "Invalid email or password")
	case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrSessionMismatch):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrRequestNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyDecided), errors.Is(err, ErrConfirmationRequired):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Errorf(codes.Internal, "%v", err)
	}
}
