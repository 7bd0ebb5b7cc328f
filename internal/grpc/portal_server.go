package grpcserver

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"employeePortal/internal/portal"
	"employeePortal/models"
	"employeePortal/service"
)

// PortalServer implements PortalServiceServer on top of portal.Portal.
type PortalServer struct {
	Portal *portal.Portal
}

var _ PortalServiceServer = (*PortalServer)(nil)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type statusRequest struct {
	Status models.RequestStatus `json:"status"`
}

type idRequest struct {
	ID string `json:"id"`
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

func (s *PortalServer) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req loginRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	out, err := s.Portal.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return encode(out)
}

func (s *PortalServer) Register(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req service.RegisterInput
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	out, err := s.Portal.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return encode(out)
}

func (s *PortalServer) Logout(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := s.Portal.Logout(ctx); err != nil {
		return nil, err
	}
	return encode(map[string]bool{"ok": true})
}

func (s *PortalServer) Me(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	u, err := s.Portal.Me(ctx)
	if err != nil {
		return nil, err
	}
	return encode(map[string]any{"user": u})
}

func (s *PortalServer) Options(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return encode(s.Portal.Options())
}

func (s *PortalServer) ListMyRequests(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	d, err := s.Portal.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	return encode(d)
}

func (s *PortalServer) SubmitLeave(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var d models.LeaveDetails
	if err := decode(in, &d); err != nil {
		return nil, err
	}
	r, err := s.Portal.SubmitLeave(ctx, d)
	if err != nil {
		return nil, err
	}
	return encode(map[string]any{"request": r})
}

func (s *PortalServer) SubmitOvertime(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var d models.OvertimeDetails
	if err := decode(in, &d); err != nil {
		return nil, err
	}
	r, err := s.Portal.SubmitOvertime(ctx, d)
	if err != nil {
		return nil, err
	}
	return encode(map[string]any{"request": r})
}

func (s *PortalServer) ListRequests(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req statusRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	reqs, err := s.Portal.Review(ctx, req.Status)
	if err != nil {
		return nil, err
	}
	return encode(map[string]any{"requests": reqs})
}

func (s *PortalServer) ApproveRequest(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.decide(ctx, in, models.RequestStatusApproved)
}

func (s *PortalServer) RejectRequest(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.decide(ctx, in, models.RequestStatusRejected)
}

func (s *PortalServer) decide(ctx context.Context, in *structpb.Struct, st models.RequestStatus) (*structpb.Struct, error) {
	var req idRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	d, err := s.Portal.Decide(ctx, req.ID, st)
	if err != nil {
		return nil, err
	}
	return encode(d)
}

func (s *PortalServer) ListUsers(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	users, err := s.Portal.Users(ctx)
	if err != nil {
		return nil, err
	}
	return encode(map[string]any{"users": users})
}

func (s *PortalServer) SeedDemoData(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	n, err := s.Portal.SeedDemoData(ctx)
	if err != nil {
		return nil, err
	}
	return encode(map[string]int{"usersAdded": n})
}

func (s *PortalServer) Reset(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req resetRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if err := s.Portal.Reset(ctx, req.Confirm); err != nil {
		return nil, err
	}
	return encode(map[string]bool{"ok": true})
}
