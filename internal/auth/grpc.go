package auth

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"employeePortal/models"
)

// UserLookup resolves a user by id; nil means not found.
type UserLookup interface {
	LookupUser(ctx context.Context, id string) (*models.User, error)
}

// NewUnaryAuthInterceptor returns a gRPC unary interceptor that extracts and validates
// a Bearer JWT from incoming metadata and injects the Principal into the context.
// Methods listed in allowUnauthenticated bypass authentication (login, health checks).
func NewUnaryAuthInterceptor(secret string, allowUnauthenticated ...string) grpc.UnaryServerInterceptor {
	allow := make(map[string]struct{}, len(allowUnauthenticated))
	for _, m := range allowUnauthenticated {
		allow[strings.TrimSpace(m)] = struct{}{}
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := allow[info.FullMethod]; ok {
			return handler(ctx, req)
		}
		p, err := ParseFromMD(ctx, secret)
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "auth error: %v", err)
		}
		return handler(WithPrincipal(ctx, p), req)
	}
}

// RequirePrincipal ensures a principal is present in context.
func RequirePrincipal(ctx context.Context) (*Principal, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing principal")
	}
	return p, nil
}

// RequireRole ensures the principal has the given role.
func RequireRole(ctx context.Context, role models.Role) (*Principal, error) {
	p, err := RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if p.Role != role {
		return nil, status.Errorf(codes.PermissionDenied, "only %s can perform this action", strings.ToLower(string(role)))
	}
	return p, nil
}

// RequireEmployee ensures the caller is an employee.
func RequireEmployee(ctx context.Context) (*Principal, error) {
	return RequireRole(ctx, models.RoleEmployee)
}

// RequireAdmin ensures the caller is an admin principal AND that the stored
// user still exists with the ADMIN role, so a stale token cannot outlive a reset.
func RequireAdmin(ctx context.Context, users UserLookup) (*Principal, error) {
	p, err := RequireRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if users == nil {
		return nil, status.Error(codes.Internal, "user lookup not configured")
	}
	u, err := users.LookupUser(ctx, p.UserID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get user: %v", err)
	}
	if u == nil || !u.IsAdmin() {
		return nil, status.Error(codes.PermissionDenied, "only admin can perform this action")
	}
	return p, nil
}
