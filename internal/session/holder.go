package session

import (
	"context"
	"errors"
	"sync"

	"employeePortal/internal/auth"
	"employeePortal/models"
	"employeePortal/repository"
)

var (
	// ErrNoSession means nobody is signed in.
	ErrNoSession = errors.New("no active session")
	// ErrSessionMismatch means a token belongs to someone other than the signed-in user.
	ErrSessionMismatch = errors.New("token does not belong to the active session")
)

// Holder keeps the signed-in user in memory and mirrors it to the store
// so the session survives restarts.
type Holder struct {
	store   repository.SessionStore
	mu      sync.RWMutex
	current *models.User
}

// Open creates a Holder initialized from the persisted session.
func Open(ctx context.Context, store repository.SessionStore) (*Holder, error) {
	h := &Holder{store: store}
	if err := h.Refresh(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// Current returns the signed-in user.
func (h *Holder) Current() (models.User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return models.User{}, false
	}
	return *h.current, true
}

// Login makes u the signed-in user, replacing any previous one.
func (h *Holder) Login(ctx context.Context, u models.User) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.store.SetSession(ctx, &u); err != nil {
		return err
	}
	h.current = &u
	return nil
}

// Logout clears the signed-in user in memory and in the store.
func (h *Holder) Logout(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.store.SetSession(ctx, nil); err != nil {
		return err
	}
	h.current = nil
	return nil
}

// Refresh re-reads the persisted session, picking up balance changes
// written by the service and the cleared session after a reset.
func (h *Holder) Refresh(ctx context.Context) error {
	u, err := h.store.Session(ctx)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.current = u
	h.mu.Unlock()
	return nil
}

// Authorize returns the signed-in user when p belongs to it.
func (h *Holder) Authorize(p *auth.Principal) (models.User, error) {
	u, ok := h.Current()
	if !ok {
		return models.User{}, ErrNoSession
	}
	if p == nil || p.UserID != u.ID || p.Role != u.Role {
		return models.User{}, ErrSessionMismatch
	}
	return u, nil
}
