package repository

import (
	"context"
	"errors"

	"employeePortal/models"
)

// RequestRepository reads and writes the requests collection of a Store.
type RequestRepository struct {
	store *Store
}

func NewRequestRepository(store *Store) *RequestRepository {
	return &RequestRepository{store: store}
}

// List returns all requests in insertion order.
func (r *RequestRepository) List(ctx context.Context) ([]models.Request, error) {
	return r.store.Requests(ctx)
}

// ListByUserID returns the requests owned by userID in insertion order.
func (r *RequestRepository) ListByUserID(ctx context.Context, userID string) ([]models.Request, error) {
	all, err := r.store.Requests(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Request, 0, len(all))
	for _, req := range all {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	return out, nil
}

// GetByID returns the request with id, or nil when absent.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*models.Request, error) {
	all, err := r.store.Requests(ctx)
	if err != nil {
		return nil, err
	}
	for _, req := range all {
		if req.ID == id {
			found := req
			return &found, nil
		}
	}
	return nil, nil
}

// Create appends one or more requests in a single write.
func (r *RequestRepository) Create(ctx context.Context, reqs ...models.Request) error {
	for _, req := range reqs {
		if req.ID == "" {
			return errors.New("request id is empty")
		}
	}
	all, err := r.store.Requests(ctx)
	if err != nil {
		return err
	}
	return r.store.PutRequests(ctx, append(all, reqs...))
}

// UpdateStatus sets the status of the request with id and returns the
// updated record, or nil when no such request exists.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, status models.RequestStatus) (*models.Request, error) {
	all, err := r.store.Requests(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID != id {
			continue
		}
		all[i].Status = status
		if err := r.store.PutRequests(ctx, all); err != nil {
			return nil, err
		}
		updated := all[i]
		return &updated, nil
	}
	return nil, nil
}
