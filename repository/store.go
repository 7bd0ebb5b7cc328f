package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"employeePortal/internal/auth"
	"employeePortal/models"
)

// ErrCorrupt marks a persisted collection that no longer decodes.
var ErrCorrupt = errors.New("corrupt collection")

// Collection names one key of the kv_store table.
type Collection string

const (
	CollectionUsers    Collection = "users"
	CollectionRequests Collection = "requests"
	CollectionSession  Collection = "current_session"
)

// AllCollections lists every key the portal owns, in reset order.
var AllCollections = []Collection{CollectionUsers, CollectionRequests, CollectionSession}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the portal's key-value record store. Each collection is one row
// holding JSON text; a put replaces the whole collection.
type Store struct {
	db           *sql.DB // nil when bound to a transaction
	q            querier
	hashPassword func(string) (string, error)
	now          func() time.Time
}

// NewStore creates a Store over an opened portal database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db, hashPassword: auth.HashPassword, now: time.Now}
}

// InTx runs fn with a Store bound to a single transaction. Nested calls
// reuse the outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	bound := &Store{q: tx, hashPassword: s.hashPassword, now: s.now}
	if err := fn(bound); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Get decodes collection c into out. It reports false when the key is absent.
func (s *Store) Get(ctx context.Context, c Collection, out any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var raw string
	err := s.q.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, string(c)).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("get %s: %w", c, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return true, fmt.Errorf("%w %s: %v", ErrCorrupt, c, err)
	}
	return true, nil
}

// Put replaces collection c with the JSON encoding of v.
func (s *Store) Put(ctx context.Context, c Collection, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err = s.q.ExecContext(ctx, `
INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, string(c), string(b))
	if err != nil {
		return fmt.Errorf("put %s: %w", c, err)
	}
	return nil
}

// Delete removes collection c; absent keys are ignored.
func (s *Store) Delete(ctx context.Context, c Collection) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if _, err := s.q.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, string(c)); err != nil {
		return fmt.Errorf("delete %s: %w", c, err)
	}
	return nil
}

// Users returns all users in insertion order, seeding the administrator
// when the collection has never been written.
func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	found, err := s.Get(ctx, CollectionUsers, &users)
	if err != nil {
		return nil, err
	}
	if !found {
		return s.seedUsers(ctx)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// PutUsers replaces the users collection.
func (s *Store) PutUsers(ctx context.Context, users []models.User) error {
	if users == nil {
		users = []models.User{}
	}
	return s.Put(ctx, CollectionUsers, users)
}

// Requests returns all requests in insertion order, seeding an empty
// collection when it has never been written.
func (s *Store) Requests(ctx context.Context) ([]models.Request, error) {
	var reqs []models.Request
	found, err := s.Get(ctx, CollectionRequests, &reqs)
	if err != nil {
		return nil, err
	}
	if !found {
		reqs = []models.Request{}
		if err := s.Put(ctx, CollectionRequests, reqs); err != nil {
			return nil, err
		}
	}
	if reqs == nil {
		reqs = []models.Request{}
	}
	return reqs, nil
}

// PutRequests replaces the requests collection.
func (s *Store) PutRequests(ctx context.Context, reqs []models.Request) error {
	if reqs == nil {
		reqs = []models.Request{}
	}
	return s.Put(ctx, CollectionRequests, reqs)
}

// Session returns the persisted signed-in user, or nil when logged out.
func (s *Store) Session(ctx context.Context) (*models.User, error) {
	var u *models.User
	if _, err := s.Get(ctx, CollectionSession, &u); err != nil {
		return nil, err
	}
	return u, nil
}

// SetSession persists u as the signed-in user; nil clears the session.
func (s *Store) SetSession(ctx context.Context, u *models.User) error {
	if u == nil {
		return s.Delete(ctx, CollectionSession)
	}
	return s.Put(ctx, CollectionSession, u)
}

// Init seeds the users and requests collections if they are absent.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.Users(ctx); err != nil {
		return err
	}
	_, err := s.Requests(ctx)
	return err
}

// Reset deletes every collection, including the session, and re-seeds.
func (s *Store) Reset(ctx context.Context) error {
	return s.InTx(ctx, func(tx *Store) error {
		for _, c := range AllCollections {
			if err := tx.Delete(ctx, c); err != nil {
				return err
			}
		}
		return tx.Init(ctx)
	})
}

func (s *Store) seedUsers(ctx context.Context) ([]models.User, error) {
	hash, err := s.hashPassword(models.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	users := []models.User{models.NewSeedAdmin(hash, s.now())}
	if err := s.PutUsers(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}
