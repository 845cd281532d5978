package records

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/advdiary/advdiary/internal/store"
)

// Collection names in the store.
const (
	CollectionUsers   = "adv_diary_users"
	CollectionClients = "adv_diary_clients"
	CollectionCases   = "adv_diary_cases"
)

var (
	// ErrNotFound marks a referenced id that is absent from its collection.
	ErrNotFound = errors.New("record not found")
	// ErrOwnership marks an attempt to touch a record owned by another user.
	ErrOwnership = errors.New("record owned by another user")
)

// Repository provides typed, ownership-scoped access to the three entity
// collections on top of the opaque store.
type Repository struct {
	store *store.Store
}

func NewRepository(s *store.Store) *Repository {
	return &Repository{store: s}
}

func loadCollection[T any](s *store.Store, name string) ([]T, error) {
	data, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: decode %q: %v", store.ErrUnavailable, name, err)
	}
	return out, nil
}

func saveCollection[T any](s *store.Store, name string, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %v", store.ErrUnavailable, name, err)
	}
	return s.Put(name, data)
}

// Cases

// ListCases returns every case owned by userID. Order is unspecified.
func (r *Repository) ListCases(userID string) ([]Case, error) {
	all, err := loadCollection[Case](r.store, CollectionCases)
	if err != nil {
		return nil, err
	}
	var owned []Case
	for _, c := range all {
		if c.UserID == userID {
			owned = append(owned, c)
		}
	}
	return owned, nil
}

// GetCase returns the case with the given id. A missing id is ErrNotFound;
// an id owned by another user is ErrOwnership.
func (r *Repository) GetCase(userID, caseID string) (*Case, error) {
	all, err := loadCollection[Case](r.store, CollectionCases)
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if c.CaseID == caseID {
			if c.UserID != userID {
				return nil, fmt.Errorf("%w: case %s", ErrOwnership, caseID)
			}
			c := c
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: case %s", ErrNotFound, caseID)
}

// UpsertCase inserts or replaces a case. CreatedAt is preserved from any
// existing record with the same id (or set to now), UpdatedAt is refreshed.
func (r *Repository) UpsertCase(c Case) (Case, error) {
	all, err := loadCollection[Case](r.store, CollectionCases)
	if err != nil {
		return Case{}, err
	}

	now := nowMillis()
	idx := -1
	for i := range all {
		if all[i].CaseID == c.CaseID {
			idx = i
			break
		}
	}

	if idx >= 0 {
		if all[idx].UserID != c.UserID {
			return Case{}, fmt.Errorf("%w: case %s", ErrOwnership, c.CaseID)
		}
		c.CreatedAt = all[idx].CreatedAt
		c.UpdatedAt = maxInt64(now, c.CreatedAt)
		all[idx] = c
	} else {
		c.CreatedAt = now
		c.UpdatedAt = now
		all = append(all, c)
	}

	if err := saveCollection(r.store, CollectionCases, all); err != nil {
		return Case{}, err
	}
	return c, nil
}

// RemoveCase hard-deletes a case. Missing ids are a no-op; the bool reports
// whether a record was actually removed.
func (r *Repository) RemoveCase(userID, caseID string) (bool, error) {
	all, err := loadCollection[Case](r.store, CollectionCases)
	if err != nil {
		return false, err
	}

	kept := all[:0]
	removed := false
	for _, c := range all {
		if c.CaseID == caseID {
			if c.UserID != userID {
				return false, fmt.Errorf("%w: case %s", ErrOwnership, caseID)
			}
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	if !removed {
		return false, nil
	}

	if err := saveCollection(r.store, CollectionCases, kept); err != nil {
		return false, err
	}
	return true, nil
}

// Clients

// ListClients returns every client owned by userID.
func (r *Repository) ListClients(userID string) ([]Client, error) {
	all, err := loadCollection[Client](r.store, CollectionClients)
	if err != nil {
		return nil, err
	}
	var owned []Client
	for _, c := range all {
		if c.UserID == userID {
			owned = append(owned, c)
		}
	}
	return owned, nil
}

// GetClient returns the client with the given id, with the same not-found
// and ownership semantics as GetCase.
func (r *Repository) GetClient(userID, clientID string) (*Client, error) {
	all, err := loadCollection[Client](r.store, CollectionClients)
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if c.ClientID == clientID {
			if c.UserID != userID {
				return nil, fmt.Errorf("%w: client %s", ErrOwnership, clientID)
			}
			c := c
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: client %s", ErrNotFound, clientID)
}

// UpsertClient inserts or replaces a client with the same timestamp rules
// as UpsertCase.
func (r *Repository) UpsertClient(c Client) (Client, error) {
	all, err := loadCollection[Client](r.store, CollectionClients)
	if err != nil {
		return Client{}, err
	}

	now := nowMillis()
	idx := -1
	for i := range all {
		if all[i].ClientID == c.ClientID {
			idx = i
			break
		}
	}

	if idx >= 0 {
		if all[idx].UserID != c.UserID {
			return Client{}, fmt.Errorf("%w: client %s", ErrOwnership, c.ClientID)
		}
		c.CreatedAt = all[idx].CreatedAt
		c.UpdatedAt = maxInt64(now, c.CreatedAt)
		all[idx] = c
	} else {
		c.CreatedAt = now
		c.UpdatedAt = now
		all = append(all, c)
	}

	if err := saveCollection(r.store, CollectionClients, all); err != nil {
		return Client{}, err
	}
	return c, nil
}

// RemoveClient hard-deletes a client, idempotently.
func (r *Repository) RemoveClient(userID, clientID string) (bool, error) {
	all, err := loadCollection[Client](r.store, CollectionClients)
	if err != nil {
		return false, err
	}

	kept := all[:0]
	removed := false
	for _, c := range all {
		if c.ClientID == clientID {
			if c.UserID != userID {
				return false, fmt.Errorf("%w: client %s", ErrOwnership, clientID)
			}
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	if !removed {
		return false, nil
	}

	if err := saveCollection(r.store, CollectionClients, kept); err != nil {
		return false, err
	}
	return true, nil
}

// Users

// FindUserByEmail returns the user with the given email, or ErrNotFound.
func (r *Repository) FindUserByEmail(email string) (*User, error) {
	all, err := loadCollection[User](r.store, CollectionUsers)
	if err != nil {
		return nil, err
	}
	for _, u := range all {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", ErrNotFound, email)
}

// GetUser returns the user with the given id, or ErrNotFound.
func (r *Repository) GetUser(userID string) (*User, error) {
	all, err := loadCollection[User](r.store, CollectionUsers)
	if err != nil {
		return nil, err
	}
	for _, u := range all {
		if u.UserID == userID {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
}

// UpsertUser inserts or replaces a user record keyed by UserID.
func (r *Repository) UpsertUser(u User) (User, error) {
	all, err := loadCollection[User](r.store, CollectionUsers)
	if err != nil {
		return User{}, err
	}

	idx := -1
	for i := range all {
		if all[i].UserID == u.UserID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		all[idx] = u
	} else {
		all = append(all, u)
	}

	if err := saveCollection(r.store, CollectionUsers, all); err != nil {
		return User{}, err
	}
	return u, nil
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
