package diary

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/advdiary/advdiary/internal/cache"
	"github.com/advdiary/advdiary/internal/ledger"
	"github.com/advdiary/advdiary/internal/records"
	"github.com/advdiary/advdiary/pkg/logger"
)

// Service is the boundary the UI collaborator calls into. Every operation
// takes the acting principal explicitly and rejects records owned by anyone
// else before mutating. Each mutation is a read-modify-write over the
// collection snapshot taken at operation start; with a single logical writer
// this is last-writer-wins.
type Service struct {
	repo  *records.Repository
	cache cache.Snapshots
	log   *logger.Logger
}

func New(repo *records.Repository, snapshots cache.Snapshots, log *logger.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: snapshots,
		log:   log,
	}
}

// LoadCases returns the principal's cases, from cache when possible.
func (s *Service) LoadCases(userID string) ([]records.Case, error) {
	if cases, found := s.cache.GetCases(userID); found {
		return cases, nil
	}
	cases, err := s.repo.ListCases(userID)
	if err != nil {
		return nil, err
	}
	s.cache.SetCases(userID, cases)
	return cases, nil
}

// LoadClients returns the principal's clients, from cache when possible.
func (s *Service) LoadClients(userID string) ([]records.Client, error) {
	if clients, found := s.cache.GetClients(userID); found {
		return clients, nil
	}
	clients, err := s.repo.ListClients(userID)
	if err != nil {
		return nil, err
	}
	s.cache.SetClients(userID, clients)
	return clients, nil
}

// GetCase returns one of the principal's cases by id.
func (s *Service) GetCase(userID, caseID string) (*records.Case, error) {
	return s.repo.GetCase(userID, caseID)
}

// SaveCase runs the schedule-change rule against the last persisted version
// and persists the result. existing is nil for a brand-new case. New cases
// get an id and default status assigned here.
func (s *Service) SaveCase(userID string, existing *records.Case, incoming records.Case) (records.Case, error) {
	if incoming.UserID == "" {
		incoming.UserID = userID
	}
	if incoming.UserID != userID {
		return records.Case{}, fmt.Errorf("%w: case %s", records.ErrOwnership, incoming.CaseID)
	}
	if incoming.CaseID == "" {
		incoming.CaseID = uuid.NewString()
	}
	if incoming.Status == "" {
		incoming.Status = records.StatusActive
	}

	final, appended := ledger.ApplyScheduleChange(existing, incoming)
	saved, err := s.repo.UpsertCase(final)
	if err != nil {
		return records.Case{}, err
	}
	s.cache.Invalidate(userID)

	if appended != nil {
		s.log.Info("Recorded procedural step",
			"caseID", saved.CaseID,
			"date", appended.Date,
			"step", appended.Step,
		)
	}
	return saved, nil
}

// DeleteCase hard-deletes a case with no cascade. Missing ids are a no-op.
func (s *Service) DeleteCase(userID, caseID string) error {
	removed, err := s.repo.RemoveCase(userID, caseID)
	if err != nil {
		return err
	}
	if removed {
		s.cache.Invalidate(userID)
	}
	return nil
}

// SaveClient persists the client and then adopts every case whose case
// number matches the client's. The number of newly linked cases is returned.
func (s *Service) SaveClient(userID string, incoming records.Client) (records.Client, int, error) {
	if incoming.UserID == "" {
		incoming.UserID = userID
	}
	if incoming.UserID != userID {
		return records.Client{}, 0, fmt.Errorf("%w: client %s", records.ErrOwnership, incoming.ClientID)
	}
	if incoming.ClientID == "" {
		incoming.ClientID = uuid.NewString()
	}

	saved, err := s.repo.UpsertClient(incoming)
	if err != nil {
		return records.Client{}, 0, err
	}

	cases, err := s.repo.ListCases(userID)
	if err != nil {
		return records.Client{}, 0, err
	}

	linked := ledger.LinkOnClientSave(saved, cases)
	for _, c := range linked {
		if _, err := s.repo.UpsertCase(c); err != nil {
			return records.Client{}, 0, err
		}
	}
	s.cache.Invalidate(userID)

	if len(linked) > 0 {
		s.log.Info("Linked cases to client",
			"clientID", saved.ClientID,
			"caseNumber", saved.CaseNumber,
			"count", len(linked),
		)
	}
	return saved, len(linked), nil
}

// DeleteClient clears the client reference on every linked case, then
// hard-deletes the client record. The number of unlinked cases is returned.
func (s *Service) DeleteClient(userID, clientID string) (int, error) {
	cases, err := s.repo.ListCases(userID)
	if err != nil {
		return 0, err
	}

	unlinked := ledger.UnlinkOnClientDelete(clientID, cases)
	for _, c := range unlinked {
		if _, err := s.repo.UpsertCase(c); err != nil {
			return 0, err
		}
	}

	if _, err := s.repo.RemoveClient(userID, clientID); err != nil {
		return 0, err
	}
	s.cache.Invalidate(userID)
	return len(unlinked), nil
}

// BulkCompleteCases marks each listed case Completed. Missing ids are
// skipped; the batch is not atomic and a mid-batch failure leaves earlier
// updates in place.
func (s *Service) BulkCompleteCases(userID string, ids []string) (int, error) {
	cases, err := s.repo.ListCases(userID)
	if err != nil {
		return 0, err
	}

	updated := ledger.CompleteCases(ids, cases)
	for _, c := range updated {
		if _, err := s.repo.UpsertCase(c); err != nil {
			return 0, err
		}
	}
	s.cache.Invalidate(userID)
	return len(updated), nil
}

// BulkDeleteCases removes each listed case, tolerating already-missing ids.
func (s *Service) BulkDeleteCases(userID string, ids []string) (int, error) {
	deleted := 0
	for _, id := range ids {
		removed, err := s.repo.RemoveCase(userID, id)
		if err != nil {
			return deleted, err
		}
		if removed {
			deleted++
		}
	}
	s.cache.Invalidate(userID)
	return deleted, nil
}

// GetUser returns the principal's own user record.
func (s *Service) GetUser(userID string) (*records.User, error) {
	return s.repo.GetUser(userID)
}

// UpdateProfile updates the principal's own user record. The id is pinned to
// the acting principal.
func (s *Service) UpdateProfile(userID string, u records.User) (records.User, error) {
	u.UserID = userID
	return s.repo.UpsertUser(u)
}
