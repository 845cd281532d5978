package records

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advdiary/advdiary/internal/store"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := store.Initialize(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	return NewRepository(store.New(db))
}

func TestUpsertCaseAssignsTimestamps(t *testing.T) {
	repo := newTestRepository(t)

	saved, err := repo.UpsertCase(Case{CaseID: "a", UserID: "u1", CaseNumber: "X1"})
	require.NoError(t, err)
	assert.Greater(t, saved.CreatedAt, int64(0))
	assert.GreaterOrEqual(t, saved.UpdatedAt, saved.CreatedAt)
}

func TestUpsertCasePreservesCreatedAt(t *testing.T) {
	repo := newTestRepository(t)

	first, err := repo.UpsertCase(Case{CaseID: "a", UserID: "u1"})
	require.NoError(t, err)

	edited := first
	edited.Notes = "amended"
	edited.CreatedAt = 0 // the caller cannot reset creation time

	second, err := repo.UpsertCase(edited)
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.GreaterOrEqual(t, second.UpdatedAt, first.UpdatedAt)
	assert.Equal(t, "amended", second.Notes)
}

func TestListCasesPartitionedByUser(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.UpsertCase(Case{CaseID: "a", UserID: "u1"})
	require.NoError(t, err)
	_, err = repo.UpsertCase(Case{CaseID: "b", UserID: "u2"})
	require.NoError(t, err)

	cases, err := repo.ListCases("u1")
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "a", cases[0].CaseID)
}

func TestUpsertCaseRejectsForeignRecord(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.UpsertCase(Case{CaseID: "a", UserID: "u1"})
	require.NoError(t, err)

	_, err = repo.UpsertCase(Case{CaseID: "a", UserID: "u2"})
	assert.True(t, IsOwnership(err))
}

func TestGetCaseNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetCase("u1", "missing")
	assert.True(t, IsNotFound(err))
}

func TestGetCaseOwnership(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.UpsertCase(Case{CaseID: "a", UserID: "u1"})
	require.NoError(t, err)

	_, err = repo.GetCase("u2", "a")
	assert.True(t, IsOwnership(err))
}

func TestRemoveCaseIdempotent(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.UpsertCase(Case{CaseID: "a", UserID: "u1"})
	require.NoError(t, err)

	removed, err := repo.RemoveCase("u1", "a")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.RemoveCase("u1", "a")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRemoveCaseRejectsForeignRecord(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.UpsertCase(Case{CaseID: "a", UserID: "u1"})
	require.NoError(t, err)

	_, err = repo.RemoveCase("u2", "a")
	assert.True(t, IsOwnership(err))

	// Record survives the rejected attempt
	cases, err := repo.ListCases("u1")
	require.NoError(t, err)
	assert.Len(t, cases, 1)
}

func TestCaseRoundTripPreservesFields(t *testing.T) {
	repo := newTestRepository(t)

	in := Case{
		CaseID:          "a",
		UserID:          "u1",
		SerialNumber:    "7",
		CaseNumber:      "CR/1/2024",
		CaseNameParties: "John vs State",
		CourtName:       "District Court",
		CaseType:        "Criminal",
		Priority:        PriorityHigh,
		Status:          StatusActive,
		Section:         "302",
		PreviousDate:    "2024-01-10",
		NextDate:        "2024-02-10",
		StepOfTheDay:    "Arguments",
		IsTaskDone:      true,
		Notes:           "bring witness list",
		History:         []HistoryItem{{Date: "2024-01-10", Step: "Filing", Notes: "done"}},
	}

	_, err := repo.UpsertCase(in)
	require.NoError(t, err)

	cases, err := repo.ListCases("u1")
	require.NoError(t, err)
	require.Len(t, cases, 1)

	got := cases[0]
	got.CreatedAt = 0
	got.UpdatedAt = 0
	assert.Equal(t, in, got)
}

func TestClientUpsertAndRemove(t *testing.T) {
	repo := newTestRepository(t)

	saved, err := repo.UpsertClient(Client{ClientID: "cl1", UserID: "u1", Name: "Asha"})
	require.NoError(t, err)
	assert.Greater(t, saved.CreatedAt, int64(0))

	clients, err := repo.ListClients("u1")
	require.NoError(t, err)
	assert.Len(t, clients, 1)

	removed, err := repo.RemoveClient("u1", "cl1")
	require.NoError(t, err)
	assert.True(t, removed)

	clients, err = repo.ListClients("u1")
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestFindUserByEmail(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.UpsertUser(User{UserID: "u1", Name: "asha", Email: "asha@example.com"})
	require.NoError(t, err)

	found, err := repo.FindUserByEmail("asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.UserID)

	_, err = repo.FindUserByEmail("nobody@example.com")
	assert.True(t, IsNotFound(err))
}
