package diary

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advdiary/advdiary/internal/cache"
	"github.com/advdiary/advdiary/internal/records"
	"github.com/advdiary/advdiary/internal/store"
	"github.com/advdiary/advdiary/pkg/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := store.Initialize(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	log, err := logger.NewLogger("error", "json")
	require.NoError(t, err)
	return New(records.NewRepository(store.New(db)), cache.New(time.Minute), log)
}

func TestSaveCaseRoundTrip(t *testing.T) {
	svc := newTestService(t)

	saved, err := svc.SaveCase("u1", nil, records.Case{
		CaseNumber: "X1",
		NextDate:   "2024-01-10",
		Priority:   records.PriorityMedium,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.CaseID)
	assert.Equal(t, records.StatusActive, saved.Status)

	cases, err := svc.LoadCases("u1")
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, saved, cases[0])
}

func TestSaveCaseRefreshesUpdatedAt(t *testing.T) {
	svc := newTestService(t)

	saved, err := svc.SaveCase("u1", nil, records.Case{CaseNumber: "X1", NextDate: "2024-01-10"})
	require.NoError(t, err)
	before := saved.UpdatedAt

	edited := saved
	edited.Notes = "amended"
	again, err := svc.SaveCase("u1", &saved, edited)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, again.UpdatedAt, before)
	assert.Equal(t, saved.CreatedAt, again.CreatedAt)
}

func TestSaveCaseScheduleChangeScenario(t *testing.T) {
	svc := newTestService(t)

	saved, err := svc.SaveCase("u1", nil, records.Case{
		CaseNumber:   "X1",
		NextDate:     "2024-01-10",
		StepOfTheDay: "Filing",
	})
	require.NoError(t, err)
	assert.Empty(t, saved.History)

	edited := saved
	edited.NextDate = "2024-02-10"
	edited.StepOfTheDay = "Arguments"

	final, err := svc.SaveCase("u1", &saved, edited)
	require.NoError(t, err)

	require.Len(t, final.History, 1)
	assert.Equal(t, "2024-01-10", final.History[0].Date)
	assert.Equal(t, "Filing", final.History[0].Step)
	assert.Equal(t, "2024-01-10", final.PreviousDate)

	// The persisted collection agrees with the in-memory echo.
	cases, err := svc.LoadCases("u1")
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, final.History, cases[0].History)
}

func TestSaveCaseRejectsForeignPrincipal(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SaveCase("u1", nil, records.Case{UserID: "u2", CaseNumber: "X1"})
	assert.True(t, records.IsOwnership(err))
}

func TestDeleteCaseMissingIsNoOp(t *testing.T) {
	svc := newTestService(t)

	assert.NoError(t, svc.DeleteCase("u1", "missing"))
}

func TestSaveClientLinksMatchingCases(t *testing.T) {
	svc := newTestService(t)

	a, err := svc.SaveCase("u1", nil, records.Case{CaseNumber: "CR/1/2024"})
	require.NoError(t, err)
	b, err := svc.SaveCase("u1", nil, records.Case{CaseNumber: "CR/1/2024"})
	require.NoError(t, err)
	other, err := svc.SaveCase("u1", nil, records.Case{CaseNumber: "CS/9/2023"})
	require.NoError(t, err)

	client, linked, err := svc.SaveClient("u1", records.Client{Name: "Asha", CaseNumber: "CR/1/2024"})
	require.NoError(t, err)
	assert.Equal(t, 2, linked)

	cases, err := svc.LoadCases("u1")
	require.NoError(t, err)
	byID := map[string]records.Case{}
	for _, c := range cases {
		byID[c.CaseID] = c
	}
	assert.Equal(t, client.ClientID, byID[a.CaseID].ClientID)
	assert.Equal(t, client.ClientID, byID[b.CaseID].ClientID)
	assert.Empty(t, byID[other.CaseID].ClientID)
}

func TestDeleteClientClearsLinksKeepsCases(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SaveCase("u1", nil, records.Case{CaseNumber: "CR/1/2024"})
	require.NoError(t, err)
	_, err = svc.SaveCase("u1", nil, records.Case{CaseNumber: "CR/1/2024"})
	require.NoError(t, err)

	client, linked, err := svc.SaveClient("u1", records.Client{Name: "Asha", CaseNumber: "CR/1/2024"})
	require.NoError(t, err)
	require.Equal(t, 2, linked)

	unlinked, err := svc.DeleteClient("u1", client.ClientID)
	require.NoError(t, err)
	assert.Equal(t, 2, unlinked)

	cases, err := svc.LoadCases("u1")
	require.NoError(t, err)
	require.Len(t, cases, 2)
	for _, c := range cases {
		assert.Empty(t, c.ClientID)
	}

	clients, err := svc.LoadClients("u1")
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestBulkDeleteCasesToleratesMissing(t *testing.T) {
	svc := newTestService(t)

	a, err := svc.SaveCase("u1", nil, records.Case{CaseNumber: "A"})
	require.NoError(t, err)
	b, err := svc.SaveCase("u1", nil, records.Case{CaseNumber: "B"})
	require.NoError(t, err)

	deleted, err := svc.BulkDeleteCases("u1", []string{a.CaseID, "missing", b.CaseID})
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	cases, err := svc.LoadCases("u1")
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestBulkCompleteCasesTouchesOnlyStatusAndUpdatedAt(t *testing.T) {
	svc := newTestService(t)

	a, err := svc.SaveCase("u1", nil, records.Case{
		CaseNumber:   "A",
		NextDate:     "2024-02-10",
		StepOfTheDay: "Arguments",
	})
	require.NoError(t, err)

	completed, err := svc.BulkCompleteCases("u1", []string{a.CaseID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, 1, completed)

	cases, err := svc.LoadCases("u1")
	require.NoError(t, err)
	require.Len(t, cases, 1)

	got := cases[0]
	assert.Equal(t, records.StatusCompleted, got.Status)
	assert.Equal(t, "2024-02-10", got.NextDate)
	assert.Equal(t, a.CaseNumber, got.CaseNumber)
	assert.Equal(t, a.History, got.History)
	assert.GreaterOrEqual(t, got.UpdatedAt, a.UpdatedAt)
}

func TestLoadCasesUsesSnapshotCache(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SaveCase("u1", nil, records.Case{CaseNumber: "A"})
	require.NoError(t, err)

	first, err := svc.LoadCases("u1")
	require.NoError(t, err)
	second, err := svc.LoadCases("u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// A write invalidates the snapshot.
	_, err = svc.SaveCase("u1", nil, records.Case{CaseNumber: "B"})
	require.NoError(t, err)

	third, err := svc.LoadCases("u1")
	require.NoError(t, err)
	assert.Len(t, third, 2)
}
