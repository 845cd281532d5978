package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advdiary/advdiary/internal/records"
	"github.com/advdiary/advdiary/internal/store"
	"github.com/advdiary/advdiary/pkg/logger"
)

func newTestSessions(t *testing.T) *Sessions {
	t.Helper()
	db, err := store.Initialize(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	log, err := logger.NewLogger("error", "json")
	require.NoError(t, err)
	return NewSessions(records.NewRepository(store.New(db)), time.Hour, log)
}

func TestLoginCreatesUser(t *testing.T) {
	s := newTestSessions(t)

	user, token, err := s.Login("asha@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.UserID)
	assert.Equal(t, "asha", user.Name)
	assert.NotEmpty(t, token)

	resolved, ok := s.Resolve(token)
	assert.True(t, ok)
	assert.Equal(t, user.UserID, resolved)
}

func TestLoginIsStableForSameEmail(t *testing.T) {
	s := newTestSessions(t)

	first, _, err := s.Login("asha@example.com")
	require.NoError(t, err)
	second, _, err := s.Login("asha@example.com")
	require.NoError(t, err)

	assert.Equal(t, first.UserID, second.UserID)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	s := newTestSessions(t)

	_, token, err := s.Login("asha@example.com")
	require.NoError(t, err)

	s.Logout(token)

	_, ok := s.Resolve(token)
	assert.False(t, ok)
}

func TestResolveUnknownToken(t *testing.T) {
	s := newTestSessions(t)

	_, ok := s.Resolve("nope")
	assert.False(t, ok)
}
