package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Initialize(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	return New(db)
}

func TestGetMissingCollection(t *testing.T) {
	s := newTestStore(t)

	data, err := s.Get("never_written")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put("cases", []byte(`[{"caseId":"a"}]`)))

	data, err := s.Get("cases")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"caseId":"a"}]`), data)
}

func TestPutReplaces(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put("cases", []byte(`[1]`)))
	require.NoError(t, s.Put("cases", []byte(`[1,2]`)))

	data, err := s.Get("cases")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1,2]`), data)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put("cases", []byte(`[]`)))
	require.NoError(t, s.Delete("cases"))
	require.NoError(t, s.Delete("cases"))

	data, err := s.Get("cases")
	require.NoError(t, err)
	assert.Nil(t, data)
}
