package session

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStore_EmptyHasNoSession(t *testing.T) {
	s, _ := openTemp(t)

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_SaveLoadSurvivesReopen(t *testing.T) {
	s, path := openTemp(t)

	want := Session{Token: "tok-123", Username: "alice", UserID: 42}
	require.NoError(t, s.Save(want))
	require.NoError(t, s.Close())

	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()

	got, err := again.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_SaveReplaces(t *testing.T) {
	s, _ := openTemp(t)

	require.NoError(t, s.Save(Session{Token: "old", Username: "alice", UserID: 1}))
	require.NoError(t, s.Save(Session{Token: "new", Username: "bob", UserID: 2}))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "new", got.Token.Reveal())
	assert.Equal(t, "bob", got.Username)
	assert.EqualValues(t, 2, got.UserID)
}

func TestStore_ClearRemovesEverything(t *testing.T) {
	s, _ := openTemp(t)

	require.NoError(t, s.Save(Session{Token: "tok", Username: "alice", UserID: 7}))
	require.NoError(t, s.Clear())

	_, err := s.Load()
	assert.True(t, errors.Is(err, ErrNoSession))

	// clearing empty storage is fine
	assert.NoError(t, s.Clear())
}

func TestStore_TokenWithoutUsernameIsNoSession(t *testing.T) {
	s, _ := openTemp(t)

	require.NoError(t, s.Save(Session{Token: "tok"}))
	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_Memory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(Session{Token: "t", Username: "u", UserID: 3}))
	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "u", got.Username)
	assert.Equal(t, ":memory:", s.Path())
}
