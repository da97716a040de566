package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/huddlehq/huddle/pkg/cmsdk"
)

func newStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := NewStorage(filepath.Join(t.TempDir(), "huddle.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestStorageRoundTrip(t *testing.T) {
	t.Parallel()

	s := newStorage(t)
	ctx := context.Background()

	// Empty storage loads nothing.
	data, err := s.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, data)

	expiresAt := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	require.NoError(t, s.Save(ctx, &cmsdk.AuthData{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    expiresAt,
	}))

	data, err = s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, data)
	require.Equal(t, "access-1", data.AccessToken)
	require.Equal(t, "refresh-1", data.RefreshToken)
	require.True(t, expiresAt.Equal(data.ExpiresAt))
}

func TestStorageSaveOverwrites(t *testing.T) {
	t.Parallel()

	s := newStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &cmsdk.AuthData{AccessToken: "a1", RefreshToken: "r1"}))
	require.NoError(t, s.Save(ctx, &cmsdk.AuthData{AccessToken: "a2", RefreshToken: "r2"}))

	data, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "a2", data.AccessToken)
	require.Equal(t, "r2", data.RefreshToken)
}

func TestStorageClear(t *testing.T) {
	t.Parallel()

	s := newStorage(t)
	ctx := context.Background()

	// Clearing an empty store is fine.
	require.NoError(t, s.Clear(ctx))

	require.NoError(t, s.Save(ctx, &cmsdk.AuthData{AccessToken: "a", RefreshToken: "r"}))
	require.NoError(t, s.Clear(ctx))

	data, err := s.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestStorageZeroExpiry(t *testing.T) {
	t.Parallel()

	s := newStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &cmsdk.AuthData{AccessToken: "a", RefreshToken: "r"}))

	data, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, data.ExpiresAt.IsZero())
}

func TestMigrationsIdempotent(t *testing.T) {
	t.Parallel()

	s := newStorage(t)
	require.NoError(t, s.ApplyMigrations())
}
