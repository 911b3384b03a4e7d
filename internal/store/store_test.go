package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, "none", "")
	require.NoError(t, err)
	assert.IsType(t, Nop{}, s)

	s, err = Open(ctx, "sqlite", filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, "postgres", "")
	assert.Error(t, err)

	_, err = Open(ctx, "mongo", "")
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var s Store = Nop{}

	require.NoError(t, s.PutPage(ctx, "u", []byte("x"), time.Hour))
	pc, err := s.GetPage(ctx, "u")
	require.NoError(t, err)
	assert.Nil(t, pc)

	run, err := s.CreateRun(ctx, "in.csv")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)

	_, err = s.GetRun(ctx, run.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
