package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuild(device, digest string) Build {
	return Build{
		Device:     device,
		ConfigPath: filepath.Join("configs", device+".yaml"),
		OutputDir:  filepath.Join("configs", device),
		Digest:     digest,
		Points:     6,
		Fragments:  40,
		Classes:    1,
	}
}

func TestRecordAssignsSeqAndID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.Record(ctx, testBuild("livingroom", "aa"))
	require.NoError(t, err)
	second, err := s.Record(ctx, testBuild("livingroom", "bb"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, int64(2), second.Seq)
	_, err = uuid.Parse(first.ID)
	assert.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRecordKeepsGivenID(t *testing.T) {
	s := createTestStore(t)

	b := testBuild("kitchen", "cc")
	b.ID = "fixed-id"
	got, err := s.Record(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", got.ID)

	_, err = s.Record(context.Background(), b)
	assert.Error(t, err, "ids are unique")
}

func TestListNewestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, d := range []string{"a", "b", "c"} {
		_, err := s.Record(ctx, testBuild(d, d))
		require.NoError(t, err)
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].Device, all[1].Device, all[2].Device})
	assert.Equal(t, testBuild("c", "c").ConfigPath, all[0].ConfigPath)
	assert.Equal(t, 40, all[0].Fragments)

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, int64(3), limited[0].Seq)
}

func TestListEmpty(t *testing.T) {
	s := createTestStore(t)
	builds, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, builds)
}

func TestLatest(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Record(ctx, testBuild("livingroom", "old"))
	require.NoError(t, err)
	_, err = s.Record(ctx, testBuild("kitchen", "other"))
	require.NoError(t, err)
	_, err = s.Record(ctx, testBuild("livingroom", "new"))
	require.NoError(t, err)

	got, err := s.Latest(ctx, "livingroom")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Digest)
	assert.Equal(t, int64(3), got.Seq)

	_, err = s.Latest(ctx, "garage")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRecordPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Record(ctx, testBuild("livingroom", "aa"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	next, err := s.Record(ctx, testBuild("livingroom", "bb"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.Seq)
}
