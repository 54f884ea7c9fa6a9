package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/lead-scout/internal/models"
)

func openSQLite(t *testing.T) *KVStore {
	db, err := Connect("sqlite", filepath.Join(t.TempDir(), "scout.db"))
	require.NoError(t, err)
	return NewKVStore(db)
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect("mysql", "")
	assert.Error(t, err)
}

func TestKVStore_GetMissing(t *testing.T) {
	s := openSQLite(t)

	v, ok, err := s.Get(context.Background(), "leadgen_crm_proxima_v1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestKVStore_Upsert(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "leadgen_saved_jobs_v1", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "leadgen_saved_jobs_v1", []byte(`[{"id":"j1"}]`)))

	v, ok, err := s.Get(ctx, "leadgen_saved_jobs_v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"j1"}]`, string(v))

	var count int64
	require.NoError(t, s.db.Model(&models.StoredCollection{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
