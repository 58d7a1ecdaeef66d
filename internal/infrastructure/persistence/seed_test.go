package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/openpoint/platform/internal/domain/integration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeeder_Seed(t *testing.T) {
	db := newSQLiteDatabase(t)
	seeder := NewSeeder(db.DB, zap.NewNop())
	ctx := context.Background()
	now := repoEpoch.Add(48 * time.Hour)

	n, err := seeder.Seed(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	repo := NewGormIntegrationRepository(db.DB)
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "SAP to Salesforce Sync", all[0].Name)
	assert.Equal(t, integration.StatusError, all[4].Status)

	logs := NewGormLogRepository(db.DB)
	errs, err := logs.CountSince(ctx, all[4].ID, integration.LevelError, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), errs)

	t.Run("second run is a no-op", func(t *testing.T) {
		n, err := seeder.Seed(ctx, now)
		require.NoError(t, err)
		assert.Zero(t, n)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 5)
	})
}
