package database

import (
	"path/filepath"
	"testing"

	"github.com/NewLouwa/CookieTrading/internal/config"
	"github.com/NewLouwa/CookieTrading/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.Database{DSN: filepath.Join(t.TempDir(), "test.db")},
	}
}

func TestNewSeedsTraderSingleton(t *testing.T) {
	cfg := newTestConfig(t)

	db, err := New(cfg)
	require.NoError(t, err)

	var tc models.TraderCount
	require.NoError(t, db.First(&tc).Error)
	assert.Equal(t, 0, tc.Count)

	// Migrating again must not add a second row.
	require.NoError(t, Migrate(db))
	var count int64
	require.NoError(t, db.Model(&models.TraderCount{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResetDropsDataAndReseeds(t *testing.T) {
	cfg := newTestConfig(t)

	db, err := New(cfg)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Position{
		Ingredient: "CRL", Quantity: 10, EntryPrice: 1.5, Status: models.StatusOpen,
	}).Error)
	require.NoError(t, db.Model(&models.TraderCount{}).Where("1 = 1").Update("count", 9).Error)

	require.NoError(t, Reset(db))

	var positions int64
	require.NoError(t, db.Model(&models.Position{}).Count(&positions).Error)
	assert.Equal(t, int64(0), positions)

	var tc models.TraderCount
	require.NoError(t, db.First(&tc).Error)
	assert.Equal(t, 0, tc.Count)
}
