package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verve/internal/models"
)

func TestBuildRetentionTable_MinMaxNormalization(t *testing.T) {
	stats := []models.ContentStats{
		{ContentID: "c_low", RetentionRate: 0.2},
		{ContentID: "c_mid", RetentionRate: 0.5},
		{ContentID: "c_high", RetentionRate: 0.8},
	}
	table := BuildRetentionTable(stats)

	assert.InDelta(t, 0.0, table.Lookup("c_low"), 1e-9)
	assert.InDelta(t, 0.5, table.Lookup("c_mid"), 1e-9)
	assert.InDelta(t, 1.0, table.Lookup("c_high"), 1e-9)
}

func TestBuildRetentionTable_ZeroVariance(t *testing.T) {
	stats := []models.ContentStats{
		{ContentID: "c_001", RetentionRate: 0.6},
		{ContentID: "c_002", RetentionRate: 0.6},
		{ContentID: "c_003", RetentionRate: 0.6},
	}
	table := BuildRetentionTable(stats)

	for _, id := range []string{"c_001", "c_002", "c_003"} {
		assert.Equal(t, 0.5, table.Lookup(id))
	}
}

func TestRetentionTable_UnknownIDDefaults(t *testing.T) {
	table := BuildRetentionTable([]models.ContentStats{
		{ContentID: "c_001", RetentionRate: 0.1},
		{ContentID: "c_002", RetentionRate: 0.9},
	})
	assert.Equal(t, DefaultRetentionScore, table.Lookup("c_unscored"))
}

func TestBuildRetentionTable_EmptyStats(t *testing.T) {
	table := BuildRetentionTable(nil)
	require.Equal(t, 0, table.Len())
	assert.Equal(t, DefaultRetentionScore, table.Lookup("anything"))
}
