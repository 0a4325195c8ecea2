package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, DirName), 0755))
	require.NoError(t, os.WriteFile(Path(dir), []byte(content), 0644))
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
pickup_fee: 49
estimate_delay: 250ms
receipt_whitelist:
  - ECO-2030-000001
log_level: debug
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, int64(49), cfg.PickupFee)
	assert.Equal(t, 250*time.Millisecond, cfg.EstimateDelay)
	assert.Equal(t, []string{"ECO-2030-000001"}, cfg.ReceiptWhitelist)

	// Untouched keys keep their defaults.
	assert.Equal(t, int64(2000), cfg.FreePickupThreshold)
	assert.Equal(t, 1500*time.Millisecond, cfg.PhotoInspectionDelay)
	assert.Equal(t, "image/webp", cfg.AcceptedPhotoType)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed yaml", content: "pickup_fee: [1, 2"},
		{name: "negative fee", content: "pickup_fee: -1"},
		{name: "empty photo type", content: `accepted_photo_type: ""`},
		{name: "bad duration", content: "estimate_delay: soon"},
		{name: "bad log level", content: "log_level: loud"},
		{name: "add-on without price", content: "add_on_items:\n  - name: Old Phone Case\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := LoadConfig(dir)
			assert.Error(t, err)
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.SupportPhone = "+91 0000000000"

	require.NoError(t, SaveConfig(dir, cfg))

	loaded, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
