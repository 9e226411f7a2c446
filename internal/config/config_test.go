package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9166", cfg.Server.Port)
	assert.Equal(t, 1280, cfg.Window.DefaultWidth)
	assert.Equal(t, 960, cfg.Window.DefaultHeight)
	assert.Equal(t, "Kiosk", cfg.Window.DefaultTitle)
	assert.Equal(t, "index.html", cfg.UI.BaseDocument)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("KIOSK_WINDOW_WIDTH", "1920")
	t.Setenv("KIOSK_WINDOW_TITLE", "Dashboard")
	t.Setenv("KIOSK_PORT", "7001")
	t.Setenv("KIOSK_UI_ROOT", "/srv/kiosk/ui")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1920, cfg.Window.DefaultWidth)
	assert.Equal(t, "Dashboard", cfg.Window.DefaultTitle)
	assert.Equal(t, "7001", cfg.Server.Port)
	assert.Equal(t, "/srv/kiosk/ui", cfg.UI.DocumentRoot)
}

func TestValidateRejectsBadDefaults(t *testing.T) {
	cfg := &Config{
		Window: WindowConfig{DefaultWidth: 0, DefaultHeight: 960},
		UI:     UIConfig{BaseDocument: "index.html"},
	}
	assert.Error(t, cfg.Validate())

	cfg = &Config{
		Window: WindowConfig{DefaultWidth: 1280, DefaultHeight: 960},
		UI:     UIConfig{BaseDocument: ""},
	}
	assert.Error(t, cfg.Validate())
}
