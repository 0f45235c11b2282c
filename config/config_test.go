package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Southclaws/fault/ftag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pianoroll/scale"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, scale.Default(), cfg.Scale())
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg := DefaultConfig()
	cfg.Editor.Scale = scale.Blues
	cfg.Preview.PortName = "IAC Driver Bus 1"
	cfg.Preview.Enabled = true
	require.NoError(t, cfg.SaveTo(path))

	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"preview":{"enabled":true,"velocity":90,"lengthMs":100}}`), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.True(t, cfg.Preview.Enabled)
	assert.Equal(t, uint8(90), cfg.Preview.Velocity)
	assert.Equal(t, 0.25, cfg.Editor.BeatFraction)
	assert.Equal(t, 24, cfg.UI.Rows)
}

func TestLoadRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err := LoadFrom(bad)
	require.Error(t, err)
	assert.Equal(t, ftag.InvalidArgument, ftag.Get(err))

	wrong := filepath.Join(dir, "wrong.json")
	require.NoError(t, os.WriteFile(wrong, []byte(`{"editor":{"beatFraction":0.25,"scale":"dorian"}}`), 0644))
	_, err = LoadFrom(wrong)
	require.Error(t, err)
	assert.Equal(t, ftag.InvalidArgument, ftag.Get(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"fraction", func(c *Config) { c.Editor.BeatFraction = 0 }},
		{"edge", func(c *Config) { c.Editor.EdgeWidth = -1 }},
		{"channel", func(c *Config) { c.Preview.Channel = 16 }},
		{"velocity", func(c *Config) { c.Preview.Velocity = 128 }},
		{"length", func(c *Config) { c.Preview.LengthMs = 0 }},
		{"rows", func(c *Config) { c.UI.Rows = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, ftag.InvalidArgument, ftag.Get(err))
		})
	}
}
