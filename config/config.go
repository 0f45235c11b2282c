package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"go-pianoroll/grid"
	"go-pianoroll/scale"
)

// EditorConfig holds note editing preferences
type EditorConfig struct {
	BeatFraction float64    `json:"beatFraction"`
	Snap         bool       `json:"snap"`
	EdgeWidth    float64    `json:"edgeWidth"` // in beats
	Scale        scale.Type `json:"scale"`
	Root         int        `json:"root"`
}

// PreviewConfig defines the MIDI output notes are auditioned on
type PreviewConfig struct {
	Enabled  bool   `json:"enabled"`
	PortName string `json:"portName,omitempty"`
	Channel  uint8  `json:"channel"`
	Velocity uint8  `json:"velocity"`
	LengthMs int    `json:"lengthMs"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	PalettePath    string `json:"palettePath,omitempty"`
	Rows           int    `json:"rows"`
	Cols           int    `json:"cols"`
}

type LogConfig struct {
	Path  string `json:"path,omitempty"`
	Level string `json:"level,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Editor  EditorConfig  `json:"editor"`
	Preview PreviewConfig `json:"preview"`
	UI      UIConfig      `json:"ui"`
	Log     LogConfig     `json:"log,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Editor: EditorConfig{
			BeatFraction: 0.25,
			Snap:         true,
			EdgeWidth:    grid.DefaultEdgeWidth,
			Scale:        scale.Minor,
			Root:         2,
		},
		Preview: PreviewConfig{
			Channel:  0,
			Velocity: 100,
			LengthMs: 250,
		},
		UI: UIConfig{
			Rows:           24,
			Cols:           64,
		},
		Log: LogConfig{Level: "debug"},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fault.Wrap(err, ftag.With(ftag.Internal), fmsg.With("no home directory"))
	}
	return filepath.Join(home, ".config", "go-pianoroll"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads path over the defaults. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fault.Wrap(err,
			ftag.With(ftag.Internal),
			fmsg.WithDesc("read config", fmt.Sprintf("Could not read %s", path)))
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fault.Wrap(err,
			ftag.With(ftag.InvalidArgument),
			fmsg.WithDesc("parse config", fmt.Sprintf("%s is not valid JSON", path)))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fault.Wrap(err, ftag.With(ftag.Internal), fmsg.With("create config dir"))
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fault.Wrap(err, ftag.With(ftag.Internal))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fault.Wrap(err,
			ftag.With(ftag.Internal),
			fmsg.WithDesc("write config", fmt.Sprintf("Could not write %s", path)))
	}
	return nil
}

func invalid(field, reason string) error {
	return fault.New(field+": "+reason,
		ftag.With(ftag.InvalidArgument),
		fmsg.WithDesc("invalid config", fmt.Sprintf("Config field %s %s", field, reason)))
}

// Validate rejects values the editor cannot work with
func (c *Config) Validate() error {
	if c.Editor.BeatFraction <= 0 {
		return invalid("editor.beatFraction", "must be positive")
	}
	if c.Editor.EdgeWidth < 0 {
		return invalid("editor.edgeWidth", "must not be negative")
	}
	if _, err := scale.ParseType(string(c.Editor.Scale)); err != nil {
		return fault.Wrap(err, fmsg.With("editor.scale"))
	}
	if c.Preview.Channel > 15 {
		return invalid("preview.channel", "must be 0-15")
	}
	if c.Preview.Velocity > 127 {
		return invalid("preview.velocity", "must be 0-127")
	}
	if c.Preview.LengthMs <= 0 {
		return invalid("preview.lengthMs", "must be positive")
	}
	if c.UI.Rows <= 0 || c.UI.Cols <= 0 {
		return invalid("ui", "rows and cols must be positive")
	}
	return nil
}

// Scale builds the configured editor scale
func (c *Config) Scale() scale.Scale {
	return scale.New(c.Editor.Scale, c.Editor.Root)
}
