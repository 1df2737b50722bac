// internal/config/config.go
//
// This package handles configuration and the .twofour directory structure.
// The simulator creates a .twofour/ folder in the directory it runs from.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/two-four-eighteen/internal/logging"
)

const (
	// Dir is the name of the directory we create in the working directory.
	Dir = ".twofour"

	// OnFailureStop leaves a failed task stopped.
	OnFailureStop = "stop"
	// OnFailureRestart restarts a failed task with backoff.
	OnFailureRestart = "restart"
)

const defaultConfigYAML = `# two four eighteen configuration
display:
  width: 128
  height: 64

timing:
  # Alternation between the end message and the final dice.
  animation_interval: 2s
  # Half-period of the end-of-game blink.
  blink_interval: 1s

sensor:
  # The first break longer than this seeds the game.
  seed_threshold: 1s

channels:
  rounds: 4
  modes: 4
  edges: 16

tasks:
  # stop or restart
  on_failure: stop
  max_restarts: 5

log:
  path: .twofour/logs/twofour.log
  level: info

panel:
  i2c_address: 0x3C
`

// DisplayConfig sizes the frame buffer.
type DisplayConfig struct {
	Width  int `yaml:"width" env:"TWOFOUR_DISPLAY_WIDTH"`
	Height int `yaml:"height" env:"TWOFOUR_DISPLAY_HEIGHT"`
}

// TimingConfig holds the two animation periods.
type TimingConfig struct {
	AnimationInterval time.Duration `yaml:"animation_interval" env:"TWOFOUR_ANIMATION_INTERVAL"`
	BlinkInterval     time.Duration `yaml:"blink_interval" env:"TWOFOUR_BLINK_INTERVAL"`
}

// SensorConfig tunes seeding.
type SensorConfig struct {
	SeedThreshold time.Duration `yaml:"seed_threshold" env:"TWOFOUR_SEED_THRESHOLD"`
}

// ChannelsConfig bounds the task channels.
type ChannelsConfig struct {
	Rounds int `yaml:"rounds" env:"TWOFOUR_ROUNDS_CAPACITY"`
	Modes  int `yaml:"modes" env:"TWOFOUR_MODES_CAPACITY"`
	Edges  int `yaml:"edges" env:"TWOFOUR_EDGES_CAPACITY"`
}

// TasksConfig is the task failure policy.
type TasksConfig struct {
	OnFailure   string `yaml:"on_failure" env:"TWOFOUR_ON_FAILURE"`
	MaxRestarts int    `yaml:"max_restarts" env:"TWOFOUR_MAX_RESTARTS"`
}

// LogConfig locates the log file.
type LogConfig struct {
	Path  string `yaml:"path" env:"TWOFOUR_LOG_PATH"`
	Level string `yaml:"level" env:"TWOFOUR_LOG_LEVEL"`
}

// PanelConfig addresses the OLED controller.
type PanelConfig struct {
	I2CAddress uint16 `yaml:"i2c_address"`
}

// Settings models .twofour/config.yaml.
type Settings struct {
	Display  DisplayConfig  `yaml:"display"`
	Timing   TimingConfig   `yaml:"timing"`
	Sensor   SensorConfig   `yaml:"sensor"`
	Channels ChannelsConfig `yaml:"channels"`
	Tasks    TasksConfig    `yaml:"tasks"`
	Log      LogConfig      `yaml:"log"`
	Panel    PanelConfig    `yaml:"panel"`
}

// Config holds the runtime configuration.
type Config struct {
	// ProjectDir is the directory the simulator runs from.
	ProjectDir string

	// StateDir is ProjectDir/.twofour
	StateDir string

	Settings Settings
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Display:  DisplayConfig{Width: 128, Height: 64},
		Timing:   TimingConfig{AnimationInterval: 2 * time.Second, BlinkInterval: time.Second},
		Sensor:   SensorConfig{SeedThreshold: time.Second},
		Channels: ChannelsConfig{Rounds: 4, Modes: 4, Edges: 16},
		Tasks:    TasksConfig{OnFailure: OnFailureStop, MaxRestarts: 5},
		Log:      LogConfig{Path: filepath.Join(Dir, "logs", "twofour.log"), Level: "info"},
		Panel:    PanelConfig{I2CAddress: 0x3C},
	}
}

// Init creates the .twofour directory and a default config file.
func Init(projectDir string) error {
	stateDir := filepath.Join(projectDir, Dir)
	if err := os.MkdirAll(filepath.Join(stateDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: ensure state dir: %w", err)
	}
	return ensureConfigFile(filepath.Join(stateDir, "config.yaml"))
}

// LoadDotEnv loads projectDir/.env when present. Variables already set in
// the environment win.
func LoadDotEnv(projectDir string) error {
	path := filepath.Join(projectDir, ".env")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// Load reads .twofour/config.yaml on top of the defaults, then applies
// TWOFOUR_* environment overrides.
func Load(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir: projectDir,
		StateDir:   filepath.Join(projectDir, Dir),
		Settings:   Default(),
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if err := env.Parse(&cfg.Settings); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	cfg.Settings.applyDefaults()
	cfg.Settings.normalize(projectDir)
	if err := cfg.Settings.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Path returns the on-disk location of the config file.
func (c *Config) Path() string {
	return filepath.Join(c.StateDir, "config.yaml")
}

// LogPath returns the resolved log file path.
func (c *Config) LogPath() string {
	return c.Settings.Log.Path
}

// Restart reports whether failed tasks are restarted.
func (c *Config) Restart() bool {
	return c.Settings.Tasks.OnFailure == OnFailureRestart
}

func (c *Config) loadFile() error {
	path := c.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c.Settings); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (s *Settings) applyDefaults() {
	def := Default()
	if s.Display.Width == 0 {
		s.Display.Width = def.Display.Width
	}
	if s.Display.Height == 0 {
		s.Display.Height = def.Display.Height
	}
	if s.Timing.AnimationInterval == 0 {
		s.Timing.AnimationInterval = def.Timing.AnimationInterval
	}
	if s.Timing.BlinkInterval == 0 {
		s.Timing.BlinkInterval = def.Timing.BlinkInterval
	}
	if s.Sensor.SeedThreshold == 0 {
		s.Sensor.SeedThreshold = def.Sensor.SeedThreshold
	}
	if s.Channels.Rounds == 0 {
		s.Channels.Rounds = def.Channels.Rounds
	}
	if s.Channels.Modes == 0 {
		s.Channels.Modes = def.Channels.Modes
	}
	if s.Channels.Edges == 0 {
		s.Channels.Edges = def.Channels.Edges
	}
	if strings.TrimSpace(s.Tasks.OnFailure) == "" {
		s.Tasks.OnFailure = def.Tasks.OnFailure
	}
	if strings.TrimSpace(s.Log.Path) == "" {
		s.Log.Path = def.Log.Path
	}
	if s.Panel.I2CAddress == 0 {
		s.Panel.I2CAddress = def.Panel.I2CAddress
	}
}

func (s *Settings) normalize(base string) {
	s.Tasks.OnFailure = strings.ToLower(strings.TrimSpace(s.Tasks.OnFailure))
	s.Log.Level = strings.ToLower(strings.TrimSpace(s.Log.Level))
	s.Log.Path = resolvePath(base, s.Log.Path)
}

func (s *Settings) validate() error {
	if s.Display.Width <= 0 || s.Display.Height <= 0 {
		return fmt.Errorf("display size must be positive, got %dx%d", s.Display.Width, s.Display.Height)
	}
	if s.Timing.AnimationInterval < 0 {
		return fmt.Errorf("timing.animation_interval must be positive")
	}
	if s.Timing.BlinkInterval < 0 {
		return fmt.Errorf("timing.blink_interval must be positive")
	}
	if s.Sensor.SeedThreshold < 0 {
		return fmt.Errorf("sensor.seed_threshold must be positive")
	}
	if s.Channels.Rounds < 0 || s.Channels.Modes < 0 || s.Channels.Edges < 0 {
		return fmt.Errorf("channel capacities must be positive")
	}
	switch s.Tasks.OnFailure {
	case OnFailureStop, OnFailureRestart:
	default:
		return fmt.Errorf("tasks.on_failure must be '%s' or '%s'", OnFailureStop, OnFailureRestart)
	}
	if s.Tasks.MaxRestarts < 0 {
		return fmt.Errorf("tasks.max_restarts must be >= 0")
	}
	if _, err := logging.ParseLevel(s.Log.Level); err != nil {
		return err
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("config: write default config: %w", err)
	}
	return nil
}
