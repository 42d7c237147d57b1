package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/mmcdole/folio/internal/slider"
)

const appName = "folio"

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Slider  SliderConfig  `mapstructure:"slider"`
	Player  PlayerConfig  `mapstructure:"player"`
	UI      UIConfig      `mapstructure:"ui"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig locates the portfolio file
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// SliderConfig holds auto-play settings for the slide viewer
type SliderConfig struct {
	Duration       time.Duration `mapstructure:"duration"`        // per-slide display time
	PreloadAhead   int           `mapstructure:"preload_ahead"`   // slides fetched beyond the active one
	SwipeThreshold float64       `mapstructure:"swipe_threshold"` // fraction of slide width
	FrameInterval  time.Duration `mapstructure:"frame_interval"`  // progress redraw rate
}

// PlayerConfig holds external video player configuration
type PlayerConfig struct {
	Command string   `mapstructure:"command"` // empty for auto-detect
	Args    []string `mapstructure:"args"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	ShowInspector bool `mapstructure:"show_inspector"`
	ImageWidth    int  `mapstructure:"image_width"` // 0 fits the modal
}

// CacheConfig holds image cache configuration
type CacheConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Dir          string        `mapstructure:"dir"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path: "portfolio.yaml",
		},
		Slider: SliderConfig{
			Duration:       slider.DefaultDuration,
			PreloadAhead:   slider.DefaultPreloadAhead,
			SwipeThreshold: slider.DefaultSwipeThreshold,
			FrameInterval:  100 * time.Millisecond,
		},
		Player: PlayerConfig{
			Command: "",
			Args:    []string{},
		},
		UI: UIConfig{
			ShowInspector: true,
		},
		Cache: CacheConfig{
			Enabled:      true,
			Dir:          defaultCachePath(),
			FetchTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

func defaultLogPath() string {
	return filepath.Join(xdg.StateHome, appName, appName+".log")
}

func defaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

func defaultCachePath() string {
	return filepath.Join(xdg.CacheHome, appName)
}

// LoadConfig loads configuration from file and environment. An explicit path
// must exist; otherwise config.yaml is looked up in the config dir and the
// working directory, and a missing file means defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. FOLIO_SLIDER_DURATION=5s
	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	cfg.Logging.File = expandHome(cfg.Logging.File)
	cfg.Catalog.Path = expandHome(cfg.Catalog.Path)

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("catalog.path", cfg.Catalog.Path)

	v.SetDefault("slider.duration", cfg.Slider.Duration)
	v.SetDefault("slider.preload_ahead", cfg.Slider.PreloadAhead)
	v.SetDefault("slider.swipe_threshold", cfg.Slider.SwipeThreshold)
	v.SetDefault("slider.frame_interval", cfg.Slider.FrameInterval)

	v.SetDefault("player.command", cfg.Player.Command)
	v.SetDefault("player.args", cfg.Player.Args)

	v.SetDefault("ui.show_inspector", cfg.UI.ShowInspector)
	v.SetDefault("ui.image_width", cfg.UI.ImageWidth)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.fetch_timeout", cfg.Cache.FetchTimeout)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Validate replaces out-of-range values with defaults and returns a warning
// for each replacement.
func (c *Config) Validate() []string {
	def := DefaultConfig()
	var warnings []string

	if c.Slider.Duration <= 0 {
		warnings = append(warnings, fmt.Sprintf("slider.duration %s must be positive, using %s", c.Slider.Duration, def.Slider.Duration))
		c.Slider.Duration = def.Slider.Duration
	}
	if c.Slider.PreloadAhead < 0 {
		warnings = append(warnings, fmt.Sprintf("slider.preload_ahead %d must not be negative, using %d", c.Slider.PreloadAhead, def.Slider.PreloadAhead))
		c.Slider.PreloadAhead = def.Slider.PreloadAhead
	}
	if c.Slider.SwipeThreshold <= 0 || c.Slider.SwipeThreshold >= 1 {
		warnings = append(warnings, fmt.Sprintf("slider.swipe_threshold %g must be between 0 and 1, using %g", c.Slider.SwipeThreshold, def.Slider.SwipeThreshold))
		c.Slider.SwipeThreshold = def.Slider.SwipeThreshold
	}
	if c.Slider.FrameInterval < 10*time.Millisecond || c.Slider.FrameInterval > time.Second {
		warnings = append(warnings, fmt.Sprintf("slider.frame_interval %s must be between 10ms and 1s, using %s", c.Slider.FrameInterval, def.Slider.FrameInterval))
		c.Slider.FrameInterval = def.Slider.FrameInterval
	}
	if c.Cache.FetchTimeout <= 0 {
		warnings = append(warnings, fmt.Sprintf("cache.fetch_timeout %s must be positive, using %s", c.Cache.FetchTimeout, def.Cache.FetchTimeout))
		c.Cache.FetchTimeout = def.Cache.FetchTimeout
	}
	if c.UI.ImageWidth < 0 {
		warnings = append(warnings, fmt.Sprintf("ui.image_width %d must not be negative, fitting to modal", c.UI.ImageWidth))
		c.UI.ImageWidth = 0
	}
	return warnings
}

// SliderSettings converts the slider section for the controller.
func (c *Config) SliderSettings() slider.Config {
	return slider.Config{
		Duration:       c.Slider.Duration,
		PreloadAhead:   c.Slider.PreloadAhead,
		SwipeThreshold: c.Slider.SwipeThreshold,
	}
}

// CacheDir returns the image cache directory, or "" when caching is disabled.
func (c *Config) CacheDir() string {
	if !c.Cache.Enabled {
		return ""
	}
	return c.Cache.Dir
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
