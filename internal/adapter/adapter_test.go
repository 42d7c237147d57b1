package adapter

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/folio/internal/slider"
)

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalog:
  path: /srv/site/portfolio.yaml
slider:
  duration: 4s
  preload_ahead: 2
player:
  command: mpv
  args: ["--mute=yes"]
cache:
  enabled: false
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/site/portfolio.yaml", cfg.Catalog.Path)
	assert.Equal(t, 4*time.Second, cfg.Slider.Duration)
	assert.Equal(t, 2, cfg.Slider.PreloadAhead)
	assert.Equal(t, slider.DefaultSwipeThreshold, cfg.Slider.SwipeThreshold)
	assert.Equal(t, "mpv", cfg.Player.Command)
	assert.Equal(t, []string{"--mute=yes"}, cfg.Player.Args)
	assert.Empty(t, cfg.CacheDir())
	assert.True(t, cfg.UI.ShowInspector)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("slider:\n  duration: 4s\n"), 0o644))
	t.Setenv("FOLIO_SLIDER_DURATION", "7s")
	t.Setenv("FOLIO_CATALOG_PATH", "/tmp/other.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, cfg.Slider.Duration)
	assert.Equal(t, "/tmp/other.yaml", cfg.Catalog.Path)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.Validate())

	cfg.Slider.Duration = 0
	cfg.Slider.PreloadAhead = -1
	cfg.Slider.SwipeThreshold = 1.5
	cfg.Slider.FrameInterval = time.Millisecond
	cfg.Cache.FetchTimeout = -time.Second
	cfg.UI.ImageWidth = -4

	warnings := cfg.Validate()
	assert.Len(t, warnings, 6)

	def := DefaultConfig()
	assert.Equal(t, def.Slider, cfg.Slider)
	assert.Equal(t, def.Cache.FetchTimeout, cfg.Cache.FetchTimeout)
	assert.Zero(t, cfg.UI.ImageWidth)
}

func TestConfig_SliderSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Slider.Duration = 3 * time.Second

	got := cfg.SliderSettings()
	assert.Equal(t, slider.Config{Duration: 3 * time.Second, PreloadAhead: 1, SwipeThreshold: 0.15}, got)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "f.log"), expandHome("~/logs/f.log"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
}

func TestSetupLogger_WritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "folio.log")
	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "debug"})
	require.NoError(t, err)

	logger.Debug("slide advanced", "index", 2)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"slide advanced"`)
	assert.Contains(t, string(data), `"index":2`)
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), in)
	}
}

func TestNewLogger_FiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

// fakeExec records launched commands without running anything
type fakeExec struct {
	inPath  map[string]bool
	started [][]string
	ran     [][]string
	runErr  error
}

func (f *fakeExec) install(l *Launcher, goos string) {
	l.goos = goos
	l.lookPath = func(name string) (string, error) {
		if f.inPath[name] {
			return "/usr/bin/" + name, nil
		}
		return "", exec.ErrNotFound
	}
	l.start = func(cmd *exec.Cmd) error {
		f.started = append(f.started, cmd.Args)
		return nil
	}
	l.run = func(cmd *exec.Cmd) error {
		f.ran = append(f.ran, cmd.Args)
		return f.runErr
	}
}

const watchURL = "https://www.youtube.com/watch?v=UZMxl3AKLOI"

func TestLauncher_Configured(t *testing.T) {
	fx := &fakeExec{inPath: map[string]bool{"mpv": true}}
	l := NewLauncher("mpv", []string{"--fs"}, NullLogger())
	fx.install(l, "linux")

	require.NoError(t, l.Launch(watchURL))
	assert.Equal(t, [][]string{{"mpv", "--fs", watchURL}}, fx.started)
}

func TestLauncher_ConfiguredDarwinApp(t *testing.T) {
	fx := &fakeExec{}
	l := NewLauncher("iina", nil, NullLogger())
	fx.install(l, "darwin")

	require.NoError(t, l.Launch(watchURL))
	assert.Equal(t, [][]string{{"open", "-n", "-a", "iina", watchURL}}, fx.started)
}

func TestLauncher_DetectsCandidate(t *testing.T) {
	fx := &fakeExec{inPath: map[string]bool{"celluloid": true}}
	l := NewLauncher("", nil, NullLogger())
	fx.install(l, "linux")

	require.NoError(t, l.Launch(watchURL))
	assert.Equal(t, [][]string{{"celluloid", watchURL}}, fx.started)
}

func TestLauncher_PrefersMpvWithStreamArgs(t *testing.T) {
	fx := &fakeExec{inPath: map[string]bool{"mpv": true, "vlc": true}}
	l := NewLauncher("", nil, NullLogger())
	fx.install(l, "linux")

	require.NoError(t, l.Launch(watchURL))
	assert.Equal(t, [][]string{{"mpv", "--force-window=immediate", watchURL}}, fx.started)
}

func TestLauncher_FallsBackToSystemDefault(t *testing.T) {
	fx := &fakeExec{runErr: errors.New("app not found")}
	l := NewLauncher("", nil, NullLogger())
	fx.install(l, "darwin")

	require.NoError(t, l.Launch(watchURL))
	assert.Len(t, fx.ran, 2) // IINA and VLC via open -a
	assert.Equal(t, [][]string{{"open", watchURL}}, fx.started)
}

func TestLauncher_UnknownPlatformUsesLinuxChain(t *testing.T) {
	fx := &fakeExec{}
	l := NewLauncher("", nil, NullLogger())
	fx.install(l, "freebsd")

	require.NoError(t, l.Launch(watchURL))
	assert.Equal(t, [][]string{{"xdg-open", watchURL}}, fx.started)
}
