package adapter

import (
	"errors"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNoPlayer is returned when no candidate player could be started
var ErrNoPlayer = errors.New("no candidate players found")

// Launcher opens video URLs in an external player
type Launcher struct {
	command string   // configured player command, empty for auto-detect
	args    []string // additional arguments for the player
	logger  *slog.Logger

	goos     string
	lookPath func(string) (string, error)
	start    func(*exec.Cmd) error // async launch
	run      func(*exec.Cmd) error // waits; used for "open -a" which reports missing apps
}

// launchPath defines a single way to launch a player
type launchPath struct {
	path      string   // Command path: "mpv", "vlc", or "open-a:AppName"
	openFlags []string // For "open-a:" paths only - flags for macOS open command
}

// playerConfig defines how a player is reached on each platform
type playerConfig struct {
	streamArgs []string                // args that make the player accept a web page URL
	platforms  map[string][]launchPath // Platform -> launch paths to try in order
}

// players that can play YouTube watch URLs (mpv-based ones via yt-dlp)
var players = map[string]playerConfig{
	"mpv": {
		streamArgs: []string{"--force-window=immediate"},
		platforms: map[string][]launchPath{
			"darwin":  {{path: "mpv"}},
			"linux":   {{path: "mpv"}},
			"windows": {{path: "mpv"}},
		},
	},
	"vlc": {
		platforms: map[string][]launchPath{
			"darwin": {
				{path: "vlc"},
				{path: "open-a:VLC"},
			},
			"linux":   {{path: "vlc"}},
			"windows": {{path: "vlc"}},
		},
	},
	"iina": {
		platforms: map[string][]launchPath{
			"darwin": {
				{path: "open-a:IINA", openFlags: []string{"-n"}},
			},
		},
	},
	"celluloid": {
		platforms: map[string][]launchPath{
			"linux": {{path: "celluloid"}},
		},
	},
	"haruna": {
		platforms: map[string][]launchPath{
			"linux": {{path: "haruna"}},
		},
	},
}

// candidatePlayers defines the preferred player order for each platform
var candidatePlayers = map[string][]string{
	"darwin":  {"iina", "mpv", "vlc"},
	"linux":   {"mpv", "celluloid", "haruna", "vlc"},
	"windows": {"mpv", "vlc"},
}

// NewLauncher creates a Launcher. An empty command means auto-detect.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  command,
		args:     args,
		logger:   logger,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		start:    func(cmd *exec.Cmd) error { return cmd.Start() },
		run:      func(cmd *exec.Cmd) error { return cmd.Run() },
	}
}

// Launch opens a URL in the configured player, a detected player, or the
// system default handler, in that order.
func (l *Launcher) Launch(url string) error {
	// Tier 1: User configured a specific player
	if l.command != "" {
		l.logger.Info("using configured player", "command", l.command)
		return l.launchConfigured(url)
	}

	// Tier 2: Try candidate chain (IINA → mpv → VLC on macOS, etc.)
	if name, err := l.detectAndLaunch(url); err == nil {
		l.logger.Info("launched with detected player", "player", name)
		return nil
	}

	// Tier 3: Fall back to system default (open/xdg-open/start), usually a browser
	l.logger.Info("no candidate players found, using system default")
	return l.launchDefault(url)
}

// detectAndLaunch tries candidate players in order and returns the one that started
func (l *Launcher) detectAndLaunch(url string) (string, error) {
	candidates, ok := candidatePlayers[l.goos]
	if !ok {
		candidates = candidatePlayers["linux"]
	}

	for _, playerName := range candidates {
		player, exists := players[playerName]
		if !exists {
			continue
		}
		launchPaths, ok := player.platforms[l.goos]
		if !ok {
			continue
		}

		for _, lp := range launchPaths {
			var err error
			if appName, isApp := strings.CutPrefix(lp.path, "open-a:"); isApp {
				err = l.run(openAppCommand(appName, url, player.streamArgs, lp.openFlags))
			} else {
				err = l.tryCommand(lp.path, url, player.streamArgs)
			}
			if err == nil {
				return playerName, nil
			}
			l.logger.Debug("launch path not available", "player", playerName, "path", lp.path, "error", err)
		}
	}

	return "", ErrNoPlayer
}

// tryCommand launches a CLI player if it exists in PATH
func (l *Launcher) tryCommand(command, url string, args []string) error {
	if _, err := l.lookPath(command); err != nil {
		return err
	}
	cmdArgs := append(append([]string{}, args...), url)
	return l.start(exec.Command(command, cmdArgs...))
}

// launchConfigured launches the URL with the configured player
func (l *Launcher) launchConfigured(url string) error {
	args := append([]string{}, l.args...)

	// On macOS, try to launch GUI apps with 'open -a' if command not in PATH
	if l.goos == "darwin" {
		if _, err := l.lookPath(l.command); err != nil {
			var openFlags []string
			if lp, ok := darwinAppPath(l.command); ok {
				openFlags = lp.openFlags
			}
			l.logger.Info("using macOS 'open -a' to launch GUI app", "app", l.command)
			return l.start(openAppCommand(l.command, url, args, openFlags))
		}
	}

	l.logger.Info("launching player", "command", l.command, "args", args, "url", url)
	return l.start(exec.Command(l.command, append(args, url)...))
}

// darwinAppPath finds the registry's "open -a" entry for a configured command
func darwinAppPath(command string) (launchPath, bool) {
	base := strings.ToLower(filepath.Base(command))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cfg, ok := players[base]
	if !ok {
		return launchPath{}, false
	}
	for _, lp := range cfg.platforms["darwin"] {
		if strings.HasPrefix(lp.path, "open-a:") {
			return lp, true
		}
	}
	return launchPath{}, false
}

// openAppCommand builds a macOS "open -a" invocation
func openAppCommand(appName, url string, playerArgs, openFlags []string) *exec.Cmd {
	cmdArgs := append([]string{}, openFlags...)
	cmdArgs = append(cmdArgs, "-a", appName)
	if len(playerArgs) > 0 {
		cmdArgs = append(cmdArgs, "--args")
		cmdArgs = append(cmdArgs, playerArgs...)
	}
	cmdArgs = append(cmdArgs, url)
	return exec.Command("open", cmdArgs...)
}

// launchDefault opens the URL using the system default handler
func (l *Launcher) launchDefault(url string) error {
	var cmd *exec.Cmd

	switch l.goos {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	l.logger.Info("launching with system default", "os", l.goos, "url", url)
	return l.start(cmd)
}
