// Package config parses barline.toml.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
)

// FileName is the configuration file looked up in the user config directory.
const FileName = "barline.toml"

// Block kinds a profile can list.
const (
	KindClock     = "clock"
	KindDate      = "date"
	KindSeparator = "separator"
	KindLoad      = "load"
	KindNetwork   = "network"
	KindMedia     = "media"
	KindVolume    = "volume"
)

// Kinds lists every known block kind.
var Kinds = []string{KindMedia, KindLoad, KindVolume, KindNetwork, KindDate, KindClock, KindSeparator}

// Config is the top-level barline.toml configuration.
type Config struct {
	Bar           BarConfig                `toml:"bar"`
	Profiles      map[string]ProfileConfig `toml:"profiles"`
	Media         MediaConfig              `toml:"media"`
	Network       NetworkConfig            `toml:"network"`
	Volume        VolumeConfig             `toml:"volume"`
	Log           LogConfig                `toml:"log"`
	Notifications NotificationsConfig      `toml:"notifications"`

	// Source is the file the config was read from; empty for defaults.
	Source string `toml:"-"`
}

// BarConfig controls the output loop.
type BarConfig struct {
	RenderInterval  Duration `toml:"render_interval"` // 0 = fastest block cadence
	FallbackProfile string   `toml:"fallback_profile"`
}

// ProfileConfig is the ordered block list for one output.
type ProfileConfig struct {
	Blocks []BlockConfig `toml:"blocks"`
}

// BlockConfig places one block in a profile.
type BlockConfig struct {
	Kind  string   `toml:"kind"`
	Every Duration `toml:"every"` // unset = the kind's default cadence
	Color string   `toml:"color"` // palette name or "#RRGGBB"; empty = block default
}

// MediaConfig controls media player selection.
type MediaConfig struct {
	Priority []string `toml:"priority"`
	Ignore   []string `toml:"ignore"`
}

// NetworkConfig controls the network block.
type NetworkConfig struct {
	InterfacePrefix string   `toml:"interface_prefix"`
	Label           string   `toml:"label"`
	Window          Duration `toml:"window"`
}

// VolumeConfig controls the volume block.
type VolumeConfig struct {
	Step    int    `toml:"step"` // percent per scroll
	Command string `toml:"command"`
}

// LogConfig controls the diagnostics session logs.
type LogConfig struct {
	Dir       string `toml:"dir"`       // empty = DefaultLogDir()
	Retention int    `toml:"retention"` // number of session logs to keep; 0 = unlimited
	Verbose   bool   `toml:"verbose"`
}

// NotificationsConfig controls webhook/ntfy.sh notifications.
type NotificationsConfig struct {
	URL              string `toml:"url"`
	OnFailure        bool   `toml:"on_failure"`
	FailureThreshold int    `toml:"failure_threshold"`
	OnRecover        bool   `toml:"on_recover"`
}

// Validate checks the configuration for issues that would cause confusing
// runtime failures. It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	if c.Bar.RenderInterval.Never {
		errs = append(errs, fmt.Errorf("bar.render_interval must be a duration, not \"never\""))
	}
	if c.Bar.RenderInterval.Duration < 0 {
		errs = append(errs, fmt.Errorf("bar.render_interval must be >= 0 (0 = fastest block cadence)"))
	}
	if _, ok := c.Profiles[c.Bar.FallbackProfile]; !ok {
		errs = append(errs, fmt.Errorf("bar.fallback_profile %q is not a configured profile", c.Bar.FallbackProfile))
	}

	for _, name := range c.ProfileNames() {
		p := c.Profiles[name]
		if len(p.Blocks) == 0 {
			errs = append(errs, fmt.Errorf("profiles.%s must list at least one block", name))
		}
		for i, b := range p.Blocks {
			if !isKind(b.Kind) {
				errs = append(errs, fmt.Errorf("profiles.%s.blocks[%d].kind %q is unknown (one of %s)", name, i, b.Kind, strings.Join(Kinds, ", ")))
			}
			if b.Every.Duration < 0 {
				errs = append(errs, fmt.Errorf("profiles.%s.blocks[%d].every must be >= 0 or \"never\"", name, i))
			}
			if b.Color != "" {
				if _, ok := block.ParseColor(b.Color); !ok {
					errs = append(errs, fmt.Errorf("profiles.%s.blocks[%d].color %q is not a palette name or hex color", name, i, b.Color))
				}
			}
		}
	}

	if c.Network.Window.Never || c.Network.Window.Duration < 0 {
		errs = append(errs, fmt.Errorf("network.window must be a positive duration"))
	}
	if c.Volume.Step < 1 || c.Volume.Step > 100 {
		errs = append(errs, fmt.Errorf("volume.step must be between 1 and 100"))
	}
	if c.Log.Retention < 0 {
		errs = append(errs, fmt.Errorf("log.retention must be >= 0 (0 = unlimited)"))
	}

	if c.Notifications.URL != "" {
		u, parseErr := url.ParseRequestURI(c.Notifications.URL)
		if parseErr != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("notifications.url must be a valid http or https URL"))
		}
		if c.Notifications.FailureThreshold < 1 {
			errs = append(errs, fmt.Errorf("notifications.failure_threshold must be >= 1"))
		}
	}

	return errors.Join(errs...)
}

func isKind(k string) bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ProfileNames returns the configured profile names, sorted.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profile returns the profile for an output name, falling back to
// bar.fallback_profile when the output has none. The returned name is the
// profile actually used.
func (c *Config) Profile(output string) (ProfileConfig, string, error) {
	if p, ok := c.Profiles[output]; ok {
		return p, output, nil
	}
	if p, ok := c.Profiles[c.Bar.FallbackProfile]; ok {
		return p, c.Bar.FallbackProfile, nil
	}
	return ProfileConfig{}, "", fmt.Errorf("config: no profile for output %q and no fallback profile", output)
}

// Has reports whether the profile contains a block of the given kind.
func (p ProfileConfig) Has(kind string) bool {
	for _, b := range p.Blocks {
		if b.Kind == kind {
			return true
		}
	}
	return false
}

// Defaults returns a Config with the built-in profiles and settings.
func Defaults() Config {
	return Config{
		Bar: BarConfig{
			FallbackProfile: "minimal",
		},
		Profiles: builtinProfiles(),
		Media: MediaConfig{
			Priority: []string{"spotify"},
			Ignore:   []string{"kdeconnect"},
		},
		Network: NetworkConfig{
			InterfacePrefix: "enp",
			Label:           "Eth ",
			Window:          Duration{Duration: 10 * time.Second},
		},
		Volume: VolumeConfig{
			Step:    1,
			Command: "pactl",
		},
		Log: LogConfig{
			Retention: 20,
		},
		Notifications: NotificationsConfig{
			OnFailure:        true,
			FailureThreshold: 3,
			OnRecover:        true,
		},
	}
}

// builtinProfiles returns the "DP-2" full bar and the "minimal" fallback.
func builtinProfiles() map[string]ProfileConfig {
	sep := BlockConfig{Kind: KindSeparator}
	return map[string]ProfileConfig{
		"DP-2": {Blocks: []BlockConfig{
			{Kind: KindMedia}, sep,
			{Kind: KindLoad}, sep,
			{Kind: KindVolume}, sep,
			{Kind: KindNetwork}, sep,
			{Kind: KindDate}, sep,
			{Kind: KindClock},
		}},
		"minimal": {Blocks: []BlockConfig{
			{Kind: KindDate}, sep,
			{Kind: KindClock},
		}},
	}
}

// Load reads barline.toml from the given path. If path is empty, the user
// config directories are searched and, when no file exists, the defaults are
// returned. Returns an error if the file contains unknown keys (likely typos).
// Profiles defined in the file replace built-in profiles of the same name.
func Load(path string) (*Config, error) {
	if path == "" {
		path = findConfig()
		if path == "" {
			cfg := Defaults()
			return &cfg, nil
		}
	}

	cfg := Defaults()
	cfg.Profiles = nil
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, joinKeys(keys))
	}

	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]ProfileConfig)
	}
	for name, p := range builtinProfiles() {
		if _, ok := cfg.Profiles[name]; !ok {
			cfg.Profiles[name] = p
		}
	}
	cfg.Source = path

	return &cfg, nil
}

// joinKeys formats a slice of key names for display.
func joinKeys(keys []string) string {
	return strings.Join(keys, ", ")
}

// Dir returns the barline config directory: $XDG_CONFIG_HOME/barline, or
// ~/.config/barline.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "barline"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: home directory: %w", err)
	}
	return filepath.Join(home, ".config", "barline"), nil
}

// DefaultLogDir returns $XDG_STATE_HOME/barline/logs, or
// ~/.local/state/barline/logs.
func DefaultLogDir() (string, error) {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "barline", "logs"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", "barline", "logs"), nil
}

// findConfig returns the first existing barline.toml in the search order,
// or "".
func findConfig() string {
	var candidates []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, "barline", FileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "barline", FileName))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// InitFile writes a default barline.toml template to the given directory,
// creating it if needed.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("config: create %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}

const template = `# barline.toml: status line configuration
# Looked up in $XDG_CONFIG_HOME/barline/ or ~/.config/barline/.

[bar]
render_interval = "0s"        # 0 = fastest block cadence (floor 50ms)
fallback_profile = "minimal"  # profile for outputs without their own

# One profile per output name (barline <output>). Blocks render left to right.
# every: update cadence ("250ms", "30s", "never"); omit for the kind's default.
# color: palette name (red, light_blue, ...) or "#RRGGBB".
[[profiles.DP-2.blocks]]
kind = "media"
[[profiles.DP-2.blocks]]
kind = "separator"
[[profiles.DP-2.blocks]]
kind = "load"
[[profiles.DP-2.blocks]]
kind = "separator"
[[profiles.DP-2.blocks]]
kind = "volume"
[[profiles.DP-2.blocks]]
kind = "separator"
[[profiles.DP-2.blocks]]
kind = "network"
[[profiles.DP-2.blocks]]
kind = "separator"
[[profiles.DP-2.blocks]]
kind = "date"
[[profiles.DP-2.blocks]]
kind = "separator"
[[profiles.DP-2.blocks]]
kind = "clock"

[[profiles.minimal.blocks]]
kind = "date"
[[profiles.minimal.blocks]]
kind = "separator"
[[profiles.minimal.blocks]]
kind = "clock"

[media]
priority = ["spotify"]   # preferred players when several are in the same state
ignore = ["kdeconnect"]  # players never shown

[network]
interface_prefix = "enp"
label = "Eth "
window = "10s"           # rate averaging window

[volume]
step = 1                 # percent per scroll
command = "pactl"

[log]
dir = ""                 # empty = $XDG_STATE_HOME/barline/logs
retention = 20           # number of session logs to keep; 0 = unlimited
verbose = false          # also log clicks no block handles

[notifications]
url = ""                 # ntfy.sh topic URL or any HTTP webhook (empty = disabled)
on_failure = true        # notify when a block keeps failing
failure_threshold = 3    # consecutive failed updates before notifying
on_recover = true        # notify when a failing block recovers
`
