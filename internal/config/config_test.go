package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func kinds(p ProfileConfig) string {
	var ks []string
	for _, b := range p.Blocks {
		ks = append(ks, b.Kind)
	}
	return strings.Join(ks, ",")
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"bar.fallback_profile", cfg.Bar.FallbackProfile, "minimal"},
		{"bar.render_interval", cfg.Bar.RenderInterval.Duration, time.Duration(0)},
		{"network.interface_prefix", cfg.Network.InterfacePrefix, "enp"},
		{"network.label", cfg.Network.Label, "Eth "},
		{"network.window", cfg.Network.Window.Duration, 10 * time.Second},
		{"volume.step", cfg.Volume.Step, 1},
		{"volume.command", cfg.Volume.Command, "pactl"},
		{"log.retention", cfg.Log.Retention, 20},
		{"log.verbose", cfg.Log.Verbose, false},
		{"notifications.failure_threshold", cfg.Notifications.FailureThreshold, 3},
		{"media.priority", strings.Join(cfg.Media.Priority, ","), "spotify"},
		{"media.ignore", strings.Join(cfg.Media.Ignore, ","), "kdeconnect"},
		{"profiles.DP-2", kinds(cfg.Profiles["DP-2"]), "media,separator,load,separator,volume,separator,network,separator,date,separator,clock"},
		{"profiles.minimal", kinds(cfg.Profiles["minimal"]), "date,separator,clock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		path := writeConfig(t, `
[bar]
render_interval = "500ms"
fallback_profile = "laptop"

[[profiles.laptop.blocks]]
kind = "volume"
every = "1s"
color = "light_red"

[[profiles.laptop.blocks]]
kind = "separator"
every = "never"

[[profiles.laptop.blocks]]
kind = "clock"

[media]
priority = ["mpv", "spotify"]
ignore = []

[network]
interface_prefix = "wl"
label = "Wifi "
window = "5s"

[volume]
step = 5

[log]
retention = 3
verbose = true
`)

		cfg, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}

		laptop := cfg.Profiles["laptop"]
		tests := []struct {
			name string
			got  any
			want any
		}{
			{"bar.render_interval", cfg.Bar.RenderInterval.Duration, 500 * time.Millisecond},
			{"bar.fallback_profile", cfg.Bar.FallbackProfile, "laptop"},
			{"profiles.laptop", kinds(laptop), "volume,separator,clock"},
			{"blocks[0].every", laptop.Blocks[0].Every.Duration, time.Second},
			{"blocks[0].color", laptop.Blocks[0].Color, "light_red"},
			{"blocks[1].every never", laptop.Blocks[1].Every.Never, true},
			{"blocks[2].every unset", laptop.Blocks[2].Every.IsZero(), true},
			{"media.priority", strings.Join(cfg.Media.Priority, ","), "mpv,spotify"},
			{"media.ignore", len(cfg.Media.Ignore), 0},
			{"network.interface_prefix", cfg.Network.InterfacePrefix, "wl"},
			{"network.window", cfg.Network.Window.Duration, 5 * time.Second},
			{"volume.step", cfg.Volume.Step, 5},
			{"volume.command default", cfg.Volume.Command, "pactl"},
			{"log.retention", cfg.Log.Retention, 3},
			{"log.verbose", cfg.Log.Verbose, true},
			{"source", cfg.Source, path},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if tt.got != tt.want {
					t.Errorf("got %v, want %v", tt.got, tt.want)
				}
			})
		}

		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate: %v", err)
		}
	})

	t.Run("built-in profiles survive", func(t *testing.T) {
		path := writeConfig(t, `
[[profiles.HDMI-1.blocks]]
kind = "clock"
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		for _, name := range []string{"DP-2", "minimal", "HDMI-1"} {
			if _, ok := cfg.Profiles[name]; !ok {
				t.Errorf("profile %q missing", name)
			}
		}
	})

	t.Run("file profile replaces built-in", func(t *testing.T) {
		path := writeConfig(t, `
[[profiles.minimal.blocks]]
kind = "clock"
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if got := kinds(cfg.Profiles["minimal"]); got != "clock" {
			t.Errorf("minimal = %s, want clock", got)
		}
	})

	t.Run("unknown keys rejected", func(t *testing.T) {
		path := writeConfig(t, `
[volume]
stepp = 2
`)
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "volume.stepp") {
			t.Errorf("expected unknown key error, got %v", err)
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		path := writeConfig(t, `
[bar]
render_interval = "soon"
`)
		if _, err := Load(path); err == nil {
			t.Error("expected error for invalid duration")
		}
	})

	t.Run("missing file returns error", func(t *testing.T) {
		if _, err := Load("/nonexistent/barline.toml"); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid toml returns error", func(t *testing.T) {
		path := writeConfig(t, "not valid [[[ toml")
		if _, err := Load(path); err == nil {
			t.Error("expected error for invalid TOML")
		}
	})
}

func TestLoadSearch(t *testing.T) {
	t.Run("finds file under XDG_CONFIG_HOME", func(t *testing.T) {
		xdg := t.TempDir()
		dir := filepath.Join(xdg, "barline")
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, FileName), []byte("[volume]\nstep = 7\n"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("XDG_CONFIG_HOME", xdg)
		t.Setenv("HOME", t.TempDir())

		cfg, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Volume.Step != 7 {
			t.Errorf("volume.step = %d, want 7", cfg.Volume.Step)
		}
	})

	t.Run("falls back to defaults", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("HOME", t.TempDir())

		cfg, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Source != "" {
			t.Errorf("source = %q, want empty", cfg.Source)
		}
		if _, ok := cfg.Profiles["DP-2"]; !ok {
			t.Error("expected built-in profiles")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"never render interval", func(c *Config) { c.Bar.RenderInterval = Duration{Never: true} }, "bar.render_interval"},
		{"missing fallback", func(c *Config) { c.Bar.FallbackProfile = "nope" }, "bar.fallback_profile"},
		{"empty profile", func(c *Config) { c.Profiles["empty"] = ProfileConfig{} }, "profiles.empty must list"},
		{"unknown kind", func(c *Config) {
			c.Profiles["x"] = ProfileConfig{Blocks: []BlockConfig{{Kind: "weather"}}}
		}, `kind "weather" is unknown`},
		{"negative every", func(c *Config) {
			c.Profiles["x"] = ProfileConfig{Blocks: []BlockConfig{{Kind: KindClock, Every: Duration{Duration: -time.Second}}}}
		}, "every must be"},
		{"bad color", func(c *Config) {
			c.Profiles["x"] = ProfileConfig{Blocks: []BlockConfig{{Kind: KindClock, Color: "purple-ish"}}}
		}, "is not a palette name"},
		{"zero step", func(c *Config) { c.Volume.Step = 0 }, "volume.step"},
		{"never window", func(c *Config) { c.Network.Window = Duration{Never: true} }, "network.window"},
		{"negative retention", func(c *Config) { c.Log.Retention = -1 }, "log.retention"},
		{"bad url", func(c *Config) { c.Notifications.URL = "ftp://example.com" }, "notifications.url"},
		{"zero threshold", func(c *Config) {
			c.Notifications.URL = "https://ntfy.sh/bar"
			c.Notifications.FailureThreshold = 0
		}, "failure_threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}

	t.Run("joins all issues", func(t *testing.T) {
		cfg := Defaults()
		cfg.Volume.Step = 0
		cfg.Log.Retention = -1
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "volume.step") || !strings.Contains(err.Error(), "log.retention") {
			t.Errorf("expected both issues, got %v", err)
		}
	})
}

func TestProfile(t *testing.T) {
	cfg := Defaults()

	tests := []struct {
		output   string
		wantName string
	}{
		{"DP-2", "DP-2"},
		{"minimal", "minimal"},
		{"HDMI-1", "minimal"},
		{"", "minimal"},
	}
	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			_, name, err := cfg.Profile(tt.output)
			if err != nil {
				t.Fatal(err)
			}
			if name != tt.wantName {
				t.Errorf("Profile(%q) = %q, want %q", tt.output, name, tt.wantName)
			}
		})
	}

	t.Run("no fallback", func(t *testing.T) {
		cfg := Defaults()
		cfg.Bar.FallbackProfile = ""
		if _, _, err := cfg.Profile("HDMI-1"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    Duration
		wantErr bool
	}{
		{"250ms", Duration{Duration: 250 * time.Millisecond}, false},
		{"30s", Duration{Duration: 30 * time.Second}, false},
		{"never", Duration{Never: true}, false},
		{"Never", Duration{Never: true}, false},
		{"0s", Duration{}, false},
		{"fast", Duration{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && d != tt.want {
				t.Errorf("got %+v, want %+v", d, tt.want)
			}
		})
	}

	if s := (Duration{Never: true}).String(); s != "never" {
		t.Errorf("String() = %q", s)
	}
}

func TestInitFile(t *testing.T) {
	t.Run("creates barline.toml", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "barline")
		path, err := InitFile(dir)
		if err != nil {
			t.Fatal(err)
		}

		if filepath.Base(path) != FileName {
			t.Errorf("expected %s, got %s", FileName, filepath.Base(path))
		}

		// The template must load cleanly and describe the defaults.
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("generated file is not valid: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("generated file does not validate: %v", err)
		}
		want := Defaults()
		for _, name := range []string{"DP-2", "minimal"} {
			if got := kinds(cfg.Profiles[name]); got != kinds(want.Profiles[name]) {
				t.Errorf("profile %s = %s, want %s", name, got, kinds(want.Profiles[name]))
			}
		}
		if cfg.Network.Window != want.Network.Window {
			t.Errorf("network.window = %v, want %v", cfg.Network.Window, want.Network.Window)
		}
	})

	t.Run("refuses to overwrite existing", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, FileName)
		if err := os.WriteFile(path, []byte("existing"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := InitFile(dir); err == nil {
			t.Error("expected error when barline.toml already exists")
		}
	})
}
