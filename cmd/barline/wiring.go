package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.Barline/internal/bar"
	"github.com/LISSConsulting/LISSTech.Barline/internal/blocks"
	"github.com/LISSConsulting/LISSTech.Barline/internal/config"
	"github.com/LISSConsulting/LISSTech.Barline/internal/notify"
	"github.com/LISSConsulting/LISSTech.Barline/internal/protocol"
	"github.com/LISSConsulting/LISSTech.Barline/internal/store"
	"github.com/LISSConsulting/LISSTech.Barline/internal/tui"
)

// eventBuffer is the capacity of the log entry channel. Entries beyond it
// are dropped by the engine.
const eventBuffer = 256

// loadProfile loads the config and resolves the profile for output.
func loadProfile(cfgPath, output string) (*config.Config, config.ProfileConfig, string, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, config.ProfileConfig{}, "", err
	}
	profile, name, err := cfg.Profile(output)
	if err != nil {
		return nil, config.ProfileConfig{}, "", err
	}
	return cfg, profile, name, nil
}

// buildRegistry connects the data sources the profile needs and builds its
// registry. The returned cleanup releases those sources.
func buildRegistry(cfg *config.Config, profile config.ProfileConfig) (*bar.Registry, func(), error) {
	var src blocks.Sources
	cleanup := func() {}

	if profile.Has(config.KindMedia) {
		players, err := blocks.ConnectMPRIS()
		if err != nil {
			return nil, cleanup, err
		}
		src.Players = players
		cleanup = func() { _ = players.Close() }
	}
	if profile.Has(config.KindVolume) {
		mixer, err := blocks.NewPactl(cfg.Volume.Command)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		src.Mixer = mixer
	}

	specs, err := blocks.Build(profile, cfg, src)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	reg, err := bar.NewRegistry(specs)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return reg, cleanup, nil
}

// executeBar runs the status line for output over stdin/stdout until
// SIGINT or SIGTERM.
func executeBar(cfgPath, output string) error {
	cfg, profile, name, err := loadProfile(cfgPath, output)
	if err != nil {
		return err
	}
	reg, cleanup, err := buildRegistry(cfg, profile)
	if err != nil {
		return err
	}
	defer cleanup()

	registerQuitHandler()
	return runBar(signalContext(), cfg, name, reg, os.Stdin, os.Stdout, os.Stderr)
}

// runBar drives reg over the bar protocol and drains its log entries to
// errOut, the session log and the notifier. A done ctx is a clean stop.
func runBar(ctx context.Context, cfg *config.Config, profile string, reg *bar.Registry, in io.Reader, out, errOut io.Writer) error {
	printer := newLogPrinter(errOut, cfg.Log.Verbose)
	hooks := []func(bar.LogEntry){printer.print}

	sessionLog, err := openSessionLog(cfg)
	if err != nil {
		printer.print(bar.LogEntry{Kind: bar.LogInfo, Timestamp: time.Now(), Message: "session log disabled: " + err.Error()})
	} else {
		defer closeSessionLog(sessionLog, printer)
		printer.print(bar.LogEntry{Kind: bar.LogInfo, Timestamp: time.Now(), Message: "Session log at " + sessionLog.Path()})
		hooks = append(hooks, func(e bar.LogEntry) { _ = sessionLog.Append(e) })
	}

	if n := cfg.Notifications; n.URL != "" {
		notifier := notify.New(n.URL, "barline "+profile, n.OnFailure, n.FailureThreshold, n.OnRecover)
		hooks = append(hooks, notifier.Hook)
	}

	events := make(chan bar.LogEntry, eventBuffer)
	stop := make(chan struct{})
	drained := drainEvents(events, stop, func(e bar.LogEntry) {
		for _, h := range hooks {
			h(e)
		}
	})

	b := bar.New(reg, protocol.NewEncoder(out), bar.Options{
		RenderInterval: cfg.Bar.RenderInterval.Duration,
		Events:         events,
	})
	runErr := b.Run(ctx, protocol.NewDecoder(in))

	close(stop)
	<-drained

	if ctx.Err() != nil && errors.Is(runErr, ctx.Err()) {
		return nil
	}
	return runErr
}

// drainEvents hands every entry from events to handle until stop is closed,
// then flushes what is buffered. The events channel is never closed: the
// router may still hold it after the bar stops.
func drainEvents(events <-chan bar.LogEntry, stop <-chan struct{}, handle func(bar.LogEntry)) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case e := <-events:
				handle(e)
			case <-stop:
				for {
					select {
					case e := <-events:
						handle(e)
					default:
						return
					}
				}
			}
		}
	}()
	return done
}

// openSessionLog creates this process's session log and prunes old ones.
func openSessionLog(cfg *config.Config) (*store.JSONL, error) {
	dir, err := logDir(cfg)
	if err != nil {
		return nil, err
	}
	j, err := store.NewJSONL(dir)
	if err != nil {
		return nil, err
	}
	if err := store.EnforceRetention(dir, cfg.Log.Retention); err != nil {
		_ = j.Close()
		return nil, err
	}
	return j, nil
}

// closeSessionLog prints the session summary and closes the log.
func closeSessionLog(j store.Store, p *logPrinter) {
	if sum, err := j.SessionSummary(); err == nil {
		msg := fmt.Sprintf("session %s: %d entries, %d incidents", sum.SessionID, sum.Entries, sum.Incidents)
		if len(sum.Open) > 0 {
			msg += ", still failing: " + strings.Join(sum.Open, ", ")
		}
		p.print(bar.LogEntry{Kind: bar.LogInfo, Timestamp: time.Now(), Message: msg})
	}
	_ = j.Close()
}

// executePreview runs the bar for output inside the terminal preview. Frames
// go to the TUI instead of stdout and clicks come from key bindings.
func executePreview(cfgPath, output string) error {
	cfg, profile, name, err := loadProfile(cfgPath, output)
	if err != nil {
		return err
	}
	reg, cleanup, err := buildRegistry(cfg, profile)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(signalContext())
	defer cancel()

	events := make(chan bar.LogEntry, eventBuffer)
	sink := tui.NewFrameSink()
	b := bar.New(reg, sink, bar.Options{
		RenderInterval: cfg.Bar.RenderInterval.Duration,
		Events:         events,
	})

	runErr := make(chan error, 1)
	go func() {
		defer sink.Close()
		runErr <- b.Run(ctx, nil)
	}()

	model := tui.New(ctx, sink.Frames(), events, b.Router, tui.Options{
		Profile:  name,
		Blocks:   reg.Len(),
		Interval: b.Renderer.Interval(),
	})
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	cancel()
	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
