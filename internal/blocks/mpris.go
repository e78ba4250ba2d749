package blocks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	mprisPrefix = "org.mpris.MediaPlayer2."
	mprisPath   = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	playerIface = "org.mpris.MediaPlayer2.Player"
	propsGet    = "org.freedesktop.DBus.Properties.Get"
	propsSet    = "org.freedesktop.DBus.Properties.Set"
)

// MPRIS lists media players registered on the D-Bus session bus.
type MPRIS struct {
	conn *dbus.Conn
}

// ConnectMPRIS connects to the session bus. The connection is released by
// Close.
func ConnectMPRIS() (*MPRIS, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("mpris: connect session bus: %w", err)
	}
	return &MPRIS{conn: conn}, nil
}

// Close closes the bus connection.
func (m *MPRIS) Close() error { return m.conn.Close() }

// List returns every bus name under the MPRIS prefix.
func (m *MPRIS) List(ctx context.Context) ([]Player, error) {
	var names []string
	if err := m.conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		return nil, fmt.Errorf("mpris: list names: %w", err)
	}

	var players []Player
	for _, name := range mprisNames(names) {
		players = append(players, &mprisPlayer{bus: name, obj: m.conn.Object(name, mprisPath)})
	}
	return players, nil
}

// mprisNames keeps the bus names that belong to MPRIS players.
func mprisNames(names []string) []string {
	var out []string
	for _, name := range names {
		if strings.HasPrefix(name, mprisPrefix) && len(name) > len(mprisPrefix) {
			out = append(out, name)
		}
	}
	return out
}

type mprisPlayer struct {
	bus string
	obj dbus.BusObject
}

func (p *mprisPlayer) Identity() string { return strings.TrimPrefix(p.bus, mprisPrefix) }

func (p *mprisPlayer) property(ctx context.Context, name string) (dbus.Variant, error) {
	var v dbus.Variant
	if err := p.obj.CallWithContext(ctx, propsGet, 0, playerIface, name).Store(&v); err != nil {
		return v, fmt.Errorf("get %s: %w", name, err)
	}
	return v, nil
}

func (p *mprisPlayer) Status(ctx context.Context) (PlaybackStatus, error) {
	v, err := p.property(ctx, "PlaybackStatus")
	if err != nil {
		return "", err
	}
	s, _ := v.Value().(string)
	return PlaybackStatus(s), nil
}

func (p *mprisPlayer) Metadata(ctx context.Context) (Metadata, error) {
	v, err := p.property(ctx, "Metadata")
	if err != nil {
		return Metadata{}, err
	}
	m, ok := v.Value().(map[string]dbus.Variant)
	if !ok {
		return Metadata{}, fmt.Errorf("metadata has type %s", v.Signature())
	}
	return parseMetadata(m), nil
}

func (p *mprisPlayer) Position(ctx context.Context) (time.Duration, error) {
	v, err := p.property(ctx, "Position")
	if err != nil {
		return 0, err
	}
	us, ok := microseconds(v)
	if !ok {
		return 0, fmt.Errorf("position has type %s", v.Signature())
	}
	return us, nil
}

func (p *mprisPlayer) Volume(ctx context.Context) (float64, error) {
	v, err := p.property(ctx, "Volume")
	if err != nil {
		return 0, err
	}
	f, ok := v.Value().(float64)
	if !ok {
		return 0, fmt.Errorf("volume has type %s", v.Signature())
	}
	return f, nil
}

func (p *mprisPlayer) SetVolume(ctx context.Context, vol float64) error {
	return p.obj.CallWithContext(ctx, propsSet, 0, playerIface, "Volume", dbus.MakeVariant(vol)).Err
}

func (p *mprisPlayer) PlayPause(ctx context.Context) error { return p.call(ctx, "PlayPause") }
func (p *mprisPlayer) Previous(ctx context.Context) error  { return p.call(ctx, "Previous") }
func (p *mprisPlayer) Next(ctx context.Context) error      { return p.call(ctx, "Next") }

func (p *mprisPlayer) call(ctx context.Context, method string) error {
	return p.obj.CallWithContext(ctx, playerIface+"."+method, 0).Err
}

// parseMetadata reads the xesam/mpris keys the media block shows. Missing
// or mistyped keys are left empty.
func parseMetadata(m map[string]dbus.Variant) Metadata {
	var md Metadata
	if v, ok := m["xesam:title"]; ok {
		md.Title, _ = v.Value().(string)
	}
	if v, ok := m["xesam:album"]; ok {
		md.Album, _ = v.Value().(string)
	}
	if v, ok := m["xesam:artist"]; ok {
		switch a := v.Value().(type) {
		case []string:
			md.Artists = a
		case string:
			md.Artists = []string{a}
		}
	}
	if v, ok := m["mpris:length"]; ok {
		md.Length, _ = microseconds(v)
	}
	return md
}

// microseconds converts an MPRIS time value. Players disagree on whether it
// is signed.
func microseconds(v dbus.Variant) (time.Duration, bool) {
	switch n := v.Value().(type) {
	case int64:
		return time.Duration(n) * time.Microsecond, true
	case uint64:
		return time.Duration(n) * time.Microsecond, true
	case int32:
		return time.Duration(n) * time.Microsecond, true
	case uint32:
		return time.Duration(n) * time.Microsecond, true
	}
	return 0, false
}
