package blocks

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
)

// PlaybackStatus is the state a media player reports.
type PlaybackStatus string

const (
	Playing PlaybackStatus = "Playing"
	Paused  PlaybackStatus = "Paused"
	Stopped PlaybackStatus = "Stopped"
)

func (s PlaybackStatus) rank() int {
	switch s {
	case Playing:
		return 0
	case Paused:
		return 1
	default:
		return 2
	}
}

func (s PlaybackStatus) icon() string {
	switch s {
	case Playing:
		return "▶ "
	case Paused:
		return "⏸ "
	default:
		return "⏹ "
	}
}

// Metadata describes the current track. Length is zero when unknown.
type Metadata struct {
	Title   string
	Artists []string
	Album   string
	Length  time.Duration
}

// Player is one controllable media player.
type Player interface {
	// Identity is the player's name on the bus without the MPRIS prefix,
	// e.g. "spotify" or "firefox.instance_1_42".
	Identity() string
	Status(ctx context.Context) (PlaybackStatus, error)
	Metadata(ctx context.Context) (Metadata, error)
	Position(ctx context.Context) (time.Duration, error)
	Volume(ctx context.Context) (float64, error)
	SetVolume(ctx context.Context, v float64) error
	PlayPause(ctx context.Context) error
	Previous(ctx context.Context) error
	Next(ctx context.Context) error
}

// Players enumerates the media players currently available.
type Players interface {
	List(ctx context.Context) ([]Player, error)
}

// MediaOptions configures player selection.
type MediaOptions struct {
	Priority []string // preferred players, most preferred first
	Ignore   []string // players never shown or controlled
}

// volumeStep is the multiplicative factor one scroll applies to a player's
// volume.
const volumeStep = 1.05

// Media shows and controls the most relevant media player.
type Media struct {
	block.Base
	players Players
	opts    MediaOptions
	segs    []block.Segment
}

// NewMedia creates a media block over players.
func NewMedia(players Players, opts MediaOptions) *Media {
	return &Media{Base: block.Base{BlockName: "media"}, players: players, opts: opts}
}

func (m *Media) Render() []block.Segment {
	out := make([]block.Segment, len(m.segs))
	copy(out, m.segs)
	return out
}

func (m *Media) Update(ctx context.Context) error {
	p, err := m.active(ctx)
	if err != nil {
		return err
	}
	if p == nil {
		m.segs = []block.Segment{block.NewSegment("media_error", "No player found", m.Color())}
		return nil
	}

	md, err := p.Metadata(ctx)
	if err != nil {
		m.segs = []block.Segment{block.NewSegment("media_error", "No song metadata found", m.Color())}
		return nil
	}

	status, _ := p.Status(ctx)
	position := "?:??"
	if pos, err := p.Position(ctx); err == nil {
		position = formatTrackTime(pos)
	}
	length := "?:??"
	if md.Length > 0 {
		length = formatTrackTime(md.Length)
	}

	title := orDefault(md.Title, "Unknown Title")
	artist := orDefault(strings.Join(md.Artists, ", "), "Unknown Artist")
	album := orDefault(md.Album, "Unknown Album")

	m.segs = []block.Segment{
		block.NewSegment("media_status", status.icon(), block.White),
		block.NewSegment("media_title", title+"  ", block.Red),
		block.NewSegment("media_artist", artist+"  ", block.Yellow),
		block.NewSegment("media_album", album+"  ", block.Blue),
		block.NewSegment("media_progress", position+"/"+length, block.Green),
	}
	return nil
}

func (m *Media) HandleInput(ctx context.Context, ev block.Event) (bool, error) {
	var act func(Player) error
	switch ev.Button {
	case block.ButtonLeft:
		act = func(p Player) error { return p.PlayPause(ctx) }
	case block.ButtonMiddle, block.ButtonBack:
		act = func(p Player) error { return p.Previous(ctx) }
	case block.ButtonRight, block.ButtonForward:
		act = func(p Player) error { return p.Next(ctx) }
	case block.ButtonScrollUp:
		act = func(p Player) error {
			v, err := p.Volume(ctx)
			if err != nil {
				return err
			}
			return p.SetVolume(ctx, math.Max(v, 0.01)*volumeStep)
		}
	case block.ButtonScrollDown:
		act = func(p Player) error {
			v, err := p.Volume(ctx)
			if err != nil {
				return err
			}
			return p.SetVolume(ctx, v/volumeStep)
		}
	default:
		return false, nil
	}

	p, err := m.active(ctx)
	if err != nil || p == nil {
		return false, err
	}
	if err := act(p); err != nil {
		return false, fmt.Errorf("media %s: %w", p.Identity(), err)
	}
	return true, nil
}

// active picks the player to show: ignored players are skipped, then
// playing beats paused beats anything else, then priority order, then name.
func (m *Media) active(ctx context.Context) (Player, error) {
	all, err := m.players.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	type candidate struct {
		p        Player
		rank     int
		priority int
	}
	var cands []candidate
	for _, p := range all {
		id := playerName(p.Identity())
		if contains(m.opts.Ignore, id) {
			continue
		}
		status, err := p.Status(ctx)
		if err != nil {
			status = ""
		}
		prio := len(m.opts.Priority)
		for i, name := range m.opts.Priority {
			if name == id {
				prio = i
				break
			}
		}
		cands = append(cands, candidate{p: p, rank: status.rank(), priority: prio})
	}
	if len(cands) == 0 {
		return nil, nil
	}

	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		return a.p.Identity() < b.p.Identity()
	})
	return cands[0].p, nil
}

// playerName strips the instance suffix from an identity:
// "kdeconnect.mpris_000001" becomes "kdeconnect".
func playerName(identity string) string {
	name, _, _ := strings.Cut(identity, ".")
	return name
}

// formatTrackTime renders d as "mm:ss", or "h:mm:ss" from one hour on.
func formatTrackTime(d time.Duration) string {
	s := int64(d / time.Second)
	if s >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", s/3600, s/60%60, s%60)
	}
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
