package practice

import (
	"math"
	"sync"

	"github.com/jetctf/jetctf-web/bot"
	"github.com/jetctf/jetctf-web/game"
)

type trailKey struct {
	name string
	team int
}

// Library is the in-memory trail set, loaded from the RouteStore at
// startup and shared by every bot's playback player.
type Library struct {
	mu     sync.RWMutex
	trails map[trailKey]game.RouteTrail
}

// NewLibrary builds a library from loaded trails.
func NewLibrary(trails []game.RouteTrail) *Library {
	l := &Library{trails: make(map[trailKey]game.RouteTrail, len(trails))}
	for _, rt := range trails {
		l.trails[trailKey{rt.Name, rt.Team}] = rt
	}
	return l
}

// Trail returns the named trail for a team.
func (l *Library) Trail(name string, team int) (game.RouteTrail, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rt, ok := l.trails[trailKey{name, team}]
	return rt, ok
}

// Add inserts or replaces a trail.
func (l *Library) Add(rt game.RouteTrail) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trails[trailKey{rt.Name, rt.Team}] = rt
}

// Names lists the stored trail names for a team.
func (l *Library) Names(team int) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var names []string
	for k := range l.trails {
		if k.team == team {
			names = append(names, k.name)
		}
	}
	return names
}

// PlaybackPawn is the body-control surface playback needs: teleporting
// the pawn along the recorded path and managing its health.
type PlaybackPawn interface {
	Position() game.Vec3
	SetPosition(p game.Vec3)
	SetVelocity(v game.Vec3)
	Health() float64
	SetHealth(h float64)
	Kill()
}

// Player drags one pawn along a recorded route trail. It implements
// the bot package's RoutePlayer so a bot can start and stop its own
// playback without knowing how trails are stored or interpolated.
type Player struct {
	lib   *Library
	pawn  PlaybackPawn
	clock bot.Clock

	// onFinished fires when the route plays out to its last marker;
	// onInterrupted when damage cuts the playback short.
	onFinished    func()
	onInterrupted func()

	active     bool
	route      game.RouteTrail
	opts       bot.PlaybackOptions
	marker     int
	startTime  float64
	lastHealth float64
}

// NewPlayer creates a playback player for one pawn.
func NewPlayer(lib *Library, pawn PlaybackPawn, clock bot.Clock) *Player {
	return &Player{lib: lib, pawn: pawn, clock: clock}
}

// SetOnFinished registers the route-completed hook.
func (p *Player) SetOnFinished(fn func()) { p.onFinished = fn }

// SetOnInterrupted registers the damage-interruption hook.
func (p *Player) SetOnInterrupted(fn func()) { p.onInterrupted = fn }

// RouteByName looks a trail up in the library.
func (p *Player) RouteByName(name string, team int) (game.RouteTrail, bool) {
	return p.lib.Trail(name, team)
}

// StartPlayback begins dragging the pawn along the trail from the
// requested marker.
func (p *Player) StartPlayback(rt game.RouteTrail, opts bot.PlaybackOptions) {
	if len(rt.Markers) == 0 {
		return
	}
	p.route = rt
	p.opts = opts
	p.marker = opts.StartMarker
	if p.marker < 0 {
		p.marker = 0
	}
	if p.marker >= len(rt.Markers) {
		p.marker = len(rt.Markers) - 1
	}
	p.startTime = p.clock.Now()
	p.lastHealth = p.pawn.Health()
	p.active = true
	p.place(p.marker)
}

// StopPlayback halts playback, leaving the pawn wherever it is.
func (p *Player) StopPlayback() {
	p.active = false
}

// CurrentMarker is the marker most recently reached, valid after a
// playback has started.
func (p *Player) CurrentMarker() int { return p.marker }

// Active reports whether a playback is in progress.
func (p *Player) Active() bool { return p.active }

// Tick advances the playback to the marker matching elapsed time and
// teleports the pawn there, interpolating between markers so 20Hz
// hosting doesn't look like a slideshow.
func (p *Player) Tick() {
	if !p.active {
		return
	}
	// Damage handling: a combat bot's route ends the moment someone
	// knocks it off the path; a drill bot glued to its path plays on.
	if p.pawn.Health() < p.lastHealth && !p.opts.ResumeAfterDamage {
		p.active = false
		if p.onInterrupted != nil {
			p.onInterrupted()
		}
		return
	}
	p.lastHealth = p.pawn.Health()

	step := p.route.MarkerInterval * float64(p.route.Modulus)
	if step <= 0 {
		p.active = false
		return
	}
	elapsed := p.clock.Now() - p.startTime
	pos := float64(p.opts.StartMarker) + elapsed/step
	idx := int(pos)
	if idx >= len(p.route.Markers)-1 {
		p.finish()
		return
	}
	p.marker = idx

	frac := pos - math.Floor(pos)
	a := p.route.Markers[idx]
	b := p.route.Markers[idx+1]
	loc := a.Location.Add(b.Location.Sub(a.Location).Scale(frac))
	p.pawn.SetPosition(loc)
	p.pawn.SetVelocity(b.Location.Sub(a.Location).Scale(1 / step))
	if p.opts.RestoreHealthOnTeleport {
		p.pawn.SetHealth(100.0)
		p.lastHealth = 100.0
	}
}

func (p *Player) place(idx int) {
	m := p.route.Markers[idx]
	p.pawn.SetPosition(m.Location)
	p.pawn.SetVelocity(game.Vec3{})
}

func (p *Player) finish() {
	p.marker = len(p.route.Markers) - 1
	p.place(p.marker)
	p.active = false
	if !p.opts.StayAliveAfterEnd {
		p.pawn.Kill()
		return
	}
	if p.onFinished != nil {
		p.onFinished()
	}
}
