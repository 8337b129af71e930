package bot

import (
	"math/rand"

	"github.com/jetctf/jetctf-web/game"
)

// Test doubles for the collaborator interfaces. Everything is plain
// settable state so scenarios read as data.

type fakeClock struct{ now float64 }

func (c *fakeClock) Now() float64       { return c.now }
func (c *fakeClock) advance(dt float64) { c.now += dt }

type fakeWorld struct {
	groundZ float64
	// losHit, when set, is returned from every trace; otherwise the
	// trace reaches its destination.
	losHit   *game.Vec3
	noGround bool
}

func (w *fakeWorld) GroundHeight(p game.Vec3) (float64, bool) {
	if w.noGround {
		return 0, false
	}
	return w.groundZ, true
}

func (w *fakeWorld) LineOfSight(from, to game.Vec3) game.Vec3 {
	if w.losHit != nil {
		return *w.losHit
	}
	return to
}

type fakeMatch struct {
	flags  map[int]FlagStatus
	stands map[int]game.Vec3
}

func newFakeMatch() *fakeMatch {
	redStand := game.Vec3{X: -40000}
	blueStand := game.Vec3{X: 40000}
	return &fakeMatch{
		flags: map[int]FlagStatus{
			game.TeamRed:  {Location: redStand, Home: true},
			game.TeamBlue: {Location: blueStand, Home: true},
		},
		stands: map[int]game.Vec3{
			game.TeamRed:  redStand,
			game.TeamBlue: blueStand,
		},
	}
}

func (m *fakeMatch) Flag(team int) FlagStatus { return m.flags[team] }
func (m *fakeMatch) Stand(team int) game.Vec3 { return m.stands[team] }

type fakeEntity struct {
	id          EntityID
	team        int
	alive       bool
	health      float64
	pos         game.Vec3
	vel         game.Vec3
	holdingFlag bool
}

func (e *fakeEntity) ID() EntityID        { return e.id }
func (e *fakeEntity) Team() int           { return e.team }
func (e *fakeEntity) Alive() bool         { return e.alive }
func (e *fakeEntity) Health() float64     { return e.health }
func (e *fakeEntity) Position() game.Vec3 { return e.pos }
func (e *fakeEntity) Velocity() game.Vec3 { return e.vel }
func (e *fakeEntity) HoldingFlag() bool   { return e.holdingFlag }

type fakeRoster struct{ entities map[EntityID]*fakeEntity }

func newFakeRoster() *fakeRoster { return &fakeRoster{entities: map[EntityID]*fakeEntity{}} }

func (r *fakeRoster) add(e *fakeEntity) { r.entities[e.id] = e }

func (r *fakeRoster) Lookup(id EntityID) (Entity, bool) {
	e, ok := r.entities[id]
	if !ok {
		return nil, false
	}
	return e, true
}

// fakePawn implements the full actuation surface and records what the
// AI asked for.
type fakePawn struct {
	fakeEntity
	energy float64
	look   game.Rotator

	moveForward float64
	moveRight   float64
	skating     bool
	jetting     bool
	trigger     bool
	weaponSlot  int
	weapon      WeaponState
	hasWeapon   bool
	suicided    bool

	triggerSets []bool
}

func newFakePawn(id EntityID, team int) *fakePawn {
	return &fakePawn{
		fakeEntity: fakeEntity{id: id, team: team, alive: true, health: 100},
		energy:     100,
		weapon:     WeaponState{Kind: game.WeaponDisc, Ready: true},
		hasWeapon:  true,
	}
}

func (p *fakePawn) Energy() float64          { return p.energy }
func (p *fakePawn) SetEnergy(v float64)      { p.energy = v }
func (p *fakePawn) Look() game.Rotator       { return p.look }
func (p *fakePawn) SetLook(r game.Rotator)   { p.look = r }
func (p *fakePawn) MoveForward(v float64)    { p.moveForward = v }
func (p *fakePawn) MoveRight(v float64)      { p.moveRight = v }
func (p *fakePawn) Skate()                   { p.skating = true }
func (p *fakePawn) StopSkating()             { p.skating = false }
func (p *fakePawn) Jump()                    {}
func (p *fakePawn) StopJumping()             {}
func (p *fakePawn) Jet()                     { p.jetting = true }
func (p *fakePawn) StopJetting()             { p.jetting = false }
func (p *fakePawn) SwitchWeapon(slot int)    { p.weaponSlot = slot }
func (p *fakePawn) Suicide()                 { p.suicided = true; p.alive = false; p.health = 0 }

func (p *fakePawn) SetTrigger(on bool) {
	p.trigger = on
	p.triggerSets = append(p.triggerSets, on)
}

func (p *fakePawn) Weapon() (WeaponState, bool) { return p.weapon, p.hasWeapon }

// fakeRoutes is a RoutePlayer with canned trails and call recording.
type fakeRoutes struct {
	trails map[string]game.RouteTrail

	started     bool
	startedWith PlaybackOptions
	stopped     bool
	marker      int
}

func newFakeRoutes(trails ...game.RouteTrail) *fakeRoutes {
	m := map[string]game.RouteTrail{}
	for _, rt := range trails {
		m[rt.Name] = rt
	}
	return &fakeRoutes{trails: m}
}

func (r *fakeRoutes) RouteByName(name string, team int) (game.RouteTrail, bool) {
	rt, ok := r.trails[name]
	return rt, ok
}

func (r *fakeRoutes) StartPlayback(rt game.RouteTrail, opts PlaybackOptions) {
	r.started = true
	r.startedWith = opts
}

func (r *fakeRoutes) StopPlayback()      { r.stopped = true }
func (r *fakeRoutes) CurrentMarker() int { return r.marker }

// testRig bundles a bot with all its fakes.
type testRig struct {
	bot    *Bot
	clock  *fakeClock
	world  *fakeWorld
	match  *fakeMatch
	roster *fakeRoster
	routes *fakeRoutes
	pawn   *fakePawn
}

func newTestRig(cfg Config) *testRig {
	clock := &fakeClock{}
	world := &fakeWorld{}
	match := newFakeMatch()
	roster := newFakeRoster()
	routes := newFakeRoutes()
	pawn := newFakePawn(1, game.TeamRed)
	roster.add(&pawn.fakeEntity)

	b := New(cfg, Deps{
		Clock:  clock,
		Rand:   rand.New(rand.NewSource(1)),
		World:  world,
		Match:  match,
		Routes: routes,
		Roster: roster,
		Pawn:   pawn,
	})
	b.Enable()
	return &testRig{bot: b, clock: clock, world: world, match: match, roster: roster, routes: routes, pawn: pawn}
}

// addEnemy registers a living blue-team enemy and reports it seen now.
func (r *testRig) addEnemy(id EntityID, pos game.Vec3) *fakeEntity {
	e := &fakeEntity{id: id, team: game.TeamBlue, alive: true, health: 100, pos: pos}
	r.roster.add(e)
	return e
}

func (r *testRig) see(id EntityID) {
	r.bot.OnPawnSeen(id)
}
