package server

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/jetctf/jetctf-web/bot"
	"github.com/jetctf/jetctf-web/game"
	"github.com/jetctf/jetctf-web/practice"
)

// Options configures a hosted match.
type Options struct {
	// Seed fixes the server's random stream; zero seeds from time.
	Seed int64
	// GroundZ is the arena's ground height.
	GroundZ float64
	// RedStand and BlueStand place the flag stands.
	RedStand  game.Vec3
	BlueStand game.Vec3
}

// DefaultOptions places the stands at opposite ends of the arena.
func DefaultOptions() Options {
	return Options{
		RedStand:  game.Vec3{X: -40000, Y: 0, Z: 0},
		BlueStand: game.Vec3{X: 40000, Y: 0, Z: 0},
	}
}

// Server hosts one match: it owns the simulation state, steps it at a
// fixed rate, runs every bot's decision loop on the slower cadence, and
// feeds spectator clients. All simulation state is guarded by mu.
type Server struct {
	mu sync.Mutex

	rng *rand.Rand
	// now is simulated seconds since the match started. Bots and
	// playback read it through the Clock interface.
	now          float64
	frame        uint64
	lastDecision float64

	world  *FlatWorld
	match  *MatchState
	lib    *practice.Library
	data   practice.Data
	drills *practice.DrillRunner

	pawns        []*SimPawn
	bots         map[bot.EntityID]*botEntry
	players      map[bot.EntityID]*SimPawn
	projectiles  []*projectile
	nextEntityID bot.EntityID

	clients      map[int]*Client
	register     chan *Client
	unregister   chan *Client
	nextClientID int

	done chan struct{}
}

// NewServer builds a match server over loaded practice data and a
// route library.
func NewServer(opts Options, data practice.Data, lib *practice.Library) *Server {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Server{
		rng:        rand.New(rand.NewSource(seed)),
		match:      NewMatchState(opts.RedStand, opts.BlueStand),
		lib:        lib,
		data:       data,
		bots:       make(map[bot.EntityID]*botEntry),
		players:    make(map[bot.EntityID]*SimPawn),
		clients:    make(map[int]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
	s.world = NewFlatWorld(opts.GroundZ, func() []*SimPawn { return s.pawns })
	s.drills = practice.NewDrillRunner(data, s, s, s.rng)
	return s
}

// Now returns the simulated match time. Implements the bot clock.
func (s *Server) Now() float64 { return s.now }

// StartDrill begins a configured drill from outside the simulation
// loop.
func (s *Server) StartDrill(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drills.Start(name)
}

// StopDrill ends the active drill, tallying it as-is.
func (s *Server) StopDrill() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drills.End(false)
}

// ResetFlags implements the drill host surface; the caller holds the
// simulation lock.
func (s *Server) ResetFlags() {
	s.match.ResetFlags()
	for _, p := range s.pawns {
		p.holdingFlag = false
	}
}

// EnemyHoldsFlag reports whether any bot carries a flag. Implements the
// drill host surface; during drills every carrier is an enemy of the
// practicing player.
func (s *Server) EnemyHoldsFlag() bool {
	for _, f := range []int{game.TeamRed, game.TeamBlue} {
		st := s.match.Flag(f)
		if st.Held {
			return true
		}
	}
	return false
}

// Say pushes a message to the spectator feed. Implements the drill
// host surface.
func (s *Server) Say(msg string) {
	log.Printf("say: %s", msg)
	s.broadcastMessage(msg)
}

// Run drives the fixed-rate simulation until Shutdown. Client
// registration shares the loop so the pawn list is never mutated
// mid-frame.
func (s *Server) Run() {
	ticker := time.NewTicker(game.UpdateInterval)
	defer ticker.Stop()

	dt := game.UpdateInterval.Seconds()
	for {
		select {
		case <-s.done:
			return
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client.id] = client
			s.mu.Unlock()
			log.Printf("spectator %d connected", client.id)
		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client.id]; ok {
				delete(s.clients, client.id)
				close(client.send)
			}
			if client.playerID != bot.NoEntity {
				s.removePlayerLocked(client.playerID)
			}
			s.mu.Unlock()
			log.Printf("spectator %d disconnected", client.id)
		case <-ticker.C:
			s.step(dt)
		}
	}
}

// Shutdown stops the simulation loop.
func (s *Server) Shutdown() {
	close(s.done)
}

// step advances the whole match by one frame.
func (s *Server) step(dt float64) {
	s.mu.Lock()
	s.now += dt
	s.frame++

	// Slow cadence: perception then decisions.
	if s.now-s.lastDecision >= game.DecisionInterval.Seconds() {
		s.lastDecision = s.now
		s.runPerception()
		for _, entry := range s.bots {
			entry.bot.DetermineCurrentTask()
		}
	}

	// Fast cadence: actuation, physics, weapons, flags, drills.
	s.updateBots()
	s.updatePlayers()
	for _, p := range s.pawns {
		p.Step(dt, s.now, s.world)
	}
	s.fireWeapons()
	s.updateProjectiles(dt)
	flagsBefore := map[int]bot.FlagStatus{
		game.TeamRed:  s.match.Flag(game.TeamRed),
		game.TeamBlue: s.match.Flag(game.TeamBlue),
	}
	holdingBefore := s.playerHolding()
	s.match.Update(s.pawns)
	s.reportFlagCatches(flagsBefore, holdingBefore)
	s.drills.Tick()
	s.mu.Unlock()

	if s.frame%4 == 0 {
		s.broadcastState()
	}
}

// projectile is one disc or grenade in flight. The chaingun is hitscan
// and never produces one.
type projectile struct {
	owner bot.EntityID
	team  int
	kind  game.WeaponKind
	pos   game.Vec3
	vel   game.Vec3
	born  float64
}

const (
	projectileLifetime = 10.0
	splashRadius       = 600.0
	directHitRadius    = 200.0
	midairHeight       = 200.0
)

// fireWeapons resolves every held trigger this frame.
func (s *Server) fireWeapons() {
	for _, p := range s.pawns {
		if !p.Alive() || !p.trigger {
			continue
		}
		slot := &p.weapons[p.activeWeapon]
		spec := game.WeaponSpecs[slot.kind]
		if s.now-slot.lastFired < spec.ReloadTime {
			continue
		}
		if spec.Automatic && slot.heat >= 1.0 {
			// Overheated: the trigger does nothing until it cools.
			continue
		}
		slot.lastFired = s.now
		if spec.Automatic {
			slot.heat = game.Clamp(slot.heat+spec.HeatPerShot, 0, 1)
			s.fireHitscan(p, spec)
			continue
		}
		dir := p.look.Vector()
		s.projectiles = append(s.projectiles, &projectile{
			owner: p.ID(),
			team:  p.Team(),
			kind:  slot.kind,
			pos:   p.Position(),
			vel:   dir.Scale(spec.ProjectileSpeed).Add(p.Velocity().Scale(spec.Inheritance)),
			born:  s.now,
		})
	}
}

// fireHitscan resolves one chaingun round instantly along the view
// line. Heat slows the effective fire rate by randomly eating rounds.
func (s *Server) fireHitscan(shooter *SimPawn, spec game.WeaponSpec) {
	slot := shooter.weapons[shooter.activeWeapon]
	if s.rng.Float64() > game.HeatFactor(slot.heat) {
		return
	}
	from := shooter.Position()
	to := from.Add(shooter.look.Vector().Scale(spec.ProjectileSpeed))
	hit := s.world.LineOfSight(from, to)
	for _, target := range s.pawns {
		if target.ID() == shooter.ID() || !target.Alive() {
			continue
		}
		if game.Distance(hit, target.Position()) <= pawnHitRadius {
			s.damage(shooter, target, spec.Damage, false)
			return
		}
	}
}

// updateProjectiles flies discs and grenades and detonates them on
// contact with pawns or the ground.
func (s *Server) updateProjectiles(dt float64) {
	kept := s.projectiles[:0]
	for _, pr := range s.projectiles {
		if s.now-pr.born > projectileLifetime {
			continue
		}
		// Grenades arc; discs fly flat.
		if pr.kind == game.WeaponGrenade {
			pr.vel.Z -= game.Gravity * dt
		}
		pr.pos = pr.pos.Add(pr.vel.Scale(dt))

		if s.detonated(pr) {
			continue
		}
		if gz, ok := s.world.GroundHeight(pr.pos); ok && pr.pos.Z <= gz {
			pr.pos.Z = gz
			s.explode(pr)
			continue
		}
		kept = append(kept, pr)
	}
	s.projectiles = kept
}

// detonated checks for a direct hit and explodes there.
func (s *Server) detonated(pr *projectile) bool {
	for _, target := range s.pawns {
		if target.ID() == pr.owner || !target.Alive() {
			continue
		}
		if game.Distance(pr.pos, target.Position()) <= directHitRadius {
			s.explode(pr)
			return true
		}
	}
	return false
}

// explode applies splash damage with linear falloff.
func (s *Server) explode(pr *projectile) {
	shooter := findPawn(s.pawns, pr.owner)
	spec := game.WeaponSpecs[pr.kind]
	for _, target := range s.pawns {
		if !target.Alive() {
			continue
		}
		dist := game.Distance(pr.pos, target.Position())
		if dist > splashRadius {
			continue
		}
		scaled := spec.Damage * (1 - dist/splashRadius)
		if scaled <= 0 || target.ID() == pr.owner {
			continue
		}
		midair := false
		if gz, ok := s.world.GroundHeight(target.Position()); ok {
			midair = target.Position().Z-gz > midairHeight
		}
		s.damage(shooter, target, scaled, midair)
	}
}

// damage applies a hit and reports the relevant drill events.
func (s *Server) damage(shooter, target *SimPawn, amount float64, midair bool) {
	target.ApplyDamage(amount)
	if shooter != nil && !shooter.isBot && target.isBot {
		s.drills.RecordHit()
		if midair {
			s.drills.RecordMidair()
		}
		if !target.Alive() {
			s.drills.RecordKill()
		}
	}
}
