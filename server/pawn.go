// Package server hosts the match simulation: pawn physics, flags and
// stands, projectiles, the fixed-rate game loop that drives the bots,
// and a websocket spectator feed.
package server

import (
	"math"

	"github.com/jetctf/jetctf-web/bot"
	"github.com/jetctf/jetctf-web/game"
)

// Movement tuning, engine units and seconds.
const (
	groundAccel     = 2000.0
	airAccel        = 500.0
	groundFriction  = 4.0
	skateFriction   = 0.2
	jetAccel        = 1800.0
	jumpImpulse     = 600.0
	jetEnergyPerSec = 15.0
	energyRegenRate = 10.0
	maxEnergy       = 100.0
	maxHealth       = 100.0
)

type weaponSlot struct {
	kind      game.WeaponKind
	heat      float64
	lastFired float64
}

// SimPawn is one controllable body in the hosted match. It implements
// the bot package's Pawn surface and the practice package's playback
// surface; the physics step lives here, weapon effects in the server.
type SimPawn struct {
	id    bot.EntityID
	name  string
	team  int
	isBot bool

	pos    game.Vec3
	vel    game.Vec3
	look   game.Rotator
	health float64
	energy float64

	holdingFlag bool

	moveForward float64
	moveRight   float64
	skating     bool
	jetting     bool
	trigger     bool

	weapons      [3]weaponSlot
	activeWeapon int

	// stepTime is the simulated time of the latest Step, used for
	// weapon readiness without a clock dependency.
	stepTime float64
	diedAt   float64
}

// NewSimPawn creates a full-health pawn at a position.
func NewSimPawn(id bot.EntityID, name string, team int, pos game.Vec3) *SimPawn {
	p := &SimPawn{
		id:     id,
		name:   name,
		team:   team,
		pos:    pos,
		health: maxHealth,
		energy: maxEnergy,
	}
	p.weapons[game.WeaponSpecs[game.WeaponDisc].Slot] = weaponSlot{kind: game.WeaponDisc}
	p.weapons[game.WeaponSpecs[game.WeaponGrenade].Slot] = weaponSlot{kind: game.WeaponGrenade}
	p.weapons[game.WeaponSpecs[game.WeaponChaingun].Slot] = weaponSlot{kind: game.WeaponChaingun}
	return p
}

func (p *SimPawn) ID() bot.EntityID        { return p.id }
func (p *SimPawn) Name() string            { return p.name }
func (p *SimPawn) Team() int               { return p.team }
func (p *SimPawn) Alive() bool             { return p.health > 0 }
func (p *SimPawn) Health() float64         { return p.health }
func (p *SimPawn) Position() game.Vec3     { return p.pos }
func (p *SimPawn) Velocity() game.Vec3     { return p.vel }
func (p *SimPawn) HoldingFlag() bool       { return p.holdingFlag }
func (p *SimPawn) Energy() float64         { return p.energy }
func (p *SimPawn) SetEnergy(v float64)     { p.energy = game.Clamp(v, 0, maxEnergy) }
func (p *SimPawn) Look() game.Rotator      { return p.look }
func (p *SimPawn) SetLook(r game.Rotator)  { p.look = r }
func (p *SimPawn) MoveForward(v float64)   { p.moveForward = game.Clamp(v, -1, 1) }
func (p *SimPawn) MoveRight(v float64)     { p.moveRight = game.Clamp(v, -1, 1) }
func (p *SimPawn) Skate()                  { p.skating = true }
func (p *SimPawn) StopSkating()            { p.skating = false }
func (p *SimPawn) Jet()                    { p.jetting = true }
func (p *SimPawn) StopJetting()            { p.jetting = false }
func (p *SimPawn) SetTrigger(on bool)      { p.trigger = on }
func (p *SimPawn) SetPosition(v game.Vec3) { p.pos = v }
func (p *SimPawn) SetVelocity(v game.Vec3) { p.vel = v }
func (p *SimPawn) SetHealth(h float64)     { p.health = game.Clamp(h, 0, maxHealth) }

// Jump is folded into jetting in this simulation; the initial hop
// happens when Jet fires from the ground.
func (p *SimPawn) Jump()        {}
func (p *SimPawn) StopJumping() {}

// Suicide kills the pawn outright.
func (p *SimPawn) Suicide() { p.health = 0 }

// Kill is the playback engine's way of despawning a route bot.
func (p *SimPawn) Kill() { p.health = 0 }

// SwitchWeapon selects the weapon in the given slot.
func (p *SimPawn) SwitchWeapon(slot int) {
	if slot >= 0 && slot < len(p.weapons) {
		p.activeWeapon = slot
	}
}

// Weapon reports the active weapon's state.
func (p *SimPawn) Weapon() (bot.WeaponState, bool) {
	slot := p.weapons[p.activeWeapon]
	spec, ok := game.WeaponSpecs[slot.kind]
	if !ok {
		return bot.WeaponState{}, false
	}
	return bot.WeaponState{
		Kind:  slot.kind,
		Heat:  slot.heat,
		Ready: p.stepTime-slot.lastFired >= spec.ReloadTime,
	}, true
}

// ApplyDamage reduces health, flooring at zero.
func (p *SimPawn) ApplyDamage(amount float64) {
	p.health = game.Clamp(p.health-amount, 0, maxHealth)
}

// Step integrates one frame of movement physics.
func (p *SimPawn) Step(dt, now float64, world *FlatWorld) {
	p.stepTime = now
	if !p.Alive() {
		return
	}
	groundZ, _ := world.GroundHeight(p.pos)
	onGround := p.pos.Z <= groundZ+1

	// Planar movement relative to the view yaw.
	yaw := p.look.Yaw * math.Pi / 180
	forward := game.Vec3{X: math.Cos(yaw), Y: math.Sin(yaw)}
	right := game.Vec3{X: -math.Sin(yaw), Y: math.Cos(yaw)}
	wish := forward.Scale(p.moveForward).Add(right.Scale(p.moveRight))
	accel := airAccel
	if onGround {
		accel = groundAccel
	}
	p.vel = p.vel.Add(wish.Scale(accel * dt))

	// Friction only applies on the ground; skating nearly removes it,
	// which is the whole point of skating.
	if onGround {
		friction := groundFriction
		if p.skating {
			friction = skateFriction
		}
		damp := 1 - friction*dt
		if damp < 0 {
			damp = 0
		}
		p.vel.X *= damp
		p.vel.Y *= damp
	}

	// Jets burn energy to push up; gravity pulls down everywhere.
	if p.jetting && p.energy > 0 {
		if onGround {
			p.vel.Z += jumpImpulse
		}
		p.vel.Z += jetAccel * dt
		p.energy = game.Clamp(p.energy-jetEnergyPerSec*dt, 0, maxEnergy)
	} else {
		p.energy = game.Clamp(p.energy+energyRegenRate*dt, 0, maxEnergy)
	}
	p.vel.Z -= game.Gravity * dt

	p.pos = p.pos.Add(p.vel.Scale(dt))
	if p.pos.Z < groundZ {
		p.pos.Z = groundZ
		if p.vel.Z < 0 {
			p.vel.Z = 0
		}
	}
	p.pos.X = game.Clamp(p.pos.X, -game.ArenaExtent, game.ArenaExtent)
	p.pos.Y = game.Clamp(p.pos.Y, -game.ArenaExtent, game.ArenaExtent)

	// Weapon heat bleeds off every frame, helped by the wind of a fast
	// moving pawn.
	speed := game.SpeedKPH(p.vel)
	for i := range p.weapons {
		w := &p.weapons[i]
		if w.heat > 0 {
			w.heat = game.Clamp(w.heat-game.HeatLoss(speed, w.heat >= 1.0)*dt, 0, 1)
		}
	}
}
