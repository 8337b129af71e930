// Package bot implements the decision-making core for non-player
// combatants: a periodic weighted task-selection loop plus predictive
// aiming, driven entirely through small collaborator interfaces so the
// whole thing runs deterministically under test.
package bot

import (
	"github.com/jetctf/jetctf-web/game"
)

// EntityID is a non-owning handle into the host's entity registry.
// Holders must re-validate through the Roster before every use.
type EntityID int

// NoEntity is the nil handle.
const NoEntity EntityID = -1

// Entity is the read-only view of a live combatant.
type Entity interface {
	ID() EntityID
	Team() int
	Alive() bool
	Health() float64
	Position() game.Vec3
	Velocity() game.Vec3
	HoldingFlag() bool
}

// Roster resolves entity handles. Lookup returns false for handles that
// are stale, disconnected, or never existed.
type Roster interface {
	Lookup(id EntityID) (Entity, bool)
}

// Clock is the injected monotonic time source, in simulated seconds.
type Clock interface {
	Now() float64
}

// World is the black-box geometry service.
type World interface {
	// GroundHeight returns the terrain Z directly under point, and
	// whether any ground was found.
	GroundHeight(p game.Vec3) (float64, bool)

	// LineOfSight traces from one point toward another and returns the
	// first hit, or 'to' itself when nothing blocks the segment.
	LineOfSight(from, to game.Vec3) game.Vec3
}

// FlagStatus is one flag's state as reported by the match service.
type FlagStatus struct {
	Location game.Vec3
	Home     bool
	Held     bool
}

// Match exposes per-flag and per-stand queries used to build the
// decision loop's game-state snapshot each cycle.
type Match interface {
	Flag(team int) FlagStatus
	Stand(team int) game.Vec3
}

// WeaponState is a snapshot of the pawn's active weapon.
type WeaponState struct {
	Kind game.WeaponKind
	Heat float64
	// Ready means the weapon is idle and past its reload interval.
	Ready bool
}

// Pawn is the actuation surface of the controlled entity. All movement
// and firing goes through it; the AI never touches physics directly.
type Pawn interface {
	Entity

	Energy() float64
	SetEnergy(v float64)

	Look() game.Rotator
	SetLook(r game.Rotator)

	MoveForward(v float64)
	MoveRight(v float64)
	Skate()
	StopSkating()
	Jump()
	StopJumping()
	Jet()
	StopJetting()

	SetTrigger(on bool)
	SwitchWeapon(slot int)
	Weapon() (WeaponState, bool)

	Suicide()
}

// PlaybackOptions controls how a route trail is played back.
type PlaybackOptions struct {
	StartMarker             int
	ResumeAfterDamage       bool
	StayAliveAfterEnd       bool
	RestoreHealthOnTeleport bool
}

// RoutePlayer is the route-trail collaborator: stored routes plus the
// playback engine that drags a pawn along one.
type RoutePlayer interface {
	RouteByName(name string, team int) (game.RouteTrail, bool)
	StartPlayback(rt game.RouteTrail, opts PlaybackOptions)
	StopPlayback()
	// CurrentMarker is the index of the marker most recently reached.
	CurrentMarker() int
}
