package bot

import (
	"math/rand"

	"github.com/jetctf/jetctf-web/game"
)

// Bot is one combatant's AI. The host calls DetermineCurrentTask on a
// fixed half-second cadence and Tick every frame; everything else the
// bot reaches through its collaborator interfaces.
//
// All state is owned by this one instance and only ever touched from
// the host's single-threaded callbacks, so there is no locking.
type Bot struct {
	cfg Config

	clock  Clock
	rng    *rand.Rand
	world  World
	match  Match
	routes RoutePlayer
	roster Roster
	pawn   Pawn

	ai   AIState
	gs   GameState
	seen map[EntityID]float64

	accuracy    Accuracy
	initialized bool
	dead        bool
	jetting     bool

	activeMovement moveInput

	// Aim error state, re-rolled at most once per second.
	randomPitchSkew      float64
	randomYawSkew        float64
	randomProjectileSkew float64

	// Timers, in simulated seconds from the injected clock.
	timeOfTaskStart            float64
	timeOfLastShot             float64
	timeOfLastWeaponChange     float64
	timeOfLastAimpointChange   float64
	timeOfLastLookForEnemy     float64
	timeOfLastMovementChange   float64
	timeOfLastMoveTargetChange float64
	timeOfLastJetChange        float64
	timeOfLastSpawn            float64
}

// Deps bundles the collaborator services a Bot needs.
type Deps struct {
	Clock  Clock
	Rand   *rand.Rand
	World  World
	Match  Match
	Routes RoutePlayer
	Roster Roster
	Pawn   Pawn
}

// New creates a bot in its pre-enabled state. Enable must run before
// the first decision cycle.
func New(cfg Config, deps Deps) *Bot {
	return &Bot{
		cfg:                  cfg,
		clock:                deps.Clock,
		rng:                  deps.Rand,
		world:                deps.World,
		match:                deps.Match,
		routes:               deps.Routes,
		roster:               deps.Roster,
		pawn:                 deps.Pawn,
		seen:                 make(map[EntityID]float64),
		randomProjectileSkew: 1.0,
		ai: AIState{
			CurrentTask:   TaskLookingForEnemy,
			CurrentTarget: NoEntity,
		},
	}
}

// Enable initializes the AI: captures the (static) stand locations and
// locks in the accuracy tier. Safe to call twice; the second call is a
// no-op.
func (b *Bot) Enable() {
	if b.initialized {
		return
	}
	b.gs.FriendlyStandLocation = b.match.Stand(b.pawn.Team())
	b.gs.EnemyStandLocation = b.match.Stand(game.EnemyTeam(b.pawn.Team()))
	b.accuracy = b.cfg.Accuracy
	b.timeOfLastSpawn = b.clock.Now()
	b.initialized = true
}

// Config returns the bot's immutable setup.
func (b *Bot) Config() Config { return b.cfg }

// State returns a copy of the current decision state, for observers.
func (b *Bot) State() AIState { return b.ai }

// Tick carries out the current task. It runs every frame; the task
// itself only changes on DetermineCurrentTask's slower cadence. The
// timer can fire before the first decision, so Tick guards against an
// uninitialized bot.
func (b *Bot) Tick() {
	if b.dead || !b.initialized {
		return
	}
	// Route runner bots do nothing but follow a recorded path; force
	// the task in case we ticked before the first decision.
	if b.cfg.Role == RoleRouteRunner {
		b.ai.CurrentTask = TaskRouteRunner
	}
	// Drop the target the moment it stops being a living enemy.
	if b.ai.CurrentTarget != NoEntity && b.lookupTarget(b.ai.CurrentTarget) == nil {
		b.ai.CurrentTarget = NoEntity
	}

	switch b.ai.CurrentTask {
	case TaskShootAtTarget:
		b.shootAtTarget()
		// Keep shuffling around during most states so the bot reads as
		// alive and is harder to hit.
		b.moveAround()
	case TaskChangeTarget:
		b.changeTarget()
		b.moveAround()
	case TaskWaitForBetterShot:
		b.waitForBetterShot()
		b.moveAround()
	case TaskLookingForEnemy:
		b.lookForEnemies()
		b.moveAround()
	case TaskMoveToTarget:
		b.moveToTarget()
	case TaskRouteRunner:
		b.runRouteSimple()
	case TaskRunningRoute:
		// The playback engine is driving the pawn; nothing to actuate.
	}
}

// OnPawnSeen is the perception callback: record enemy sightings with a
// last-seen timestamp for the next decision cycle.
func (b *Bot) OnPawnSeen(id EntityID) {
	e, ok := b.roster.Lookup(id)
	if !ok || !e.Alive() {
		return
	}
	if e.Team() != b.pawn.Team() {
		b.seen[id] = b.clock.Now()
	}
}

// OnDied resets all transient decision state. Called by the host in the
// same callback that kills the pawn, so the reset is atomic from the
// host's point of view.
func (b *Bot) OnDied() {
	b.jetting = false
	b.ai.RouteState = NoRouteSelected
	b.ai.CurrentTarget = NoEntity
	b.dead = true
	b.seen = make(map[EntityID]float64)
}

// OnSpawn re-arms the bot on respawn.
func (b *Bot) OnSpawn() {
	b.dead = false
	b.timeOfLastSpawn = b.clock.Now()
	b.timeOfLastMovementChange = b.clock.Now()
	b.ai.RouteStartLocation = game.Vec3{}
	b.ai.TaskInitialized = false
}

// TargetDied drops a dead entity from the current target and the
// seen-target memory without waiting for the next prune.
func (b *Bot) TargetDied(id EntityID) {
	if b.ai.CurrentTarget == id {
		b.ai.CurrentTarget = NoEntity
	}
	delete(b.seen, id)
}

// lookupTarget resolves a handle to a living enemy entity, or nil.
func (b *Bot) lookupTarget(id EntityID) Entity {
	if id == NoEntity {
		return nil
	}
	e, ok := b.roster.Lookup(id)
	if !ok || !e.Alive() || e.Health() <= 0 || e.Team() == b.pawn.Team() {
		return nil
	}
	return e
}

// heightAboveGround raycasts straight down and returns how far point
// sits above the terrain, zero when there is no ground below.
func (b *Bot) heightAboveGround(p game.Vec3) float64 {
	gz, ok := b.world.GroundHeight(p)
	if !ok {
		return 0
	}
	return p.Z - gz
}

// distanceToTarget returns the distance to an entity, or a sentinel
// when nil.
func (b *Bot) distanceToTarget(e Entity) float64 {
	if e == nil {
		return farAway
	}
	return game.Distance(b.pawn.Position(), e.Position())
}

// targetSpeedKPH converts an entity's velocity to KPH, zero for nil.
func targetSpeedKPH(e Entity) float64 {
	if e == nil {
		return 0
	}
	return game.SpeedKPH(e.Velocity())
}
