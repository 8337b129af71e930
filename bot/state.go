package bot

import (
	"github.com/jetctf/jetctf-web/game"
)

// Task is the bot's current behavior, chosen by the decision loop and
// executed every frame until the next decision.
type Task int

const (
	TaskLookingForEnemy Task = iota
	TaskShootAtTarget
	TaskWaitForBetterShot
	TaskChangeTarget
	TaskMoveToTarget
	TaskRouteRunner
	TaskRunningRoute
)

func (t Task) String() string {
	switch t {
	case TaskLookingForEnemy:
		return "LookingForEnemy"
	case TaskShootAtTarget:
		return "ShootAtTarget"
	case TaskWaitForBetterShot:
		return "WaitForBetterShot"
	case TaskChangeTarget:
		return "ChangeTarget"
	case TaskMoveToTarget:
		return "MoveToTarget"
	case TaskRouteRunner:
		return "RouteRunner"
	case TaskRunningRoute:
		return "RunningRoute"
	}
	return "Unknown"
}

// MoveTargetType classifies what the desired move location points at.
type MoveTargetType int

const (
	MoveTargetNone MoveTargetType = iota
	MoveTargetEnemy
	MoveTargetFriendlyFlag
	MoveTargetEnemyFlag
	MoveTargetFriendlyStand
	MoveTargetEnemyStand
	MoveTargetRouteStart
)

// RouteState is the route-following sub-state for offense bots.
type RouteState int

const (
	NoRouteSelected RouteState = iota
	MovingToRouteStart
	RunningRoute
	RouteFinished
	AbandonedRoute
)

// AIState is the mutable per-bot decision state. It is owned by exactly
// one Bot and reset wholesale on death.
type AIState struct {
	CurrentTask Task

	// CurrentTarget is a non-owning handle; NoEntity when unset. The
	// loop nulls it the moment it stops referencing a living enemy.
	CurrentTarget EntityID

	DesiredMoveLocation game.Vec3
	MoveTargetType      MoveTargetType

	RouteState         RouteState
	CurrentRoute       game.RouteTrail
	RouteStartLocation game.Vec3

	DistanceToFriendlyFlag float64
	DistanceToEnemyFlag    float64

	HoldingFlag     bool
	PendingFire     bool
	TaskInitialized bool
}

// GameState is the per-cycle snapshot of flag and stand status, derived
// fresh from the match service each decision cycle.
type GameState struct {
	FriendlyStandLocation game.Vec3
	EnemyStandLocation    game.Vec3

	FriendlyFlagLocation game.Vec3
	EnemyFlagLocation    game.Vec3

	FriendlyFlagHome bool
	FriendlyFlagHeld bool
	EnemyFlagHome    bool
	EnemyFlagHeld    bool

	FlagState game.FlagState
}

// moveInput is the current wander direction chosen by MoveAround.
type moveInput int

const (
	moveStop moveInput = iota
	moveForward
	moveBackwards
	moveLeft
	moveRight
)
