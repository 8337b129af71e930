package bot

import (
	"math"

	"github.com/jetctf/jetctf-web/game"
)

// Flag-override distances: a loose flag inside this range outranks the
// role's usual destination. Defense roles reach further.
const (
	flagOverrideDistance         = 5000.0
	homeEnemyFlagOverride        = 15000.0
	homeFriendlyFlagOverride     = 10000.0
	chaseFriendlyFlagOverride    = 15000.0
	nearbyTargetDistance         = 20000.0
	nearbyMoveLocationDistance   = 10000.0
	looseFlagPickupDistance      = 5000.0
	homeStandoffFlagGrabDistance = 10000.0
)

// determineMoveLocation refreshes the game-state snapshot and resolves
// the role's desired destination for this cycle. Priority runs from the
// role's default through loose-flag overrides up to the cap run.
func (b *Bot) determineMoveLocation() {
	target := b.lookupTarget(b.ai.CurrentTarget)
	targetDistance := b.distanceToTarget(target)
	originalType := b.ai.MoveTargetType
	b.ai.DesiredMoveLocation = game.Vec3{}

	// A route waiting to start trumps everything below.
	if b.cfg.Role == RoleOffense && b.ai.RouteState == MovingToRouteStart {
		b.ai.MoveTargetType = MoveTargetRouteStart
		b.ai.DesiredMoveLocation = b.ai.RouteStartLocation
		return
	}

	b.refreshGameState()

	// If we have the flag we always try to cap.
	if b.ai.HoldingFlag {
		b.ai.MoveTargetType = MoveTargetFriendlyStand
		b.ai.DesiredMoveLocation = b.gs.FriendlyStandLocation
	}
	// Chase always cares about our flag unless holding.
	if !b.ai.HoldingFlag && b.cfg.Role == RoleChase {
		b.ai.MoveTargetType = MoveTargetFriendlyFlag
		b.ai.DesiredMoveLocation = b.gs.FriendlyFlagLocation
	}
	// Offense and LO: returns during standoffs, otherwise push for the
	// enemy flag (or their stand for LO).
	if !b.ai.HoldingFlag && (b.cfg.Role == RoleOffense || b.cfg.Role == RoleLO) {
		switch {
		case !b.gs.EnemyFlagHome && !b.gs.EnemyFlagHeld && b.ai.DistanceToEnemyFlag < looseFlagPickupDistance:
			b.ai.MoveTargetType = MoveTargetEnemyFlag
			b.ai.DesiredMoveLocation = b.gs.EnemyFlagLocation
		case !b.gs.FriendlyFlagHeld && !b.gs.FriendlyFlagHome && b.ai.DistanceToFriendlyFlag < looseFlagPickupDistance:
			b.ai.MoveTargetType = MoveTargetFriendlyFlag
			b.ai.DesiredMoveLocation = b.gs.FriendlyFlagLocation
		case b.gs.FlagState == game.Standoff:
			b.ai.MoveTargetType = MoveTargetFriendlyFlag
			b.ai.DesiredMoveLocation = b.gs.FriendlyFlagLocation
		default:
			if b.cfg.Role == RoleOffense {
				b.ai.MoveTargetType = MoveTargetEnemyFlag
				b.ai.DesiredMoveLocation = b.gs.EnemyFlagLocation
			} else if b.gs.FlagState == game.EnemyTakenFriendlySafe {
				b.ai.MoveTargetType = MoveTargetEnemyFlag
				b.ai.DesiredMoveLocation = b.gs.EnemyFlagLocation
			} else {
				b.ai.MoveTargetType = MoveTargetEnemyStand
				b.ai.DesiredMoveLocation = b.gs.EnemyStandLocation
			}
		}
	}
	// Home defense sits on its own stand unless a nearby flag needs
	// picking up or chasing.
	if b.cfg.Role == RoleStayAtHome {
		b.ai.MoveTargetType = MoveTargetFriendlyStand
		b.ai.DesiredMoveLocation = b.gs.FriendlyStandLocation

		if b.gs.FlagState == game.Standoff ||
			(b.gs.FlagState == game.EnemyTakenFriendlySafe && b.ai.DistanceToEnemyFlag < homeStandoffFlagGrabDistance && !b.gs.EnemyFlagHeld) {
			b.ai.MoveTargetType = MoveTargetEnemyFlag
			b.ai.DesiredMoveLocation = b.gs.EnemyFlagLocation
		} else if b.gs.FlagState == game.FriendlyTakenEnemyHome && b.ai.DistanceToFriendlyFlag < homeStandoffFlagGrabDistance {
			b.ai.MoveTargetType = MoveTargetFriendlyFlag
			b.ai.DesiredMoveLocation = b.gs.FriendlyFlagLocation
		}
	}

	// Close to where we want to be with a live target nearby: go fight.
	distanceToMoveLocation := game.Distance(b.pawn.Position(), b.ai.DesiredMoveLocation)
	if target != nil && targetDistance < nearbyTargetDistance && distanceToMoveLocation < nearbyMoveLocationDistance {
		b.ai.MoveTargetType = MoveTargetEnemy
		b.ai.DesiredMoveLocation = target.Position()
	}

	friendlyOverride := flagOverrideDistance
	enemyOverride := flagOverrideDistance
	if b.cfg.Role == RoleStayAtHome {
		enemyOverride = homeEnemyFlagOverride
		friendlyOverride = homeFriendlyFlagOverride
	}
	if b.cfg.Role == RoleChase {
		friendlyOverride = chaseFriendlyFlagOverride
	}
	// A flag loose in the field inside the override range matters more
	// than anything role-specific.
	if b.ai.DistanceToFriendlyFlag < friendlyOverride && !b.gs.FriendlyFlagHeld &&
		(b.gs.FlagState == game.FriendlyTakenEnemyHome || b.gs.FlagState == game.Standoff) {
		b.ai.MoveTargetType = MoveTargetFriendlyFlag
		b.ai.DesiredMoveLocation = b.gs.FriendlyFlagLocation
	}
	if b.ai.DistanceToEnemyFlag < enemyOverride && !b.gs.EnemyFlagHeld &&
		(b.gs.FlagState == game.EnemyTakenFriendlySafe || b.gs.FlagState == game.Standoff) {
		b.ai.MoveTargetType = MoveTargetEnemyFlag
		b.ai.DesiredMoveLocation = b.gs.EnemyFlagLocation
	}

	// Holding with ours home: the cap run wins outright.
	if b.ai.HoldingFlag && b.gs.FriendlyFlagHome {
		b.ai.MoveTargetType = MoveTargetFriendlyStand
		b.ai.DesiredMoveLocation = b.gs.FriendlyStandLocation
	}

	if originalType != b.ai.MoveTargetType {
		b.timeOfLastMoveTargetChange = b.clock.Now()
	}
}

// refreshGameState pulls both flags' status from the match service and
// recomputes the combined flag state.
func (b *Bot) refreshGameState() {
	myTeam := b.pawn.Team()
	friendly := b.match.Flag(myTeam)
	enemy := b.match.Flag(game.EnemyTeam(myTeam))

	b.gs.FriendlyFlagLocation = friendly.Location
	b.gs.FriendlyFlagHome = friendly.Home
	b.gs.FriendlyFlagHeld = friendly.Held
	b.ai.DistanceToFriendlyFlag = game.Distance(b.pawn.Position(), friendly.Location)

	b.gs.EnemyFlagLocation = enemy.Location
	b.gs.EnemyFlagHome = enemy.Home
	b.gs.EnemyFlagHeld = enemy.Held
	b.ai.DistanceToEnemyFlag = game.Distance(b.pawn.Position(), enemy.Location)

	b.gs.FlagState = game.CombineFlagState(enemy.Home, friendly.Home)
	b.ai.HoldingFlag = b.pawn.HoldingFlag()
}

// moveToTarget drives the pawn toward the desired move location: face
// it (blended with any recent shot direction), run forward, ski when
// ground speed builds toward it, and jet when it sits above us.
func (b *Bot) moveToTarget() {
	heightAboveGround := b.heightAboveGround(b.pawn.Position())
	distance := game.Distance(b.pawn.Position(), b.ai.DesiredMoveLocation)

	toTarget := b.ai.DesiredMoveLocation.Sub(b.pawn.Position())
	look := game.RotatorFromVector(toTarget.Normalize())

	// Right after a shot we keep glancing at what we shot at, easing
	// back to the travel direction over a few seconds. Without this the
	// orientation snaps and the bot looks robotic.
	timeSinceLastShot := b.clock.Now() - b.timeOfLastShot
	skewFactor := (ShotLookDecay - math.Min(timeSinceLastShot, ShotLookDecay)) / ShotLookDecay
	look.Pitch += b.randomPitchSkew * skewFactor
	look.Yaw += b.randomYawSkew * skewFactor
	b.pawn.SetLook(look)

	b.pawn.MoveForward(1.0)

	// Skiing only helps when momentum is carrying us toward the goal.
	distancePlusVelocity := distance + game.Distance(b.pawn.Position().Add(b.pawn.Velocity()), b.ai.DesiredMoveLocation)
	if heightAboveGround < 100 && distance > 1000 && distancePlusVelocity > distance {
		b.pawn.Skate()
	} else {
		b.pawn.StopSkating()
	}

	heightAboveTarget := game.HeightAbove(b.pawn.Position(), b.ai.DesiredMoveLocation)
	wasJetting := b.jetting
	timeSinceJetChange := b.clock.Now() - b.timeOfLastJetChange
	energy := b.pawn.Energy()

	belowTarget := heightAboveTarget < 0
	// Give jet energy time to recharge before burning it again.
	energyRecharged := wasJetting || timeSinceJetChange > 2.0 || energy > 100
	// Cut jets early so upward momentum doesn't carry us way past.
	const overshootFudge = 300.0
	overshootOK := !(b.pawn.Velocity().Z/2+heightAboveTarget > overshootFudge && timeSinceJetChange > 1.0)
	// Bots manage energy badly for now, so top them up.
	// TODO(routes): remove once the jet-duration formula lands.
	if energy < 50.5 {
		b.pawn.SetEnergy(100.0)
		energy = 100.0
	}
	if belowTarget && energyRecharged && overshootOK && energy > 0.01 {
		b.jetting = true
		b.pawn.Jump()
		b.pawn.Jet()
	} else {
		b.jetting = false
		b.pawn.StopJumping()
		b.pawn.StopJetting()
	}
	if wasJetting != b.jetting {
		b.timeOfLastJetChange = b.clock.Now()
	}
}

// moveAround is the idle shuffle: small random strafes and jet pulses
// so a stationary bot reads as alive and is harder to hit. Stationary
// defense bots hold still.
func (b *Bot) moveAround() {
	if b.cfg.Role == RoleStationaryDefense {
		return
	}
	now := b.clock.Now()
	timeSinceMovementChange := now - b.timeOfLastMovementChange
	if timeSinceMovementChange > 1.0 {
		if b.rng.Float64()*3.0+timeSinceMovementChange > 3.0 {
			// When nothing is close, mostly just stand still instead of
			// twitching.
			target := b.lookupTarget(b.ai.CurrentTarget)
			if b.ai.CurrentTask == TaskLookingForEnemy ||
				(b.ai.CurrentTask == TaskShootAtTarget && b.distanceToTarget(target) > 5000 && b.rng.Intn(4) > 1) {
				b.activeMovement = moveStop
			} else {
				switch b.rng.Intn(4) {
				case 0:
					b.activeMovement = moveForward
				case 1:
					b.activeMovement = moveBackwards
				case 2:
					b.activeMovement = moveLeft
				case 3:
					b.activeMovement = moveRight
				}
			}
			b.timeOfLastMovementChange = now
		}
	}
	timeSinceJetChange := now - b.timeOfLastJetChange
	if timeSinceJetChange > 1.0 && (b.pawn.Energy() > 40 || b.pawn.Energy() < 5) {
		if b.rng.Float64()*3.0+timeSinceJetChange > 3.0 {
			b.jetting = !b.jetting
			b.timeOfLastJetChange = now
		}
	}

	b.pawn.StopSkating()
	if b.jetting {
		b.pawn.Jump()
		b.pawn.Jet()
	} else {
		b.pawn.StopJumping()
		b.pawn.StopJetting()
	}

	switch b.activeMovement {
	case moveForward:
		b.pawn.MoveForward(1.0)
	case moveBackwards:
		b.pawn.MoveForward(-1.0)
	case moveLeft:
		b.pawn.MoveRight(-1.0)
	case moveRight:
		b.pawn.MoveRight(1.0)
	}
}

// lookForEnemies slowly pans the view, waiting for the perception
// callback to report someone.
func (b *Bot) lookForEnemies() {
	b.timeOfLastLookForEnemy = b.clock.Now()
	b.pawn.SetTrigger(false)

	look := b.pawn.Look()
	look.Yaw += b.rng.Float64() * 5.0
	b.pawn.SetLook(look)
}
