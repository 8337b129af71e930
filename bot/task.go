package bot

import (
	"github.com/jetctf/jetctf-web/game"
)

// DetermineCurrentTask is the half-second decision loop. Every
// candidate behavior gets a weighted vote based on role and situation;
// the highest-weighted task wins and the per-frame Tick carries it out
// until the next cycle. Ties keep the first-inserted vote.
func (b *Bot) DetermineCurrentTask() {
	if b.dead || !b.initialized {
		return
	}
	now := b.clock.Now()
	weights := newTaskWeights()
	lastTask := b.ai.CurrentTask
	// Default to looking around when nothing else earns a vote.
	b.ai.CurrentTask = TaskLookingForEnemy

	// We don't want to do the same thing for too long; several branches
	// bias against the incumbent using this.
	timeSinceTaskChange := now - b.timeOfTaskStart

	// Route runner bots ignore everything else in life.
	if b.cfg.Role == RoleRouteRunner {
		b.ai.CurrentTask = TaskRouteRunner
		b.clearSeen()
		return
	}

	// If we decided to shoot but haven't yet, keep looking toward the
	// shot. Never for more than a second.
	if b.ai.PendingFire && timeSinceTaskChange < PendingFireCommitWindow {
		b.clearSeen()
		b.ai.CurrentTask = TaskShootAtTarget
		return
	}

	// Offense bots need a route picked before move-location resolution.
	if b.cfg.Role == RoleOffense && b.ai.RouteState == NoRouteSelected {
		b.determineRouteToRun()
	}

	// Figure out where we should move to: a target player, one of the
	// flags, our route start.
	b.determineMoveLocation()

	// One pruning pass covers both the cached target and the perception
	// memory, before anything scores or chases stale entities.
	b.pruneStaleTargets(now)

	timeSinceLastLook := now - b.timeOfLastLookForEnemy
	timeSinceMoveTargetChange := now - b.timeOfLastMoveTargetChange
	distanceToMoveLocation := game.Distance(b.pawn.Position(), b.ai.DesiredMoveLocation)

	if b.cfg.Role == RoleOffense {
		if done := b.weighOffense(weights, now, distanceToMoveLocation, timeSinceMoveTargetChange); done {
			return
		}
	}
	if b.cfg.Role == RoleChase {
		if done := b.weighChase(weights, distanceToMoveLocation); done {
			return
		}
	}
	if b.cfg.Role == RoleLO {
		b.weighLO(weights, distanceToMoveLocation)
	}
	if b.cfg.Role == RoleStayAtHome {
		b.weighStayAtHome(weights, distanceToMoveLocation)
	}

	target := b.lookupTarget(b.ai.CurrentTarget)
	if len(b.seen) == 0 && target == nil {
		// No good target anywhere.
		weights.add(TaskLookingForEnemy, lookForEnemyWeight(timeSinceLastLook, lastTask, timeSinceTaskChange))
	} else {
		// At least one candidate: decide how badly we want to shoot, or
		// whether a better shot is worth waiting for.
		waitWeight := 0.0
		if target != nil {
			heightAboveGround := b.heightAboveGround(target.Position())
			// Close to the ground and falling: a pound is coming.
			if heightAboveGround < 1000 && target.Velocity().Z < -200 {
				waitWeight += 9.0
			}
		}
		if waitWeight > 0 {
			weights.add(TaskWaitForBetterShot, waitWeight)
		}

		if len(b.seen) > 0 {
			mostDesirable := b.ai.CurrentTarget
			highestScore := 0.0
			for id := range b.seen {
				score := b.TargetFocusScore(id)
				if score > highestScore {
					highestScore = score
					mostDesirable = id
				}
			}
			if mostDesirable == b.ai.CurrentTarget {
				if canSee := b.aimAtTarget(false); canSee {
					weights.add(TaskShootAtTarget, highestScore)
				}
			} else {
				weights.add(TaskChangeTarget, highestScore)
				b.ai.CurrentTarget = mostDesirable
			}
		} else {
			b.pawn.SetTrigger(false)
		}
	}

	// Holding the flag with ours home: nothing else matters over
	// getting there.
	if b.ai.HoldingFlag && b.gs.FriendlyFlagHome {
		weights.add(TaskMoveToTarget, CapOverrideWeight)
	}

	b.ai.CurrentTask = weights.argmax(TaskLookingForEnemy)

	// Anti-stall: moving to a stand where nothing useful can happen
	// (their flag gone and we can't grab, or ours gone and we can't
	// cap) just spins in place. Scan for targets instead.
	if b.ai.CurrentTask == TaskMoveToTarget && distanceToMoveLocation < StandStallDistance &&
		((b.ai.MoveTargetType == MoveTargetEnemyStand && !b.gs.EnemyFlagHome) ||
			(b.ai.MoveTargetType == MoveTargetFriendlyStand && (!b.ai.HoldingFlag || !b.gs.FriendlyFlagHome))) {
		b.ai.CurrentTask = TaskLookingForEnemy
	}

	if b.ai.CurrentTask != lastTask {
		b.timeOfTaskStart = now
		b.ai.TaskInitialized = false
	}
	// Fresh perception data is required every cycle.
	b.clearSeen()
}

// weighOffense contributes the offense role's votes. Returns true when
// the bot suicided and the cycle must end.
func (b *Bot) weighOffense(weights *taskWeights, now, distanceToMoveLocation, timeSinceMoveTargetChange float64) bool {
	switch b.ai.RouteState {
	case MovingToRouteStart:
		// If we can't quite get to our route start we just teleport
		// there; stuck longer means a longer allowed hop, capped so the
		// teleports don't get weird.
		teleportReach := timeSinceMoveTargetChange * timeSinceMoveTargetChange * 10
		if b.ai.MoveTargetType == MoveTargetRouteStart && distanceToMoveLocation < teleportReach && distanceToMoveLocation < 5000 {
			b.startRouteFollow()
		} else {
			weights.add(TaskMoveToTarget, 70.0)
		}
	}
	if b.ai.RouteState == RunningRoute {
		markers := len(b.ai.CurrentRoute.Markers)
		priorMarker := b.routes.CurrentMarker() - 1
		if priorMarker < 0 {
			priorMarker = 0
		}
		if priorMarker > markers {
			priorMarker = markers
		}
		grabMarker := b.ai.CurrentRoute.GrabMarkerIndex()
		// Past the grab without the flag means the grab isn't coming;
		// past the second-to-last marker means the route is spent.
		if (priorMarker > grabMarker && !b.pawn.HoldingFlag()) || priorMarker == markers-2 {
			b.ai.RouteState = AbandonedRoute
			b.routes.StopPlayback()
		} else {
			weights.add(TaskRunningRoute, 170.0)
		}
	}
	if b.ai.RouteState == RouteFinished {
		if b.ai.MoveTargetType == MoveTargetFriendlyStand && b.ai.HoldingFlag {
			if b.gs.FlagState == game.EnemyTakenFriendlySafe {
				// Capping is always most important.
				weights.add(TaskMoveToTarget, 200.0)
			} else {
				// Otherwise babysit the flag area.
				weights.add(TaskMoveToTarget, game.Clamp((distanceToMoveLocation-500)/100, 15.0, 150.0))
			}
		} else {
			// Route over, no flag: respawn and try again.
			b.pawn.Suicide()
			b.OnDied()
			return true
		}
	}
	if b.ai.RouteState == AbandonedRoute {
		if b.ai.HoldingFlag && (distanceToMoveLocation > 3000 || b.gs.FriendlyFlagHome) {
			weights.add(TaskMoveToTarget, 200.0)
		} else {
			// Idle too long with their flag sitting home: suicide and
			// start running routes again.
			if now-b.timeOfLastSpawn > 10 && !b.ai.HoldingFlag && b.gs.EnemyFlagHome {
				b.pawn.Suicide()
				b.OnDied()
				return true
			}
			weights.add(TaskMoveToTarget, 20.0)
		}
	}
	return false
}

// weighChase contributes the chase role's votes: defend and return the
// friendly flag. Returns true when the bot suicided.
func (b *Bot) weighChase(weights *taskWeights, distanceToMoveLocation float64) bool {
	if b.ai.MoveTargetType == MoveTargetFriendlyFlag && !b.gs.FriendlyFlagHome {
		if distanceToMoveLocation < 10000 || b.lookupTarget(b.ai.CurrentTarget) == nil {
			// Close to a return, or nothing to shoot: the return wins.
			weights.add(TaskMoveToTarget, 200.0)
		} else {
			weights.add(TaskMoveToTarget, 70.0)
		}
		return false
	}
	// Too far from our stand while the flag is safe: respawn closer.
	if distanceToMoveLocation > 20000 && b.gs.FriendlyFlagHome {
		b.pawn.Suicide()
		b.OnDied()
		return true
	}
	if distanceToMoveLocation > 500 {
		weights.add(TaskMoveToTarget, game.Clamp((distanceToMoveLocation-500)/100, 5.0, 110.0))
	}
	return false
}

// weighLO contributes the linebacker role's votes: biased toward
// killing anything it sees.
func (b *Bot) weighLO(weights *taskWeights, distanceToMoveLocation float64) {
	if b.ai.MoveTargetType != MoveTargetEnemyStand || distanceToMoveLocation > 400 {
		if b.ai.MoveTargetType == MoveTargetFriendlyFlag && !b.gs.FriendlyFlagHeld && !b.gs.FriendlyFlagHome {
			weights.add(TaskMoveToTarget, game.Clamp((distanceToMoveLocation-500)/100, 10.0, 400.0))
		} else {
			weights.add(TaskMoveToTarget, game.Clamp((distanceToMoveLocation-500)/100, 30.0, 40.0))
		}
	} else {
		// Already at their stand with nothing to do there.
		weights.add(TaskLookingForEnemy, 10.0)
	}
}

// weighStayAtHome contributes the home-defense role's votes.
func (b *Bot) weighStayAtHome(weights *taskWeights, distanceToMoveLocation float64) {
	switch {
	case b.ai.MoveTargetType == MoveTargetEnemyFlag && !b.gs.EnemyFlagHeld && !b.ai.HoldingFlag:
		// Enemy flag loose in the field: go pick it up.
		weights.add(TaskMoveToTarget, game.Clamp((distanceToMoveLocation-50)/100, 65.0, 150.0))
	case b.ai.MoveTargetType == MoveTargetFriendlyFlag && !b.gs.FriendlyFlagHome && !b.gs.FriendlyFlagHeld && !b.ai.HoldingFlag:
		// A nearby return is also very important.
		weights.add(TaskMoveToTarget, game.Clamp((distanceToMoveLocation-500)/100, 20.0, 100.0))
	default:
		weights.add(TaskMoveToTarget, game.Clamp((distanceToMoveLocation-500)/100, 5.0, 110.0))
		weights.add(TaskLookingForEnemy, 6.0)
	}
}

// lookForEnemyWeight is the scan desire: it grows LookWeightPerSecond
// per second since the last scan, but flattens inside the settle window
// so the bot doesn't oscillate into and out of looking.
func lookForEnemyWeight(timeSinceLastLook float64, lastTask Task, timeSinceTaskChange float64) float64 {
	w := timeSinceLastLook * LookWeightPerSecond
	if (lastTask != TaskLookingForEnemy && timeSinceTaskChange <= LookSettleWindow) ||
		(lastTask == TaskLookingForEnemy && timeSinceTaskChange > LookSettleWindow) {
		w = LookSettledWeight
	}
	return w
}

// pruneStaleTargets drops the cached target when it stops referencing a
// living enemy, and drops perception entries that are invalid or older
// than the recency window.
func (b *Bot) pruneStaleTargets(now float64) {
	if b.ai.CurrentTarget != NoEntity && b.lookupTarget(b.ai.CurrentTarget) == nil {
		b.ai.CurrentTarget = NoEntity
	}
	for id, lastSeen := range b.seen {
		if now-lastSeen >= SeenTargetMemory || b.lookupTarget(id) == nil {
			delete(b.seen, id)
		}
	}
}

func (b *Bot) clearSeen() {
	for id := range b.seen {
		delete(b.seen, id)
	}
}
