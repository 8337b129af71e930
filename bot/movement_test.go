package bot

import (
	"testing"

	"github.com/jetctf/jetctf-web/game"
)

func TestMoveToTargetSkatesWithMomentum(t *testing.T) {
	rig := newTestRig(Config{Role: RoleChase})
	rig.bot.ai.DesiredMoveLocation = game.Vec3{X: 10000}
	// Momentum carrying the pawn away from the goal: no point skiing.
	rig.pawn.vel = game.Vec3{X: -2000}

	rig.bot.moveToTarget()

	if !rig.pawn.skating {
		t.Error("grounded pawn far from its goal should ski")
	}
	if rig.pawn.moveForward != 1.0 {
		t.Errorf("moveForward = %.1f, expected full throttle", rig.pawn.moveForward)
	}
}

func TestMoveToTargetStopsSkatingWhenClose(t *testing.T) {
	rig := newTestRig(Config{Role: RoleChase})
	rig.bot.ai.DesiredMoveLocation = game.Vec3{X: 500}
	rig.pawn.vel = game.Vec3{X: -100}

	rig.bot.moveToTarget()

	if rig.pawn.skating {
		t.Error("close to the goal the pawn should run, not ski")
	}
}

func TestMoveToTargetJetsTowardHighGoal(t *testing.T) {
	rig := newTestRig(Config{Role: RoleChase})
	rig.bot.ai.DesiredMoveLocation = game.Vec3{X: 2000, Z: 3000}
	// Past the jet-energy settle window.
	rig.clock.advance(3)

	rig.bot.moveToTarget()

	if !rig.pawn.jetting {
		t.Error("pawn below its goal should jet")
	}
}

func TestMoveToTargetCutsJetsOnOvershoot(t *testing.T) {
	rig := newTestRig(Config{Role: RoleChase})
	rig.bot.ai.DesiredMoveLocation = game.Vec3{X: 2000, Z: 3000}
	rig.clock.advance(3)
	// Still below the goal but rocketing upward fast enough that
	// momentum alone will carry well past it.
	rig.pawn.pos = game.Vec3{Z: 2000}
	rig.pawn.vel = game.Vec3{Z: 3000}

	rig.bot.moveToTarget()

	if rig.pawn.jetting {
		t.Error("upward momentum past the goal should cut the jets")
	}
}

func TestMoveToTargetFacesTheGoal(t *testing.T) {
	rig := newTestRig(Config{Role: RoleChase})
	rig.bot.ai.DesiredMoveLocation = game.Vec3{Y: 5000}
	// No recent shot, so no glance skew applies.
	rig.clock.advance(10)

	rig.bot.moveToTarget()

	if got := rig.pawn.look.Yaw; got < 89 || got > 91 {
		t.Errorf("look yaw = %.1f, expected ~90 toward +Y", got)
	}
}

func TestStationaryDefenseHoldsStill(t *testing.T) {
	rig := newTestRig(Config{Role: RoleStationaryDefense})
	rig.clock.advance(5)

	rig.bot.moveAround()

	if rig.pawn.moveForward != 0 || rig.pawn.moveRight != 0 {
		t.Error("stationary defense must not shuffle")
	}
}

func TestLookForEnemiesPansAndHoldsFire(t *testing.T) {
	rig := newTestRig(Config{Role: RoleStayAtHome})
	rig.pawn.trigger = true
	before := rig.pawn.look.Yaw

	rig.bot.lookForEnemies()

	if rig.pawn.trigger {
		t.Error("scanning must release the trigger")
	}
	if rig.pawn.look.Yaw <= before {
		t.Error("scanning should pan the view")
	}
	if rig.bot.timeOfLastLookForEnemy != rig.clock.now {
		t.Error("scan timestamp should be refreshed")
	}
}

func TestOnDiedResetsCombatState(t *testing.T) {
	rig := newTestRig(Config{Role: RoleStayAtHome})
	rig.addEnemy(2, game.Vec3{X: 1000})
	rig.see(2)
	rig.bot.ai.CurrentTarget = 2
	rig.bot.ai.RouteState = RunningRoute
	rig.bot.jetting = true

	rig.bot.OnDied()

	st := rig.bot.State()
	if st.CurrentTarget != NoEntity {
		t.Error("death should drop the target")
	}
	if st.RouteState != NoRouteSelected {
		t.Error("death should reset the route state")
	}
	if len(rig.bot.seen) != 0 {
		t.Error("death should wipe perception memory")
	}

	// Dead bots decide nothing.
	rig.bot.DetermineCurrentTask()
	if got := rig.bot.State().CurrentTask; got != st.CurrentTask {
		t.Error("dead bot should not change task")
	}

	rig.bot.OnSpawn()
	if rig.bot.dead {
		t.Error("respawn should re-arm the bot")
	}
}

func TestTargetDiedDropsHandleImmediately(t *testing.T) {
	rig := newTestRig(Config{Role: RoleStayAtHome})
	rig.addEnemy(2, game.Vec3{X: 1000})
	rig.see(2)
	rig.bot.ai.CurrentTarget = 2

	rig.bot.TargetDied(2)

	if rig.bot.State().CurrentTarget != NoEntity {
		t.Error("kill broadcast should null the target")
	}
	if _, ok := rig.bot.seen[2]; ok {
		t.Error("kill broadcast should remove the sighting")
	}
}

func TestRouteRunnerSpawnMarkerBeforeGrab(t *testing.T) {
	trail := game.RouteTrail{
		Name:           "flank",
		Team:           game.TeamRed,
		GrabTime:       5,
		MarkerInterval: 0.25,
		Modulus:        1,
	}
	for i := 0; i < 60; i++ {
		trail.Markers = append(trail.Markers, game.RouteMarker{Time: float64(i) * 0.25})
	}

	rig := newTestRig(Config{
		Role:        RoleRouteRunner,
		Routes:      []string{"flank"},
		SpawnOffset: SpawnSecondsBeforeGrab,
		SpawnDelay:  2,
		TakesDamage: false,
	})
	rig.routes.trails["flank"] = trail

	rig.bot.Tick()

	if !rig.routes.started {
		t.Fatal("route runner should start playback on its first tick")
	}
	// Two seconds before the 5s grab is marker 12, minus up to 8 of
	// random stagger.
	got := rig.routes.startedWith.StartMarker
	if got < 4 || got > 12 {
		t.Errorf("start marker = %d, expected within [4, 12]", got)
	}
	if !rig.routes.startedWith.RestoreHealthOnTeleport {
		t.Error("invulnerable runners heal on every teleport")
	}
	if rig.routes.startedWith.StayAliveAfterEnd {
		t.Error("route runners die at the end of their route")
	}
}
