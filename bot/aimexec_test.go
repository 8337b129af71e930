package bot

import (
	"testing"

	"github.com/jetctf/jetctf-web/game"
)

func newAimRig(acc Accuracy) (*testRig, *fakeEntity) {
	rig := newTestRig(Config{Role: RoleStayAtHome, Accuracy: acc, Shoots: true})
	e := rig.addEnemy(2, game.Vec3{X: 5000})
	rig.bot.ai.CurrentTarget = 2
	rig.world.losHit = &e.pos
	return rig, e
}

func TestPerfectBotFiresOnConvergedAim(t *testing.T) {
	rig, _ := newAimRig(AccuracyPerfect)

	// Target dead ahead: the slewed aim is already within tolerance.
	visible := rig.bot.aimAtTarget(true)

	if !visible {
		t.Fatal("target should be visible")
	}
	if !rig.pawn.trigger {
		t.Error("perfect bot with converged aim should fire")
	}
	if rig.bot.ai.PendingFire {
		t.Error("a released shot clears the fire commitment")
	}
}

func TestUnconvergedAimCommitsWithoutFiring(t *testing.T) {
	rig, _ := newAimRig(AccuracyPerfect)
	// Facing away: the slew only closes a tenth per frame.
	rig.pawn.look = game.Rotator{Yaw: 120}

	rig.bot.aimAtTarget(true)

	if rig.pawn.trigger {
		t.Error("disc must not release before the aim converges")
	}
	if !rig.bot.ai.PendingFire {
		t.Error("an unreleased shot should stay committed")
	}
}

func TestChaingunFiresWhileSlewing(t *testing.T) {
	rig, _ := newAimRig(AccuracyPerfect)
	rig.pawn.weapon = WeaponState{Kind: game.WeaponChaingun, Ready: true}
	rig.pawn.look = game.Rotator{Yaw: 120}

	rig.bot.aimAtTarget(true)

	if !rig.pawn.trigger {
		t.Error("the chain sprays as soon as firing is decided")
	}
}

func TestShotCooldownGatesNonAutomatics(t *testing.T) {
	rig, _ := newAimRig(AccuracyHorrible)
	rig.bot.timeOfLastShot = rig.clock.now

	rig.bot.aimAtTarget(true)

	if rig.pawn.trigger {
		t.Error("horrible tier must wait out its shot cooldown")
	}
}

func TestHeatCeilingGatesTheChain(t *testing.T) {
	rig, _ := newAimRig(AccuracyDecent)
	rig.pawn.weapon = WeaponState{Kind: game.WeaponChaingun, Ready: true, Heat: 0.5}

	rig.bot.aimAtTarget(true)

	if rig.pawn.trigger {
		t.Error("heat above the tier ceiling must hold fire")
	}
}

func TestBlockedAimHoldsFire(t *testing.T) {
	rig, _ := newAimRig(AccuracyPerfect)
	// The trace sails past the target into distant scenery: the aim
	// line isn't actually on the target.
	far := game.Vec3{X: 30000}
	rig.world.losHit = &far

	visible := rig.bot.aimAtTarget(true)

	if visible {
		t.Error("aim landing far beyond the target should read as blocked")
	}
	if rig.pawn.trigger {
		t.Error("blocked aim must not fire")
	}
}

func TestNonShooterNeverFires(t *testing.T) {
	rig, _ := newAimRig(AccuracyPerfect)
	rig.bot.cfg.Shoots = false

	rig.bot.aimAtTarget(true)

	if rig.pawn.trigger {
		t.Error("a bot configured not to shoot must never fire")
	}
}

func TestAimSnapsToGroundedTargets(t *testing.T) {
	rig, e := newAimRig(AccuracyPerfect)
	// Hovering just above the ground: the aim point snaps to its feet,
	// so a level shooter pitches down rather than straight at the torso.
	rig.pawn.pos = game.Vec3{Z: 1000}
	e.pos = game.Vec3{X: 5000, Z: 400}
	rig.world.losHit = &e.pos

	rig.bot.aimAtTarget(false)

	if rig.pawn.look.Pitch >= 0 {
		t.Errorf("look pitch = %.2f, expected a downward aim at the feet", rig.pawn.look.Pitch)
	}
}

func TestAimSkewTiers(t *testing.T) {
	tests := []struct {
		name    string
		acc     Accuracy
		maxSkew float64
	}{
		{"perfect has none", AccuracyPerfect, 0},
		{"good stays inside 35", AccuracyGood, 35},
		{"decent stays inside 25", AccuracyDecent, 25},
		{"horrible stays inside 30", AccuracyHorrible, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig, _ := newAimRig(tt.acc)
			for i := 0; i < 200; i++ {
				rig.bot.rollAimSkew()
				if p := rig.bot.randomPitchSkew; p < -tt.maxSkew || p > tt.maxSkew {
					t.Fatalf("pitch skew %.2f outside ±%.0f", p, tt.maxSkew)
				}
				if y := rig.bot.randomYawSkew; y < -tt.maxSkew || y > tt.maxSkew {
					t.Fatalf("yaw skew %.2f outside ±%.0f", y, tt.maxSkew)
				}
			}
		})
	}
}

func TestWaitForBetterShotNeverFires(t *testing.T) {
	rig, _ := newAimRig(AccuracyPerfect)
	rig.clock.advance(WeaponSwitchCooldown + 1)

	rig.bot.waitForBetterShot()

	if rig.pawn.trigger {
		t.Error("waiting for a better shot must keep the trigger released")
	}
}
