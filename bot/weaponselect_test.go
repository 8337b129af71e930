package bot

import (
	"testing"

	"github.com/jetctf/jetctf-web/game"
)

func TestSelectBestWeapon(t *testing.T) {
	discSlot := game.WeaponSpecs[game.WeaponDisc].Slot
	chainSlot := game.WeaponSpecs[game.WeaponChaingun].Slot

	tests := []struct {
		name     string
		cfg      Config
		setup    func(rig *testRig, e *fakeEntity)
		expected int
	}{
		{
			name:     "grounded close target gets the disc",
			setup:    func(rig *testRig, e *fakeEntity) { e.pos = game.Vec3{X: 2000} },
			expected: discSlot,
		},
		{
			name: "fast distant flier gets the chain",
			setup: func(rig *testRig, e *fakeEntity) {
				e.pos = game.Vec3{X: 12000, Z: 5000}
				// Crossing laterally at over 160 KPH, so neither the
				// line-of-sight nor the close-range disc bonus applies.
				e.vel = game.Vec3{Y: 5000}
			},
			expected: chainSlot,
		},
		{
			name: "chain ban forces the disc",
			cfg:  Config{NoChaingun: true},
			setup: func(rig *testRig, e *fakeEntity) {
				e.pos = game.Vec3{X: 12000, Z: 5000}
				e.vel = game.Vec3{Y: 5000}
			},
			expected: discSlot,
		},
		{
			name: "disc ban forces the chain",
			cfg:  Config{NoDisc: true},
			setup: func(rig *testRig, e *fakeEntity) {
				e.pos = game.Vec3{X: 2000}
			},
			expected: chainSlot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig := newTestRig(tt.cfg)
			e := rig.addEnemy(2, game.Vec3{})
			tt.setup(rig, e)
			rig.bot.ai.CurrentTarget = 2
			// Get past the switch cooldown.
			rig.clock.advance(WeaponSwitchCooldown + 1)

			rig.bot.selectBestWeapon()

			if rig.pawn.weaponSlot != tt.expected {
				t.Errorf("switched to slot %d, expected %d", rig.pawn.weaponSlot, tt.expected)
			}
		})
	}
}

func TestSelectBestWeaponRespectsCooldown(t *testing.T) {
	rig := newTestRig(Config{})
	rig.addEnemy(2, game.Vec3{X: 2000})
	rig.bot.ai.CurrentTarget = 2
	rig.bot.timeOfLastWeaponChange = rig.clock.now
	rig.pawn.weaponSlot = -1

	rig.bot.selectBestWeapon()

	if rig.pawn.weaponSlot != -1 {
		t.Error("selection inside the switch cooldown should not touch the weapon")
	}
}

func TestSelectBestWeaponNeedsTarget(t *testing.T) {
	rig := newTestRig(Config{})
	rig.clock.advance(WeaponSwitchCooldown + 1)
	rig.pawn.weaponSlot = -1

	rig.bot.selectBestWeapon()

	if rig.pawn.weaponSlot != -1 {
		t.Error("selection without a target should not touch the weapon")
	}
}

func TestHorribleBotsDropTheChain(t *testing.T) {
	// A horrible shot that has been chaining for a while gets pushed
	// back to the disc even on a chain-favoring target.
	rig := newTestRig(Config{Accuracy: AccuracyHorrible})
	e := rig.addEnemy(2, game.Vec3{X: 12000, Z: 5000})
	e.vel = game.Vec3{Y: 5000}
	rig.bot.ai.CurrentTarget = 2
	rig.pawn.weapon.Kind = game.WeaponChaingun
	rig.clock.advance(WeaponSwitchCooldown + 1)

	rig.bot.selectBestWeapon()

	if rig.pawn.weaponSlot != game.WeaponSpecs[game.WeaponDisc].Slot {
		t.Errorf("switched to slot %d, expected the disc", rig.pawn.weaponSlot)
	}
}
