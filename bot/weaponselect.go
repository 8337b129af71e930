package bot

import (
	"github.com/jetctf/jetctf-web/game"
)

// selectBestWeapon picks between the disc and the chaingun for the
// current target. Rough shape: pound grounded and slow targets with
// the disc, hose fast or distant fliers with the chain. The switch
// itself is rate-limited so bots don't juggle weapons every cycle.
func (b *Bot) selectBestWeapon() {
	target := b.lookupTarget(b.ai.CurrentTarget)
	now := b.clock.Now()
	if target == nil || now-b.timeOfLastWeaponChange < WeaponSwitchCooldown {
		return
	}
	weapon, ok := b.pawn.Weapon()
	if !ok {
		return
	}

	discWeight := 1.0
	chainWeight := 0.0

	if target.Health() < 50 {
		chainWeight += 30.0
		discWeight += 5.0
	}
	// Ground pound with disc, shoot flyers with chain.
	if b.heightAboveGround(target.Position()) < 600 {
		discWeight += 30.0
	} else {
		chainWeight += 10.0
	}
	// Chain tracks fast targets better.
	if targetSpeedKPH(target) > 160.0 {
		chainWeight += 15.0
	}
	// Chain holds up much better at range.
	targetDistance := b.distanceToTarget(target)
	if targetDistance > 10000 {
		chainWeight += 20.0
	} else if targetDistance < 3000 {
		discWeight += 20.0
	}
	// A target closing or fleeing along our line of sight needs almost
	// no lead, which makes the disc an easy shot.
	if game.MotionAlongLineOfSight(b.pawn.Position(), target.Position(), target.Velocity()) {
		discWeight += 15.0
	}
	if b.cfg.NoChaingun {
		chainWeight = -100.0
	}
	if b.cfg.NoDisc {
		discWeight = -100.0
	}

	if weapon.Kind == game.WeaponChaingun {
		// Discourage bad bots from chaining for long stretches.
		timeSinceChange := now - b.timeOfLastWeaponChange
		if b.accuracy == AccuracyHorrible && timeSinceChange > 2.0 {
			chainWeight -= 50.0
		} else if b.accuracy == AccuracyDecent && timeSinceChange > 3.0 {
			chainWeight -= 20.0
		}
	}

	if discWeight > chainWeight {
		if weapon.Kind == game.WeaponChaingun {
			b.timeOfLastWeaponChange = now
		}
		b.pawn.SwitchWeapon(game.WeaponSpecs[game.WeaponDisc].Slot)
	} else {
		if weapon.Kind == game.WeaponDisc {
			b.timeOfLastWeaponChange = now
		}
		b.pawn.SwitchWeapon(game.WeaponSpecs[game.WeaponChaingun].Slot)
	}
}
