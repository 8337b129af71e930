package bot

import (
	"math"

	"github.com/jetctf/jetctf-web/game"
)

// shootAtTarget is the per-frame body of the ShootAtTarget task.
func (b *Bot) shootAtTarget() {
	b.selectBestWeapon()
	b.aimAtTarget(true)
}

// waitForBetterShot tracks the target without firing, holding out for a
// ground pound or similar.
func (b *Bot) waitForBetterShot() {
	b.aimAtTarget(false)
	b.selectBestWeapon()
	b.pawn.SetTrigger(false)
}

// changeTarget swings the aim over to the newly chosen target.
func (b *Bot) changeTarget() {
	b.aimAtTarget(false)
	b.pawn.SetTrigger(false)
}

// aimAtTarget orients toward the current target's predicted intercept
// and, when fire is set, pulls the trigger once the aim has converged.
// Returns whether the target is considered visible along the aim line.
func (b *Bot) aimAtTarget(fire bool) bool {
	target := b.lookupTarget(b.ai.CurrentTarget)
	if target == nil || target.Health() == 0 {
		b.pawn.SetTrigger(false)
		return false
	}
	weapon, ok := b.pawn.Weapon()
	if !ok {
		b.pawn.SetTrigger(false)
		return false
	}
	spec, ok := game.WeaponSpecs[weapon.Kind]
	if !ok {
		b.pawn.SetTrigger(false)
		return false
	}
	isChain := weapon.Kind == game.WeaponChaingun
	now := b.clock.Now()

	shouldFire := fire && b.cfg.Shoots
	// Rate-limit the firing, especially for lower tiers; a bot that
	// shoots every frame is overpowering. Non-automatic weapons get a
	// per-shot cooldown, the chain a heat ceiling instead.
	timeSinceLastShot := now - b.timeOfLastShot
	if !isChain {
		if timeSinceLastShot < shotCooldownByAccuracy[b.accuracy] {
			shouldFire = false
		}
	} else if weapon.Heat > heatCeilingByAccuracy[b.accuracy] {
		shouldFire = false
	}
	if !weapon.Ready {
		shouldFire = false
	}

	// Re-roll how far off our aim is at most once per second. Per-tick
	// re-rolls make the bots spaz out visibly.
	if now-b.timeOfLastAimpointChange > AimSkewRefreshInterval {
		b.timeOfLastAimpointChange = now
		b.rollAimSkew()
	}
	b.randomYawSkew = game.Clamp(b.randomYawSkew, -AimSkewClampDeg, AimSkewClampDeg)
	b.randomPitchSkew = game.Clamp(b.randomPitchSkew, -AimSkewClampDeg, AimSkewClampDeg)

	projectileSkew := 1.0
	if shouldFire {
		projectileSkew = b.randomProjectileSkew
	}
	aimVelocity, ok := b.weaponAimLocation(target, spec.ProjectileSpeed*projectileSkew, spec.Inheritance*projectileSkew)
	if !ok {
		return false
	}
	aimRot := game.RotatorFromVector(aimVelocity.Normalize())

	if !shouldFire {
		// Keep glancing toward the last shot and ease back over a few
		// seconds, so the head doesn't snap around.
		skewFactor := (ShotLookDecay - math.Min(timeSinceLastShot, ShotLookDecay)) / ShotLookDecay
		look := aimRot
		look.Pitch += b.randomPitchSkew * skewFactor
		look.Yaw += b.randomYawSkew * skewFactor
		b.pawn.SetLook(look)
	}

	// Skew the real aim by this cycle's error.
	aimRot.Pitch += b.randomPitchSkew
	aimRot.Yaw += b.randomYawSkew

	// Verify the aim line actually passes through the target's range.
	// The trace includes pawns, so a ray that leads the target still
	// lands near it; a ray pointing at scenery far beyond means our aim
	// (or skew) is nowhere near the target.
	pos := b.pawn.Position()
	hit := b.world.LineOfSight(pos, pos.Add(aimVelocity))
	distanceToTarget := game.Distance(pos, target.Position())
	distanceToHit := game.Distance(pos, hit)
	if distanceToHit-LOSTolerance > distanceToTarget {
		b.pawn.SetTrigger(false)
		return false
	}

	if shouldFire {
		// Slew toward the aim point rather than snapping there, and
		// only release the disc once the slew has converged. The chain
		// just starts spewing.
		finalAim := game.LerpRotator(b.pawn.Look(), aimRot, 0.1)
		aimAtAngle := game.AngleBetweenDeg(b.pawn.Look().Vector(), finalAim.Vector())
		b.pawn.SetLook(finalAim)

		// Now that we decided to shoot, follow through with the shot.
		b.ai.PendingFire = true
		if aimAtAngle < 0.05 || isChain {
			b.pawn.SetTrigger(true)
			b.timeOfLastShot = now
			b.ai.PendingFire = false
		}
	}
	return true
}

// rollAimSkew draws this second's aim error from the accuracy tier's
// distribution.
func (b *Bot) rollAimSkew() {
	signPitch := 1.0
	if b.rng.Intn(2) == 0 {
		signPitch = -1.0
	}
	signYaw := 1.0
	if b.rng.Intn(2) == 0 {
		signYaw = -1.0
	}
	b.randomPitchSkew = 0.0
	b.randomYawSkew = 0.0
	b.randomProjectileSkew = 1.0

	switch b.accuracy {
	case AccuracyHorrible:
		// Terrible bots aim actively badly almost all the time.
		b.randomProjectileSkew = 0.5 + b.rng.Float64()
		if b.rng.Intn(6) != 0 {
			// Always 15 to 30 degrees off, so they can't hit unless the
			// target is right on top of them.
			b.randomPitchSkew += (15.0 + b.rng.Float64()*15.0) * signPitch
			b.randomYawSkew += (15.0 + b.rng.Float64()*15.0) * signYaw
		} else {
			// Still random, but a small draw here can actually land.
			b.randomPitchSkew += -25.0 + b.rng.Float64()*50.0
			b.randomYawSkew += -15.0 + b.rng.Float64()*30.0
		}
	case AccuracyDecent:
		// At least a little bad all the time, more bad much of it.
		if b.rng.Intn(2) == 0 {
			b.randomProjectileSkew = 0.2 + b.rng.Float64()*1.3
		}
		if b.rng.Intn(2) != 0 {
			b.randomPitchSkew += (15.0 + b.rng.Float64()*10.0) * signPitch
			b.randomYawSkew += (15.0 + b.rng.Float64()*10.0) * signYaw
		} else {
			b.randomPitchSkew += -20.0 + b.rng.Float64()*40.0
			b.randomYawSkew += -20.0 + b.rng.Float64()*40.0
		}
	case AccuracyGood:
		// Off half the time but by less, a quarter close, an eighth
		// dead on.
		if b.rng.Intn(2) == 0 {
			b.randomProjectileSkew = 0.5 + b.rng.Float64()
		}
		if b.rng.Intn(2) == 0 {
			b.randomPitchSkew += (15.0 + b.rng.Float64()*20.0) * signPitch
			b.randomYawSkew += (10.0 + b.rng.Float64()*20.0) * signYaw
		} else if b.rng.Intn(2) == 0 {
			b.randomPitchSkew += -15.0 + b.rng.Float64()*30.0
			b.randomYawSkew += -15.0 + b.rng.Float64()*30.0
		}
	case AccuracyPerfect:
		// No error at all.
	}
}

// weaponAimLocation computes the firing velocity that intercepts the
// target, accounting for the shooter's own velocity being inherited by
// the projectile. Targets near the ground have their aim point snapped
// onto it so the shot lands at their feet.
func (b *Bot) weaponAimLocation(target Entity, projectileSpeed, inheritance float64) (game.Vec3, bool) {
	if projectileSpeed <= 0 {
		return game.Vec3{}, false
	}
	targetPos := target.Position()
	if gz, ok := b.world.GroundHeight(targetPos); ok && targetPos.Z-gz < GroundSnapHeight {
		targetPos.Z = gz
	}
	inherited := b.pawn.Velocity().Scale(inheritance)
	adjustedVelocity := target.Velocity().Sub(inherited)
	v, _ := game.PredictiveAim(b.pawn.Position(), projectileSpeed, targetPos, adjustedVelocity, 0, b.rng)
	return v, true
}
