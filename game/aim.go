package game

import (
	"math"
	"math/rand"
)

const smallNumber = 1e-8

// PredictiveAim computes the velocity vector a projectile must be
// launched with to intercept a moving target, by solving the
// Law-of-Cosines intercept-time equation.
//
// muzzle is the shooter position, projectileSpeed the constant launch
// speed, targetPos/targetVel the target kinematics. gravity is reserved
// for arcing projectiles and currently unused. rng supplies the fallback
// impact time when no exact solution exists.
//
// The second return value reports whether an exact intercept was found.
// When it is false the returned vector is a straight-line lead at
// projectile speed, not a true intercept, and callers must treat it as
// approximate.
func PredictiveAim(muzzle Vec3, projectileSpeed float64, targetPos, targetVel Vec3, gravity float64, rng *rand.Rand) (Vec3, bool) {
	_ = gravity // no arcing weapons yet

	projectileSpeedSq := projectileSpeed * projectileSpeed
	targetSpeed := targetVel.Length()
	targetSpeedSq := targetSpeed * targetSpeed

	targetToMuzzle := muzzle.Sub(targetPos)
	targetToMuzzleDist := targetToMuzzle.Length()
	targetToMuzzleDistSq := targetToMuzzleDist * targetToMuzzleDist
	targetToMuzzleDir := targetToMuzzle.Normalize()

	// Law of Cosines: A*A + B*B - 2*A*B*cos(theta) = C*C
	// A is muzzle-to-target distance, B is target travel until impact
	// (targetSpeed*t), C is projectile travel until impact
	// (projectileSpeed*t).
	cosTheta := 1.0
	if targetSpeedSq > 0 {
		cosTheta = targetToMuzzleDir.Dot(targetVel.Normalize())
	}

	validSolution := true
	var t float64
	if nearlyEqual(projectileSpeedSq, targetSpeedSq) {
		// The quadratic's leading coefficient is ~0. With B == C the
		// Law of Cosines reduces to A = 2*B*cos(theta), so
		// t = 0.5*A / (targetSpeed*cos(theta)). cos(theta) <= 0 means B
		// would run backwards: no solution.
		if cosTheta > 0 {
			t = 0.5 * targetToMuzzleDist / (targetSpeed * cosTheta)
		} else {
			validSolution = false
			t = fallbackImpactTime(rng)
		}
	} else {
		a := projectileSpeedSq - targetSpeedSq
		b := 2.0 * targetToMuzzleDist * targetSpeed * cosTheta
		c := -targetToMuzzleDistSq
		discriminant := b*b - 4.0*a*c

		if discriminant < 0 {
			// Imaginary roots: target outruns the projectile on this
			// geometry. Take a wild shot instead of returning NaN.
			validSolution = false
			t = fallbackImpactTime(rng)
		} else {
			root := math.Sqrt(discriminant)
			t0 := 0.5 * (-b + root) / a
			t1 := 0.5 * (-b - root) / a
			// Aim at the earliest hit: lowest positive time wins.
			t = math.Min(t0, t1)
			if t < smallNumber {
				t = math.Max(t0, t1)
			}
			if t < smallNumber {
				// Time can't flow backwards when it comes to aiming.
				validSolution = false
				t = fallbackImpactTime(rng)
			}
		}
	}

	// Vb = Vt + (Pti - Pbi) / t
	projectileVelocity := targetVel.Sub(targetToMuzzle.Scale(1 / t))
	if !validSolution {
		// The fallback t will not produce an impact, so the magnitude
		// above is meaningless. Keep only the direction, launched at the
		// weapon's real speed.
		projectileVelocity = projectileVelocity.Normalize().Scale(projectileSpeed)
	}

	return projectileVelocity, validSolution
}

// fallbackImpactTime keeps the intercept formula numerically defined
// when no real solution exists.
func fallbackImpactTime(rng *rand.Rand) float64 {
	return 1 + rng.Float64()*4
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(math.Max(math.Abs(a), math.Abs(b)), 1)
}

// MotionAlongLineOfSight reports whether a target's movement is mostly
// along the shooter's line of sight (closing or fleeing). Such targets
// need little lateral lead and make for easy shots.
func MotionAlongLineOfSight(from, targetPos, targetVel Vec3) bool {
	speed := targetVel.Length()
	if speed < smallNumber {
		return false
	}
	now := Distance(from, targetPos)
	next := Distance(from, targetPos.Add(targetVel))
	return math.Abs(next-now) > 0.8*speed
}
