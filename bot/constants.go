package bot

// Decision-loop tuning. Weights are votes in the task accumulator; the
// ranges and windows are simulated seconds or engine units.
const (
	// SeenTargetMemory is how long a perception sighting stays usable.
	SeenTargetMemory = 5.0

	// PendingFireCommitWindow keeps a bot re-entering ShootAtTarget to
	// finish a committed shot instead of flip-flopping mid-aim.
	PendingFireCommitWindow = 1.0

	// LookSettleWindow suppresses look-weight growth right after
	// switching into or out of LookingForEnemy.
	LookSettleWindow = 2.0
	// LookWeightPerSecond grows the desire to scan while idle.
	LookWeightPerSecond = 5.0
	// LookSettledWeight is the flat weight inside the settle window.
	LookSettledWeight = 3.0

	// CapOverrideWeight dominates every other vote: holding the enemy
	// flag with the friendly flag home means go cap, full stop.
	CapOverrideWeight = 9001.0

	// StandStallDistance is how close to a contested stand a bot must
	// be before the anti-stall override kicks in.
	StandStallDistance = 300.0

	// WeaponSwitchCooldown gates how often the selection policy may
	// actually change weapons.
	WeaponSwitchCooldown = 2.0

	// AimSkewRefreshInterval is how often the randomized aim error is
	// re-rolled. Per-tick re-rolls make bots visibly jitter.
	AimSkewRefreshInterval = 1.0
	// AimSkewClampDeg bounds the per-axis aim error.
	AimSkewClampDeg = 80.0

	// ShotLookDecay is how long a bot keeps glancing at its last shot
	// before its gaze returns to the move direction.
	ShotLookDecay = 3.0

	// GroundSnapHeight: targets closer to the ground than this have
	// their predicted position snapped to it, so the solver doesn't aim
	// through terrain.
	GroundSnapHeight = 600.0

	// LOSTolerance is how far beyond the target an aim trace may land
	// before firing is suppressed.
	LOSTolerance = 100.0

	// farAway is the sentinel distance used when there is no target.
	farAway = 9999999.0
)

// Per-tier fire gates. Non-automatic weapons respect a minimum interval
// between shots; automatic weapons respect a heat ceiling instead.
var (
	shotCooldownByAccuracy = map[Accuracy]float64{
		AccuracyHorrible: 6.0,
		AccuracyDecent:   4.0,
		AccuracyGood:     2.0,
		AccuracyPerfect:  0.0,
	}
	heatCeilingByAccuracy = map[Accuracy]float64{
		AccuracyHorrible: 0.1,
		AccuracyDecent:   0.2,
		AccuracyGood:     0.4,
		AccuracyPerfect:  1.0,
	}
)
