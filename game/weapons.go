package game

// WeaponKind identifies a weapon class. The AI keys all per-weapon
// behavior off this tag rather than inspecting class names.
type WeaponKind int

const (
	WeaponNone WeaponKind = iota - 1
	WeaponDisc
	WeaponGrenade
	WeaponChaingun
)

func (k WeaponKind) String() string {
	switch k {
	case WeaponDisc:
		return "Disc"
	case WeaponGrenade:
		return "Grenade"
	case WeaponChaingun:
		return "Chaingun"
	}
	return "None"
}

// WeaponSpec holds the ballistic properties the AI needs to compute a
// firing solution for a weapon.
type WeaponSpec struct {
	Slot            int     // inventory slot passed to SwitchWeapon
	ProjectileSpeed float64 // units per second, constant (no drop modeled)
	Inheritance     float64 // fraction of shooter velocity added to the projectile
	Automatic       bool    // fires continuously while triggered; gated by heat, not cooldown
	HeatPerShot     float64 // heat added per round for automatic weapons
	ReloadTime      float64 // seconds between shots when the weapon is idle
	Damage          float64 // damage per hit
}

// WeaponSpecs is the per-class ballistic table. Grenades carry a spec so
// the solver can aim them, but the selection policy does not weigh them
// yet.
var WeaponSpecs = map[WeaponKind]WeaponSpec{
	WeaponDisc: {
		Slot:            0,
		ProjectileSpeed: 6500,
		Inheritance:     0.5,
		ReloadTime:      1.0,
		Damage:          40,
	},
	WeaponGrenade: {
		Slot:            1,
		ProjectileSpeed: 4500,
		Inheritance:     0.5,
		ReloadTime:      1.2,
		Damage:          30,
	},
	WeaponChaingun: {
		Slot:            2,
		ProjectileSpeed: 52500,
		Inheritance:     1.0,
		Automatic:       true,
		HeatPerShot:     0.04,
		ReloadTime:      0.1,
		Damage:          4,
	},
}

// Weapon heat tuning. Each shot adds heat; heat decays with time,
// helped along by player movement speed ("wind" cooling).
const (
	HeatLossPerSecond           = 0.1
	OverheatedHeatLossPerSecond = 0.25
	HeatDissipationThresholdKPH = 110.0
	WindHeatLossFraction        = 0.25
)

// HeatLoss returns heat lost per second for a pawn moving at speedKPH.
func HeatLoss(speedKPH float64, overheated bool) float64 {
	base := HeatLossPerSecond
	if overheated {
		base = OverheatedHeatLossPerSecond
	}
	return base + WindHeatLossFraction*speedKPH/HeatDissipationThresholdKPH
}

// HeatFactor maps accumulated heat to a fire-rate multiplier in [0, 1].
// The 0.05 buffer keeps low-heat moving players at full rate.
func HeatFactor(heat float64) float64 {
	return Clamp((1.0-heat)+0.05, 0.0, 1.0)
}
