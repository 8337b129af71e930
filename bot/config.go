package bot

// Role is a bot's assigned position. How a bot weighs its candidate
// tasks is driven by its role.
type Role int

const (
	RoleStayAtHome Role = iota
	RoleChase
	RoleOffense
	RoleLO // linebacker offense: combat-biased midfield
	RoleRouteRunner
	RoleStationaryDefense
)

func (r Role) String() string {
	switch r {
	case RoleStayAtHome:
		return "StayAtHome"
	case RoleChase:
		return "Chase"
	case RoleOffense:
		return "Offense"
	case RoleLO:
		return "LO"
	case RoleRouteRunner:
		return "RouteRunner"
	case RoleStationaryDefense:
		return "StationaryDefense"
	}
	return "Unknown"
}

// Accuracy is the discrete skill tier controlling aim error magnitude
// and fire-rate restraint.
type Accuracy int

const (
	AccuracyHorrible Accuracy = iota
	AccuracyDecent
	AccuracyGood
	AccuracyPerfect
)

func (a Accuracy) String() string {
	switch a {
	case AccuracyHorrible:
		return "Horrible"
	case AccuracyDecent:
		return "Decent"
	case AccuracyGood:
		return "Good"
	case AccuracyPerfect:
		return "Perfect"
	}
	return "Unknown"
}

// SpawnOffsetKind selects how a drill bot's spawn point on its route is
// computed from the configured delay.
type SpawnOffsetKind int

const (
	SpawnSecondsBeforeGrab SpawnOffsetKind = iota
	SpawnSecondsIntoRoute
)

// Config is the immutable per-bot setup chosen at spawn. The decision
// loop reads it but never writes it.
type Config struct {
	Name     string
	Role     Role
	Accuracy Accuracy

	// Routes the bot may run, by stored trail name.
	Routes []string

	// Weapon availability.
	NoChaingun bool
	NoDisc     bool
	Shoots     bool

	// Spawn-delay policy for route runners.
	SpawnOffset SpawnOffsetKind
	SpawnDelay  float64

	// Route-playback behavior.
	AlwaysFollowPath bool
	TakesDamage      bool
}
