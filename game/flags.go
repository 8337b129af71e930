package game

// FlagState is the combined home status of both flags, from one team's
// point of view.
type FlagState int

const (
	BothFlagsHome FlagState = iota
	EnemyTakenFriendlySafe
	FriendlyTakenEnemyHome
	Standoff
)

func (s FlagState) String() string {
	switch s {
	case BothFlagsHome:
		return "BothFlagsHome"
	case EnemyTakenFriendlySafe:
		return "EnemyTakenFriendlySafe"
	case FriendlyTakenEnemyHome:
		return "FriendlyTakenEnemyHome"
	case Standoff:
		return "Standoff"
	}
	return "Unknown"
}

// CombineFlagState derives the combined flag state from the two
// home-status bits.
func CombineFlagState(enemyFlagHome, friendlyFlagHome bool) FlagState {
	switch {
	case enemyFlagHome && friendlyFlagHome:
		return BothFlagsHome
	case !enemyFlagHome && friendlyFlagHome:
		return EnemyTakenFriendlySafe
	case enemyFlagHome && !friendlyFlagHome:
		return FriendlyTakenEnemyHome
	default:
		return Standoff
	}
}
