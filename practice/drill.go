package practice

import (
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/jetctf/jetctf-web/bot"
	"github.com/jetctf/jetctf-web/game"
)

// DefaultVictoryRadius is the goal-area radius for location drills that
// don't configure one.
const DefaultVictoryRadius = 300.0

// VictoryType is what the player must pull off to win a drill.
type VictoryType int

const (
	VictoryHitShot VictoryType = iota
	VictoryLocation
	VictoryMovementSpeed
	VictoryFlagCaught
	VictoryNoFlagCarrier
	VictoryTotalKills
	VictoryTotalMidairs
)

func (v VictoryType) String() string {
	switch v {
	case VictoryHitShot:
		return "HitShot"
	case VictoryLocation:
		return "Location"
	case VictoryMovementSpeed:
		return "MovementSpeed"
	case VictoryFlagCaught:
		return "FlagCaught"
	case VictoryNoFlagCarrier:
		return "NoFlagCarrier"
	case VictoryTotalKills:
		return "TotalKills"
	case VictoryTotalMidairs:
		return "TotalMidairs"
	}
	return "Unknown"
}

// ParseVictoryType maps a config string onto a victory type.
func ParseVictoryType(s string) (VictoryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hitshot", "hit_shot":
		return VictoryHitShot, nil
	case "location":
		return VictoryLocation, nil
	case "movementspeed", "movement_speed", "speed":
		return VictoryMovementSpeed, nil
	case "flagcaught", "flag_caught":
		return VictoryFlagCaught, nil
	case "noflagcarrier", "no_flag_carrier":
		return VictoryNoFlagCarrier, nil
	case "totalkills", "total_kills", "kills":
		return VictoryTotalKills, nil
	case "totalmidairs", "total_midairs", "midairs":
		return VictoryTotalMidairs, nil
	}
	return 0, fmt.Errorf("unknown victory type %q", s)
}

// DrillHost is what the runner needs from the hosting match: spawning
// and clearing bots, flag control, and a channel to talk to the player.
type DrillHost interface {
	SpawnBot(cfg bot.Config) error
	KillAllBots()
	ResetFlags()
	// EnemyHoldsFlag reports whether any bot currently carries the
	// player's flag.
	EnemyHoldsFlag() bool
	Say(msg string)
}

// DrillRunner orchestrates one drill at a time: spawns its bots, tracks
// the player's progress against the victory condition, and ends the
// drill on success or timeout.
type DrillRunner struct {
	data  Data
	host  DrillHost
	clock bot.Clock
	rng   *rand.Rand

	active   bool
	drill    DrillSpec
	victory  VictoryType
	deadline float64

	kills   int
	midairs int

	victories int
	losses    int
	result    string
}

// NewDrillRunner creates a runner over loaded practice data.
func NewDrillRunner(data Data, host DrillHost, clock bot.Clock, rng *rand.Rand) *DrillRunner {
	return &DrillRunner{data: data, host: host, clock: clock, rng: rng}
}

// Active reports whether a drill is in progress.
func (r *DrillRunner) Active() bool { return r.active }

// ResultMessage returns the outcome text of the last finished drill.
func (r *DrillRunner) ResultMessage() string { return r.result }

// Results returns the running win/loss tally.
func (r *DrillRunner) Results() string {
	return fmt.Sprintf("Overall results: %d/%d", r.victories, r.losses+r.victories)
}

// Start begins the named drill: clears old bots unless configured not
// to, picks the drill's bots, and spawns them on their routes.
func (r *DrillRunner) Start(name string) error {
	drill, ok := r.data.Drill(name)
	if !ok {
		return fmt.Errorf("no drill named %q", name)
	}
	victory, err := ParseVictoryType(drill.VictoryType)
	if err != nil {
		return err
	}
	r.drill = drill
	r.victory = victory
	r.result = ""
	r.kills = 0
	r.midairs = 0

	if !drill.LeaveOldBots {
		r.host.KillAllBots()
	}
	if drill.ResetFlagsOnStart {
		r.host.ResetFlags()
	}

	length := drill.Length
	if length <= 0 {
		length = 9999.0
	}
	r.deadline = r.clock.Now() + length

	for _, cfg := range r.pickBots(drill) {
		if err := r.host.SpawnBot(cfg); err != nil {
			return fmt.Errorf("spawn bot %s: %w", cfg.Name, err)
		}
	}
	r.active = true
	log.Printf("drill %q started: victory=%s length=%.0fs", drill.Name, victory, length)
	return nil
}

// pickBots chooses which configured bots the drill spawns, honoring
// the repeat and distinct-route flags.
func (r *DrillRunner) pickBots(drill DrillSpec) []bot.Config {
	var pool []bot.Config
	routesKnown := make(map[string]bool)
	for _, name := range drill.BotNames {
		spec, ok := r.data.Bot(name)
		if !ok {
			continue
		}
		cfg, err := spec.Config()
		if err != nil {
			continue
		}
		pool = append(pool, cfg)
		for _, route := range cfg.Routes {
			routesKnown[route] = true
		}
	}

	botsToSpawn := drill.NumberOfBots
	// Distinct routes caps the spawn count at the routes available.
	if drill.BotsSpawnOnDifferentRoutes && botsToSpawn > len(routesKnown) {
		botsToSpawn = len(routesKnown)
	}
	if !drill.CanRepeatBots && botsToSpawn > len(pool) {
		botsToSpawn = len(pool)
	}

	var picked []bot.Config
	for i := 0; i < botsToSpawn && len(pool) > 0; i++ {
		idx := r.rng.Intn(len(pool))
		picked = append(picked, pool[idx])
		if !drill.CanRepeatBots {
			pool = append(pool[:idx], pool[idx+1:]...)
		}
	}
	return picked
}

// Tick checks the drill clock. Hosts call it every frame.
func (r *DrillRunner) Tick() {
	if !r.active {
		return
	}
	if r.clock.Now() >= r.deadline {
		r.endByTimeout()
	}
}

// endByTimeout resolves the drill when time runs out. NoFlagCarrier is
// the one type a timeout can still win: the whole point is holding out.
func (r *DrillRunner) endByTimeout() {
	won := false
	if r.victory == VictoryNoFlagCarrier {
		won = !r.host.EnemyHoldsFlag()
	}
	r.End(won)
}

// RecordKill counts a bot kill by the player.
func (r *DrillRunner) RecordKill() {
	if !r.active {
		return
	}
	r.kills++
	if r.victory == VictoryTotalKills && r.kills >= r.drill.VictoryAmount {
		r.End(true)
	}
}

// RecordMidair counts a midair hit by the player.
func (r *DrillRunner) RecordMidair() {
	if !r.active {
		return
	}
	r.midairs++
	if r.victory == VictoryTotalMidairs && r.midairs >= r.drill.VictoryAmount {
		r.End(true)
	}
}

// RecordHit reports the player damaging any bot.
func (r *DrillRunner) RecordHit() {
	if r.active && r.victory == VictoryHitShot {
		r.End(true)
	}
}

// RecordLocationReached reports the player entering the drill's victory
// location.
func (r *DrillRunner) RecordLocationReached() {
	if r.active && r.victory == VictoryLocation {
		r.End(true)
	}
}

// VictoryLocation returns the active location drill's goal area, if the
// running drill has one. A zero configured radius falls back to the
// default touch radius.
func (r *DrillRunner) VictoryLocation() (game.Vec3, float64, bool) {
	if !r.active || r.victory != VictoryLocation || r.drill.VictoryLocation == nil {
		return game.Vec3{}, 0, false
	}
	radius := r.drill.VictoryRadius
	if radius <= 0 {
		radius = DefaultVictoryRadius
	}
	return *r.drill.VictoryLocation, radius, true
}

// RecordFlagCaught reports the player catching a thrown flag midair.
func (r *DrillRunner) RecordFlagCaught() {
	if r.active && r.victory == VictoryFlagCaught {
		r.End(true)
	}
}

// ObservePlayerSpeed feeds the player's current speed to speed drills.
func (r *DrillRunner) ObservePlayerSpeed(kph float64) {
	if r.active && r.victory == VictoryMovementSpeed && kph >= float64(r.drill.VictoryAmount) {
		r.End(true)
	}
}

// End finishes the active drill, updates the tally, and reports the
// outcome to the player.
func (r *DrillRunner) End(won bool) {
	if !r.active {
		return
	}
	r.active = false
	if !r.drill.LeaveOldBots {
		r.host.KillAllBots()
	}

	if won {
		r.result = "Drill Completed!"
		r.victories++
	} else {
		r.losses++
		r.result = r.failureMessage()
	}
	r.host.Say(r.result)
	r.host.Say(r.Results())
}

func (r *DrillRunner) failureMessage() string {
	switch r.victory {
	case VictoryHitShot:
		return "Drill Failed! You need to damage a bot."
	case VictoryLocation:
		return "Drill Failed! You need to reach the end location."
	case VictoryMovementSpeed:
		return fmt.Sprintf("Drill Failed! You need to reach at least %dkph.", r.drill.VictoryAmount)
	case VictoryFlagCaught:
		return "Drill Failed! You need to catch the flag in the air."
	case VictoryNoFlagCarrier:
		return "Drill Failed! Enemy team has the flag."
	case VictoryTotalKills:
		if r.kills == 0 {
			return fmt.Sprintf("Drill Failed! You needed to kill %d bots, but you didn't kill any!", r.drill.VictoryAmount)
		}
		return fmt.Sprintf("Drill Failed! You needed to kill %d bots, but only killed %d.", r.drill.VictoryAmount, r.kills)
	case VictoryTotalMidairs:
		if r.midairs == 0 {
			return fmt.Sprintf("Drill Failed! You needed to hit %d midair shots, but you didn't hit any!", r.drill.VictoryAmount)
		}
		return fmt.Sprintf("Drill Failed! You needed to hit %d midair shots, but only hit %d.", r.drill.VictoryAmount, r.midairs)
	}
	return "Drill Failed!"
}
