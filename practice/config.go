// Package practice holds everything around the bots themselves:
// persisted route trails, bot and drill definitions, route playback,
// and the drill runner that spawns and scores practice sessions.
package practice

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jetctf/jetctf-web/bot"
	"github.com/jetctf/jetctf-web/game"
)

// BotSpec is one bot definition as written in the practice data file.
type BotSpec struct {
	Name     string   `yaml:"name" json:"name"`
	Role     string   `yaml:"role" json:"role"`
	Accuracy string   `yaml:"accuracy" json:"accuracy"`
	Routes   []string `yaml:"routes,omitempty" json:"routes,omitempty"`

	NoChaingun bool  `yaml:"no_chaingun" json:"no_chaingun"`
	NoDisc     bool  `yaml:"no_disc" json:"no_disc"`
	Shoots     *bool `yaml:"shoots,omitempty" json:"shoots,omitempty"`

	SpawnOffset string  `yaml:"spawn_offset,omitempty" json:"spawn_offset,omitempty"`
	SpawnDelay  float64 `yaml:"spawn_delay,omitempty" json:"spawn_delay,omitempty"`

	AlwaysFollowPath bool `yaml:"always_follow_path" json:"always_follow_path"`
	TakesDamage      bool `yaml:"takes_damage" json:"takes_damage"`
}

// DrillSpec is one drill definition: which bots to spawn and what the
// player must do to win.
type DrillSpec struct {
	Name        string  `yaml:"name" json:"name"`
	VictoryType string  `yaml:"victory_type" json:"victory_type"`
	Length      float64 `yaml:"length,omitempty" json:"length,omitempty"`
	// VictoryAmount is the kill count, midair count, or speed in KPH
	// the victory type requires.
	VictoryAmount int `yaml:"victory_amount,omitempty" json:"victory_amount,omitempty"`
	// VictoryLocation and VictoryRadius define the goal area for
	// location drills.
	VictoryLocation *game.Vec3 `yaml:"victory_location,omitempty" json:"victory_location,omitempty"`
	VictoryRadius   float64    `yaml:"victory_radius,omitempty" json:"victory_radius,omitempty"`

	BotNames     []string `yaml:"bot_names,omitempty" json:"bot_names,omitempty"`
	NumberOfBots int      `yaml:"number_of_bots" json:"number_of_bots"`

	CanRepeatBots              bool `yaml:"can_repeat_bots" json:"can_repeat_bots"`
	BotsSpawnOnDifferentRoutes bool `yaml:"bots_spawn_on_different_routes" json:"bots_spawn_on_different_routes"`
	LeaveOldBots               bool `yaml:"leave_old_bots" json:"leave_old_bots"`
	ResetFlagsOnStart          bool `yaml:"reset_flags_on_start" json:"reset_flags_on_start"`
}

// Data is a full practice data file for one map.
type Data struct {
	MapName string      `yaml:"map_name" json:"map_name"`
	Author  string      `yaml:"author,omitempty" json:"author,omitempty"`
	Bots    []BotSpec   `yaml:"bots,omitempty" json:"bots,omitempty"`
	Drills  []DrillSpec `yaml:"drills,omitempty" json:"drills,omitempty"`
}

// Load reads and validates a practice data file. A missing path yields
// an empty, valid Data.
func Load(path string) (Data, error) {
	var data Data
	if strings.TrimSpace(path) == "" {
		return data, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("read practice data: %w", err)
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("parse practice data %s: %w", path, err)
	}
	if err := data.Validate(); err != nil {
		return data, fmt.Errorf("practice data %s: %w", path, err)
	}
	return data, nil
}

// Validate checks consistency between the file's bots and drills.
func (d Data) Validate() error {
	byName := make(map[string]bool, len(d.Bots))
	for i, b := range d.Bots {
		if b.Name == "" {
			return fmt.Errorf("bot %d: missing name", i)
		}
		if byName[b.Name] {
			return fmt.Errorf("bot %q: duplicate name", b.Name)
		}
		byName[b.Name] = true
		if _, err := b.Config(); err != nil {
			return fmt.Errorf("bot %q: %w", b.Name, err)
		}
	}
	for _, dr := range d.Drills {
		if dr.Name == "" {
			return fmt.Errorf("drill with empty name")
		}
		vt, err := ParseVictoryType(dr.VictoryType)
		if err != nil {
			return fmt.Errorf("drill %q: %w", dr.Name, err)
		}
		if vt == VictoryLocation && dr.VictoryLocation == nil {
			return fmt.Errorf("drill %q: location drill needs a victory_location", dr.Name)
		}
		for _, name := range dr.BotNames {
			if !byName[name] {
				return fmt.Errorf("drill %q: unknown bot %q", dr.Name, name)
			}
		}
	}
	return nil
}

// Bot returns the named bot spec.
func (d Data) Bot(name string) (BotSpec, bool) {
	for _, b := range d.Bots {
		if b.Name == name {
			return b, true
		}
	}
	return BotSpec{}, false
}

// Drill returns the named drill spec.
func (d Data) Drill(name string) (DrillSpec, bool) {
	for _, dr := range d.Drills {
		if dr.Name == name {
			return dr, true
		}
	}
	return DrillSpec{}, false
}

// Config converts a bot definition into the bot package's runtime config.
func (b BotSpec) Config() (bot.Config, error) {
	role, err := ParseRole(b.Role)
	if err != nil {
		return bot.Config{}, err
	}
	accuracy, err := ParseAccuracy(b.Accuracy)
	if err != nil {
		return bot.Config{}, err
	}
	offset, err := ParseSpawnOffset(b.SpawnOffset)
	if err != nil {
		return bot.Config{}, err
	}
	shoots := true
	if b.Shoots != nil {
		shoots = *b.Shoots
	}
	return bot.Config{
		Name:             b.Name,
		Role:             role,
		Accuracy:         accuracy,
		Routes:           append([]string(nil), b.Routes...),
		NoChaingun:       b.NoChaingun,
		NoDisc:           b.NoDisc,
		Shoots:           shoots,
		SpawnOffset:      offset,
		SpawnDelay:       b.SpawnDelay,
		AlwaysFollowPath: b.AlwaysFollowPath,
		TakesDamage:      b.TakesDamage,
	}, nil
}

// ParseRole maps a config string onto a bot role.
func ParseRole(s string) (bot.Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stayathome", "stay_at_home", "home":
		return bot.RoleStayAtHome, nil
	case "chase":
		return bot.RoleChase, nil
	case "offense", "capper":
		return bot.RoleOffense, nil
	case "lo", "linebacker":
		return bot.RoleLO, nil
	case "routerunner", "route_runner":
		return bot.RoleRouteRunner, nil
	case "stationarydefense", "stationary_defense", "stationary":
		return bot.RoleStationaryDefense, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// ParseAccuracy maps a config string onto an accuracy tier.
func ParseAccuracy(s string) (bot.Accuracy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horrible":
		return bot.AccuracyHorrible, nil
	case "", "decent":
		return bot.AccuracyDecent, nil
	case "good":
		return bot.AccuracyGood, nil
	case "perfect", "max":
		return bot.AccuracyPerfect, nil
	}
	return 0, fmt.Errorf("unknown accuracy %q", s)
}

// ParseSpawnOffset maps a config string onto a spawn-offset kind.
func ParseSpawnOffset(s string) (bot.SpawnOffsetKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "seconds_before_grab", "before_grab":
		return bot.SpawnSecondsBeforeGrab, nil
	case "seconds_into_route", "into_route":
		return bot.SpawnSecondsIntoRoute, nil
	}
	return 0, fmt.Errorf("unknown spawn offset %q", s)
}
