package practice

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jetctf/jetctf-web/bot"
)

const sampleData = `
map_name: katabatic
author: avianthropy
bots:
  - name: homer
    role: stay_at_home
    accuracy: decent
  - name: rusher
    role: offense
    accuracy: good
    routes: [mid-rush, flank]
  - name: dummy
    role: route_runner
    accuracy: horrible
    routes: [flank]
    shoots: false
    spawn_offset: seconds_before_grab
    spawn_delay: 3
drills:
  - name: chase-practice
    victory_type: no_flag_carrier
    length: 60
    bot_names: [rusher]
    number_of_bots: 1
  - name: midair-practice
    victory_type: total_midairs
    victory_amount: 3
    bot_names: [dummy]
    number_of_bots: 2
    can_repeat_bots: true
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "practice.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPracticeData(t *testing.T) {
	data, err := Load(writeSample(t, sampleData))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if data.MapName != "katabatic" {
		t.Errorf("map name = %q", data.MapName)
	}
	if len(data.Bots) != 3 || len(data.Drills) != 2 {
		t.Fatalf("loaded %d bots, %d drills", len(data.Bots), len(data.Drills))
	}

	spec, ok := data.Bot("dummy")
	if !ok {
		t.Fatal("bot dummy missing")
	}
	cfg, err := spec.Config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Role != bot.RoleRouteRunner || cfg.Accuracy != bot.AccuracyHorrible {
		t.Errorf("dummy config = %+v", cfg)
	}
	if cfg.Shoots {
		t.Error("dummy explicitly does not shoot")
	}
	if cfg.SpawnOffset != bot.SpawnSecondsBeforeGrab || cfg.SpawnDelay != 3 {
		t.Errorf("dummy spawn config = %v/%v", cfg.SpawnOffset, cfg.SpawnDelay)
	}
}

func TestLoadEmptyPathIsEmptyData(t *testing.T) {
	data, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if len(data.Bots) != 0 || len(data.Drills) != 0 {
		t.Error("empty path should yield empty data")
	}
}

func TestShootsDefaultsTrue(t *testing.T) {
	cfg, err := BotSpec{Name: "b", Role: "chase", Accuracy: "good"}.Config()
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Shoots {
		t.Error("bots shoot unless told otherwise")
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name string
		data Data
	}{
		{
			name: "duplicate bot name",
			data: Data{Bots: []BotSpec{{Name: "a"}, {Name: "a"}}},
		},
		{
			name: "missing bot name",
			data: Data{Bots: []BotSpec{{Role: "chase"}}},
		},
		{
			name: "unknown role",
			data: Data{Bots: []BotSpec{{Name: "a", Role: "goalie"}}},
		},
		{
			name: "unknown accuracy",
			data: Data{Bots: []BotSpec{{Name: "a", Accuracy: "flawless"}}},
		},
		{
			name: "unknown victory type",
			data: Data{Drills: []DrillSpec{{Name: "d", VictoryType: "style_points"}}},
		},
		{
			name: "drill references unknown bot",
			data: Data{Drills: []DrillSpec{{Name: "d", VictoryType: "kills", BotNames: []string{"ghost"}}}},
		},
		{
			name: "location drill without a goal",
			data: Data{Drills: []DrillSpec{{Name: "d", VictoryType: "location"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.data.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestParseAliases(t *testing.T) {
	if r, err := ParseRole("Capper"); err != nil || r != bot.RoleOffense {
		t.Errorf("ParseRole(Capper) = %v, %v", r, err)
	}
	if a, err := ParseAccuracy("MAX"); err != nil || a != bot.AccuracyPerfect {
		t.Errorf("ParseAccuracy(MAX) = %v, %v", a, err)
	}
	if v, err := ParseVictoryType("midairs"); err != nil || v != VictoryTotalMidairs {
		t.Errorf("ParseVictoryType(midairs) = %v, %v", v, err)
	}
}
