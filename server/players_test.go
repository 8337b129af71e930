package server

import (
	"testing"

	"github.com/jetctf/jetctf-web/bot"
	"github.com/jetctf/jetctf-web/game"
	"github.com/jetctf/jetctf-web/practice"
)

func playerTestData() practice.Data {
	goal := game.Vec3{X: 5000}
	return practice.Data{
		MapName: "katabatic",
		Drills: []practice.DrillSpec{
			{Name: "first-blood", VictoryType: "hit_shot", Length: 60},
			{Name: "sprint", VictoryType: "speed", VictoryAmount: 100, Length: 60},
			{Name: "corner-dash", VictoryType: "location", VictoryLocation: &goal, Length: 60},
			{Name: "air-grab", VictoryType: "flag_caught", Length: 60},
		},
	}
}

func newPlayerServer() *Server {
	opts := DefaultOptions()
	opts.Seed = 1
	return NewServer(opts, playerTestData(), practice.NewLibrary(nil))
}

func joinTestPlayer(s *Server, team int) (*Client, *SimPawn) {
	c := &Client{id: 1, playerID: bot.NoEntity}
	s.joinPlayer(c, ClientMessage{Type: "join", Name: "ace", Team: team})
	return c, s.players[c.playerID]
}

func TestJoinCreatesPlayerPawn(t *testing.T) {
	s := newPlayerServer()
	c, pawn := joinTestPlayer(s, game.TeamBlue)

	if pawn == nil {
		t.Fatal("join should create a pawn")
	}
	if pawn.isBot {
		t.Error("player pawns are not bots")
	}
	if pawn.Team() != game.TeamBlue {
		t.Errorf("team = %d", pawn.Team())
	}
	if pawn.Name() != "ace" {
		t.Errorf("name = %q", pawn.Name())
	}

	// A second join frame on the same connection is ignored.
	s.joinPlayer(c, ClientMessage{Type: "join", Name: "imposter"})
	if len(s.players) != 1 {
		t.Errorf("players = %d after a repeat join", len(s.players))
	}
}

func TestPlayerInputDrivesPawn(t *testing.T) {
	s := newPlayerServer()
	c, pawn := joinTestPlayer(s, game.TeamRed)

	chain := game.WeaponSpecs[game.WeaponChaingun].Slot
	s.applyPlayerInput(c, ClientMessage{
		Type:    "input",
		Forward: 1,
		Right:   -0.5,
		Look:    game.Rotator{Yaw: 90},
		Jet:     true,
		Trigger: true,
		Weapon:  &chain,
	})

	if pawn.moveForward != 1 || pawn.moveRight != -0.5 {
		t.Errorf("move = %v/%v", pawn.moveForward, pawn.moveRight)
	}
	if pawn.Look().Yaw != 90 {
		t.Errorf("yaw = %v", pawn.Look().Yaw)
	}
	if !pawn.jetting || !pawn.trigger {
		t.Error("jet and trigger should be held")
	}
	if w, _ := pawn.Weapon(); w.Kind != game.WeaponChaingun {
		t.Errorf("weapon = %v", w.Kind)
	}
}

func TestDisconnectRemovesPlayerPawn(t *testing.T) {
	s := newPlayerServer()
	c, pawn := joinTestPlayer(s, game.TeamRed)

	s.mu.Lock()
	s.removePlayerLocked(c.playerID)
	s.mu.Unlock()

	if len(s.players) != 0 {
		t.Error("player registry should be empty")
	}
	for _, p := range s.pawns {
		if p.ID() == pawn.ID() {
			t.Error("pawn should be gone from the roster")
		}
	}
}

func TestPlayerHitReportsDrillProgress(t *testing.T) {
	s := newPlayerServer()
	_, pawn := joinTestPlayer(s, game.TeamRed)

	if err := s.StartDrill("first-blood"); err != nil {
		t.Fatal(err)
	}
	target := NewSimPawn(s.nextEntityID, "dummy", game.TeamBlue, game.Vec3{X: 1000})
	s.nextEntityID++
	target.isBot = true
	s.pawns = append(s.pawns, target)

	s.damage(pawn, target, 10, false)

	if s.drills.Active() {
		t.Error("a player hit should complete a hit-shot drill")
	}
}

func TestBotHitReportsNothing(t *testing.T) {
	s := newPlayerServer()

	if err := s.StartDrill("first-blood"); err != nil {
		t.Fatal(err)
	}
	shooter := NewSimPawn(s.nextEntityID, "shooter", game.TeamRed, game.Vec3{})
	s.nextEntityID++
	shooter.isBot = true
	target := NewSimPawn(s.nextEntityID, "dummy", game.TeamBlue, game.Vec3{X: 1000})
	s.nextEntityID++
	target.isBot = true
	s.pawns = append(s.pawns, shooter, target)

	s.damage(shooter, target, 10, false)

	if !s.drills.Active() {
		t.Error("bot-on-bot damage must not advance the drill")
	}
}

func TestSpeedDrillCompletesThroughStep(t *testing.T) {
	s := newPlayerServer()
	_, pawn := joinTestPlayer(s, game.TeamRed)

	if err := s.StartDrill("sprint"); err != nil {
		t.Fatal(err)
	}
	// 3000 u/s is 108 KPH, past the drill's 100.
	pawn.SetVelocity(game.Vec3{X: 3000})

	s.step(stepDT)

	if s.drills.Active() {
		t.Error("reaching the speed threshold should end the drill")
	}
}

func TestLocationDrillCompletesThroughStep(t *testing.T) {
	s := newPlayerServer()
	_, pawn := joinTestPlayer(s, game.TeamRed)

	if err := s.StartDrill("corner-dash"); err != nil {
		t.Fatal(err)
	}
	pawn.SetPosition(game.Vec3{X: 5000})

	s.step(stepDT)

	if s.drills.Active() {
		t.Error("standing in the goal area should end the drill")
	}
}

func TestAirborneFlagGrabCountsAsCatch(t *testing.T) {
	s := newPlayerServer()
	_, pawn := joinTestPlayer(s, game.TeamRed)

	if err := s.StartDrill("air-grab"); err != nil {
		t.Fatal(err)
	}
	// The blue flag hangs mid-air where its carrier died.
	drop := game.Vec3{X: 0, Z: 500}
	s.match.flags[game.TeamBlue].atHome = false
	s.match.flags[game.TeamBlue].location = drop
	pawn.SetPosition(drop)

	s.step(stepDT)

	if !pawn.HoldingFlag() {
		t.Fatal("player should have grabbed the flag")
	}
	if s.drills.Active() {
		t.Error("an airborne grab should win the flag-caught drill")
	}
}

func TestGroundedFlagGrabIsNotACatch(t *testing.T) {
	s := newPlayerServer()
	_, pawn := joinTestPlayer(s, game.TeamRed)

	if err := s.StartDrill("air-grab"); err != nil {
		t.Fatal(err)
	}
	drop := game.Vec3{X: 0, Z: 0}
	s.match.flags[game.TeamBlue].atHome = false
	s.match.flags[game.TeamBlue].location = drop
	pawn.SetPosition(drop)

	s.step(stepDT)

	if !pawn.HoldingFlag() {
		t.Fatal("player should have grabbed the flag")
	}
	if !s.drills.Active() {
		t.Error("a grounded pickup is not a catch")
	}
}
