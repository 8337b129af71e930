package server

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/jetctf/jetctf-web/bot"
	"github.com/jetctf/jetctf-web/game"
	"github.com/jetctf/jetctf-web/practice"
)

// Perception range for bot sight, engine units.
const sightRange = 30000.0

// respawnDelay is how long a dead bot stays down.
const respawnDelay = 3.0

type botEntry struct {
	bot    *bot.Bot
	pawn   *SimPawn
	player *practice.Player
}

// SpawnBot creates a pawn and an AI for a configured bot and drops it
// at its team stand. Implements the drill host surface; the caller
// holds the simulation lock.
func (s *Server) SpawnBot(cfg bot.Config) error {
	return s.spawnBotLocked(cfg, s.nextTeam())
}

// AddBot spawns a bot from outside the simulation loop.
func (s *Server) AddBot(cfg bot.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawnBotLocked(cfg, s.nextTeam())
}

// AddBotOnTeam places the bot on a specific team.
func (s *Server) AddBotOnTeam(cfg bot.Config, team int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawnBotLocked(cfg, team)
}

func (s *Server) spawnBotLocked(cfg bot.Config, team int) error {
	if team != game.TeamRed && team != game.TeamBlue {
		return fmt.Errorf("invalid team %d", team)
	}
	id := s.nextEntityID
	s.nextEntityID++

	pawn := NewSimPawn(id, cfg.Name, team, s.spawnPoint(team))
	pawn.isBot = true

	player := practice.NewPlayer(s.lib, pawn, s)
	deps := bot.Deps{
		Clock:  s,
		Rand:   rand.New(rand.NewSource(s.rng.Int63())),
		World:  s.world,
		Match:  s.match,
		Routes: player,
		Roster: s,
		Pawn:   pawn,
	}
	b := bot.New(cfg, deps)
	player.SetOnFinished(b.OnRouteFinished)
	player.SetOnInterrupted(b.OnRouteInterrupted)
	b.Enable()

	s.pawns = append(s.pawns, pawn)
	s.bots[id] = &botEntry{bot: b, pawn: pawn, player: player}
	log.Printf("spawned bot %s (%s/%s) on team %s",
		cfg.Name, cfg.Role, cfg.Accuracy, teamName(team))
	return nil
}

// nextTeam balances new bots across teams.
func (s *Server) nextTeam() int {
	red, blue := 0, 0
	for _, p := range s.pawns {
		if p.Team() == game.TeamRed {
			red++
		} else {
			blue++
		}
	}
	if red <= blue {
		return game.TeamRed
	}
	return game.TeamBlue
}

// spawnPoint scatters spawns around the team stand.
func (s *Server) spawnPoint(team int) game.Vec3 {
	stand := s.match.Stand(team)
	return game.Vec3{
		X: stand.X + (s.rng.Float64()-0.5)*2000,
		Y: stand.Y + (s.rng.Float64()-0.5)*2000,
		Z: stand.Z,
	}
}

// ClearBots removes every bot from outside the simulation loop.
func (s *Server) ClearBots() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.KillAllBots()
}

// KillAllBots removes every bot from the match. Implements the drill
// host surface; the caller holds the simulation lock.
func (s *Server) KillAllBots() {
	n := len(s.bots)
	for id, entry := range s.bots {
		entry.player.StopPlayback()
		entry.pawn.Kill()
		if f, ok := s.match.HeldBy(id); ok {
			f.location = entry.pawn.Position()
			f.holder = bot.NoEntity
			entry.pawn.holdingFlag = false
		}
		delete(s.bots, id)
	}
	kept := s.pawns[:0]
	for _, p := range s.pawns {
		if !p.isBot {
			kept = append(kept, p)
		}
	}
	s.pawns = kept
	if n > 0 {
		log.Printf("cleared %d bots", n)
	}
}

// Lookup resolves an entity handle. Implements the bot roster.
func (s *Server) Lookup(id bot.EntityID) (bot.Entity, bool) {
	p := findPawn(s.pawns, id)
	if p == nil {
		return nil, false
	}
	return p, true
}

// runPerception feeds each bot the enemies it can currently see. Runs
// on the decision cadence, right before the decision itself.
func (s *Server) runPerception() {
	for _, entry := range s.bots {
		if !entry.pawn.Alive() {
			continue
		}
		from := entry.pawn.Position()
		for _, target := range s.pawns {
			if target.ID() == entry.pawn.ID() || !target.Alive() || target.Team() == entry.pawn.Team() {
				continue
			}
			to := target.Position()
			if game.Distance(from, to) > sightRange {
				continue
			}
			hit := s.world.LineOfSight(from, to)
			if game.Distance(hit, to) <= pawnHitRadius*1.5 {
				entry.bot.OnPawnSeen(target.ID())
			}
		}
	}
}

// updateBots runs respawns, playback, and per-frame AI actuation.
func (s *Server) updateBots() {
	for id, entry := range s.bots {
		if !entry.pawn.Alive() {
			if entry.pawn.diedAt == 0 {
				entry.pawn.diedAt = s.now
				entry.bot.OnDied()
				for _, other := range s.bots {
					other.bot.TargetDied(id)
				}
			}
			if s.now-entry.pawn.diedAt >= respawnDelay {
				s.respawnBot(entry)
			}
			continue
		}
		entry.player.Tick()
		entry.bot.Tick()
	}
}

func (s *Server) respawnBot(entry *botEntry) {
	entry.pawn.pos = s.spawnPoint(entry.pawn.Team())
	entry.pawn.vel = game.Vec3{}
	entry.pawn.health = maxHealth
	entry.pawn.energy = maxEnergy
	entry.pawn.holdingFlag = false
	entry.pawn.diedAt = 0
	entry.bot.OnSpawn()
}
