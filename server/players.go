package server

import (
	"fmt"
	"log"

	"github.com/jetctf/jetctf-web/bot"
	"github.com/jetctf/jetctf-web/game"
)

// joinPlayer creates a controllable pawn for a connected client. Unlike
// bots, player pawns report their progress to the drill runner.
func (s *Server) joinPlayer(c *Client, msg ClientMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.playerID != bot.NoEntity {
		return
	}
	team := msg.Team
	if team != game.TeamRed && team != game.TeamBlue {
		team = game.TeamRed
	}
	name := msg.Name
	if name == "" {
		name = fmt.Sprintf("player-%d", c.id)
	}
	id := s.nextEntityID
	s.nextEntityID++
	pawn := NewSimPawn(id, name, team, s.spawnPoint(team))
	s.pawns = append(s.pawns, pawn)
	s.players[id] = pawn
	c.playerID = id
	log.Printf("player %s joined team %s", name, teamName(team))
}

// applyPlayerInput drives the client's pawn from one control frame.
func (s *Server) applyPlayerInput(c *Client, msg ClientMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[c.playerID]
	if !ok || !p.Alive() {
		return
	}
	p.MoveForward(msg.Forward)
	p.MoveRight(msg.Right)
	p.SetLook(msg.Look)
	if msg.Jet {
		p.Jet()
	} else {
		p.StopJetting()
	}
	if msg.Skate {
		p.Skate()
	} else {
		p.StopSkating()
	}
	p.SetTrigger(msg.Trigger)
	if msg.Weapon != nil {
		p.SwitchWeapon(*msg.Weapon)
	}
}

// removePlayerLocked despawns a disconnected client's pawn, dropping
// any carried flag where they stood.
func (s *Server) removePlayerLocked(id bot.EntityID) {
	p, ok := s.players[id]
	if !ok {
		return
	}
	if f, held := s.match.HeldBy(id); held {
		f.location = p.Position()
		f.holder = bot.NoEntity
	}
	delete(s.players, id)
	kept := s.pawns[:0]
	for _, other := range s.pawns {
		if other.ID() != id {
			kept = append(kept, other)
		}
	}
	s.pawns = kept
	log.Printf("player %s left", p.Name())
}

// updatePlayers respawns dead player pawns and feeds their speed and
// position to the drill runner.
func (s *Server) updatePlayers() {
	for id, p := range s.players {
		if !p.Alive() {
			if p.diedAt == 0 {
				p.diedAt = s.now
				for _, entry := range s.bots {
					entry.bot.TargetDied(id)
				}
			}
			if s.now-p.diedAt >= respawnDelay {
				p.pos = s.spawnPoint(p.Team())
				p.vel = game.Vec3{}
				p.health = maxHealth
				p.energy = maxEnergy
				p.holdingFlag = false
				p.diedAt = 0
			}
			continue
		}
		s.drills.ObservePlayerSpeed(game.SpeedKPH(p.Velocity()))
		if loc, radius, ok := s.drills.VictoryLocation(); ok && game.Distance(p.Position(), loc) <= radius {
			s.drills.RecordLocationReached()
		}
	}
}

// playerHolding records which players carry a flag, taken before the
// match update so pickups this frame can be told apart.
func (s *Server) playerHolding() map[bot.EntityID]bool {
	if len(s.players) == 0 {
		return nil
	}
	m := make(map[bot.EntityID]bool, len(s.players))
	for id, p := range s.players {
		m[id] = p.HoldingFlag()
	}
	return m
}

// reportFlagCatches reports a player grabbing a flag out of the air.
// before holds each flag's pre-update status; a catch is a fresh pickup
// of a dropped flag that was still above the ground.
func (s *Server) reportFlagCatches(before map[int]bot.FlagStatus, holding map[bot.EntityID]bool) {
	for id, p := range s.players {
		if !p.Alive() || !p.HoldingFlag() || holding[id] {
			continue
		}
		f, ok := s.match.HeldBy(id)
		if !ok {
			continue
		}
		st := before[f.team]
		if st.Home || st.Held {
			continue
		}
		if gz, ok := s.world.GroundHeight(st.Location); ok && st.Location.Z-gz > midairHeight {
			s.drills.RecordFlagCaught()
		}
	}
}
