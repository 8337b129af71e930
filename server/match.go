package server

import (
	"log"

	"github.com/jetctf/jetctf-web/bot"
	"github.com/jetctf/jetctf-web/game"
)

// flagTouchRadius is the pickup, return, and cap distance.
const flagTouchRadius = 300.0

type flag struct {
	team     int
	home     game.Vec3
	location game.Vec3
	atHome   bool
	holder   bot.EntityID
}

// MatchState is the CTF bookkeeping for one hosted match: two stands,
// two flags, and the score. It implements the bot package's Match
// queries.
type MatchState struct {
	stands map[int]game.Vec3
	flags  map[int]*flag
	scores map[int]int
}

// NewMatchState places both stands and homes both flags.
func NewMatchState(redStand, blueStand game.Vec3) *MatchState {
	m := &MatchState{
		stands: map[int]game.Vec3{game.TeamRed: redStand, game.TeamBlue: blueStand},
		flags:  make(map[int]*flag),
		scores: map[int]int{game.TeamRed: 0, game.TeamBlue: 0},
	}
	for team, stand := range m.stands {
		m.flags[team] = &flag{team: team, home: stand, location: stand, atHome: true, holder: bot.NoEntity}
	}
	return m
}

// Stand returns a team's flag stand location.
func (m *MatchState) Stand(team int) game.Vec3 { return m.stands[team] }

// Flag reports a team's flag status.
func (m *MatchState) Flag(team int) bot.FlagStatus {
	f := m.flags[team]
	return bot.FlagStatus{Location: f.location, Home: f.atHome, Held: f.holder != bot.NoEntity}
}

// Score returns a team's cap count.
func (m *MatchState) Score(team int) int { return m.scores[team] }

// ResetFlags returns both flags home, stripping any carrier.
func (m *MatchState) ResetFlags() {
	for _, f := range m.flags {
		f.location = f.home
		f.atHome = true
		f.holder = bot.NoEntity
	}
}

// HeldBy returns the flag the pawn carries, if any.
func (m *MatchState) HeldBy(id bot.EntityID) (*flag, bool) {
	for _, f := range m.flags {
		if f.holder == id {
			return f, true
		}
	}
	return nil, false
}

// Update advances flag state for one frame: carried flags track their
// carrier, touches pick up, return, or cap.
func (m *MatchState) Update(pawns []*SimPawn) {
	for _, f := range m.flags {
		if f.holder != bot.NoEntity {
			continue
		}
		for _, p := range pawns {
			if !p.Alive() || game.Distance(p.Position(), f.location) > flagTouchRadius {
				continue
			}
			if p.Team() != f.team {
				// Enemy touch grabs the flag wherever it sits.
				f.holder = p.ID()
				f.atHome = false
				p.holdingFlag = true
				log.Printf("%s grabbed the %s flag", p.name, teamName(f.team))
				break
			}
			if !f.atHome {
				// Friendly touch returns a dropped flag.
				f.location = f.home
				f.atHome = true
				log.Printf("%s returned the %s flag", p.name, teamName(f.team))
				break
			}
		}
	}

	// Carried flags ride along; a carrier reaching their own homed
	// stand caps.
	for _, f := range m.flags {
		if f.holder == bot.NoEntity {
			continue
		}
		carrier := findPawn(pawns, f.holder)
		if carrier == nil || !carrier.Alive() {
			// Carrier died: flag drops where they fell.
			if carrier != nil {
				f.location = carrier.Position()
				carrier.holdingFlag = false
			}
			f.holder = bot.NoEntity
			continue
		}
		f.location = carrier.Position()

		own := m.flags[carrier.Team()]
		if own.atHome && game.Distance(carrier.Position(), m.stands[carrier.Team()]) < flagTouchRadius {
			m.scores[carrier.Team()]++
			carrier.holdingFlag = false
			f.holder = bot.NoEntity
			f.location = f.home
			f.atHome = true
			log.Printf("%s capped the %s flag (%s %d - %s %d)",
				carrier.name, teamName(f.team),
				teamName(game.TeamRed), m.scores[game.TeamRed],
				teamName(game.TeamBlue), m.scores[game.TeamBlue])
		}
	}
}

// CombinedFlagState reports the match phase from one team's viewpoint.
func (m *MatchState) CombinedFlagState(team int) game.FlagState {
	enemy := m.flags[game.EnemyTeam(team)]
	friendly := m.flags[team]
	return game.CombineFlagState(enemy.atHome, friendly.atHome)
}

func findPawn(pawns []*SimPawn, id bot.EntityID) *SimPawn {
	for _, p := range pawns {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

func teamName(team int) string {
	if team == game.TeamRed {
		return "red"
	}
	return "blue"
}
