package bot

import (
	"github.com/jetctf/jetctf-web/game"
)

// TargetFocusScore rates how good a candidate the entity is to shoot
// at. Higher is better; invalid candidates score zero. The incumbent
// target gets a stickiness bonus so bots don't ping-pong between two
// equally juicy enemies.
func (b *Bot) TargetFocusScore(id EntityID) float64 {
	target := b.lookupTarget(id)
	if target == nil {
		return 0.0
	}
	score := 0.0
	// We like to keep shooting what we are already shooting.
	if id == b.ai.CurrentTarget {
		score += 30.0
	}
	// Low HP: 0 to 20.
	score += (200.0 - target.Health()) / 10
	// Slow targets: 0 to 40, negative above 200 KPH.
	score += (200.0 - targetSpeedKPH(target)) / 5
	// Near the ground means poundable.
	if b.heightAboveGround(target.Position()) < 200 {
		score += 30.0
	}
	// Close targets; a really far one drags the whole score down.
	score += game.Clamp((10000.0-b.distanceToTarget(target))/100.0, -100.0, 40.0)
	// We really like shooting the carrier.
	if target.HoldingFlag() {
		score += 50.0
	}
	return score
}
