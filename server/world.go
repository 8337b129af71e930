package server

import (
	"math"

	"github.com/jetctf/jetctf-web/game"
)

// pawnHitRadius is how close a sight ray must pass to a pawn's center
// to count as hitting it.
const pawnHitRadius = 150.0

// FlatWorld is the hosted arena's geometry: a flat ground plane with
// the live pawns as the only occluders. It implements the bot package's
// World service.
type FlatWorld struct {
	groundZ float64
	pawns   func() []*SimPawn
}

// NewFlatWorld builds a world over a pawn source. The source is called
// on every trace so the world never holds a stale roster.
func NewFlatWorld(groundZ float64, pawns func() []*SimPawn) *FlatWorld {
	return &FlatWorld{groundZ: groundZ, pawns: pawns}
}

// GroundHeight reports the terrain height under a point. Points outside
// the arena have no ground below them.
func (w *FlatWorld) GroundHeight(p game.Vec3) (float64, bool) {
	if p.X < -game.ArenaExtent || p.X > game.ArenaExtent ||
		p.Y < -game.ArenaExtent || p.Y > game.ArenaExtent {
		return 0, false
	}
	return w.groundZ, true
}

// LineOfSight traces the segment from one point toward another and
// returns the first thing it hits: the ground plane, a pawn, or the
// destination itself when the path is clear.
func (w *FlatWorld) LineOfSight(from, to game.Vec3) game.Vec3 {
	dir := to.Sub(from)
	length := dir.Length()
	if length == 0 {
		return to
	}
	dir = dir.Scale(1 / length)

	nearest := length
	hit := to

	// Ground plane.
	if dir.Z != 0 {
		t := (w.groundZ - from.Z) / dir.Z
		if t > 0 && t < nearest {
			nearest = t
			hit = from.Add(dir.Scale(t))
		}
	}

	// Pawn bodies.
	if w.pawns != nil {
		for _, p := range w.pawns() {
			if !p.Alive() {
				continue
			}
			// A pawn the ray starts inside of (the shooter) never
			// occludes its own view.
			if game.Distance(from, p.Position()) <= pawnHitRadius {
				continue
			}
			t, ok := raySphere(from, dir, p.Position(), pawnHitRadius)
			if ok && t > 0 && t < nearest {
				nearest = t
				hit = from.Add(dir.Scale(t))
			}
		}
	}
	return hit
}

// raySphere returns the distance along the ray to the first
// intersection with a sphere, if any.
func raySphere(origin, dir, center game.Vec3, radius float64) (float64, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.LengthSq() - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	t := -b - math.Sqrt(disc)
	if t < 0 {
		t = -b + math.Sqrt(disc)
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
