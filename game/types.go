package game

import (
	"math"
	"time"
)

// Constants shared across the simulation
const (
	// Game timing
	FPS            = 20
	UpdateInterval = time.Millisecond * 50 // 20 FPS (20 ticks per second)

	// DecisionInterval is how often each bot re-evaluates its task
	DecisionInterval = time.Millisecond * 500

	// UnitsToKPH converts engine velocity units (units per second) to KPH
	UnitsToKPH = 0.036

	// Gravity in units per second squared, applied to airborne pawns
	Gravity = 1200.0

	// ArenaExtent is the half-width of the playable square
	ArenaExtent = 60000.0
)

// Team IDs. CTF is strictly two-sided.
const (
	TeamRed  = 0
	TeamBlue = 1
)

// EnemyTeam returns the opposing team ID.
func EnemyTeam(team int) int {
	if team == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

// Vec3 represents a 3D position or velocity in engine units
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the magnitude of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthSq returns the squared magnitude of v.
func (v Vec3) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Normalize returns a unit vector in the direction of v, or the zero
// vector when v is too short to have a meaningful direction.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// IsNearlyZero reports whether every component is within tolerance of zero.
func (v Vec3) IsNearlyZero() bool {
	const tol = 1e-6
	return math.Abs(v.X) < tol && math.Abs(v.Y) < tol && math.Abs(v.Z) < tol
}

// Distance returns the straight-line distance between two points.
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Length()
}

// SpeedKPH converts a velocity vector to KPH.
func SpeedKPH(vel Vec3) float64 {
	return vel.Length() * UnitsToKPH
}

// HeightAbove returns how far point a sits above point b, negative when below.
func HeightAbove(a, b Vec3) float64 {
	return a.Z - b.Z
}

// Clamp constrains v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Rotator is a look orientation in degrees. Roll is carried for
// completeness but the AI never sets it.
type Rotator struct {
	Pitch, Yaw, Roll float64
}

// Vector converts a rotator to a unit direction vector.
func (r Rotator) Vector() Vec3 {
	pitch := r.Pitch * math.Pi / 180
	yaw := r.Yaw * math.Pi / 180
	cp := math.Cos(pitch)
	return Vec3{
		X: cp * math.Cos(yaw),
		Y: cp * math.Sin(yaw),
		Z: math.Sin(pitch),
	}
}

// RotatorFromVector builds the look orientation pointing along dir.
func RotatorFromVector(dir Vec3) Rotator {
	d := dir.Normalize()
	if d.IsNearlyZero() {
		return Rotator{}
	}
	return Rotator{
		Pitch: math.Asin(Clamp(d.Z, -1, 1)) * 180 / math.Pi,
		Yaw:   math.Atan2(d.Y, d.X) * 180 / math.Pi,
	}
}

// AngleBetweenDeg returns the unsigned angle in degrees between two
// directions, zero when either is degenerate.
func AngleBetweenDeg(a, b Vec3) float64 {
	an := a.Normalize()
	bn := b.Normalize()
	if an.IsNearlyZero() || bn.IsNearlyZero() {
		return 0
	}
	return math.Acos(Clamp(an.Dot(bn), -1, 1)) * 180 / math.Pi
}

// LerpRotator blends from a toward b by alpha, per axis.
func LerpRotator(a, b Rotator, alpha float64) Rotator {
	return Rotator{
		Pitch: a.Pitch + (b.Pitch-a.Pitch)*alpha,
		Yaw:   a.Yaw + (b.Yaw-a.Yaw)*alpha,
		Roll:  a.Roll + (b.Roll-a.Roll)*alpha,
	}
}
