package sim

import "math"

// Court dimensions in metres. World coordinates run x 0..CourtWidth across
// the court and y 0..CourtLength along it, with the net at NetY. The home
// team defends y < NetY and attacks toward +y; away is mirrored.
const (
	CourtWidth  = 9.0
	CourtLength = 18.0
	NetY        = 9.0

	// AttackLineDepth is the distance from the net to the 3m attack line,
	// which also splits each side into its front and back rows.
	AttackLineDepth = 3.0

	// CourtMargin is how far outside the painted lines a player may stand
	// (service zone, wide defensive reads).
	CourtMargin = 2.0

	// NetHeight is the regulation men's net height.
	NetHeight = 2.43
)

// Side identifies one of the two teams.
type Side int

const (
	SideHome Side = iota
	SideAway
)

func (s Side) String() string {
	switch s {
	case SideHome:
		return "home"
	case SideAway:
		return "away"
	default:
		return "unknown"
	}
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// Vec2 is a 2D point or vector on the court plane.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * k.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the distance between v and o.
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

// Norm returns v scaled to unit length, or the zero vector if v is zero.
func (v Vec2) Norm() Vec2 {
	l := v.Len()
	if l < 1e-9 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Perp returns v rotated 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// Lerp returns the point a fraction t of the way from v to o.
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// clamp limits x to [lo, hi].
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ClampToPlayArea limits p to the given side's half of the court plus the
// outside margin. Players never cross under the net.
func ClampToPlayArea(p Vec2, side Side) Vec2 {
	p.X = clamp(p.X, -CourtMargin, CourtWidth+CourtMargin)
	if side == SideHome {
		p.Y = clamp(p.Y, -CourtMargin, NetY-0.2)
	} else {
		p.Y = clamp(p.Y, NetY+0.2, CourtLength+CourtMargin)
	}
	return p
}

// SideOfCourt reports which side of the net a point lies on.
func SideOfCourt(p Vec2) Side {
	if p.Y < NetY {
		return SideHome
	}
	return SideAway
}

// InBounds reports whether a landing point is inside the painted lines of
// the given side's court half.
func InBounds(p Vec2, side Side) bool {
	if p.X < 0 || p.X > CourtWidth {
		return false
	}
	if side == SideHome {
		return p.Y >= 0 && p.Y <= NetY
	}
	return p.Y >= NetY && p.Y <= CourtLength
}

// localToWorld converts a team-local position into world coordinates.
// Local coordinates put the team's own baseline at ly=0, the net at ly=9,
// and lx measured from the team's left sideline when facing the net.
func localToWorld(side Side, lx, ly float64) Vec2 {
	if side == SideHome {
		return Vec2{lx, ly}
	}
	return Vec2{CourtWidth - lx, CourtLength - ly}
}

// worldToLocal is the inverse of localToWorld.
func worldToLocal(side Side, p Vec2) (lx, ly float64) {
	if side == SideHome {
		return p.X, p.Y
	}
	return CourtWidth - p.X, CourtLength - p.Y
}
