package sim

import "math"

const (
	// gravity pulls the ball's height component down, m/s^2.
	gravity = 9.81

	// contactHeight is how low a descending ball must be before a player
	// standing under it can play it.
	contactHeight = 2.2

	// contactReach is how close (metres, court plane) a player must be to
	// the ball to make a contact.
	contactReach = 1.1

	// recentContactTicks is how long the display-facing contact flag stays
	// up after a touch (~a quarter second at 60 TPS).
	recentContactTicks = 15

	// maxTouchesPerSide is volleyball's three-touch rule.
	maxTouchesPerSide = 3
)

// Ball is the minimal kinematic ball state. Height is tracked separately
// from the court-plane position so landing prediction stays a closed-form
// ballistic solve.
type Ball struct {
	Pos    Vec2
	Height float64
	Vel    Vec2    // court-plane velocity, m/s
	VelZ   float64 // vertical velocity, m/s

	InFlight   bool
	Possession Side // side expected to play the ball next

	// Touches counts contacts per side since the ball last crossed the net
	// (index by Side).
	Touches [2]int

	// LastTouch is the player index of the most recent contact, -1 if none.
	LastTouch     int
	LastTouchSide Side

	recentContact int // ticks remaining on the recent-contact flag
}

// NewBall returns a dead ball resting at the given spot.
func NewBall(at Vec2) Ball {
	return Ball{Pos: at, LastTouch: -1}
}

// Step integrates one fixed timestep. It reports whether the ball landed
// (height reached zero while in flight) during this step.
func (b *Ball) Step(dt float64) (landed bool) {
	if b.recentContact > 0 {
		b.recentContact--
	}
	if !b.InFlight {
		return false
	}
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	b.VelZ -= gravity * dt
	b.Height += b.VelZ * dt
	if b.Height <= 0 {
		b.Height = 0
		b.InFlight = false
		b.Vel = Vec2{}
		b.VelZ = 0
		return true
	}
	return false
}

// RecentContact reports whether a touch happened within the last few ticks.
func (b *Ball) RecentContact() bool { return b.recentContact > 0 }

// timeToFall solves the ballistic drop from the current height and vertical
// velocity to height zero. Returns 0 for a ball already on the floor.
func (b *Ball) timeToFall() float64 {
	if !b.InFlight {
		return 0
	}
	// 0 = h + vz*t - g/2*t^2  →  t = (vz + sqrt(vz^2 + 2gh)) / g
	disc := b.VelZ*b.VelZ + 2*gravity*b.Height
	if disc < 0 {
		return 0
	}
	return (b.VelZ + math.Sqrt(disc)) / gravity
}

// PredictLanding returns where and in how many seconds the ball will reach
// the floor on its current trajectory.
func (b *Ball) PredictLanding() (Vec2, float64) {
	t := b.timeToFall()
	return b.Pos.Add(b.Vel.Scale(t)), t
}

// Launch puts the ball in flight from `from` at the given height so that it
// arrives at `target` (height targetHeight) after flightTime seconds.
func (b *Ball) Launch(from Vec2, height float64, target Vec2, targetHeight, flightTime float64) {
	if flightTime < 0.1 {
		flightTime = 0.1
	}
	b.Pos = from
	b.Height = height
	b.Vel = target.Sub(from).Scale(1 / flightTime)
	// Solve vz from targetHeight = height + vz*T - g/2*T^2.
	b.VelZ = (targetHeight-height)/flightTime + 0.5*gravity*flightTime
	b.InFlight = true
}

// Touch records a contact by the given player and resets the descending
// flight toward a new target. Crossing the net later resets the touch
// count; the caller enforces the three-touch rule via Touches.
func (b *Ball) Touch(player int, side Side, target Vec2, targetHeight, flightTime float64) {
	b.Touches[side]++
	b.LastTouch = player
	b.LastTouchSide = side
	b.recentContact = recentContactTicks
	b.Launch(b.Pos, b.Height, target, targetHeight, flightTime)
}

// ResetTouches starts a fresh possession for the given side, as happens
// when the ball crosses the net.
func (b *Ball) ResetTouches(side Side) {
	b.Touches = [2]int{}
	b.Possession = side
}
