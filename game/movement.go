package game

import "math"

// MoveToward returns the player's position after one tick of steering toward
// target. The target is in viewport pixels and is read relative to the
// viewport centre, where the player is drawn; the player covers Speed(p) per
// tick whatever the pointer distance.
func MoveToward(p Player, target Vec2, viewport Size, world World) Vec2 {
	d := target.Sub(viewport.Center())
	angle := math.Atan2(d.Y, d.X)
	speed := Speed(p)

	next := p.Position.Add(Vec2{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed})
	return ClampToWorld(next, p.Size, world)
}

// ClampToWorld keeps a disc of the given radius fully inside the world. A disc
// too large for an axis is centred on it.
func ClampToWorld(pos Vec2, radius float64, world World) Vec2 {
	return Vec2{
		X: ClampInset(pos.X, radius, world.Bounds.W),
		Y: ClampInset(pos.Y, radius, world.Bounds.H),
	}
}

// inDeadZone reports whether target sits close enough to the viewport centre
// that the host asked for the player to hold still
func inDeadZone(target Vec2, viewport Size, radius float64) bool {
	return radius > 0 && Distance(target, viewport.Center()) <= radius
}
