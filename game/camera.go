package game

import "math"

// Camera is the world coordinate drawn at the viewport's top-left corner
type Camera struct {
	Offset Vec2
}

// CenteredCamera returns a camera already settled on pos
func CenteredCamera(pos Vec2, viewport Size) Camera {
	return Camera{Offset: pos.Sub(viewport.Center())}
}

// Smoothing normalises a follow factor to (0, 1]. Factors above 1 would make
// the camera overshoot and oscillate, so they are capped; unusable values
// fall back to CameraSmoothing.
func Smoothing(k float64) float64 {
	switch {
	case math.IsNaN(k) || k <= 0:
		return CameraSmoothing
	case k > 1:
		return 1
	}
	return k
}

// UpdateCamera moves the camera a fraction k of the way toward centring the
// player. It runs once per tick, so follow speed is tied to the tick rate.
func UpdateCamera(cam Camera, player Vec2, viewport Size, k float64) Camera {
	target := player.Sub(viewport.Center())
	return Camera{Offset: Lerp(cam.Offset, target, Smoothing(k))}
}

// ToScreen converts a world position to viewport pixels
func (c Camera) ToScreen(world Vec2) Vec2 {
	return world.Sub(c.Offset)
}

// ToWorld converts viewport pixels to a world position
func (c Camera) ToWorld(screen Vec2) Vec2 {
	return screen.Add(c.Offset)
}

// Visible reports whether a disc at pos overlaps the viewport
func (c Camera) Visible(pos Vec2, radius float64, viewport Size) bool {
	s := c.ToScreen(pos)
	return s.X+radius >= 0 && s.X-radius <= viewport.W &&
		s.Y+radius >= 0 && s.Y-radius <= viewport.H
}
