package game

import "math"

// Vec2 represents a 2D vector
type Vec2 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Add adds two vectors
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub subtracts two vectors
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul multiplies a vector by a scalar
func (v Vec2) Mul(scalar float64) Vec2 {
	return Vec2{X: v.X * scalar, Y: v.Y * scalar}
}

// Length returns the magnitude of the vector
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// IsFinite reports whether both components are real numbers
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Distance returns the distance between two points
func Distance(a, b Vec2) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Lerp performs linear interpolation between two vectors
func Lerp(a, b Vec2, t float64) Vec2 {
	return Vec2{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// Size is a width/height pair, used for the world and the viewport
type Size struct {
	W float64
	H float64
}

// Center returns the midpoint of the area
func (s Size) Center() Vec2 {
	return Vec2{X: s.W / 2, Y: s.H / 2}
}

// Rect represents an axis-aligned bounding box
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains checks if a point is inside the rectangle. The right and bottom
// edges are exclusive so that sibling quadrants never share a point.
func (r Rect) Contains(point Vec2) bool {
	return point.X >= r.X && point.X < r.X+r.Width &&
		point.Y >= r.Y && point.Y < r.Y+r.Height
}

// Intersects checks if two rectangles overlap
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Circle is a disc in world coordinates
type Circle struct {
	Center Vec2
	Radius float64
}

// CircleIntersectsRect checks if a circle intersects with a rectangle
func CircleIntersectsRect(c Circle, rect Rect) bool {
	closestX := math.Max(rect.X, math.Min(c.Center.X, rect.X+rect.Width))
	closestY := math.Max(rect.Y, math.Min(c.Center.Y, rect.Y+rect.Height))

	distanceX := c.Center.X - closestX
	distanceY := c.Center.Y - closestY

	return distanceX*distanceX+distanceY*distanceY <= c.Radius*c.Radius
}

// Collides reports whether two discs overlap. Touching discs do not collide.
func Collides(a, b Circle) bool {
	return Distance(a.Center, b.Center) < a.Radius+b.Radius
}
