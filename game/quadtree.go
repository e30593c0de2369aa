package game

// minQuadSize stops subdivision so stacked pellets cannot recurse forever
const minQuadSize = 1.0

// Quadtree is a spatial partitioning structure over food pellets, rebuilt
// from a pool snapshot whenever a tick needs it
type Quadtree struct {
	Bounds   Rect
	Capacity int
	Items    []Food
	Divided  bool
	NW       *Quadtree
	NE       *Quadtree
	SW       *Quadtree
	SE       *Quadtree
}

// NewQuadtree creates a new quadtree with the given bounds and capacity
func NewQuadtree(bounds Rect, capacity int) *Quadtree {
	if capacity < 1 {
		capacity = 1
	}
	return &Quadtree{
		Bounds:   bounds,
		Capacity: capacity,
		Items:    make([]Food, 0, capacity),
	}
}

// BuildQuadtree indexes a pool snapshot over the world bounds. Pellets that
// fall outside the bounds are returned separately.
func BuildQuadtree(world World, foods []Food) (*Quadtree, []Food) {
	qt := NewQuadtree(Rect{X: 0, Y: 0, Width: world.Bounds.W, Height: world.Bounds.H}, QuadtreeCapacity)
	var outside []Food
	for _, f := range foods {
		if !qt.Insert(f) {
			outside = append(outside, f)
		}
	}
	return qt, outside
}

// Insert adds a pellet to the quadtree. It reports false if the pellet lies
// outside the bounds.
func (qt *Quadtree) Insert(f Food) bool {
	if !qt.Bounds.Contains(f.Position) {
		return false
	}

	if !qt.Divided && (len(qt.Items) < qt.Capacity || qt.Bounds.Width < minQuadSize) {
		qt.Items = append(qt.Items, f)
		return true
	}

	if !qt.Divided {
		qt.Subdivide()
	}
	return qt.insertChild(f)
}

func (qt *Quadtree) insertChild(f Food) bool {
	return qt.NW.Insert(f) || qt.NE.Insert(f) || qt.SW.Insert(f) || qt.SE.Insert(f)
}

// Subdivide splits the quadtree into four sub-quadrants
func (qt *Quadtree) Subdivide() {
	x := qt.Bounds.X
	y := qt.Bounds.Y
	w := qt.Bounds.Width / 2
	h := qt.Bounds.Height / 2

	qt.NW = NewQuadtree(Rect{X: x, Y: y, Width: w, Height: h}, qt.Capacity)
	qt.NE = NewQuadtree(Rect{X: x + w, Y: y, Width: w, Height: h}, qt.Capacity)
	qt.SW = NewQuadtree(Rect{X: x, Y: y + h, Width: w, Height: h}, qt.Capacity)
	qt.SE = NewQuadtree(Rect{X: x + w, Y: y + h, Width: w, Height: h}, qt.Capacity)

	qt.Divided = true

	// Each existing pellet moves to exactly one child
	for _, f := range qt.Items {
		qt.insertChild(f)
	}
	qt.Items = nil
}

// Query returns all pellets whose centre lies within a given range
func (qt *Quadtree) Query(area Rect, found []Food) []Food {
	if !qt.Bounds.Intersects(area) {
		return found
	}

	for _, f := range qt.Items {
		if area.Contains(f.Position) {
			found = append(found, f)
		}
	}

	if qt.Divided {
		found = qt.NW.Query(area, found)
		found = qt.NE.Query(area, found)
		found = qt.SW.Query(area, found)
		found = qt.SE.Query(area, found)
	}

	return found
}

// QueryCircle returns the pellets whose disc may touch c. It is a superset
// of the colliding pellets; callers still apply Collides.
func (qt *Quadtree) QueryCircle(c Circle, maxFoodSize float64, found []Food) []Food {
	reach := Circle{Center: c.Center, Radius: c.Radius + maxFoodSize}
	if !CircleIntersectsRect(reach, qt.Bounds) {
		return found
	}

	for _, f := range qt.Items {
		if Distance(c.Center, f.Position) <= c.Radius+f.Size {
			found = append(found, f)
		}
	}

	if qt.Divided {
		found = qt.NW.QueryCircle(c, maxFoodSize, found)
		found = qt.NE.QueryCircle(c, maxFoodSize, found)
		found = qt.SW.QueryCircle(c, maxFoodSize, found)
		found = qt.SE.QueryCircle(c, maxFoodSize, found)
	}

	return found
}

// Len counts the pellets stored in the tree
func (qt *Quadtree) Len() int {
	n := len(qt.Items)
	if qt.Divided {
		n += qt.NW.Len() + qt.NE.Len() + qt.SW.Len() + qt.SE.Len()
	}
	return n
}
