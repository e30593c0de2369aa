package game

const (
	// World configuration
	WorldWidth  = 3000.0
	WorldHeight = 3000.0

	// Game loop configuration
	TickRate = 60 // simulation ticks per second

	// Player configuration
	InitialPlayerSize = 10.0
	PlayerBaseSpeed   = 5.0 // world units per tick at size 1
	MovementDeadZone  = 0.0 // pixels around the viewport centre that stop movement; 0 disables

	// Food configuration
	FoodPoolSize = 100
	FoodSize     = 5.0
	GrowthFactor = 0.5 // fraction of a food's size added to the player on consumption

	// Camera
	CameraSmoothing = 0.18 // fraction of the remaining distance covered per tick, (0, 1]

	// Collision
	SpatialIndexThreshold = 256 // pools larger than this are queried through a quadtree
	QuadtreeCapacity      = 8

	// Viewport used until the host reports a real one
	DefaultViewportWidth  = 1280.0
	DefaultViewportHeight = 720.0
)
