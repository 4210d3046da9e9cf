package shape

import "errors"

// Construction and dispatch errors
var (
	ErrInvalidDimensions = errors.New("box dimensions must be positive")
	ErrInvalidRadius     = errors.New("sphere radius must be positive")
	ErrTooFewVertices    = errors.New("polygon needs at least 3 vertices")
	ErrDegeneratePolygon = errors.New("polygon has no area")
	ErrNotCoplanar       = errors.New("polygon vertices are not coplanar")
	ErrTooFewFaces       = errors.New("polyhedron needs at least 4 faces")
	ErrNotConvex         = errors.New("polyhedron is not convex")
	ErrNoHandler         = errors.New("no collision handler for shape pair")
)
