package convergence

import "errors"

// Precondition errors returned by the analyzer.
var (
	// ErrInvalidArgument indicates an argument outside its valid range,
	// such as fewer than two domain points or a non-positive search bound.
	ErrInvalidArgument = errors.New("convergence: invalid argument")

	// ErrDimensionMismatch indicates points of differing dimension in a
	// point cloud.
	ErrDimensionMismatch = errors.New("convergence: dimension mismatch between points")
)
