package sheet

import "errors"

// ErrInvalidPosition is returned when a requested position falls outside
// the sheet's addressable bounds (see position.MaxRows/MaxCols).
var ErrInvalidPosition = errors.New("sheet: invalid position")

// ErrCircularDependency is returned by SetCell when the candidate formula
// would introduce a cycle into the dependency graph, directly or through
// some chain of intermediate cells. No cell's content or dependency edges
// are changed.
var ErrCircularDependency = errors.New("sheet: circular dependency")
