package gpu

import "errors"

// Surface and device errors. Backends wrap these so callers can classify
// failures with errors.Is.
var (
	ErrOutOfMemory     = errors.New("gpu: out of memory")
	ErrSurfaceLost     = errors.New("gpu: surface lost")
	ErrSurfaceOutdated = errors.New("gpu: surface outdated")
	ErrSurfaceTimeout  = errors.New("gpu: surface acquire timed out")
	ErrDestroyed       = errors.New("gpu: resource destroyed")
)

// IsFatal reports whether a frame error must stop rendering.
// Out-of-memory is fatal; every other surface error is transient and the
// frame can be retried.
func IsFatal(err error) bool {
	return errors.Is(err, ErrOutOfMemory)
}

// NeedsReconfigure reports whether the surface must be configured again
// before the next acquire.
func NeedsReconfigure(err error) bool {
	return errors.Is(err, ErrSurfaceLost) || errors.Is(err, ErrSurfaceOutdated)
}
