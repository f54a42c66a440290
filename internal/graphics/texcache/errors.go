package texcache

import "errors"

var (
	// ErrNoCapacity is returned when the atlas has no free rectangle for a
	// texture. Only Flush recovers the space.
	ErrNoCapacity = errors.New("texcache: allocation capacity exceeded")

	// ErrInvalidBitmap is returned for empty, short or mis-sized bitmaps.
	ErrInvalidBitmap = errors.New("texcache: invalid bitmap")

	// ErrRemovedTexture is returned when updating a texture that was
	// destroyed or dropped by Flush.
	ErrRemovedTexture = errors.New("texcache: texture no longer cached")
)
