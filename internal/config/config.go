package config

import (
	"fmt"
	"sync"

	"ftb-render/internal/graphics/palette"
)

const (
	DefaultAtlasSize   = 4096
	DefaultSlots       = 4
	DefaultJobCapacity = 4096
	DefaultFPSLimit    = 60

	minAtlasSize = 64
	maxAtlasSize = 16384
	maxSlots     = 16
	maxFPSLimit  = 1000
)

// SettingsError reports an invalid render setting.
type SettingsError struct {
	Field  string
	Reason string
}

func (e *SettingsError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// RenderSettings holds render configuration. The exported fields are fixed
// once a renderer is built from them; the frame limit and the batching
// toggle may change while running.
type RenderSettings struct {
	AtlasSize   int // texels per side, power of two
	Slots       int // atlas slots with their own job buffer
	JobCapacity int // triangles per job buffer
	Scaler      palette.Scaler

	FOV         float32 // vertical, degrees
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	mu       sync.RWMutex
	fpsLimit int
	batching bool
}

// Default returns the stock settings.
func Default() *RenderSettings {
	return &RenderSettings{
		AtlasSize:   DefaultAtlasSize,
		Slots:       DefaultSlots,
		JobCapacity: DefaultJobCapacity,
		Scaler:      palette.Point1x,
		FOV:         45,
		AspectRatio: 1.6,
		NearPlane:   1,
		FarPlane:    512,
		fpsLimit:    DefaultFPSLimit,
		batching:    true,
	}
}

// Validate checks the fixed settings.
func (s *RenderSettings) Validate() error {
	switch {
	case s.AtlasSize < minAtlasSize || s.AtlasSize > maxAtlasSize:
		return &SettingsError{"AtlasSize", fmt.Sprintf("%d outside %d..%d", s.AtlasSize, minAtlasSize, maxAtlasSize)}
	case s.AtlasSize&(s.AtlasSize-1) != 0:
		return &SettingsError{"AtlasSize", fmt.Sprintf("%d is not a power of two", s.AtlasSize)}
	case s.Slots < 1 || s.Slots > maxSlots:
		return &SettingsError{"Slots", fmt.Sprintf("%d outside 1..%d", s.Slots, maxSlots)}
	case s.JobCapacity < 1:
		return &SettingsError{"JobCapacity", "must be positive"}
	case !s.Scaler.Valid():
		return &SettingsError{"Scaler", fmt.Sprintf("unknown scaler %d", int(s.Scaler))}
	case s.FOV <= 0 || s.FOV >= 180:
		return &SettingsError{"FOV", fmt.Sprintf("%v outside (0, 180)", s.FOV)}
	case s.AspectRatio <= 0:
		return &SettingsError{"AspectRatio", "must be positive"}
	case s.NearPlane <= 0 || s.FarPlane <= s.NearPlane:
		return &SettingsError{"FarPlane", fmt.Sprintf("clip range %v..%v is empty", s.NearPlane, s.FarPlane)}
	}
	return nil
}

// FPSLimit returns the frame cap; 0 means unlimited.
func (s *RenderSettings) FPSLimit() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fpsLimit
}

// SetFPSLimit sets the frame cap
func (s *RenderSettings) SetFPSLimit(fps int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Clamp to reasonable values
	if fps < 0 {
		fps = 0
	}
	if fps > maxFPSLimit {
		fps = maxFPSLimit
	}

	s.fpsLimit = fps
}

// Batching reports whether draws are grouped into job buffers.
func (s *RenderSettings) Batching() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batching
}

func (s *RenderSettings) SetBatching(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batching = enabled
}
