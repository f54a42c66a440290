package viewer

import (
	"time"

	"ftb-render/internal/config"
)

const spinThreshold = 200 * time.Microsecond

// FrameLimiter provides high-precision frame rate limiting
type FrameLimiter struct {
	settings *config.RenderSettings
	next     time.Time
}

func NewFrameLimiter(settings *config.RenderSettings) *FrameLimiter {
	return &FrameLimiter{settings: settings}
}

// Wait blocks until the next frame is due under the configured limit.
// Uses a hybrid sleep/spin approach for better precision on high FPS caps.
func (f *FrameLimiter) Wait() {
	limit := f.settings.FPSLimit()
	if limit <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(limit)
	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > spinThreshold {
			time.Sleep(remaining - spinThreshold)
		}
	}

	// resync after a hitch instead of racing to catch up
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
