// Package media describes what the editor needs from the playback side:
// the current position and frame alignment of timestamps.
package media

import (
	"math"
	"sync/atomic"
)

// Provider exposes playback state in milliseconds.
type Provider interface {
	// CurrentPTS returns the playback position.
	CurrentPTS() int
	// AlignPTS snaps pts to the nearest video frame boundary.
	AlignPTS(pts int) int
}

// Null is a Provider without video: the position is always zero and no
// alignment happens.
type Null struct{}

func (Null) CurrentPTS() int { return 0 }

func (Null) AlignPTS(pts int) int { return pts }

// FixedRate aligns to a constant frame rate. Its position can be moved with
// Seek; it is safe for concurrent use.
type FixedRate struct {
	fps float64
	pos atomic.Int64
}

// NewFixedRate returns a provider for fps frames per second. A
// non-positive fps disables alignment.
func NewFixedRate(fps float64) *FixedRate {
	return &FixedRate{fps: fps}
}

// FPS returns the configured frame rate.
func (f *FixedRate) FPS() float64 { return f.fps }

// Seek moves the playback position.
func (f *FixedRate) Seek(pts int) { f.pos.Store(int64(pts)) }

func (f *FixedRate) CurrentPTS() int { return int(f.pos.Load()) }

func (f *FixedRate) AlignPTS(pts int) int {
	if f.fps <= 0 {
		return pts
	}
	frame := math.Round(float64(pts) * f.fps / 1000)
	return int(math.Round(frame * 1000 / f.fps))
}

// FromFPS returns a FixedRate for positive fps and Null otherwise.
func FromFPS(fps float64) Provider {
	if fps <= 0 {
		return Null{}
	}
	return NewFixedRate(fps)
}
