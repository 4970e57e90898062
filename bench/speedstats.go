package bench

import (
	"fmt"
	"time"
)

// SpeedStats aggregates elapsed-time observations for one stage. Repeated
// runs of the same work are summarized by their best (minimum) time, the
// convention for codec benchmarking where warm-cache best-of is the stable
// figure.
type SpeedStats struct {
	count int
	sum   time.Duration
	min   time.Duration
	max   time.Duration
}

// NotifyElapsed records one observation.
func (s *SpeedStats) NotifyElapsed(d time.Duration) {
	if s.count == 0 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
	s.sum += d
	s.count++
}

// Count returns the number of observations.
func (s *SpeedStats) Count() int { return s.count }

// Min returns the best observed time.
func (s *SpeedStats) Min() time.Duration { return s.min }

// Max returns the worst observed time.
func (s *SpeedStats) Max() time.Duration { return s.max }

// Average returns the mean observed time.
func (s *SpeedStats) Average() time.Duration {
	if s.count == 0 {
		return 0
	}
	return s.sum / time.Duration(s.count)
}

// MegapixelsPerSecond converts the best observed time into throughput for the
// given pixel count.
func (s *SpeedStats) MegapixelsPerSecond(pixels int64) float64 {
	if s.count == 0 || s.min <= 0 {
		return 0
	}
	return float64(pixels) / 1e6 / s.min.Seconds()
}

// Summary renders a one-line human-readable summary.
func (s *SpeedStats) Summary(pixels int64) string {
	if s.count == 0 {
		return "no observations"
	}
	return fmt.Sprintf("%.3f MP/s (min %v, avg %v, max %v, n=%d)",
		s.MegapixelsPerSecond(pixels), s.min, s.Average(), s.max, s.count)
}
