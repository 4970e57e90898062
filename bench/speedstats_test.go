package bench

import (
	"strings"
	"testing"
	"time"
)

func TestSpeedStatsAggregation(t *testing.T) {
	var s SpeedStats
	if s.Count() != 0 || s.Average() != 0 || s.MegapixelsPerSecond(1e6) != 0 {
		t.Fatal("zero-value stats not empty")
	}
	if !strings.Contains(s.Summary(0), "no observations") {
		t.Errorf("empty summary: %q", s.Summary(0))
	}

	s.NotifyElapsed(300 * time.Millisecond)
	s.NotifyElapsed(100 * time.Millisecond)
	s.NotifyElapsed(200 * time.Millisecond)

	if s.Count() != 3 {
		t.Errorf("Count: got %d", s.Count())
	}
	if s.Min() != 100*time.Millisecond {
		t.Errorf("Min: got %v", s.Min())
	}
	if s.Max() != 300*time.Millisecond {
		t.Errorf("Max: got %v", s.Max())
	}
	if s.Average() != 200*time.Millisecond {
		t.Errorf("Average: got %v", s.Average())
	}
}

func TestSpeedStatsThroughput(t *testing.T) {
	var s SpeedStats
	s.NotifyElapsed(100 * time.Millisecond)
	// 2 MP in 0.1 s is 20 MP/s; throughput uses the best time.
	s.NotifyElapsed(time.Second)
	got := s.MegapixelsPerSecond(2_000_000)
	if got < 19.99 || got > 20.01 {
		t.Errorf("MegapixelsPerSecond: got %v, want 20", got)
	}
}
