// Package config defines the benchmark arguments passed explicitly to the
// driver and codec constructors. There is no global defaults object: callers
// start from Default() and override what they need.
package config

import (
	"errors"
	"fmt"

	"github.com/imgbench/codec-bench/core"
)

// BenchmarkArgs is the top-level configuration struct. All fields have safe
// defaults so callers can start with Default() and override only what they
// need.
type BenchmarkArgs struct {
	// Targets handed to codec adapters at construction.
	QTarget        float64 // quality or quality-proxy target; default 85
	DistanceTarget float64 // perceptual distance target; default 1.0

	// Adapter defaults, overridable per task via parameter tokens.
	DefaultEncoder           core.LegacyBackend
	DefaultChromaSubsampling core.ChromaSubsampling

	// Driver controls.
	WorkerCount int // images processed concurrently; default NumCPU
	Repetitions int // compress/decompress repetitions per image; default 1

	// Corpus limits.
	MaxImageBytes int64 // 0 = no limit
	MaxEdge       int   // downscale corpus images so the longest edge fits; 0 = off

	// Report output. A ".zst" suffix selects zstd compression.
	ReportPath string

	LogLevel string // "debug", "info", "warn", "error"
}

// Default returns a BenchmarkArgs populated with sensible defaults.
func Default() BenchmarkArgs {
	return BenchmarkArgs{
		QTarget:                  85,
		DistanceTarget:           1.0,
		DefaultEncoder:           core.BackendLibjpeg,
		DefaultChromaSubsampling: core.Chroma444,
		WorkerCount:              0, // resolved at runtime to NumCPU
		Repetitions:              1,
		LogLevel:                 "info",
	}
}

// Validate returns an error if the configuration is inconsistent.
func Validate(a BenchmarkArgs) error {
	if a.QTarget < 1 || a.QTarget > 100 {
		return errors.New("config: QTarget must be between 1 and 100")
	}
	if a.DistanceTarget <= 0 {
		return errors.New("config: DistanceTarget must be positive")
	}
	switch a.DefaultEncoder {
	case core.BackendLibjpeg, core.BackendSjpeg, core.BackendLibjxl:
	default:
		return fmt.Errorf("config: unknown encoder backend %q", a.DefaultEncoder)
	}
	if _, ok := core.ParseChromaSubsampling(string(a.DefaultChromaSubsampling)); !ok {
		return fmt.Errorf("config: invalid chroma subsampling %q", a.DefaultChromaSubsampling)
	}
	if a.Repetitions < 1 {
		return errors.New("config: Repetitions must be at least 1")
	}
	return nil
}
