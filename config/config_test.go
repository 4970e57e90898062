package config

import (
	"testing"

	"github.com/imgbench/codec-bench/core"
)

func TestDefaultValidates(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("Validate(Default()): %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BenchmarkArgs)
	}{
		{"quality too low", func(a *BenchmarkArgs) { a.QTarget = 0 }},
		{"quality too high", func(a *BenchmarkArgs) { a.QTarget = 101 }},
		{"zero distance", func(a *BenchmarkArgs) { a.DistanceTarget = 0 }},
		{"negative distance", func(a *BenchmarkArgs) { a.DistanceTarget = -1 }},
		{"unknown encoder", func(a *BenchmarkArgs) { a.DefaultEncoder = "mozjpeg" }},
		{"bad chroma", func(a *BenchmarkArgs) { a.DefaultChromaSubsampling = "440" }},
		{"zero repetitions", func(a *BenchmarkArgs) { a.Repetitions = 0 }},
	}
	for _, tt := range tests {
		args := Default()
		tt.mutate(&args)
		if err := Validate(args); err == nil {
			t.Errorf("%s: want error", tt.name)
		}
	}
}

func TestValidateAcceptsAllBackends(t *testing.T) {
	for _, b := range []core.LegacyBackend{core.BackendLibjpeg, core.BackendSjpeg, core.BackendLibjxl} {
		args := Default()
		args.DefaultEncoder = b
		if err := Validate(args); err != nil {
			t.Errorf("backend %q: %v", b, err)
		}
	}
}
