// Package codecbench wires interchangeable image codec backends into a
// benchmark harness through one uniform contract: parse a parameter token,
// compress an image, decompress a bitstream, report the elapsed time of only
// the codec work.
package codecbench

import (
	"context"

	"github.com/imgbench/codec-bench/adapters/codec"
	"github.com/imgbench/codec-bench/adapters/legacy"
	"github.com/imgbench/codec-bench/bench"
	"github.com/imgbench/codec-bench/config"
	"github.com/imgbench/codec-bench/core"
	apperrors "github.com/imgbench/codec-bench/errors"
)

// DefaultConfig returns sensible benchmark defaults.
func DefaultConfig() config.BenchmarkArgs { return config.Default() }

// Backends selects the codec services the adapters dispatch to. Zero-value
// fields get pure-Go defaults where one exists: the stdlib JPEG service for
// Legacy. General has no pure-Go encoder; leave it nil and the libjxl/djxl
// parameter tokens will fail with a clear error, or provide one (e.g. the
// vips backend's General() service, possibly composed with the pure-Go jxl
// decoder via core.GeneralServices).
type Backends struct {
	Legacy  core.LegacyCodec
	General core.GeneralCodec
}

// Bench is the primary entry point: a configured registry plus driver.
type Bench struct {
	args     config.BenchmarkArgs
	registry *core.CodecRegistry
	driver   *bench.Driver
}

// New validates args and builds a Bench with the "jpeg" codec family
// registered against the given backends.
func New(args config.BenchmarkArgs, backends Backends) (*Bench, error) {
	if err := config.Validate(args); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryConfig, "codecbench.new", err)
	}
	if backends.Legacy == nil {
		backends.Legacy = legacy.NewService()
	}

	registry := core.NewRegistry()
	registry.Register("jpeg", func() core.Codec {
		return codec.NewJPEG(args, backends.Legacy, backends.General)
	})

	return &Bench{
		args:     args,
		registry: registry,
		driver:   bench.NewDriver(args, registry),
	}, nil
}

// Registry exposes the codec registry so callers can register additional
// codec families.
func (b *Bench) Registry() *core.CodecRegistry { return b.registry }

// SetLogger attaches a structured logger to the driver.
func (b *Bench) SetLogger(l core.Logger) { b.driver.SetLogger(l) }

// SetMetrics attaches a metrics collector to the driver.
func (b *Bench) SetMetrics(m core.MetricsCollector) { b.driver.SetMetrics(m) }

// AddHook registers a stage observer on the driver.
func (b *Bench) AddHook(h core.Hook) { b.driver.AddHook(h) }

// NewCodec builds a configured codec adapter from a description string like
// "jpeg:libjxl:yuv420:nr:q85". A bad token is a hard configuration error.
func (b *Bench) NewCodec(desc string) (core.Codec, error) {
	return b.driver.NewCodec(desc)
}

// Run loads the corpus at dir and benchmarks every codec description against
// every image, writing the report if args.ReportPath is set.
func (b *Bench) Run(ctx context.Context, dir string, descs []string) ([]bench.Result, error) {
	corpus, err := bench.LoadCorpus(ctx, dir, b.args)
	if err != nil {
		return nil, err
	}
	results, err := b.driver.Run(ctx, corpus, descs)
	if err != nil {
		return nil, err
	}
	if b.args.ReportPath != "" {
		if err := bench.WriteReport(b.args.ReportPath, results); err != nil {
			return results, err
		}
	}
	return results, nil
}
