// Package bench is the benchmark driver: it owns the corpus, instantiates
// codec adapters from description strings, runs the compress/decompress
// stages repeatedly, and aggregates timing and size statistics.
package bench

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/imgbench/codec-bench/config"
	"github.com/imgbench/codec-bench/core"
	apperrors "github.com/imgbench/codec-bench/errors"
)

// Result is the outcome of one (codec description, image) pair.
type Result struct {
	Image string `json:"image"`
	Codec string `json:"codec"`

	PixelCount      int64   `json:"pixel_count"`
	CompressedBytes int     `json:"compressed_bytes"`
	BitsPerPixel    float64 `json:"bits_per_pixel"`

	// Best-of-repetitions stage times, in seconds.
	CompressSeconds   float64 `json:"compress_seconds"`
	DecompressSeconds float64 `json:"decompress_seconds"`

	CompressMPS   float64 `json:"compress_mps"`
	DecompressMPS float64 `json:"decompress_mps"`

	Err string `json:"error,omitempty"`
}

// Driver runs benchmark tasks. Configure it once, then call Run.
type Driver struct {
	args     config.BenchmarkArgs
	registry *core.CodecRegistry
	pool     *core.Pool

	logger  core.Logger
	metrics core.MetricsCollector
	hooks   []core.Hook
}

// NewDriver creates a Driver over the given codec registry.
func NewDriver(args config.BenchmarkArgs, registry *core.CodecRegistry) *Driver {
	return &Driver{
		args:     args,
		registry: registry,
		pool:     core.NewPool(args.WorkerCount),
	}
}

// SetLogger attaches a structured logger.
func (d *Driver) SetLogger(l core.Logger) { d.logger = l }

// SetMetrics attaches a metrics collector.
func (d *Driver) SetMetrics(m core.MetricsCollector) { d.metrics = m }

// AddHook registers a stage observer.
func (d *Driver) AddHook(h core.Hook) { d.hooks = append(d.hooks, h) }

// NewCodec instantiates and configures a codec adapter from a description
// string: the codec family name followed by colon-separated parameter tokens,
// e.g. "jpeg:libjxl:yuv420:nr:q85". The first token the codec rejects aborts
// configuration.
func (d *Driver) NewCodec(desc string) (core.Codec, error) {
	parts := strings.Split(desc, ":")
	factory, ok := d.registry.Lookup(parts[0])
	if !ok {
		return nil, apperrors.New(apperrors.CategoryConfig, "bench.codec",
			fmt.Errorf("unknown codec %q (registered: %v)", parts[0], d.registry.Names()))
	}
	c := factory()
	for _, param := range parts[1:] {
		if err := c.ParseParam(param); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Run benchmarks every codec description against every corpus image.
// Description parsing happens up front: a bad token fails the run before any
// image is processed. Per-image codec failures do not abort the run; they are
// recorded on the Result for that image.
func (d *Driver) Run(ctx context.Context, corpus []CorpusImage, descs []string) ([]Result, error) {
	if len(corpus) == 0 || len(descs) == 0 {
		return nil, apperrors.New(apperrors.CategoryBench, "bench.run", apperrors.ErrEmptyInput)
	}
	// Fail fast on configuration errors.
	for _, desc := range descs {
		if _, err := d.NewCodec(desc); err != nil {
			return nil, err
		}
	}

	results := make([]Result, len(descs)*len(corpus))
	workers := d.pool.Workers
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for di, desc := range descs {
		for ii := range corpus {
			wg.Add(1)
			sem <- struct{}{}
			go func(idx int, desc string, img CorpusImage) {
				defer wg.Done()
				defer func() { <-sem }()
				results[idx] = d.runTask(ctx, desc, img)
			}(di*len(corpus)+ii, desc, corpus[ii])
		}
	}
	wg.Wait()
	return results, nil
}

// runTask benchmarks one codec description against one image. Each task gets
// a fresh adapter instance so configuration is finalized before the first
// codec call and never shared across goroutines.
func (d *Driver) runTask(ctx context.Context, desc string, img CorpusImage) Result {
	res := Result{Image: img.Name, Codec: desc, PixelCount: img.Image.PixelCount()}

	codec, err := d.NewCodec(desc)
	if err != nil {
		// Already validated in Run; only a racing registry change gets here.
		res.Err = err.Error()
		return res
	}

	reps := d.args.Repetitions
	if reps < 1 {
		reps = 1
	}

	var encStats SpeedStats
	var compressed []byte
	for i := 0; i < reps; i++ {
		d.notifyBefore(ctx, "compress", img.Name)
		bits, elapsed, err := codec.Compress(ctx, img.Image, d.pool)
		d.notifyAfter(ctx, "compress", img.Name, elapsed, err)
		if err != nil {
			res.Err = err.Error()
			d.logError("compress", img.Name, desc, err)
			return res
		}
		encStats.NotifyElapsed(elapsed)
		compressed = bits
	}
	res.CompressedBytes = len(compressed)
	res.BitsPerPixel = float64(len(compressed)) * 8 / float64(res.PixelCount)
	res.CompressSeconds = encStats.Min().Seconds()
	res.CompressMPS = encStats.MegapixelsPerSecond(res.PixelCount)
	if d.metrics != nil {
		d.metrics.RecordThroughput(int64(len(compressed)))
	}

	var decStats SpeedStats
	for i := 0; i < reps; i++ {
		d.notifyBefore(ctx, "decompress", img.Name)
		decoded, elapsed, err := codec.Decompress(ctx, compressed, d.pool)
		d.notifyAfter(ctx, "decompress", img.Name, elapsed, err)
		if err != nil {
			res.Err = err.Error()
			d.logError("decompress", img.Name, desc, err)
			return res
		}
		decStats.NotifyElapsed(elapsed)
		if decoded.Width != img.Image.Width || decoded.Height != img.Image.Height {
			res.Err = fmt.Sprintf("decoded size %dx%d, want %dx%d",
				decoded.Width, decoded.Height, img.Image.Width, img.Image.Height)
			return res
		}
	}
	res.DecompressSeconds = decStats.Min().Seconds()
	res.DecompressMPS = decStats.MegapixelsPerSecond(res.PixelCount)
	return res
}

func (d *Driver) notifyBefore(ctx context.Context, stage, image string) {
	for _, h := range d.hooks {
		h.BeforeStage(ctx, stage, image)
	}
}

func (d *Driver) notifyAfter(ctx context.Context, stage, image string, elapsed time.Duration, err error) {
	for _, h := range d.hooks {
		h.AfterStage(ctx, stage, image, elapsed, err)
	}
	if d.metrics != nil {
		d.metrics.RecordStageTime(stage, elapsed)
		if err != nil {
			d.metrics.RecordError(stage, "codec")
		}
	}
}

func (d *Driver) logError(stage, image, desc string, err error) {
	if d.logger == nil {
		return
	}
	d.logger.Error("bench.task.failed",
		"stage", stage,
		"image", image,
		"codec", desc,
		"error", err.Error(),
	)
}
