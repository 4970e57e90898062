// Package vips provides libvips-backed implementations of both the legacy
// (JPEG) and general (JPEG XL) codec services. Requires libvips built with
// libjxl support.
package vips

import (
	"encoding/binary"
	"fmt"
	"runtime"

	govips "github.com/davidbyttow/govips/v2/vips"

	"github.com/imgbench/codec-bench/convert"
	"github.com/imgbench/codec-bench/core"
	apperrors "github.com/imgbench/codec-bench/errors"
	"github.com/imgbench/codec-bench/utils"
)

// BackendConfig configures the libvips backend.
type BackendConfig struct {
	MaxCacheSize int
	MaxWorkers   int
	ReportLeaks  bool

	// Target-size search bounds for general-format encoding. Zero values get
	// defaults in NewBackend.
	MinDistance      float64
	MaxDistance      float64
	SearchIterations int
}

// Backend wraps libvips. Obtain the codec services through Legacy() and
// General(). Safe for concurrent use across goroutines.
type Backend struct {
	cfg BackendConfig
}

// NewBackend initialises libvips and returns a ready Backend.
// Call Shutdown() when the process exits.
func NewBackend(cfg BackendConfig) *Backend {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	if cfg.MinDistance <= 0 {
		cfg.MinDistance = 0.1
	}
	if cfg.MaxDistance <= cfg.MinDistance {
		cfg.MaxDistance = 25.0
	}
	if cfg.SearchIterations <= 0 {
		cfg.SearchIterations = 10
	}
	govips.Startup(&govips.Config{
		ConcurrencyLevel: cfg.MaxWorkers,
		MaxCacheSize:     cfg.MaxCacheSize,
		ReportLeaks:      cfg.ReportLeaks,
		CollectStats:     true,
	})
	return &Backend{cfg: cfg}
}

// Shutdown releases all libvips resources. Call once at process exit.
func (b *Backend) Shutdown() {
	govips.Shutdown()
}

// Legacy returns the JPEG codec service view of the backend.
func (b *Backend) Legacy() core.LegacyCodec { return legacyService{b} }

// General returns the JPEG XL codec service view of the backend.
func (b *Backend) General() core.GeneralCodec { return generalService{b} }

// ─── Legacy codec service ─────────────────────────────────────────────────────

type legacyService struct{ b *Backend }

var _ core.LegacyCodec = legacyService{}

// Encode compresses an 8-bit packed buffer to JPEG. The sjpeg backend name
// selects trellis quantization and scan optimization; libvips only exposes an
// on/off chroma subsampling switch, so 422/420/411 all map to "on".
func (s legacyService) Encode(buf *core.PixelBuffer, opts core.LegacyEncodeOptions, _ *core.Pool) ([]byte, error) {
	if buf == nil || len(buf.Data) == 0 {
		return nil, apperrors.New(apperrors.CategoryEncode, "vips.jpeg.encode", apperrors.ErrEmptyInput)
	}
	if buf.SampleWidth != core.SampleWidth8 {
		return nil, apperrors.New(apperrors.CategoryEncode, "vips.jpeg.encode",
			fmt.Errorf("JPEG input must be 8-bit, got %d-bit", buf.SampleWidth))
	}

	ref, err := govips.NewImageFromMemory(buf.Data, buf.Width, buf.Height, buf.Channels)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.jpeg.encode.import", err)
	}
	defer ref.Close()

	ep := govips.NewJpegExportParams()
	ep.Quality = clampQuality(opts.Quality)
	ep.StripMetadata = true
	if opts.ChromaSubsampling == core.Chroma444 || opts.ChromaSubsampling == "" {
		ep.SubsampleMode = govips.VipsForeignSubsampleOff
	} else {
		ep.SubsampleMode = govips.VipsForeignSubsampleOn
	}
	if opts.Backend == core.BackendSjpeg {
		ep.TrellisQuant = true
		ep.OvershootDeringing = true
		ep.OptimizeScans = true
		ep.OptimizeCoding = true
	}

	out, _, err := ref.ExportJpeg(ep)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.jpeg.encode", err)
	}
	return out, nil
}

// Decode decompresses a JPEG bitstream to an 8-bit packed buffer.
func (s legacyService) Decode(data []byte, hints core.DecodeHints) (*core.PixelBuffer, error) {
	if len(data) == 0 {
		return nil, apperrors.New(apperrors.CategoryDecode, "vips.jpeg.decode", apperrors.ErrEmptyInput)
	}

	ref, err := govips.NewImageFromBuffer(utils.CloneBytes(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.jpeg.decode", err)
	}
	defer ref.Close()

	if hints.MaxPixels > 0 && int64(ref.Width())*int64(ref.Height()) > hints.MaxPixels {
		return nil, apperrors.New(apperrors.CategoryDecode, "vips.jpeg.decode",
			fmt.Errorf("image %dx%d exceeds pixel limit %d", ref.Width(), ref.Height(), hints.MaxPixels))
	}

	return refToBuffer(ref, core.SampleWidth8, core.BigEndian)
}

// ─── General codec service ────────────────────────────────────────────────────

type generalService struct{ b *Backend }

var _ core.GeneralCodec = generalService{}

// Encode compresses the image to JPEG XL. With targetSize == 0 the given
// perceptual distance drives quality; otherwise an iterative distance search
// drives the output toward targetSize bytes.
func (s generalService) Encode(img *core.Image, targetSize int, distance float64, _ *core.Pool) ([]byte, error) {
	buf, err := convert.FromImage(img, convert.PackOptions{SampleWidth: core.SampleWidth8, Order: core.BigEndian})
	if err != nil {
		return nil, err
	}
	ref, err := govips.NewImageFromMemory(buf.Data, buf.Width, buf.Height, buf.Channels)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.jxl.encode.import", err)
	}
	defer ref.Close()

	if targetSize <= 0 {
		return exportJxl(ref, distance, false)
	}
	return s.seekTargetSize(ref, targetSize)
}

// EncodeReconstruction re-encapsulates a JPEG bitstream as lossless JPEG XL.
// libvips does not expose the chroma-from-luma toggle, so the option is
// accepted but not forwarded.
func (s generalService) EncodeReconstruction(jpeg []byte, _ core.ReconstructionOptions) ([]byte, error) {
	if len(jpeg) == 0 {
		return nil, apperrors.New(apperrors.CategoryEncode, "vips.jxl.recon", apperrors.ErrEmptyInput)
	}
	ref, err := govips.NewImageFromBuffer(utils.CloneBytes(jpeg))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.jxl.recon.import", err)
	}
	defer ref.Close()
	return exportJxl(ref, 0, true)
}

// Decode decompresses a JPEG XL bitstream at the requested sample width.
func (s generalService) Decode(data []byte, opts core.GeneralDecodeOptions) (*core.PixelBuffer, error) {
	if len(data) == 0 {
		return nil, apperrors.New(apperrors.CategoryDecode, "vips.jxl.decode", apperrors.ErrEmptyInput)
	}
	ref, err := govips.NewImageFromBuffer(utils.CloneBytes(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.jxl.decode", err)
	}
	defer ref.Close()

	if len(opts.AcceptedChannels) > 0 {
		ok := false
		for _, c := range opts.AcceptedChannels {
			if c == ref.Bands() {
				ok = true
				break
			}
		}
		if !ok {
			return nil, apperrors.New(apperrors.CategoryDecode, "vips.jxl.decode",
				fmt.Errorf("decoded channel count %d not in accepted set %v", ref.Bands(), opts.AcceptedChannels))
		}
	}

	width := opts.SampleWidth
	if width == 0 {
		width = core.SampleWidth8
	}
	return refToBuffer(ref, width, opts.Order)
}

// seekTargetSize binary-searches the distance parameter for the encoding
// closest to targetSize bytes. Larger distance means smaller output.
func (s generalService) seekTargetSize(ref *govips.ImageRef, targetSize int) ([]byte, error) {
	lo, hi := s.b.cfg.MinDistance, s.b.cfg.MaxDistance
	var best []byte
	bestDiff := int(^uint(0) >> 1)

	for i := 0; i < s.b.cfg.SearchIterations; i++ {
		mid := (lo + hi) / 2
		out, err := exportJxl(ref, mid, false)
		if err != nil {
			return nil, err
		}
		diff := len(out) - targetSize
		abs := diff
		if abs < 0 {
			abs = -abs
		}
		if abs < bestDiff {
			best, bestDiff = out, abs
		}
		if diff > 0 {
			lo = mid // too big, raise distance
		} else {
			hi = mid
		}
	}
	if best == nil {
		return nil, apperrors.New(apperrors.CategoryEncode, "vips.jxl.seek",
			fmt.Errorf("no encoding produced for target size %d", targetSize))
	}
	return best, nil
}

// ─── helpers ──────────────────────────────────────────────────────────────────

func exportJxl(ref *govips.ImageRef, distance float64, lossless bool) ([]byte, error) {
	ep := govips.NewJxlExportParams()
	ep.Lossless = lossless
	if !lossless && distance > 0 {
		ep.Distance = distance
	}
	out, _, err := ref.ExportJxl(ep)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.jxl.encode", err)
	}
	return out, nil
}

// refToBuffer exports a vips image's raw pixel memory as a PixelBuffer.
func refToBuffer(ref *govips.ImageRef, width core.SampleWidth, order core.Endianness) (*core.PixelBuffer, error) {
	if width == core.SampleWidth16 {
		// Scale 8-bit samples into the 16-bit range before the cast.
		if err := ref.Linear([]float64{257}, []float64{0}); err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryConvert, "vips.export.linear", err)
		}
		if err := ref.Cast(govips.BandFormatUshort); err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryConvert, "vips.export.cast", err)
		}
	}
	raw, err := ref.ToBytes()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryConvert, "vips.export", err)
	}
	if width == core.SampleWidth16 && hostIsLittleEndian != (order == core.LittleEndian) {
		swapPairs(raw)
	}
	return &core.PixelBuffer{
		Data:        raw,
		Width:       ref.Width(),
		Height:      ref.Height(),
		Channels:    ref.Bands(),
		SampleWidth: width,
		Order:       order,
	}, nil
}

var hostIsLittleEndian = func() bool {
	probe := []byte{0x01, 0x02}
	return binary.NativeEndian.Uint16(probe) == binary.LittleEndian.Uint16(probe)
}()

func swapPairs(b []byte) {
	for i := 0; i+1 < len(b); i += 2 {
		b[i], b[i+1] = b[i+1], b[i]
	}
}

func clampQuality(q int) int {
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}
