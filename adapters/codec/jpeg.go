// Package codec contains the benchmark codec adapters: stateful configuration
// objects implementing the core.Codec contract and dispatching to the backend
// codec services.
package codec

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/imgbench/codec-bench/config"
	"github.com/imgbench/codec-bench/convert"
	"github.com/imgbench/codec-bench/core"
	apperrors "github.com/imgbench/codec-bench/errors"
)

// JPEG benchmarks the legacy JPEG format, optionally routed through the
// general (JPEG XL) codec service: libjxl as the encoder backend, and the
// reconstruction decode path when djxl8/djxl16 is selected.
//
// Configuration is applied via ParseParam before the first Compress or
// Decompress call and must not be mutated afterwards. Repeated tokens follow
// last-write-wins with no conflict detection: "sjpeg" followed by "libjxl"
// simply leaves libjxl selected.
type JPEG struct {
	core.BaseCodec

	encoder            core.LegacyBackend
	chroma             core.ChromaSubsampling
	normalizeSize      bool
	useGeneralDecoder  bool
	decoderSampleWidth core.SampleWidth

	legacy  core.LegacyCodec
	general core.GeneralCodec
}

var _ core.Codec = (*JPEG)(nil)

// NewJPEG constructs the adapter with defaults from args. The general service
// may be nil when only the plain libjpeg/sjpeg paths are exercised.
func NewJPEG(args config.BenchmarkArgs, legacy core.LegacyCodec, general core.GeneralCodec) *JPEG {
	c := &JPEG{
		encoder:            args.DefaultEncoder,
		chroma:             args.DefaultChromaSubsampling,
		decoderSampleWidth: core.SampleWidth8,
		legacy:             legacy,
		general:            general,
	}
	c.QTarget = args.QTarget
	c.DistanceTarget = args.DistanceTarget
	return c
}

// Name returns the codec family name.
func (c *JPEG) Name() string { return "jpeg" }

// Description returns the name plus applied parameter tokens.
func (c *JPEG) Description() string { return c.DescribeAs(c.Name()) }

// ParseParam applies one configuration token.
func (c *JPEG) ParseParam(param string) error {
	handled, err := c.ParseBaseParam(param)
	if err != nil {
		return apperrors.Wrap(apperrors.CategoryParam, "jpeg.param", err)
	}
	if handled {
		c.RecordParam(param)
		return nil
	}

	switch param {
	case "sjpeg":
		c.encoder = core.BackendSjpeg
		c.RecordParam(param)
		return nil
	case "libjxl":
		c.encoder = core.BackendLibjxl
		c.RecordParam(param)
		return nil
	case "djxl8":
		c.useGeneralDecoder = true
		c.decoderSampleWidth = core.SampleWidth8
		c.RecordParam(param)
		return nil
	case "djxl16":
		c.useGeneralDecoder = true
		c.decoderSampleWidth = core.SampleWidth16
		c.RecordParam(param)
		return nil
	}

	if strings.HasPrefix(param, "yuv") {
		if len(param) != 6 {
			return apperrors.New(apperrors.CategoryParam, "jpeg.param",
				fmt.Errorf("%w: %q", apperrors.ErrMalformedParameter, param))
		}
		cs, ok := core.ParseChromaSubsampling(param[3:])
		if !ok {
			return apperrors.New(apperrors.CategoryParam, "jpeg.param",
				fmt.Errorf("%w: %q", apperrors.ErrMalformedParameter, param))
		}
		c.chroma = cs
		c.RecordParam(param)
		return nil
	}
	if strings.HasPrefix(param, "nr") {
		c.normalizeSize = true
		c.RecordParam(param)
		return nil
	}

	return apperrors.New(apperrors.CategoryParam, "jpeg.param",
		fmt.Errorf("%w: %q", apperrors.ErrUnknownParameter, param))
}

// Compress encodes img. Exactly one backend produces the final bitstream; the
// returned duration covers only the codec work, never pixel conversion. When
// both stages run (size normalization with the libjxl backend), the general
// stage's elapsed time replaces the legacy stage's.
func (c *JPEG) Compress(ctx context.Context, img *core.Image, pool *core.Pool) ([]byte, time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CategoryEncode, "jpeg.compress", err)
	}
	if img == nil {
		return nil, 0, apperrors.New(apperrors.CategoryEncode, "jpeg.compress", apperrors.ErrEmptyInput)
	}

	var out []byte
	var elapsed time.Duration

	if c.encoder != core.BackendLibjxl || c.normalizeSize {
		if c.legacy == nil {
			return nil, 0, apperrors.New(apperrors.CategoryEncode, "jpeg.compress", apperrors.ErrNoBackend)
		}
		buf, err := convert.FromImage(img, convert.PackOptions{
			SampleWidth: core.SampleWidth8,
			Order:       core.BigEndian,
		})
		if err != nil {
			return nil, 0, err
		}
		// Normalization always measures against the native libjpeg encoder,
		// regardless of the configured backend.
		backend := c.encoder
		if c.normalizeSize {
			backend = core.BackendLibjpeg
		}
		opts := core.LegacyEncodeOptions{
			Quality:           int(math.Round(c.QTarget)),
			Backend:           backend,
			ChromaSubsampling: c.chroma,
		}
		start := time.Now()
		bits, err := c.legacy.Encode(buf, opts, pool)
		elapsed = time.Since(start)
		if err != nil {
			return nil, 0, err
		}
		out = bits
	}

	if c.encoder == core.BackendLibjxl {
		if c.general == nil {
			return nil, 0, apperrors.New(apperrors.CategoryEncode, "jpeg.compress", apperrors.ErrNoBackend)
		}
		targetSize := 0
		if c.normalizeSize {
			targetSize = len(out)
		}
		out = nil
		start := time.Now()
		bits, err := c.general.Encode(img, targetSize, c.DistanceTarget, pool)
		elapsed = time.Since(start)
		if err != nil {
			return nil, 0, err
		}
		out = bits
	}

	return out, elapsed, nil
}

// Decompress decodes a JPEG bitstream through one of two paths: direct legacy
// decoding, or — with djxl8/djxl16 — lossless re-encapsulation into the
// general format followed by a general decode. The reconstruction path's
// elapsed time covers the re-encode and the decode; the final conversion back
// to the internal representation is never timed.
func (c *JPEG) Decompress(ctx context.Context, compressed []byte, pool *core.Pool) (*core.Image, time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CategoryDecode, "jpeg.decompress", err)
	}
	if len(compressed) == 0 {
		return nil, 0, apperrors.New(apperrors.CategoryDecode, "jpeg.decompress", apperrors.ErrEmptyInput)
	}

	var buf *core.PixelBuffer
	var elapsed time.Duration

	if c.useGeneralDecoder {
		if c.general == nil {
			return nil, 0, apperrors.New(apperrors.CategoryDecode, "jpeg.decompress", apperrors.ErrNoBackend)
		}
		start := time.Now()
		jxlBits, err := c.general.EncodeReconstruction(compressed, core.ReconstructionOptions{
			DisableChromaFromLuma: true,
		})
		if err != nil {
			return nil, 0, err
		}
		buf, err = c.general.Decode(jxlBits, core.GeneralDecodeOptions{
			SampleWidth:      c.decoderSampleWidth,
			Order:            core.BigEndian,
			AcceptedChannels: []int{1, 3},
		})
		elapsed = time.Since(start)
		if err != nil {
			return nil, 0, err
		}
	} else {
		if c.legacy == nil {
			return nil, 0, apperrors.New(apperrors.CategoryDecode, "jpeg.decompress", apperrors.ErrNoBackend)
		}
		start := time.Now()
		var err error
		buf, err = c.legacy.Decode(compressed, core.DecodeHints{})
		elapsed = time.Since(start)
		if err != nil {
			return nil, 0, err
		}
	}

	img, err := convert.ToImage(buf)
	if err != nil {
		return nil, 0, err
	}
	return img, elapsed, nil
}
