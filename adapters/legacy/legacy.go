// Package legacy provides the pure-Go JPEG backend service built on the
// standard library encoder/decoder.
package legacy

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/imgbench/codec-bench/convert"
	"github.com/imgbench/codec-bench/core"
	apperrors "github.com/imgbench/codec-bench/errors"
)

// Service implements core.LegacyCodec with image/jpeg.
//
// The stdlib encoder exposes a single quality knob: the sjpeg backend name and
// the chroma subsampling ratio are accepted in the options but encoded with
// the same code path. The vips backend honors both.
type Service struct{}

// NewService returns the stdlib JPEG service.
func NewService() *Service { return &Service{} }

var _ core.LegacyCodec = (*Service)(nil)

// Encode compresses an 8-bit packed buffer to a JPEG bitstream.
func (s *Service) Encode(buf *core.PixelBuffer, opts core.LegacyEncodeOptions, _ *core.Pool) ([]byte, error) {
	if buf == nil || len(buf.Data) == 0 {
		return nil, apperrors.New(apperrors.CategoryEncode, "legacy.encode", apperrors.ErrEmptyInput)
	}
	if buf.SampleWidth != core.SampleWidth8 {
		return nil, apperrors.New(apperrors.CategoryEncode, "legacy.encode",
			fmt.Errorf("JPEG input must be 8-bit, got %d-bit", buf.SampleWidth))
	}
	switch opts.Backend {
	case core.BackendLibjpeg, core.BackendSjpeg, "":
	default:
		return nil, apperrors.New(apperrors.CategoryEncode, "legacy.encode",
			fmt.Errorf("%w: backend %q", apperrors.ErrUnsupportedFormat, opts.Backend))
	}

	img, err := convert.ToImage(buf)
	if err != nil {
		return nil, err
	}

	quality := opts.Quality
	if quality < 1 {
		quality = 1
	} else if quality > 100 {
		quality = 100
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, img.Pixels, &jpeg.Options{Quality: quality}); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "legacy.encode", err)
	}
	return out.Bytes(), nil
}

// Decode decompresses a JPEG bitstream to an 8-bit big-endian packed buffer.
func (s *Service) Decode(data []byte, hints core.DecodeHints) (*core.PixelBuffer, error) {
	if len(data) == 0 {
		return nil, apperrors.New(apperrors.CategoryDecode, "legacy.decode", apperrors.ErrEmptyInput)
	}

	if hints.MaxPixels > 0 {
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryDecode, "legacy.decode.config", err)
		}
		if int64(cfg.Width)*int64(cfg.Height) > hints.MaxPixels {
			return nil, apperrors.New(apperrors.CategoryDecode, "legacy.decode",
				fmt.Errorf("image %dx%d exceeds pixel limit %d", cfg.Width, cfg.Height, hints.MaxPixels))
		}
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "legacy.decode", err)
	}

	channels := 3
	if isGray(img) {
		channels = 1
	}
	return convert.FromImage(core.NewImage(img), convert.PackOptions{
		Channels:    channels,
		SampleWidth: core.SampleWidth8,
		Order:       core.BigEndian,
	})
}

func isGray(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	}
	return false
}
