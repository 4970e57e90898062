// Package convert is the pixel-buffer conversion service: pure functions
// translating between the internal decoded representation (core.Image) and
// packed pixel buffers (core.PixelBuffer) with a chosen channel count, sample
// width, and byte order.
package convert

import (
	"fmt"
	"image"
	"image/color"

	"github.com/imgbench/codec-bench/core"
	apperrors "github.com/imgbench/codec-bench/errors"
)

// PackOptions selects the packed layout produced by FromImage.
type PackOptions struct {
	Channels    int // 0 = take the channel count from the image
	SampleWidth core.SampleWidth
	Order       core.Endianness
}

// FromImage packs a decoded image into an interleaved pixel buffer.
func FromImage(img *core.Image, opts PackOptions) (*core.PixelBuffer, error) {
	if img == nil || img.Pixels == nil {
		return nil, apperrors.New(apperrors.CategoryConvert, "convert.pack", apperrors.ErrEmptyInput)
	}
	channels := opts.Channels
	if channels == 0 {
		channels = img.Channels
	}
	if channels != 1 && channels != 3 {
		return nil, apperrors.New(apperrors.CategoryConvert, "convert.pack",
			fmt.Errorf("unsupported channel count %d", channels))
	}
	width := opts.SampleWidth
	if width == 0 {
		width = core.SampleWidth8
	}

	buf := &core.PixelBuffer{
		Width:       img.Width,
		Height:      img.Height,
		Channels:    channels,
		SampleWidth: width,
		Order:       opts.Order,
	}
	buf.Data = make([]byte, buf.Len())

	bounds := img.Pixels.Bounds()
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := img.Pixels.At(x, y)
			if channels == 1 {
				g := color.Gray16Model.Convert(px).(color.Gray16)
				i = putSample(buf, i, g.Y)
				continue
			}
			r, g, b, _ := px.RGBA()
			i = putSample(buf, i, uint16(r))
			i = putSample(buf, i, uint16(g))
			i = putSample(buf, i, uint16(b))
		}
	}
	return buf, nil
}

// ToImage unpacks a pixel buffer into the internal decoded representation.
func ToImage(buf *core.PixelBuffer) (*core.Image, error) {
	if buf == nil || len(buf.Data) == 0 {
		return nil, apperrors.New(apperrors.CategoryConvert, "convert.unpack", apperrors.ErrEmptyInput)
	}
	if buf.Width <= 0 || buf.Height <= 0 {
		return nil, apperrors.New(apperrors.CategoryConvert, "convert.unpack", apperrors.ErrInvalidDimensions)
	}
	if len(buf.Data) < buf.Len() {
		return nil, apperrors.New(apperrors.CategoryConvert, "convert.unpack",
			fmt.Errorf("buffer holds %d bytes, layout needs %d", len(buf.Data), buf.Len()))
	}

	rect := image.Rect(0, 0, buf.Width, buf.Height)
	var img image.Image
	switch {
	case buf.Channels == 1 && buf.SampleWidth == core.SampleWidth8:
		dst := image.NewGray(rect)
		copy(dst.Pix, buf.Data)
		img = dst
	case buf.Channels == 1 && buf.SampleWidth == core.SampleWidth16:
		dst := image.NewGray16(rect)
		// image.Gray16 stores big-endian samples.
		copySwapped(dst.Pix, buf.Data, buf.Order == core.LittleEndian)
		img = dst
	case buf.Channels == 3 && buf.SampleWidth == core.SampleWidth8:
		dst := image.NewNRGBA(rect)
		si := 0
		for di := 0; di < len(dst.Pix); di += 4 {
			dst.Pix[di+0] = buf.Data[si+0]
			dst.Pix[di+1] = buf.Data[si+1]
			dst.Pix[di+2] = buf.Data[si+2]
			dst.Pix[di+3] = 0xFF
			si += 3
		}
		img = dst
	case buf.Channels == 3 && buf.SampleWidth == core.SampleWidth16:
		dst := image.NewNRGBA64(rect)
		si := 0
		for di := 0; di < len(dst.Pix); di += 8 {
			for c := 0; c < 3; c++ {
				hi, lo := buf.Data[si], buf.Data[si+1]
				if buf.Order == core.LittleEndian {
					hi, lo = lo, hi
				}
				dst.Pix[di+2*c] = hi
				dst.Pix[di+2*c+1] = lo
				si += 2
			}
			dst.Pix[di+6] = 0xFF
			dst.Pix[di+7] = 0xFF
		}
		img = dst
	default:
		return nil, apperrors.New(apperrors.CategoryConvert, "convert.unpack",
			fmt.Errorf("unsupported layout: %d channels, %d-bit", buf.Channels, buf.SampleWidth))
	}

	out := core.NewImage(img)
	out.Channels = buf.Channels
	return out, nil
}

// putSample writes one 16-bit-range sample at the buffer's sample width and
// byte order, returning the advanced offset.
func putSample(buf *core.PixelBuffer, i int, v uint16) int {
	if buf.SampleWidth == core.SampleWidth8 {
		buf.Data[i] = uint8(v >> 8)
		return i + 1
	}
	if buf.Order == core.LittleEndian {
		buf.Data[i] = uint8(v)
		buf.Data[i+1] = uint8(v >> 8)
	} else {
		buf.Data[i] = uint8(v >> 8)
		buf.Data[i+1] = uint8(v)
	}
	return i + 2
}

// copySwapped copies 16-bit samples, optionally swapping each byte pair.
func copySwapped(dst, src []byte, swap bool) {
	if !swap {
		copy(dst, src)
		return
	}
	for i := 0; i+1 < len(src); i += 2 {
		dst[i] = src[i+1]
		dst[i+1] = src[i]
	}
}
