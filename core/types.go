package core

import (
	"image"
	"runtime"
)

// Format identifies an image bitstream format.
type Format string

const (
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatJXL     Format = "jxl"
	FormatUnknown Format = "unknown"
)

// SampleWidth is the width of one packed sample in bits.
type SampleWidth int

const (
	SampleWidth8  SampleWidth = 8
	SampleWidth16 SampleWidth = 16
)

// Bytes returns the number of bytes per sample.
func (w SampleWidth) Bytes() int {
	if w == SampleWidth16 {
		return 2
	}
	return 1
}

// Endianness is the byte order of multi-byte samples in a packed buffer.
type Endianness int

const (
	BigEndian Endianness = iota
	LittleEndian
)

// ChromaSubsampling is a JPEG chroma subsampling ratio.
type ChromaSubsampling string

const (
	Chroma444 ChromaSubsampling = "444"
	Chroma422 ChromaSubsampling = "422"
	Chroma420 ChromaSubsampling = "420"
	Chroma411 ChromaSubsampling = "411"
)

// ParseChromaSubsampling validates a ratio token ("444", "422", "420", "411").
func ParseChromaSubsampling(s string) (ChromaSubsampling, bool) {
	switch ChromaSubsampling(s) {
	case Chroma444, Chroma422, Chroma420, Chroma411:
		return ChromaSubsampling(s), true
	}
	return "", false
}

// LegacyBackend names a JPEG encoder implementation.
type LegacyBackend string

const (
	BackendLibjpeg LegacyBackend = "libjpeg"
	BackendSjpeg   LegacyBackend = "sjpeg"
	BackendLibjxl  LegacyBackend = "libjxl"
)

// Image is the internal decoded representation passed between the driver and
// codec adapters.
type Image struct {
	Pixels   image.Image
	Width    int
	Height   int
	Channels int // 1 = grayscale, 3 = color
	Name     string
}

// NewImage wraps a decoded image.Image, deriving dimensions and channel count
// from its bounds and color model.
func NewImage(img image.Image) *Image {
	b := img.Bounds()
	channels := 3
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		channels = 1
	}
	return &Image{
		Pixels:   img,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: channels,
	}
}

// PixelCount returns the number of pixels in the image.
func (im *Image) PixelCount() int64 {
	return int64(im.Width) * int64(im.Height)
}

// PixelBuffer is a packed pixel buffer: interleaved samples, row-major,
// multi-byte samples in the byte order given by Order.
type PixelBuffer struct {
	Data        []byte
	Width       int
	Height      int
	Channels    int
	SampleWidth SampleWidth
	Order       Endianness
}

// Len returns the expected byte length of the buffer.
func (b *PixelBuffer) Len() int {
	return b.Width * b.Height * b.Channels * b.SampleWidth.Bytes()
}

// Pool is an opaque thread-pool handle forwarded to backend services.
// Backends may parallelize conversion and codec work across Workers threads;
// this core never schedules work itself.
type Pool struct {
	Workers int
}

// NewPool returns a Pool with the given worker count, defaulting to NumCPU.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{Workers: workers}
}

// LegacyEncodeOptions carries typed JPEG encode settings.
type LegacyEncodeOptions struct {
	Quality           int
	Backend           LegacyBackend
	ChromaSubsampling ChromaSubsampling
}

// DecodeHints carries color-hint and size-constraint settings for legacy
// decoding. The zero value means defaults: no hints, no constraint.
type DecodeHints struct {
	MaxPixels int64 // 0 = unconstrained
}

// ReconstructionOptions configures reconstruction-mode encoding, where an
// existing JPEG bitstream is losslessly re-encapsulated into the general
// format instead of being re-compressed from pixels.
type ReconstructionOptions struct {
	DisableChromaFromLuma bool
}

// GeneralDecodeOptions configures general-format decoding.
type GeneralDecodeOptions struct {
	SampleWidth      SampleWidth
	Order            Endianness
	AcceptedChannels []int // decoded channel count must be one of these
}
