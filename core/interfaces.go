package core

import (
	"context"
	"time"
)

// Codec is the contract every benchmark codec adapter implements.
// Implementations live in adapters/codec/.
//
// A Codec is configured once — constructor defaults, then a sequence of
// ParseParam calls — and is then driven sequentially by the benchmark driver.
// Compress and Decompress are independent and re-entrant for distinct
// arguments, but configuration must not be mutated with a call in flight.
type Codec interface {
	// Name returns the codec family name ("jpeg").
	Name() string
	// Description returns the name plus the applied parameter tokens.
	Description() string
	// ParseParam applies one configuration token. Later tokens override
	// earlier ones for the same field.
	ParseParam(param string) error
	// Compress encodes img and returns the bitstream plus the elapsed time of
	// the codec work alone (pixel conversion excluded).
	Compress(ctx context.Context, img *Image, pool *Pool) ([]byte, time.Duration, error)
	// Decompress decodes a bitstream. The compressed slice is borrowed: it is
	// never mutated and never retained past the call.
	Decompress(ctx context.Context, compressed []byte, pool *Pool) (*Image, time.Duration, error)
}

// LegacyCodec is the JPEG encode/decode backend service.
type LegacyCodec interface {
	Encode(buf *PixelBuffer, opts LegacyEncodeOptions, pool *Pool) ([]byte, error)
	Decode(data []byte, hints DecodeHints) (*PixelBuffer, error)
}

// GeneralEncoder is the encode half of the general-format backend service.
type GeneralEncoder interface {
	// Encode compresses img. targetSize > 0 drives the output toward that
	// byte length; targetSize == 0 means unconstrained, using distance as the
	// perceptual target.
	Encode(img *Image, targetSize int, distance float64, pool *Pool) ([]byte, error)
	// EncodeReconstruction losslessly re-encapsulates a JPEG bitstream.
	EncodeReconstruction(jpeg []byte, opts ReconstructionOptions) ([]byte, error)
}

// GeneralDecoder is the decode half of the general-format backend service.
type GeneralDecoder interface {
	Decode(data []byte, opts GeneralDecodeOptions) (*PixelBuffer, error)
}

// GeneralCodec combines both halves of the general-format service.
type GeneralCodec interface {
	GeneralEncoder
	GeneralDecoder
}

// GeneralServices composes independently chosen encoder and decoder halves
// into a GeneralCodec (e.g. a libvips encoder with a pure-Go decoder).
type GeneralServices struct {
	GeneralEncoder
	GeneralDecoder
}

// MetricsCollector receives performance observations from the driver.
type MetricsCollector interface {
	RecordStageTime(stage string, d time.Duration)
	RecordThroughput(bytes int64)
	RecordError(stage string, category string)
}

// Logger is a minimal structured logging interface.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// Hook is an optional observer invoked around benchmark stages. Hooks run
// outside the timed regions and must not block.
type Hook interface {
	BeforeStage(ctx context.Context, stage, image string)
	AfterStage(ctx context.Context, stage, image string, d time.Duration, err error)
}
