// Package jxl provides a pure-Go general-format (JPEG XL) decoder service
// backed by github.com/kpfaulkner/jxl-go. Encoding has no pure-Go
// implementation; pair this decoder with the vips backend's encoder via
// core.GeneralServices when a full general codec is needed.
package jxl

import (
	"bytes"
	"fmt"
	"image"

	jxlcore "github.com/kpfaulkner/jxl-go/core"

	"github.com/imgbench/codec-bench/convert"
	"github.com/imgbench/codec-bench/core"
	apperrors "github.com/imgbench/codec-bench/errors"
)

// Decoder implements core.GeneralDecoder.
type Decoder struct{}

// NewDecoder returns the pure-Go JXL decoder service.
func NewDecoder() *Decoder { return &Decoder{} }

var _ core.GeneralDecoder = (*Decoder)(nil)

// Decode decompresses a JXL bitstream into a packed buffer at the requested
// sample width and byte order.
func (d *Decoder) Decode(data []byte, opts core.GeneralDecodeOptions) (*core.PixelBuffer, error) {
	if len(data) == 0 {
		return nil, apperrors.New(apperrors.CategoryDecode, "jxl.decode", apperrors.ErrEmptyInput)
	}

	dec := jxlcore.NewJXLDecoder(bytes.NewReader(data), nil)
	jxlImage, err := dec.Decode()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "jxl.decode", err)
	}
	img, err := jxlImage.ToImage()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "jxl.decode.image", err)
	}

	channels := 3
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		channels = 1
	}
	if !channelAccepted(channels, opts.AcceptedChannels) {
		return nil, apperrors.New(apperrors.CategoryDecode, "jxl.decode",
			fmt.Errorf("decoded channel count %d not in accepted set %v", channels, opts.AcceptedChannels))
	}

	width := opts.SampleWidth
	if width == 0 {
		width = core.SampleWidth8
	}
	return convert.FromImage(core.NewImage(img), convert.PackOptions{
		Channels:    channels,
		SampleWidth: width,
		Order:       opts.Order,
	})
}

func channelAccepted(channels int, accepted []int) bool {
	if len(accepted) == 0 {
		return true
	}
	for _, c := range accepted {
		if c == channels {
			return true
		}
	}
	return false
}
