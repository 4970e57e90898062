package vips

import (
	"image"
	"image/color"
	"os"
	"testing"

	"github.com/imgbench/codec-bench/convert"
	"github.com/imgbench/codec-bench/core"
)

var backend *Backend

func TestMain(m *testing.M) {
	backend = NewBackend(BackendConfig{MaxWorkers: 2})
	code := m.Run()
	backend.Shutdown()
	os.Exit(code)
}

func colorBuffer(t *testing.T, w, h int) *core.PixelBuffer {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: 90, A: 255})
		}
	}
	buf, err := convert.FromImage(core.NewImage(img), convert.PackOptions{
		SampleWidth: core.SampleWidth8, Order: core.BigEndian,
	})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	return buf
}

// requireJXL skips the test when the linked libvips lacks libjxl support.
func requireJXL(t *testing.T) {
	t.Helper()
	src := colorBuffer(t, 4, 4)
	img, err := convert.ToImage(src)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := backend.General().Encode(img, 0, 1.0, nil); err != nil {
		t.Skipf("libvips built without jxl support: %v", err)
	}
}

func TestLegacyRoundtrip(t *testing.T) {
	legacy := backend.Legacy()
	buf := colorBuffer(t, 48, 32)

	bits, err := legacy.Encode(buf, core.LegacyEncodeOptions{Quality: 90, Backend: core.BackendLibjpeg}, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(bits) < 4 || bits[0] != 0xFF || bits[1] != 0xD8 {
		t.Fatal("output is not a JPEG bitstream")
	}

	decoded, err := legacy.Decode(bits, core.DecodeHints{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Width != 48 || decoded.Height != 32 || decoded.Channels != 3 {
		t.Errorf("decoded: %dx%d/%dch", decoded.Width, decoded.Height, decoded.Channels)
	}
	if len(decoded.Data) != decoded.Len() {
		t.Errorf("data length %d, layout needs %d", len(decoded.Data), decoded.Len())
	}
}

func TestLegacyQualityOrdering(t *testing.T) {
	legacy := backend.Legacy()
	buf := colorBuffer(t, 64, 64)

	low, err := legacy.Encode(buf, core.LegacyEncodeOptions{Quality: 20}, nil)
	if err != nil {
		t.Fatal(err)
	}
	high, err := legacy.Encode(buf, core.LegacyEncodeOptions{Quality: 95}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(low) >= len(high) {
		t.Errorf("quality 20 output (%d B) not smaller than quality 95 (%d B)", len(low), len(high))
	}
}

func TestLegacyMaxPixels(t *testing.T) {
	legacy := backend.Legacy()
	bits, err := legacy.Encode(colorBuffer(t, 32, 32), core.LegacyEncodeOptions{Quality: 80}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := legacy.Decode(bits, core.DecodeHints{MaxPixels: 100}); err == nil {
		t.Error("over pixel limit: want error")
	}
}

func TestGeneralRoundtrip(t *testing.T) {
	requireJXL(t)
	general := backend.General()

	src := colorBuffer(t, 32, 24)
	img, err := convert.ToImage(src)
	if err != nil {
		t.Fatal(err)
	}

	bits, err := general.Encode(img, 0, 1.0, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := general.Decode(bits, core.GeneralDecodeOptions{
		SampleWidth:      core.SampleWidth8,
		Order:            core.BigEndian,
		AcceptedChannels: []int{1, 3},
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Width != 32 || decoded.Height != 24 {
		t.Errorf("decoded: %dx%d", decoded.Width, decoded.Height)
	}
}

func TestGeneralDecode16Bit(t *testing.T) {
	requireJXL(t)
	general := backend.General()

	src := colorBuffer(t, 8, 8)
	img, err := convert.ToImage(src)
	if err != nil {
		t.Fatal(err)
	}
	bits, err := general.Encode(img, 0, 1.0, nil)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := general.Decode(bits, core.GeneralDecodeOptions{
		SampleWidth: core.SampleWidth16,
		Order:       core.BigEndian,
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.SampleWidth != core.SampleWidth16 {
		t.Errorf("sample width: %d", decoded.SampleWidth)
	}
	if len(decoded.Data) != decoded.Len() {
		t.Errorf("data length %d, layout needs %d", len(decoded.Data), decoded.Len())
	}
}

func TestReconstruction(t *testing.T) {
	requireJXL(t)
	legacy := backend.Legacy()
	general := backend.General()

	jpegBits, err := legacy.Encode(colorBuffer(t, 32, 32), core.LegacyEncodeOptions{Quality: 85}, nil)
	if err != nil {
		t.Fatal(err)
	}
	jxlBits, err := general.EncodeReconstruction(jpegBits, core.ReconstructionOptions{DisableChromaFromLuma: true})
	if err != nil {
		t.Fatalf("EncodeReconstruction: %v", err)
	}

	decoded, err := general.Decode(jxlBits, core.GeneralDecodeOptions{
		SampleWidth:      core.SampleWidth8,
		AcceptedChannels: []int{1, 3},
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Width != 32 || decoded.Height != 32 {
		t.Errorf("decoded: %dx%d", decoded.Width, decoded.Height)
	}
}

func TestTargetSizeSeek(t *testing.T) {
	requireJXL(t)
	general := backend.General()

	src := colorBuffer(t, 64, 64)
	img, err := convert.ToImage(src)
	if err != nil {
		t.Fatal(err)
	}

	reference, err := general.Encode(img, 0, 3.0, nil)
	if err != nil {
		t.Fatal(err)
	}
	target := len(reference)

	out, err := general.Encode(img, target, 0, nil)
	if err != nil {
		t.Fatalf("Encode with target size: %v", err)
	}
	// The search should land within a loose band of the target.
	lo, hi := target/2, target*2
	if len(out) < lo || len(out) > hi {
		t.Errorf("output %d B not within [%d, %d] of target %d", len(out), lo, hi, target)
	}
}
