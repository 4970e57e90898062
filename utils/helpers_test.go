package utils

import "testing"

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, "jpeg"},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}, "png"},
		{"jxl codestream", []byte{0xFF, 0x0A, 0x00, 0x00}, "jxl"},
		{"jxl container", []byte{0x00, 0x00, 0x00, 0x0C, 'J', 'X', 'L', ' ', 0x0D, 0x0A, 0x87, 0x0A, 0x01}, "jxl"},
		{"short", []byte{0xFF, 0xD8}, "unknown"},
		{"empty", nil, "unknown"},
		{"garbage", []byte{0x01, 0x02, 0x03, 0x04, 0x05}, "unknown"},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.data); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestScaleDimensions(t *testing.T) {
	tests := []struct {
		srcW, srcH, tW, tH int
		wantW, wantH       int
	}{
		{100, 50, 0, 0, 100, 50},
		{100, 50, 10, 0, 10, 5},
		{100, 50, 0, 25, 50, 25},
		{100, 50, 30, 40, 30, 40},
		{50, 100, 0, 10, 5, 10},
	}
	for _, tt := range tests {
		w, h := ScaleDimensions(tt.srcW, tt.srcH, tt.tW, tt.tH)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("ScaleDimensions(%d,%d,%d,%d): got %dx%d, want %dx%d",
				tt.srcW, tt.srcH, tt.tW, tt.tH, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestCloneBytes(t *testing.T) {
	src := []byte{1, 2, 3}
	dst := CloneBytes(src)
	src[0] = 99
	if dst[0] != 1 {
		t.Error("clone shares backing array with source")
	}
	if got := CloneBytes(nil); len(got) != 0 {
		t.Errorf("CloneBytes(nil): %v", got)
	}
}
