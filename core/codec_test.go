package core

import "testing"

func TestParseBaseParam(t *testing.T) {
	tests := []struct {
		param    string
		consumed bool
		q, d     float64
	}{
		{"q85", true, 85, 0},
		{"q72.5", true, 72.5, 0},
		{"d1.5", true, 0, 1.5},
		{"d0.001", true, 0, 0.001},
		{"q", false, 0, 0},        // too short
		{"qx", false, 0, 0},       // not a number
		{"djxl8", false, 0, 0},    // d-prefixed but not numeric
		{"yuv420", false, 0, 0},   // unrelated token
		{"85", false, 0, 0},       // missing prefix
	}
	for _, tt := range tests {
		var b BaseCodec
		consumed, err := b.ParseBaseParam(tt.param)
		if err != nil {
			t.Errorf("ParseBaseParam(%q): %v", tt.param, err)
			continue
		}
		if consumed != tt.consumed {
			t.Errorf("ParseBaseParam(%q): consumed=%v, want %v", tt.param, consumed, tt.consumed)
		}
		if b.QTarget != tt.q || b.DistanceTarget != tt.d {
			t.Errorf("ParseBaseParam(%q): q=%v d=%v, want q=%v d=%v",
				tt.param, b.QTarget, b.DistanceTarget, tt.q, tt.d)
		}
	}
}

func TestDescribeAs(t *testing.T) {
	var b BaseCodec
	if got := b.DescribeAs("jpeg"); got != "jpeg" {
		t.Errorf("no params: got %q", got)
	}
	b.RecordParam("libjxl")
	b.RecordParam("yuv420")
	b.RecordParam("nr")
	if got := b.DescribeAs("jpeg"); got != "jpeg:libjxl:yuv420:nr" {
		t.Errorf("with params: got %q", got)
	}
}

func TestParseChromaSubsampling(t *testing.T) {
	for _, valid := range []string{"444", "422", "420", "411"} {
		if _, ok := ParseChromaSubsampling(valid); !ok {
			t.Errorf("ParseChromaSubsampling(%q): rejected", valid)
		}
	}
	for _, invalid := range []string{"", "44", "4444", "440", "999"} {
		if _, ok := ParseChromaSubsampling(invalid); ok {
			t.Errorf("ParseChromaSubsampling(%q): accepted", invalid)
		}
	}
}

func TestSampleWidthBytes(t *testing.T) {
	if SampleWidth8.Bytes() != 1 || SampleWidth16.Bytes() != 2 {
		t.Errorf("Bytes: 8-bit=%d 16-bit=%d", SampleWidth8.Bytes(), SampleWidth16.Bytes())
	}
}

func TestPixelBufferLen(t *testing.T) {
	buf := PixelBuffer{Width: 10, Height: 4, Channels: 3, SampleWidth: SampleWidth16}
	if got := buf.Len(); got != 10*4*3*2 {
		t.Errorf("Len: got %d", got)
	}
}

func TestPoolDefaultsToNumCPU(t *testing.T) {
	if p := NewPool(0); p.Workers < 1 {
		t.Errorf("Workers: got %d", p.Workers)
	}
	if p := NewPool(7); p.Workers != 7 {
		t.Errorf("Workers: got %d, want 7", p.Workers)
	}
}
