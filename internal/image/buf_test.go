package image

import (
	"errors"
	"math"
	"testing"
)

func TestNewImageBuf(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		wantErr error
	}{
		{"valid", 10, 20, nil},
		{"single pixel", 1, 1, nil},
		{"zero width", 0, 10, ErrInvalidDimensions},
		{"zero height", 10, 0, ErrInvalidDimensions},
		{"negative", -5, 10, ErrInvalidDimensions},
		{"over pixel cap", 16384, 16385, ErrInvalidDimensions},
		{"overflowing product", math.MaxInt, 2, ErrInvalidDimensions},
		{"max int32 sides", math.MaxInt32, math.MaxInt32, ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := NewImageBuf(tt.width, tt.height)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewImageBuf() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got, want := buf.ByteSize(), tt.width*tt.height*4; got != want {
				t.Errorf("ByteSize() = %d, want %d", got, want)
			}
			for i, v := range buf.Data() {
				if v != 0 {
					t.Fatalf("Data()[%d] = %d, want 0", i, v)
				}
			}
		})
	}
}

func TestFromRaw(t *testing.T) {
	data := make([]byte, 2*3*4)
	buf, err := FromRaw(data, 2, 3)
	if err != nil {
		t.Fatalf("FromRaw() error = %v", err)
	}
	data[0] = 42
	if buf.Data()[0] != 42 {
		t.Error("FromRaw() copied data, want shared storage")
	}

	if _, err := FromRaw(data[:5], 2, 3); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("FromRaw(short) error = %v, want ErrSizeMismatch", err)
	}
	if _, err := FromRaw(data, 0, 3); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("FromRaw(0x3) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestImageBuf_Clone(t *testing.T) {
	buf, _ := NewImageBuf(4, 4)
	buf.Fill(10, 20, 30, 255)

	clone := buf.Clone()
	_ = buf.SetRGBA(0, 0, 1, 2, 3, 4)

	r, g, b, a := clone.GetRGBA(0, 0)
	if r != 10 || g != 20 || b != 30 || a != 255 {
		t.Errorf("clone pixel = (%d, %d, %d, %d), want (10, 20, 30, 255)", r, g, b, a)
	}
}

func TestImageBuf_Resize(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		want   bool
		wantWH [2]int
	}{
		{"grow", 8, 6, true, [2]int{8, 6}},
		{"same size", 4, 4, false, [2]int{4, 4}},
		{"zero", 0, 4, false, [2]int{4, 4}},
		{"negative", 4, -1, false, [2]int{4, 4}},
		{"overflowing product", math.MaxInt32, math.MaxInt32, false, [2]int{4, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, _ := NewImageBuf(4, 4)
			buf.Fill(255, 255, 255, 255)

			if got := buf.Resize(tt.w, tt.h); got != tt.want {
				t.Errorf("Resize(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
			}
			if w, h := buf.Bounds(); w != tt.wantWH[0] || h != tt.wantWH[1] {
				t.Errorf("Bounds() = (%d, %d), want (%d, %d)", w, h, tt.wantWH[0], tt.wantWH[1])
			}
			if buf.ByteSize() != tt.wantWH[0]*tt.wantWH[1]*4 {
				t.Errorf("ByteSize() = %d, want %d", buf.ByteSize(), tt.wantWH[0]*tt.wantWH[1]*4)
			}
			if tt.want {
				if _, _, _, a := buf.GetRGBA(0, 0); a != 0 {
					t.Errorf("alpha after resize = %d, want 0", a)
				}
			}
		})
	}
}

func TestImageBuf_Frames(t *testing.T) {
	buf, _ := NewImageBuf(2, 2)
	frame := make([]byte, 16)
	for i := range frame {
		frame[i] = byte(i)
	}

	if err := buf.WriteFrame(frame); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}
	got := buf.ReadFrame()
	for i := range frame {
		if got[i] != frame[i] {
			t.Fatalf("ReadFrame()[%d] = %d, want %d", i, got[i], frame[i])
		}
	}

	got[0] = 99
	if buf.Data()[0] == 99 {
		t.Error("ReadFrame() returned shared storage, want copy")
	}

	if err := buf.WriteFrame(make([]byte, 12)); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("WriteFrame(short) error = %v, want ErrSizeMismatch", err)
	}
}

func TestImageBuf_CopyFrom(t *testing.T) {
	dst, _ := NewImageBuf(4, 4)
	src, _ := NewImageBuf(2, 6)
	src.Fill(255, 0, 0, 255)

	dst.CopyFrom(src)

	tests := []struct {
		x, y  int
		wantA uint8
	}{
		{0, 0, 255},
		{1, 3, 255},
		{2, 0, 0},
		{3, 3, 0},
	}
	for _, tt := range tests {
		if _, _, _, a := dst.GetRGBA(tt.x, tt.y); a != tt.wantA {
			t.Errorf("alpha at (%d, %d) = %d, want %d", tt.x, tt.y, a, tt.wantA)
		}
	}
}

func TestImageBuf_SetRGBA_OutOfBounds(t *testing.T) {
	buf, _ := NewImageBuf(3, 3)
	oob := []struct{ x, y int }{{-1, 0}, {3, 0}, {0, -1}, {0, 3}}
	for _, c := range oob {
		if err := buf.SetRGBA(c.x, c.y, 1, 1, 1, 1); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("SetRGBA(%d, %d) error = %v, want ErrOutOfBounds", c.x, c.y, err)
		}
	}
	if r, g, b, a := buf.GetRGBA(5, 5); r|g|b|a != 0 {
		t.Errorf("GetRGBA(out of bounds) = (%d, %d, %d, %d), want zeros", r, g, b, a)
	}
}

func TestValidDimensions(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{1, 1, true},
		{1920, 1080, true},
		{16384, 16384, true},
		{MaxPixels, 1, true},
		{MaxPixels + 1, 1, false},
		{16384, 16385, false},
		{0, 5, false},
		{5, -1, false},
		{math.MaxInt32, math.MaxInt32, false},
		{math.MaxInt, 4, false},
	}
	for _, tt := range tests {
		if got := ValidDimensions(tt.w, tt.h); got != tt.want {
			t.Errorf("ValidDimensions(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}
