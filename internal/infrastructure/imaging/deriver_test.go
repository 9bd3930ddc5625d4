package imaging

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// sampleJPEG renders a gradient so the encoder has real content to chew on.
func sampleJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode sample: %v", err)
	}
	return buf.Bytes()
}

func TestDeriveScalesToConfiguredHeight(t *testing.T) {
	d := NewDeriver(250, zerolog.Nop())

	thumb, err := d.Derive(context.Background(), sampleJPEG(t, 800, 600))
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("thumbnail is not a JPEG: %v", err)
	}
	bounds := decoded.Bounds()
	if bounds.Dy() != 250 {
		t.Errorf("height = %d, want 250", bounds.Dy())
	}
	// Aspect ratio preserved: 800x600 scales to ~333x250.
	if bounds.Dx() < 330 || bounds.Dx() > 336 {
		t.Errorf("width = %d, want about 333", bounds.Dx())
	}
}

func TestDeriveRejectsGarbage(t *testing.T) {
	d := NewDeriver(250, zerolog.Nop())

	if _, err := d.Derive(context.Background(), []byte("definitely not a jpeg")); err == nil {
		t.Error("Derive() should fail on undecodable input")
	}
}

func TestDeriveHonorsContextCancellation(t *testing.T) {
	d := NewDeriver(250, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Derive(ctx, sampleJPEG(t, 400, 300))
	if err == nil {
		t.Error("Derive() should fail once the context is canceled")
	}
}

func TestDeriveCompletesWithinDeadline(t *testing.T) {
	d := NewDeriver(100, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := d.Derive(ctx, sampleJPEG(t, 400, 300)); err != nil {
		t.Errorf("Derive() error = %v", err)
	}
}
