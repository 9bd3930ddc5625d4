// Package imaging derives the scaled photo representations served next to
// the originals.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/schmic75-gasos/fody/internal/infrastructure/metrics"
)

// Deriver produces JPEG thumbnails of a fixed height, normalizing EXIF
// orientation so portrait shots come out upright.
type Deriver struct {
	height int
	log    zerolog.Logger
}

func NewDeriver(height int, log zerolog.Logger) *Deriver {
	return &Deriver{
		height: height,
		log:    log.With().Str("component", "thumbnail-deriver").Logger(),
	}
}

// Derive decodes, scales and re-encodes the original. Decoding large JPEGs
// can be slow, so the work runs in a goroutine and honors ctx cancellation.
func (d *Deriver) Derive(ctx context.Context, original []byte) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)

	start := time.Now()
	go func() {
		img, err := imaging.Decode(bytes.NewReader(original), imaging.AutoOrientation(true))
		if err != nil {
			done <- result{err: fmt.Errorf("decode original: %w", err)}
			return
		}

		scaled := imaging.Resize(img, 0, d.height, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, scaled, imaging.JPEG); err != nil {
			done <- result{err: fmt.Errorf("encode thumbnail: %w", err)}
			return
		}
		done <- result{data: buf.Bytes()}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err == nil {
			metrics.RecordThumbnail(time.Since(start).Seconds())
		}
		return res.data, res.err
	}
}
