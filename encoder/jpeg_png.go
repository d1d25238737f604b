package encoder

import (
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"io"
)

// EncodeJPG writes a baseline JPEG at opts.Quality (DefaultQuality when unset).
func EncodeJPG(ctx context.Context, img image.Image, w io.Writer, o EncodeOptions) error {
	q := o.Quality
	if q <= 0 || q > 100 {
		q = DefaultQuality
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
}

// EncodePNG writes a lossless PNG; quality is ignored.
func EncodePNG(ctx context.Context, img image.Image, w io.Writer, o EncodeOptions) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}
