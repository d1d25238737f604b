package encoder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"hiredesk/logger"
	"hiredesk/media"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxWidth  = 400
	DefaultMaxHeight = 400
	DefaultQuality   = 70 // 0.7 on a 0–1 scale
	DefaultFormat    = "jpg"

	// maxPixels guards against small files that decode into huge bitmaps.
	maxPixels = 50_000_000
)

// Options controls the bounding box and output codec of Normalize.
type Options struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
	Format    string // Registry key
}

// DefaultOptions is a 400×400 box re-encoded as JPEG at quality 70.
func DefaultOptions() Options {
	return Options{
		MaxWidth:  DefaultMaxWidth,
		MaxHeight: DefaultMaxHeight,
		Quality:   DefaultQuality,
		Format:    DefaultFormat,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = DefaultMaxHeight
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	return o
}

// Normalized is the compressed output of one Normalize call.
type Normalized struct {
	Data         []byte
	MIMEType     string
	Width        int
	Height       int
	SourceWidth  int
	SourceHeight int
	SourceFormat string // as reported by the decoder, e.g. "png"
}

// Fit returns the dimensions of a w×h image scaled proportionally to fit
// inside maxW×maxH. Images already inside the box are returned unchanged;
// nothing is ever enlarged.
func Fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	if w <= maxW && h <= maxH {
		return w, h
	}

	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	return max(nw, 1), max(nh, 1)
}

// Decode turns raw bytes into a bitmap. Any failure wraps media.ErrDecode.
func Decode(ctx context.Context, data []byte) (image.Image, string, error) {
	type decoded struct {
		img    image.Image
		format string
	}

	res, err := await(ctx, func() (decoded, error) {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return decoded{}, fmt.Errorf("%w: %v", media.ErrDecode, err)
		}
		if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
			return decoded{}, fmt.Errorf("%w: %s image is %dx%d, too many pixels",
				media.ErrDecode, format, cfg.Width, cfg.Height)
		}

		img, format, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return decoded{}, fmt.Errorf("%w: %v", media.ErrDecode, err)
		}
		if img.Bounds().Empty() {
			return decoded{}, fmt.Errorf("%w: %s image has no pixels (%dx%d)",
				media.ErrDecode, format, img.Bounds().Dx(), img.Bounds().Dy())
		}
		return decoded{img: img, format: format}, nil
	})
	if err != nil {
		return nil, "", err
	}
	return res.img, res.format, nil
}

// Encode compresses img with the codec registered under opts.Format.
func Encode(ctx context.Context, img image.Image, opts Options) ([]byte, string, error) {
	RegisterDefaults()
	opts = opts.withDefaults()

	codec, ok := Get(opts.Format)
	if !ok {
		return nil, "", fmt.Errorf("encoder %s not found", opts.Format)
	}

	data, err := await(ctx, func() ([]byte, error) {
		var buf bytes.Buffer
		eo := EncodeOptions{Width: opts.MaxWidth, Height: opts.MaxHeight, Quality: opts.Quality}
		if err := codec.Encode(ctx, img, &buf, eo); err != nil {
			return nil, fmt.Errorf("encoding failed: %w", err)
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		return nil, "", err
	}
	return data, codec.MIMEType, nil
}

// Normalize decodes data, shrinks it to fit the bounding box and re-encodes
// it. Decode and encode are each a single awaited step; cancelling ctx
// abandons the wait.
func Normalize(ctx context.Context, data []byte, opts Options) (Normalized, error) {
	opts = opts.withDefaults()

	src, format, err := Decode(ctx, data)
	if err != nil {
		return Normalized{}, err
	}

	b := src.Bounds()
	w, h := Fit(b.Dx(), b.Dy(), opts.MaxWidth, opts.MaxHeight)
	logger.Debugf("normalize: %s %dx%d -> %dx%d (%s q=%d)",
		format, b.Dx(), b.Dy(), w, h, opts.Format, opts.Quality)

	canvas := render(src, w, h, opts.Format == "jpg")

	out, mimeType, err := Encode(ctx, canvas, opts)
	if err != nil {
		return Normalized{}, err
	}

	return Normalized{
		Data:         out,
		MIMEType:     mimeType,
		Width:        w,
		Height:       h,
		SourceWidth:  b.Dx(),
		SourceHeight: b.Dy(),
		SourceFormat: format,
	}, nil
}

// render draws src onto a fresh w×h canvas. Opaque canvases get a white
// background so transparent regions do not turn black in JPEG output.
func render(src image.Image, w, h int, opaque bool) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	if opaque {
		draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	}

	sb := src.Bounds()
	if sb.Dx() == w && sb.Dy() == h {
		draw.Draw(canvas, canvas.Bounds(), src, sb.Min, draw.Over)
		return canvas
	}
	draw.CatmullRom.Scale(canvas, canvas.Bounds(), src, sb, draw.Over, nil)
	return canvas
}
