package convert

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
)

// DefaultQuality is the fixed JPEG quality used for every conversion
const DefaultQuality = 0.95

// ImageCodec decodes source images and encodes JPEG output.
// Implementations must be safe for concurrent use.
type ImageCodec interface {
	Decode(ctx context.Context, path string) (image.Image, error)
	EncodeJPEG(ctx context.Context, img image.Image, opts JPEGEncodeOptions, path string) error
}

// JPEGEncodeOptions configures JPEG encoding. Quality is in the range 0..1.
type JPEGEncodeOptions struct {
	Quality float64
}

// DefaultJPEGOptions returns options at DefaultQuality
func DefaultJPEGOptions() JPEGEncodeOptions {
	return JPEGEncodeOptions{Quality: DefaultQuality}
}

// StdQuality maps Quality onto the 1..100 scale of image/jpeg
func (o JPEGEncodeOptions) StdQuality() int {
	q := int(math.Round(o.Quality * 100))
	switch {
	case q < 1:
		return 1
	case q > 100:
		return 100
	}
	return q
}

// StdCodec is the default ImageCodec built on image/png and image/jpeg
type StdCodec struct{}

// Decode reads a PNG file.
func (StdCodec) Decode(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// EncodeJPEG writes img to path, replacing any existing file.
// Transparent pixels are composited onto white since JPEG has no alpha.
func (StdCodec) EncodeJPEG(ctx context.Context, img image.Image, opts JPEGEncodeOptions, path string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if err := jpeg.Encode(w, flatten(img), &jpeg.Options{Quality: opts.StdQuality()}); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return w.Flush()
}

func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}

	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}
