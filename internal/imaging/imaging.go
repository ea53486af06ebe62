// Package imaging normalizes uploaded food photos into square JPEG
// thumbnails.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// Size is the maximum edge of a stored photo.
const Size = 512

// MaxUploadBytes caps the accepted upload size.
const MaxUploadBytes = 5 << 20

const jpegQuality = 85

// ErrUnsupported is returned for anything that is not a JPEG or PNG image.
var ErrUnsupported = errors.New("unsupported image format")

// ErrTooLarge is returned when an upload exceeds MaxUploadBytes.
var ErrTooLarge = errors.New("image too large")

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Photo is a processed food photo.
type Photo struct {
	Data []byte
	MIME string
}

// Thumbnail sniffs the upload, crops it to a centered square, scales it down
// to at most Size x Size and re-encodes it as JPEG. Smaller images are
// cropped but never scaled up.
func Thumbnail(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	// Client headers are not trusted.
	if detected := http.DetectContentType(data); !allowedMIME[detected] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	src := centerSquare(img.Bounds())
	edge := min(src.Dx(), Size)
	dst := image.NewRGBA(image.Rect(0, 0, edge, edge))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return &Photo{Data: buf.Bytes(), MIME: "image/jpeg"}, nil
}

// centerSquare returns the largest square centered in b.
func centerSquare(b image.Rectangle) image.Rectangle {
	edge := min(b.Dx(), b.Dy())
	x := b.Min.X + (b.Dx()-edge)/2
	y := b.Min.Y + (b.Dy()-edge)/2
	return image.Rect(x, y, x+edge, y+edge)
}
