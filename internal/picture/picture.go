// Package picture loads, scales and stores the photos handled by the service.
package picture

import (
	"fmt"
	"image"
	_ "image/gif"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Open decodes the image stored at path, applying its EXIF orientation.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", path, err)
	}
	return img, nil
}

// Decode reads an image from r, applying its EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Resize scales an image to exactly width x height with bilinear interpolation,
// ignoring aspect ratio.
func Resize(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Thumbnail scales an image down to fit within size x size, keeping aspect ratio.
func Thumbnail(img image.Image, size int) *image.NRGBA {
	return imaging.Fit(img, size, size, imaging.Lanczos)
}

// EncodeJPEG writes img to w as a JPEG.
func EncodeJPEG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
	".bmp":  true,
}

// IsImageFile checks if a file has a supported image extension.
func IsImageFile(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}
