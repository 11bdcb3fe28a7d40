package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

const JPEGMimeType = "image/jpeg"

// DecodeImage sniffs JPEG, PNG or WebP data and decodes it.
func DecodeImage(data []byte) (image.Image, string, error) {
	mime := http.DetectContentType(data)
	var (
		img image.Image
		err error
	)
	switch mime {
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	case "image/png":
		img, err = png.Decode(bytes.NewReader(data))
	case "image/webp":
		img, err = webp.Decode(bytes.NewReader(data))
	default:
		return nil, mime, fmt.Errorf("%w: %s", ErrUnsupportedImage, mime)
	}
	if err != nil {
		return nil, mime, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return img, mime, nil
}

// NormalizeToJPEG decodes data, shrinks it to fit maxW x maxH and re-encodes
// as JPEG. Smaller images are not enlarged.
func NormalizeToJPEG(data []byte, maxW, maxH int) ([]byte, image.Point, error) {
	img, _, err := DecodeImage(data)
	if err != nil {
		return nil, image.Point{}, err
	}
	b := img.Bounds()
	if b.Dx() > maxW || b.Dy() > maxH {
		img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, image.Point{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), image.Pt(img.Bounds().Dx(), img.Bounds().Dy()), nil
}
