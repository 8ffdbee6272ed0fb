package storage

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"github.com/creser-psicologia/creser-api/internal/httperr"
)

const thumbMaxSide = 480

// Thumbnail decodes an image proof and re-encodes a scaled-down webp copy.
func Thumbnail(data []byte, contentType string) ([]byte, error) {
	var (
		img image.Image
		err error
	)

	switch contentType {
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	case "image/png":
		img, err = png.Decode(bytes.NewReader(data))
	case "image/webp":
		img, err = webp.Decode(bytes.NewReader(data))
	default:
		return nil, httperr.ErrBusiness("invalid_proof_type")
	}
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_image")
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > thumbMaxSide || h > thumbMaxSide {
		scale := float64(thumbMaxSide) / float64(w)
		if h > w {
			scale = float64(thumbMaxSide) / float64(h)
		}
		dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: 80}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
