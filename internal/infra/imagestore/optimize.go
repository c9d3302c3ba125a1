package imagestore

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
)

const (
	MaxUploadBytes = 5 << 20
	maxDimension   = 1200
	webpQuality    = 80
)

// Optimize reduz a imagem para no máximo 1200px no maior lado e
// regrava em webp. Aceita png, jpeg, gif e webp.
func Optimize(data []byte) ([]byte, error) {
	if len(data) > MaxUploadBytes {
		return nil, httperr.ErrValidation("image_too_large", "Images must be at most 5 MB.")
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, httperr.ErrValidation("invalid_image", "The uploaded file is not a supported image (png, jpeg, gif or webp).")
	}

	img := resize(src)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func resize(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDimension && h <= maxDimension {
		return src
	}

	if w >= h {
		h = h * maxDimension / w
		w = maxDimension
	} else {
		w = w * maxDimension / h
		h = maxDimension
	}

	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
