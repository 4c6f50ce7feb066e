package service

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider"
)

const (
	thumbnailMaxSize = 200
	thumbnailPadding = 0.20
	thumbnailQuality = 85
)

// MakeThumbnail crops the detected face out of the frame with a 20%
// margin on each side, clamped to the frame bounds, downscales it to fit
// within 200x200 and encodes it as JPEG. Images already small enough are
// not upscaled.
func MakeThumbnail(frame []byte, box provider.BoundingBox) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	bounds := img.Bounds()
	padX := int(float64(box.Width()) * thumbnailPadding)
	padY := int(float64(box.Height()) * thumbnailPadding)

	crop := image.Rect(
		max(bounds.Min.X, box.X1-padX),
		max(bounds.Min.Y, box.Y1-padY),
		min(bounds.Max.X, box.X2+padX),
		min(bounds.Max.Y, box.Y2+padY),
	)
	if crop.Empty() {
		return nil, domain.ErrInvalidImage
	}

	dstW, dstH := crop.Dx(), crop.Dy()
	if dstW > thumbnailMaxSize || dstH > thumbnailMaxSize {
		if dstW >= dstH {
			dstH = dstH * thumbnailMaxSize / dstW
			dstW = thumbnailMaxSize
		} else {
			dstW = dstW * thumbnailMaxSize / dstH
			dstH = thumbnailMaxSize
		}
		if dstW < 1 {
			dstW = 1
		}
		if dstH < 1 {
			dstH = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return buf.Bytes(), nil
}
