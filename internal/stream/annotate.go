package stream

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"log/slog"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/saturnino-fabrica-de-software/facegate/internal/service"
)

const annotationQuality = 80

var (
	knownColor   = color.RGBA{R: 0, G: 200, B: 60, A: 255}
	unknownColor = color.RGBA{R: 220, G: 40, B: 40, A: 255}
)

// Annotator draws bounding boxes and name labels on each processed frame
// and stores the result in the preview buffer. It is the pipeline's
// frame sink.
type Annotator struct {
	buffer *Buffer
	logger *slog.Logger
}

func NewAnnotator(buffer *Buffer, logger *slog.Logger) *Annotator {
	return &Annotator{buffer: buffer, logger: logger}
}

// Publish renders the annotations onto a copy of the frame. Frames with
// no detections pass through unchanged; undecodable frames are dropped.
func (a *Annotator) Publish(frame []byte, faces []service.AnnotatedFace) {
	if len(faces) == 0 {
		a.buffer.Set(frame)
		return
	}

	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		a.logger.Warn("annotation decode failed", "error", err)
		return
	}

	canvas := image.NewRGBA(img.Bounds())
	draw.Draw(canvas, canvas.Bounds(), img, img.Bounds().Min, draw.Src)

	for _, detected := range faces {
		boxColor := unknownColor
		if detected.Known {
			boxColor = knownColor
		}

		rect := image.Rect(detected.Box.X1, detected.Box.Y1, detected.Box.X2, detected.Box.Y2)
		drawRect(canvas, rect.Intersect(canvas.Bounds()), boxColor)
		drawLabel(canvas, detected.Label, detected.Box.X1, detected.Box.Y1-6, boxColor)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: annotationQuality}); err != nil {
		a.logger.Warn("annotation encode failed", "error", err)
		return
	}

	a.buffer.Set(buf.Bytes())
}

// drawRect draws a 2px rectangle outline.
func drawRect(canvas *image.RGBA, rect image.Rectangle, c color.Color) {
	for t := 0; t < 2; t++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			canvas.Set(x, rect.Min.Y+t, c)
			canvas.Set(x, rect.Max.Y-1-t, c)
		}
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			canvas.Set(rect.Min.X+t, y, c)
			canvas.Set(rect.Max.X-1-t, y, c)
		}
	}
}

func drawLabel(canvas *image.RGBA, label string, x, y int, c color.Color) {
	if y < basicfont.Face7x13.Height {
		y = basicfont.Face7x13.Height
	}

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(label)
}
