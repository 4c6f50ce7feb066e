package stream

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const (
	mjpegBoundary = "frame"
	mjpegInterval = 33 * time.Millisecond
)

// MJPEGHandler serves the latest annotated frame as a
// multipart/x-mixed-replace MJPEG stream, re-sending the current frame
// at roughly 30 fps until the client disconnects.
func MJPEGHandler(buffer *Buffer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "multipart/x-mixed-replace; boundary="+mjpegBoundary)
		c.Set(fiber.HeaderCacheControl, "no-cache")

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			ticker := time.NewTicker(mjpegInterval)
			defer ticker.Stop()

			for range ticker.C {
				frame, _ := buffer.Latest()
				if frame == nil {
					continue
				}

				if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", mjpegBoundary, len(frame)); err != nil {
					return
				}
				if _, err := w.Write(frame); err != nil {
					return
				}
				if _, err := w.Write([]byte("\r\n")); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}))

		return nil
	}
}
