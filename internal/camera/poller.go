package camera

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// maxFrameSize caps a single snapshot read at 8 MiB.
const maxFrameSize = 8 << 20

// FrameProcessor consumes one camera frame.
type FrameProcessor interface {
	ProcessFrame(ctx context.Context, frame []byte) ([]domain.AccessDecision, error)
}

// Poller fetches snapshots from a camera URL on a fixed interval and
// feeds them to the pipeline. A failed fetch skips the frame; the next
// tick tries again.
type Poller struct {
	url       string
	interval  time.Duration
	processor FrameProcessor
	client    *http.Client
	logger    *slog.Logger
}

func NewPoller(url string, interval time.Duration, processor FrameProcessor, logger *slog.Logger) *Poller {
	return &Poller{
		url:       url,
		interval:  interval,
		processor: processor,
		client:    &http.Client{Timeout: 5 * time.Second},
		logger:    logger,
	}
}

// WithClient overrides the HTTP client.
func (p *Poller) WithClient(client *http.Client) *Poller {
	p.client = client
	return p
}

// Run polls the camera until the context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("camera poller started", "url", p.url, "interval", p.interval)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("camera poller stopped")
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	frame, err := p.fetchFrame(ctx)
	if err != nil {
		p.logger.Warn("camera snapshot failed", "error", err)
		return
	}

	if _, err := p.processor.ProcessFrame(ctx, frame); err != nil {
		p.logger.Warn("frame processing failed", "error", err)
	}
}

func (p *Poller) fetchFrame(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("camera returned status %d", resp.StatusCode)
	}

	frame, err := io.ReadAll(io.LimitReader(resp.Body, maxFrameSize))
	if err != nil {
		return nil, err
	}
	if len(frame) == 0 {
		return nil, fmt.Errorf("camera returned empty snapshot")
	}

	return frame, nil
}
