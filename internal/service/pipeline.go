package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/events"
	"github.com/saturnino-fabrica-de-software/facegate/internal/face"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider"
)

// DefaultZone labels decisions from a deployment with a single camera.
const DefaultZone = "Main Gate"

// AnnotatedFace is one detected face with its display label, handed to
// the frame sink for rendering.
type AnnotatedFace struct {
	Box   provider.BoundingBox
	Label string
	Known bool
}

// FrameSink receives each processed frame with its annotations, for the
// live preview stream. Must not block.
type FrameSink interface {
	Publish(frame []byte, faces []AnnotatedFace)
}

// Pipeline drives one frame through detection and then either the
// registration session or the recognition path. Frames from the camera
// poller and from client uploads both land here; processing is
// serialized because the session and the gallery snapshot are shared
// mutable state.
type Pipeline struct {
	mu        sync.Mutex
	detector  provider.FaceDetector
	gallery   *GalleryCache
	matcher   *Matcher
	policy    *AccessPolicy
	registrar *Registrar
	liveness  LivenessScorer
	bus       *events.Bus
	frames    FrameSink
	zone      string
	logger    *slog.Logger
	clock     func() time.Time
}

func NewPipeline(detector provider.FaceDetector, gallery *GalleryCache, registrar *Registrar, bus *events.Bus, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		detector:  detector,
		gallery:   gallery,
		matcher:   NewMatcher(),
		policy:    NewAccessPolicy(),
		registrar: registrar,
		liveness:  ConfidenceLiveness{},
		bus:       bus,
		zone:      DefaultZone,
		logger:    logger,
		clock:     time.Now,
	}
}

func (p *Pipeline) WithZone(zone string) *Pipeline {
	p.zone = zone
	return p
}

func (p *Pipeline) WithFrameSink(frames FrameSink) *Pipeline {
	p.frames = frames
	return p
}

func (p *Pipeline) WithLiveness(liveness LivenessScorer) *Pipeline {
	p.liveness = liveness
	return p
}

func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	return p
}

// ProcessFrame runs detection once, publishes one access decision per
// detected face, and feeds the registration session if one is active.
// Recognition keeps running during registration so the preview and the
// event feed stay live; the session tick alone decides the enrollment
// outcome. Returns the decisions published for this frame.
func (p *Pipeline) ProcessFrame(ctx context.Context, frame []byte) ([]domain.AccessDecision, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	faces, err := p.detector.DetectFaces(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	snapshot := p.gallery.Snapshot()
	now := domain.ClockOf(p.clock())
	registering := p.registrar.Active()

	annotated := make([]AnnotatedFace, 0, len(faces))
	var decisions []domain.AccessDecision

	for _, detected := range faces {
		embedding := face.NormalizeEmbedding(detected.Embedding)
		match := p.matcher.Match(embedding, snapshot)
		status := p.policy.Decide(match, snapshot, now)

		annotated = append(annotated, AnnotatedFace{
			Box:   detected.BoundingBox,
			Label: fmt.Sprintf("%s (%.2f)", match.Name, match.Score),
			Known: match.Confident,
		})

		decision := domain.AccessDecision{
			Name:          match.Name,
			Similarity:    match.Score,
			LivenessScore: p.liveness.Score(detected),
			Status:        status,
			Zone:          p.zone,
		}
		decisions = append(decisions, p.bus.Publish(decision))
	}

	if registering {
		p.registrar.Tick(ctx, frame, faces)
	}

	if p.frames != nil {
		p.frames.Publish(frame, annotated)
	}

	return decisions, nil
}
