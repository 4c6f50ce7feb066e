package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/events"
	"github.com/saturnino-fabrica-de-software/facegate/internal/face"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider"
)

const (
	// CountdownDuration is how long the subject has to get in position
	// before capture attempts begin.
	CountdownDuration = 3 * time.Second
	// CaptureTimeout bounds the whole session from start, wall-clock.
	CaptureTimeout = 15 * time.Second
)

const (
	// StatusSuccess and StatusFailed are the registration-status values
	// pushed to observers when a session ends.
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type sessionState int

const (
	stateIdle sessionState = iota
	stateCountdown
	stateCapturing
)

// EnrollmentStore persists a newly captured identity. The upsert keeps
// an existing record's access window; new names get the full-day default.
type EnrollmentStore interface {
	Put(ctx context.Context, identity *domain.Identity) error
}

// Registrar runs the enrollment workflow: countdown, capture, duplicate
// check, persist. At most one session is active at a time; starting a
// new one overwrites the old (last start wins, no queuing). All
// transitions are driven by Tick, one call per incoming frame; the
// countdown and timeout are measured against wall-clock time from the
// session start, not frame count.
type Registrar struct {
	mu      sync.Mutex
	store   EnrollmentStore
	gallery *GalleryCache
	guard   *DuplicateGuard
	sink    events.Sink
	logger  *slog.Logger
	clock   func() time.Time

	state       sessionState
	target      string
	startedAt   time.Time
	lastFailure string
}

func NewRegistrar(store EnrollmentStore, gallery *GalleryCache, sink events.Sink, logger *slog.Logger) *Registrar {
	return &Registrar{
		store:   store,
		gallery: gallery,
		guard:   NewDuplicateGuard(),
		sink:    sink,
		logger:  logger,
		clock:   time.Now,
		state:   stateIdle,
	}
}

// WithClock overrides the time source.
func (r *Registrar) WithClock(clock func() time.Time) *Registrar {
	r.clock = clock
	return r
}

// Start begins a session for name. An active session is overwritten.
func (r *Registrar) Start(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrInvalidRequest
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = stateCountdown
	r.target = name
	r.startedAt = r.clock()
	r.lastFailure = ""

	r.logger.Info("registration started", "name", name)
	return nil
}

// Active reports whether a session is in progress.
func (r *Registrar) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state != stateIdle
}

// Tick advances the session with one frame's detection results. A no-op
// while idle.
func (r *Registrar) Tick(ctx context.Context, frame []byte, faces []provider.DetectedFace) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case stateIdle:
	case stateCountdown:
		r.tickCountdown()
	case stateCapturing:
		r.tickCapture(ctx, frame, faces)
	}
}

func (r *Registrar) tickCountdown() {
	elapsed := r.clock().Sub(r.startedAt)
	if elapsed < CountdownDuration {
		remaining := int((CountdownDuration - elapsed + time.Second - 1) / time.Second)
		r.sink.RegistrationFeedback(fmt.Sprintf("Wait %d sec...", remaining))
		return
	}

	r.state = stateCapturing
	r.sink.RegistrationFeedback("Capturing...")
}

func (r *Registrar) tickCapture(ctx context.Context, frame []byte, faces []provider.DetectedFace) {
	if r.clock().Sub(r.startedAt) > CaptureTimeout {
		reason := r.lastFailure
		if reason == "" {
			reason = "no face captured"
		}
		r.fail("Timeout: " + reason)
		return
	}

	switch {
	case len(faces) == 0:
		r.retry("No face detected")
		return
	case len(faces) > 1:
		r.retry("Multiple faces detected")
		return
	}

	detected := faces[0]
	embedding := face.NormalizeEmbedding(detected.Embedding)

	// Check against a fresh snapshot so an identity enrolled moments
	// ago still blocks a second enrollment.
	if err := r.gallery.Refresh(ctx); err != nil {
		r.logger.Warn("gallery refresh before duplicate check failed", "error", err)
	}
	if name, dup := r.guard.FindDuplicate(embedding, r.gallery.Snapshot()); dup {
		r.fail(fmt.Sprintf("Already registered as %s", name))
		return
	}

	thumbnail, err := MakeThumbnail(frame, detected.BoundingBox)
	if err != nil {
		r.logger.Warn("thumbnail crop failed", "error", err)
		r.retry("Could not capture face image")
		return
	}

	r.sink.RegistrationFeedback("Captured! Storing in DB...")

	identity := &domain.Identity{
		Name:        r.target,
		Embedding:   embedding,
		Thumbnail:   thumbnail,
		AccessStart: domain.DefaultAccessStart,
		AccessEnd:   domain.DefaultAccessEnd,
	}
	if err := r.store.Put(ctx, identity); err != nil {
		r.logger.Error("enrollment persist failed", "name", r.target, "error", err)
		r.fail("Could not save identity")
		return
	}

	r.sink.RegistrationFeedback("Stored in DB")

	if err := r.gallery.Refresh(ctx); err != nil {
		r.logger.Warn("gallery refresh after enrollment failed", "error", err)
	}

	name := r.target
	r.reset()
	r.logger.Info("identity enrolled", "name", name)
	r.sink.RegistrationStatus(StatusSuccess, map[string]any{"name": name})
}

// retry records a non-fatal capture failure; the session continues until
// it succeeds or the timeout fires. The feedback keeps the "Capturing..."
// prefix so observers see the session is still live; lastFailure keeps
// the bare reason for the eventual timeout message.
func (r *Registrar) retry(message string) {
	r.lastFailure = message
	r.sink.RegistrationFeedback("Capturing... " + message)
}

// fail ends the session with a failure status.
func (r *Registrar) fail(message string) {
	name := r.target
	r.reset()
	r.logger.Info("registration failed", "name", name, "reason", message)
	r.sink.RegistrationStatus(StatusFailed, map[string]any{"name": name, "error": message})
}

func (r *Registrar) reset() {
	r.state = stateIdle
	r.target = ""
	r.startedAt = time.Time{}
	r.lastFailure = ""
}
