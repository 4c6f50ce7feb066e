package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider"
)

// fakeStore is an in-memory embedding store used across the service
// tests. Put mirrors the real upsert: a re-save keeps the existing
// access window.
type fakeStore struct {
	mu         sync.Mutex
	identities map[string]domain.Identity
	putCalls   int
	getAllErr  error
	putErr     error
}

func newFakeStore(identities ...domain.Identity) *fakeStore {
	m := make(map[string]domain.Identity)
	for _, identity := range identities {
		m[identity.Name] = identity
	}
	return &fakeStore{identities: m}
}

func (s *fakeStore) GetAll(_ context.Context) ([]domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getAllErr != nil {
		return nil, s.getAllErr
	}
	out := make([]domain.Identity, 0, len(s.identities))
	for _, identity := range s.identities {
		out = append(out, identity)
	}
	return out, nil
}

func (s *fakeStore) Put(_ context.Context, identity *domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.putCalls++
	if s.putErr != nil {
		return s.putErr
	}

	stored := *identity
	if existing, ok := s.identities[identity.Name]; ok {
		stored.AccessStart = existing.AccessStart
		stored.AccessEnd = existing.AccessEnd
	}
	s.identities[identity.Name] = stored
	return nil
}

type statusEvent struct {
	status  string
	payload map[string]any
}

// captureSink records every notification for assertions.
type captureSink struct {
	mu        sync.Mutex
	decisions []domain.AccessDecision
	feedback  []string
	statuses  []statusEvent
}

func (s *captureSink) Decision(decision domain.AccessDecision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions = append(s.decisions, decision)
}

func (s *captureSink) RegistrationFeedback(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, message)
}

func (s *captureSink) RegistrationStatus(status string, payload map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, statusEvent{status: status, payload: payload})
}

// stubDetector returns preset detections regardless of the frame.
type stubDetector struct {
	faces []provider.DetectedFace
	err   error
}

func (d *stubDetector) DetectFaces(_ context.Context, _ []byte) ([]provider.DetectedFace, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.faces, nil
}

// unit returns a dim-dimensional unit vector along axis.
func unit(dim, axis int) []float64 {
	v := make([]float64, dim)
	v[axis] = 1.0
	return v
}

func testIdentity(name string, embedding []float64, window domain.AccessWindow) domain.Identity {
	return domain.Identity{
		Name:        name,
		Embedding:   embedding,
		AccessStart: window.Start,
		AccessEnd:   window.End,
	}
}

// testFrame encodes a solid 640x480 JPEG frame.
func testFrame(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 80, B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testGallery(t *testing.T, store *fakeStore) *GalleryCache {
	t.Helper()

	cache := NewGalleryCache(store, testLogger())
	require.NoError(t, cache.Refresh(context.Background()))
	return cache
}
