package mock

import (
	"context"
	"crypto/sha256"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider"
)

const embeddingDimension = 512

// Detector implementa provider.FaceDetector para testes e desenvolvimento.
// It reports a single centered face per frame with an embedding derived
// deterministically from the frame bytes, so the same frame always maps
// to the same identity.
type Detector struct{}

// New cria uma nova instância do mock detector
func New() *Detector {
	return &Detector{}
}

// DetectFaces simulates detection: one face per frame, deterministic embedding
func (d *Detector) DetectFaces(ctx context.Context, frame []byte) ([]provider.DetectedFace, error) {
	if len(frame) == 0 {
		return nil, domain.ErrInvalidImage
	}

	return []provider.DetectedFace{
		{
			BoundingBox: provider.BoundingBox{X1: 120, Y1: 80, X2: 360, Y2: 380},
			Embedding:   GenerateEmbedding(frame),
			Confidence:  0.99,
		},
	}, nil
}

// GenerateEmbedding derives a raw (unnormalized) embedding from the hash
// of the frame bytes. Exported so tests can predict what the detector
// will report for a given frame.
func GenerateEmbedding(frame []byte) []float64 {
	hash := sha256.Sum256(frame)
	embedding := make([]float64, embeddingDimension)
	hashLen := len(hash)

	for i := 0; i < embeddingDimension; i++ {
		idx := i % hashLen
		embedding[i] = (float64(hash[idx])/255.0)*2 - 1
	}

	return embedding
}

var _ provider.FaceDetector = (*Detector)(nil)
