package deepface

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"

	"github.com/saturnino-fabrica-de-software/facegate/internal/provider"
)

const (
	// minFaceArea is the minimum face area (in pixels²) for reliable detection
	minFaceArea = 2500 // 50x50 pixels
	// maxFaceArea is used for confidence scaling
	maxFaceArea = 250000 // 500x500 pixels
)

// Provider implements provider.FaceDetector using the DeepFace API.
// One /represent call yields both the facial areas and the embedding
// vectors, so each frame costs a single round trip.
type Provider struct {
	client *Client
}

// NewProvider creates a new DeepFace provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// DetectFaces detects faces in the frame and extracts their embeddings
func (p *Provider) DetectFaces(ctx context.Context, frame []byte) ([]provider.DetectedFace, error) {
	frameBase64 := base64.StdEncoding.EncodeToString(frame)

	resp, err := p.client.Represent(ctx, frameBase64)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	faces := make([]provider.DetectedFace, 0, len(resp.Results))
	for _, result := range resp.Results {
		confidence := result.FaceConfidence
		if confidence == 0 {
			// Older DeepFace builds omit face_confidence; estimate from
			// face area (larger faces = more reliable detection)
			area := float64(result.FacialArea.W * result.FacialArea.H)
			confidence = estimateConfidence(area)
		}

		faces = append(faces, provider.DetectedFace{
			BoundingBox: provider.BoundingBox{
				X1: result.FacialArea.X,
				Y1: result.FacialArea.Y,
				X2: result.FacialArea.X + result.FacialArea.W,
				Y2: result.FacialArea.Y + result.FacialArea.H,
			},
			Embedding:  result.Embedding,
			Confidence: confidence,
		})
	}

	return faces, nil
}

// estimateConfidence estimates detection confidence based on face area
func estimateConfidence(faceArea float64) float64 {
	if faceArea < minFaceArea {
		return 0.5 // Low confidence for very small faces
	}
	// Scale from 0.7 to 0.99 based on face area
	normalized := math.Min(1.0, (faceArea-minFaceArea)/(maxFaceArea-minFaceArea))
	return 0.7 + (normalized * 0.29)
}

var _ provider.FaceDetector = (*Provider)(nil)
