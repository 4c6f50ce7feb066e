package service

import (
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider"
)

// LivenessScorer assigns a liveness score to one detected face.
// Injectable so a real anti-spoofing model can replace the placeholder.
type LivenessScorer interface {
	Score(detected provider.DetectedFace) float64
}

// ConfidenceLiveness derives the liveness score from the detector's
// confidence, clamped to [0.1, 0.99]. A deterministic placeholder, not
// an anti-spoofing check.
type ConfidenceLiveness struct{}

func (ConfidenceLiveness) Score(detected provider.DetectedFace) float64 {
	score := detected.Confidence
	if score < 0.1 {
		return 0.1
	}
	if score > 0.99 {
		return 0.99
	}
	return score
}
