package service

import (
	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/face"
)

// RecognitionThreshold is the minimum cosine similarity for a face to be
// attributed to an enrolled identity.
const RecognitionThreshold = 0.45

// Matcher scores a detected face against the gallery and names the best
// match, or Unknown when nobody clears the threshold.
type Matcher struct {
	threshold float64
}

func NewMatcher() *Matcher {
	return &Matcher{threshold: RecognitionThreshold}
}

func (m *Matcher) WithThreshold(threshold float64) *Matcher {
	m.threshold = threshold
	return m
}

// Match compares embedding against every gallery entry and returns the
// best-scoring identity above the threshold. Below the threshold the
// reported score is zero, not the raw maximum, so observers never see
// sub-threshold similarity. Pure function of its inputs.
func (m *Matcher) Match(embedding []float64, gallery *Gallery) domain.MatchResult {
	bestScore := -1.0
	bestName := ""

	for name, identity := range gallery.identities {
		score := face.CosineSimilarity(embedding, identity.Embedding)
		if score > bestScore {
			bestScore = score
			bestName = name
		}
	}

	if bestName == "" || bestScore < m.threshold {
		return domain.NoMatch()
	}

	return domain.MatchResult{Name: bestName, Score: bestScore, Confident: true}
}
