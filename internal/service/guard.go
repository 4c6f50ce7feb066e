package service

import (
	"github.com/saturnino-fabrica-de-software/facegate/internal/face"
)

// DuplicateThreshold is the minimum cosine similarity at which an
// enrollment candidate is treated as an already-known identity. Stricter
// than recognition: silently merging two people under different names is
// worse than a missed match at the gate.
const DuplicateThreshold = 0.55

// DuplicateGuard blocks enrolling a face that already exists in the
// gallery under another name.
type DuplicateGuard struct {
	threshold float64
}

func NewDuplicateGuard() *DuplicateGuard {
	return &DuplicateGuard{threshold: DuplicateThreshold}
}

func (g *DuplicateGuard) WithThreshold(threshold float64) *DuplicateGuard {
	g.threshold = threshold
	return g
}

// FindDuplicate scans the gallery and reports the first entry whose
// similarity to embedding exceeds the threshold. The scan short-circuits
// on the first hit; the global maximum is not needed.
func (g *DuplicateGuard) FindDuplicate(embedding []float64, gallery *Gallery) (string, bool) {
	for name, identity := range gallery.identities {
		if face.CosineSimilarity(embedding, identity.Embedding) > g.threshold {
			return name, true
		}
	}
	return "", false
}
