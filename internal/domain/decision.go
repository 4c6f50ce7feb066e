package domain

import "time"

// UnknownIdentity is the name reported when no gallery entry clears the
// recognition threshold.
const UnknownIdentity = "Unknown"

// AccessStatus is the outcome of the access policy for one matched face.
type AccessStatus string

const (
	StatusVerified AccessStatus = "VERIFIED"
	StatusDenied   AccessStatus = "DENIED"
	StatusUnknown  AccessStatus = "UNKNOWN"
)

// MatchResult is the outcome of scoring one detected face against the
// gallery. Score is clamped to 0.0 when Confident is false so observers
// never see sub-threshold similarity.
type MatchResult struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Confident bool    `json:"confident"`
}

// NoMatch is the result reported for faces nobody in the gallery claims.
func NoMatch() MatchResult {
	return MatchResult{Name: UnknownIdentity, Score: 0.0, Confident: false}
}

// AccessDecision is one access-control verdict for one detected face in
// one frame. Immutable after creation; appended to the event log and
// pushed to connected observers.
type AccessDecision struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Similarity    float64      `json:"similarity_score"`
	LivenessScore float64      `json:"liveness_score"`
	Status        AccessStatus `json:"status"`
	Zone          string       `json:"zone"`
	Timestamp     time.Time    `json:"timestamp"`
}
