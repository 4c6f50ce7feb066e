package service

import (
	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// AccessPolicy turns a match result and the current time-of-day into an
// access status.
type AccessPolicy struct{}

func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// Decide returns UNKNOWN for unmatched faces, VERIFIED when now falls
// inside the matched identity's access window (inclusive both ends),
// and DENIED otherwise. now is a zero-padded "HH:MM" string. An
// inverted window (start > end) is never satisfied; windows are
// same-day only. Pure function, no side effects.
func (p *AccessPolicy) Decide(match domain.MatchResult, gallery *Gallery, now string) domain.AccessStatus {
	if !match.Confident || match.Name == domain.UnknownIdentity {
		return domain.StatusUnknown
	}

	identity, ok := gallery.Get(match.Name)
	if !ok {
		return domain.StatusUnknown
	}

	if identity.Window().Contains(now) {
		return domain.StatusVerified
	}

	return domain.StatusDenied
}
