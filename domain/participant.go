// Package domain contains core concepts of the chat system.
// This file defines the unordered participant pair that identifies a conversation.
// No runtime, network, or UI logic should be added here.
package domain

// ParticipantPair is the canonical form of an unordered pair of user ids:
// Low sorts before (or equals) High, so {a, b} and {b, a} map to the same pair.
type ParticipantPair struct {
	Low  string
	High string
}

func NewParticipantPair(a, b string) ParticipantPair {
	if b < a {
		a, b = b, a
	}
	return ParticipantPair{Low: a, High: b}
}

// Contains reports whether userID is one of the two participants.
func (p ParticipantPair) Contains(userID string) bool {
	return p.Low == userID || p.High == userID
}

// Other returns the participant that is not userID.
func (p ParticipantPair) Other(userID string) string {
	if p.Low == userID {
		return p.High
	}
	return p.Low
}
