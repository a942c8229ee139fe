package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_ForwardChain(t *testing.T) {
	assert.True(t, CanTransition(StatusApplied, StatusTestScheduled))
	assert.True(t, CanTransition(StatusTestScheduled, StatusInterviewScheduled))
	assert.True(t, CanTransition(StatusInterviewScheduled, StatusSelected))

	// stages may be skipped when a job has no test or interview round
	assert.True(t, CanTransition(StatusApplied, StatusInterviewScheduled))
	assert.True(t, CanTransition(StatusApplied, StatusSelected))
	assert.True(t, CanTransition(StatusTestScheduled, StatusSelected))
}

func TestCanTransition_NoBackwardMoves(t *testing.T) {
	assert.False(t, CanTransition(StatusSelected, StatusApplied))
	assert.False(t, CanTransition(StatusInterviewScheduled, StatusTestScheduled))
	assert.False(t, CanTransition(StatusTestScheduled, StatusApplied))
}

func TestCanTransition_RejectedFromAnyNonTerminal(t *testing.T) {
	for _, from := range []string{StatusApplied, StatusTestScheduled, StatusInterviewScheduled, StatusSelected} {
		assert.True(t, CanTransition(from, StatusRejected), "from %s", from)
	}
}

func TestCanTransition_OfferEdgesReservedForStudent(t *testing.T) {
	assert.False(t, CanTransition(StatusSelected, StatusOfferAccepted))
	assert.False(t, CanTransition(StatusSelected, StatusOfferRejected))
	assert.False(t, CanTransition(StatusApplied, StatusOfferAccepted))
}

func TestCanTransition_TerminalStatesAreDeadEnds(t *testing.T) {
	for _, from := range []string{StatusOfferAccepted, StatusOfferRejected, StatusRejected} {
		for _, to := range []string{StatusApplied, StatusTestScheduled, StatusInterviewScheduled, StatusSelected, StatusRejected} {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(StatusOfferAccepted))
	assert.True(t, IsTerminalStatus(StatusOfferRejected))
	assert.True(t, IsTerminalStatus(StatusRejected))
	assert.False(t, IsTerminalStatus(StatusApplied))
	assert.False(t, IsTerminalStatus(StatusSelected))
}

func TestValidRoundStatus(t *testing.T) {
	assert.True(t, ValidRoundStatus(RoundPending))
	assert.True(t, ValidRoundStatus(RoundCleared))
	assert.True(t, ValidRoundStatus(RoundFailed))
	assert.False(t, ValidRoundStatus("Done"))
}
