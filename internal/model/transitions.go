package model

// recruiterTransitions is the transition table for recruiter/TPO driven
// status changes. A status missing from the map is terminal. The
// Selected -> Offer Accepted/Offer Rejected edges are deliberately absent:
// only the owning student moves those, through the respond endpoint.
var recruiterTransitions = map[string][]string{
	StatusApplied:            {StatusTestScheduled, StatusInterviewScheduled, StatusSelected, StatusRejected},
	StatusTestScheduled:      {StatusInterviewScheduled, StatusSelected, StatusRejected},
	StatusInterviewScheduled: {StatusSelected, StatusRejected},
	StatusSelected:           {StatusRejected},
}

// CanTransition reports whether a recruiter or TPO may move an application
// from one status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range recruiterTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether no further transition can leave the status.
func IsTerminalStatus(status string) bool {
	return status == StatusOfferAccepted || status == StatusOfferRejected || status == StatusRejected
}

// ValidRoundStatus reports whether s is a recognised per-round outcome.
func ValidRoundStatus(s string) bool {
	return s == RoundPending || s == RoundCleared || s == RoundFailed
}
