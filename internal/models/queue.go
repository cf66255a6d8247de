// internal/models/queue.go
package models

// DecisionState is the per-entry decision lifecycle. Entries start
// Pending and move to Accepted or Rejected exactly once; only an explicit
// reset returns them to Pending.
type DecisionState string

const (
	DecisionPending  DecisionState = "pending"
	DecisionAccepted DecisionState = "accepted"
	DecisionRejected DecisionState = "rejected"
)

// DecisionAction is the player's verdict on a candidate.
type DecisionAction string

const (
	ActionAccept DecisionAction = "accept"
	ActionReject DecisionAction = "reject"
)

// QueueEntry is one curated candidate in the session queue. Result is the
// curation-time evaluation used to mix difficulty; grading re-evaluates
// at decision time.
type QueueEntry struct {
	Candidate *CandidateProfile `json:"candidate"`
	Result    *MatchResult      `json:"result"`
	State     DecisionState     `json:"state"`
}

// Pending reports whether the entry still awaits a decision.
func (e *QueueEntry) Pending() bool {
	return e.State == DecisionPending
}

// ResetDecision returns the entry to Pending for a session retry.
func (e *QueueEntry) ResetDecision() {
	e.State = DecisionPending
}
