// internal/models/decision.go
package models

import "time"

// DecisionOutcome classifies a decision against ground truth.
type DecisionOutcome string

const (
	OutcomeTruePositive  DecisionOutcome = "true_positive"
	OutcomeTrueNegative  DecisionOutcome = "true_negative"
	OutcomeFalsePositive DecisionOutcome = "false_positive"
	OutcomeFalseNegative DecisionOutcome = "false_negative"
)

// Correct reports whether the player's call agreed with ground truth.
func (o DecisionOutcome) Correct() bool {
	return o == OutcomeTruePositive || o == OutcomeTrueNegative
}

// ClassifyDecision maps (action, ground truth) onto the confusion matrix.
func ClassifyDecision(action DecisionAction, wasMatch bool) DecisionOutcome {
	if action == ActionAccept {
		if wasMatch {
			return OutcomeTruePositive
		}
		return OutcomeFalsePositive
	}
	if wasMatch {
		return OutcomeFalseNegative
	}
	return OutcomeTrueNegative
}

// DecisionRecord is one immutable line of the session decision log.
type DecisionRecord struct {
	ID            string          `json:"id"`
	CandidateID   string          `json:"candidateId"`
	CandidateName string          `json:"candidateName"`
	Action        DecisionAction  `json:"action"`
	WasMatch      bool            `json:"wasMatch"`
	Correct       bool            `json:"correct"`
	Outcome       DecisionOutcome `json:"outcome"`
	Score         float64         `json:"score"`
	FailureReason FailureReason   `json:"failureReason,omitempty"`
	DecidedAt     time.Time       `json:"decidedAt"`
}

// SessionStats is the confusion matrix plus derived accuracy for one
// session.
type SessionStats struct {
	TruePositives  int     `json:"truePositives"`
	TrueNegatives  int     `json:"trueNegatives"`
	FalsePositives int     `json:"falsePositives"`
	FalseNegatives int     `json:"falseNegatives"`
	Total          int     `json:"total"`
	Accuracy       float64 `json:"accuracy"`
	Complete       bool    `json:"complete"`
}
