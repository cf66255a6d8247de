// internal/models/quest.go
package models

// Quest is one client engagement: the criteria to match against and how
// its session queue is shaped.
type Quest struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Criteria       *MatchCriteria `json:"criteria"`
	QueueSize      int            `json:"queueSize"`
	MinGoodMatches int            `json:"minGoodMatches"`
	PassAccuracy   float64        `json:"passAccuracy"`
}

// QuestLine is an ordered run of quests played back to back.
type QuestLine struct {
	Name   string   `json:"name"`
	Quests []*Quest `json:"quests"`
}
