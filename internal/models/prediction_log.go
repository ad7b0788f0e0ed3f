package models

import "time"

// Label is the classification outcome for a message.
type Label string

const (
	LabelSpam Label = "Spam"
	LabelHam  Label = "Ham"
)

// Valid reports whether the label is one of the known outcomes.
func (l Label) Valid() bool {
	return l == LabelSpam || l == LabelHam
}

// PredictionLog represents a row in the 'prediction_logs' table.
type PredictionLog struct {
	ID         int64     `db:"id" json:"id"`
	Text       string    `db:"text" json:"text"`
	Prediction Label     `db:"prediction" json:"prediction"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
	Feedback   *string   `db:"user_feedback" json:"user_feedback"` // Nullable until the user corrects us
}

// Stats holds the dashboard aggregates derived from prediction_logs.
type Stats struct {
	TotalRequests int64            `json:"total_requests"`
	Distribution  map[Label]int64  `json:"distribution"`
	FeedbackStats map[string]int64 `json:"feedback_stats"`
}

// DailyCount is the per-date split of predictions for the history chart.
type DailyCount struct {
	Spam int64 `json:"Spam"`
	Ham  int64 `json:"Ham"`
}
