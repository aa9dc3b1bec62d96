package models

import (
	"encoding/json"
	"time"
)

// Result is one materialized outcome of tossing a draw.
// Value holds the JSON outcome; it is nil while a scheduled toss is pending.
type Result struct {
	ID           string          `bson:"_id" json:"id"`
	DrawID       string          `bson:"drawId" json:"draw_id"`
	Value        json.RawMessage `bson:"value" json:"value"`
	ScheduleDate *time.Time      `bson:"scheduleDate,omitempty" json:"schedule_date,omitempty"`
	CreatedAt    time.Time       `bson:"createdAt" json:"created_at"`
}

// Pending reports whether the result is still waiting for its outcome
func (r *Result) Pending() bool {
	return r.Value == nil
}

// Due reports whether a pending scheduled result may be resolved at now
func (r *Result) Due(now time.Time) bool {
	return r.Pending() && r.ScheduleDate != nil && !r.ScheduleDate.After(now)
}

// LastUsage is the latest moment the result touched its draw
func (r *Result) LastUsage() time.Time {
	if r.ScheduleDate != nil && r.ScheduleDate.After(r.CreatedAt) {
		return *r.ScheduleDate
	}
	return r.CreatedAt
}
