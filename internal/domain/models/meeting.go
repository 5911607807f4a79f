// internal/domain/models/meeting.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meeting statuses. Any status may be set from any other; the workflow does
// not validate transitions.
const (
	MeetingScheduled = "scheduled"
	MeetingCompleted = "completed"
	MeetingCancelled = "cancelled"
)

// Meeting is a supervision meeting the assigned supervisor schedules with a
// group. Only the group's assigned supervisor may create or modify it.
type Meeting struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Date         string             `bson:"date" json:"date"` // YYYY-MM-DD
	Time         string             `bson:"time" json:"time"` // HH:MM
	GroupID      primitive.ObjectID `bson:"group_id" json:"groupId"`
	SupervisorID primitive.ObjectID `bson:"supervisor_id" json:"supervisorId"`
	Link         string             `bson:"link,omitempty" json:"link,omitempty"`
	Status       string             `bson:"status" json:"status"` // scheduled | completed | cancelled

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
