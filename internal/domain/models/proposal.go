// internal/domain/models/proposal.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Proposal statuses. The capitalized spellings are part of the public API.
const (
	ProposalPending  = "Pending"
	ProposalApproved = "Approved"
	ProposalRejected = "Rejected"
)

// Proposal is a thesis proposal a group admin submits to one supervisor.
// A group may have several Pending proposals out to different supervisors;
// approving one deletes the siblings.
type Proposal struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Abstract     string             `bson:"abstract" json:"abstract"`
	Domain       string             `bson:"domain" json:"domain"`
	SupervisorID primitive.ObjectID `bson:"supervisor_id" json:"supervisorId"`
	StudentID    primitive.ObjectID `bson:"student_id" json:"studentId"`
	GroupID      primitive.ObjectID `bson:"group_id" json:"groupId"`

	Status             string `bson:"status" json:"status"` // Pending | Approved | Rejected
	AdminApproved      bool   `bson:"admin_approved" json:"adminApproved"`
	SupervisorApproved bool   `bson:"supervisor_approved" json:"supervisorApproved"`

	Feedback []FeedbackEntry `bson:"feedback" json:"feedback"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// FeedbackEntry is one timestamped feedback note from the supervisor.
type FeedbackEntry struct {
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
