// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group lifecycle states.
const (
	GroupForming    = "forming"
	GroupFull       = "full"
	GroupSupervised = "supervised"
)

// DefaultMaxMembers is the group capacity used when config does not override it.
const DefaultMaxMembers = 5

// Group is a thesis group created by one student (the admin).
//
// NOTE:
//   - MemberIDs always contains the admin. A unique multikey index on
//     member_ids guarantees a student appears in at most one group, so
//     racing joins fail with a duplicate-key error instead of corrupting
//     state.
//   - PendingJoinRequests holds student-initiated requests awaiting the
//     admin's decision; admin-initiated invites live on the student document.
type Group struct {
	ID                   primitive.ObjectID   `bson:"_id" json:"id"`
	Name                 string               `bson:"name" json:"name"`
	NameCI               string               `bson:"name_ci" json:"-"`
	AdminID              primitive.ObjectID   `bson:"admin_id" json:"adminId"`
	MemberIDs            []primitive.ObjectID `bson:"member_ids" json:"memberIds"`
	ResearchInterests    []string             `bson:"research_interests" json:"researchInterests"`
	AssignedSupervisorID *primitive.ObjectID  `bson:"assigned_supervisor_id,omitempty" json:"assignedSupervisorId,omitempty"`
	ProposalsSubmittedTo []primitive.ObjectID `bson:"proposals_submitted_to,omitempty" json:"proposalsSubmittedTo,omitempty"`
	MaxMembers           int                  `bson:"max_members" json:"maxMembers"`
	PendingJoinRequests  []JoinRequest        `bson:"pending_join_requests" json:"pendingJoinRequests"`
	Status               string               `bson:"status" json:"status"` // forming | full | supervised

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// JoinRequest is a student-initiated request to join a group, stored on the
// group document until the group admin accepts or rejects it.
type JoinRequest struct {
	StudentID primitive.ObjectID `bson:"student_id" json:"studentId"`
	Date      time.Time          `bson:"date" json:"date"`
}

// IsFull reports whether the group is at capacity.
func (g Group) IsFull() bool {
	return len(g.MemberIDs) >= g.MaxMembers
}

// HasMember reports whether the given student is the admin or a member.
func (g Group) HasMember(id primitive.ObjectID) bool {
	for _, m := range g.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}
