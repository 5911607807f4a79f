// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user account can hold.
const (
	RoleStudent    = "student"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

// User represents students, supervisors, and admins.
//
// NOTE:
//   - Notifications, invites, and bookmarks are embedded on the user
//     document; they are small, owned by the user, and always read together
//     with the profile.
//   - Group membership lives on the group document (member_ids); a unique
//     multikey index on that field enforces the one-group-per-student rule.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"` // student | supervisor | admin
	PhotoURL     string             `bson:"photo_url,omitempty" json:"photoUrl,omitempty"`

	// StudentCode is the university-issued student ID (students only).
	StudentCode string `bson:"student_code,omitempty" json:"studentCode,omitempty"`

	Department        string   `bson:"department,omitempty" json:"department,omitempty"`
	Phone             string   `bson:"phone,omitempty" json:"phone,omitempty"`
	CGPA              float64  `bson:"cgpa,omitempty" json:"cgpa,omitempty"`
	Credits           int      `bson:"credits,omitempty" json:"credits,omitempty"`
	ResearchInterests []string `bson:"research_interests,omitempty" json:"researchInterests,omitempty"`

	// AssignedSupervisorID is set on students once their group's proposal is
	// approved (or an admin assigns them directly). The reverse edge is
	// StudentIDs on the supervisor document; both are updated together.
	AssignedSupervisorID *primitive.ObjectID  `bson:"assigned_supervisor_id,omitempty" json:"assignedSupervisorId,omitempty"`
	StudentIDs           []primitive.ObjectID `bson:"student_ids,omitempty" json:"studentIds,omitempty"`

	Notifications []Notification `bson:"notifications" json:"notifications"`
	IsSeen        bool           `bson:"is_seen" json:"isSeen"`

	// JoinRequests holds pending group invites addressed to this student.
	JoinRequests []Invite `bson:"join_requests" json:"joinRequests"`

	Bookmarks []Bookmark `bson:"bookmarks,omitempty" json:"bookmarks,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Notification is one entry in a user's inbox.
type Notification struct {
	Message string    `bson:"message" json:"message"`
	Date    time.Time `bson:"date" json:"date"`
	Link    string    `bson:"link,omitempty" json:"link,omitempty"`
}

// Invite is an admin-initiated offer to join a group, stored on the invited
// student's document until the student accepts or rejects it.
type Invite struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	GroupID   primitive.ObjectID `bson:"group_id" json:"groupId"`
	GroupName string             `bson:"group_name" json:"groupName"`
	AdminID   primitive.ObjectID `bson:"admin_id" json:"adminId"`
	Date      time.Time          `bson:"date" json:"date"`
}

// Bookmark is a saved reference to an external paper.
type Bookmark struct {
	PaperID string    `bson:"paper_id" json:"paperId"`
	Title   string    `bson:"title" json:"title"`
	Link    string    `bson:"link,omitempty" json:"link,omitempty"`
	SavedAt time.Time `bson:"saved_at" json:"savedAt"`
}
