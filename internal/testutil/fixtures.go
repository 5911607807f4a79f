// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/bracu-research/thesishub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) createUser(ctx context.Context, name, email, role, code string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:            primitive.NewObjectID(),
		Name:          name,
		NameCI:        text.Fold(name),
		Email:         email,
		PasswordHash:  "$2a$10$fixturefixturefixturefixturefixturefixturefixturefi",
		Role:          role,
		StudentCode:   code,
		Notifications: []models.Notification{},
		IsSeen:        true,
		JoinRequests:  []models.Invite{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateStudent creates a test student with the given name and student code.
func (f *Fixtures) CreateStudent(ctx context.Context, name, code string) models.User {
	return f.createUser(ctx, name, code+"@test.edu", models.RoleStudent, code)
}

// CreateSupervisor creates a test supervisor.
func (f *Fixtures) CreateSupervisor(ctx context.Context, name, email string) models.User {
	return f.createUser(ctx, name, email, models.RoleSupervisor, "")
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	return f.createUser(ctx, name, email, models.RoleAdmin, "")
}

// CreateGroup creates a test group with the given admin as its first member.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, adminID primitive.ObjectID, interests ...string) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:                  primitive.NewObjectID(),
		Name:                name,
		NameCI:              text.Fold(name),
		AdminID:             adminID,
		MemberIDs:           []primitive.ObjectID{adminID},
		ResearchInterests:   interests,
		MaxMembers:          models.DefaultMaxMembers,
		PendingJoinRequests: []models.JoinRequest{},
		Status:              models.GroupForming,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// AssignSupervisorToGroup marks the group supervised by the given supervisor.
func (f *Fixtures) AssignSupervisorToGroup(ctx context.Context, groupID, supervisorID primitive.ObjectID) {
	f.t.Helper()

	_, err := f.db.Collection("groups").UpdateByID(ctx, groupID, map[string]any{
		"$set": map[string]any{
			"assigned_supervisor_id": supervisorID,
			"status":                 models.GroupSupervised,
		},
	})
	if err != nil {
		f.t.Fatalf("failed to assign supervisor: %v", err)
	}
}

// CreateProposal creates a Pending test proposal.
func (f *Fixtures) CreateProposal(ctx context.Context, title string, groupID, adminID, supervisorID primitive.ObjectID) models.Proposal {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Proposal{
		ID:           primitive.NewObjectID(),
		Title:        title,
		Abstract:     "A test abstract.",
		Domain:       "testing",
		SupervisorID: supervisorID,
		StudentID:    adminID,
		GroupID:      groupID,
		Status:       models.ProposalPending,
		Feedback:     []models.FeedbackEntry{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("proposals").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test proposal: %v", err)
	}
	return p
}

// CreateMeeting creates a scheduled test meeting.
func (f *Fixtures) CreateMeeting(ctx context.Context, title string, groupID, supervisorID primitive.ObjectID) models.Meeting {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Meeting{
		ID:           primitive.NewObjectID(),
		Title:        title,
		Date:         "2026-10-01",
		Time:         "14:00",
		GroupID:      groupID,
		SupervisorID: supervisorID,
		Status:       models.MeetingScheduled,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("meetings").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test meeting: %v", err)
	}
	return m
}
