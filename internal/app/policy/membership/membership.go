// internal/app/policy/membership/membership.go

// Package membership holds the predicates every membership path (direct
// join, invite-accept, request-accept) must re-check. Keeping them here, as
// named functions, means the three paths cannot drift apart.
package membership

import (
	"context"
	"errors"

	"github.com/bracu-research/thesishub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Sentinel errors map 1:1 onto API conflict responses.
var (
	ErrAlreadyInGroup = errors.New("student already belongs to a group")
	ErrAlreadyMember  = errors.New("student is already a member of this group")
	ErrGroupFull      = errors.New("group is full")
	ErrGroupAdmin     = errors.New("student is the admin of a group")
)

// InAnyGroup reports whether the student appears as admin or member of any
// group. The admin is always present in member_ids, so one query covers both.
func InAnyGroup(ctx context.Context, db *mongo.Database, studentID primitive.ObjectID) (bool, error) {
	n, err := db.Collection("groups").CountDocuments(ctx, bson.M{"member_ids": studentID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsGroupAdmin reports whether the student created any group.
func IsGroupAdmin(ctx context.Context, db *mongo.Database, studentID primitive.ObjectID) (bool, error) {
	n, err := db.Collection("groups").CountDocuments(ctx, bson.M{"admin_id": studentID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CanJoin checks every precondition for adding studentID to group. It returns
// one of the sentinel errors above, or a database error. This is a
// check-then-act guard; the unique member_ids index backstops the race.
func CanJoin(ctx context.Context, db *mongo.Database, group models.Group, studentID primitive.ObjectID) error {
	if group.AdminID == studentID {
		return ErrGroupAdmin
	}
	if group.HasMember(studentID) {
		return ErrAlreadyMember
	}
	if group.IsFull() {
		return ErrGroupFull
	}
	inGroup, err := InAnyGroup(ctx, db, studentID)
	if err != nil {
		return err
	}
	if inGroup {
		return ErrAlreadyInGroup
	}
	return nil
}

// CanCreate checks whether the student may create a new group: they must not
// be admin or member of any existing group.
func CanCreate(ctx context.Context, db *mongo.Database, studentID primitive.ObjectID) error {
	inGroup, err := InAnyGroup(ctx, db, studentID)
	if err != nil {
		return err
	}
	if inGroup {
		return ErrAlreadyInGroup
	}
	return nil
}
