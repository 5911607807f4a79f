// internal/app/store/users/invites.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/bracu-research/thesishub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrInviteNotFound is returned when the invite id does not exist on the
// student's document, typically because it was already acted on.
var ErrInviteNotFound = errors.New("invite not found")

// AddInvite appends a group invite to the student's pending list, skipping
// the write when an invite from the same group is already pending.
func (s *Store) AddInvite(ctx context.Context, studentID primitive.ObjectID, inv models.Invite) (models.Invite, error) {
	inv.ID = primitive.NewObjectID()
	inv.Date = time.Now().UTC()

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": studentID, "join_requests.group_id": bson.M{"$ne": inv.GroupID}},
		bson.M{"$push": bson.M{"join_requests": inv}},
	)
	if err != nil {
		return models.Invite{}, err
	}
	if res.MatchedCount == 0 {
		// Either the student does not exist or an invite from this group is
		// already pending; disambiguate for the caller.
		if err := s.c.FindOne(ctx, bson.M{"_id": studentID}).Err(); err != nil {
			return models.Invite{}, err
		}
		return models.Invite{}, ErrDuplicateInvite
	}
	return inv, nil
}

// ErrDuplicateInvite is returned when the student already holds a pending
// invite from the same group.
var ErrDuplicateInvite = errors.New("an invite from this group is already pending")

// FindInvite returns the pending invite by id without removing it.
func (s *Store) FindInvite(ctx context.Context, studentID, inviteID primitive.ObjectID) (models.Invite, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": studentID, "join_requests._id": inviteID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.Invite{}, ErrInviteNotFound
	}
	if err != nil {
		return models.Invite{}, err
	}
	for _, jr := range u.JoinRequests {
		if jr.ID == inviteID {
			return jr, nil
		}
	}
	return models.Invite{}, ErrInviteNotFound
}

// TakeInvite removes the invite by id and returns it. ErrInviteNotFound means
// it was already accepted, rejected, or withdrawn.
func (s *Store) TakeInvite(ctx context.Context, studentID, inviteID primitive.ObjectID) (models.Invite, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": studentID, "join_requests._id": inviteID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.Invite{}, ErrInviteNotFound
	}
	if err != nil {
		return models.Invite{}, err
	}

	var inv models.Invite
	for _, jr := range u.JoinRequests {
		if jr.ID == inviteID {
			inv = jr
			break
		}
	}

	_, err = s.c.UpdateByID(ctx, studentID, bson.M{
		"$pull": bson.M{"join_requests": bson.M{"_id": inviteID}},
	})
	if err != nil {
		return models.Invite{}, err
	}
	return inv, nil
}

// ClearInvites drops every pending invite for the student. Used once the
// student lands in a group, since the remaining invites can no longer be
// accepted.
func (s *Store) ClearInvites(ctx context.Context, studentID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, studentID, bson.M{
		"$set": bson.M{"join_requests": []models.Invite{}},
	})
	return err
}
