// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"time"

	"github.com/bracu-research/thesishub/internal/app/system/normalize"
	"github.com/bracu-research/thesishub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

var (
	// ErrMembershipConflict surfaces the unique index on member_ids and
	// admin_id: the student already belongs to (or created) a group.
	ErrMembershipConflict = errors.New("student already belongs to a group")

	// ErrGroupFull is returned when a guarded add finds the group at capacity.
	ErrGroupFull = errors.New("group is full")

	// ErrRequestNotFound is returned when a pending join request is missing,
	// typically because it was already decided.
	ErrRequestNotFound = errors.New("join request not found")
)

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// GetByMember returns the group the student belongs to (as admin or member).
// Returns mongo.ErrNoDocuments if the student is groupless.
func (s *Store) GetByMember(ctx context.Context, studentID primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"member_ids": studentID}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// List returns all groups, optionally filtered by status and/or a research
// interest. Empty filter values are skipped.
func (s *Store) List(ctx context.Context, status, interest string) ([]models.Group, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = normalize.QueryParam(status)
	}
	if interest != "" {
		filter["research_interests"] = normalize.QueryParam(interest)
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	groups := []models.Group{}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// ListBySupervisor returns the groups assigned to a supervisor.
func (s *Store) ListBySupervisor(ctx context.Context, supervisorID primitive.ObjectID) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, bson.M{"assigned_supervisor_id": supervisorID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	groups := []models.Group{}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Create inserts a new group with the admin as its first member. The unique
// indexes on admin_id and member_ids turn a second group by the same student
// into ErrMembershipConflict.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	g.MemberIDs = []primitive.ObjectID{g.AdminID}
	if g.MaxMembers <= 0 {
		g.MaxMembers = models.DefaultMaxMembers
	}
	g.ResearchInterests = normalize.Interests(g.ResearchInterests)
	g.PendingJoinRequests = []models.JoinRequest{}
	g.Status = models.GroupForming
	g.CreatedAt = now
	g.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, ErrMembershipConflict
		}
		return models.Group{}, err
	}
	return g, nil
}

// AddMember appends the student to member_ids, guarded so the write only
// lands while the group is below capacity. A duplicate-key error from the
// member_ids index means the student got into another group first.
func (s *Store) AddMember(ctx context.Context, groupID, studentID primitive.ObjectID) (models.Group, error) {
	var g models.Group
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{
			"_id":        groupID,
			"member_ids": bson.M{"$ne": studentID},
			"$expr":      bson.M{"$lt": bson.A{bson.M{"$size": "$member_ids"}, "$max_members"}},
		},
		bson.M{
			"$push": bson.M{"member_ids": studentID},
			"$pull": bson.M{"pending_join_requests": bson.M{"student_id": studentID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return models.Group{}, ErrGroupFull
	}
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, ErrMembershipConflict
		}
		return models.Group{}, err
	}

	// Capacity reached on this add: flip the lifecycle state.
	if g.IsFull() && g.Status == models.GroupForming {
		if err := s.SetStatus(ctx, g.ID, models.GroupFull); err != nil {
			return models.Group{}, err
		}
		g.Status = models.GroupFull
	}
	return g, nil
}

// AddJoinRequest records a student-initiated request on the group, skipping
// duplicates from the same student.
func (s *Store) AddJoinRequest(ctx context.Context, groupID, studentID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": groupID, "pending_join_requests.student_id": bson.M{"$ne": studentID}},
		bson.M{"$push": bson.M{"pending_join_requests": models.JoinRequest{
			StudentID: studentID,
			Date:      time.Now().UTC(),
		}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Duplicate request, or the group vanished; either way nothing new
		// was recorded.
		if err := s.c.FindOne(ctx, bson.M{"_id": groupID}).Err(); err != nil {
			return err
		}
	}
	return nil
}

// RemoveJoinRequest drops a pending request. ErrRequestNotFound means it was
// already decided.
func (s *Store) RemoveJoinRequest(ctx context.Context, groupID, studentID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, groupID, bson.M{
		"$pull": bson.M{"pending_join_requests": bson.M{"student_id": studentID}},
	})
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// RemoveJoinRequestsEverywhere pulls the student's pending requests from
// every group. Used when the student lands in a group and the outstanding
// requests can no longer be accepted.
func (s *Store) RemoveJoinRequestsEverywhere(ctx context.Context, studentID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"pending_join_requests.student_id": studentID},
		bson.M{"$pull": bson.M{"pending_join_requests": bson.M{"student_id": studentID}}},
	)
	return err
}

// SetStatus updates the lifecycle state.
func (s *Store) SetStatus(ctx context.Context, groupID primitive.ObjectID, status string) error {
	_, err := s.c.UpdateByID(ctx, groupID, bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now().UTC()},
	})
	return err
}

// SetSupervisor records the assigned supervisor and moves the group to the
// supervised state.
func (s *Store) SetSupervisor(ctx context.Context, groupID, supervisorID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, groupID, bson.M{
		"$set": bson.M{
			"assigned_supervisor_id": supervisorID,
			"status":                 models.GroupSupervised,
			"updated_at":             time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RecordProposalTarget remembers that the group has a proposal out to the
// supervisor. $addToSet keeps resubmissions from duplicating the entry.
func (s *Store) RecordProposalTarget(ctx context.Context, groupID, supervisorID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, groupID, bson.M{
		"$addToSet": bson.M{"proposals_submitted_to": supervisorID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// Delete removes a group document. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
