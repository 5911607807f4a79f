// internal/app/store/proposals/proposalstore.go
package proposalstore

import (
	"context"
	"errors"
	"time"

	"github.com/bracu-research/thesishub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("proposals")}
}

// ErrAlreadyDecided is returned when a decision targets a proposal that is
// no longer Pending.
var ErrAlreadyDecided = errors.New("proposal has already been decided")

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Proposal, error) {
	var p models.Proposal
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Proposal{}, err
	}
	return p, nil
}

// Create inserts a new Pending proposal.
func (s *Store) Create(ctx context.Context, p models.Proposal) (models.Proposal, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.Status = models.ProposalPending
	p.AdminApproved = false
	p.SupervisorApproved = false
	if p.Feedback == nil {
		p.Feedback = []models.FeedbackEntry{}
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Proposal{}, err
	}
	return p, nil
}

// PendingExists reports whether the group already has a Pending proposal out
// to the supervisor.
func (s *Store) PendingExists(ctx context.Context, groupID, supervisorID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"group_id":      groupID,
		"supervisor_id": supervisorID,
		"status":        models.ProposalPending,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RejectedExists reports whether the supervisor previously rejected a
// proposal from the group.
func (s *Store) RejectedExists(ctx context.Context, groupID, supervisorID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"group_id":      groupID,
		"supervisor_id": supervisorID,
		"status":        models.ProposalRejected,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ApprovedExists reports whether the group already has an approved proposal.
func (s *Store) ApprovedExists(ctx context.Context, groupID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"group_id": groupID,
		"status":   models.ProposalApproved,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListBySupervisor returns proposals addressed to the supervisor, optionally
// filtered by status.
func (s *Store) ListBySupervisor(ctx context.Context, supervisorID primitive.ObjectID, status string) ([]models.Proposal, error) {
	filter := bson.M{"supervisor_id": supervisorID}
	if status != "" {
		filter["status"] = status
	}
	return s.list(ctx, filter)
}

// ListByGroup returns every proposal a group has submitted.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Proposal, error) {
	return s.list(ctx, bson.M{"group_id": groupID})
}

// ListAll returns every proposal, optionally filtered by status.
func (s *Store) ListAll(ctx context.Context, status string) ([]models.Proposal, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.list(ctx, filter)
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Proposal, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	proposals := []models.Proposal{}
	if err := cur.All(ctx, &proposals); err != nil {
		return nil, err
	}
	return proposals, nil
}

// Approve flips a Pending proposal to Approved. The filter on status makes
// the transition single-shot: a second approval returns ErrAlreadyDecided.
func (s *Store) Approve(ctx context.Context, id primitive.ObjectID) (models.Proposal, error) {
	var p models.Proposal
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.ProposalPending},
		bson.M{"$set": bson.M{
			"status":              models.ProposalApproved,
			"supervisor_approved": true,
			"updated_at":          time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err == mongo.ErrNoDocuments {
		// Missing or already decided; let the caller disambiguate.
		if err := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			return models.Proposal{}, err
		}
		return models.Proposal{}, ErrAlreadyDecided
	}
	if err != nil {
		return models.Proposal{}, err
	}
	return p, nil
}

// ForceApprove is the admin override: it approves regardless of the current
// status. Used when an admin assigns a supervisor directly.
func (s *Store) ForceApprove(ctx context.Context, id primitive.ObjectID) (models.Proposal, error) {
	var p models.Proposal
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":              models.ProposalApproved,
			"supervisor_approved": true,
			"admin_approved":      true,
			"updated_at":          time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		return models.Proposal{}, err
	}
	return p, nil
}

// Reject flips a Pending proposal to Rejected, optionally appending feedback.
func (s *Store) Reject(ctx context.Context, id primitive.ObjectID, feedback string) (models.Proposal, error) {
	update := bson.M{
		"$set": bson.M{
			"status":     models.ProposalRejected,
			"updated_at": time.Now().UTC(),
		},
	}
	if feedback != "" {
		update["$push"] = bson.M{"feedback": models.FeedbackEntry{
			Text:      feedback,
			CreatedAt: time.Now().UTC(),
		}}
	}

	var p models.Proposal
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.ProposalPending},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err == mongo.ErrNoDocuments {
		if err := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			return models.Proposal{}, err
		}
		return models.Proposal{}, ErrAlreadyDecided
	}
	if err != nil {
		return models.Proposal{}, err
	}
	return p, nil
}

// AddFeedback appends a feedback note without changing the status.
func (s *Store) AddFeedback(ctx context.Context, id primitive.ObjectID, text string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"feedback": models.FeedbackEntry{
			Text:      text,
			CreatedAt: time.Now().UTC(),
		}},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteSiblings removes every other proposal belonging to the group. Called
// inside the approval transaction so the group ends up with exactly one
// live proposal.
func (s *Store) DeleteSiblings(ctx context.Context, groupID, keepID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"group_id": groupID,
		"_id":      bson.M{"$ne": keepID},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
