// internal/app/store/meetings/meetingstore.go
package meetingstore

import (
	"context"
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
	return &Store{c: db.Collection("meetings")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Meeting, error) {
	var m models.Meeting
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return models.Meeting{}, err
	}
	return m, nil
}

func (s *Store) Create(ctx context.Context, m models.Meeting) (models.Meeting, error) {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	if m.Status == "" {
		m.Status = models.MeetingScheduled
	}
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Meeting{}, err
	}
	return m, nil
}

// ListBySupervisor returns a supervisor's meetings, optionally filtered by
// status and/or group.
func (s *Store) ListBySupervisor(ctx context.Context, supervisorID primitive.ObjectID, status string, groupID *primitive.ObjectID) ([]models.Meeting, error) {
	filter := bson.M{"supervisor_id": supervisorID}
	if status != "" {
		filter["status"] = status
	}
	if groupID != nil {
		filter["group_id"] = *groupID
	}
	return s.list(ctx, filter)
}

// ListByGroup returns a group's meetings, optionally filtered by status.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID, status string) ([]models.Meeting, error) {
	filter := bson.M{"group_id": groupID}
	if status != "" {
		filter["status"] = status
	}
	return s.list(ctx, filter)
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Meeting, error) {
	sort := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cur, err := s.c.Find(ctx, filter, sort)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	meetings := []models.Meeting{}
	if err := cur.All(ctx, &meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

// Update holds the fields a supervisor may change on a meeting. Nil pointers
// mean "leave unchanged".
type Update struct {
	Title  *string
	Date   *string
	Time   *string
	Link   *string
	Status *string
}

// Apply applies a partial update to the meeting.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, upd Update) (models.Meeting, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Date != nil {
		set["date"] = *upd.Date
	}
	if upd.Time != nil {
		set["time"] = *upd.Time
	}
	if upd.Link != nil {
		set["link"] = *upd.Link
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}

	var m models.Meeting
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if err != nil {
		return models.Meeting{}, err
	}
	return m, nil
}

// Delete removes a meeting. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
