// internal/app/policy/meetingpolicy/meetingpolicy.go
package meetingpolicy

import (
	"context"

	"github.com/bracu-research/thesishub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CanManage reports whether supervisorID may modify the given meeting: the
// caller must be the meeting's supervisor AND still be the assigned
// supervisor of the meeting's group. Returns an error only on database
// failure, so callers can distinguish "forbidden" from "broken".
func CanManage(ctx context.Context, db *mongo.Database, meeting models.Meeting, supervisorID primitive.ObjectID) (bool, error) {
	if meeting.SupervisorID != supervisorID {
		return false, nil
	}

	var group models.Group
	err := db.Collection("groups").FindOne(ctx, bson.M{"_id": meeting.GroupID}).Decode(&group)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return group.AssignedSupervisorID != nil && *group.AssignedSupervisorID == supervisorID, nil
}

// CanSchedule reports whether supervisorID may create a meeting for the
// group: they must be that group's assigned supervisor.
func CanSchedule(ctx context.Context, db *mongo.Database, groupID, supervisorID primitive.ObjectID) (bool, models.Group, error) {
	var group models.Group
	err := db.Collection("groups").FindOne(ctx, bson.M{"_id": groupID}).Decode(&group)
	if err == mongo.ErrNoDocuments {
		return false, models.Group{}, nil
	}
	if err != nil {
		return false, models.Group{}, err
	}
	ok := group.AssignedSupervisorID != nil && *group.AssignedSupervisorID == supervisorID
	return ok, group, nil
}
