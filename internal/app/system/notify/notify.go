// internal/app/system/notify/notify.go

// Package notify appends notification records to user documents. Delivery is
// best-effort: a failure mid-batch leaves earlier recipients notified, which
// is acceptable for an inbox that users poll anyway.
package notify

import (
	"context"

	"github.com/bracu-research/thesishub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Notifier fans a notification record out to a set of users.
type Notifier struct {
	users *mongo.Collection
	log   *zap.Logger
}

// New constructs a Notifier over the users collection.
func New(db *mongo.Database, logger *zap.Logger) *Notifier {
	return &Notifier{users: db.Collection("users"), log: logger}
}

// Push appends note to each listed user's inbox and marks the inbox unseen.
// Unknown ids are silently dropped (the filter simply matches fewer
// documents); an empty recipient set is a no-op.
func (n *Notifier) Push(ctx context.Context, userIDs []primitive.ObjectID, note models.Notification) {
	if len(userIDs) == 0 {
		return
	}
	res, err := n.users.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": userIDs}},
		bson.M{
			"$push": bson.M{"notifications": note},
			"$set":  bson.M{"is_seen": false},
		},
	)
	if err != nil {
		n.log.Error("notification fan-out failed",
			zap.Int("recipients", len(userIDs)),
			zap.Error(err))
		return
	}
	if res.ModifiedCount < int64(len(userIDs)) {
		n.log.Debug("notification fan-out skipped unknown users",
			zap.Int64("delivered", res.ModifiedCount),
			zap.Int("requested", len(userIDs)))
	}
}

// PushAll appends note to every user's inbox.
func (n *Notifier) PushAll(ctx context.Context, note models.Notification) {
	_, err := n.users.UpdateMany(ctx,
		bson.M{},
		bson.M{
			"$push": bson.M{"notifications": note},
			"$set":  bson.M{"is_seen": false},
		},
	)
	if err != nil {
		n.log.Error("broadcast notification failed", zap.Error(err))
	}
}
