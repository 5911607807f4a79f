// internal/app/features/meetings/handler.go
package meetings

import (
	groupstore "github.com/bracu-research/thesishub/internal/app/store/groups"
	meetingstore "github.com/bracu-research/thesishub/internal/app/store/meetings"
	"github.com/bracu-research/thesishub/internal/app/system/events"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the meetings feature.
type Handler struct {
	DB       *mongo.Database
	Meetings *meetingstore.Store
	Groups   *groupstore.Store
	Events   *events.Dispatcher
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, dispatcher *events.Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Meetings: meetingstore.New(db),
		Groups:   groupstore.New(db),
		Events:   dispatcher,
		Log:      logger,
	}
}
