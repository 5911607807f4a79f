// internal/app/features/groups/handler.go
package groups

import (
	groupstore "github.com/bracu-research/thesishub/internal/app/store/groups"
	userstore "github.com/bracu-research/thesishub/internal/app/store/users"
	"github.com/bracu-research/thesishub/internal/app/system/events"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature. Every
// membership path (create, join, invite, request) flows through it so the
// capacity and single-group checks stay in one place.
type Handler struct {
	DB         *mongo.Database
	Groups     *groupstore.Store
	Users      *userstore.Store
	Events     *events.Dispatcher
	Log        *zap.Logger
	MaxMembers int
}

func NewHandler(db *mongo.Database, dispatcher *events.Dispatcher, maxMembers int, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Groups:     groupstore.New(db),
		Users:      userstore.New(db),
		Events:     dispatcher,
		Log:        logger,
		MaxMembers: maxMembers,
	}
}
