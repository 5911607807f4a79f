// internal/app/features/proposals/handler.go
package proposals

import (
	groupstore "github.com/bracu-research/thesishub/internal/app/store/groups"
	proposalstore "github.com/bracu-research/thesishub/internal/app/store/proposals"
	userstore "github.com/bracu-research/thesishub/internal/app/store/users"
	"github.com/bracu-research/thesishub/internal/app/system/events"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the proposals feature.
// AllowResubmit controls whether a group may resubmit to a supervisor who
// already rejected one of its proposals.
type Handler struct {
	DB            *mongo.Database
	Proposals     *proposalstore.Store
	Groups        *groupstore.Store
	Users         *userstore.Store
	Events        *events.Dispatcher
	Log           *zap.Logger
	AllowResubmit bool
}

func NewHandler(db *mongo.Database, dispatcher *events.Dispatcher, allowResubmit bool, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Proposals:     proposalstore.New(db),
		Groups:        groupstore.New(db),
		Users:         userstore.New(db),
		Events:        dispatcher,
		Log:           logger,
		AllowResubmit: allowResubmit,
	}
}
