// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	announcementsfeature "github.com/bracu-research/thesishub/internal/app/features/announcements"
	faqsfeature "github.com/bracu-research/thesishub/internal/app/features/faqs"
	groupsfeature "github.com/bracu-research/thesishub/internal/app/features/groups"
	healthfeature "github.com/bracu-research/thesishub/internal/app/features/health"
	loginfeature "github.com/bracu-research/thesishub/internal/app/features/login"
	meetingsfeature "github.com/bracu-research/thesishub/internal/app/features/meetings"
	papersfeature "github.com/bracu-research/thesishub/internal/app/features/papers"
	proposalsfeature "github.com/bracu-research/thesishub/internal/app/features/proposals"
	usersfeature "github.com/bracu-research/thesishub/internal/app/features/users"
	userstore "github.com/bracu-research/thesishub/internal/app/store/users"
	"github.com/bracu-research/thesishub/internal/app/system/arxiv"
	"github.com/bracu-research/thesishub/internal/app/system/auth"
	"github.com/bracu-research/thesishub/internal/app/system/events"
	"github.com/bracu-research/thesishub/internal/app/system/notify"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It builds the token manager, the
// notification dispatcher, and every feature handler, then mounts the
// feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	tokens, err := auth.NewTokenManager(appCfg.AuthSigningKey, appCfg.AuthIssuer, appCfg.AuthTokenTTL, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user fetch on every authenticated request: role changes and
	// deletions take effect immediately.
	users := userstore.New(db)
	tokens.SetUserFetcher(userstore.NewFetcher(users))

	dispatcher := events.NewDispatcher(notify.New(db, logger), logger)

	r := chi.NewRouter()

	// Global auth middleware: loads the bearer token's user into context.
	r.Use(tokens.LoadTokenUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(users, tokens, logger)
	r.Mount("/auth", loginfeature.Routes(loginHandler))

	// Users and profiles
	usersHandler := usersfeature.NewHandler(db, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler))

	// Thesis groups and membership
	groupsHandler := groupsfeature.NewHandler(db, dispatcher, appCfg.GroupMaxMembers, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler))

	// Proposals and admin overrides
	proposalsHandler := proposalsfeature.NewHandler(db, dispatcher, appCfg.AllowResubmitAfterNo, logger)
	r.Mount("/proposals", proposalsfeature.Routes(proposalsHandler))
	r.Mount("/admin", proposalsfeature.AdminRoutes(proposalsHandler))

	// Supervision meetings
	meetingsHandler := meetingsfeature.NewHandler(db, dispatcher, logger)
	r.Mount("/meetings", meetingsfeature.Routes(meetingsHandler))

	// Announcements and FAQs
	announcementsHandler := announcementsfeature.NewHandler(db, dispatcher, logger)
	r.Mount("/announcements", announcementsfeature.Routes(announcementsHandler))

	faqsHandler := faqsfeature.NewHandler(db, logger)
	r.Mount("/faqs", faqsfeature.Routes(faqsHandler))

	// External paper search (top-level paths)
	papersHandler := papersfeature.NewHandler(arxiv.New(appCfg.ArxivBaseURL, appCfg.ArxivTimeout), logger)
	r.Mount("/", papersfeature.Routes(papersHandler))

	return r, nil
}
