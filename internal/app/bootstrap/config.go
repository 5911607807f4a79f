// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for ThesisHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, auth_signing_key, etc.
//   - Environment variables: THESISHUB_MONGO_URI, THESISHUB_AUTH_SIGNING_KEY, etc.
//   - Command-line flags: --mongo_uri, --auth_signing_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "thesis_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Bearer-token auth
	{Name: "auth_signing_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "JWT signing key (must be strong in production)"},
	{Name: "auth_issuer", Default: "thesishub", Desc: "Issuer claim on issued tokens"},
	{Name: "auth_token_ttl", Default: "24h", Desc: "Token lifetime (e.g., 24h, 8h)"},

	// Group policy
	{Name: "group_max_members", Default: 5, Desc: "Group capacity, admin included"},
	{Name: "allow_resubmit_after_reject", Default: true, Desc: "Allow proposal resubmission to a supervisor who rejected one"},

	// External paper search
	{Name: "arxiv_base_url", Default: "", Desc: "arXiv query endpoint (blank uses the public API)"},
	{Name: "arxiv_timeout", Default: "15s", Desc: "Upstream request timeout for paper search"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, THESISHUB_* for app), and
// command-line flags, merging with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "THESISHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		AuthSigningKey: appValues.String("auth_signing_key"),
		AuthIssuer:     appValues.String("auth_issuer"),
		AuthTokenTTL:   appValues.Duration("auth_token_ttl", 24*time.Hour),

		GroupMaxMembers:      appValues.Int("group_max_members"),
		AllowResubmitAfterNo: appValues.Bool("allow_resubmit_after_reject"),

		ArxivBaseURL: appValues.String("arxiv_base_url"),
		ArxivTimeout: appValues.Duration("arxiv_timeout", 15*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation before any
// connections are attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.GroupMaxMembers < 1 {
		return fmt.Errorf("group_max_members must be at least 1, got %d", appCfg.GroupMaxMembers)
	}
	return nil
}
